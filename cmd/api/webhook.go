package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"personal-assistant/config"
	"personal-assistant/pkg/log"
)

const (
	webhookPath        = "/webhook/telegram"
	ngrokAttempts      = 10
	ngrokRetryInterval = 3 * time.Second
)

type ngrokTunnelsResponse struct {
	Tunnels []struct {
		PublicURL string `json:"public_url"`
		Proto     string `json:"proto"`
	} `json:"tunnels"`
}

// resolveWebhookURL returns the configured webhook URL, or asks the local
// ngrok agent for a public tunnel. An empty result means no webhook is set.
func resolveWebhookURL(ctx context.Context, l log.Logger, cfg config.TelegramConfig) string {
	if cfg.WebhookURL != "" {
		return cfg.WebhookURL
	}
	if cfg.NgrokAPIURL == "" {
		return ""
	}

	publicURL, err := detectNgrokURL(ctx, cfg.NgrokAPIURL)
	if err != nil {
		l.Warnf(ctx, "Could not detect ngrok URL: %v", err)
		return ""
	}
	l.Infof(ctx, "Auto-detected ngrok URL: %s", publicURL)
	return strings.TrimRight(publicURL, "/") + webhookPath
}

// detectNgrokURL polls the ngrok local API until a tunnel shows up and
// returns its public URL, preferring HTTPS.
func detectNgrokURL(ctx context.Context, apiBase string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= ngrokAttempts; attempt++ {
		publicURL, err := fetchTunnel(ctx, client, apiBase+"/api/tunnels")
		if err == nil && publicURL != "" {
			return publicURL, nil
		}
		lastErr = err

		if attempt < ngrokAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(ngrokRetryInterval):
			}
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("ngrok API not reachable after %d attempts: %w", ngrokAttempts, lastErr)
	}
	return "", fmt.Errorf("ngrok has no active tunnels after %d attempts", ngrokAttempts)
}

func fetchTunnel(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create ngrok API request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var tunnels ngrokTunnelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tunnels); err != nil {
		return "", fmt.Errorf("decode ngrok API response: %w", err)
	}

	for _, t := range tunnels.Tunnels {
		if t.Proto == "https" {
			return t.PublicURL, nil
		}
	}
	if len(tunnels.Tunnels) > 0 {
		return tunnels.Tunnels[0].PublicURL, nil
	}
	return "", nil
}

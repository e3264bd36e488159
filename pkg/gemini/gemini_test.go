package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"personal-assistant/pkg/gemini"
)

func TestNew_Validate(t *testing.T) {
	if _, err := gemini.New(gemini.Config{}); err == nil {
		t.Fatal("expected error without API key")
	}

	client, err := gemini.New(gemini.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != gemini.DefaultModel {
		t.Errorf("Model() = %q, want default %q", client.Model(), gemini.DefaultModel)
	}
}

func TestGenerateContent(t *testing.T) {
	var captured map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("key") != "test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		captured = nil
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		contents := captured["contents"].([]any)
		first := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"]
		if first == "cause_429" {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"quota exhausted"}}`))
			return
		}
		if first == "cause_500" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}

		w.Write([]byte(`{
			"candidates": [
				{"content": {"role": "model", "parts": [{"text": "{\"reply\":\"ok\"}"}]}, "finishReason": "STOP"}
			],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 5, "totalTokenCount": 17}
		}`))
	}))
	defer ts.Close()

	client, err := gemini.New(gemini.Config{
		APIKey: "test-api-key",
		Model:  "test-model",
		APIURL: ts.URL,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	t.Run("Success", func(t *testing.T) {
		resp, err := client.GenerateContent(context.Background(), &gemini.Request{
			SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: "be brief"}}},
			Messages: []gemini.Content{
				{Role: "user", Parts: []gemini.Part{{Text: "hello"}}},
			},
			Temperature: 0.2,
			JSONOutput:  true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resp.Content.Parts[0].Text; got != `{"reply":"ok"}` {
			t.Errorf("unexpected text %q", got)
		}
		if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 5 || resp.Usage.TotalTokens != 17 {
			t.Errorf("unexpected usage %+v", resp.Usage)
		}
		if resp.FinishReason != "STOP" {
			t.Errorf("FinishReason = %q", resp.FinishReason)
		}

		if _, ok := captured["system_instruction"]; !ok {
			t.Errorf("system_instruction not sent")
		}
		genCfg, _ := captured["generationConfig"].(map[string]any)
		if genCfg["responseMimeType"] != "application/json" {
			t.Errorf("responseMimeType not set: %v", genCfg)
		}
	})

	t.Run("Server error", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &gemini.Request{
			Messages: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: "cause_500"}}}},
		})
		if err == nil || !strings.Contains(err.Error(), "500") {
			t.Fatalf("expected 500 error, got %v", err)
		}
	})

	t.Run("Rate limited", func(t *testing.T) {
		_, err := client.GenerateContent(context.Background(), &gemini.Request{
			Messages: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: "cause_429"}}}},
		})
		if !errors.Is(err, gemini.ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("Empty request", func(t *testing.T) {
		if _, err := client.GenerateContent(context.Background(), &gemini.Request{}); err == nil {
			t.Fatal("expected error for empty request")
		}
	})
}

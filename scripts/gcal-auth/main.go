// Command gcal-auth authorizes Google Calendar access for an OAuth Desktop
// client and writes token.json next to the running service.
//
// Usage:
//
//	go run ./scripts/gcal-auth -credentials google-credentials.json
//
// Service Account credentials need no token and should not use this tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"personal-assistant/pkg/gcalendar"
)

func main() {
	credsPath := flag.String("credentials", "google-credentials.json", "OAuth Desktop App credentials file")
	tokenPath := flag.String("token", gcalendar.DefaultTokenPath, "where to write the OAuth token (google_calendar.token_path)")
	calendarID := flag.String("calendar", "primary", "calendar to verify access against")
	flag.Parse()

	data, err := os.ReadFile(*credsPath)
	if err != nil {
		log.Fatalf("Failed to read credentials file %q: %v", *credsPath, err)
	}

	config, err := google.ConfigFromJSON(data, calendar.CalendarScope)
	if err != nil {
		log.Fatalf("Failed to parse credentials: %v\nMake sure %q is an OAuth Desktop App credentials file.", err, *credsPath)
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Println("=================================================================")
	fmt.Println("STEP 1: Open this URL in a browser and sign in with your Google account:")
	fmt.Println()
	fmt.Println(authURL)
	fmt.Println()
	fmt.Println("=================================================================")
	fmt.Print("STEP 2: Paste the authorization code here and press Enter: ")

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		log.Fatalf("Failed to read authorization code: %v", err)
	}

	ctx := context.Background()
	tok, err := config.Exchange(ctx, code)
	if err != nil {
		log.Fatalf("Failed to exchange authorization code: %v", err)
	}

	if err := writeToken(*tokenPath, tok); err != nil {
		log.Fatalf("Failed to write %s: %v", *tokenPath, err)
	}
	fmt.Printf("\nToken saved to %s\n", *tokenPath)

	client, err := gcalendar.NewClientFromCredentialsFile(ctx, *credsPath, *tokenPath)
	if err != nil {
		log.Fatalf("Token saved but the client could not be built: %v", err)
	}
	now := time.Now()
	events, err := client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: *calendarID,
		TimeMin:    now,
		TimeMax:    now.AddDate(0, 0, 7),
	})
	if err != nil {
		log.Fatalf("Token saved but listing %q failed: %v", *calendarID, err)
	}
	fmt.Printf("Access verified: %d event(s) on %q in the next 7 days.\n", len(events), *calendarID)
	fmt.Println("Restart the service to enable calendar sync.")
}

func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(tok)
}

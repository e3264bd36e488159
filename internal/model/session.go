package model

import "time"

// Platform is the channel a session was opened on.
type Platform string

const (
	PlatformTelegram Platform = "telegram"
	PlatformWeb      Platform = "web"
	PlatformMobile   Platform = "mobile"
	PlatformAPI      Platform = "api"
)

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformTelegram, PlatformWeb, PlatformMobile, PlatformAPI:
		return true
	}
	return false
}

// Session is a conversation thread between a user and the assistant.
// A nil EndedAt marks the session as active.
type Session struct {
	ID             string
	UserID         string
	Platform       Platform
	StartedAt      time.Time
	EndedAt        *time.Time
	CurrentSummary string
	Metadata       map[string]any
}

// Active reports whether the session has not been ended.
func (s Session) Active() bool {
	return s.EndedAt == nil
}

package model

import "time"

const (
	DefaultTimezone   = "UTC"
	DefaultDigestHour = 8
)

// User is the owner of every other entity.
type User struct {
	ID             string
	Username       string
	TelegramChatID int64 // 0 means the user has no reachable channel
	Timezone       string
	DigestEnabled  bool
	DigestHour     int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Reachable reports whether notifications can be delivered to the user.
func (u User) Reachable() bool {
	return u.TelegramChatID != 0
}

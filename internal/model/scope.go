package model

// Scope identifies the user an operation runs on behalf of.
type Scope struct {
	UserID   string
	Username string
	Timezone string
}

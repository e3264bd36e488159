package model

import "time"

const DefaultNoteCategory = "general"

type Note struct {
	ID        string
	UserID    string
	Content   string
	Category  string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

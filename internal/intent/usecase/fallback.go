package usecase

import (
	"strings"

	"personal-assistant/internal/intent"
)

const (
	fallbackGeneric = "The assistant is temporarily unavailable. Please try again in a minute."
	fallbackTask    = "I can't reach the assistant right now, so the task was not saved. Please send it again in a minute."
	fallbackEvent   = "I can't reach the assistant right now, so the event was not scheduled. Please send it again in a minute."
	fallbackNote    = "I can't reach the assistant right now, so the note was not saved. Please send it again in a minute."
)

var (
	createWords = []string{"create", "add", "new", "remind", "schedule", "save", "write down"}
	taskWords   = []string{"task", "todo", "to-do", "to do"}
	eventWords  = []string{"meeting", "event", "appointment", "call", "calendar"}
	noteWords   = []string{"note", "remember", "write down"}
)

// fallback guesses the kind of request from keywords so the user knows what
// did not happen. It never produces actions.
func fallback(text string) intent.Result {
	lower := strings.ToLower(text)
	reply := fallbackGeneric
	if containsAny(lower, createWords) {
		switch {
		case containsAny(lower, taskWords):
			reply = fallbackTask
		case containsAny(lower, eventWords):
			reply = fallbackEvent
		case containsAny(lower, noteWords):
			reply = fallbackNote
		}
	}
	return intent.Result{Reply: reply, Fallback: true}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

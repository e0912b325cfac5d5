package domain

import "time"

// JournalKind classifies an adventure journal entry.
type JournalKind string

const (
	JournalEncounter JournalKind = "encounter"
	JournalCancel    JournalKind = "cancel"
	JournalGuardrail JournalKind = "guardrail"
	JournalError     JournalKind = "error"
)

// JournalEntry is one line in the adventure journal.
type JournalEntry struct {
	Kind    JournalKind
	Species string
	Message string
	At      time.Time
}

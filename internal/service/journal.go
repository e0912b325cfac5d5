package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

// journalSize caps the adventure journal; older entries fall off.
const journalSize = 50

// journalChannel is the pub/sub channel journal events fan out on.
const journalChannel = "pokegear:journal"

// Journal is a fixed-size ring of recent console events. Appends are
// mirrored to the signal bus when one is attached.
type Journal struct {
	mu      sync.Mutex
	entries []domain.JournalEntry
	bus     domain.SignalBus
	logger  *slog.Logger
}

// NewJournal creates a journal. bus may be nil.
func NewJournal(bus domain.SignalBus, logger *slog.Logger) *Journal {
	return &Journal{
		entries: make([]domain.JournalEntry, 0, journalSize),
		bus:     bus,
		logger:  logger.With(slog.String("component", "journal")),
	}
}

// Append records an entry, evicting the oldest once the ring is full.
func (j *Journal) Append(ctx context.Context, kind domain.JournalKind, species, message string) {
	entry := domain.JournalEntry{
		Kind:    kind,
		Species: species,
		Message: message,
		At:      time.Now().UTC(),
	}

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	if len(j.entries) > journalSize {
		j.entries = j.entries[len(j.entries)-journalSize:]
	}
	j.mu.Unlock()

	if j.bus != nil {
		payload, err := json.Marshal(entry)
		if err == nil {
			err = j.bus.Publish(ctx, journalChannel, payload)
		}
		if err != nil {
			j.logger.Warn("journal publish failed", slog.String("error", err.Error()))
		}
	}
}

// Entries returns the journal newest-first.
func (j *Journal) Entries() []domain.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]domain.JournalEntry, len(j.entries))
	for i, e := range j.entries {
		out[len(j.entries)-1-i] = e
	}
	return out
}

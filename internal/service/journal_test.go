package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/pokegear/internal/domain"
)

func TestJournalRingEvictsOldest(t *testing.T) {
	j := NewJournal(nil, slog.Default())
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		j.Append(ctx, domain.JournalEncounter, "Dragonite", fmt.Sprintf("entry %d", i))
	}

	entries := j.Entries()
	require.Len(t, entries, journalSize)
	require.Equal(t, "entry 59", entries[0].Message, "newest first")
	require.Equal(t, "entry 10", entries[len(entries)-1].Message)
}

type captureBus struct {
	channels []string
	payloads [][]byte
	err      error
}

func (b *captureBus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.channels = append(b.channels, channel)
	b.payloads = append(b.payloads, payload)
	return b.err
}

func (b *captureBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	return nil, nil
}

func TestJournalPublishesToBus(t *testing.T) {
	bus := &captureBus{}
	j := NewJournal(bus, slog.Default())

	j.Append(context.Background(), domain.JournalCancel, "Lapras", "cancel-all done")

	require.Len(t, bus.payloads, 1)
	require.Equal(t, journalChannel, bus.channels[0])

	var entry domain.JournalEntry
	require.NoError(t, json.Unmarshal(bus.payloads[0], &entry))
	require.Equal(t, domain.JournalCancel, entry.Kind)
	require.Equal(t, "Lapras", entry.Species)
}

func TestJournalBusFailureKeepsEntry(t *testing.T) {
	bus := &captureBus{err: fmt.Errorf("redis down")}
	j := NewJournal(bus, slog.Default())

	j.Append(context.Background(), domain.JournalError, "Umbreon", "boom")
	require.Len(t, j.Entries(), 1)
}

package domain

import "time"

// PriceQuote is one species' mark and last price from a single poll.
type PriceQuote struct {
	Species   string
	Symbol    string
	Mark      float64
	Last      float64
	Change24h float64
	FetchedAt time.Time
}

// PriceSnapshot is an immutable view of the most recent completed poll.
// Readers receive the whole snapshot; a new poll replaces it atomically.
type PriceSnapshot struct {
	Quotes  map[string]PriceQuote // keyed by species name
	Dropped int                   // tickers skipped this poll
	TakenAt time.Time
}

// Quote returns the quote for a species, if present in this snapshot.
func (s *PriceSnapshot) Quote(species string) (PriceQuote, bool) {
	q, ok := s.Quotes[species]
	return q, ok
}

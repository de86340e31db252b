// Package memory persists a log of handled utterances so that past
// interactions survive restarts and can be inspected from the CLI. The
// default backend is a local SQLite database in the user's data directory.
//
// Every implementation must be safe for concurrent use.
package memory

import (
	"context"
	"time"
)

// Event is one handled utterance: what was heard, how it was routed and what
// the skill reported back.
type Event struct {
	// ID is a UUID assigned on append.
	ID string
	// Time is when the utterance was handled.
	Time time.Time
	// Input is the raw transcript.
	Input string
	// Intent is the routed intent name; empty when routing found none.
	Intent string
	// Entities are the extracted intent parameters.
	Entities map[string]any
	// Success reports the skill outcome. False for unrouted utterances.
	Success bool
	// Message is the skill's human-readable outcome.
	Message string
	// Data carries the skill's structured outcome details.
	Data map[string]any
}

// Store is an append-only event log.
type Store interface {
	// Append records ev. A zero ID and Time are filled in.
	Append(ctx context.Context, ev *Event) error
	// Recent returns events newest first, filtered by opts.
	Recent(ctx context.Context, opts ...QueryOpt) ([]Event, error)
	// Close releases the underlying storage.
	Close() error
}

// QueryParams holds the resolved parameters from a slice of [QueryOpt].
type QueryParams struct {
	Intent string
	After  time.Time
	Limit  int
}

// QueryOpt is a functional option for [Store.Recent].
type QueryOpt func(*QueryParams)

// WithIntent restricts results to a single intent name.
func WithIntent(name string) QueryOpt {
	return func(p *QueryParams) { p.Intent = name }
}

// WithAfter filters events recorded after t (exclusive).
func WithAfter(t time.Time) QueryOpt {
	return func(p *QueryParams) { p.After = t }
}

// WithLimit caps the number of results. The default is 50.
func WithLimit(n int) QueryOpt {
	return func(p *QueryParams) {
		if n > 0 {
			p.Limit = n
		}
	}
}

// ApplyQueryOpts resolves opts into a [QueryParams] with defaults applied.
func ApplyQueryOpts(opts []QueryOpt) QueryParams {
	p := QueryParams{Limit: 50}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

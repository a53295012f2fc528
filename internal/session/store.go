package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the fixed expiry applied to auth records at write time.
// A record lives at most this long; it is the only cleanup mechanism besides
// an explicit delete.
const DefaultTTL = 300 * time.Second

var (
	// ErrNotFound is returned when no auth record exists for a session id,
	// either because none was saved or because the TTL expired.
	ErrNotFound = errors.New("session: record not found")

	// ErrNotConfigured is returned by every operation when no store backend
	// is configured. All auth-dependent callers degrade uniformly.
	ErrNotConfigured = errors.New("session: store not configured")
)

// Record is the auth record cached under a session id. It bridges the
// popup-based OAuth redirect back to the polling page and the stateless tool
// handlers: whoever holds the session id can resolve the credentials the
// popup deposited.
type Record struct {
	Token      string `json:"token"`
	CustomerID string `json:"customerId"`
}

// Store is the ephemeral session store contract. Implementations must provide
// atomic single-key operations; no multi-key transactions are needed.
type Store interface {
	// Put unconditionally overwrites the record for sessionID with the given
	// expiry.
	Put(ctx context.Context, sessionID string, record Record, ttl time.Duration) error

	// Get returns the record for sessionID without deleting it.
	// Returns ErrNotFound when absent or expired.
	Get(ctx context.Context, sessionID string) (Record, error)

	// Consume returns the record for sessionID and deletes it atomically.
	// A second Consume (or Get) for the same id returns ErrNotFound even if
	// the first succeeded moments earlier; callers must treat that as
	// already-consumed, not as an error.
	Consume(ctx context.Context, sessionID string) (Record, error)

	// Delete removes the record for sessionID. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, sessionID string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// Unavailable returns a Store whose every operation fails with
// ErrNotConfigured. It is used when no Redis URL is configured so that all
// auth-dependent endpoints degrade to a uniform "store not configured" error
// rather than partial functionality.
func Unavailable() Store {
	return unavailableStore{}
}

type unavailableStore struct{}

func (unavailableStore) Put(context.Context, string, Record, time.Duration) error {
	return ErrNotConfigured
}

func (unavailableStore) Get(context.Context, string) (Record, error) {
	return Record{}, ErrNotConfigured
}

func (unavailableStore) Consume(context.Context, string) (Record, error) {
	return Record{}, ErrNotConfigured
}

func (unavailableStore) Delete(context.Context, string) error {
	return ErrNotConfigured
}

func (unavailableStore) Ping(context.Context) error {
	return ErrNotConfigured
}

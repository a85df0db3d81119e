package domain

import (
	"context"
	"crypto"
)

// SigningKey is one public key published by the identity provider.
// Records are immutable once fetched.
type SigningKey struct {
	KeyID     string
	KeyType   string
	Algorithm string
	Use       string
	Key       crypto.PublicKey
}

// KeySet indexes signing keys by key identifier. A KeySet is never mutated
// after construction; refreshes replace it as a whole.
type KeySet map[string]SigningKey

// Lookup returns the key registered under kid.
func (s KeySet) Lookup(kid string) (SigningKey, bool) {
	key, ok := s[kid]
	return key, ok
}

// KeySetProvider hands out the identity provider's current signing keys.
type KeySetProvider interface {
	// Keys returns the cached key set, fetching it on first use.
	Keys(ctx context.Context) (KeySet, error)
	// Refresh signals that the cached set may be stale (e.g. an unknown kid
	// was seen) and returns the freshest set available.
	Refresh(ctx context.Context) (KeySet, error)
}

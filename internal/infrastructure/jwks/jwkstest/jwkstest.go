// Package jwkstest provides a fake identity provider for tests: an httptest
// server publishing a JWKS document plus helpers to mint tokens signed with
// the published (or deliberately unpublished) keys.
package jwkstest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultKeyID is the kid of the key every Provider publishes on creation
	DefaultKeyID = "test-key"
	// Audience is the audience minted into tokens by Claims
	Audience = "casting-agency"
	// Issuer is the issuer minted into tokens by Claims
	Issuer = "https://casting.test.auth0.com/"
)

// Key is an RSA signing key pair identified by kid.
type Key struct {
	ID      string
	Private *rsa.PrivateKey
}

// NewKey generates a 2048 bit RSA key.
func NewKey(t testing.TB, kid string) *Key {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &Key{ID: kid, Private: pk}
}

// Sign mints an RS256 token with the key's kid in the header.
func (k *Key) Sign(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	return SignWith(t, jwt.SigningMethodRS256, k.Private, k.ID, claims)
}

// SignWith mints a token with an arbitrary method and key. An empty kid
// leaves the header without one.
func SignWith(t testing.TB, method jwt.SigningMethod, key interface{}, kid string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(method, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

// Claims returns a valid claim set for Audience and Issuer expiring in ttl.
// A nil permissions slice leaves the claim out entirely.
func Claims(subject string, permissions []string, ttl time.Duration) jwt.MapClaims {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": Issuer,
		"sub": subject,
		"aud": []string{Audience, "https://casting.test.auth0.com/userinfo"},
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if permissions != nil {
		claims["permissions"] = permissions
	}
	return claims
}

// Provider is a fake identity provider serving its key set over HTTP.
type Provider struct {
	Server *httptest.Server

	mu      sync.Mutex
	keys    map[string]*Key
	order   []string
	status  int
	body    []byte
	gate    chan struct{}
	fetches atomic.Int32
}

// NewProvider starts a provider publishing one key with DefaultKeyID.
// The server is closed when the test ends.
func NewProvider(t testing.TB) *Provider {
	t.Helper()
	p := &Provider{
		keys:   make(map[string]*Key),
		status: http.StatusOK,
	}
	p.Publish(NewKey(t, DefaultKeyID))

	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

// URL returns the key set location.
func (p *Provider) URL() string {
	return p.Server.URL + "/.well-known/jwks.json"
}

// Key returns a published key by kid.
func (p *Provider) Key(kid string) *Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[kid]
}

// Sign mints a token with a published key.
func (p *Provider) Sign(t testing.TB, kid string, claims jwt.MapClaims) string {
	t.Helper()
	key := p.Key(kid)
	require.NotNil(t, key, "key %q is not published", kid)
	return key.Sign(t, claims)
}

// Publish adds key to the served key set.
func (p *Provider) Publish(key *Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.keys[key.ID]; !ok {
		p.order = append(p.order, key.ID)
	}
	p.keys[key.ID] = key
}

// Retire removes a key from the served key set.
func (p *Provider) Retire(kid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.keys, kid)
	for i, id := range p.order {
		if id == kid {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// FailWith makes the provider answer every fetch with status.
// http.StatusOK restores normal behavior.
func (p *Provider) FailWith(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

// ServeRaw makes the provider answer with body instead of its key set.
// A nil body restores normal behavior.
func (p *Provider) ServeRaw(body []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.body = body
}

// Hold blocks every fetch until the returned release func is called.
func (p *Provider) Hold() (release func()) {
	gate := make(chan struct{})
	p.mu.Lock()
	p.gate = gate
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.gate = nil
			p.mu.Unlock()
			close(gate)
		})
	}
}

// Fetches returns how many key set requests the provider has received.
func (p *Provider) Fetches() int {
	return int(p.fetches.Load())
}

func (p *Provider) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/.well-known/jwks.json" {
		http.NotFound(w, r)
		return
	}
	p.fetches.Add(1)

	p.mu.Lock()
	gate := p.gate
	p.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	p.mu.Lock()
	status, body := p.status, p.body
	set := jose.JSONWebKeySet{}
	for _, kid := range p.order {
		key := p.keys[kid]
		set.Keys = append(set.Keys, jose.JSONWebKey{
			Key:       &key.Private.PublicKey,
			KeyID:     key.ID,
			Algorithm: "RS256",
			Use:       "sig",
		})
	}
	p.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if body != nil {
		_, _ = w.Write(body)
		return
	}
	_ = json.NewEncoder(w).Encode(set)
}

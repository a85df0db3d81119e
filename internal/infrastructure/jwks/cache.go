package jwks

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/infrastructure/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	wellKnownPath = "/.well-known/jwks.json"

	// DefaultFetchTimeout bounds a single key set fetch
	DefaultFetchTimeout = 5 * time.Second

	// DefaultRefreshCooldown is the minimum age of a cached set before a refresh hits the provider again
	DefaultRefreshCooldown = 30 * time.Second

	maxKeySetBytes = 1 << 20
	fetchKey       = "jwks"
)

// URLForDomain returns the well-known key set location of an identity provider domain
func URLForDomain(domain string) string {
	return "https://" + domain + wellKnownPath
}

// Config holds the configuration of a key set cache
type Config struct {
	URL             string
	FetchTimeout    time.Duration
	RefreshCooldown time.Duration
	HTTPClient      *http.Client
}

type snapshot struct {
	keys      domain.KeySet
	fetchedAt time.Time
}

// Cache holds the identity provider's signing keys. Readers never block on a
// refresh: the cached set is swapped atomically once a fetch succeeds, and at
// most one fetch is in flight at a time.
type Cache struct {
	cfg     Config
	client  *http.Client
	current atomic.Pointer[snapshot]
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

var _ domain.KeySetProvider = (*Cache)(nil)

// New creates a key set cache; nothing is fetched until the first lookup
func New(cfg Config, m *metrics.Metrics, logger *zap.Logger) *Cache {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.RefreshCooldown < 0 {
		cfg.RefreshCooldown = 0
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Cache{
		cfg:     cfg,
		client:  client,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Keys returns the cached key set, fetching it when nothing is cached yet
func (c *Cache) Keys(ctx context.Context) (domain.KeySet, error) {
	if s := c.current.Load(); s != nil {
		return s.keys, nil
	}
	return c.fetchShared(ctx, false)
}

// Refresh re-fetches the key set unless the cached one is younger than the
// refresh cooldown. On failure the previously cached set stays in place.
func (c *Cache) Refresh(ctx context.Context) (domain.KeySet, error) {
	if s := c.current.Load(); s != nil && c.now().Sub(s.fetchedAt) < c.cfg.RefreshCooldown {
		c.logger.Debug("Key set refresh skipped, cache within cooldown",
			zap.Duration("age", c.now().Sub(s.fetchedAt)))
		return s.keys, nil
	}
	return c.fetchShared(ctx, true)
}

// Invalidate drops the cached set so that the next lookup fetches
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}

// fetchShared joins the in-flight fetch or starts one. The fetch itself is
// detached from ctx so one caller giving up does not fail the others.
// Unless forced, a set stored since the caller last looked is reused.
func (c *Cache) fetchShared(ctx context.Context, force bool) (domain.KeySet, error) {
	ch := c.group.DoChan(fetchKey, func() (interface{}, error) {
		if s := c.current.Load(); s != nil && !force {
			return s.keys, nil
		}
		return c.fetch()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(domain.KeySet), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrKeySetUnavailable, ctx.Err())
	}
}

func (c *Cache) fetch() (domain.KeySet, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
	defer cancel()

	keys, err := c.download(ctx)
	c.metrics.RecordKeySetFetch(err, len(keys))
	if err != nil {
		c.logger.Error("Failed to fetch signing key set",
			zap.String("url", c.cfg.URL),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrKeySetUnavailable, err)
	}

	c.current.Store(&snapshot{keys: keys, fetchedAt: c.now()})
	c.logger.Info("Signing key set refreshed",
		zap.String("url", c.cfg.URL),
		zap.Int("keys", len(keys)))

	return keys, nil
}

func (c *Cache) download(ctx context.Context) (domain.KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected key set response status %d", resp.StatusCode)
	}

	return parseKeySet(io.LimitReader(resp.Body, maxKeySetBytes), c.logger)
}

// parseKeySet decodes a JWKS document. Entries that are not usable public
// signing keys are skipped; a document without any usable key is an error.
func parseKeySet(r io.Reader, logger *zap.Logger) (domain.KeySet, error) {
	var doc struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding key set: %w", err)
	}

	keys := make(domain.KeySet, len(doc.Keys))
	for i, raw := range doc.Keys {
		var jwk jose.JSONWebKey
		if err := jwk.UnmarshalJSON(raw); err != nil {
			logger.Warn("Skipping undecodable signing key", zap.Int("index", i), zap.Error(err))
			continue
		}

		keyType, ok := keyTypeOf(jwk.Key)
		switch {
		case jwk.KeyID == "":
			logger.Warn("Skipping signing key without kid", zap.Int("index", i))
			continue
		case !ok || !jwk.IsPublic():
			logger.Warn("Skipping non public signing key", zap.String("kid", jwk.KeyID))
			continue
		case jwk.Use != "" && jwk.Use != "sig":
			logger.Debug("Skipping key not meant for signatures",
				zap.String("kid", jwk.KeyID),
				zap.String("use", jwk.Use))
			continue
		}

		keys[jwk.KeyID] = domain.SigningKey{
			KeyID:     jwk.KeyID,
			KeyType:   keyType,
			Algorithm: jwk.Algorithm,
			Use:       jwk.Use,
			Key:       jwk.Key,
		}
	}

	if len(keys) == 0 {
		return nil, errors.New("key set contains no usable signing keys")
	}

	return keys, nil
}

func keyTypeOf(key interface{}) (string, bool) {
	switch key.(type) {
	case *rsa.PublicKey:
		return "RSA", true
	case *ecdsa.PublicKey:
		return "EC", true
	case ed25519.PublicKey:
		return "OKP", true
	}
	return "", false
}

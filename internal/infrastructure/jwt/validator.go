package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/manorfm/casting-agency/internal/domain"
	"go.uber.org/zap"
)

// IssuerForDomain returns the issuer an identity provider domain stamps into its tokens
func IssuerForDomain(domain string) string {
	return "https://" + domain + "/"
}

// Config controls which tokens the validator accepts
type Config struct {
	Audience   string
	Issuer     string
	Algorithms []string
	Leeway     time.Duration
}

// Validator verifies bearer tokens against the identity provider's key set
type Validator struct {
	keys   domain.KeySetProvider
	cfg    Config
	opts   []jwt.ParserOption
	logger *zap.Logger
}

var _ domain.TokenValidator = (*Validator)(nil)

// NewValidator creates a token validator
func NewValidator(keys domain.KeySetProvider, cfg Config, logger *zap.Logger) (*Validator, error) {
	if keys == nil {
		return nil, errors.New("key set provider is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("audience is required")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if err := ValidateAlgorithms(cfg.Algorithms); err != nil {
		return nil, err
	}

	return &Validator{
		keys: keys,
		cfg:  cfg,
		opts: []jwt.ParserOption{
			jwt.WithValidMethods(cfg.Algorithms),
			jwt.WithExpirationRequired(),
			jwt.WithAudience(cfg.Audience),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithLeeway(cfg.Leeway),
		},
		logger: logger,
	}, nil
}

// ValidateAlgorithms rejects empty lists, unknown algorithms, "none" and the
// HMAC family, which cannot be verified with a published public key.
func ValidateAlgorithms(algs []string) error {
	if len(algs) == 0 {
		return errors.New("at least one signing algorithm is required")
	}
	for _, alg := range algs {
		method := jwt.GetSigningMethod(alg)
		switch method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS, *jwt.SigningMethodECDSA, *jwt.SigningMethodEd25519:
		default:
			return fmt.Errorf("unsupported signing algorithm %q", alg)
		}
	}
	return nil
}

// Validate verifies the token signature and its exp, aud and iss claims and
// returns the decoded claims. Every failure is a *domain.AuthError and comes
// with zero Claims.
func (v *Validator) Validate(ctx context.Context, rawToken string) (domain.Claims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		v.logger.Debug("Unable to read token header", zap.Error(err))
		return domain.Claims{}, domain.ErrAuthorizationMalformed
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		v.logger.Debug("Token header has no kid")
		return domain.Claims{}, domain.ErrAuthorizationMalformed
	}

	key, err := v.resolveKey(ctx, kid)
	if err != nil {
		return domain.Claims{}, err
	}

	if key.Algorithm != "" && key.Algorithm != unverified.Method.Alg() {
		v.logger.Warn("Token algorithm does not match signing key",
			zap.String("kid", kid),
			zap.String("token_alg", unverified.Method.Alg()),
			zap.String("key_alg", key.Algorithm))
		return domain.Claims{}, domain.ErrTokenUnparsable
	}

	var claims domain.Claims
	_, err = jwt.NewParser(v.opts...).ParseWithClaims(rawToken, &claims, func(*jwt.Token) (interface{}, error) {
		return key.Key, nil
	})
	if err != nil {
		return domain.Claims{}, v.classify(kid, err)
	}

	return claims, nil
}

// resolveKey looks kid up in the cached set and, on a miss, asks for exactly
// one refresh before giving up.
func (v *Validator) resolveKey(ctx context.Context, kid string) (domain.SigningKey, error) {
	keys, err := v.keys.Keys(ctx)
	if err != nil {
		return domain.SigningKey{}, keySetError(err)
	}
	if key, ok := keys.Lookup(kid); ok {
		return key, nil
	}

	v.logger.Info("Signing key not cached, refreshing key set", zap.String("kid", kid))
	keys, err = v.keys.Refresh(ctx)
	if err != nil {
		return domain.SigningKey{}, keySetError(err)
	}
	if key, ok := keys.Lookup(kid); ok {
		return key, nil
	}

	v.logger.Warn("No signing key matches token", zap.String("kid", kid))
	return domain.SigningKey{}, domain.ErrSigningKeyNotFound
}

func (v *Validator) classify(kid string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		v.logger.Debug("Token expired", zap.String("kid", kid))
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		v.logger.Debug("Token claims rejected", zap.String("kid", kid), zap.Error(err))
		return domain.ErrIncorrectClaims
	default:
		v.logger.Warn("Failed to verify token",
			zap.String("kid", kid),
			zap.String("error_type", fmt.Sprintf("%T", err)),
			zap.Error(err))
		return domain.ErrTokenUnparsable
	}
}

func keySetError(err error) error {
	if _, ok := domain.AsAuthError(err); ok {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrKeySetUnavailable, err)
}

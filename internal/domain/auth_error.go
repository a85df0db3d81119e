package domain

import "errors"

// AuthErrorKind classifies why a request was not authorized.
type AuthErrorKind string

const (
	KindMissingHeader     AuthErrorKind = "missing_header"
	KindMalformedHeader   AuthErrorKind = "malformed_header"
	KindInvalidHeader     AuthErrorKind = "invalid_header"
	KindTokenExpired      AuthErrorKind = "token_expired"
	KindInvalidClaims     AuthErrorKind = "invalid_claims"
	KindPermissionDenied  AuthErrorKind = "permission_denied"
	KindKeySetUnavailable AuthErrorKind = "key_set_unavailable"
)

// AuthErrorStatus is the HTTP status reported for every authorization failure,
// including missing permissions.
const AuthErrorStatus = 401

// AuthError is a terminal authentication or authorization failure.
// @Description Authorization failure with a machine readable code
type AuthError struct {
	Kind        AuthErrorKind `json:"-"`
	Code        string        `json:"code"`
	Description string        `json:"description"`
}

func (e *AuthError) Error() string {
	return e.Code + ": " + e.Description
}

// StatusCode returns the HTTP status the request layer must answer with.
func (e *AuthError) StatusCode() int {
	return AuthErrorStatus
}

func newAuthError(kind AuthErrorKind, code, description string) *AuthError {
	return &AuthError{Kind: kind, Code: code, Description: description}
}

var (
	// ErrAuthHeaderMissing is returned when the request carries no Authorization header
	ErrAuthHeaderMissing = newAuthError(KindMissingHeader, "authorization_header_missing", "Authorization header is expected.")

	// ErrBearerPrefix is returned when the header does not start with the Bearer scheme
	ErrBearerPrefix = newAuthError(KindMalformedHeader, "invalid_header", `Authorization header must start with "Bearer".`)

	// ErrBearerTokenMissing is returned when the scheme is present but the token is not
	ErrBearerTokenMissing = newAuthError(KindMalformedHeader, "invalid_header", "Token not found.")

	// ErrBearerFormat is returned when the header has more than two parts
	ErrBearerFormat = newAuthError(KindMalformedHeader, "invalid_header", "Authorization header must be bearer token.")

	// ErrAuthorizationMalformed is returned when the token header cannot be read or has no kid
	ErrAuthorizationMalformed = newAuthError(KindInvalidHeader, "invalid_header", "Authorization malformed.")

	// ErrSigningKeyNotFound is returned when no cached key matches the token kid
	ErrSigningKeyNotFound = newAuthError(KindInvalidHeader, "invalid_header", "Unable to find appropriate key.")

	// ErrTokenUnparsable is returned for every other structural or signature failure
	ErrTokenUnparsable = newAuthError(KindInvalidHeader, "invalid_header", "Unable to parse authentication token.")

	// ErrTokenExpired is returned when the exp claim has passed
	ErrTokenExpired = newAuthError(KindTokenExpired, "token_expired", "Token expired.")

	// ErrIncorrectClaims is returned when audience or issuer do not match
	ErrIncorrectClaims = newAuthError(KindInvalidClaims, "invalid_claims", "Incorrect claims. Please, check the audience and issuer.")

	// ErrPermissionsMissing is returned when the token has no permissions claim at all
	ErrPermissionsMissing = newAuthError(KindInvalidClaims, "invalid_claims", "Permissions not included in JWT.")

	// ErrPermissionNotFound is returned when the required permission is not granted
	ErrPermissionNotFound = newAuthError(KindPermissionDenied, "unauthorized", "Permission not found.")

	// ErrKeySetUnavailable is returned when the identity provider keys cannot be fetched
	ErrKeySetUnavailable = newAuthError(KindKeySetUnavailable, "jwks_unavailable", "Unable to fetch signing keys.")
)

// AsAuthError unwraps err to the AuthError it carries, if any.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// IsAuthErrorKind reports whether err carries an AuthError of the given kind.
func IsAuthErrorKind(err error, kind AuthErrorKind) bool {
	authErr, ok := AsAuthError(err)
	return ok && authErr.Kind == kind
}

package domain

import "strings"

const bearerScheme = "Bearer"

// ExtractBearerToken pulls the token out of an Authorization header value.
// The header must be exactly "Bearer <token>"; an empty value is treated as
// an absent header.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrAuthHeaderMissing
	}

	parts := strings.Split(header, " ")
	switch {
	case parts[0] != bearerScheme:
		return "", ErrBearerPrefix
	case len(parts) == 1 || parts[1] == "":
		return "", ErrBearerTokenMissing
	case len(parts) > 2:
		return "", ErrBearerFormat
	}

	return parts[1], nil
}

package domain

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ParseID parses a path identifier, reporting notFound when it is not a valid
// ULID since no stored entity can carry it.
func ParseID(id string, notFound error) (ulid.ULID, error) {
	parsedID, err := ulid.Parse(id)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("%w: invalid id %q", notFound, id)
	}
	return parsedID, nil
}

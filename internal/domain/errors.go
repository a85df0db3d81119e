package domain

import "errors"

var (
	// ErrActorNotFound is returned when no actor matches the given id
	ErrActorNotFound = errors.New("actor not found")

	// ErrMovieNotFound is returned when no movie matches the given id
	ErrMovieNotFound = errors.New("movie not found")

	// ErrPageNotFound is returned when the requested page lies beyond the data
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidPage is returned when the page number is not a positive integer
	ErrInvalidPage = errors.New("invalid page")

	// ErrUnprocessable is returned when a request body fails validation
	ErrUnprocessable = errors.New("unprocessable")

	// ErrBadRequest is returned when a request body cannot be decoded
	ErrBadRequest = errors.New("bad request")

	// ErrDatabaseQuery is returned when the persistence layer fails
	ErrDatabaseQuery = errors.New("database query failed")

	// ErrInternal is returned when there is an internal server error
	ErrInternal = errors.New("internal server error")
)

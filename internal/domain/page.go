package domain

// Page is one slice of a paginated listing
type Page[T any] struct {
	Items []T
	Total int
	Page  int
}

// Offset returns the row offset of a 1-based page of the given size
func Offset(page, size int) int {
	return (page - 1) * size
}

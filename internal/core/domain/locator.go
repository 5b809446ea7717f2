package domain

import (
	"strconv"
)

// Locator addresses one record in the ordered collection.
//
// Resolve maps the locator to the record's current slice position given the
// collection, or reports false if nothing matches. It is evaluated while the
// caller holds the collection lock.
type Locator interface {
	Resolve(users []User) (int, bool)
	String() string
}

// IndexLocator addresses a record by its zero-based position at the time
// the request is served. Positions shift down when an earlier record is
// deleted.
type IndexLocator int

// Resolve implements Locator.
func (l IndexLocator) Resolve(users []User) (int, bool) {
	i := int(l)
	if i < 0 || i >= len(users) {
		return 0, false
	}
	return i, true
}

// String implements Locator.
func (l IndexLocator) String() string {
	return strconv.Itoa(int(l))
}

// ParseIndex parses a path segment into an IndexLocator.
func ParseIndex(s string) (IndexLocator, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrInvalidArgument.WithDetails("index must be a non-negative integer")
	}
	return IndexLocator(n), nil
}

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrOutOfStock is returned when adding a product whose stock flag is off.
	ErrOutOfStock = errors.New("out of stock")
)

// FetchError reports that the remote catalog could not be read or decoded.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err wraps a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrLookupNotFound = errors.New("catalog entry not found")
	ErrBadPrice       = errors.New("price is not an integral amount")
)

// FetchError wraps a transport or decoding failure while paging.
// It is recoverable: the failed page is fetched again on retry.
type FetchError struct {
	Page int
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch catalog page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

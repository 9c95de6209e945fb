package entity

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument the feed had no header or no data rows
var ErrEmptyDocument = errors.New("feed document has no data rows")

// ErrProductNotFound no product with the requested id in the loaded catalog
var ErrProductNotFound = errors.New("product not found")

// TransportError network or HTTP level failure while fetching the feed
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

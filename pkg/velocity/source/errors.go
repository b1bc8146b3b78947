package source

import (
	"errors"
	"fmt"
)

// ErrStatus marks a non-2xx answer from the catalog data source
var ErrStatus = errors.New("unexpected status")

// FetchError is a failed catalog read: network failure or non-2xx status.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch catalog: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("fetch catalog: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError is a failed create or delete.
type SubmitError struct {
	Op     string
	Status int
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s vehicle: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s vehicle: %v", e.Op, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

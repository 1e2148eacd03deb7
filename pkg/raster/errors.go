package raster

import (
	"errors"
	"fmt"
)

// ErrEncrypted is returned when a document cannot be opened without a password
var ErrEncrypted = errors.New("document is encrypted and requires a password")

var errPageOutOfRange = errors.New("page index out of range")

// InvalidPageError reports a page that does not exist or cannot be decoded
type InvalidPageError struct {
	Page int
	Err  error
}

func (e *InvalidPageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid page index %d", e.Page)
	}
	return fmt.Sprintf("invalid page index %d: %v", e.Page, e.Err)
}

func (e *InvalidPageError) Unwrap() error { return e.Err }

// RenderResourceError reports a page that could not be rendered because the
// renderer ran out of memory or the page exceeds the pixel budget
type RenderResourceError struct {
	Page int
	Err  error
}

func (e *RenderResourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("render resources exhausted for page index %d", e.Page)
	}
	return fmt.Sprintf("render resources exhausted for page index %d: %v", e.Page, e.Err)
}

func (e *RenderResourceError) Unwrap() error { return e.Err }

// IsPageError reports whether err is a per-page rendering failure that a
// caller may choose to skip
func IsPageError(err error) bool {
	var invalid *InvalidPageError
	var resource *RenderResourceError
	return errors.As(err, &invalid) || errors.As(err, &resource)
}

// pageError attaches index to err. Typed errors keep their kind, anything
// else is treated as an undecodable page.
func pageError(index int, err error) error {
	var invalid *InvalidPageError
	if errors.As(err, &invalid) {
		invalid.Page = index
		return invalid
	}
	var resource *RenderResourceError
	if errors.As(err, &resource) {
		resource.Page = index
		return resource
	}
	return &InvalidPageError{Page: index, Err: err}
}

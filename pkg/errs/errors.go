package errs

import "errors"

// Construction failures. Returned errors wrap one of these and are matched with errors.Is.
var (
	// ErrInvalidKind indicates a kind outside the closed set
	ErrInvalidKind = errors.New("invalid error kind")

	// ErrAllocation indicates a rendering buffer could not be obtained within the render limit
	ErrAllocation = errors.New("render buffer allocation failed")
)

package def

import "github.com/cockroachdb/errors"

var (
	// Input errors.
	ErrNotFound          = errors.New("input not found")
	ErrParse             = errors.New("malformed input")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported coverage format")

	// Run errors.
	ErrExternalTool     = errors.New("coverage capture failed")
	ErrValidationFailed = errors.New("coverage validation failed")
)

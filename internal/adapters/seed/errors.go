package seed

import "errors"

// Sentinel kinds for fixture loading errors.
var (
	ErrReadFixture  = errors.New("read fixture failed")
	ErrParseFixture = errors.New("invalid fixture")
	ErrDuplicateID  = errors.New("duplicate id in fixture")
)

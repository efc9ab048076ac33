package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest         = errors.New("bad request")
	ErrMissingInspectorID = errors.New("missing inspector_id query parameter")
)

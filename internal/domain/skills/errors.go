package skills

import "errors"

// ErrMalformedInput reports a transactions payload that could not be read as a list.
var ErrMalformedInput = errors.New("malformed skill input")

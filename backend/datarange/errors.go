package datarange

import "errors"

var (
	errNotOpen       = errors.New("data range file object is not open")
	errInvalidWhence = errors.New("invalid whence")
	errOutOfRange    = errors.New("seek position outside range")
)

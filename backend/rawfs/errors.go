package rawfs

import "errors"

var (
	errNoParent      = errors.New("RAW path specification requires a parent")
	errNotOpen       = errors.New("raw file object is not open")
	errInvalidWhence = errors.New("invalid whence")
	errOutOfRange    = errors.New("seek position before start offset")
)

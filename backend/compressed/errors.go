package compressed

import "errors"

var errNotOpen = errors.New("compressed file object is not open")

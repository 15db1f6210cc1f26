package osfs

import "errors"

var errNoLocation = errors.New("OS path specification requires a location")
var errNoNamedStreams = errors.New("OS entries expose only the default data stream")

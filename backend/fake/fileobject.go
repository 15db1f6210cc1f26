package fake

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

var errNoNamedStreams = errors.New("FAKE entries expose only the default data stream")

// fileObject is the TYPE_FAKE vfs.FileObject: a read-only view onto one
// file node's bytes.
type fileObject struct {
	data   []byte
	offset int64
	opened bool
}

func (o *fileObject) Open(_ context.Context, spec *pathspec.Spec) error {
	name, ok := spec.IdentifierString()
	if !ok {
		return vfs.NewError(vfs.KindPathSpec, "open", "FAKE",
			fmt.Errorf("FAKE path specification requires an identifier naming a registered tree"))
	}
	tree, ok := lookup(name)
	if !ok {
		return vfs.NewError(vfs.KindBackEnd, "open", "FAKE",
			fmt.Errorf("no tree registered under identifier %q", name))
	}
	location, _ := spec.Location()
	n, ok := tree.walk(location)
	if !ok {
		return vfs.NewError(vfs.KindBackEnd, "open", "FAKE",
			fmt.Errorf("no such entry: %s", location))
	}
	if n.isDir {
		return vfs.NewError(vfs.KindBackEnd, "open", "FAKE",
			fmt.Errorf("%s is a directory", location))
	}
	o.data = n.data
	o.opened = true
	return nil
}

func (o *fileObject) requireOpen(op string) error {
	if !o.opened {
		return vfs.NewError(vfs.KindBackEnd, op, "FAKE", errors.New("file object is not open"))
	}
	return nil
}

func (o *fileObject) Read(p []byte) (int, error) {
	if err := o.requireOpen("read"); err != nil {
		return 0, err
	}
	if o.offset >= int64(len(o.data)) {
		return 0, io.EOF
	}
	n := copy(p, o.data[o.offset:])
	o.offset += int64(n)
	return n, nil
}

func (o *fileObject) Seek(offset int64, whence int) (int64, error) {
	if err := o.requireOpen("seek"); err != nil {
		return 0, err
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = o.offset + offset
	case io.SeekEnd:
		abs = int64(len(o.data)) + offset
	default:
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", "FAKE", errors.New("invalid whence"))
	}
	if abs < 0 {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", "FAKE", errors.New("negative position"))
	}
	o.offset = abs
	return abs, nil
}

func (o *fileObject) Close() error { o.opened = false; return nil }

func (o *fileObject) Size() (int64, error) {
	if err := o.requireOpen("size"); err != nil {
		return 0, err
	}
	return int64(len(o.data)), nil
}

func (o *fileObject) Offset() int64 { return o.offset }

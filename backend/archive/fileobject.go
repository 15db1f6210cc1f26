package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

var errNoNamedStreams = errors.New("archive entries expose only the default data stream")

// fileObject is a read-only view onto one archive entry's buffered
// bytes. Entries reached through a FileEntry already carry their data.
// Open looks an entry up by the spec's location in an already-parsed
// FileSystem and fails when fs is unset; TYPE_ZIP/TYPE_TAR register no
// OpenFileObject factory, so the resolver does not open archive specs
// as file objects.
type fileObject struct {
	fs     *FileSystem
	data   []byte
	offset int64
	opened bool
}

func (o *fileObject) Open(_ context.Context, spec *pathspec.Spec) error {
	if o.fs == nil {
		return vfs.NewError(vfs.KindBackEnd, "open", "archive",
			errors.New("archive file object opened without a parsed file system"))
	}
	location, _ := spec.Location()
	n, ok := o.fs.tree.walk(location)
	if !ok {
		return vfs.NewError(vfs.KindBackEnd, "open", o.fs.format.typeIndicator(),
			fmt.Errorf("no such entry: %s", location))
	}
	if n.isDir {
		return vfs.NewError(vfs.KindBackEnd, "open", o.fs.format.typeIndicator(),
			fmt.Errorf("%s is a directory", location))
	}
	o.data = n.data
	o.opened = true
	return nil
}

func (o *fileObject) requireOpen(op string) error {
	if !o.opened {
		return vfs.NewError(vfs.KindBackEnd, op, "archive", errors.New("file object is not open"))
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
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", "archive", errors.New("invalid whence"))
	}
	if abs < 0 {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", "archive", errors.New("negative position"))
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

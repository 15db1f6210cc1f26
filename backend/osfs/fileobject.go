package osfs

import (
	"context"
	"io"
	"os"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

// fileObject is the TYPE_OS vfs.FileObject: a read-only handle onto one
// OS file, opened O_RDONLY only.
type fileObject struct {
	f *os.File
}

func (o *fileObject) Open(_ context.Context, spec *pathspec.Spec) error {
	location, ok := spec.Location()
	if !ok {
		return vfs.NewError(vfs.KindPathSpec, "open", "OS", errNoLocation)
	}
	f, err := os.Open(location)
	if err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", "OS", err)
	}
	o.f = f
	return nil
}

func (o *fileObject) Read(p []byte) (int, error) { return o.f.Read(p) }
func (o *fileObject) Seek(offset int64, whence int) (int64, error) {
	return o.f.Seek(offset, whence)
}
func (o *fileObject) Close() error { return o.f.Close() }

func (o *fileObject) Size() (int64, error) {
	info, err := o.f.Stat()
	if err != nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "size", "OS", err)
	}
	return info.Size(), nil
}

func (o *fileObject) Offset() int64 {
	off, err := o.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	return off
}

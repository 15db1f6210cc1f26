// Package datarange implements TYPE_DATA_RANGE, a FileObject that
// exposes a byte range [range_offset, range_offset+range_size) of its
// parent FileObject. Partition and volume-system backends build
// TYPE_DATA_RANGE path specifications to hand a bounded view of the
// underlying image to the next layer (a file system, an archive, a
// compressed stream) without that layer needing to know where its
// bytes sit inside the larger container.
package datarange

import (
	"context"
	"fmt"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// FileObject is the TYPE_DATA_RANGE vfs.FileObject.
type FileObject struct {
	resolver registry.Resolver
	parent   vfs.FileObject
	base     int64
	size     int64
	pos      int64
}

// New returns an unopened FileObject that will resolve its parent
// through r.
func New(r registry.Resolver) *FileObject { return &FileObject{resolver: r} }

func (o *FileObject) Open(ctx context.Context, spec *pathspec.Spec) error {
	if !spec.HasParent() {
		return vfs.NewError(vfs.KindPathSpec, "open", registry.TypeDataRange,
			fmt.Errorf("%s path specification requires a parent", registry.TypeDataRange))
	}
	base, ok := spec.RangeOffset()
	if !ok {
		return vfs.NewError(vfs.KindPathSpec, "open", registry.TypeDataRange,
			fmt.Errorf("%s path specification requires range_offset", registry.TypeDataRange))
	}
	size, ok := spec.RangeSize()
	if !ok {
		return vfs.NewError(vfs.KindPathSpec, "open", registry.TypeDataRange,
			fmt.Errorf("%s path specification requires range_size", registry.TypeDataRange))
	}
	parent, err := o.resolver.OpenFileObject(ctx, spec.Parent())
	if err != nil {
		return err
	}
	if _, err := parent.Seek(base, io.SeekStart); err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", registry.TypeDataRange, err)
	}
	o.parent, o.base, o.size = parent, base, size
	return nil
}

func (o *FileObject) Read(p []byte) (int, error) {
	if o.parent == nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "read", registry.TypeDataRange, errNotOpen)
	}
	remaining := o.size - o.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := o.parent.Read(p)
	o.pos += int64(n)
	return n, err
}

func (o *FileObject) Seek(offset int64, whence int) (int64, error) {
	if o.parent == nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeDataRange, errNotOpen)
	}
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = o.pos + offset
	case io.SeekEnd:
		newPos = o.size + offset
	default:
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeDataRange, errInvalidWhence)
	}
	if newPos < 0 || newPos > o.size {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeDataRange, errOutOfRange)
	}
	if _, err := o.parent.Seek(o.base+newPos, io.SeekStart); err != nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeDataRange, err)
	}
	o.pos = newPos
	return newPos, nil
}

func (o *FileObject) Close() error {
	if o.parent == nil {
		return nil
	}
	return o.parent.Close()
}

func (o *FileObject) Size() (int64, error) { return o.size, nil }
func (o *FileObject) Offset() int64        { return o.pos }

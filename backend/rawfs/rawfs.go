// Package rawfs implements TYPE_RAW, a byte-for-byte view onto a raw
// disk or volume image. It is the usual parent of a partition-system or
// file-system layer: TYPE_RAW itself applies no format, interpreting
// its parent FileObject's bytes starting at an optional start_offset
// attribute (used to skip a leading header some acquisition tools
// prepend to a raw image).
package rawfs

import (
	"context"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// FileObject is the TYPE_RAW vfs.FileObject.
type FileObject struct {
	resolver registry.Resolver
	parent   vfs.FileObject
	base     int64
	size     int64
}

// New returns an unopened FileObject that resolves its parent through r.
func New(r registry.Resolver) *FileObject { return &FileObject{resolver: r} }

func (o *FileObject) Open(ctx context.Context, spec *pathspec.Spec) error {
	if !spec.HasParent() {
		return vfs.NewError(vfs.KindPathSpec, "open", registry.TypeRaw, errNoParent)
	}
	parent, err := o.resolver.OpenFileObject(ctx, spec.Parent())
	if err != nil {
		return err
	}
	base, _ := spec.StartOffset() // defaults to 0

	parentSize, err := parent.Size()
	if err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", registry.TypeRaw, err)
	}
	if _, err := parent.Seek(base, io.SeekStart); err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", registry.TypeRaw, err)
	}
	o.parent, o.base, o.size = parent, base, parentSize-base
	return nil
}

func (o *FileObject) Read(p []byte) (int, error) {
	if o.parent == nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "read", registry.TypeRaw, errNotOpen)
	}
	return o.parent.Read(p)
}

func (o *FileObject) Seek(offset int64, whence int) (int64, error) {
	if o.parent == nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeRaw, errNotOpen)
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = o.base + offset
	case io.SeekCurrent:
		cur, err := o.parent.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeRaw, err)
		}
		abs = cur + offset
	case io.SeekEnd:
		abs = o.base + o.size + offset
	default:
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeRaw, errInvalidWhence)
	}
	if abs < o.base {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeRaw, errOutOfRange)
	}
	pos, err := o.parent.Seek(abs, io.SeekStart)
	if err != nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "seek", registry.TypeRaw, err)
	}
	return pos - o.base, nil
}

func (o *FileObject) Close() error {
	if o.parent == nil {
		return nil
	}
	return o.parent.Close()
}

func (o *FileObject) Size() (int64, error) { return o.size, nil }

func (o *FileObject) Offset() int64 {
	if o.parent == nil {
		return 0
	}
	return o.parent.Offset() - o.base
}

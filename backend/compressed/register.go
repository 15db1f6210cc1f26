package compressed

import (
	"bytes"
	"context"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

func sniff(magic []byte) func(context.Context, vfs.FileObject) (bool, error) {
	return func(_ context.Context, fo vfs.FileObject) (bool, error) {
		buf := make([]byte, len(magic))
		n, err := io.ReadFull(fo, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return false, err
		}
		return n == len(magic) && bytes.Equal(buf, magic), nil
	}
}

func register(codec Codec, typeIndicator string, magic []byte) {
	_ = registry.Register(&registry.Factory{
		TypeIndicator: typeIndicator,
		Category:      registry.CategoryCompressed,
		RootType:      false,
		Analyze:       sniff(magic),
		OpenFileObject: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileObject, error) {
			fo := New(codec, r)
			if err := fo.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fo, nil
		},
	})
}

func init() {
	register(CodecGzip, registry.TypeGzip, []byte{0x1f, 0x8b})
	register(CodecBzip2, registry.TypeBzip2, []byte("BZh"))
	register(CodecXZ, registry.TypeXZ, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00})
}

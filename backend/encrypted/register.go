package encrypted

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
		start := fo.Offset()
		defer fo.Seek(start, io.SeekStart)
		buf := make([]byte, len(magic))
		n, err := io.ReadFull(fo, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return false, err
		}
		return n == len(magic) && bytes.Equal(buf, magic), nil
	}
}

func register(scheme Scheme, typeIndicator string) {
	_ = registry.Register(&registry.Factory{
		TypeIndicator:   typeIndicator,
		Category:        registry.CategoryEncrypted,
		RootType:        false,
		CredentialNames: []string{"password", "recovery_password"},
		Analyze:         sniff(scheme.magic()),
		OpenFileObject: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileObject, error) {
			fo := New(scheme, r)
			if err := fo.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fo, nil
		},
	})
}

func init() {
	register(SchemeBDE, registry.TypeBDE)
	register(SchemeFVDE, registry.TypeFVDE)
	register(SchemeLUKS, registry.TypeLUKS)
	register(SchemeCS, registry.TypeCS)
}

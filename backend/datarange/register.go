package datarange

import (
	"context"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

func init() {
	_ = registry.Register(&registry.Factory{
		TypeIndicator: registry.TypeDataRange,
		Category:      registry.CategoryStorageMedia,
		RootType:      false,
		AttrNames:     []string{"range_offset", "range_size"},
		OpenFileObject: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileObject, error) {
			fo := New(r)
			if err := fo.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fo, nil
		},
	})
}

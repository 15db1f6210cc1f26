package osfs

import (
	"context"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

func init() {
	_ = registry.Register(&registry.Factory{
		TypeIndicator: registry.TypeOS,
		Category:      registry.CategoryFileSystem,
		RootType:      true,
		AttrNames:     []string{"location"},
		OpenFileSystem: func(ctx context.Context, spec *pathspec.Spec, _ registry.Resolver) (vfs.FileSystem, error) {
			fs := NewFileSystem()
			if err := fs.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fs, nil
		},
		OpenFileObject: func(ctx context.Context, spec *pathspec.Spec, _ registry.Resolver) (vfs.FileObject, error) {
			fo := &fileObject{}
			if err := fo.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fo, nil
		},
	})
}

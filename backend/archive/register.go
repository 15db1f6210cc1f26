package archive

import (
	"bytes"
	"context"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

func sniffZip(_ context.Context, fo vfs.FileObject) (bool, error) {
	buf := make([]byte, len(zipMagic))
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return n == len(zipMagic) && bytes.Equal(buf, zipMagic), nil
}

// sniffTar looks for the "ustar" magic at offset 257, the one
// structural signature POSIX tar headers carry; legacy (pre-POSIX) tar
// archives without that field are not detected.
func sniffTar(_ context.Context, fo vfs.FileObject) (bool, error) {
	buf := make([]byte, 263)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	if n < 263 {
		return false, nil
	}
	return bytes.Equal(buf[257:262], []byte("ustar")), nil
}

func register(format Format, typeIndicator string, analyze func(context.Context, vfs.FileObject) (bool, error)) {
	_ = registry.Register(&registry.Factory{
		TypeIndicator: typeIndicator,
		Category:      registry.CategoryArchive,
		RootType:      false,
		AttrNames:     []string{"location"},
		Analyze:       analyze,
		OpenFileSystem: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error) {
			fs := New(format, r)
			if err := fs.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fs, nil
		},
	})
}

func init() {
	register(FormatZip, registry.TypeZip, sniffZip)
	register(FormatTar, registry.TypeTar, sniffTar)
}

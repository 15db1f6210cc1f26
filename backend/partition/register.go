package partition

import (
	"bytes"
	"context"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// sniffMBR looks for the 0x55AA boot signature at the end of the
// first sector. A GPT image's protective MBR carries the same
// signature, so both TYPE_MBR and TYPE_GPT analyzers can legitimately
// match the same image; callers resolve that ambiguity by also
// checking for the GPT header, or by accepting both results.
func sniffMBR(_ context.Context, fo vfs.FileObject) (bool, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return n == 512 && buf[510] == 0x55 && buf[511] == 0xAA, nil
}

// sniffGPT looks for the "EFI PART" signature at the start of LBA 1
// (byte offset 512, the common case of 512-byte logical sectors).
func sniffGPT(_ context.Context, fo vfs.FileObject) (bool, error) {
	buf := make([]byte, 520)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return n == 520 && bytes.Equal(buf[512:520], []byte("EFI PART")), nil
}

func register(format Format, typeIndicator string, analyze func(context.Context, vfs.FileObject) (bool, error)) {
	_ = registry.Register(&registry.Factory{
		TypeIndicator: typeIndicator,
		Category:      registry.CategoryVolumeSystem,
		RootType:      false,
		AttrNames:     []string{"location", "part_index"},
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
	register(FormatGPT, registry.TypeGPT, sniffGPT)
	register(FormatMBR, registry.TypeMBR, sniffMBR)
	// TYPE_TSK_PARTITION has no signature of its own: it is a
	// caller's choice to stay scheme-agnostic, not a format the
	// analyzer content-sniffs for, so it registers with no Analyze
	// helper and is never returned from a format scan.
	register(FormatTSK, registry.TypeTSKPartition, nil)
}

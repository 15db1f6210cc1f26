package native

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/registry"
)

// sniffAt reads len(magic) bytes starting atOffset relative to fo's
// position when called, and restores that position before returning,
// regardless of a match.
func sniffAt(magic []byte, atOffset int64) func(context.Context, vfs.FileObject) (bool, error) {
	return func(_ context.Context, fo vfs.FileObject) (bool, error) {
		start := fo.Offset()
		defer fo.Seek(start, io.SeekStart)
		if _, err := fo.Seek(start+atOffset, io.SeekStart); err != nil {
			return false, nil
		}
		buf := make([]byte, len(magic))
		n, err := io.ReadFull(fo, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return false, err
		}
		return n == len(magic) && bytes.Equal(buf, magic), nil
	}
}

// sniffHFS matches either the plain HFS or the HFS+ boot-block magic,
// both at the same superblock offset; TYPE_HFS covers both per the
// registry's closed type set.
func sniffHFS(ctx context.Context, fo vfs.FileObject) (bool, error) {
	if ok, err := sniffAt([]byte{'B', 'D', 0x00, 0x01}, 0x400)(ctx, fo); ok || err != nil {
		return ok, err
	}
	return sniffAt([]byte{'H', '+', 0x00, 0x04}, 0x400)(ctx, fo)
}

// sniffExt replicates earentir/dsktool's ext2/ext3/ext4 superblock
// check: the magic lives at superblock offset 0x400, field offset
// 0x38, as a little-endian uint16; this module does not distinguish
// the three ext generations since that needs the compatible-features
// field this package never parses further.
func sniffExt(_ context.Context, fo vfs.FileObject) (bool, error) {
	start := fo.Offset()
	defer fo.Seek(start, io.SeekStart)
	if _, err := fo.Seek(start+0x400+0x38, io.SeekStart); err != nil {
		return false, nil
	}
	buf := make([]byte, 2)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return n == 2 && binary.LittleEndian.Uint16(buf) == 0xEF53, nil
}

func register(typeIndicator string, attrNames []string, analyze func(context.Context, vfs.FileObject) (bool, error)) {
	_ = registry.Register(&registry.Factory{
		TypeIndicator:   typeIndicator,
		Category:        registry.CategoryFileSystem,
		RootType:        false,
		AttrNames:       attrNames,
		CredentialNames: []string{"password", "recovery_password"},
		Analyze:         analyze,
		OpenFileSystem:  open(typeIndicator),
	})
}

func init() {
	attrs := []string{"location", "identifier", "inode", "data_stream"}
	register(registry.TypeAPFS, attrs, sniffAt([]byte("BSPA"), 0)) // apfs_superblock_t.apfs_magic
	register(registry.TypeHFS, attrs, sniffHFS)
	register(registry.TypeNTFS, attrs, sniffAt([]byte("NTFS"), 3))
	register(registry.TypeExt, attrs, sniffExt)
	// FAT shares its boot-sector signature with the generic MBR/VBR
	// 0x55AA marker, so this sniff is necessarily ambiguous with
	// TYPE_MBR on an unpartitioned FAT volume. TYPE_MBR's
	// volume-system category is scanned before this file-system one and
	// the analyzer stops at the first category that matches, so such a
	// volume is reported as TYPE_MBR only.
	register(registry.TypeFAT, attrs, sniffAt([]byte{0x55, 0xAA}, 0x1FE))
	register(registry.TypeXFS, attrs, sniffAt([]byte("XFSB"), 0))
}

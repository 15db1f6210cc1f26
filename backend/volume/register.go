package volume

import (
	"bytes"
	"context"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/registry"
)

// sniffAPFSContainer looks for "NXSB", the APFS container superblock
// magic, at the start of the volume — the container-level signature,
// distinct from the per-volume "BSPA" magic backend/native sniffs for
// TYPE_APFS itself. Grounded on
// other_examples/c67807b2_earentir-dsktool__filesystem_common.go.go's
// signature table.
func sniffAPFSContainer(_ context.Context, fo vfs.FileObject) (bool, error) {
	start := fo.Offset()
	defer fo.Seek(start, io.SeekStart)
	buf := make([]byte, 4)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return n == 4 && bytes.Equal(buf, []byte("NXSB")), nil
}

// sniffLVM checks for either of the two label signatures LVM2 uses:
// "LVM2 001" at offset 0x218 (the physical volume label), or
// "LABELONE" at offset 0x204 (the label header preceding it). Either
// is sufficient; real LVM2 metadata carries both. Grounded on the same
// dsktool signature table as sniffAPFSContainer.
func sniffLVM(_ context.Context, fo vfs.FileObject) (bool, error) {
	start := fo.Offset()
	defer fo.Seek(start, io.SeekStart)
	buf := make([]byte, 0x220)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	if n < 0x220 {
		return false, nil
	}
	if bytes.Equal(buf[0x204:0x204+8], []byte("LABELONE")) {
		return true, nil
	}
	return bytes.Equal(buf[0x218:0x218+8], []byte("LVM2 001")), nil
}

// sniffMODI looks for "koly", the UDIF resource-fork trailer magic
// Apple disk images (.dmg) carry in their final 512 bytes, the one
// signature real tooling (hdiutil, libdmg-hfsplus) actually checks
// first when recognizing the format.
func sniffMODI(_ context.Context, fo vfs.FileObject) (bool, error) {
	size, err := fo.Size()
	if err != nil {
		return false, err
	}
	if size < 512 {
		return false, nil
	}
	start := fo.Offset()
	defer fo.Seek(start, io.SeekStart)
	if _, err := fo.Seek(size-512, io.SeekStart); err != nil {
		return false, nil
	}
	buf := make([]byte, 4)
	n, err := io.ReadFull(fo, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return n == 4 && bytes.Equal(buf, []byte("koly")), nil
}

func register(typeIndicator string, attrNames []string, analyze func(context.Context, vfs.FileObject) (bool, error)) {
	_ = registry.Register(&registry.Factory{
		TypeIndicator:   typeIndicator,
		Category:        registry.CategoryVolumeSystem,
		RootType:        false,
		AttrNames:       attrNames,
		CredentialNames: []string{"password"},
		Analyze:         analyze,
		OpenFileSystem:  open(typeIndicator),
	})
}

func init() {
	register(registry.TypeAPFSContainer, []string{"location", "identifier"}, sniffAPFSContainer)
	register(registry.TypeLVM, []string{"location", "identifier"}, sniffLVM)
	// VSHADOW has no signature this pack corroborates: the Volume
	// Shadow Copy store catalog is a Windows-proprietary on-disk
	// structure, and the one VSS-adjacent library the pack retrieved
	// (mxk/go-vss) binds the live VSS service API on a running Windows
	// host, not offline catalog parsing of a static image — an
	// architectural mismatch, not a usable source. It registers as a
	// pure seam with no Analyze helper.
	register(registry.TypeVShadow, []string{"location", "identifier"}, nil)
	register(registry.TypeModi, []string{"location", "identifier"}, sniffMODI)
}

package osfs

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"time"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

type fileEntry struct {
	location string
	info     os.FileInfo
}

func (e *fileEntry) Name() string {
	if e.location == sep {
		return ""
	}
	return filepath.Base(e.location)
}

func (e *fileEntry) PathSpec() *pathspec.Spec {
	spec, _ := pathspec.New("OS", noopValidate, pathspec.Location(e.location))
	return spec
}

func (e *fileEntry) IsRoot() bool      { return e.location == sep }
func (e *fileEntry) IsVirtual() bool   { return false }
func (e *fileEntry) IsAllocated() bool { return true }

func (e *fileEntry) Type() vfs.EntryType {
	switch {
	case e.info.Mode()&fs.ModeSymlink != 0:
		return vfs.EntryLink
	case e.info.IsDir():
		return vfs.EntryDirectory
	case e.info.Mode()&fs.ModeDevice != 0:
		return vfs.EntryDevice
	case e.info.Mode()&fs.ModeNamedPipe != 0:
		return vfs.EntryPipe
	case e.info.Mode()&fs.ModeSocket != 0:
		return vfs.EntrySocket
	default:
		return vfs.EntryFile
	}
}

func (e *fileEntry) IsDirectory() bool { return e.Type() == vfs.EntryDirectory }
func (e *fileEntry) IsFile() bool      { return e.Type() == vfs.EntryFile }
func (e *fileEntry) IsLink() bool      { return e.Type() == vfs.EntryLink }
func (e *fileEntry) IsDevice() bool    { return e.Type() == vfs.EntryDevice }
func (e *fileEntry) IsPipe() bool      { return e.Type() == vfs.EntryPipe }
func (e *fileEntry) IsSocket() bool    { return e.Type() == vfs.EntrySocket }

// AccessTime, CreationTime, and ChangeTime require platform-specific
// stat_t field access (Atim/Ctim/Birthtimespec) this package does not
// implement; only ModificationTime, which os.FileInfo exposes
// portably, is reported.
func (e *fileEntry) AccessTime() (time.Time, bool)   { return time.Time{}, false }
func (e *fileEntry) CreationTime() (time.Time, bool) { return time.Time{}, false }
func (e *fileEntry) ChangeTime() (time.Time, bool)   { return time.Time{}, false }
func (e *fileEntry) ModificationTime() (time.Time, bool) {
	return e.info.ModTime(), true
}
func (e *fileEntry) AddedTime() (time.Time, bool) { return time.Time{}, false }

func (e *fileEntry) Size() (int64, bool) {
	if e.info.IsDir() {
		return 0, false
	}
	return e.info.Size(), true
}

func (e *fileEntry) LinkTarget() (string, bool) {
	if e.Type() != vfs.EntryLink {
		return "", false
	}
	target, err := os.Readlink(e.location)
	if err != nil {
		return "", false
	}
	return target, true
}

func (e *fileEntry) NumberOfSubFileEntries() (int, error) {
	if !e.info.IsDir() {
		return 0, nil
	}
	entries, err := os.ReadDir(e.location)
	if err != nil {
		return 0, vfs.NewError(vfs.KindBackEnd, "number-of-sub-file-entries", "OS", err)
	}
	return len(entries), nil
}

func (e *fileEntry) SubFileEntries(_ context.Context) iter.Seq2[vfs.FileEntry, error] {
	return func(yield func(vfs.FileEntry, error) bool) {
		if !e.info.IsDir() {
			return
		}
		entries, err := os.ReadDir(e.location)
		if err != nil {
			yield(nil, vfs.NewError(vfs.KindBackEnd, "sub-file-entries", "OS", err))
			return
		}
		for _, de := range entries {
			childLocation := filepath.Join(e.location, de.Name())
			info, err := os.Lstat(childLocation)
			if err != nil {
				if !yield(nil, vfs.NewError(vfs.KindBackEnd, "sub-file-entries", "OS", err)) {
					return
				}
				continue
			}
			if !yield(&fileEntry{location: childLocation, info: info}, nil) {
				return
			}
		}
	}
}

func (e *fileEntry) GetParentFileEntry(_ context.Context) (vfs.FileEntry, error) {
	if e.IsRoot() {
		return nil, nil
	}
	parentLocation := filepath.Dir(e.location)
	info, err := os.Lstat(parentLocation)
	if err != nil {
		return nil, vfs.NewError(vfs.KindBackEnd, "get-parent-file-entry", "OS", err)
	}
	return &fileEntry{location: parentLocation, info: info}, nil
}

func (e *fileEntry) GetLinkedFileEntry(_ context.Context) (vfs.FileEntry, error) {
	if e.Type() != vfs.EntryLink {
		return nil, nil
	}
	target, err := os.Readlink(e.location)
	if err != nil {
		return nil, vfs.NewError(vfs.KindBackEnd, "get-linked-file-entry", "OS", err)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(e.location), target)
	}
	info, err := os.Lstat(target)
	if err != nil {
		return nil, nil
	}
	return &fileEntry{location: target, info: info}, nil
}

func (e *fileEntry) GetFileObject(ctx context.Context, dataStreamName string) (vfs.FileObject, error) {
	if dataStreamName != "" {
		return nil, vfs.NewError(vfs.KindNotSupported, "get-file-object", "OS",
			errNoNamedStreams)
	}
	fo := &fileObject{}
	spec, _ := pathspec.New("OS", noopValidate, pathspec.Location(e.location))
	if err := fo.Open(ctx, spec); err != nil {
		return nil, err
	}
	return fo, nil
}

func (e *fileEntry) GetExtents(context.Context) ([]vfs.Extent, error) {
	if e.info.IsDir() {
		return nil, nil
	}
	return []vfs.Extent{{Type: vfs.ExtentData, Offset: 0, Size: e.info.Size()}}, nil
}

func (e *fileEntry) GetDataStream(name string) (vfs.DataStream, bool) {
	if name != "" || e.info.IsDir() {
		return nil, false
	}
	return &dataStream{entry: e}, true
}

func (e *fileEntry) DataStreams() []vfs.DataStream {
	if e.info.IsDir() {
		return nil
	}
	return []vfs.DataStream{&dataStream{entry: e}}
}

func (e *fileEntry) NumberOfDataStreams() int {
	if e.info.IsDir() {
		return 0
	}
	return 1
}

func (e *fileEntry) Attributes() []vfs.Attribute { return nil }

type dataStream struct{ entry *fileEntry }

func (d *dataStream) Name() string { return "" }
func (d *dataStream) Open(ctx context.Context) (vfs.FileObject, error) {
	return d.entry.GetFileObject(ctx, "")
}

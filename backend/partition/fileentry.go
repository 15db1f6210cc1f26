package partition

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

var errNoNamedStreams = errors.New("partition entries expose only the default data stream")

// fileEntry is a partition table entry: a virtual directory child of
// the volume system's root, never a directory itself.
type fileEntry struct {
	fs     *FileSystem
	isRoot bool
	entry  entry
	name   string
	spec   *pathspec.Spec
}

func (e *fileEntry) Name() string             { return e.name }
func (e *fileEntry) PathSpec() *pathspec.Spec { return e.spec }
func (e *fileEntry) IsRoot() bool             { return e.isRoot }
func (e *fileEntry) IsVirtual() bool          { return true }
func (e *fileEntry) IsAllocated() bool        { return true }

func (e *fileEntry) Type() vfs.EntryType {
	if e.isRoot {
		return vfs.EntryDirectory
	}
	return vfs.EntryFile
}

func (e *fileEntry) IsDirectory() bool { return e.isRoot }
func (e *fileEntry) IsFile() bool      { return !e.isRoot }
func (e *fileEntry) IsLink() bool      { return false }
func (e *fileEntry) IsDevice() bool    { return false }
func (e *fileEntry) IsPipe() bool      { return false }
func (e *fileEntry) IsSocket() bool    { return false }

func (e *fileEntry) AccessTime() (time.Time, bool)       { return time.Time{}, false }
func (e *fileEntry) CreationTime() (time.Time, bool)     { return time.Time{}, false }
func (e *fileEntry) ChangeTime() (time.Time, bool)       { return time.Time{}, false }
func (e *fileEntry) ModificationTime() (time.Time, bool) { return time.Time{}, false }
func (e *fileEntry) AddedTime() (time.Time, bool)        { return time.Time{}, false }

func (e *fileEntry) Size() (int64, bool) {
	if e.isRoot {
		return 0, false
	}
	return e.entry.size, true
}

func (e *fileEntry) LinkTarget() (string, bool) { return "", false }

func (e *fileEntry) NumberOfSubFileEntries() (int, error) {
	if !e.isRoot {
		return 0, nil
	}
	return len(e.fs.entries), nil
}

func (e *fileEntry) SubFileEntries(_ context.Context) iter.Seq2[vfs.FileEntry, error] {
	return func(yield func(vfs.FileEntry, error) bool) {
		if !e.isRoot {
			return
		}
		for _, ent := range e.fs.entries {
			name := e.fs.entryName(ent)
			spec, err := e.fs.childSpec(sep + name)
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(&fileEntry{fs: e.fs, entry: ent, name: name, spec: spec}, nil) {
				return
			}
		}
	}
}

func (e *fileEntry) GetParentFileEntry(_ context.Context) (vfs.FileEntry, error) {
	if e.isRoot {
		return nil, nil
	}
	return e.fs.GetRootFileEntry(nil)
}

func (e *fileEntry) GetLinkedFileEntry(context.Context) (vfs.FileEntry, error) { return nil, nil }

func (e *fileEntry) GetFileObject(ctx context.Context, dataStreamName string) (vfs.FileObject, error) {
	if e.isRoot {
		return nil, vfs.NewError(vfs.KindNotSupported, "get-file-object", e.fs.format.typeIndicator(),
			errors.New("the volume system root carries no byte stream"))
	}
	if dataStreamName != "" {
		return nil, vfs.NewError(vfs.KindNotSupported, "get-file-object", e.fs.format.typeIndicator(), errNoNamedStreams)
	}
	rangeSpec, err := pathspec.New(registry.TypeDataRange, registry.ValidateAttrs,
		pathspec.WithParent(e.fs.spec.Parent()),
		pathspec.RangeOffset(e.entry.offset),
		pathspec.RangeSize(e.entry.size))
	if err != nil {
		return nil, err
	}
	return e.fs.resolver.OpenFileObject(ctx, rangeSpec)
}

func (e *fileEntry) GetExtents(context.Context) ([]vfs.Extent, error) {
	if e.isRoot {
		return nil, nil
	}
	return []vfs.Extent{{Type: vfs.ExtentData, Offset: 0, Size: e.entry.size}}, nil
}

func (e *fileEntry) GetDataStream(name string) (vfs.DataStream, bool) {
	if e.isRoot || name != "" {
		return nil, false
	}
	return &dataStream{entry: e}, true
}

func (e *fileEntry) DataStreams() []vfs.DataStream {
	if e.isRoot {
		return nil
	}
	return []vfs.DataStream{&dataStream{entry: e}}
}

func (e *fileEntry) NumberOfDataStreams() int {
	if e.isRoot {
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

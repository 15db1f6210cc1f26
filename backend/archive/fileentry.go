package archive

import (
	"context"
	"iter"
	"time"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

type fileEntry struct {
	fs   *FileSystem
	node *node
	name string
	spec *pathspec.Spec
}

func (e *fileEntry) Name() string             { return e.name }
func (e *fileEntry) PathSpec() *pathspec.Spec { return e.spec }
func (e *fileEntry) IsRoot() bool             { return e.node == e.fs.tree.root }
func (e *fileEntry) IsVirtual() bool          { return false }
func (e *fileEntry) IsAllocated() bool        { return true }

func (e *fileEntry) Type() vfs.EntryType {
	if e.node.isDir {
		return vfs.EntryDirectory
	}
	return vfs.EntryFile
}

func (e *fileEntry) IsDirectory() bool { return e.node.isDir }
func (e *fileEntry) IsFile() bool      { return !e.node.isDir }
func (e *fileEntry) IsLink() bool      { return false }
func (e *fileEntry) IsDevice() bool    { return false }
func (e *fileEntry) IsPipe() bool      { return false }
func (e *fileEntry) IsSocket() bool    { return false }

func (e *fileEntry) AccessTime() (time.Time, bool)   { return time.Time{}, false }
func (e *fileEntry) CreationTime() (time.Time, bool) { return time.Time{}, false }
func (e *fileEntry) ChangeTime() (time.Time, bool)   { return time.Time{}, false }
func (e *fileEntry) ModificationTime() (time.Time, bool) {
	return e.node.modTime, !e.node.modTime.IsZero()
}
func (e *fileEntry) AddedTime() (time.Time, bool) { return time.Time{}, false }

func (e *fileEntry) Size() (int64, bool) {
	if e.node.isDir {
		return 0, false
	}
	return int64(len(e.node.data)), true
}

func (e *fileEntry) LinkTarget() (string, bool) { return "", false }

func (e *fileEntry) NumberOfSubFileEntries() (int, error) {
	if !e.node.isDir {
		return 0, nil
	}
	return len(e.node.children), nil
}

func (e *fileEntry) SubFileEntries(_ context.Context) iter.Seq2[vfs.FileEntry, error] {
	return func(yield func(vfs.FileEntry, error) bool) {
		if !e.node.isDir {
			return
		}
		location, _ := e.spec.Location()
		for _, name := range e.fs.tree.sortedChildNames(e.node) {
			child := e.node.children[name]
			childSpec, err := e.fs.childSpec(joinLocation(location, name))
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(&fileEntry{fs: e.fs, node: child, name: name, spec: childSpec}, nil) {
				return
			}
		}
	}
}

func joinLocation(parent, name string) string {
	if parent == "" || parent == sep {
		return sep + name
	}
	return parent + sep + name
}

func (e *fileEntry) GetParentFileEntry(_ context.Context) (vfs.FileEntry, error) {
	if e.IsRoot() {
		return nil, nil
	}
	location, _ := e.spec.Location()
	segs, _ := splitPath(location)
	parentLocation := sep
	for _, s := range segs {
		parentLocation = joinLocation(parentLocation, s)
	}
	parentNode, ok := e.fs.tree.walk(parentLocation)
	if !ok {
		return nil, nil
	}
	parentSpec, err := e.fs.childSpec(parentLocation)
	if err != nil {
		return nil, err
	}
	_, base := splitPath(parentLocation)
	return &fileEntry{fs: e.fs, node: parentNode, name: base, spec: parentSpec}, nil
}

func (e *fileEntry) GetLinkedFileEntry(context.Context) (vfs.FileEntry, error) { return nil, nil }

func (e *fileEntry) GetFileObject(_ context.Context, dataStreamName string) (vfs.FileObject, error) {
	if dataStreamName != "" {
		return nil, vfs.NewError(vfs.KindNotSupported, "get-file-object", e.fs.format.typeIndicator(), errNoNamedStreams)
	}
	return &fileObject{fs: e.fs, data: e.node.data, opened: true}, nil
}

func (e *fileEntry) GetExtents(context.Context) ([]vfs.Extent, error) {
	size, ok := e.Size()
	if !ok {
		return nil, nil
	}
	return []vfs.Extent{{Type: vfs.ExtentData, Offset: 0, Size: size}}, nil
}

func (e *fileEntry) GetDataStream(name string) (vfs.DataStream, bool) {
	if name != "" {
		return nil, false
	}
	return &dataStream{entry: e}, true
}

func (e *fileEntry) DataStreams() []vfs.DataStream {
	if e.node.isDir {
		return nil
	}
	return []vfs.DataStream{&dataStream{entry: e}}
}

func (e *fileEntry) NumberOfDataStreams() int {
	if e.node.isDir {
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

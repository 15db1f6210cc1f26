package fake

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
	switch {
	case e.node.isLink:
		return vfs.EntryLink
	case e.node.isDir:
		return vfs.EntryDirectory
	default:
		return vfs.EntryFile
	}
}

func (e *fileEntry) IsDirectory() bool { return e.node.isDir }
func (e *fileEntry) IsFile() bool      { return !e.node.isDir && !e.node.isLink }
func (e *fileEntry) IsLink() bool      { return e.node.isLink }
func (e *fileEntry) IsDevice() bool    { return false }
func (e *fileEntry) IsPipe() bool      { return false }
func (e *fileEntry) IsSocket() bool    { return false }

func (e *fileEntry) AccessTime() (time.Time, bool)       { return e.node.accessTime, !e.node.accessTime.IsZero() }
func (e *fileEntry) CreationTime() (time.Time, bool)     { return time.Time{}, false }
func (e *fileEntry) ChangeTime() (time.Time, bool)       { return e.node.changeTime, !e.node.changeTime.IsZero() }
func (e *fileEntry) ModificationTime() (time.Time, bool) { return e.node.modTime, !e.node.modTime.IsZero() }
func (e *fileEntry) AddedTime() (time.Time, bool)        { return time.Time{}, false }

func (e *fileEntry) Size() (int64, bool) {
	if e.node.isDir || e.node.isLink {
		return 0, false
	}
	return int64(len(e.node.data)), true
}

func (e *fileEntry) LinkTarget() (string, bool) {
	if !e.node.isLink {
		return "", false
	}
	return e.node.linkTarget, true
}

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
	parentLocation := parentOf(location)
	parentNode, ok := e.fs.tree.walk(parentLocation)
	if !ok {
		return nil, nil
	}
	parentSpec, err := e.fs.childSpec(parentLocation)
	if err != nil {
		return nil, err
	}
	return &fileEntry{fs: e.fs, node: parentNode, name: baseOf(parentLocation), spec: parentSpec}, nil
}

func parentOf(location string) string {
	segs, _ := splitLocation(location)
	out := sep
	for _, s := range segs {
		out = joinLocation(out, s)
	}
	return out
}

func baseOf(location string) string {
	_, base := splitLocation(location)
	return base
}

func (e *fileEntry) GetLinkedFileEntry(ctx context.Context) (vfs.FileEntry, error) {
	if !e.node.isLink {
		return nil, nil
	}
	targetNode, ok := e.fs.tree.walk(e.node.linkTarget)
	if !ok {
		return nil, nil
	}
	targetSpec, err := e.fs.childSpec(e.node.linkTarget)
	if err != nil {
		return nil, err
	}
	return &fileEntry{fs: e.fs, node: targetNode, name: baseOf(e.node.linkTarget), spec: targetSpec}, nil
}

func (e *fileEntry) GetFileObject(ctx context.Context, dataStreamName string) (vfs.FileObject, error) {
	if dataStreamName != "" {
		return nil, vfs.NewError(vfs.KindNotSupported, "get-file-object", "FAKE",
			errNoNamedStreams)
	}
	fo := &fileObject{}
	if err := fo.Open(ctx, e.spec); err != nil {
		return nil, err
	}
	return fo, nil
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
	if e.node.isDir || e.node.isLink {
		return nil
	}
	return []vfs.DataStream{&dataStream{entry: e}}
}

func (e *fileEntry) NumberOfDataStreams() int {
	if e.node.isDir || e.node.isLink {
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

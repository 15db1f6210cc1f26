// Package partition implements TYPE_GPT and TYPE_MBR: volume-system
// FileSystem views over a raw disk image's partition table, exposing
// each partition as a virtual "/pN" entry whose FileObject is a
// TYPE_DATA_RANGE slice of the underlying image rather than a byte
// stream of its own.
package partition

import (
	"context"
	"fmt"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
	"github.com/dvfscore/vfs/vfspath"
)

const sep = "/"

// Format selects which partition table a FileSystem decodes.
type Format int

const (
	FormatGPT Format = iota
	FormatMBR
	// FormatTSK is TYPE_TSK_PARTITION: a scheme-agnostic partition view
	// that accepts either a GPT or an MBR table on the underlying
	// image, the way The Sleuth Kit's libtsk auto-detects whichever
	// scheme is actually present instead of requiring the caller to
	// know it upfront.
	FormatTSK
)

func (f Format) String() string {
	switch f {
	case FormatGPT:
		return "GPT"
	case FormatMBR:
		return "MBR"
	default:
		return "TSK_PARTITION"
	}
}

func (f Format) typeIndicator() string {
	switch f {
	case FormatGPT:
		return registry.TypeGPT
	case FormatMBR:
		return registry.TypeMBR
	default:
		return registry.TypeTSKPartition
	}
}

// FileSystem is the TYPE_GPT / TYPE_MBR vfs.FileSystem.
type FileSystem struct {
	format   Format
	resolver registry.Resolver
	entries  []entry
	spec     *pathspec.Spec
}

// New returns an unopened FileSystem for format, resolving its parent
// (and serving partition content) through r.
func New(format Format, r registry.Resolver) *FileSystem {
	return &FileSystem{format: format, resolver: r}
}

func (f *FileSystem) Open(ctx context.Context, spec *pathspec.Spec) error {
	ti := f.format.typeIndicator()
	if !spec.HasParent() {
		return vfs.NewError(vfs.KindPathSpec, "open", ti, fmt.Errorf("%s requires a parent", ti))
	}
	parent, err := f.resolver.OpenFileObject(ctx, spec.Parent())
	if err != nil {
		return err
	}
	defer parent.Close()
	if _, err := parent.Seek(0, io.SeekStart); err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", ti, err)
	}
	raw, err := io.ReadAll(parent)
	if err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", ti, err)
	}
	entries, err := readTable(f.format, raw)
	if err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", ti, err)
	}
	f.entries = entries
	f.spec = spec
	return nil
}

func (f *FileSystem) Close() error { return nil }

func (f *FileSystem) entryName(e entry) string { return fmt.Sprintf("p%d", e.index) }

func (f *FileSystem) byLocation(location string) (entry, bool) {
	name := vfspath.Base(sep, location)
	for _, e := range f.entries {
		if f.entryName(e) == name {
			return e, true
		}
	}
	return entry{}, false
}

func (f *FileSystem) GetRootFileEntry(_ context.Context) (vfs.FileEntry, error) {
	spec, err := f.childSpec("")
	if err != nil {
		return nil, err
	}
	return &fileEntry{fs: f, isRoot: true, spec: spec}, nil
}

func (f *FileSystem) GetFileEntryByPathSpec(_ context.Context, spec *pathspec.Spec) (vfs.FileEntry, error) {
	location, ok := spec.Location()
	if !ok || location == "" || location == sep {
		return f.GetRootFileEntry(nil)
	}
	e, ok := f.byLocation(location)
	if !ok {
		return nil, nil
	}
	return &fileEntry{fs: f, entry: e, name: f.entryName(e), spec: spec}, nil
}

func (f *FileSystem) BasePathSpecs() []*pathspec.Spec   { return []*pathspec.Spec{f.spec} }
func (f *FileSystem) PathSeparator() string             { return sep }
func (f *FileSystem) JoinPath(segments []string) string { return vfspath.Join(sep, segments) }
func (f *FileSystem) SplitPath(p string) []string       { return vfspath.Split(sep, p) }

func (f *FileSystem) childSpec(location string) (*pathspec.Spec, error) {
	opts := []pathspec.Option{pathspec.WithParent(f.spec.Parent())}
	if location != "" {
		opts = append(opts, pathspec.Location(location))
	}
	return pathspec.New(f.format.typeIndicator(), noopValidate, opts...)
}

func noopValidate(string, map[string]any, *pathspec.Spec) error { return nil }

package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
	"github.com/dvfscore/vfs/vfspath"
)

const sep = "/"

// Format selects which container format a FileSystem parses.
type Format int

const (
	FormatZip Format = iota
	FormatTar
)

func (f Format) typeIndicator() string {
	if f == FormatZip {
		return registry.TypeZip
	}
	return registry.TypeTar
}

// FileSystem is the TYPE_ZIP / TYPE_TAR vfs.FileSystem.
type FileSystem struct {
	format   Format
	resolver registry.Resolver
	tree     *tree
	spec     *pathspec.Spec
}

// New returns an unopened FileSystem for format, resolving its parent
// through r.
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

	var t *tree
	switch f.format {
	case FormatZip:
		t, err = parseZip(raw)
	case FormatTar:
		t, err = parseTar(raw)
	}
	if err != nil {
		return vfs.NewError(vfs.KindBackEnd, "open", ti, err)
	}
	f.tree = t
	f.spec = spec
	return nil
}

func (f *FileSystem) Close() error { return nil }

func parseZip(raw []byte) (*tree, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}
	t := newTree()
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			t.insert(zf.Name, nil, zf.Modified, true)
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		t.insert(zf.Name, data, zf.Modified, false)
	}
	return t, nil
}

func parseTar(raw []byte) (*tree, error) {
	tr := tar.NewReader(bytes.NewReader(raw))
	t := newTree()
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			t.insert(hdr.Name, nil, hdr.ModTime, true)
		case tar.TypeReg, tar.TypeRegA:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, err
			}
			t.insert(hdr.Name, data, hdr.ModTime, false)
		}
	}
	return t, nil
}

func (f *FileSystem) GetRootFileEntry(_ context.Context) (vfs.FileEntry, error) {
	spec, err := f.childSpec(sep)
	if err != nil {
		return nil, err
	}
	return &fileEntry{fs: f, node: f.tree.root, name: "", spec: spec}, nil
}

func (f *FileSystem) GetFileEntryByPathSpec(_ context.Context, spec *pathspec.Spec) (vfs.FileEntry, error) {
	location, _ := spec.Location()
	n, ok := f.tree.walk(location)
	if !ok {
		return nil, nil
	}
	return &fileEntry{fs: f, node: n, name: vfspath.Base(sep, location), spec: spec}, nil
}

func (f *FileSystem) BasePathSpecs() []*pathspec.Spec   { return []*pathspec.Spec{f.spec} }
func (f *FileSystem) PathSeparator() string             { return sep }
func (f *FileSystem) JoinPath(segments []string) string { return vfspath.Join(sep, segments) }
func (f *FileSystem) SplitPath(p string) []string       { return vfspath.Split(sep, p) }

func (f *FileSystem) childSpec(location string) (*pathspec.Spec, error) {
	return pathspec.New(f.format.typeIndicator(), noopValidate,
		pathspec.WithParent(f.spec.Parent()), pathspec.Location(location))
}

func noopValidate(string, map[string]any, *pathspec.Spec) error { return nil }

package fake

import (
	"context"
	"fmt"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/vfspath"
)

const sep = "/"

// FileSystem is the TYPE_FAKE vfs.FileSystem: a view onto a registered
// in-memory Tree.
type FileSystem struct {
	tree *Tree
	spec *pathspec.Spec
}

// NewFileSystem returns an unopened FileSystem.
func NewFileSystem() *FileSystem { return &FileSystem{} }

func (f *FileSystem) Open(_ context.Context, spec *pathspec.Spec) error {
	name, ok := spec.IdentifierString()
	if !ok {
		return vfs.NewError(vfs.KindPathSpec, "open", "FAKE",
			fmt.Errorf("FAKE path specification requires an identifier naming a registered tree"))
	}
	tree, ok := lookup(name)
	if !ok {
		return vfs.NewError(vfs.KindBackEnd, "open", "FAKE",
			fmt.Errorf("no tree registered under identifier %q", name))
	}
	f.tree = tree
	f.spec = spec
	return nil
}

func (f *FileSystem) Close() error { return nil }

func (f *FileSystem) GetRootFileEntry(_ context.Context) (vfs.FileEntry, error) {
	rootSpec, err := f.childSpec(sep)
	if err != nil {
		return nil, err
	}
	return &fileEntry{fs: f, node: f.tree.root, name: "", spec: rootSpec}, nil
}

func (f *FileSystem) GetFileEntryByPathSpec(_ context.Context, spec *pathspec.Spec) (vfs.FileEntry, error) {
	location, _ := spec.Location()
	n, ok := f.tree.walk(location)
	if !ok {
		return nil, nil
	}
	return &fileEntry{fs: f, node: n, name: vfspath.Base(sep, location), spec: spec}, nil
}

func (f *FileSystem) BasePathSpecs() []*pathspec.Spec { return []*pathspec.Spec{f.spec} }
func (f *FileSystem) PathSeparator() string           { return sep }
func (f *FileSystem) JoinPath(segments []string) string { return vfspath.Join(sep, segments) }
func (f *FileSystem) SplitPath(p string) []string       { return vfspath.Split(sep, p) }

// childSpec builds the path specification for location within f,
// reusing f.spec's identifier so callers can round-trip through the
// resolver.
func (f *FileSystem) childSpec(location string) (*pathspec.Spec, error) {
	identifier, _ := f.spec.IdentifierString()
	return pathspec.New("FAKE", noopValidate,
		pathspec.MountIdentifier(identifier), pathspec.Location(location))
}

// noopValidate is used for specs this package constructs internally
// from an already-validated f.spec; re-validating would require
// plumbing the registry's ValidateAttrs down here, which would make
// this leaf backend depend back on registry.
func noopValidate(string, map[string]any, *pathspec.Spec) error { return nil }

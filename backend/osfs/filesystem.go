// Package osfs implements TYPE_OS, a read-only view onto the host
// operating system's native file system. A TYPE_OS path specification's
// "location" attribute is an absolute OS path; TYPE_OS is always a root
// type indicator (it never has a parent).
//
// Grounded on the teacher's osfs package, trimmed to the read-only
// subset (Open, Stat/Lstat, ReadDir, Readlink) the specification's
// Non-goal against write support permits, and adapted from lesiw.io/fs's
// context.Context-scoped working directory model to this
// specification's absolute-location-only model (a VFS path
// specification carries its own full location; there is no ambient
// working directory to resolve against).
package osfs

import (
	"context"
	"os"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/vfspath"
)

const sep = "/"

// FileSystem is the TYPE_OS vfs.FileSystem.
type FileSystem struct {
	spec *pathspec.Spec
}

// NewFileSystem returns an unopened FileSystem.
func NewFileSystem() *FileSystem { return &FileSystem{} }

func (f *FileSystem) Open(_ context.Context, spec *pathspec.Spec) error {
	f.spec = spec
	return nil
}

func (f *FileSystem) Close() error { return nil }

func (f *FileSystem) GetRootFileEntry(ctx context.Context) (vfs.FileEntry, error) {
	return f.GetFileEntryByPathSpec(ctx, f.rootSpec())
}

func (f *FileSystem) rootSpec() *pathspec.Spec {
	spec, _ := pathspec.New("OS", noopValidate, pathspec.Location(sep))
	return spec
}

func (f *FileSystem) GetFileEntryByPathSpec(_ context.Context, spec *pathspec.Spec) (vfs.FileEntry, error) {
	location, ok := spec.Location()
	if !ok {
		return nil, vfs.NewError(vfs.KindPathSpec, "get-file-entry", "OS",
			errNoLocation)
	}
	info, err := os.Lstat(location)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, vfs.NewError(vfs.KindBackEnd, "get-file-entry", "OS", err)
	}
	return &fileEntry{location: location, info: info}, nil
}

func (f *FileSystem) BasePathSpecs() []*pathspec.Spec   { return []*pathspec.Spec{f.spec} }
func (f *FileSystem) PathSeparator() string             { return sep }
func (f *FileSystem) JoinPath(segments []string) string { return vfspath.Join(sep, segments) }
func (f *FileSystem) SplitPath(p string) []string       { return vfspath.Split(sep, p) }

func noopValidate(string, map[string]any, *pathspec.Spec) error { return nil }

package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/mount"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
	"github.com/dvfscore/vfs/resolver"
)

type fakeFileSystem struct {
	opens int
	spec  *pathspec.Spec
}

func (f *fakeFileSystem) Open(_ context.Context, spec *pathspec.Spec) error {
	f.opens++
	f.spec = spec
	return nil
}
func (f *fakeFileSystem) Close() error { return nil }
func (f *fakeFileSystem) GetRootFileEntry(context.Context) (vfs.FileEntry, error) {
	return nil, nil
}
func (f *fakeFileSystem) GetFileEntryByPathSpec(context.Context, *pathspec.Spec) (vfs.FileEntry, error) {
	return nil, nil
}
func (f *fakeFileSystem) BasePathSpecs() []*pathspec.Spec { return []*pathspec.Spec{f.spec} }
func (f *fakeFileSystem) PathSeparator() string           { return "/" }
func (f *fakeFileSystem) JoinPath(segs []string) string   { return "/" }
func (f *fakeFileSystem) SplitPath(string) []string       { return nil }

func noValidate(string, map[string]any, *pathspec.Spec) error { return nil }

func newTestResolver(t *testing.T) (*resolver.Resolver, *mount.Manager, *fakeFileSystem) {
	t.Helper()
	reg := registry.New()
	fake := &fakeFileSystem{}
	err := reg.Register(&registry.Factory{
		TypeIndicator: "TESTFS",
		RootType:      true,
		AttrNames:     []string{"location"},
		OpenFileSystem: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error) {
			if err := fake.Open(ctx, spec); err != nil {
				return nil, err
			}
			return fake, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	mounts := mount.New()
	r := resolver.New(
		resolver.WithContext(resolver.NewContext()),
		resolver.WithRegistry(reg),
		resolver.WithMountManager(mounts),
	)
	return r, mounts, fake
}

func TestOpenFileSystemCachesByContainer(t *testing.T) {
	r, _, fake := newTestResolver(t)
	spec1, _ := pathspec.New("TESTFS", noValidate, pathspec.Location("/a"))
	spec2, _ := pathspec.New("TESTFS", noValidate, pathspec.Location("/b"))

	fs1, err := r.OpenFileSystem(context.Background(), spec1)
	if err != nil {
		t.Fatal(err)
	}
	fs2, err := r.OpenFileSystem(context.Background(), spec2)
	if err != nil {
		t.Fatal(err)
	}
	if fs1 != fs2 {
		t.Fatal("expected specs differing only in location to share one FileSystem")
	}
	if fake.opens != 1 {
		t.Fatalf("expected exactly one Open, got %d", fake.opens)
	}
}

func TestOpenFileSystemUnsupportedFormat(t *testing.T) {
	r, _, _ := newTestResolver(t)
	spec, _ := pathspec.New("NOPE", noValidate)
	_, err := r.OpenFileSystem(context.Background(), spec)
	if !vfs.Is(err, vfs.KindUnsupportedFormat) {
		t.Fatalf("expected KindUnsupportedFormat, got %v", err)
	}
}

func TestOpenFileSystemBackEndErrorWrapped(t *testing.T) {
	reg := registry.New()
	err := reg.Register(&registry.Factory{
		TypeIndicator: "BROKEN",
		RootType:      true,
		OpenFileSystem: func(context.Context, *pathspec.Spec, registry.Resolver) (vfs.FileSystem, error) {
			return nil, errors.New("boom")
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := resolver.New(resolver.WithContext(resolver.NewContext()), resolver.WithRegistry(reg))
	spec, _ := pathspec.New("BROKEN", noValidate)
	_, openErr := r.OpenFileSystem(context.Background(), spec)
	if !vfs.Is(openErr, vfs.KindBackEnd) {
		t.Fatalf("expected KindBackEnd, got %v", openErr)
	}
}

func TestOpenFileSystemMountWithParentRejected(t *testing.T) {
	r, _, _ := newTestResolver(t)
	parent, _ := pathspec.New("TESTFS", noValidate, pathspec.Location("/real"))
	mountSpec, _ := pathspec.New(registry.TypeMount, noValidate,
		pathspec.WithParent(parent), pathspec.MountIdentifier("m1"))

	_, err := r.OpenFileSystem(context.Background(), mountSpec)
	if !vfs.Is(err, vfs.KindPathSpec) {
		t.Fatalf("expected KindPathSpec for a MOUNT spec with a parent, got %v", err)
	}
}

func TestOpenFileEntryReleasesFileSystem(t *testing.T) {
	reg := registry.New()
	fake1 := &fakeFileSystem{}
	fake2 := &fakeFileSystem{}
	if err := reg.Register(&registry.Factory{
		TypeIndicator: "TESTFS",
		RootType:      true,
		AttrNames:     []string{"location"},
		OpenFileSystem: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error) {
			_ = fake1.Open(ctx, spec)
			return fake1, nil
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&registry.Factory{
		TypeIndicator: "TESTFS2",
		RootType:      true,
		AttrNames:     []string{"location"},
		OpenFileSystem: func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error) {
			_ = fake2.Open(ctx, spec)
			return fake2, nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	r := resolver.New(
		resolver.WithContext(resolver.NewContext(resolver.WithFileSystemCapacity(1))),
		resolver.WithRegistry(reg),
	)
	spec1, _ := pathspec.New("TESTFS", noValidate, pathspec.Location("/a"))
	spec2, _ := pathspec.New("TESTFS2", noValidate, pathspec.Location("/b"))

	if _, err := r.OpenFileEntry(context.Background(), spec1); err != nil {
		t.Fatal(err)
	}
	// If OpenFileEntry left spec1's FileSystem pinned at refcount 1,
	// the capacity-1 cache has nothing evictable and this fails with
	// KindCacheFull.
	if _, err := r.OpenFileEntry(context.Background(), spec2); err != nil {
		t.Fatalf("expected spec1's FileSystem to be evictable after OpenFileEntry, got %v", err)
	}
}

func TestOpenFileSystemMountIndirection(t *testing.T) {
	r, mounts, fake := newTestResolver(t)
	target, _ := pathspec.New("TESTFS", noValidate, pathspec.Location("/real"))
	mounts.Register("m1", target)

	mountSpec, _ := pathspec.New(registry.TypeMount, noValidate, pathspec.MountIdentifier("m1"))
	fs, err := r.OpenFileSystem(context.Background(), mountSpec)
	if err != nil {
		t.Fatal(err)
	}
	if fs != fake {
		t.Fatal("expected mount indirection to resolve to the real TESTFS backend")
	}
	if fake.opens != 1 {
		t.Fatalf("expected exactly one Open, got %d", fake.opens)
	}
}

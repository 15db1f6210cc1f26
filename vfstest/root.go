package vfstest

import (
	"context"
	"testing"

	"github.com/dvfscore/vfs"
)

// testRoot asserts the invariants every backend's root entry must
// satisfy regardless of format: it exists, reports IsRoot, and is a
// directory (every backend in this module roots at a container, never
// a bare file).
func testRoot(ctx context.Context, t *testing.T, fsys vfs.FileSystem) {
	t.Helper()

	root, err := fsys.GetRootFileEntry(ctx)
	if err != nil {
		t.Fatalf("GetRootFileEntry(): %v", err)
	}
	if root == nil {
		t.Fatal("GetRootFileEntry() returned a nil entry with no error")
	}
	if !root.IsRoot() {
		t.Error("root entry's IsRoot() = false")
	}
	if !root.IsDirectory() {
		t.Error("root entry's IsDirectory() = false")
	}
	if root.IsFile() || root.IsLink() || root.IsDevice() || root.IsPipe() || root.IsSocket() {
		t.Error("root entry satisfies more than one of Is*, want exactly IsDirectory")
	}

	again, err := fsys.GetFileEntryByPathSpec(ctx, root.PathSpec())
	if err != nil {
		t.Fatalf("GetFileEntryByPathSpec(root.PathSpec()): %v", err)
	}
	if again == nil {
		t.Fatal("GetFileEntryByPathSpec(root.PathSpec()) returned (nil, nil)")
	}
	if again.Name() != root.Name() {
		t.Errorf("re-resolved root Name() = %q, want %q", again.Name(), root.Name())
	}
}

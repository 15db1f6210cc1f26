package vfstest

import (
	"context"
	"testing"

	"github.com/dvfscore/vfs"
)

// maxWalkDepth bounds the recursive walk below; every backend's
// fixture in this module's own tests is small, and a depth bound turns
// an accidental cycle into a fast test failure instead of a hang.
const maxWalkDepth = 32

// testWalk recursively walks fsys from its root, checking that
// NumberOfSubFileEntries agrees with the number of entries
// SubFileEntries actually yields, that no two siblings share a name,
// and that every non-root entry's GetParentFileEntry resolves back to
// something with the same path specification as its actual parent.
func testWalk(ctx context.Context, t *testing.T, fsys vfs.FileSystem) {
	t.Helper()

	root, err := fsys.GetRootFileEntry(ctx)
	if err != nil {
		t.Fatalf("GetRootFileEntry(): %v", err)
	}
	walk(ctx, t, root, 0)
}

func walk(ctx context.Context, t *testing.T, entry vfs.FileEntry, depth int) {
	t.Helper()
	if depth > maxWalkDepth {
		t.Fatalf("walk exceeded max depth %d at %s; possible cycle", maxWalkDepth, entry.PathSpec())
	}

	declared, err := entry.NumberOfSubFileEntries()
	if err != nil {
		t.Fatalf("NumberOfSubFileEntries(%s): %v", entry.PathSpec(), err)
	}

	seen := make(map[string]bool)
	count := 0
	for child, err := range entry.SubFileEntries(ctx) {
		if err != nil {
			t.Fatalf("SubFileEntries(%s): %v", entry.PathSpec(), err)
			return
		}
		count++
		if seen[child.Name()] {
			t.Errorf("duplicate child name %q under %s", child.Name(), entry.PathSpec())
		}
		seen[child.Name()] = true

		parent, err := child.GetParentFileEntry(ctx)
		if err != nil {
			t.Errorf("GetParentFileEntry(%s): %v", child.PathSpec(), err)
		} else if parent != nil && !parent.PathSpec().Equal(entry.PathSpec()) {
			t.Errorf("GetParentFileEntry(%s) = %s, want %s", child.PathSpec(), parent.PathSpec(), entry.PathSpec())
		}

		walk(ctx, t, child, depth+1)
	}

	if !entry.IsDirectory() && count != 0 {
		t.Errorf("non-directory %s yielded %d sub entries, want 0", entry.PathSpec(), count)
	}
	if entry.IsDirectory() && count != declared {
		t.Errorf("NumberOfSubFileEntries(%s) = %d, but SubFileEntries yielded %d", entry.PathSpec(), declared, count)
	}
}

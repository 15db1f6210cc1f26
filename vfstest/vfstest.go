// Package vfstest is a compliance test harness shared across every
// vfs.FileSystem backend, adapted from the teacher's fstest package:
// where fstest.TestFS drives a writable fs.FS through a scripted
// sequence of create/write/rename/remove calls, TestFileSystem drives
// an already-open, read-only vfs.FileSystem through the read-side
// equivalent — root lookup, directory enumeration, and repeated-read
// consistency — since every backend this module defines is read-only
// by construction (forensic acquisition never writes to evidence).
package vfstest

import (
	"context"
	"testing"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

// ExpectedFile describes one object a backend's test fixture is known
// to contain, the generalization of fstest.testReadOnly's plain path
// list to a path-specification-keyed FileSystem.
type ExpectedFile struct {
	// Spec identifies the object within fsys (GetFileEntryByPathSpec).
	Spec *pathspec.Spec
	// WantDirectory asserts IsDirectory(); mutually exclusive with a
	// non-nil WantContent.
	WantDirectory bool
	// WantContent, when non-nil, is compared against two independent
	// reads of the entry's default data stream.
	WantContent []byte
}

// TestFileSystem runs the full suite against an already-open fsys.
// files need not cover everything fsys contains; it is the set the
// fixture's caller asserts on.
func TestFileSystem(ctx context.Context, t *testing.T, fsys vfs.FileSystem, files []ExpectedFile) {
	t.Helper()

	t.Run("Root", func(t *testing.T) {
		testRoot(ctx, t, fsys)
	})

	t.Run("ExpectedFiles", func(t *testing.T) {
		testExpectedFiles(ctx, t, fsys, files)
	})

	t.Run("Walk", func(t *testing.T) {
		testWalk(ctx, t, fsys)
	})
}

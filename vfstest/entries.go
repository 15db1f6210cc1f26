package vfstest

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dvfscore/vfs"
)

// testExpectedFiles mirrors the teacher's testReadOnly: every expected
// object must resolve, a directory must report IsDirectory, and a file
// with a non-nil WantContent must read back identically across two
// independent GetFileObject calls (stacked FileObjects — compressed
// over archive over data-range over OS, for instance — must not leak
// state between opens).
func testExpectedFiles(ctx context.Context, t *testing.T, fsys vfs.FileSystem, files []ExpectedFile) {
	t.Helper()
	if len(files) == 0 {
		t.Skip("no expected files given")
	}

	for _, want := range files {
		t.Run(want.Spec.String(), func(t *testing.T) {
			entry, err := fsys.GetFileEntryByPathSpec(ctx, want.Spec)
			if err != nil {
				t.Fatalf("GetFileEntryByPathSpec(%s): %v", want.Spec, err)
			}
			if entry == nil {
				t.Fatalf("GetFileEntryByPathSpec(%s) returned (nil, nil)", want.Spec)
			}

			if want.WantDirectory {
				if !entry.IsDirectory() {
					t.Errorf("IsDirectory() = false, want true")
				}
				return
			}
			if !entry.IsFile() {
				t.Errorf("IsFile() = false, want true")
			}
			if want.WantContent == nil {
				return
			}

			first := readBack(ctx, t, entry)
			second := readBack(ctx, t, entry)
			if !bytes.Equal(first, second) {
				t.Errorf("inconsistent reads:\nfirst:  %q\nsecond: %q", first, second)
			}
			if !bytes.Equal(first, want.WantContent) {
				t.Errorf("content = %q, want %q", first, want.WantContent)
			}

			if size, ok := entry.Size(); ok && size != int64(len(want.WantContent)) {
				t.Errorf("Size() = %d, want %d", size, len(want.WantContent))
			}
		})
	}
}

func readBack(ctx context.Context, t *testing.T, entry vfs.FileEntry) []byte {
	t.Helper()
	fo, err := entry.GetFileObject(ctx, "")
	if err != nil {
		t.Fatalf("GetFileObject(\"\"): %v", err)
	}
	defer fo.Close()
	data, err := io.ReadAll(fo)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return data
}

package osfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvfscore/vfs/backend/osfs"
	"github.com/dvfscore/vfs/pathspec"
)

func noValidate(string, map[string]any, *pathspec.Spec) error { return nil }

func TestOpenAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "evidence.txt")
	if err := os.WriteFile(path, []byte("forensic payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := osfs.NewFileSystem()
	rootSpec, _ := pathspec.New("OS", noValidate, pathspec.Location(dir))
	if err := fs.Open(context.Background(), rootSpec); err != nil {
		t.Fatal(err)
	}

	fileSpec, _ := pathspec.New("OS", noValidate, pathspec.Location(path))
	entry, err := fs.GetFileEntryByPathSpec(context.Background(), fileSpec)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil || !entry.IsFile() {
		t.Fatalf("entry = %+v", entry)
	}

	fo, err := entry.GetFileObject(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()
	buf := make([]byte, 64)
	n, _ := fo.Read(buf)
	if string(buf[:n]) != "forensic payload" {
		t.Fatalf("Read() = %q", buf[:n])
	}
}

func TestGetFileEntryMissingReturnsNilNil(t *testing.T) {
	fs := osfs.NewFileSystem()
	spec, _ := pathspec.New("OS", noValidate, pathspec.Location("/no/such/path/at/all"))
	entry, err := fs.GetFileEntryByPathSpec(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestSubFileEntries(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	fs := osfs.NewFileSystem()
	spec, _ := pathspec.New("OS", noValidate, pathspec.Location(dir))
	entry, err := fs.GetFileEntryByPathSpec(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for e, err := range entry.SubFileEntries(context.Background()) {
		if err != nil {
			t.Fatal(err)
		}
		_ = e
		count++
	}
	if count != 2 {
		t.Fatalf("SubFileEntries count = %d, want 2", count)
	}
}

package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dvfscore/vfs/backend/fake"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
	"github.com/dvfscore/vfs/resolver"
	"github.com/dvfscore/vfs/vfstest"
)

func zipBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("notes/memo.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("case notes")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func tarBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := tar.NewWriter(&buf)
	content := []byte("exhibit contents")
	hdr := &tar.Header{
		Name:    "exhibit/a.bin",
		Mode:    0o644,
		Size:    int64(len(content)),
		ModTime: time.Unix(0, 0),
	}
	if err := w.WriteHeader(hdr); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestZipReadBack(t *testing.T) {
	tree := fake.NewBuilder().
		AddFile("/case.zip", zipBytes(t), time.Unix(0, 0)).
		Build()
	fake.Register("zip-test", tree)
	defer fake.Deregister("zip-test")

	parentSpec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier("zip-test"), pathspec.Location("/case.zip"))
	if err != nil {
		t.Fatal(err)
	}
	zipSpec, err := pathspec.New(registry.TypeZip, registry.ValidateAttrs, pathspec.WithParent(parentSpec))
	if err != nil {
		t.Fatal(err)
	}
	entrySpec, err := pathspec.New(registry.TypeZip, registry.ValidateAttrs,
		pathspec.WithParent(parentSpec), pathspec.Location("/notes/memo.txt"))
	if err != nil {
		t.Fatal(err)
	}

	r := resolver.New(resolver.WithContext(resolver.NewContext()))

	root, err := r.OpenFileEntry(context.Background(), zipSpec)
	if err != nil {
		t.Fatal(err)
	}
	if !root.IsDirectory() {
		t.Fatal("zip root should be a directory")
	}

	entry, err := r.OpenFileEntry(context.Background(), entrySpec)
	if err != nil {
		t.Fatal(err)
	}
	if entry == nil {
		t.Fatal("expected to find notes/memo.txt")
	}
	fo, err := entry.GetFileObject(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()
	data, err := io.ReadAll(fo)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "case notes" {
		t.Fatalf("ReadAll() = %q", data)
	}
}

func TestTarDirectoryListing(t *testing.T) {
	tree := fake.NewBuilder().
		AddFile("/case.tar", tarBytes(t), time.Unix(0, 0)).
		Build()
	fake.Register("tar-test", tree)
	defer fake.Deregister("tar-test")

	parentSpec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier("tar-test"), pathspec.Location("/case.tar"))
	if err != nil {
		t.Fatal(err)
	}
	tarSpec, err := pathspec.New(registry.TypeTar, registry.ValidateAttrs, pathspec.WithParent(parentSpec))
	if err != nil {
		t.Fatal(err)
	}

	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	root, err := r.OpenFileEntry(context.Background(), tarSpec)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for sub, err := range root.SubFileEntries(context.Background()) {
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, sub.Name())
	}
	if len(names) != 1 || names[0] != "exhibit" {
		t.Fatalf("SubFileEntries() = %v, want [exhibit]", names)
	}
}

func TestZipComplianceHarness(t *testing.T) {
	tree := fake.NewBuilder().
		AddFile("/case.zip", zipBytes(t), time.Unix(0, 0)).
		Build()
	fake.Register("zip-compliance-test", tree)
	defer fake.Deregister("zip-compliance-test")

	parentSpec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier("zip-compliance-test"), pathspec.Location("/case.zip"))
	if err != nil {
		t.Fatal(err)
	}
	zipSpec, err := pathspec.New(registry.TypeZip, registry.ValidateAttrs, pathspec.WithParent(parentSpec))
	if err != nil {
		t.Fatal(err)
	}
	notesSpec, err := pathspec.New(registry.TypeZip, registry.ValidateAttrs,
		pathspec.WithParent(parentSpec), pathspec.Location("/notes"))
	if err != nil {
		t.Fatal(err)
	}
	memoSpec, err := pathspec.New(registry.TypeZip, registry.ValidateAttrs,
		pathspec.WithParent(parentSpec), pathspec.Location("/notes/memo.txt"))
	if err != nil {
		t.Fatal(err)
	}

	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	fs, err := r.OpenFileSystem(context.Background(), zipSpec)
	if err != nil {
		t.Fatal(err)
	}

	vfstest.TestFileSystem(context.Background(), t, fs, []vfstest.ExpectedFile{
		{Spec: notesSpec, WantDirectory: true},
		{Spec: memoSpec, WantContent: []byte("case notes")},
	})
}

func TestTarAnalyzeDetectsMagic(t *testing.T) {
	tree := fake.NewBuilder().
		AddFile("/case.tar", tarBytes(t), time.Unix(0, 0)).
		Build()
	fake.Register("tar-analyze-test", tree)
	defer fake.Deregister("tar-analyze-test")

	spec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier("tar-analyze-test"), pathspec.Location("/case.tar"))
	if err != nil {
		t.Fatal(err)
	}
	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	fo, err := r.OpenFileObject(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()

	factory, err := registry.Lookup(registry.TypeTar)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := factory.Analyze(context.Background(), fo)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected tar magic to be detected")
	}
}

package compressed_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/dvfscore/vfs/backend/fake"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
	"github.com/dvfscore/vfs/resolver"
)

func gzipBytes(t *testing.T, plain string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(plain)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGzipDecompression(t *testing.T) {
	tree := fake.NewBuilder().
		AddFile("/evidence.gz", gzipBytes(t, "recovered plaintext"), time.Unix(0, 0)).
		Build()
	fake.Register("gz-test", tree)
	defer fake.Deregister("gz-test")

	parentSpec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier("gz-test"), pathspec.Location("/evidence.gz"))
	if err != nil {
		t.Fatal(err)
	}
	gzSpec, err := pathspec.New(registry.TypeGzip, registry.ValidateAttrs, pathspec.WithParent(parentSpec))
	if err != nil {
		t.Fatal(err)
	}

	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	fo, err := r.OpenFileObject(context.Background(), gzSpec)
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()

	data, err := io.ReadAll(fo)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "recovered plaintext" {
		t.Fatalf("ReadAll() = %q", data)
	}
}

func TestGzipAnalyzeDetectsMagic(t *testing.T) {
	tree := fake.NewBuilder().
		AddFile("/evidence.gz", gzipBytes(t, "x"), time.Unix(0, 0)).
		Build()
	fake.Register("gz-analyze-test", tree)
	defer fake.Deregister("gz-analyze-test")

	spec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier("gz-analyze-test"), pathspec.Location("/evidence.gz"))
	if err != nil {
		t.Fatal(err)
	}
	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	fo, err := r.OpenFileObject(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()

	factory, err := registry.Lookup(registry.TypeGzip)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := factory.Analyze(context.Background(), fo)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected gzip magic to be detected")
	}
}

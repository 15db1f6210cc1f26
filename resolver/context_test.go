package resolver_test

import (
	"context"
	"io"
	"testing"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/resolver"
)

// fakeFileObject is the minimal vfs.FileObject needed to exercise
// Context's bookkeeping without a real backend.
type fakeFileObject struct {
	closed bool
}

func (f *fakeFileObject) Read([]byte) (int, error)      { return 0, io.EOF }
func (f *fakeFileObject) Seek(int64, int) (int64, error) { return 0, nil }
func (f *fakeFileObject) Close() error                   { f.closed = true; return nil }
func (f *fakeFileObject) Open(context.Context, *pathspec.Spec) error { return nil }
func (f *fakeFileObject) Size() (int64, error)           { return 0, nil }
func (f *fakeFileObject) Offset() int64                  { return 0 }

func TestContextCacheFileObjectRoundTrip(t *testing.T) {
	c := resolver.NewContext()
	fo := &fakeFileObject{}
	if err := c.CacheFileObject("fp1", fo); err != nil {
		t.Fatal(err)
	}
	got, ok := c.GetFileObject("fp1")
	if !ok || got != fo {
		t.Fatalf("GetFileObject() = %v, %v", got, ok)
	}
	c.ReleaseFileObject("fp1")
	c.ReleaseFileObject("fp1")
}

func TestContextEvictsOnlyZeroRefcountUnderCapacity(t *testing.T) {
	c := resolver.NewContext(resolver.WithFileObjectCapacity(1))
	fo1 := &fakeFileObject{}
	if err := c.CacheFileObject("fp1", fo1); err != nil {
		t.Fatal(err)
	}

	// fp1 still has refcount 1 (from CacheFileObject); nothing is
	// evictable, so a second insert must fail with CacheFull.
	fo2 := &fakeFileObject{}
	if err := c.CacheFileObject("fp2", fo2); !vfs.Is(err, vfs.KindCacheFull) {
		t.Fatalf("expected KindCacheFull, got %v", err)
	}

	c.ReleaseFileObject("fp1")
	if err := c.CacheFileObject("fp2", fo2); err != nil {
		t.Fatalf("expected room after release, got %v", err)
	}
	if !fo1.closed {
		t.Fatal("expected evicted fp1 to be closed")
	}
}

func TestContextEmptyClosesEverything(t *testing.T) {
	c := resolver.NewContext()
	fo := &fakeFileObject{}
	_ = c.CacheFileObject("fp1", fo)
	c.Empty()
	if !fo.closed {
		t.Fatal("expected Empty to close cached handles")
	}
	if _, ok := c.GetFileObject("fp1"); ok {
		t.Fatal("expected cache empty after Empty")
	}
}

// Package resolver implements the Resolver Context (a per-operation
// cache of opened handles with reference counting) and the Resolver
// itself (the stateless dispatcher from a path specification to an
// opened FileSystem, FileEntry, or FileObject).
package resolver

import (
	"container/list"
	"sync"

	"github.com/dvfscore/vfs"
)

// closer is the minimal capability both vfs.FileSystem and
// vfs.FileObject share, letting Context manage both with one generic
// cache implementation.
type closer interface{ Close() error }

type entry[T closer] struct {
	value    T
	refcount int
	elem     *list.Element // non-nil while refcount == 0, its Value is the fingerprint
}

// cache is a fingerprint-keyed store of reference-counted handles, with
// an LRU list over the zero-refcount subset used for eviction under
// capacity pressure. It is not safe for concurrent use on its own;
// Context serializes access with its own mutex, matching the "single
// threaded per Context" concurrency model.
type cache[T closer] struct {
	capacity int // 0 means unbounded
	items    map[string]*entry[T]
	lru      *list.List
}

func newCache[T closer](capacity int) *cache[T] {
	return &cache[T]{
		capacity: capacity,
		items:    make(map[string]*entry[T]),
		lru:      list.New(),
	}
}

// get returns the cached value for fingerprint and increments its
// refcount, or reports ok == false on a miss, signalling the caller to
// construct a new handle.
func (c *cache[T]) get(fingerprint string) (T, bool) {
	e, ok := c.items[fingerprint]
	if !ok {
		var zero T
		return zero, false
	}
	if e.refcount == 0 && e.elem != nil {
		c.lru.Remove(e.elem)
		e.elem = nil
	}
	e.refcount++
	return e.value, true
}

// put inserts value under fingerprint with refcount 1. If the cache is
// at capacity and nothing is evictable, put evicts nothing and reports
// ok == false (CacheFullError, from the caller's perspective).
func (c *cache[T]) put(fingerprint string, value T) bool {
	if _, exists := c.items[fingerprint]; exists {
		// Caller raced a CacheFileSystem after a concurrent Get miss;
		// keep the existing entry rather than leaking value's handle.
		return true
	}
	if c.capacity > 0 && len(c.items) >= c.capacity {
		if !c.evictOne() {
			return false
		}
	}
	c.items[fingerprint] = &entry[T]{value: value, refcount: 1}
	return true
}

// release decrements fingerprint's refcount. At zero it becomes
// evictable but is not destroyed immediately.
func (c *cache[T]) release(fingerprint string) {
	e, ok := c.items[fingerprint]
	if !ok || e.refcount == 0 {
		return
	}
	e.refcount--
	if e.refcount == 0 {
		e.elem = c.lru.PushBack(fingerprint)
	}
}

// evictOne destroys the least-recently-released zero-refcount entry.
// It reports whether an entry was available to evict.
func (c *cache[T]) evictOne() bool {
	front := c.lru.Front()
	if front == nil {
		return false
	}
	fingerprint := front.Value.(string)
	c.lru.Remove(front)
	e := c.items[fingerprint]
	delete(c.items, fingerprint)
	_ = e.value.Close()
	return true
}

// empty drops every entry regardless of refcount, closing each handle.
func (c *cache[T]) empty() {
	for _, e := range c.items {
		_ = e.value.Close()
	}
	c.items = make(map[string]*entry[T])
	c.lru.Init()
}

// Context is a per-operation cache of opened FileSystem and FileObject
// handles. It is bound to one logical operation (a process, a worker,
// a scan) and is not itself safe for concurrent use; callers that want
// concurrency should construct one Context per worker.
type Context struct {
	mu  sync.Mutex
	fs  *cache[vfs.FileSystem]
	obj *cache[vfs.FileObject]
}

// ContextOption configures a Context at construction.
type ContextOption func(*contextOpts)

type contextOpts struct {
	fsCapacity  int
	objCapacity int
}

// WithCapacity bounds both the FileSystem and FileObject caches to n
// entries. n == 0 (the default) means unbounded.
func WithCapacity(n int) ContextOption {
	return func(o *contextOpts) { o.fsCapacity, o.objCapacity = n, n }
}

// WithFileSystemCapacity bounds only the FileSystem cache.
func WithFileSystemCapacity(n int) ContextOption {
	return func(o *contextOpts) { o.fsCapacity = n }
}

// WithFileObjectCapacity bounds only the FileObject cache.
func WithFileObjectCapacity(n int) ContextOption {
	return func(o *contextOpts) { o.objCapacity = n }
}

// NewContext returns a new, empty Context.
func NewContext(opts ...ContextOption) *Context {
	var o contextOpts
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{
		fs:  newCache[vfs.FileSystem](o.fsCapacity),
		obj: newCache[vfs.FileObject](o.objCapacity),
	}
}

// DefaultContext is the process-wide convenience Context. It is not
// multi-process or multi-thread safe; production callers should
// construct one Context per worker via NewContext.
var DefaultContext = NewContext()

// GetFileSystem returns the cached FileSystem for fingerprint,
// incrementing its refcount, or reports ok == false on a miss.
func (c *Context) GetFileSystem(fingerprint string) (vfs.FileSystem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fs.get(fingerprint)
}

// CacheFileSystem inserts fs under fingerprint with refcount 1.
func (c *Context) CacheFileSystem(fingerprint string, fs vfs.FileSystem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fs.put(fingerprint, fs) {
		return vfs.NewError(vfs.KindCacheFull, "cache-file-system", "",
			errCacheFull)
	}
	return nil
}

// ReleaseFileSystem decrements fingerprint's refcount.
func (c *Context) ReleaseFileSystem(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs.release(fingerprint)
}

// GetFileObject returns the cached FileObject for fingerprint,
// incrementing its refcount, or reports ok == false on a miss.
func (c *Context) GetFileObject(fingerprint string) (vfs.FileObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.obj.get(fingerprint)
}

// CacheFileObject inserts fo under fingerprint with refcount 1.
func (c *Context) CacheFileObject(fingerprint string, fo vfs.FileObject) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.obj.put(fingerprint, fo) {
		return vfs.NewError(vfs.KindCacheFull, "cache-file-object", "",
			errCacheFull)
	}
	return nil
}

// ReleaseFileObject decrements fingerprint's refcount.
func (c *Context) ReleaseFileObject(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.obj.release(fingerprint)
}

// Empty drops every cached entry regardless of refcount, closing each
// handle. Any FileObject or FileSystem still held by a caller will fail
// its next operation, per the cooperative-cancellation model: closing a
// Context is how a long-running resolve gets interrupted.
func (c *Context) Empty() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs.empty()
	c.obj.empty()
}

var errCacheFull = cacheFullError{}

type cacheFullError struct{}

func (cacheFullError) Error() string {
	return "context cache is at capacity and has no evictable entries"
}

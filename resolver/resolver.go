package resolver

import (
	"context"
	"fmt"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/mount"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// Resolver dispatches a path specification to an opened FileSystem,
// FileEntry, or FileObject, consulting a Context for already-open
// handles and the mount package for TYPE_MOUNT indirection. Resolver
// itself is stateless; all cached state lives in its Context.
type Resolver struct {
	ctx      *Context
	registry *registry.Registry
	mounts   *mount.Manager
}

// Option configures a Resolver at construction.
type Option func(*Resolver)

// WithContext binds r to ctx instead of DefaultContext.
func WithContext(ctx *Context) Option {
	return func(r *Resolver) { r.ctx = ctx }
}

// WithRegistry binds r to reg instead of registry.Default.
func WithRegistry(reg *registry.Registry) Option {
	return func(r *Resolver) { r.registry = reg }
}

// WithMountManager binds r to m instead of mount.Default.
func WithMountManager(m *mount.Manager) Option {
	return func(r *Resolver) { r.mounts = m }
}

// New returns a Resolver. Without options it uses DefaultContext,
// registry.Default, and mount.Default, suitable for CLI-style one-shot
// tools; concurrent callers should give each worker its own Context via
// WithContext.
func New(opts ...Option) *Resolver {
	r := &Resolver{ctx: DefaultContext, registry: registry.Default, mounts: mount.Default}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default is the process-wide convenience Resolver.
var Default = New()

// resolveMount follows TYPE_MOUNT indirection, returning the spec it
// actually names. A non-mount spec is returned unchanged.
func (r *Resolver) resolveMount(spec *pathspec.Spec) (*pathspec.Spec, error) {
	if spec.TypeIndicator() != registry.TypeMount {
		return spec, nil
	}
	if spec.HasParent() {
		return nil, vfs.NewError(vfs.KindPathSpec, "resolve", registry.TypeMount,
			fmt.Errorf("MOUNT path specification must not have a parent"))
	}
	identifier, ok := spec.IdentifierString()
	if !ok {
		return nil, vfs.NewError(vfs.KindMountPoint, "resolve", registry.TypeMount,
			fmt.Errorf("MOUNT path specification has no identifier attribute"))
	}
	target, err := r.mounts.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	return r.resolveMount(target)
}

// OpenFileSystem returns the FileSystem described by spec, from cache
// if already open, otherwise constructing and caching it. It implements
// registry.Resolver so backend factories can recurse through it to open
// a parent layer.
func (r *Resolver) OpenFileSystem(ctx context.Context, spec *pathspec.Spec) (vfs.FileSystem, error) {
	spec, err := r.resolveMount(spec)
	if err != nil {
		return nil, err
	}
	key := spec.FileSystemFingerprint()
	if fs, ok := r.ctx.GetFileSystem(key); ok {
		return fs, nil
	}
	factory, err := r.registry.Lookup(spec.TypeIndicator())
	if err != nil {
		return nil, err
	}
	if factory.OpenFileSystem == nil {
		return nil, vfs.NewError(vfs.KindNotSupported, "open-file-system", spec.TypeIndicator(),
			fmt.Errorf("%s does not support being opened as a file system", spec.TypeIndicator()))
	}
	fs, err := factory.OpenFileSystem(ctx, spec, r)
	if err != nil {
		return nil, wrapBackEndError(err, spec.TypeIndicator(), "open-file-system")
	}
	if err := r.ctx.CacheFileSystem(key, fs); err != nil {
		_ = fs.Close()
		return nil, err
	}
	return fs, nil
}

// OpenFileObject returns the FileObject described by spec, from cache if
// already open, otherwise constructing and caching it.
func (r *Resolver) OpenFileObject(ctx context.Context, spec *pathspec.Spec) (vfs.FileObject, error) {
	spec, err := r.resolveMount(spec)
	if err != nil {
		return nil, err
	}
	key := spec.Fingerprint()
	if fo, ok := r.ctx.GetFileObject(key); ok {
		return fo, nil
	}
	factory, err := r.registry.Lookup(spec.TypeIndicator())
	if err != nil {
		return nil, err
	}
	if factory.OpenFileObject == nil {
		return nil, vfs.NewError(vfs.KindNotSupported, "open-file-object", spec.TypeIndicator(),
			fmt.Errorf("%s does not support being opened as a file object", spec.TypeIndicator()))
	}
	fo, err := factory.OpenFileObject(ctx, spec, r)
	if err != nil {
		return nil, wrapBackEndError(err, spec.TypeIndicator(), "open-file-object")
	}
	if err := r.ctx.CacheFileObject(key, fo); err != nil {
		_ = fo.Close()
		return nil, err
	}
	return fo, nil
}

// OpenFileEntry opens spec's FileSystem, resolves spec to the
// FileEntry within it, and releases its hold on the FileSystem before
// returning, leaving it evictable again. It returns (nil, nil) if spec
// names nothing.
func (r *Resolver) OpenFileEntry(ctx context.Context, spec *pathspec.Spec) (vfs.FileEntry, error) {
	spec, err := r.resolveMount(spec)
	if err != nil {
		return nil, err
	}
	fs, err := r.OpenFileSystem(ctx, spec)
	if err != nil {
		return nil, err
	}
	defer r.ReleaseFileSystem(spec)
	return fs.GetFileEntryByPathSpec(ctx, spec)
}

// ReleaseFileSystem releases r's Context's hold on spec's FileSystem,
// the counterpart to OpenFileSystem.
func (r *Resolver) ReleaseFileSystem(spec *pathspec.Spec) {
	r.ctx.ReleaseFileSystem(spec.FileSystemFingerprint())
}

// ReleaseFileObject releases r's Context's hold on spec's FileObject,
// the counterpart to OpenFileObject.
func (r *Resolver) ReleaseFileObject(spec *pathspec.Spec) {
	r.ctx.ReleaseFileObject(spec.Fingerprint())
}

// wrapBackEndError normalizes an error returned by a backend factory: a
// *vfs.Error passes through unchanged (the backend already classified
// it, e.g. KindCredential for a bad password), anything else is wrapped
// as KindBackEnd so callers can reliably branch on vfs.Is.
func wrapBackEndError(err error, typeIndicator, op string) error {
	if _, ok := err.(*vfs.Error); ok {
		return err
	}
	return vfs.NewError(vfs.KindBackEnd, op, typeIndicator, err)
}

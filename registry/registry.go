// Package registry implements the process-wide Type Registry: the
// mapping from a type indicator string to the factories that construct
// a path specification, a FileSystem, and a FileObject for that type,
// plus the optional analyzer helper used for format sniffing.
//
// Registration happens once, at process init, by each backend package's
// own init() function (see backend/all for the umbrella import that
// pulls every built-in backend in). Lookup is read-only and safe for
// concurrent readers; registration itself is not expected to race with
// lookups in practice, but is still guarded the same way.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

// Category is a bitmask of the format categories a type indicator
// belongs to. The Format Analyzer scans helpers in category order:
// storage media, then volume system, then file system, then archive,
// then compressed.
type Category uint8

const (
	CategoryStorageMedia Category = 1 << iota
	CategoryVolumeSystem
	CategoryFileSystem
	CategoryArchive
	CategoryCompressed
	CategoryEncrypted
)

// analyzerOrder lists the categories in the order the analyzer must
// consult them, per the format analyzer's scan order.
var analyzerOrder = []Category{
	CategoryStorageMedia,
	CategoryVolumeSystem,
	CategoryFileSystem,
	CategoryArchive,
	CategoryCompressed,
}

// Resolver is the minimal surface a resolver helper needs to open a
// parent layer while constructing a FileSystem or FileObject. The
// concrete implementation lives in package resolver; Resolver is
// defined here, not there, so that backend packages can depend on
// registry without creating an import cycle through resolver.
type Resolver interface {
	OpenFileSystem(ctx context.Context, spec *pathspec.Spec) (vfs.FileSystem, error)
	OpenFileObject(ctx context.Context, spec *pathspec.Spec) (vfs.FileObject, error)
}

// Factory bundles everything the registry needs to know about one type
// indicator.
type Factory struct {
	// TypeIndicator is the registry key, e.g. "APFS" or "GZIP".
	TypeIndicator string

	// Category classifies the format for analyzer ordering and for
	// callers that want to filter by kind (e.g. "only volume systems").
	Category Category

	// RootType marks a type indicator that must never carry a parent
	// (TYPE_OS, TYPE_FAKE, TYPE_MOUNT). Every other type indicator
	// requires exactly one parent.
	RootType bool

	// AttrNames lists the attribute names this type indicator accepts.
	// ValidateAttrs rejects any other attribute name.
	AttrNames []string

	// CredentialNames lists the credential names this backend's
	// FileSystem.Open/FileObject.Open may consult in the KeyChain.
	// Setting a credential under this type indicator with a name not
	// in this list is a CredentialError.
	CredentialNames []string

	// OpenFileSystem constructs and opens a FileSystem for spec. r is
	// used to resolve spec's parent, recursively, through the caller's
	// Resolver/Context.
	OpenFileSystem func(ctx context.Context, spec *pathspec.Spec, r Resolver) (vfs.FileSystem, error)

	// OpenFileObject constructs and opens a FileObject for spec.
	OpenFileObject func(ctx context.Context, spec *pathspec.Spec, r Resolver) (vfs.FileObject, error)

	// Analyze, if non-nil, content-sniffs fo and reports whether it
	// recognizes this type indicator's format. Analyze must restore
	// fo's seek offset before returning.
	Analyze func(ctx context.Context, fo vfs.FileObject) (bool, error)
}

// Registry maps type indicators to Factories. The zero value has a nil
// map and is not usable; construct one with New.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]*Factory
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{factories: make(map[string]*Factory)}
}

// Default is the process-wide registry built-in backends register
// themselves with. Most callers use the package-level Register/Lookup
// functions rather than constructing their own Registry.
var Default = New()

// Register adds factory under factory.TypeIndicator. Re-registering an
// already-registered type indicator is an error; registry
// registration is meant to happen exactly once, at backend init time.
func (r *Registry) Register(factory *Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[factory.TypeIndicator]; exists {
		return fmt.Errorf("registry: type indicator %q already registered", factory.TypeIndicator)
	}
	r.factories[factory.TypeIndicator] = factory
	return nil
}

// Deregister removes a type indicator's factory. It exists for tests
// that need a clean registry between cases.
func (r *Registry) Deregister(typeIndicator string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, typeIndicator)
}

// Lookup returns the Factory registered for typeIndicator.
func (r *Registry) Lookup(typeIndicator string) (*Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[typeIndicator]
	if !ok {
		return nil, vfs.NewError(vfs.KindUnsupportedFormat, "lookup", typeIndicator,
			fmt.Errorf("no factory registered for type indicator %q", typeIndicator))
	}
	return f, nil
}

// TypeIndicators returns every currently-registered type indicator, in
// no particular order.
func (r *Registry) TypeIndicators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	return out
}

// HelpersByCategory returns the factories whose Category includes cat,
// in analyzer scan order relative to other categories (callers invoke
// this once per category, in analyzerOrder, to get the full scan).
func (r *Registry) HelpersByCategory(cat Category) []*Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Factory
	for _, f := range r.factories {
		if f.Category&cat != 0 && f.Analyze != nil {
			out = append(out, f)
		}
	}
	return out
}

// AnalyzerOrder returns the fixed category scan order the format
// analyzer uses.
func AnalyzerOrder() []Category { return analyzerOrder }

// ValidateAttrs implements the pathspec validate callback signature
// against this registry's schema: it checks the root/parent invariant
// and rejects attribute names the type indicator does not declare.
func (r *Registry) ValidateAttrs(typeIndicator string, attrs map[string]any, parent *pathspec.Spec) error {
	f, err := r.Lookup(typeIndicator)
	if err != nil {
		return err
	}
	if f.RootType && parent != nil {
		return vfs.NewError(vfs.KindPathSpec, "new", typeIndicator,
			fmt.Errorf("%s path specifications must not have a parent", typeIndicator))
	}
	if !f.RootType && parent == nil {
		return vfs.NewError(vfs.KindPathSpec, "new", typeIndicator,
			fmt.Errorf("%s path specifications require a parent", typeIndicator))
	}
	allowed := make(map[string]bool, len(f.AttrNames))
	for _, n := range f.AttrNames {
		allowed[n] = true
	}
	for name := range attrs {
		if !allowed[name] {
			return &pathspec.UnknownAttributeError{TypeIndicator: typeIndicator, Name: name}
		}
	}
	return nil
}

// Register registers factory with the Default registry.
func Register(factory *Factory) error { return Default.Register(factory) }

// Deregister removes typeIndicator from the Default registry.
func Deregister(typeIndicator string) { Default.Deregister(typeIndicator) }

// Lookup returns the Factory registered for typeIndicator in the
// Default registry.
func Lookup(typeIndicator string) (*Factory, error) { return Default.Lookup(typeIndicator) }

// ValidateAttrs validates against the Default registry's schema.
func ValidateAttrs(typeIndicator string, attrs map[string]any, parent *pathspec.Spec) error {
	return Default.ValidateAttrs(typeIndicator, attrs, parent)
}

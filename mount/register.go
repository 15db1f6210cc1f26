package mount

import "github.com/dvfscore/vfs/registry"

// init registers TYPE_MOUNT with the default Type Registry so that
// pathspec.New(registry.TypeMount, registry.ValidateAttrs, ...) — the
// documented idiom every other type indicator uses — validates a mount
// path specification instead of failing with KindUnsupportedFormat
// before the resolver ever sees it. TYPE_MOUNT has no open functions:
// it is pure indirection, resolved away by Resolver.resolveMount
// before any OpenFileSystem/OpenFileObject lookup happens.
func init() {
	_ = registry.Register(&registry.Factory{
		TypeIndicator: registry.TypeMount,
		RootType:      true,
		AttrNames:     []string{"identifier"},
	})
}

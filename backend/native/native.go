// Package native is the registration seam for the native on-disk file
// system formats (APFS, HFS+, NTFS, ext, FAT, XFS): their concrete
// per-format parsers are explicitly out of scope for this module and
// are treated as external collaborators, the way a native forensic
// library (backed by the platform's own file system driver or a C
// library binding) would be in a production deployment. This package
// supplies the type indicators' registry entries and a small plugin
// point, Register, that a real parser implementation can use to back
// them; without one plugged in, opening any of these type indicators
// fails with KindUnsupportedFormat, which is the documented, correct
// behavior for a format this module does not implement.
package native

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// Parser constructs an opened FileSystem for one native type indicator.
// A real binding (e.g. a cgo wrapper over The Sleuth Kit, or a pure-Go
// APFS/NTFS reader) registers one of these per type indicator it
// implements, via Register.
type Parser func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error)

var (
	mu      sync.RWMutex
	parsers = map[string]Parser{}
)

// Register plugs parser in as the implementation backing typeIndicator.
// Call it from the init() of a native-parser binding package, before
// any resolver call opens that type indicator.
func Register(typeIndicator string, parser Parser) {
	mu.Lock()
	defer mu.Unlock()
	parsers[typeIndicator] = parser
}

// Unregister removes a plugged-in parser. It exists for tests.
func Unregister(typeIndicator string) {
	mu.Lock()
	defer mu.Unlock()
	delete(parsers, typeIndicator)
}

func lookup(typeIndicator string) (Parser, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := parsers[typeIndicator]
	return p, ok
}

func open(typeIndicator string) func(context.Context, *pathspec.Spec, registry.Resolver) (vfs.FileSystem, error) {
	return func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error) {
		p, ok := lookup(typeIndicator)
		if !ok {
			return nil, vfs.NewError(vfs.KindUnsupportedFormat, "open-file-system", typeIndicator,
				fmt.Errorf("no native parser registered for %s; this module implements the VFS layer around it, not the format itself", typeIndicator))
		}
		return p(ctx, spec, r)
	}
}

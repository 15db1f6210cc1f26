// Package volume is the registration seam for the multi-volume
// container formats whose on-disk layout this module does not parse
// directly: APFS containers (which fan out into one or more APFS
// volumes), LVM volume groups (which fan out into logical volumes),
// and Volume Shadow Copy stores (which fan out into point-in-time
// shadow copies). Like backend/native, these concrete parsers are
// treated as external collaborators; this package supplies each type
// indicator's registry entry, a content-sniffing Analyze helper where
// the pack corroborates one, and a Parser plugin point. Without a
// parser plugged in, opening any of these type indicators fails with
// KindUnsupportedFormat.
package volume

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// Parser constructs an opened FileSystem for one volume-container type
// indicator, whose entries are the container's logical sub-volumes
// (APFS volumes, LVM logical volumes, VSS shadow copies).
type Parser func(ctx context.Context, spec *pathspec.Spec, r registry.Resolver) (vfs.FileSystem, error)

var (
	mu      sync.RWMutex
	parsers = map[string]Parser{}
)

// Register plugs parser in as the implementation backing typeIndicator.
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
				fmt.Errorf("no volume parser registered for %s; this module implements the VFS layer around it, not the format itself", typeIndicator))
		}
		return p(ctx, spec, r)
	}
}

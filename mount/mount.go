// Package mount implements the Mount Point Manager: a process-wide
// mapping from a symbolic mount identifier string to a concrete path
// specification. The resolver consults this package when it encounters
// a TYPE_MOUNT path specification.
package mount

import (
	"fmt"
	"sync"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
)

// Manager maps mount identifiers to path specifications. The zero
// value has a nil map and is not usable; construct one with New.
type Manager struct {
	mu     sync.RWMutex
	points map[string]*pathspec.Spec
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{points: make(map[string]*pathspec.Spec)}
}

// Default is the process-wide mount manager convenience singleton.
var Default = New()

// Register maps identifier to spec. Re-registering an identifier
// replaces its mapping.
func (m *Manager) Register(identifier string, spec *pathspec.Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[identifier] = spec
}

// Deregister removes identifier's mapping, if any.
func (m *Manager) Deregister(identifier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.points, identifier)
}

// Resolve returns the path specification mapped to identifier, or a
// KindMountPoint error if there is none.
func (m *Manager) Resolve(identifier string) (*pathspec.Spec, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spec, ok := m.points[identifier]
	if !ok {
		return nil, vfs.NewError(vfs.KindMountPoint, "resolve", "MOUNT",
			fmt.Errorf("no such mount point: %s", identifier))
	}
	return spec, nil
}

// Register maps identifier to spec in the Default manager.
func Register(identifier string, spec *pathspec.Spec) { Default.Register(identifier, spec) }

// Deregister removes identifier's mapping from the Default manager.
func Deregister(identifier string) { Default.Deregister(identifier) }

// Resolve resolves identifier against the Default manager.
func Resolve(identifier string) (*pathspec.Spec, error) { return Default.Resolve(identifier) }

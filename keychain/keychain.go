// Package keychain implements the Credential Key Chain: a process-wide
// store associating credentials (passwords, recovery keys, startup
// keys) with the path specification subtree they unlock. Backends for
// encrypted formats (BitLocker, FileVault, LUKS) consult it during
// FileSystem.Open or FileObject.Open.
//
// Credentials are never logged or serialized: KeyChain's formatting
// methods, GoString and String below, redact stored values.
package keychain

import (
	"fmt"
	"sync"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

// Minimum credential names every backend may declare support for.
const (
	Password         = "password"
	RecoveryPassword = "recovery_password"
	StartupKey       = "startup_key"
	KeyData          = "key_data"
)

// KeyChain maps a path specification's Fingerprint to a set of named
// credentials. The zero value has a nil map and is not usable;
// construct one with New.
type KeyChain struct {
	mu    sync.RWMutex
	creds map[string]map[string]string
}

// New returns an empty KeyChain.
func New() *KeyChain {
	return &KeyChain{creds: make(map[string]map[string]string)}
}

// Default is the process-wide KeyChain convenience singleton. Prefer
// constructing a KeyChain explicitly and threading it through a
// resolver.Context for anything beyond simple CLI-style usage; the
// singleton is not safe for concurrent use across unrelated workers
// any more than the default resolver Context is.
var Default = New()

// NameValidator, when non-nil, validates credential names against a
// backend's declared set; callers pass registry.Lookup-derived
// CredentialNames. A nil validator accepts any name, which is useful in
// tests that don't wire a full registry.
type NameValidator func(typeIndicator, name string) error

// Set stores a credential for spec. validate, when non-nil, should
// reject names the spec's type indicator did not declare (returning a
// CredentialError); callers typically pass a closure over
// registry.Lookup(spec.TypeIndicator()).CredentialNames.
func (k *KeyChain) Set(spec *pathspec.Spec, name, value string, validate NameValidator) error {
	if validate != nil {
		if err := validate(spec.TypeIndicator(), name); err != nil {
			return err
		}
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	fp := spec.Fingerprint()
	m, ok := k.creds[fp]
	if !ok {
		m = make(map[string]string)
		k.creds[fp] = m
	}
	m[name] = value
	return nil
}

// registryValidator builds a NameValidator that rejects any name not
// in reg's Factory.CredentialNames for the given type indicator, so a
// real caller doesn't have to hand-write the registry.Lookup closure
// every Set call needs.
func registryValidator(reg *registry.Registry) NameValidator {
	return func(typeIndicator, name string) error {
		f, err := reg.Lookup(typeIndicator)
		if err != nil {
			return err
		}
		for _, n := range f.CredentialNames {
			if n == name {
				return nil
			}
		}
		return ErrUnknownCredential(typeIndicator, name)
	}
}

// SetFor stores a credential for spec, validating name against reg's
// registered Factory.CredentialNames for spec's type indicator. This
// is the production counterpart to Set's raw validate parameter: it
// enforces "storing an unknown credential name for a type is an
// error" against whatever registry the caller's resolver is using,
// rather than leaving callers to pass nil or hand-roll the lookup.
func (k *KeyChain) SetFor(reg *registry.Registry, spec *pathspec.Spec, name, value string) error {
	return k.Set(spec, name, value, registryValidator(reg))
}

// SetFor stores a credential in the Default KeyChain, validated
// against reg.
func SetFor(reg *registry.Registry, spec *pathspec.Spec, name, value string) error {
	return Default.SetFor(reg, spec, name, value)
}

// Get returns the named credential for spec.
func (k *KeyChain) Get(spec *pathspec.Spec, name string) (string, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	m, ok := k.creds[spec.Fingerprint()]
	if !ok {
		return "", false
	}
	v, ok := m[name]
	return v, ok
}

// Credentials returns a copy of every credential stored for spec.
func (k *KeyChain) Credentials(spec *pathspec.Spec) map[string]string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	m := k.creds[spec.Fingerprint()]
	out := make(map[string]string, len(m))
	for name, v := range m {
		out[name] = v
	}
	return out
}

// Remove deletes every credential stored for spec.
func (k *KeyChain) Remove(spec *pathspec.Spec) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.creds, spec.Fingerprint())
}

// Empty clears every stored credential.
func (k *KeyChain) Empty() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.creds = make(map[string]map[string]string)
}

// GoString deliberately never renders stored values, so that
// fmt.Sprintf("%#v", keychain) in a log statement or panic message
// cannot leak a credential.
func (k *KeyChain) GoString() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return fmt.Sprintf("keychain.KeyChain{entries: %d}", len(k.creds))
}

// String mirrors GoString's redaction for the %v/%s verbs.
func (k *KeyChain) String() string { return k.GoString() }

// ErrUnknownCredential builds the CredentialError returned when a
// caller sets a credential name a backend did not declare.
func ErrUnknownCredential(typeIndicator, name string) error {
	return vfs.NewError(vfs.KindCredential, "set", typeIndicator,
		fmt.Errorf("unknown credential name %q", name))
}

// Package pathspec implements the composable, content-addressable path
// specification used throughout this module: an immutable, layered
// identity describing "a thing inside a thing" (a file on an APFS
// volume inside an APFS container inside a RAW image on the host OS).
//
// A *Spec is built once, through New, and never mutated afterward.
// Equality and hashing are structural, driven by Fingerprint, so two
// independently constructed specs describing the same object compare
// equal.
package pathspec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// UnknownAttributeError is returned by a validate callback (and by
// registry's schema validation) when a Spec carries an attribute name
// its type indicator does not accept.
type UnknownAttributeError struct {
	TypeIndicator string
	Name          string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("pathspec: %s does not accept attribute %q", e.TypeIndicator, e.Name)
}

// Spec is an immutable, layered path specification. The zero value is
// not a valid Spec; construct one with New.
type Spec struct {
	typeIndicator string
	parent        *Spec
	attrs         map[string]any
}

// Option mutates the attribute bag during construction. Attribute
// constructors below (Location, Identifier, ...) return Options.
type Option func(map[string]any)

// attr sets a single named attribute. It is the primitive every typed
// helper (Location, Identifier, ...) is built from, mirroring the
// source's variant-specific attribute bag.
func attr(name string, value any) Option {
	return func(m map[string]any) { m[name] = value }
}

// WithParent attaches a parent Spec. Root-level type indicators
// (TYPE_OS, TYPE_FAKE, TYPE_MOUNT) must not carry a parent; New
// enforces this via the registered schema.
func WithParent(parent *Spec) Option {
	return func(m map[string]any) { m[parentKey] = parent }
}

// parentKey is how WithParent smuggles the parent through the same
// Option mechanism used for ordinary attributes, so New can apply
// options uniformly before splitting the parent back out.
const parentKey = "\x00parent"

// Attribute constructors. Each is a thin, typed wrapper over attr,
// giving callers compile-time-checked names for the attribute bag the
// specification describes generically.
func Location(v string) Option         { return attr("location", v) }
func Identifier(v int64) Option        { return attr("identifier", v) }
func Inode(v uint64) Option            { return attr("inode", v) }
func DataStreamName(v string) Option   { return attr("data_stream", v) }
func StartOffset(v int64) Option       { return attr("start_offset", v) }
func RangeOffset(v int64) Option       { return attr("range_offset", v) }
func RangeSize(v int64) Option         { return attr("range_size", v) }
func CipherMode(v string) Option       { return attr("cipher_mode", v) }
func EncryptionMethod(v string) Option { return attr("encryption_method", v) }
func Password(v string) Option         { return attr("password", v) }
func RecoveryPassword(v string) Option { return attr("recovery_password", v) }
func VolumeIndex(v int) Option         { return attr("volume_index", v) }
func PartIndex(v int) Option           { return attr("part_index", v) }

// MountIdentifier sets the "identifier" attribute to a symbolic mount
// point name. Every other type indicator that has an "identifier"
// attribute (APFS, HFS+, ...) uses a numeric entry id instead; both
// share the same attribute name because the source does.
func MountIdentifier(v string) Option { return attr("identifier", v) }

// New builds a Spec for the given type indicator. validate, supplied by
// the registry package at registration time, checks that every
// attribute name present is one the type indicator accepts and that
// structural invariants (parent required/forbidden) hold; New itself
// performs no format-specific validation so that pathspec has no
// dependency on registry.
func New(typeIndicator string, validate func(typeIndicator string, attrs map[string]any, parent *Spec) error, opts ...Option) (*Spec, error) {
	m := make(map[string]any, len(opts))
	for _, opt := range opts {
		opt(m)
	}
	var parent *Spec
	if p, ok := m[parentKey]; ok {
		parent, _ = p.(*Spec)
		delete(m, parentKey)
	}
	if validate != nil {
		if err := validate(typeIndicator, m, parent); err != nil {
			return nil, err
		}
	}
	return &Spec{typeIndicator: typeIndicator, parent: parent, attrs: m}, nil
}

// TypeIndicator returns the registry-keyed string identifying the
// format or wrapper this Spec describes.
func (s *Spec) TypeIndicator() string { return s.typeIndicator }

// HasParent reports whether this Spec has a parent layer.
func (s *Spec) HasParent() bool { return s.parent != nil }

// Parent returns the parent Spec, or nil for a root-level Spec.
func (s *Spec) Parent() *Spec { return s.parent }

// GetRootParent walks the parent chain to its root.
func (s *Spec) GetRootParent() *Spec {
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Attr returns the named attribute and whether it was set.
func (s *Spec) Attr(name string) (any, bool) {
	v, ok := s.attrs[name]
	return v, ok
}

func (s *Spec) attrString(name string) (string, bool) {
	v, ok := s.attrs[name]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Spec) attrInt64(name string) (int64, bool) {
	v, ok := s.attrs[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func (s *Spec) attrUint64(name string) (uint64, bool) {
	v, ok := s.attrs[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint64:
		return n, true
	case int64:
		return uint64(n), true
	case int:
		return uint64(n), true
	}
	return 0, false
}

func (s *Spec) attrInt(name string) (int, bool) {
	v, ok := s.attrs[name]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

// Location returns the "location" attribute (a path within the
// enclosing file system), if set.
func (s *Spec) Location() (string, bool) { return s.attrString("location") }

// Identifier returns the "identifier" attribute (an entry id, inode
// number, or mount point name), if set as an int64.
func (s *Spec) Identifier() (int64, bool) { return s.attrInt64("identifier") }

// IdentifierString returns the "identifier" attribute as a string, used
// by TYPE_MOUNT where identifiers are symbolic names.
func (s *Spec) IdentifierString() (string, bool) { return s.attrString("identifier") }

func (s *Spec) Inode() (uint64, bool)            { return s.attrUint64("inode") }
func (s *Spec) DataStreamName() (string, bool)   { return s.attrString("data_stream") }
func (s *Spec) StartOffset() (int64, bool)       { return s.attrInt64("start_offset") }
func (s *Spec) RangeOffset() (int64, bool)       { return s.attrInt64("range_offset") }
func (s *Spec) RangeSize() (int64, bool)         { return s.attrInt64("range_size") }
func (s *Spec) CipherMode() (string, bool)       { return s.attrString("cipher_mode") }
func (s *Spec) EncryptionMethod() (string, bool) { return s.attrString("encryption_method") }
func (s *Spec) Password() (string, bool)         { return s.attrString("password") }
func (s *Spec) RecoveryPassword() (string, bool) { return s.attrString("recovery_password") }
func (s *Spec) VolumeIndex() (int, bool)         { return s.attrInt("volume_index") }
func (s *Spec) PartIndex() (int, bool)           { return s.attrInt("part_index") }

// Fingerprint returns the canonical comparable key for this Spec: two
// specs describing the same object produce equal fingerprints. It is
// the cache key used by resolver.Context and the equality/hashing basis
// required of PathSpec.
func (s *Spec) Fingerprint() string {
	var b strings.Builder
	s.writeFingerprint(&b)
	return b.String()
}

func (s *Spec) writeFingerprint(b *strings.Builder) {
	b.WriteString("type=")
	b.WriteString(s.typeIndicator)
	names := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteString(", ")
		b.WriteString(k)
		b.WriteString("=")
		fmt.Fprintf(b, "%v", s.attrs[k])
	}
	if s.parent != nil {
		b.WriteString("\nparent:")
		s.parent.writeFingerprint(b)
	}
}

// fileSystemSkipAttrs lists attributes that identify a location within
// an opened FileSystem rather than the FileSystem (container) itself,
// so FileSystemFingerprint excludes them: two specs differing only in
// "location" name the same opened FileSystem.
var fileSystemSkipAttrs = map[string]bool{
	"location":   true,
	"data_stream": true,
}

// FileSystemFingerprint is Fingerprint's coarser sibling: it identifies
// the FileSystem a Spec would be opened against, ignoring the
// within-that-FileSystem location. The resolver caches open FileSystem
// handles under this key so that two specs naming different files on
// the same container share one opened backend.
func (s *Spec) FileSystemFingerprint() string {
	var b strings.Builder
	s.writeFileSystemFingerprint(&b)
	return b.String()
}

func (s *Spec) writeFileSystemFingerprint(b *strings.Builder) {
	b.WriteString("type=")
	b.WriteString(s.typeIndicator)
	names := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		if fileSystemSkipAttrs[k] {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteString(", ")
		b.WriteString(k)
		b.WriteString("=")
		fmt.Fprintf(b, "%v", s.attrs[k])
	}
	if s.parent != nil {
		b.WriteString("\nparent:")
		s.parent.writeFingerprint(b)
	}
}

// Equal reports whether s and other describe the same object.
func (s *Spec) Equal(other *Spec) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Fingerprint() == other.Fingerprint()
}

// String implements fmt.Stringer for debugging. It returns
// Fingerprint, which prints every stored attribute value as is,
// including any credential-named attribute set on the Spec; nothing is
// redacted.
func (s *Spec) String() string {
	return s.Fingerprint()
}

// attrKeys returns a sorted copy of the attribute names present. It
// has no caller in this module.
func (s *Spec) attrKeys() []string {
	names := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// intAttr renders numeric attributes losslessly regardless of whether
// they were stored as int, int64, or uint64. It has no caller in this
// module.
func intAttr(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	}
	return "", false
}

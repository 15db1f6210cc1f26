// Package analyzer implements the Format Analyzer: content-based
// sniffing of an opened FileObject against every registered backend's
// Analyze helper, scanned in the fixed category order storage media,
// volume system, file system, archive, compressed.
package analyzer

import (
	"context"
	"fmt"
	"io"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/registry"
)

// Analyzer scans a FileObject against a Registry's declared helpers.
// The zero value is not ready to use; construct one with New.
type Analyzer struct {
	registry *registry.Registry
}

// Option configures an Analyzer at construction.
type Option func(*Analyzer)

// WithRegistry binds a to reg instead of registry.Default.
func WithRegistry(reg *registry.Registry) Option {
	return func(a *Analyzer) { a.registry = reg }
}

// New returns an Analyzer bound to registry.Default unless overridden
// with WithRegistry.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{registry: registry.Default}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Default is the process-wide convenience Analyzer.
var Default = New()

// Analyze content-sniffs fo against every registered helper, in
// category order, and returns the type indicators that matched in the
// first category with any match; later categories are not scanned once
// one category has matched. Analyzer restores fo's seek offset before
// returning, regardless of outcome, so a caller can immediately go on
// to open the format it picks.
func (a *Analyzer) Analyze(ctx context.Context, fo vfs.FileObject) ([]string, error) {
	start, err := fo.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, vfs.NewError(vfs.KindBackEnd, "analyze", "", fmt.Errorf("recording seek offset: %w", err))
	}
	defer fo.Seek(start, io.SeekStart)

	var matches []string
	for _, cat := range registry.AnalyzerOrder() {
		for _, f := range a.registry.HelpersByCategory(cat) {
			if _, err := fo.Seek(start, io.SeekStart); err != nil {
				return nil, vfs.NewError(vfs.KindBackEnd, "analyze", f.TypeIndicator, err)
			}
			ok, err := f.Analyze(ctx, fo)
			if err != nil {
				return nil, vfs.NewError(vfs.KindBackEnd, "analyze", f.TypeIndicator, err)
			}
			if ok {
				matches = append(matches, f.TypeIndicator)
			}
		}
		if len(matches) > 0 {
			// A format in an earlier category (e.g. a partition table)
			// takes precedence over a later category (e.g. a file
			// system) matching the same bytes by coincidence.
			break
		}
	}
	return matches, nil
}

// Analyze content-sniffs fo against the Default Analyzer.
func Analyze(ctx context.Context, fo vfs.FileObject) ([]string, error) {
	return Default.Analyze(ctx, fo)
}

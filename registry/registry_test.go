package registry_test

import (
	"context"
	"testing"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

func testFactory() *registry.Factory {
	return &registry.Factory{
		TypeIndicator: "TESTFMT",
		RootType:      false,
		AttrNames:     []string{"location"},
	}
}

func TestRegisterLookupDeregister(t *testing.T) {
	r := registry.New()
	if err := r.Register(testFactory()); err != nil {
		t.Fatal(err)
	}
	f, err := r.Lookup("TESTFMT")
	if err != nil {
		t.Fatal(err)
	}
	if f.TypeIndicator != "TESTFMT" {
		t.Fatalf("got %q", f.TypeIndicator)
	}

	if err := r.Register(testFactory()); err == nil {
		t.Fatal("expected error re-registering the same type indicator")
	}

	r.Deregister("TESTFMT")
	if _, err := r.Lookup("TESTFMT"); err == nil {
		t.Fatal("expected error after deregister")
	}
}

func TestLookupUnsupportedFormat(t *testing.T) {
	r := registry.New()
	_, err := r.Lookup("NOPE")
	if !vfs.Is(err, vfs.KindUnsupportedFormat) {
		t.Fatalf("expected KindUnsupportedFormat, got %v", err)
	}
}

func TestValidateAttrsRootParentInvariant(t *testing.T) {
	r := registry.New()
	if err := r.Register(&registry.Factory{TypeIndicator: "OS", RootType: true, AttrNames: []string{"location"}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&registry.Factory{TypeIndicator: "RAW", RootType: false}); err != nil {
		t.Fatal(err)
	}

	os1, err := pathspec.New("OS", r.ValidateAttrs, pathspec.Location("/tmp/x.raw"))
	if err != nil {
		t.Fatal(err)
	}

	// OS with a parent must fail.
	_, err = pathspec.New("OS", r.ValidateAttrs, pathspec.Location("/tmp/x.raw"), pathspec.WithParent(os1))
	if !vfs.Is(err, vfs.KindPathSpec) {
		t.Fatalf("expected KindPathSpec for root type with parent, got %v", err)
	}

	// RAW without a parent must fail.
	_, err = pathspec.New("RAW", r.ValidateAttrs)
	if !vfs.Is(err, vfs.KindPathSpec) {
		t.Fatalf("expected KindPathSpec for non-root type without parent, got %v", err)
	}

	// RAW with a parent succeeds.
	if _, err := pathspec.New("RAW", r.ValidateAttrs, pathspec.WithParent(os1)); err != nil {
		t.Fatal(err)
	}
}

func TestValidateAttrsUnknownAttribute(t *testing.T) {
	r := registry.New()
	if err := r.Register(&registry.Factory{TypeIndicator: "OS", RootType: true, AttrNames: []string{"location"}}); err != nil {
		t.Fatal(err)
	}
	_, err := pathspec.New("OS", r.ValidateAttrs, pathspec.Identifier(1))
	var uae *pathspec.UnknownAttributeError
	if err == nil {
		t.Fatal("expected error")
	}
	if !asUnknownAttr(err, &uae) {
		t.Fatalf("expected UnknownAttributeError, got %v (%T)", err, err)
	}
}

func asUnknownAttr(err error, target **pathspec.UnknownAttributeError) bool {
	e, ok := err.(*pathspec.UnknownAttributeError)
	if ok {
		*target = e
	}
	return ok
}

func TestHelpersByCategoryAndAnalyzerOrder(t *testing.T) {
	r := registry.New()
	_ = r.Register(&registry.Factory{
		TypeIndicator: "GPT", Category: registry.CategoryVolumeSystem,
		Analyze: func(_ context.Context, _ vfs.FileObject) (bool, error) { return false, nil },
	})
	helpers := r.HelpersByCategory(registry.CategoryVolumeSystem)
	if len(helpers) != 1 || helpers[0].TypeIndicator != "GPT" {
		t.Fatalf("got %v", helpers)
	}

	order := registry.AnalyzerOrder()
	if len(order) == 0 || order[0] != registry.CategoryStorageMedia {
		t.Fatalf("unexpected analyzer order: %v", order)
	}
}

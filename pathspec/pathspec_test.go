package pathspec_test

import (
	"testing"

	"github.com/dvfscore/vfs/pathspec"
)

func noValidate(string, map[string]any, *pathspec.Spec) error { return nil }

func TestNewNoParent(t *testing.T) {
	s, err := pathspec.New("OS", noValidate, pathspec.Location("/tmp/image.raw"))
	if err != nil {
		t.Fatal(err)
	}
	if s.HasParent() {
		t.Fatal("expected no parent")
	}
	loc, ok := s.Location()
	if !ok || loc != "/tmp/image.raw" {
		t.Fatalf("Location() = %q, %v", loc, ok)
	}
}

func TestFingerprintEquality(t *testing.T) {
	os1, err := pathspec.New("OS", noValidate, pathspec.Location("/tmp/image.raw"))
	if err != nil {
		t.Fatal(err)
	}
	os2, err := pathspec.New("OS", noValidate, pathspec.Location("/tmp/image.raw"))
	if err != nil {
		t.Fatal(err)
	}
	raw1, err := pathspec.New("RAW", noValidate, pathspec.WithParent(os1))
	if err != nil {
		t.Fatal(err)
	}
	raw2, err := pathspec.New("RAW", noValidate, pathspec.WithParent(os2))
	if err != nil {
		t.Fatal(err)
	}
	if !raw1.Equal(raw2) {
		t.Fatalf("expected equal fingerprints: %q != %q",
			raw1.Fingerprint(), raw2.Fingerprint())
	}

	apfs1, err := pathspec.New("APFS", noValidate,
		pathspec.Location("/a_directory/another_file"),
		pathspec.Identifier(19),
		pathspec.WithParent(raw1))
	if err != nil {
		t.Fatal(err)
	}
	apfs2, err := pathspec.New("APFS", noValidate,
		pathspec.Identifier(19),
		pathspec.Location("/a_directory/another_file"),
		pathspec.WithParent(raw2))
	if err != nil {
		t.Fatal(err)
	}
	if !apfs1.Equal(apfs2) {
		t.Fatalf("expected equal fingerprints regardless of attribute order: %q != %q",
			apfs1.Fingerprint(), apfs2.Fingerprint())
	}
}

func TestFingerprintDistinguishesAttributes(t *testing.T) {
	a, _ := pathspec.New("APFS", noValidate, pathspec.Identifier(19))
	b, _ := pathspec.New("APFS", noValidate, pathspec.Identifier(21))
	if a.Equal(b) {
		t.Fatal("expected different fingerprints for different identifiers")
	}
}

func TestGetRootParent(t *testing.T) {
	root, _ := pathspec.New("OS", noValidate, pathspec.Location("/tmp/image.raw"))
	raw, _ := pathspec.New("RAW", noValidate, pathspec.WithParent(root))
	container, _ := pathspec.New("APFS_CONTAINER", noValidate, pathspec.WithParent(raw))

	if got := container.GetRootParent(); !got.Equal(root) {
		t.Fatalf("GetRootParent() = %v, want %v", got, root)
	}
}

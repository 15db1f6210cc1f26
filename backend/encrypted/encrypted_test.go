package encrypted_test

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/backend/fake"
	"github.com/dvfscore/vfs/keychain"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
	"github.com/dvfscore/vfs/resolver"
)

// buildLUKSLikeImage hand-builds a header-plus-ciphertext blob using the
// exact construction backend/encrypted expects, standing in for a real
// external encryption tool the way buildMBRImage in backend/partition's
// tests stands in for a real partitioning tool.
func buildLUKSLikeImage(t *testing.T, password string, iterations int, content []byte) []byte {
	t.Helper()
	salt := bytes.Repeat([]byte{0x5a}, 16)

	master := pbkdf2.Key([]byte(password), salt, iterations, 32, sha256.New)
	kdf := hkdf.New(sha256.New, master, salt, []byte(registry.TypeLUKS))
	buf := make([]byte, 32+aes.BlockSize)
	if _, err := io.ReadFull(kdf, buf); err != nil {
		t.Fatal(err)
	}
	key, iv := buf[:32], buf[32:]

	plaintext := append([]byte("VFSCRYPT"), content...)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, plaintext)

	header := make([]byte, 0, 4+1+4+16+len(ciphertext))
	header = append(header, []byte("LUKS")...)
	header = append(header, 1)
	iterBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(iterBuf, uint32(iterations))
	header = append(header, iterBuf...)
	header = append(header, salt...)
	header = append(header, ciphertext...)
	return header
}

func openParentSpec(t *testing.T, mount, location string) *pathspec.Spec {
	t.Helper()
	spec, err := pathspec.New(registry.TypeFake, registry.ValidateAttrs,
		pathspec.MountIdentifier(mount), pathspec.Location(location))
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func TestLUKSRoundTrip(t *testing.T) {
	image := buildLUKSLikeImage(t, "correct horse", 1000, []byte("forensic evidence"))

	tree := fake.NewBuilder().
		AddFile("/volume.luks", image, time.Unix(0, 0)).
		Build()
	fake.Register("luks-test", tree)
	defer fake.Deregister("luks-test")

	parent := openParentSpec(t, "luks-test", "/volume.luks")
	spec, err := pathspec.New(registry.TypeLUKS, registry.ValidateAttrs, pathspec.WithParent(parent))
	if err != nil {
		t.Fatal(err)
	}
	if err := keychain.SetFor(registry.Default, spec, keychain.Password, "correct horse"); err != nil {
		t.Fatal(err)
	}
	defer keychain.Default.Remove(spec)

	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	fo, err := r.OpenFileObject(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(fo); err != nil {
		t.Fatal(err)
	}
	if out.String() != "forensic evidence" {
		t.Fatalf("decrypted content = %q, want %q", out.String(), "forensic evidence")
	}
}

func TestLUKSWrongPasswordIsCredentialError(t *testing.T) {
	image := buildLUKSLikeImage(t, "correct horse", 1000, []byte("forensic evidence"))

	tree := fake.NewBuilder().
		AddFile("/volume.luks", image, time.Unix(0, 0)).
		Build()
	fake.Register("luks-wrong-test", tree)
	defer fake.Deregister("luks-wrong-test")

	parent := openParentSpec(t, "luks-wrong-test", "/volume.luks")
	spec, err := pathspec.New(registry.TypeLUKS, registry.ValidateAttrs, pathspec.WithParent(parent))
	if err != nil {
		t.Fatal(err)
	}
	if err := keychain.SetFor(registry.Default, spec, keychain.Password, "wrong guess"); err != nil {
		t.Fatal(err)
	}
	defer keychain.Default.Remove(spec)

	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	_, err = r.OpenFileObject(context.Background(), spec)
	if !vfs.Is(err, vfs.KindCredential) {
		t.Fatalf("OpenFileObject() error = %v, want KindCredential", err)
	}
}

func TestLUKSMissingCredentialIsCredentialError(t *testing.T) {
	image := buildLUKSLikeImage(t, "correct horse", 1000, []byte("forensic evidence"))

	tree := fake.NewBuilder().
		AddFile("/volume.luks", image, time.Unix(0, 0)).
		Build()
	fake.Register("luks-missing-test", tree)
	defer fake.Deregister("luks-missing-test")

	parent := openParentSpec(t, "luks-missing-test", "/volume.luks")
	spec, err := pathspec.New(registry.TypeLUKS, registry.ValidateAttrs, pathspec.WithParent(parent))
	if err != nil {
		t.Fatal(err)
	}

	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	_, err = r.OpenFileObject(context.Background(), spec)
	if !vfs.Is(err, vfs.KindCredential) {
		t.Fatalf("OpenFileObject() error = %v, want KindCredential", err)
	}
}

func TestLUKSAnalyzeDetectsMagic(t *testing.T) {
	image := buildLUKSLikeImage(t, "pw", 10, []byte("x"))

	tree := fake.NewBuilder().
		AddFile("/volume.luks", image, time.Unix(0, 0)).
		Build()
	fake.Register("luks-analyze-test", tree)
	defer fake.Deregister("luks-analyze-test")

	spec := openParentSpec(t, "luks-analyze-test", "/volume.luks")
	r := resolver.New(resolver.WithContext(resolver.NewContext()))
	fo, err := r.OpenFileObject(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	defer fo.Close()

	factory, err := registry.Lookup(registry.TypeLUKS)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := factory.Analyze(context.Background(), fo)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected LUKS magic to be detected")
	}
}

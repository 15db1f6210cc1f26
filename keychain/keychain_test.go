package keychain_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dvfscore/vfs"
	"github.com/dvfscore/vfs/keychain"
	"github.com/dvfscore/vfs/pathspec"
	"github.com/dvfscore/vfs/registry"
)

func noValidate(string, map[string]any, *pathspec.Spec) error { return nil }

func TestSetGetRemove(t *testing.T) {
	k := keychain.New()
	spec, err := pathspec.New("APFS_CONTAINER", noValidate, pathspec.Location("/apfs1"))
	if err != nil {
		t.Fatal(err)
	}

	if err := k.Set(spec, keychain.Password, "apfs-TEST", nil); err != nil {
		t.Fatal(err)
	}
	got, ok := k.Get(spec, keychain.Password)
	if !ok || got != "apfs-TEST" {
		t.Fatalf("Get() = %q, %v", got, ok)
	}

	k.Remove(spec)
	if _, ok := k.Get(spec, keychain.Password); ok {
		t.Fatal("expected credential gone after Remove")
	}
}

func TestSetUnknownCredentialRejected(t *testing.T) {
	k := keychain.New()
	spec, _ := pathspec.New("BDE", noValidate, pathspec.Location("/"))
	validate := func(typeIndicator, name string) error {
		if name != keychain.Password {
			return keychain.ErrUnknownCredential(typeIndicator, name)
		}
		return nil
	}
	if err := k.Set(spec, "not_a_real_credential", "x", validate); !vfs.Is(err, vfs.KindCredential) {
		t.Fatalf("expected KindCredential, got %v", err)
	}
}

func TestCredentialsNeverPrinted(t *testing.T) {
	k := keychain.New()
	spec, _ := pathspec.New("LUKS", noValidate, pathspec.Location("/"))
	const secret = "super-secret-passphrase"
	if err := k.Set(spec, keychain.Password, secret, nil); err != nil {
		t.Fatal(err)
	}

	rendered := fmt.Sprintf("%v %#v %s", k, k, k)
	if strings.Contains(rendered, secret) {
		t.Fatalf("formatted KeyChain leaked credential value: %q", rendered)
	}
}

func TestSetForValidatesAgainstRegistry(t *testing.T) {
	reg := registry.New()
	if err := reg.Register(&registry.Factory{
		TypeIndicator:   "LUKS",
		RootType:        false,
		CredentialNames: []string{keychain.Password, keychain.RecoveryPassword},
		OpenFileObject: func(context.Context, *pathspec.Spec, registry.Resolver) (vfs.FileObject, error) {
			return nil, nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	k := keychain.New()
	spec, _ := pathspec.New("LUKS", noValidate, pathspec.Location("/"))

	if err := k.SetFor(reg, spec, keychain.Password, "good"); err != nil {
		t.Fatalf("SetFor() with a declared credential name: %v", err)
	}
	if err := k.SetFor(reg, spec, "not_a_real_credential", "x"); !vfs.Is(err, vfs.KindCredential) {
		t.Fatalf("SetFor() with an undeclared credential name: err = %v, want KindCredential", err)
	}
}

func TestEmpty(t *testing.T) {
	k := keychain.New()
	spec, _ := pathspec.New("FVDE", noValidate, pathspec.Location("/"))
	_ = k.Set(spec, keychain.Password, "x", nil)
	k.Empty()
	if _, ok := k.Get(spec, keychain.Password); ok {
		t.Fatal("expected no credentials after Empty")
	}
}

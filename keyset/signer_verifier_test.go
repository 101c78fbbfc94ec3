package keyset_test

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/axent-pl/jwtkit/keyset"
	"github.com/axent-pl/jwtkit/sig"
)

// headerKidOf decodes the compact header and returns its kid, empty when
// absent.
func headerKidOf(t *testing.T, compact string) string {
	t.Helper()
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		t.Fatalf("compact form has %d segments", len(parts))
	}
	decoded, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("could not decode header: %v", err)
	}
	var header map[string]any
	if err := json.Unmarshal(decoded, &header); err != nil {
		t.Fatalf("could not parse header: %v", err)
	}
	kid, ok := header["kid"].(string)
	if !ok {
		return ""
	}
	return kid
}

func newSigningKeyset(t *testing.T, alg sig.Alg, prefix keyset.Prefix, keyID uint32) *keyset.SigningKeyset {
	t.Helper()
	key, err := sig.GenerateSigningKey(rand.Reader, alg)
	if err != nil {
		t.Fatalf("GenerateSigningKey() failed: %v", err)
	}
	return &keyset.SigningKeyset{
		PrimaryKeyID: keyID,
		Entries: []keyset.SigningEntry{
			{KeyID: keyID, Prefix: prefix, Status: keyset.StatusEnabled, Key: key},
		},
	}
}

func TestSignerVerifier_RoundTrip(t *testing.T) {
	for _, prefix := range []keyset.Prefix{keyset.PrefixRaw, keyset.PrefixTink} {
		t.Run(prefix.String(), func(t *testing.T) {
			ks := newSigningKeyset(t, sig.AlgES256, prefix, 0x01020304)
			signer, err := keyset.NewSigner(ks)
			if err != nil {
				t.Fatalf("NewSigner() failed: %v", err)
			}
			compact, err := signer.SignAndEncode(unexpiredToken(t, "issuer"))
			if err != nil {
				t.Fatalf("SignAndEncode() failed: %v", err)
			}

			wantKid := ""
			if prefix == keyset.PrefixTink {
				wantKid = "AQIDBA"
			}
			if got := headerKidOf(t, compact); got != wantKid {
				t.Errorf("header kid = %q, want %q", got, wantKid)
			}

			public, err := ks.Public()
			if err != nil {
				t.Fatalf("Public() failed: %v", err)
			}
			verifier, err := keyset.NewVerifier(public)
			if err != nil {
				t.Fatalf("NewVerifier() failed: %v", err)
			}
			verified, err := verifier.VerifyAndDecode(compact, issuerValidator(t, "issuer"))
			if err != nil {
				t.Fatalf("VerifyAndDecode() failed: %v", err)
			}
			if iss, _ := verified.Issuer(); iss != "issuer" {
				t.Errorf("Issuer() = %q, want %q", iss, "issuer")
			}
		})
	}
}

func TestVerifier_SkipsDisabledEntries(t *testing.T) {
	ks := newSigningKeyset(t, sig.AlgES256, keyset.PrefixRaw, 1)
	signer, err := keyset.NewSigner(ks)
	if err != nil {
		t.Fatalf("NewSigner() failed: %v", err)
	}
	compact, err := signer.SignAndEncode(unexpiredToken(t, "issuer"))
	if err != nil {
		t.Fatalf("SignAndEncode() failed: %v", err)
	}

	public, err := ks.Public()
	if err != nil {
		t.Fatalf("Public() failed: %v", err)
	}
	public.Entries[0].Status = keyset.StatusDisabled
	verifier, err := keyset.NewVerifier(public)
	if err != nil {
		t.Fatalf("NewVerifier() failed: %v", err)
	}
	if _, err := verifier.VerifyAndDecode(compact, issuerValidator(t, "issuer")); err == nil {
		t.Fatal("VerifyAndDecode() succeeded with the only key disabled")
	}
}

func TestNewSigner_RequiresEnabledPrimary(t *testing.T) {
	ks := newSigningKeyset(t, sig.AlgES256, keyset.PrefixRaw, 1)
	ks.Entries[0].Status = keyset.StatusDisabled
	if _, err := keyset.NewSigner(ks); err == nil {
		t.Fatal("NewSigner() succeeded with disabled primary")
	}
	ks.Entries[0].Status = keyset.StatusEnabled
	ks.PrimaryKeyID = 99
	if _, err := keyset.NewSigner(ks); err == nil {
		t.Fatal("NewSigner() succeeded with absent primary")
	}
}

func TestVerifier_TriesAllEnabledKeys(t *testing.T) {
	oldKS := newSigningKeyset(t, sig.AlgES256, keyset.PrefixTink, 1)
	newKS := newSigningKeyset(t, sig.AlgES256, keyset.PrefixTink, 2)

	oldSigner, err := keyset.NewSigner(oldKS)
	if err != nil {
		t.Fatalf("NewSigner() failed: %v", err)
	}
	compact, err := oldSigner.SignAndEncode(unexpiredToken(t, "issuer"))
	if err != nil {
		t.Fatalf("SignAndEncode() failed: %v", err)
	}

	oldPublic, err := oldKS.Public()
	if err != nil {
		t.Fatalf("Public() failed: %v", err)
	}
	newPublic, err := newKS.Public()
	if err != nil {
		t.Fatalf("Public() failed: %v", err)
	}
	merged := &keyset.VerificationKeyset{
		Entries: append(newPublic.Entries, oldPublic.Entries...),
	}
	verifier, err := keyset.NewVerifier(merged)
	if err != nil {
		t.Fatalf("NewVerifier() failed: %v", err)
	}
	if _, err := verifier.VerifyAndDecode(compact, issuerValidator(t, "issuer")); err != nil {
		t.Errorf("VerifyAndDecode() failed: %v", err)
	}
}

package sig

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/axent-pl/jwtkit/common"
)

func TestGenerateMACKey(t *testing.T) {
	tests := []struct {
		name    string
		alg     Alg
		size    int
		wantErr bool
	}{
		{name: "HS256 at floor", alg: AlgHS256, size: 32},
		{name: "HS256 above floor", alg: AlgHS256, size: 64},
		{name: "HS256 below floor", alg: AlgHS256, size: 31, wantErr: true},
		{name: "HS384 at floor", alg: AlgHS384, size: 48},
		{name: "HS512 at floor", alg: AlgHS512, size: 64},
		{name: "not a MAC alg", alg: AlgES256, size: 32, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := GenerateMACKey(rand.Reader, tt.alg, tt.size)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("GenerateMACKey() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("GenerateMACKey() succeeded unexpectedly")
			}
			if len(got.KeyValue) != tt.size {
				t.Errorf("key has %d bytes, want %d", len(got.KeyValue), tt.size)
			}
		})
	}
}

func TestGenerateMACKey_UsesInjectedRandomness(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	key, err := GenerateMACKey(bytes.NewReader(seed), AlgHS256, 32)
	if err != nil {
		t.Fatalf("GenerateMACKey() failed: %v", err)
	}
	if !bytes.Equal(key.KeyValue, seed) {
		t.Error("key material did not come from the injected reader")
	}
}

func TestGenerateSigningKey(t *testing.T) {
	// RSA keygen at 3072/4096 bits is slow, one representative size is enough.
	tests := []struct {
		name    string
		alg     Alg
		wantErr bool
	}{
		{name: "ES256", alg: AlgES256},
		{name: "ES384", alg: AlgES384},
		{name: "ES512", alg: AlgES512},
		{name: "RS256", alg: AlgRS256},
		{name: "PS256", alg: AlgPS256},
		{name: "MAC alg rejected", alg: AlgHS256, wantErr: true},
		{name: "unknown alg rejected", alg: AlgUnknown, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := GenerateSigningKey(rand.Reader, tt.alg)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("GenerateSigningKey() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("GenerateSigningKey() succeeded unexpectedly")
			}
			if err := got.Validate(); err != nil {
				t.Errorf("generated key fails validation: %v", err)
			}
			switch key := got.Key.(type) {
			case *ecdsa.PrivateKey, *rsa.PrivateKey:
			default:
				t.Errorf("generated key has type %T", key)
			}
		})
	}
}

func TestDeriveKey_Unimplemented(t *testing.T) {
	_, gotErr := DeriveKey(rand.Reader, AlgHS256)
	if gotErr == nil {
		t.Fatal("DeriveKey() succeeded unexpectedly")
	}
	if !errors.Is(gotErr, common.ErrUnimplemented) {
		t.Errorf("DeriveKey() error kind = %v, want ErrUnimplemented", gotErr)
	}
}

package sig

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func TestMACKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     MACKey
		wantErr bool
	}{
		{name: "valid", key: MACKey{Alg: AlgHS256, KeyValue: make([]byte, 32)}, wantErr: false},
		{name: "too short", key: MACKey{Alg: AlgHS256, KeyValue: make([]byte, 31)}, wantErr: true},
		{name: "HS512 needs 64 bytes", key: MACKey{Alg: AlgHS512, KeyValue: make([]byte, 48)}, wantErr: true},
		{name: "longer than floor", key: MACKey{Alg: AlgHS256, KeyValue: make([]byte, 64)}, wantErr: false},
		{name: "not a MAC alg", key: MACKey{Alg: AlgES256, KeyValue: make([]byte, 32)}, wantErr: true},
		{name: "nonzero version", key: MACKey{Version: 1, Alg: AlgHS256, KeyValue: make([]byte, 32)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr := tt.key.Validate()
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Validate() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Validate() succeeded unexpectedly")
			}
		})
	}
}

func TestPrivateKey_Validate(t *testing.T) {
	p256Key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("ecdsa.GenerateKey() failed: %v", err)
	}
	rsa2048, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey() failed: %v", err)
	}

	tests := []struct {
		name    string
		key     PrivateKey
		wantErr bool
	}{
		{name: "ES256 on P-256", key: PrivateKey{Alg: AlgES256, Key: p256Key}, wantErr: false},
		{name: "ES384 on P-256", key: PrivateKey{Alg: AlgES384, Key: p256Key}, wantErr: true},
		{name: "RS256 at 2048", key: PrivateKey{Alg: AlgRS256, Key: rsa2048}, wantErr: false},
		{name: "RS384 needs 3072", key: PrivateKey{Alg: AlgRS384, Key: rsa2048}, wantErr: true},
		{name: "PS256 at 2048", key: PrivateKey{Alg: AlgPS256, Key: rsa2048}, wantErr: false},
		{name: "nil key material", key: PrivateKey{Alg: AlgES256}, wantErr: true},
		{name: "nonzero version", key: PrivateKey{Version: 1, Alg: AlgES256, Key: p256Key}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr := tt.key.Validate()
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Validate() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Validate() succeeded unexpectedly")
			}
		})
	}
}

func TestPublicKey_RSAExponent(t *testing.T) {
	rsa2048, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey() failed: %v", err)
	}
	tests := []struct {
		name     string
		exponent int
		wantErr  bool
	}{
		{name: "65537", exponent: 65537, wantErr: false},
		{name: "small", exponent: 3, wantErr: true},
		{name: "even", exponent: 65538, wantErr: true},
		{name: "large odd", exponent: 65539, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			public := rsa2048.PublicKey
			public.E = tt.exponent
			key := PublicKey{Alg: AlgRS256, Key: &public}
			gotErr := key.Validate()
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("Validate() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("Validate() succeeded unexpectedly")
			}
		})
	}
}

func TestPrivateKey_Public(t *testing.T) {
	customKid := "kid"
	p256Key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("ecdsa.GenerateKey() failed: %v", err)
	}
	key := PrivateKey{Alg: AlgES256, Key: p256Key, CustomKid: &customKid}
	public, err := key.Public()
	if err != nil {
		t.Fatalf("Public() failed: %v", err)
	}
	if public.Alg != AlgES256 {
		t.Errorf("Alg = %v, want ES256", public.Alg)
	}
	if public.CustomKid == nil || *public.CustomKid != customKid {
		t.Error("CustomKid not carried over")
	}
	if _, ok := public.Key.(*ecdsa.PublicKey); !ok {
		t.Errorf("Key has type %T, want *ecdsa.PublicKey", public.Key)
	}
}

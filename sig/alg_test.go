package sig

import (
	"crypto/elliptic"
	"testing"
)

func TestAlgStringRoundTrip(t *testing.T) {
	algs := []Alg{
		AlgHS256, AlgHS384, AlgHS512,
		AlgES256, AlgES384, AlgES512,
		AlgRS256, AlgRS384, AlgRS512,
		AlgPS256, AlgPS384, AlgPS512,
	}
	for _, alg := range algs {
		t.Run(alg.String(), func(t *testing.T) {
			got, err := FromString(alg.String())
			if err != nil {
				t.Fatalf("FromString() failed: %v", err)
			}
			if got != alg {
				t.Errorf("FromString(%q) = %v, want %v", alg.String(), got, alg)
			}
		})
	}
}

func TestFromString_Rejected(t *testing.T) {
	for _, s := range []string{"none", "None", "NONE", "", "hs256", "HS-256", "EdDSA"} {
		t.Run(s, func(t *testing.T) {
			if _, err := FromString(s); err == nil {
				t.Fatalf("FromString(%q) succeeded unexpectedly", s)
			}
		})
	}
}

func TestAlgParameters(t *testing.T) {
	tests := []struct {
		alg         Alg
		minMACSize  int
		minModulus  int
		curve       elliptic.Curve
	}{
		{alg: AlgHS256, minMACSize: 32},
		{alg: AlgHS384, minMACSize: 48},
		{alg: AlgHS512, minMACSize: 64},
		{alg: AlgES256, curve: elliptic.P256()},
		{alg: AlgES384, curve: elliptic.P384()},
		{alg: AlgES512, curve: elliptic.P521()},
		{alg: AlgRS256, minModulus: 2048},
		{alg: AlgRS384, minModulus: 3072},
		{alg: AlgRS512, minModulus: 4096},
		{alg: AlgPS256, minModulus: 2048},
		{alg: AlgPS384, minModulus: 3072},
		{alg: AlgPS512, minModulus: 4096},
	}
	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			if tt.minMACSize > 0 {
				got, err := tt.alg.MinMACKeySize()
				if err != nil || got != tt.minMACSize {
					t.Errorf("MinMACKeySize() = %d, %v, want %d", got, err, tt.minMACSize)
				}
			} else {
				if _, err := tt.alg.MinMACKeySize(); err == nil {
					t.Error("MinMACKeySize() succeeded for a non-MAC alg")
				}
			}
			if tt.minModulus > 0 {
				got, err := tt.alg.MinModulusBits()
				if err != nil || got != tt.minModulus {
					t.Errorf("MinModulusBits() = %d, %v, want %d", got, err, tt.minModulus)
				}
			} else {
				if _, err := tt.alg.MinModulusBits(); err == nil {
					t.Error("MinModulusBits() succeeded for a non-RSA alg")
				}
			}
			if tt.curve != nil {
				got, err := tt.alg.Curve()
				if err != nil || got != tt.curve {
					t.Errorf("Curve() = %v, %v, want %v", got, err, tt.curve)
				}
			} else {
				if _, err := tt.alg.Curve(); err == nil {
					t.Error("Curve() succeeded for a non-ECDSA alg")
				}
			}
			if _, err := tt.alg.ToGoJWT(); err != nil {
				t.Errorf("ToGoJWT() failed: %v", err)
			}
		})
	}
}

func TestAlgUnknown(t *testing.T) {
	if AlgUnknown.String() != "unknown" {
		t.Errorf("String() = %q, want %q", AlgUnknown.String(), "unknown")
	}
	if _, err := AlgUnknown.ToGoJWT(); err == nil {
		t.Error("ToGoJWT() succeeded for the unknown alg")
	}
}

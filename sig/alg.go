package sig

import (
	"crypto"
	"crypto/elliptic"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Alg represents a JWS MAC or signature algorithm supported by this module.
type Alg int

const (
	AlgUnknown Alg = iota

	// HMAC with SHA-2
	AlgHS256
	AlgHS384
	AlgHS512

	// ECDSA over P-256/384/521 with SHA-2, IEEE P1363 signature encoding
	AlgES256
	AlgES384
	AlgES512

	// RSA PKCS#1 v1.5
	AlgRS256
	AlgRS384
	AlgRS512

	// RSA-PSS
	AlgPS256
	AlgPS384
	AlgPS512
)

func (a Alg) String() string {
	mapping := map[Alg]string{
		AlgHS256: "HS256",
		AlgHS384: "HS384",
		AlgHS512: "HS512",
		AlgES256: "ES256",
		AlgES384: "ES384",
		AlgES512: "ES512",
		AlgRS256: "RS256",
		AlgRS384: "RS384",
		AlgRS512: "RS512",
		AlgPS256: "PS256",
		AlgPS384: "PS384",
		AlgPS512: "PS512",
	}
	if s, ok := mapping[a]; ok {
		return s
	}
	return "unknown"
}

// FromString maps the "alg" header value to an Alg. "none" is never accepted.
func FromString(s string) (Alg, error) {
	mapping := map[string]Alg{
		"HS256": AlgHS256,
		"HS384": AlgHS384,
		"HS512": AlgHS512,
		"ES256": AlgES256,
		"ES384": AlgES384,
		"ES512": AlgES512,
		"RS256": AlgRS256,
		"RS384": AlgRS384,
		"RS512": AlgRS512,
		"PS256": AlgPS256,
		"PS384": AlgPS384,
		"PS512": AlgPS512,
	}
	if a, ok := mapping[s]; ok {
		return a, nil
	}
	return AlgUnknown, fmt.Errorf("unknown alg: %s", s)
}

// ---------- JWT package ----------

func (a Alg) ToGoJWT() (jwt.SigningMethod, error) {
	mapping := map[Alg]jwt.SigningMethod{
		AlgHS256: jwt.SigningMethodHS256,
		AlgHS384: jwt.SigningMethodHS384,
		AlgHS512: jwt.SigningMethodHS512,
		AlgES256: jwt.SigningMethodES256,
		AlgES384: jwt.SigningMethodES384,
		AlgES512: jwt.SigningMethodES512,
		AlgRS256: jwt.SigningMethodRS256,
		AlgRS384: jwt.SigningMethodRS384,
		AlgRS512: jwt.SigningMethodRS512,
		AlgPS256: jwt.SigningMethodPS256,
		AlgPS384: jwt.SigningMethodPS384,
		AlgPS512: jwt.SigningMethodPS512,
	}
	if m, ok := mapping[a]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown alg: %s", a)
}

// ---------- per-algorithm parameters ----------

func (a Alg) ToCryptoHash() (crypto.Hash, error) {
	mapping := map[Alg]crypto.Hash{
		AlgHS256: crypto.SHA256,
		AlgHS384: crypto.SHA384,
		AlgHS512: crypto.SHA512,
		AlgES256: crypto.SHA256,
		AlgES384: crypto.SHA384,
		AlgES512: crypto.SHA512,
		AlgRS256: crypto.SHA256,
		AlgRS384: crypto.SHA384,
		AlgRS512: crypto.SHA512,
		AlgPS256: crypto.SHA256,
		AlgPS384: crypto.SHA384,
		AlgPS512: crypto.SHA512,
	}
	if h, ok := mapping[a]; ok {
		return h, nil
	}
	return 0, fmt.Errorf("unknown alg: %s", a)
}

func (a Alg) IsMAC() bool {
	return a == AlgHS256 || a == AlgHS384 || a == AlgHS512
}

func (a Alg) IsECDSA() bool {
	return a == AlgES256 || a == AlgES384 || a == AlgES512
}

func (a Alg) IsRSA() bool {
	switch a {
	case AlgRS256, AlgRS384, AlgRS512, AlgPS256, AlgPS384, AlgPS512:
		return true
	}
	return false
}

func (a Alg) IsRSAPSS() bool {
	return a == AlgPS256 || a == AlgPS384 || a == AlgPS512
}

// MinMACKeySize returns the minimum HMAC key length in bytes: the digest size
// of the associated hash, never below 32.
func (a Alg) MinMACKeySize() (int, error) {
	mapping := map[Alg]int{
		AlgHS256: 32,
		AlgHS384: 48,
		AlgHS512: 64,
	}
	if n, ok := mapping[a]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("alg %s has no MAC key size", a)
}

// MinModulusBits returns the minimum RSA modulus bit length.
func (a Alg) MinModulusBits() (int, error) {
	mapping := map[Alg]int{
		AlgRS256: 2048,
		AlgRS384: 3072,
		AlgRS512: 4096,
		AlgPS256: 2048,
		AlgPS384: 3072,
		AlgPS512: 4096,
	}
	if n, ok := mapping[a]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("alg %s has no RSA modulus size", a)
}

func (a Alg) Curve() (elliptic.Curve, error) {
	mapping := map[Alg]elliptic.Curve{
		AlgES256: elliptic.P256(),
		AlgES384: elliptic.P384(),
		AlgES512: elliptic.P521(),
	}
	if c, ok := mapping[a]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("alg %s has no elliptic curve", a)
}

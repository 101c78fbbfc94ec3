package sig

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"io"

	"github.com/axent-pl/jwtkit/common"
)

// GenerateMACKey draws exactly size random bytes from rand and wraps them in a
// validated MACKey. The randomness source is injected so tests can pin it.
func GenerateMACKey(rand io.Reader, alg Alg, size int) (*MACKey, error) {
	min, err := alg.MinMACKeySize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	if size < min {
		return nil, fmt.Errorf("%w: key size %d too small, %s requires at least %d bytes", common.ErrInvalidArgument, size, alg, min)
	}
	value := make([]byte, size)
	if _, err := io.ReadFull(rand, value); err != nil {
		return nil, fmt.Errorf("%w: could not read random key material: %v", common.ErrInternal, err)
	}
	key := &MACKey{Alg: alg, KeyValue: value}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateSigningKey creates a fresh keypair meeting the per-algorithm
// parameters: the bound curve for ES*, the minimum modulus size for RS*/PS*.
func GenerateSigningKey(rand io.Reader, alg Alg) (*PrivateKey, error) {
	switch {
	case alg.IsECDSA():
		curve, err := alg.Curve()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
		}
		key, err := ecdsa.GenerateKey(curve, rand)
		if err != nil {
			return nil, fmt.Errorf("%w: ecdsa keygen failed: %v", common.ErrInternal, err)
		}
		return &PrivateKey{Alg: alg, Key: key}, nil
	case alg.IsRSA():
		bits, err := alg.MinModulusBits()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
		}
		key, err := rsa.GenerateKey(rand, bits)
		if err != nil {
			return nil, fmt.Errorf("%w: rsa keygen failed: %v", common.ErrInternal, err)
		}
		return &PrivateKey{Alg: alg, Key: key}, nil
	default:
		return nil, fmt.Errorf("%w: alg %s is not a signature algorithm", common.ErrInvalidArgument, alg)
	}
}

// DeriveKey is not supported for any JWT key type.
func DeriveKey(seed io.Reader, alg Alg) (*MACKey, error) {
	return nil, fmt.Errorf("%w: key derivation is not supported for JWT keys", common.ErrUnimplemented)
}

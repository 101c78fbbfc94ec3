package sig

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"

	"github.com/axent-pl/jwtkit/common"
)

// Key records carry algorithm-bound key material plus an optional
// producer-chosen kid. Version must be 0; there is no schema evolution.

// MACKey holds symmetric key material for the HS256/384/512 algorithms.
type MACKey struct {
	Version   uint32
	Alg       Alg
	KeyValue  []byte
	CustomKid *string
}

func (k *MACKey) Validate() error {
	if k.Version != 0 {
		return fmt.Errorf("%w: only version 0 keys are supported", common.ErrInvalidArgument)
	}
	if !k.Alg.IsMAC() {
		return fmt.Errorf("%w: alg %s is not a MAC algorithm", common.ErrInvalidArgument, k.Alg)
	}
	min, err := k.Alg.MinMACKeySize()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	if len(k.KeyValue) < min {
		return fmt.Errorf("%w: key too short, %s requires at least %d bytes", common.ErrInvalidArgument, k.Alg, min)
	}
	return nil
}

// PrivateKey holds an asymmetric signing key for the ES/RS/PS algorithms.
type PrivateKey struct {
	Version   uint32
	Alg       Alg
	Key       crypto.PrivateKey
	CustomKid *string
}

func (k *PrivateKey) Validate() error {
	if k.Version != 0 {
		return fmt.Errorf("%w: only version 0 keys are supported", common.ErrInvalidArgument)
	}
	switch key := k.Key.(type) {
	case *ecdsa.PrivateKey:
		return validateECDSA(k.Alg, &key.PublicKey)
	case *rsa.PrivateKey:
		return validateRSA(k.Alg, &key.PublicKey)
	default:
		return fmt.Errorf("%w: unsupported private key type %T", common.ErrInvalidArgument, k.Key)
	}
}

// Public projects out the verification half. CustomKid is carried over.
func (k *PrivateKey) Public() (*PublicKey, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	pub := &PublicKey{Version: k.Version, Alg: k.Alg, CustomKid: k.CustomKid}
	switch key := k.Key.(type) {
	case *ecdsa.PrivateKey:
		pub.Key = &key.PublicKey
	case *rsa.PrivateKey:
		pub.Key = &key.PublicKey
	default:
		return nil, fmt.Errorf("%w: unsupported private key type %T", common.ErrInvalidArgument, k.Key)
	}
	return pub, nil
}

// PublicKey holds an asymmetric verification key for the ES/RS/PS algorithms.
type PublicKey struct {
	Version   uint32
	Alg       Alg
	Key       crypto.PublicKey
	CustomKid *string
}

func (k *PublicKey) Validate() error {
	if k.Version != 0 {
		return fmt.Errorf("%w: only version 0 keys are supported", common.ErrInvalidArgument)
	}
	switch key := k.Key.(type) {
	case *ecdsa.PublicKey:
		return validateECDSA(k.Alg, key)
	case *rsa.PublicKey:
		return validateRSA(k.Alg, key)
	default:
		return fmt.Errorf("%w: unsupported public key type %T", common.ErrInvalidArgument, k.Key)
	}
}

func validateECDSA(alg Alg, key *ecdsa.PublicKey) error {
	curve, err := alg.Curve()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	if key.Curve != curve {
		return fmt.Errorf("%w: alg %s requires curve %s", common.ErrInvalidArgument, alg, curve.Params().Name)
	}
	return nil
}

func validateRSA(alg Alg, key *rsa.PublicKey) error {
	minBits, err := alg.MinModulusBits()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	if key.N.BitLen() < minBits {
		return fmt.Errorf("%w: modulus has %d bits, %s requires at least %d", common.ErrInvalidArgument, key.N.BitLen(), alg, minBits)
	}
	if key.E < 65537 || key.E%2 == 0 {
		return fmt.Errorf("%w: public exponent must be an odd number no smaller than 65537", common.ErrInvalidArgument)
	}
	return nil
}

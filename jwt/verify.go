package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/sig"
)

// Verifier checks asymmetrically signed tokens with a single public key.
type Verifier struct {
	alg       sig.Alg
	method    gojwt.SigningMethod
	key       any
	customKid *string
}

// NewVerifier wraps a validated public key for the ES, RS and PS algorithms.
func NewVerifier(key *sig.PublicKey) (*Verifier, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: key can't be nil", common.ErrInvalidArgument)
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	method, err := key.Alg.ToGoJWT()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	switch key.Key.(type) {
	case *ecdsa.PublicKey, *rsa.PublicKey:
	default:
		return nil, fmt.Errorf("%w: unsupported public key type %T", common.ErrInvalidArgument, key.Key)
	}
	return &Verifier{
		alg:       key.Alg,
		method:    method,
		key:       key.Key,
		customKid: key.CustomKid,
	}, nil
}

// VerifyAndDecode checks the signature and validates the claims.
func (v *Verifier) VerifyAndDecode(compact string, validator *Validator) (*VerifiedJWT, error) {
	return v.VerifyAndDecodeWithKID(compact, validator, nil)
}

// VerifyAndDecodeWithKID checks the signature, enforces the kid policy and
// validates the claims.
func (v *Verifier) VerifyAndDecodeWithKID(compact string, validator *Validator, kid *string) (*VerifiedJWT, error) {
	return verifyAndDecode(v.method, v.key, v.alg, compact, validator, v.customKid, kid)
}

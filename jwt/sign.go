package jwt

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/sig"
)

// Signer produces asymmetrically signed tokens with a single private key.
type Signer struct {
	alg       sig.Alg
	method    gojwt.SigningMethod
	key       any
	customKid *string
}

// NewSigner wraps a validated private key for the ES, RS and PS algorithms.
func NewSigner(key *sig.PrivateKey) (*Signer, error) {
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
	case *ecdsa.PrivateKey, *rsa.PrivateKey:
	default:
		return nil, fmt.Errorf("%w: unsupported private key type %T", common.ErrInvalidArgument, key.Key)
	}
	return &Signer{
		alg:       key.Alg,
		method:    method,
		key:       key.Key,
		customKid: key.CustomKid,
	}, nil
}

// SignAndEncode signs the token and returns its compact serialization.
func (s *Signer) SignAndEncode(token *RawJWT) (string, error) {
	return s.SignAndEncodeWithKID(token, nil)
}

// SignAndEncodeWithKID signs the token placing kid in the header. The kid
// parameter is reserved for keyset wrappers and conflicts with a key carrying
// a custom kid.
func (s *Signer) SignAndEncodeWithKID(token *RawJWT, kid *string) (string, error) {
	return signAndEncode(s.method, s.key, s.alg, token, s.customKid, kid)
}

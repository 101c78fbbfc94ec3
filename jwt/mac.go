package jwt

import (
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/sig"
)

// MAC computes and verifies HMAC-signed tokens with a single symmetric key.
type MAC struct {
	alg       sig.Alg
	method    gojwt.SigningMethod
	keyValue  []byte
	customKid *string
}

// NewMAC wraps a validated MAC key. The key is checked eagerly so that a bad
// key surfaces at construction, not on first use.
func NewMAC(key *sig.MACKey) (*MAC, error) {
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
	return &MAC{
		alg:       key.Alg,
		method:    method,
		keyValue:  key.KeyValue,
		customKid: key.CustomKid,
	}, nil
}

// ComputeMACAndEncode signs the token and returns its compact serialization.
func (m *MAC) ComputeMACAndEncode(token *RawJWT) (string, error) {
	return m.ComputeMACAndEncodeWithKID(token, nil)
}

// ComputeMACAndEncodeWithKID signs the token placing kid in the header. The
// kid parameter is reserved for keyset wrappers and conflicts with a key
// carrying a custom kid.
func (m *MAC) ComputeMACAndEncodeWithKID(token *RawJWT, kid *string) (string, error) {
	return signAndEncode(m.method, m.keyValue, m.alg, token, m.customKid, kid)
}

// VerifyMACAndDecode checks the MAC and validates the claims.
func (m *MAC) VerifyMACAndDecode(compact string, validator *Validator) (*VerifiedJWT, error) {
	return m.VerifyMACAndDecodeWithKID(compact, validator, nil)
}

// VerifyMACAndDecodeWithKID checks the MAC, enforces the kid policy and
// validates the claims.
func (m *MAC) VerifyMACAndDecodeWithKID(compact string, validator *Validator, kid *string) (*VerifiedJWT, error) {
	return verifyAndDecode(m.method, m.keyValue, m.alg, compact, validator, m.customKid, kid)
}

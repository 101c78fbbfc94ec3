package sig

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/axent-pl/jwtkit/common"
)

// JSONWebKey is the RFC 7517 representation of a public verification key.
type JSONWebKey struct {
	Kty string      `json:"kty"`
	Use string      `json:"use,omitempty"`
	Kid string      `json:"kid,omitempty"`
	Alg string      `json:"alg,omitempty"`
	Crv string      `json:"crv,omitempty"`
	N   *byteBuffer `json:"n,omitempty"`
	E   *byteBuffer `json:"e,omitempty"`
	X   *byteBuffer `json:"x,omitempty"`
	Y   *byteBuffer `json:"y,omitempty"`
}

// byteBuffer marshals raw bytes as unpadded base64url, per RFC 7515 §2.
type byteBuffer struct {
	data []byte
}

func (b *byteBuffer) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.RawURLEncoding.EncodeToString(b.data))
}

func (b *byteBuffer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	b.data = decoded
	return nil
}

// JWK renders the key in JWK form with the given kid. Pass an empty kid to
// omit the member.
func (k *PublicKey) JWK(kid string) (JSONWebKey, error) {
	if k.Key == nil {
		return JSONWebKey{}, fmt.Errorf("%w: nil key", common.ErrInvalidArgument)
	}
	if err := k.Validate(); err != nil {
		return JSONWebKey{}, err
	}

	jwk := JSONWebKey{
		Use: "sig",
		Kid: kid,
		Alg: k.Alg.String(),
	}

	switch pk := k.Key.(type) {
	case *rsa.PublicKey:
		jwk.Kty = "RSA"
		jwk.N = &byteBuffer{data: pk.N.Bytes()}
		jwk.E = &byteBuffer{data: big.NewInt(int64(pk.E)).Bytes()}

	case *ecdsa.PublicKey:
		jwk.Kty = "EC"
		curve, err := k.Alg.Curve()
		if err != nil {
			return JSONWebKey{}, err
		}
		jwk.Crv = curve.Params().Name
		size := (curve.Params().BitSize + 7) / 8
		x := make([]byte, size)
		y := make([]byte, size)
		pk.X.FillBytes(x)
		pk.Y.FillBytes(y)
		jwk.X = &byteBuffer{data: x}
		jwk.Y = &byteBuffer{data: y}

	default:
		return JSONWebKey{}, fmt.Errorf("%w: unsupported key type %T", common.ErrInvalidArgument, pk)
	}

	return jwk, nil
}

package jwt

import (
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/common/logx"
	"github.com/axent-pl/jwtkit/sig"
)

// Shared compact-serialization sign and verify paths. The crypto itself is
// delegated to the golang-jwt signing methods; everything around it, header
// construction, kid policy and claim parsing, lives here.

// resolveKid picks the kid member for a freshly signed header. A key-level
// custom kid and a keyset-derived kid must never both be present.
func resolveKid(customKid, kid *string) (*string, error) {
	if customKid != nil && kid != nil {
		return nil, fmt.Errorf("%w: custom_kid can not be used with kid", common.ErrInvalidArgument)
	}
	if kid != nil {
		return kid, nil
	}
	return customKid, nil
}

func signAndEncode(method gojwt.SigningMethod, key any, alg sig.Alg, token *RawJWT, customKid, kid *string) (string, error) {
	if token == nil {
		return "", fmt.Errorf("%w: token can't be nil", common.ErrInvalidArgument)
	}
	headerKid, err := resolveKid(customKid, kid)
	if err != nil {
		return "", err
	}
	var typeHeader *string
	if token.HasTypeHeader() {
		typ, err := token.TypeHeader()
		if err != nil {
			return "", err
		}
		typeHeader = &typ
	}
	header, err := createHeader(alg, typeHeader, headerKid)
	if err != nil {
		return "", err
	}
	payload, err := token.JSONPayload()
	if err != nil {
		return "", err
	}
	unsigned := header + "." + base64Encode(payload)
	signature, err := method.Sign(unsigned, key)
	if err != nil {
		logx.L().Error("token signing failed", "alg", alg.String(), "error", err)
		return "", fmt.Errorf("%w: signing failed: %v", common.ErrInternal, err)
	}
	return unsigned + "." + base64Encode(signature), nil
}

// checkKidPolicy enforces the header kid rules on verify. A keyset-derived
// kid must be echoed exactly; a custom kid must match when the header carries
// one; without either, the header kid is not inspected.
func checkKidPolicy(header map[string]any, customKid, kid *string) error {
	if kid != nil && customKid != nil {
		return fmt.Errorf("%w: custom_kid can not be used with kid", common.ErrInvalidArgument)
	}
	kidInHeader := headerKid(header)
	if kid != nil {
		if kidInHeader == nil {
			return fmt.Errorf("%w: missing kid in header", common.ErrInvalidArgument)
		}
		if *kidInHeader != *kid {
			return fmt.Errorf("%w: invalid kid header", common.ErrInvalidArgument)
		}
		return nil
	}
	if customKid != nil && kidInHeader != nil && *kidInHeader != *customKid {
		return fmt.Errorf("%w: invalid kid header", common.ErrInvalidArgument)
	}
	return nil
}

func verifyAndDecode(method gojwt.SigningMethod, key any, alg sig.Alg, compact string, validator *Validator, customKid, kid *string) (*VerifiedJWT, error) {
	if validator == nil {
		return nil, fmt.Errorf("%w: validator can't be nil", common.ErrInvalidArgument)
	}
	headerB64, payloadB64, signatureB64, err := splitCompact(compact)
	if err != nil {
		return nil, err
	}
	headerJSON, err := base64Decode(headerB64)
	if err != nil {
		return nil, err
	}
	header, err := parseHeader(headerJSON)
	if err != nil {
		return nil, err
	}
	if err := validateHeader(header, alg); err != nil {
		return nil, err
	}
	if err := checkKidPolicy(header, customKid, kid); err != nil {
		return nil, err
	}
	// Characters outside the alphabet are a framing error. A segment in the
	// right alphabet that is not a canonical encoding can not carry a valid
	// signature, so it fails like any other signature mismatch.
	for i := 0; i < len(signatureB64); i++ {
		if !isURLSafeBase64Char(signatureB64[i]) {
			return nil, fmt.Errorf("%w: invalid base64url character", common.ErrInvalidArgument)
		}
	}
	signature, err := base64Decode(signatureB64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid signature", common.ErrUnauthenticated)
	}
	unsigned := headerB64 + "." + payloadB64
	if err := method.Verify(unsigned, signature, key); err != nil {
		return nil, fmt.Errorf("%w: invalid signature", common.ErrUnauthenticated)
	}
	payloadJSON, err := base64Decode(payloadB64)
	if err != nil {
		return nil, err
	}
	token, err := parseRawJWT(headerType(header), payloadJSON)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(token); err != nil {
		return nil, err
	}
	return newVerifiedJWT(token), nil
}

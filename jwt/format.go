package jwt

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/sig"
)

// Compact-serialization codec. Both directions are strict: segments must be
// unpadded base64url over the URL-safe alphabet, nothing else.

func isURLSafeBase64Char(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '-' || c == '_'
}

func base64Encode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func base64Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !isURLSafeBase64Char(s[i]) {
			return nil, fmt.Errorf("%w: invalid base64url character", common.ErrInvalidArgument)
		}
	}
	// Strict mode rejects non-canonical trailing bits, otherwise distinct
	// encodings of the same signature would be accepted.
	data, err := base64.RawURLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64url encoding", common.ErrInvalidArgument)
	}
	return data, nil
}

// KidForKeyID encodes a keyset key id as its header kid value: unpadded
// base64url of the big-endian 4-byte form, always 6 ASCII characters.
func KidForKeyID(keyID uint32) string {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], keyID)
	return base64Encode(buf[:])
}

// KeyIDFromKid is the inverse of KidForKeyID. The second return value is
// false when kid does not decode to exactly 4 bytes.
func KeyIDFromKid(kid string) (uint32, bool) {
	decoded, err := base64Decode(kid)
	if err != nil {
		return 0, false
	}
	if len(decoded) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(decoded), true
}

func createHeader(alg sig.Alg, typeHeader, kid *string) (string, error) {
	header := make(map[string]any, 3)
	header["alg"] = alg.String()
	if typeHeader != nil {
		header["typ"] = *typeHeader
	}
	if kid != nil {
		header["kid"] = *kid
	}
	encoded, err := json.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("%w: could not marshal header: %v", common.ErrInternal, err)
	}
	return base64Encode(encoded), nil
}

// parseHeader decodes the header JSON object, rejecting duplicate members.
func parseHeader(jsonHeader []byte) (map[string]any, error) {
	if err := checkDuplicateKeys(jsonHeader); err != nil {
		return nil, err
	}
	var header map[string]any
	if err := json.Unmarshal(jsonHeader, &header); err != nil {
		return nil, fmt.Errorf("%w: invalid header", common.ErrInvalidArgument)
	}
	return header, nil
}

func validateHeader(header map[string]any, alg sig.Alg) error {
	value, ok := header["alg"]
	if !ok {
		return fmt.Errorf("%w: header is missing alg", common.ErrInvalidArgument)
	}
	algString, ok := value.(string)
	if !ok {
		return fmt.Errorf("%w: alg is not a string", common.ErrInvalidArgument)
	}
	if algString != alg.String() {
		return fmt.Errorf("%w: invalid alg", common.ErrInvalidArgument)
	}
	if _, ok := header["crit"]; ok {
		return fmt.Errorf("%w: all tokens with crit headers are rejected", common.ErrInvalidArgument)
	}
	return nil
}

func headerType(header map[string]any) *string {
	value, ok := header["typ"]
	if !ok {
		return nil
	}
	typ, ok := value.(string)
	if !ok {
		return nil
	}
	return &typ
}

func headerKid(header map[string]any) *string {
	value, ok := header["kid"]
	if !ok {
		return nil
	}
	kid, ok := value.(string)
	if !ok {
		return nil
	}
	return &kid
}

// splitCompact splits a compact JWT into its three segments. Exactly two dots
// and no empty segment are accepted; charset checks happen on decode.
func splitCompact(compact string) (header, payload, signature string, _ error) {
	parts := strings.Split(compact, ".")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: only tokens in JWS compact serialization format are supported", common.ErrInvalidArgument)
	}
	if parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("%w: empty token segment", common.ErrInvalidArgument)
	}
	return parts[0], parts[1], parts[2], nil
}

// checkDuplicateKeys walks the JSON token stream and fails on repeated member
// names within any single object. encoding/json silently keeps the last one.
func checkDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var walk func() error
	walk = func() error {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: invalid JSON", common.ErrInvalidArgument)
		}
		delim, ok := tok.(json.Delim)
		if !ok {
			return nil
		}
		switch delim {
		case '{':
			seen := make(map[string]struct{})
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return fmt.Errorf("%w: invalid JSON", common.ErrInvalidArgument)
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("%w: invalid JSON", common.ErrInvalidArgument)
				}
				if _, dup := seen[key]; dup {
					return fmt.Errorf("%w: duplicate JSON member %q", common.ErrInvalidArgument, key)
				}
				seen[key] = struct{}{}
				if err := walk(); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return fmt.Errorf("%w: invalid JSON", common.ErrInvalidArgument)
			}
		case '[':
			for dec.More() {
				if err := walk(); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return fmt.Errorf("%w: invalid JSON", common.ErrInvalidArgument)
			}
		}
		return nil
	}
	return walk()
}

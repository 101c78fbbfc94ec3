package jwks

import (
	"encoding/json"
	"fmt"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/common/logx"
	"github.com/axent-pl/jwtkit/jwt"
	"github.com/axent-pl/jwtkit/keyset"
	"github.com/axent-pl/jwtkit/sig"
)

// JWKSet is an RFC 7517 key set document.
type JWKSet struct {
	Keys []sig.JSONWebKey `json:"keys"`
}

// FromVerificationKeyset exports the ENABLED entries of a verification keyset
// as a JWK set. TINK entries carry their derived kid, RAW entries carry the
// key's custom kid when one is set. Disabled entries are skipped.
func FromVerificationKeyset(ks *keyset.VerificationKeyset) (*JWKSet, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	set := &JWKSet{Keys: make([]sig.JSONWebKey, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		if entry.Status != keyset.StatusEnabled {
			continue
		}
		if entry.Key == nil {
			return nil, fmt.Errorf("%w: nil key in keyset", common.ErrInvalidArgument)
		}
		kid := ""
		switch {
		case entry.Prefix == keyset.PrefixTink:
			kid = jwt.KidForKeyID(entry.KeyID)
		case entry.Key.CustomKid != nil:
			kid = *entry.Key.CustomKid
		}
		jwk, err := entry.Key.JWK(kid)
		if err != nil {
			logx.L().Debug("could not render key as JWK", "key_id", entry.KeyID, "error", err)
			return nil, err
		}
		set.Keys = append(set.Keys, jwk)
	}
	return set, nil
}

// Marshal renders the set as JSON, suitable for serving from a jwks_uri
// endpoint.
func (s *JWKSet) Marshal() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: could not marshal JWK set", common.ErrInternal)
	}
	return data, nil
}

package keyset

import (
	"fmt"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/jwt"
)

// Signer is the keyset-level signing primitive. Only the primary key ever
// signs; the other entries exist for rotation and are used on verify.
type Signer struct {
	primitive *jwt.Signer
	kid       *string
}

// NewSigner wraps a signing keyset around its primary key.
func NewSigner(ks *SigningKeyset) (*Signer, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	meta := make([]entryMeta, 0, len(ks.Entries))
	for _, entry := range ks.Entries {
		meta = append(meta, entryMeta{keyID: entry.KeyID, prefix: entry.Prefix, status: entry.Status})
	}
	if err := checkEntries(meta, ks.PrimaryKeyID, true); err != nil {
		return nil, err
	}
	for _, entry := range ks.Entries {
		if entry.KeyID != ks.PrimaryKeyID {
			continue
		}
		primitive, err := jwt.NewSigner(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", entry.KeyID, err)
		}
		return &Signer{primitive: primitive, kid: entryKid(entry.Prefix, entry.KeyID)}, nil
	}
	return nil, fmt.Errorf("%w: no primary", common.ErrInvalidArgument)
}

// SignAndEncode signs with the primary key. TINK primaries stamp their
// derived kid into the header.
func (s *Signer) SignAndEncode(token *jwt.RawJWT) (string, error) {
	return s.primitive.SignAndEncodeWithKID(token, s.kid)
}

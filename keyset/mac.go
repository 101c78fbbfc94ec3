package keyset

import (
	"errors"
	"fmt"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/jwt"
)

// MAC is the keyset-level MAC primitive. Signing always routes to the
// primary; verification tries every enabled key.
type MAC struct {
	primary macEntry
	entries []macEntry
}

type macEntry struct {
	keyID     uint32
	prefix    Prefix
	status    Status
	kid       *string
	primitive *jwt.MAC
}

// NewMAC wraps a MAC keyset. Every entry is turned into a per-key primitive
// up front so that wrap-time errors name the offending key.
func NewMAC(ks *MACKeyset) (*MAC, error) {
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

	wrapped := &MAC{entries: make([]macEntry, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		primitive, err := jwt.NewMAC(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", entry.KeyID, err)
		}
		e := macEntry{
			keyID:     entry.KeyID,
			prefix:    entry.Prefix,
			status:    entry.Status,
			kid:       entryKid(entry.Prefix, entry.KeyID),
			primitive: primitive,
		}
		wrapped.entries = append(wrapped.entries, e)
		if entry.KeyID == ks.PrimaryKeyID {
			wrapped.primary = e
		}
	}
	return wrapped, nil
}

// ComputeMACAndEncode signs with the primary key. TINK primaries stamp their
// derived kid into the header.
func (m *MAC) ComputeMACAndEncode(token *jwt.RawJWT) (string, error) {
	return m.primary.primitive.ComputeMACAndEncodeWithKID(token, m.primary.kid)
}

// VerifyMACAndDecode tries every enabled key. MAC mismatches are swallowed;
// the most informative non-crypto failure wins over the generic outcome.
func (m *MAC) VerifyMACAndDecode(compact string, validator *jwt.Validator) (*jwt.VerifiedJWT, error) {
	var interesting error
	for _, entry := range m.entries {
		if entry.status != StatusEnabled {
			continue
		}
		verified, err := entry.primitive.VerifyMACAndDecodeWithKID(compact, validator, entry.kid)
		if err == nil {
			return verified, nil
		}
		if errors.Is(err, common.ErrUnauthenticated) {
			continue
		}
		if interesting == nil {
			interesting = err
		}
	}
	if interesting != nil {
		return nil, interesting
	}
	return nil, fmt.Errorf("%w: verification failed", common.ErrInvalidArgument)
}

package keyset

import (
	"errors"
	"fmt"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/jwt"
)

// Verifier is the keyset-level verification primitive. It tries every
// enabled public key in entry order.
type Verifier struct {
	entries []verifierEntry
}

type verifierEntry struct {
	keyID     uint32
	status    Status
	kid       *string
	primitive *jwt.Verifier
}

// NewVerifier wraps a verification keyset.
func NewVerifier(ks *VerificationKeyset) (*Verifier, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	meta := make([]entryMeta, 0, len(ks.Entries))
	for _, entry := range ks.Entries {
		meta = append(meta, entryMeta{keyID: entry.KeyID, prefix: entry.Prefix, status: entry.Status})
	}
	if err := checkEntries(meta, 0, false); err != nil {
		return nil, err
	}
	wrapped := &Verifier{entries: make([]verifierEntry, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		primitive, err := jwt.NewVerifier(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", entry.KeyID, err)
		}
		wrapped.entries = append(wrapped.entries, verifierEntry{
			keyID:     entry.KeyID,
			status:    entry.Status,
			kid:       entryKid(entry.Prefix, entry.KeyID),
			primitive: primitive,
		})
	}
	return wrapped, nil
}

// VerifyAndDecode tries every enabled key. Signature mismatches are
// swallowed; the most informative non-crypto failure wins over the generic
// outcome.
func (v *Verifier) VerifyAndDecode(compact string, validator *jwt.Validator) (*jwt.VerifiedJWT, error) {
	var interesting error
	for _, entry := range v.entries {
		if entry.status != StatusEnabled {
			continue
		}
		verified, err := entry.primitive.VerifyAndDecodeWithKID(compact, validator, entry.kid)
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

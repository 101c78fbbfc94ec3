package keyset

import (
	"fmt"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/jwt"
	"github.com/axent-pl/jwtkit/sig"
)

// Prefix is the output prefix type of a keyset entry. JWT keysets only
// operate with RAW and TINK; the legacy prefixes are named so that persisted
// keysets mentioning them fail with a precise message instead of a parse
// error.
type Prefix int

const (
	PrefixUnknown Prefix = iota
	PrefixRaw
	PrefixTink
	PrefixLegacy
	PrefixCrunchy
)

func (p Prefix) String() string {
	mapping := map[Prefix]string{
		PrefixRaw:     "RAW",
		PrefixTink:    "TINK",
		PrefixLegacy:  "LEGACY",
		PrefixCrunchy: "CRUNCHY",
	}
	if s, ok := mapping[p]; ok {
		return s
	}
	return "unknown"
}

func PrefixFromString(s string) (Prefix, error) {
	mapping := map[string]Prefix{
		"RAW":     PrefixRaw,
		"TINK":    PrefixTink,
		"LEGACY":  PrefixLegacy,
		"CRUNCHY": PrefixCrunchy,
	}
	if p, ok := mapping[s]; ok {
		return p, nil
	}
	return PrefixUnknown, fmt.Errorf("%w: unknown output prefix %q", common.ErrInvalidArgument, s)
}

// Status is the lifecycle state of a keyset entry.
type Status int

const (
	StatusUnknown Status = iota
	StatusEnabled
	StatusDisabled
)

func (s Status) String() string {
	mapping := map[Status]string{
		StatusEnabled:  "ENABLED",
		StatusDisabled: "DISABLED",
	}
	if v, ok := mapping[s]; ok {
		return v
	}
	return "unknown"
}

func StatusFromString(s string) (Status, error) {
	mapping := map[string]Status{
		"ENABLED":  StatusEnabled,
		"DISABLED": StatusDisabled,
	}
	if v, ok := mapping[s]; ok {
		return v, nil
	}
	return StatusUnknown, fmt.Errorf("%w: unknown key status %q", common.ErrInvalidArgument, s)
}

// MACEntry is one symmetric key in a MAC keyset.
type MACEntry struct {
	KeyID  uint32
	Prefix Prefix
	Status Status
	Key    *sig.MACKey
}

// SigningEntry is one private key in a signing keyset.
type SigningEntry struct {
	KeyID  uint32
	Prefix Prefix
	Status Status
	Key    *sig.PrivateKey
}

// VerificationEntry is one public key in a verification keyset.
type VerificationEntry struct {
	KeyID  uint32
	Prefix Prefix
	Status Status
	Key    *sig.PublicKey
}

// MACKeyset is an ordered set of symmetric keys with a designated primary.
type MACKeyset struct {
	PrimaryKeyID uint32
	Entries      []MACEntry
}

// SigningKeyset is an ordered set of private keys with a designated primary.
type SigningKeyset struct {
	PrimaryKeyID uint32
	Entries      []SigningEntry
}

// VerificationKeyset is an ordered set of public keys. Verification never
// privileges any entry, so there is no primary.
type VerificationKeyset struct {
	Entries []VerificationEntry
}

// Public projects the verification half of every entry, carrying over key id,
// prefix and status.
func (ks *SigningKeyset) Public() (*VerificationKeyset, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	out := &VerificationKeyset{Entries: make([]VerificationEntry, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		if entry.Key == nil {
			return nil, fmt.Errorf("%w: nil key in keyset", common.ErrInvalidArgument)
		}
		pub, err := entry.Key.Public()
		if err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, VerificationEntry{
			KeyID:  entry.KeyID,
			Prefix: entry.Prefix,
			Status: entry.Status,
			Key:    pub,
		})
	}
	return out, nil
}

type entryMeta struct {
	keyID  uint32
	prefix Prefix
	status Status
}

// checkEntries enforces the structural keyset invariants shared by every
// wrapper: non-empty, unique key ids, RAW or TINK prefixes only, known
// status. When requirePrimary is set the primary must exist and be enabled.
func checkEntries(entries []entryMeta, primaryKeyID uint32, requirePrimary bool) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: keyset has no keys", common.ErrInvalidArgument)
	}
	seen := make(map[uint32]struct{}, len(entries))
	primaryFound := false
	for _, entry := range entries {
		if _, dup := seen[entry.keyID]; dup {
			return fmt.Errorf("%w: duplicate key id %d", common.ErrInvalidArgument, entry.keyID)
		}
		seen[entry.keyID] = struct{}{}
		if entry.prefix != PrefixRaw && entry.prefix != PrefixTink {
			return fmt.Errorf("%w: all JWT keys must be either RAW or TINK", common.ErrInvalidArgument)
		}
		if entry.status != StatusEnabled && entry.status != StatusDisabled {
			return fmt.Errorf("%w: unknown key status", common.ErrInvalidArgument)
		}
		if entry.keyID == primaryKeyID {
			primaryFound = true
			if requirePrimary && entry.status != StatusEnabled {
				return fmt.Errorf("%w: no primary", common.ErrInvalidArgument)
			}
		}
	}
	if requirePrimary && !primaryFound {
		return fmt.Errorf("%w: no primary", common.ErrInvalidArgument)
	}
	return nil
}

// entryKid derives the header kid an entry emits and expects: the big-endian
// key id for TINK, nothing for RAW.
func entryKid(prefix Prefix, keyID uint32) *string {
	if prefix != PrefixTink {
		return nil
	}
	kid := jwt.KidForKeyID(keyID)
	return &kid
}

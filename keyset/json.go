package keyset

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/axent-pl/jwtkit/common"
	"github.com/axent-pl/jwtkit/sig"
)

// Persisted key type names.
const (
	TypeJwtHmacKey             = "type.googleapis.com/google.crypto.tink.JwtHmacKey"
	TypeJwtEcdsaPrivateKey     = "type.googleapis.com/google.crypto.tink.JwtEcdsaPrivateKey"
	TypeJwtEcdsaPublicKey      = "type.googleapis.com/google.crypto.tink.JwtEcdsaPublicKey"
	TypeJwtRsaSsaPkcs1Private  = "type.googleapis.com/google.crypto.tink.JwtRsaSsaPkcs1PrivateKey"
	TypeJwtRsaSsaPkcs1Public   = "type.googleapis.com/google.crypto.tink.JwtRsaSsaPkcs1PublicKey"
	TypeJwtRsaSsaPssPrivateKey = "type.googleapis.com/google.crypto.tink.JwtRsaSsaPssPrivateKey"
	TypeJwtRsaSsaPssPublicKey  = "type.googleapis.com/google.crypto.tink.JwtRsaSsaPssPublicKey"
)

// JSON keyset serialization. Key material travels as unpadded base64url:
// raw bytes for HMAC, PKCS#8 DER for private keys, PKIX DER for public keys.
// Reading is strict, a malformed keyset is rejected as a whole.

type jsonKeyset struct {
	PrimaryKeyID uint32    `json:"primary_key_id,omitempty"`
	Keys         []jsonKey `json:"keys"`
}

type jsonKey struct {
	KeyID     uint32  `json:"key_id"`
	Type      string  `json:"type"`
	Version   uint32  `json:"version"`
	Alg       string  `json:"alg"`
	Status    string  `json:"status"`
	Prefix    string  `json:"output_prefix"`
	CustomKid *string `json:"custom_kid,omitempty"`
	Material  string  `json:"material"`
}

func encodeMaterial(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeMaterial(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key material encoding", common.ErrInvalidArgument)
	}
	return data, nil
}

func privateTypeName(alg sig.Alg) (string, error) {
	switch {
	case alg.IsECDSA():
		return TypeJwtEcdsaPrivateKey, nil
	case alg.IsRSAPSS():
		return TypeJwtRsaSsaPssPrivateKey, nil
	case alg.IsRSA():
		return TypeJwtRsaSsaPkcs1Private, nil
	default:
		return "", fmt.Errorf("%w: alg %s has no private key type", common.ErrInvalidArgument, alg)
	}
}

func publicTypeName(alg sig.Alg) (string, error) {
	switch {
	case alg.IsECDSA():
		return TypeJwtEcdsaPublicKey, nil
	case alg.IsRSAPSS():
		return TypeJwtRsaSsaPssPublicKey, nil
	case alg.IsRSA():
		return TypeJwtRsaSsaPkcs1Public, nil
	default:
		return "", fmt.Errorf("%w: alg %s has no public key type", common.ErrInvalidArgument, alg)
	}
}

// MarshalMAC serializes a MAC keyset. The output contains raw key material
// and must be stored like any other secret.
func MarshalMAC(ks *MACKeyset) ([]byte, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	out := jsonKeyset{PrimaryKeyID: ks.PrimaryKeyID, Keys: make([]jsonKey, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		if entry.Key == nil {
			return nil, fmt.Errorf("%w: nil key in keyset", common.ErrInvalidArgument)
		}
		if err := entry.Key.Validate(); err != nil {
			return nil, err
		}
		out.Keys = append(out.Keys, jsonKey{
			KeyID:     entry.KeyID,
			Type:      TypeJwtHmacKey,
			Version:   entry.Key.Version,
			Alg:       entry.Key.Alg.String(),
			Status:    entry.Status.String(),
			Prefix:    entry.Prefix.String(),
			CustomKid: entry.Key.CustomKid,
			Material:  encodeMaterial(entry.Key.KeyValue),
		})
	}
	return json.Marshal(out)
}

// UnmarshalMAC parses a MAC keyset previously produced by MarshalMAC.
func UnmarshalMAC(data []byte) (*MACKeyset, error) {
	raw, err := parseJSONKeyset(data)
	if err != nil {
		return nil, err
	}
	ks := &MACKeyset{PrimaryKeyID: raw.PrimaryKeyID, Entries: make([]MACEntry, 0, len(raw.Keys))}
	for _, key := range raw.Keys {
		if key.Type != TypeJwtHmacKey {
			return nil, fmt.Errorf("%w: unexpected key type %q in MAC keyset", common.ErrInvalidArgument, key.Type)
		}
		alg, prefix, status, err := parseKeyMeta(&key)
		if err != nil {
			return nil, err
		}
		material, err := decodeMaterial(key.Material)
		if err != nil {
			return nil, err
		}
		macKey := &sig.MACKey{Version: key.Version, Alg: alg, KeyValue: material, CustomKid: key.CustomKid}
		if err := macKey.Validate(); err != nil {
			return nil, err
		}
		ks.Entries = append(ks.Entries, MACEntry{KeyID: key.KeyID, Prefix: prefix, Status: status, Key: macKey})
	}
	return ks, nil
}

// MarshalSigning serializes a signing keyset with PKCS#8 private key
// material.
func MarshalSigning(ks *SigningKeyset) ([]byte, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	out := jsonKeyset{PrimaryKeyID: ks.PrimaryKeyID, Keys: make([]jsonKey, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		if entry.Key == nil {
			return nil, fmt.Errorf("%w: nil key in keyset", common.ErrInvalidArgument)
		}
		if err := entry.Key.Validate(); err != nil {
			return nil, err
		}
		typeName, err := privateTypeName(entry.Key.Alg)
		if err != nil {
			return nil, err
		}
		der, err := x509.MarshalPKCS8PrivateKey(entry.Key.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: could not encode private key: %v", common.ErrInternal, err)
		}
		out.Keys = append(out.Keys, jsonKey{
			KeyID:     entry.KeyID,
			Type:      typeName,
			Version:   entry.Key.Version,
			Alg:       entry.Key.Alg.String(),
			Status:    entry.Status.String(),
			Prefix:    entry.Prefix.String(),
			CustomKid: entry.Key.CustomKid,
			Material:  encodeMaterial(der),
		})
	}
	return json.Marshal(out)
}

// UnmarshalSigning parses a signing keyset previously produced by
// MarshalSigning.
func UnmarshalSigning(data []byte) (*SigningKeyset, error) {
	raw, err := parseJSONKeyset(data)
	if err != nil {
		return nil, err
	}
	ks := &SigningKeyset{PrimaryKeyID: raw.PrimaryKeyID, Entries: make([]SigningEntry, 0, len(raw.Keys))}
	for _, key := range raw.Keys {
		alg, prefix, status, err := parseKeyMeta(&key)
		if err != nil {
			return nil, err
		}
		expectedType, err := privateTypeName(alg)
		if err != nil {
			return nil, err
		}
		if key.Type != expectedType {
			return nil, fmt.Errorf("%w: key type %q does not match alg %s", common.ErrInvalidArgument, key.Type, alg)
		}
		material, err := decodeMaterial(key.Material)
		if err != nil {
			return nil, err
		}
		parsed, err := x509.ParsePKCS8PrivateKey(material)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid private key material", common.ErrInvalidArgument)
		}
		switch parsed.(type) {
		case *ecdsa.PrivateKey, *rsa.PrivateKey:
		default:
			return nil, fmt.Errorf("%w: unsupported private key type %T", common.ErrInvalidArgument, parsed)
		}
		privateKey := &sig.PrivateKey{Version: key.Version, Alg: alg, Key: parsed, CustomKid: key.CustomKid}
		if err := privateKey.Validate(); err != nil {
			return nil, err
		}
		ks.Entries = append(ks.Entries, SigningEntry{KeyID: key.KeyID, Prefix: prefix, Status: status, Key: privateKey})
	}
	return ks, nil
}

// MarshalVerification serializes a verification keyset with PKIX public key
// material.
func MarshalVerification(ks *VerificationKeyset) ([]byte, error) {
	if ks == nil {
		return nil, fmt.Errorf("%w: nil keyset", common.ErrInternal)
	}
	out := jsonKeyset{Keys: make([]jsonKey, 0, len(ks.Entries))}
	for _, entry := range ks.Entries {
		if entry.Key == nil {
			return nil, fmt.Errorf("%w: nil key in keyset", common.ErrInvalidArgument)
		}
		if err := entry.Key.Validate(); err != nil {
			return nil, err
		}
		typeName, err := publicTypeName(entry.Key.Alg)
		if err != nil {
			return nil, err
		}
		der, err := x509.MarshalPKIXPublicKey(entry.Key.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: could not encode public key: %v", common.ErrInternal, err)
		}
		out.Keys = append(out.Keys, jsonKey{
			KeyID:     entry.KeyID,
			Type:      typeName,
			Version:   entry.Key.Version,
			Alg:       entry.Key.Alg.String(),
			Status:    entry.Status.String(),
			Prefix:    entry.Prefix.String(),
			CustomKid: entry.Key.CustomKid,
			Material:  encodeMaterial(der),
		})
	}
	return json.Marshal(out)
}

// UnmarshalVerification parses a verification keyset previously produced by
// MarshalVerification.
func UnmarshalVerification(data []byte) (*VerificationKeyset, error) {
	raw, err := parseJSONKeyset(data)
	if err != nil {
		return nil, err
	}
	ks := &VerificationKeyset{Entries: make([]VerificationEntry, 0, len(raw.Keys))}
	for _, key := range raw.Keys {
		alg, prefix, status, err := parseKeyMeta(&key)
		if err != nil {
			return nil, err
		}
		expectedType, err := publicTypeName(alg)
		if err != nil {
			return nil, err
		}
		if key.Type != expectedType {
			return nil, fmt.Errorf("%w: key type %q does not match alg %s", common.ErrInvalidArgument, key.Type, alg)
		}
		material, err := decodeMaterial(key.Material)
		if err != nil {
			return nil, err
		}
		parsed, err := x509.ParsePKIXPublicKey(material)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid public key material", common.ErrInvalidArgument)
		}
		switch parsed.(type) {
		case *ecdsa.PublicKey, *rsa.PublicKey:
		default:
			return nil, fmt.Errorf("%w: unsupported public key type %T", common.ErrInvalidArgument, parsed)
		}
		publicKey := &sig.PublicKey{Version: key.Version, Alg: alg, Key: parsed, CustomKid: key.CustomKid}
		if err := publicKey.Validate(); err != nil {
			return nil, err
		}
		ks.Entries = append(ks.Entries, VerificationEntry{KeyID: key.KeyID, Prefix: prefix, Status: status, Key: publicKey})
	}
	return ks, nil
}

func parseJSONKeyset(data []byte) (*jsonKeyset, error) {
	var raw jsonKeyset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid keyset JSON", common.ErrInvalidArgument)
	}
	return &raw, nil
}

func parseKeyMeta(key *jsonKey) (sig.Alg, Prefix, Status, error) {
	alg, err := sig.FromString(key.Alg)
	if err != nil {
		return sig.AlgUnknown, PrefixUnknown, StatusUnknown, fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}
	prefix, err := PrefixFromString(key.Prefix)
	if err != nil {
		return sig.AlgUnknown, PrefixUnknown, StatusUnknown, err
	}
	status, err := StatusFromString(key.Status)
	if err != nil {
		return sig.AlgUnknown, PrefixUnknown, StatusUnknown, err
	}
	return alg, prefix, status, nil
}

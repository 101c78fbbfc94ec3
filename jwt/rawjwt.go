package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/axent-pl/jwtkit/common"
	"github.com/google/uuid"
)

const (
	claimIssuer     = "iss"
	claimSubject    = "sub"
	claimAudience   = "aud"
	claimExpiration = "exp"
	claimNotBefore  = "nbf"
	claimIssuedAt   = "iat"
	claimJWTID      = "jti"
)

// 31 Dec 9999, 23:59:59 GMT
const maxTimestamp = 253402300799

func isRegisteredClaim(name string) bool {
	switch name {
	case claimIssuer, claimSubject, claimAudience, claimExpiration, claimNotBefore, claimIssuedAt, claimJWTID:
		return true
	}
	return false
}

// RawJWT is an unsigned claim set plus the optional type header. It is
// immutable once built; mutating accessors do not exist.
type RawJWT struct {
	typeHeader *string
	payload    map[string]any
}

// RawJWTOptions build a RawJWT. Exactly one of ExpiresAt and
// WithoutExpiration must be used. Audience and Audiences are alternatives.
type RawJWTOptions struct {
	TypeHeader *string
	Issuer     *string
	Subject    *string
	JWTID      *string
	// GenerateJWTID sets jti to a fresh random UUID string.
	GenerateJWTID bool
	Audience      *string
	Audiences     []string

	ExpiresAt         *time.Time
	WithoutExpiration bool
	NotBefore         *time.Time
	IssuedAt          *time.Time

	CustomClaims map[string]any
}

// NewRawJWT validates opts and freezes them into a RawJWT. Timestamps are
// truncated to whole seconds.
func NewRawJWT(opts *RawJWTOptions) (*RawJWT, error) {
	if opts == nil {
		return nil, fmt.Errorf("%w: raw JWT options must be non-nil", common.ErrInternal)
	}
	if opts.ExpiresAt == nil && !opts.WithoutExpiration {
		return nil, fmt.Errorf("%w: no expiration set, use WithoutExpiration to allow this", common.ErrInvalidArgument)
	}
	if opts.ExpiresAt != nil && opts.WithoutExpiration {
		return nil, fmt.Errorf("%w: ExpiresAt and WithoutExpiration cannot both be set", common.ErrInvalidArgument)
	}
	if opts.Audience != nil && opts.Audiences != nil {
		return nil, fmt.Errorf("%w: Audience and Audiences cannot both be set", common.ErrInvalidArgument)
	}
	if opts.JWTID != nil && opts.GenerateJWTID {
		return nil, fmt.Errorf("%w: JWTID and GenerateJWTID cannot both be set", common.ErrInvalidArgument)
	}

	payload := make(map[string]any)
	if opts.Issuer != nil {
		payload[claimIssuer] = *opts.Issuer
	}
	if opts.Subject != nil {
		payload[claimSubject] = *opts.Subject
	}
	if opts.JWTID != nil {
		payload[claimJWTID] = *opts.JWTID
	}
	if opts.GenerateJWTID {
		payload[claimJWTID] = uuid.NewString()
	}
	if opts.Audience != nil {
		payload[claimAudience] = []string{*opts.Audience}
	}
	if opts.Audiences != nil {
		if len(opts.Audiences) == 0 {
			return nil, fmt.Errorf("%w: Audiences must not be empty", common.ErrInvalidArgument)
		}
		payload[claimAudience] = append([]string(nil), opts.Audiences...)
	}
	for name, ts := range map[string]*time.Time{
		claimExpiration: opts.ExpiresAt,
		claimNotBefore:  opts.NotBefore,
		claimIssuedAt:   opts.IssuedAt,
	} {
		if ts == nil {
			continue
		}
		seconds := ts.Unix()
		if seconds < 0 || seconds > maxTimestamp {
			return nil, fmt.Errorf("%w: claim %s is out of range", common.ErrInvalidArgument, name)
		}
		payload[name] = seconds
	}
	for name, value := range opts.CustomClaims {
		if isRegisteredClaim(name) {
			return nil, fmt.Errorf("%w: claim %q is a registered name, use the dedicated option", common.ErrInvalidArgument, name)
		}
		payload[name] = value
	}
	return &RawJWT{typeHeader: opts.TypeHeader, payload: payload}, nil
}

// parseRawJWT builds a RawJWT from a decoded payload, checking the registered
// claims carry their mandated JSON types.
func parseRawJWT(typeHeader *string, jsonPayload []byte) (*RawJWT, error) {
	if err := checkDuplicateKeys(jsonPayload); err != nil {
		return nil, err
	}
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(jsonPayload))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JWT payload", common.ErrInvalidArgument)
	}

	for _, name := range []string{claimIssuer, claimSubject, claimJWTID} {
		if value, ok := payload[name]; ok {
			if _, ok := value.(string); !ok {
				return nil, fmt.Errorf("%w: claim %s is not a string", common.ErrInvalidArgument, name)
			}
		}
	}
	for _, name := range []string{claimExpiration, claimNotBefore, claimIssuedAt} {
		value, ok := payload[name]
		if !ok {
			continue
		}
		number, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: claim %s is not a number", common.ErrInvalidArgument, name)
		}
		seconds, err := number.Float64()
		if err != nil || seconds < 0 || seconds > maxTimestamp {
			return nil, fmt.Errorf("%w: claim %s is not a valid timestamp", common.ErrInvalidArgument, name)
		}
		payload[name] = int64(seconds)
	}
	if value, ok := payload[claimAudience]; ok {
		audiences, err := normalizeAudiences(value)
		if err != nil {
			return nil, err
		}
		payload[claimAudience] = audiences
	}
	return &RawJWT{typeHeader: typeHeader, payload: payload}, nil
}

// normalizeAudiences accepts a single string or a non-empty list of strings.
func normalizeAudiences(value any) ([]string, error) {
	switch aud := value.(type) {
	case string:
		return []string{aud}, nil
	case []any:
		if len(aud) == 0 {
			return nil, fmt.Errorf("%w: aud claim is present but empty", common.ErrInvalidArgument)
		}
		audiences := make([]string, 0, len(aud))
		for _, entry := range aud {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("%w: aud claim is not a list of strings", common.ErrInvalidArgument)
			}
			audiences = append(audiences, s)
		}
		return audiences, nil
	default:
		return nil, fmt.Errorf("%w: aud claim is not a list", common.ErrInvalidArgument)
	}
}

// JSONPayload serializes the claim set. A single audience is emitted as a
// plain string, per RFC 7519 §4.1.3.
func (t *RawJWT) JSONPayload() ([]byte, error) {
	out := make(map[string]any, len(t.payload))
	for name, value := range t.payload {
		out[name] = value
	}
	if audiences, ok := out[claimAudience].([]string); ok && len(audiences) == 1 {
		out[claimAudience] = audiences[0]
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("%w: could not marshal payload: %v", common.ErrInternal, err)
	}
	return encoded, nil
}

// ---------- accessors ----------

func (t *RawJWT) HasTypeHeader() bool { return t.typeHeader != nil }

func (t *RawJWT) TypeHeader() (string, error) {
	if t.typeHeader == nil {
		return "", fmt.Errorf("%w: no type header found", common.ErrInvalidArgument)
	}
	return *t.typeHeader, nil
}

func (t *RawJWT) HasIssuer() bool  { return t.hasString(claimIssuer) }
func (t *RawJWT) HasSubject() bool { return t.hasString(claimSubject) }
func (t *RawJWT) HasJWTID() bool   { return t.hasString(claimJWTID) }

func (t *RawJWT) Issuer() (string, error)  { return t.stringClaim(claimIssuer) }
func (t *RawJWT) Subject() (string, error) { return t.stringClaim(claimSubject) }
func (t *RawJWT) JWTID() (string, error)   { return t.stringClaim(claimJWTID) }

func (t *RawJWT) HasAudiences() bool {
	_, ok := t.payload[claimAudience]
	return ok
}

func (t *RawJWT) Audiences() ([]string, error) {
	value, ok := t.payload[claimAudience]
	if !ok {
		return nil, fmt.Errorf("%w: no aud claim found", common.ErrInvalidArgument)
	}
	audiences, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("%w: aud claim is not a list of strings", common.ErrInvalidArgument)
	}
	return append([]string(nil), audiences...), nil
}

func (t *RawJWT) HasExpiration() bool { return t.hasTimestamp(claimExpiration) }
func (t *RawJWT) HasNotBefore() bool  { return t.hasTimestamp(claimNotBefore) }
func (t *RawJWT) HasIssuedAt() bool   { return t.hasTimestamp(claimIssuedAt) }

func (t *RawJWT) ExpiresAt() (time.Time, error) { return t.timestampClaim(claimExpiration) }
func (t *RawJWT) NotBefore() (time.Time, error) { return t.timestampClaim(claimNotBefore) }
func (t *RawJWT) IssuedAt() (time.Time, error)  { return t.timestampClaim(claimIssuedAt) }

// CustomClaimNames lists the non-registered claim names in no defined order.
func (t *RawJWT) CustomClaimNames() []string {
	names := make([]string, 0, len(t.payload))
	for name := range t.payload {
		if !isRegisteredClaim(name) {
			names = append(names, name)
		}
	}
	return names
}

func (t *RawJWT) HasCustomClaim(name string) bool {
	if isRegisteredClaim(name) {
		return false
	}
	_, ok := t.payload[name]
	return ok
}

// CustomClaim returns the raw JSON value of a non-registered claim. Numbers
// are json.Number, objects map[string]any, arrays []any.
func (t *RawJWT) CustomClaim(name string) (any, error) {
	if isRegisteredClaim(name) {
		return nil, fmt.Errorf("%w: claim %q is a registered name, use the dedicated getter", common.ErrInvalidArgument, name)
	}
	value, ok := t.payload[name]
	if !ok {
		return nil, fmt.Errorf("%w: no claim %q found", common.ErrInvalidArgument, name)
	}
	return value, nil
}

func (t *RawJWT) BooleanClaim(name string) (bool, error) {
	value, err := t.CustomClaim(name)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: claim %q is not a boolean", common.ErrInvalidArgument, name)
	}
	return b, nil
}

func (t *RawJWT) StringClaim(name string) (string, error) {
	value, err := t.CustomClaim(name)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: claim %q is not a string", common.ErrInvalidArgument, name)
	}
	return s, nil
}

func (t *RawJWT) NumberClaim(name string) (float64, error) {
	value, err := t.CustomClaim(name)
	if err != nil {
		return 0, err
	}
	switch number := value.(type) {
	case json.Number:
		f, err := number.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: claim %q is not a number", common.ErrInvalidArgument, name)
		}
		return f, nil
	case float64:
		return number, nil
	case int:
		return float64(number), nil
	case int64:
		return float64(number), nil
	default:
		return 0, fmt.Errorf("%w: claim %q is not a number", common.ErrInvalidArgument, name)
	}
}

func (t *RawJWT) IsNullClaim(name string) bool {
	if isRegisteredClaim(name) {
		return false
	}
	value, ok := t.payload[name]
	return ok && value == nil
}

// ---------- internal helpers ----------

func (t *RawJWT) hasString(name string) bool {
	value, ok := t.payload[name]
	if !ok {
		return false
	}
	_, ok = value.(string)
	return ok
}

func (t *RawJWT) stringClaim(name string) (string, error) {
	value, ok := t.payload[name]
	if !ok {
		return "", fmt.Errorf("%w: no %s claim found", common.ErrInvalidArgument, name)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: claim %s is not a string", common.ErrInvalidArgument, name)
	}
	return s, nil
}

func (t *RawJWT) hasTimestamp(name string) bool {
	_, ok := t.payload[name]
	return ok
}

func (t *RawJWT) timestampClaim(name string) (time.Time, error) {
	value, ok := t.payload[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no %s claim found", common.ErrInvalidArgument, name)
	}
	seconds, ok := value.(int64)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: claim %s is not a timestamp", common.ErrInvalidArgument, name)
	}
	return time.Unix(seconds, 0).UTC(), nil
}

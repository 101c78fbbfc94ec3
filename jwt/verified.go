package jwt

import "time"

// VerifiedJWT is a token whose signature has been checked and whose claims
// passed a validator. It exposes the same read surface as RawJWT; the only
// way to obtain one is through a verification primitive.
type VerifiedJWT struct {
	token *RawJWT
}

func newVerifiedJWT(token *RawJWT) *VerifiedJWT {
	return &VerifiedJWT{token: token}
}

// JSONPayload renders the claims as canonical JSON.
func (v *VerifiedJWT) JSONPayload() ([]byte, error) { return v.token.JSONPayload() }

func (v *VerifiedJWT) HasTypeHeader() bool          { return v.token.HasTypeHeader() }
func (v *VerifiedJWT) TypeHeader() (string, error)  { return v.token.TypeHeader() }
func (v *VerifiedJWT) HasIssuer() bool              { return v.token.HasIssuer() }
func (v *VerifiedJWT) Issuer() (string, error)      { return v.token.Issuer() }
func (v *VerifiedJWT) HasSubject() bool             { return v.token.HasSubject() }
func (v *VerifiedJWT) Subject() (string, error)     { return v.token.Subject() }
func (v *VerifiedJWT) HasJWTID() bool               { return v.token.HasJWTID() }
func (v *VerifiedJWT) JWTID() (string, error)       { return v.token.JWTID() }
func (v *VerifiedJWT) HasAudiences() bool           { return v.token.HasAudiences() }
func (v *VerifiedJWT) Audiences() ([]string, error) { return v.token.Audiences() }

func (v *VerifiedJWT) HasExpiration() bool            { return v.token.HasExpiration() }
func (v *VerifiedJWT) ExpiresAt() (time.Time, error)  { return v.token.ExpiresAt() }
func (v *VerifiedJWT) HasNotBefore() bool             { return v.token.HasNotBefore() }
func (v *VerifiedJWT) NotBefore() (time.Time, error)  { return v.token.NotBefore() }
func (v *VerifiedJWT) HasIssuedAt() bool              { return v.token.HasIssuedAt() }
func (v *VerifiedJWT) IssuedAt() (time.Time, error)   { return v.token.IssuedAt() }

func (v *VerifiedJWT) CustomClaimNames() []string            { return v.token.CustomClaimNames() }
func (v *VerifiedJWT) HasCustomClaim(name string) bool       { return v.token.HasCustomClaim(name) }
func (v *VerifiedJWT) BooleanClaim(name string) (bool, error) {
	return v.token.BooleanClaim(name)
}
func (v *VerifiedJWT) StringClaim(name string) (string, error) {
	return v.token.StringClaim(name)
}
func (v *VerifiedJWT) NumberClaim(name string) (float64, error) {
	return v.token.NumberClaim(name)
}
func (v *VerifiedJWT) IsNullClaim(name string) bool { return v.token.IsNullClaim(name) }

package jwt

import (
	"fmt"
	"time"

	"github.com/axent-pl/jwtkit/common"
)

const maxClockSkew = 10 * time.Minute

// ValidatorOpts configures claim validation. An expectation and the matching
// ignore flag are mutually exclusive. Leaving a claim unexpected and not
// ignored means a token carrying that claim is rejected.
type ValidatorOpts struct {
	ExpectedTypeHeader *string
	ExpectedIssuer     *string
	ExpectedSubject    *string
	ExpectedAudience   *string

	IgnoreTypeHeader bool
	IgnoreIssuer     bool
	IgnoreSubject    bool
	IgnoreAudiences  bool

	AllowMissingExpiration bool
	ExpectIssuedInThePast  bool

	ClockSkew time.Duration
	FixedNow  time.Time
}

// Validator checks the claims of an already signature-verified token.
type Validator struct {
	opts ValidatorOpts
}

// NewValidator rejects contradictory option sets up front so that Validate
// never has to guess what the caller meant.
func NewValidator(opts *ValidatorOpts) (*Validator, error) {
	if opts == nil {
		return nil, fmt.Errorf("%w: ValidatorOpts can't be nil", common.ErrInvalidArgument)
	}
	if opts.ExpectedTypeHeader != nil && opts.IgnoreTypeHeader {
		return nil, fmt.Errorf("%w: ExpectedTypeHeader and IgnoreTypeHeader cannot be used together", common.ErrInvalidArgument)
	}
	if opts.ExpectedIssuer != nil && opts.IgnoreIssuer {
		return nil, fmt.Errorf("%w: ExpectedIssuer and IgnoreIssuer cannot be used together", common.ErrInvalidArgument)
	}
	if opts.ExpectedSubject != nil && opts.IgnoreSubject {
		return nil, fmt.Errorf("%w: ExpectedSubject and IgnoreSubject cannot be used together", common.ErrInvalidArgument)
	}
	if opts.ExpectedAudience != nil && opts.IgnoreAudiences {
		return nil, fmt.Errorf("%w: ExpectedAudience and IgnoreAudiences cannot be used together", common.ErrInvalidArgument)
	}
	if opts.ClockSkew < 0 {
		return nil, fmt.Errorf("%w: clock skew cannot be negative", common.ErrInvalidArgument)
	}
	if opts.ClockSkew > maxClockSkew {
		return nil, fmt.Errorf("%w: clock skew too large, max is %s", common.ErrInvalidArgument, maxClockSkew)
	}
	return &Validator{opts: *opts}, nil
}

// Validate checks the token against the configured expectations. It must only
// be called after the signature has been verified.
func (v *Validator) Validate(token *RawJWT) error {
	if token == nil {
		return fmt.Errorf("%w: token can't be nil", common.ErrInvalidArgument)
	}
	if err := v.validateTypeHeader(token); err != nil {
		return err
	}
	if err := v.validateIssuer(token); err != nil {
		return err
	}
	if err := v.validateSubject(token); err != nil {
		return err
	}
	if err := v.validateAudiences(token); err != nil {
		return err
	}
	return v.validateTimestamps(token)
}

func (v *Validator) validateTypeHeader(token *RawJWT) error {
	if v.opts.ExpectedTypeHeader != nil {
		if !token.HasTypeHeader() {
			return fmt.Errorf("%w: missing type header", common.ErrInvalidArgument)
		}
		typeHeader, err := token.TypeHeader()
		if err != nil {
			return err
		}
		if typeHeader != *v.opts.ExpectedTypeHeader {
			return fmt.Errorf("%w: wrong type header", common.ErrInvalidArgument)
		}
		return nil
	}
	if token.HasTypeHeader() && !v.opts.IgnoreTypeHeader {
		// Without an expectation, only the conventional "JWT" value passes.
		typeHeader, err := token.TypeHeader()
		if err != nil {
			return err
		}
		if typeHeader != "JWT" {
			return fmt.Errorf("%w: wrong type header", common.ErrInvalidArgument)
		}
	}
	return nil
}

func (v *Validator) validateIssuer(token *RawJWT) error {
	if v.opts.ExpectedIssuer != nil {
		if !token.HasIssuer() {
			return fmt.Errorf("%w: missing issuer", common.ErrInvalidArgument)
		}
		issuer, err := token.Issuer()
		if err != nil {
			return err
		}
		if issuer != *v.opts.ExpectedIssuer {
			return fmt.Errorf("%w: wrong issuer", common.ErrInvalidArgument)
		}
		return nil
	}
	if token.HasIssuer() && !v.opts.IgnoreIssuer {
		return fmt.Errorf("%w: token has an issuer set, but no issuer was expected", common.ErrInvalidArgument)
	}
	return nil
}

func (v *Validator) validateSubject(token *RawJWT) error {
	if v.opts.ExpectedSubject != nil {
		if !token.HasSubject() {
			return fmt.Errorf("%w: missing subject", common.ErrInvalidArgument)
		}
		subject, err := token.Subject()
		if err != nil {
			return err
		}
		if subject != *v.opts.ExpectedSubject {
			return fmt.Errorf("%w: wrong subject", common.ErrInvalidArgument)
		}
		return nil
	}
	if token.HasSubject() && !v.opts.IgnoreSubject {
		return fmt.Errorf("%w: token has a subject set, but no subject was expected", common.ErrInvalidArgument)
	}
	return nil
}

func (v *Validator) validateAudiences(token *RawJWT) error {
	if v.opts.ExpectedAudience != nil {
		if !token.HasAudiences() {
			return fmt.Errorf("%w: missing audience", common.ErrInvalidArgument)
		}
		audiences, err := token.Audiences()
		if err != nil {
			return err
		}
		for _, audience := range audiences {
			if audience == *v.opts.ExpectedAudience {
				return nil
			}
		}
		return fmt.Errorf("%w: audience not found", common.ErrInvalidArgument)
	}
	if token.HasAudiences() && !v.opts.IgnoreAudiences {
		return fmt.Errorf("%w: token has an audience set, but no audience was expected", common.ErrInvalidArgument)
	}
	return nil
}

func (v *Validator) validateTimestamps(token *RawJWT) error {
	now := v.opts.FixedNow
	if now.IsZero() {
		now = time.Now()
	}
	skew := v.opts.ClockSkew

	if token.HasExpiration() {
		expiration, err := token.ExpiresAt()
		if err != nil {
			return err
		}
		if !now.Before(expiration.Add(skew)) {
			return fmt.Errorf("%w: token has expired", common.ErrInvalidArgument)
		}
	} else if !v.opts.AllowMissingExpiration {
		return fmt.Errorf("%w: token doesn't have an expiration set", common.ErrInvalidArgument)
	}

	if token.HasNotBefore() {
		notBefore, err := token.NotBefore()
		if err != nil {
			return err
		}
		if now.Add(skew).Before(notBefore) {
			return fmt.Errorf("%w: token cannot be used yet", common.ErrInvalidArgument)
		}
	}

	if v.opts.ExpectIssuedInThePast {
		if !token.HasIssuedAt() {
			return fmt.Errorf("%w: token doesn't have an iat claim", common.ErrInvalidArgument)
		}
		issuedAt, err := token.IssuedAt()
		if err != nil {
			return err
		}
		if now.Add(skew).Before(issuedAt) {
			return fmt.Errorf("%w: token was issued in the future", common.ErrInvalidArgument)
		}
	}
	return nil
}

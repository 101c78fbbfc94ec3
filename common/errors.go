package common

import "errors"

// Error kinds. Every failure in this module wraps exactly one of these so
// callers can dispatch with errors.Is regardless of the message text.
var ErrInvalidArgument = errors.New("invalid argument")
var ErrUnauthenticated = errors.New("unauthenticated")
var ErrInternal = errors.New("internal error")
var ErrUnimplemented = errors.New("unimplemented")

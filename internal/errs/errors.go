// Package errs contains commonly shared errors
package errs

import "errors"

var (
	ErrGuildUnavailable = errors.New("guild not resolved yet")
	ErrChannelNotFound  = errors.New("could not find channel")
	ErrMemberNotFound   = errors.New("could not find member")
	ErrNarration        = errors.New("narration failed")
	ErrEmptyNarration   = errors.New("empty narration response")
)

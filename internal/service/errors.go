package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("invalid parameters")
	ErrNoteNotFound       = errors.New("note not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRenoteTargetGone   = errors.New("renote target not found")
	ErrReplyTargetGone    = errors.New("reply target not found")
	ErrNotAuthor          = errors.New("not the author of this note")
	ErrVisibilityChange   = errors.New("cannot change visibility of an existing note")
	ErrRenoteNotEditable  = errors.New("a renote cannot be edited")
	ErrUserSuspended      = errors.New("user is suspended")
	ErrPureRenoteOfRenote = errors.New("cannot renote a pure renote")
	ErrRenoteTooPrivate   = errors.New("cannot renote a private note")
	UnauthorizedError     = errors.New("unauthorized")
	UnExpectedError       = errors.New("unexpected error, try again later")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrNoteNotFound:       NotFound,
	ErrUserNotFound:       NotFound,
	ErrRenoteTargetGone:   NotFound,
	ErrReplyTargetGone:    NotFound,
	ErrNotAuthor:          Forbidden,
	ErrVisibilityChange:   BadRequest,
	ErrRenoteNotEditable:  BadRequest,
	ErrUserSuspended:      Forbidden,
	ErrPureRenoteOfRenote: BadRequest,
	ErrRenoteTooPrivate:   Forbidden,
	UnauthorizedError:     Unauthorized,
	UnExpectedError:       InternalServerError,
}

package game

import "errors"

var (
	ErrInvalidMode        = errors.New("invalid mode")
	ErrInvalidScore       = errors.New("invalid score")
	ErrUnauthenticated    = errors.New("username unavailable")
	ErrDatasetUnavailable = errors.New("not enough entries to play")
	ErrAlreadyPicked      = errors.New("already picked this round")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrSessionOver        = errors.New("session is over")
)

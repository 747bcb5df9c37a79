package model

import "errors"

var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrAuthFailed     = errors.New("authentication failed")
	ErrSignupFailed   = errors.New("user signup failed")
	ErrBadCredentials = errors.New("invalid credentials")
)

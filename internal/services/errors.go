package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveQuestion   = errors.New("no countdown is running for this question")
	ErrTestCodeExhausted  = errors.New("could not allocate a unique test code")
)

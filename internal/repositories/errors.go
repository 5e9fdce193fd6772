package repositories

import "errors"

var (
	ErrTestNotFound      = errors.New("test not found")
	ErrTestExists        = errors.New("test code already in use")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInterviewNotFound = errors.New("interview not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
)

package domain

import "errors"

var (
	ErrDetectorNotFound = errors.New("detector not found")
	ErrReadingNotFound  = errors.New("reading not found")
	ErrValidation       = errors.New("validation error")
	ErrPersistence      = errors.New("persistence failure")
)

package entity

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("invalid entity")
	ErrConfigMissing = errors.New("deployment descriptor not found")
)

package service

import "errors"

// Shared errors. The session and config packages return these so that
// transports can map them with errors.Is without importing the stores.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Package service provides business logic for the application.
package service

import "errors"

// Service errors.
var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUnauthorized       = errors.New("invalid or missing token")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidPriority    = errors.New("invalid priority")
)

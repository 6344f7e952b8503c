package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Workflow errors
var (
	ErrInvalidApplicationStatus = errors.New("invalid application status")
	ErrInvalidDocumentStatus    = errors.New("document status must be approved or rejected")
)

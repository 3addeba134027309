package model

import "errors"

var (
	// ErrNotFound is returned when a referenced category, product, button, group or code no longer exists.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the requester is not a member of the owning group.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when a create or rename collides with an existing name.
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized is returned when a non-admin attempts an admin operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidName is returned for empty names and reserved or malformed group names.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidValue is returned when a settings value cannot be parsed.
	ErrInvalidValue = errors.New("invalid value")
	// ErrSoldOut is returned when editing the sold-out sentinel of a category.
	ErrSoldOut = errors.New("category is sold out")
	// ErrBroadcastDisabled is returned when no broadcast backend is configured.
	ErrBroadcastDisabled = errors.New("broadcast is disabled")
)

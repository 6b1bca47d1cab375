package domain

import "errors"

// Sentinel errors for broad classification across layers. The API layer maps
// these to HTTP status codes.
var (
	ErrInvalidHex     = errors.New("invalid hex coordinate")
	ErrInvalidUWP     = errors.New("invalid uwp")
	ErrInvalidSector  = errors.New("invalid sector data")
	ErrWorldNotFound  = errors.New("world not found")
	ErrSectorNotFound = errors.New("sector not found")
	ErrNoRoute        = errors.New("no route")
)

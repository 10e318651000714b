package model

import "errors"

var (
	// Artist related errors
	ErrArtistNotFound    = errors.New("artist not found")
	ErrDuplicateUsername = errors.New("username already taken")

	// Credential related errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed or unsigned")

	// Artwork related errors
	ErrArtworkNotFound = errors.New("artwork not found")
	ErrImageNotFound   = errors.New("image not found")

	// Request related errors
	ErrValidation = errors.New("invalid input")

	// Filesystem failures during create/update/delete are server-side
	// resource problems, kept apart from client input errors.
	ErrStorageUnavailable = errors.New("image storage unavailable")
)

package model

import "errors"

var (
	// Session related errors
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrTokenExpired     = errors.New("token expired")

	// Catalog related errors
	ErrCategoryNotFound = errors.New("category not found")

	// Upload related errors
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrNoImages         = errors.New("no images provided")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

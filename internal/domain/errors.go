package domain

import "errors"

// Catalog errors
var (
	ErrCatalogUnavailable = errors.New("hero catalog unavailable")
)

// Build cache errors
var (
	ErrBuildNotFound = errors.New("build not found")
)

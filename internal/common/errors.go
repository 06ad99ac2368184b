// Package common defines sentinel errors shared by the repository and
// service layers of the profile client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store wiring errors.
	ErrorUnsupportedDSN = errors.New("unsupported database dsn")
)

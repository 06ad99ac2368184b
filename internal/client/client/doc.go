// Package client wires the profile CLI to its stores.
//
// InitDatabase opens the document store (SQLite file or PostgreSQL, picked by
// the DSN), applies the embedded goose migrations and returns the profile
// repository. InitBlobStore builds the S3-compatible image store from the
// loaded configuration.
package client

// Package cli provides the interactive profile command-line client.
//
// It wires configuration, the document and image stores, and the profile
// controller behind a REPL. Typical flow: load the profile, edit fields,
// attach images, submit. A second screen computes the longest run of
// consecutive numbers in a list.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

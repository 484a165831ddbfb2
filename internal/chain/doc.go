// Package chain defines the contract with the external chain-data
// collaborator and the boundary decoders for its records.
//
// Records arrive in the chain API's human-readable form: numerals are
// strings that may carry digit-group separators ("1,000"). Decoders strip
// separators and validate every field, returning *DecodeError on malformed
// input so nothing untyped leaks past this package.
package chain

// Package constants caches broker pallet constants per chain client.
//
// Constants are immutable for the lifetime of a chain client, so they are
// fetched once when a source is bound. Binding a different source discards
// whatever the previous one produced and fetches again. Fetch errors are not
// retried; rebinding is the caller's decision.
package constants

// Package gateway provides a REST client for a chain-data gateway that
// serves broker pallet state in human-readable JSON.
//
// Endpoints:
//   - GET /broker/regions        all regions storage entries
//   - GET /broker/constants      pallet constants
//   - GET /broker/configuration  sale configuration
//   - GET /broker/sale-info      latest sale initialization, null before the first sale
//
// Requests retry 5xx and 429 responses with jittered exponential backoff and
// run through a circuit breaker. Transport failures surface as
// *chain.FetchError, malformed payloads as *chain.DecodeError.
package gateway

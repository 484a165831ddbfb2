// Package model defines shared data types used across the coretime core.
//
// Conventions:
//   - Block heights: uint64
//   - Balances: Balance (planck, the chain's smallest unit)
//   - Computed prices: float64 planck
//   - Optional chain fields: pointers, nil = absent
package model

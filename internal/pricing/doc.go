// Package pricing computes coretime sale prices from block height.
//
// Two independent curves exist:
//   - CurrentPrice: whole-sale price, 2x regular decaying to regular over the
//     leadin, open lower bound at SaleStart
//   - CurrentPricePerCore: straight line from StartPrice to RegularPrice over
//     the leadin, closed lower bound at SaleStart
//
// All functions are pure. Absent sale data yields ok=false, never an error;
// an error is returned only for a misconfigured sale (zero leadin).
package pricing

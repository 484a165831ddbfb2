// Package regions implements the Region Snapshot Poller.
//
// The poller:
//   - Fetches every broker region entry immediately on Start, then every 5s
//   - Decodes entries at the boundary and replaces the snapshot wholesale
//   - Keeps the last good snapshot when a fetch or decode fails
//   - Tags each fetch with a generation; older results never overwrite newer
//   - Reports every outcome to an EventHandler for observability
package regions

package model

// Balance is an on-chain amount in planck.
type Balance uint64

// -----------------------------------------------------------------------------
// Sale Types
// -----------------------------------------------------------------------------

// SaleConfig is the broker configuration governing a sale phase.
type SaleConfig struct {
	AdvanceNotice       uint64  // Blocks before a region begins that its workload must be set
	InterludeLength     uint64  // Blocks between rotation and the start of the next sale
	LeadinLength        uint64  // Blocks over which the price decays to the regular price
	RegionLength        uint64  // Timeslices covered by one bulk region
	IdealBulkProportion string  // Perbill, passed through
	LimitCoresOffered   *uint64 // Optional cap on cores offered per sale
	RenewalBump         string  // Perbill, passed through
	ContributionTimeout uint64  // Timeslices before an unclaimed pool contribution expires
}

// SaleInfo is the record emitted when a sale is initialized.
// Any pointer field may be nil before the sale is initialized.
type SaleInfo struct {
	SaleStart      *uint64  // Block at which the sale opens
	LeadinLength   *uint64  // Leadin announced by the event (informational)
	StartPrice     *Balance // Price at SaleStart
	RegularPrice   *Balance // Price once the leadin is over
	RegionBegin    *uint64  // First timeslice of the regions sold
	RegionEnd      *uint64  // Timeslice after the last one sold
	IdealCoresSold *uint64
	CoresOffered   *uint64
}

// BrokerConstants are chain-wide broker pallet constants.
type BrokerConstants struct {
	TimeslicePeriod  uint64 // Blocks per timeslice
	MaxLeasedCores   uint64
	MaxReservedCores uint64
}

// PricePoint is one sample of a price curve.
type PricePoint struct {
	Block uint64
	Price float64
}

// -----------------------------------------------------------------------------
// Region Types
// -----------------------------------------------------------------------------

// RegionID identifies a slice of a core's capacity.
type RegionID struct {
	Core  uint32 // Core index
	Begin uint64 // First timeslice, digit separators already stripped
	Mask  string // Hex-encoded core mask, compared verbatim
}

// RegionOwner is the ownership record attached to a region.
// Fields are kept in the form the chain returned them.
type RegionOwner struct {
	End   string  // Timeslice after the region's last one
	Owner *string // Account, nil when unowned
	Paid  *string // Amount paid, nil when not a purchase
}

// Region pairs the facets of a region key with its owner record.
type Region struct {
	Detail []RegionID
	Owner  RegionOwner
}

// Snapshot is a full, immutable set of regions fetched in one poll.
type Snapshot struct {
	Regions   []Region
	FetchedAt int64 // µs since epoch
}

// Len returns the number of regions, 0 for a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Regions)
}

// Uint64 returns a pointer to v.
func Uint64(v uint64) *uint64 { return &v }

// BalanceOf returns a pointer to v.
func BalanceOf(v Balance) *Balance { return &v }

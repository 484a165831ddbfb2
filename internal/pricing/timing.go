package pricing

import (
	"math/bits"

	"github.com/poppyseed/coretime/internal/model"
)

// SaleEnds returns the block at which the sale concludes.
//
// The sale runs one region length after it opened, minus the interlude that
// precedes the next sale:
//
//	SaleStart + RegionLength*TimeslicePeriod - InterludeLength
//
// A result that does not fit in a uint64 block number is reported as absent.
func SaleEnds(sale *model.SaleInfo, cfg model.SaleConfig, consts *model.BrokerConstants) (uint64, bool) {
	if sale == nil || !present(sale.SaleStart) || consts == nil {
		return 0, false
	}
	if cfg.RegionLength == 0 || consts.TimeslicePeriod == 0 {
		return 0, false
	}

	hi, span := bits.Mul64(cfg.RegionLength, consts.TimeslicePeriod)
	if hi != 0 || span <= cfg.InterludeLength {
		return 0, false
	}
	end, carry := bits.Add64(*sale.SaleStart, span-cfg.InterludeLength, 0)
	if carry != 0 {
		return 0, false
	}
	return end, true
}

package pricing

import "github.com/poppyseed/coretime/internal/model"

// Status is the phase of a sale at a given block.
type Status int

const (
	StatusUnknown Status = iota
	StatusInterlude
	StatusLeadin
	StatusFixed
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusInterlude:
		return "interlude"
	case StatusLeadin:
		return "leadin"
	case StatusFixed:
		return "fixed"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// SaleStatus classifies block against the sale timeline.
// The leadin uses the same half-open window as CurrentPricePerCore.
func SaleStatus(block uint64, sale *model.SaleInfo, cfg model.SaleConfig, consts *model.BrokerConstants) Status {
	if sale == nil || !present(sale.SaleStart) {
		return StatusUnknown
	}
	start := *sale.SaleStart

	switch {
	case block < start:
		return StatusInterlude
	case block-start < cfg.LeadinLength:
		return StatusLeadin
	}

	if ends, ok := SaleEnds(sale, cfg, consts); ok && block > ends {
		return StatusEnded
	}
	return StatusFixed
}

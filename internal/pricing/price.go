package pricing

import "github.com/poppyseed/coretime/internal/model"

// CurrentPrice returns the whole-sale price at block.
//
// Strictly inside (SaleStart, SaleStart+LeadinLength) the price is
// RegularPrice * (2 - elapsed/LeadinLength). At SaleStart itself and
// everywhere outside the leadin it is RegularPrice.
func CurrentPrice(block uint64, sale *model.SaleInfo, cfg model.SaleConfig) (float64, bool, error) {
	if sale == nil || !present(sale.SaleStart) || !presentBalance(sale.RegularPrice) {
		return 0, false, nil
	}
	if err := checkLeadin(cfg.LeadinLength); err != nil {
		return 0, false, err
	}

	start := *sale.SaleStart
	regular := float64(*sale.RegularPrice)

	if block > start && block-start < cfg.LeadinLength {
		elapsed := float64(block - start)
		return regular * (2 - elapsed/float64(cfg.LeadinLength)), true, nil
	}
	return regular, true, nil
}

// CurrentPricePerCore returns the per-core price at block.
//
// Over [SaleStart, SaleStart+LeadinLength) the price follows the line
// y = k*block + n through (SaleStart, StartPrice) with slope
// k = (RegularPrice - StartPrice) / LeadinLength. Elsewhere it is RegularPrice.
func CurrentPricePerCore(block uint64, sale *model.SaleInfo, cfg model.SaleConfig) (float64, bool, error) {
	if sale == nil || !present(sale.SaleStart) || !presentBalance(sale.RegularPrice) || !presentBalance(sale.StartPrice) {
		return 0, false, nil
	}
	if err := checkLeadin(cfg.LeadinLength); err != nil {
		return 0, false, err
	}

	start := *sale.SaleStart
	if block >= start && block-start < cfg.LeadinLength {
		k := slope(sale, cfg)
		n := intercept(sale, k)
		return k*float64(block) + n, true, nil
	}
	return float64(*sale.RegularPrice), true, nil
}

// slope is (RegularPrice - StartPrice) / LeadinLength.
func slope(sale *model.SaleInfo, cfg model.SaleConfig) float64 {
	return (float64(*sale.RegularPrice) - float64(*sale.StartPrice)) / float64(cfg.LeadinLength)
}

// intercept is StartPrice - k*SaleStart.
func intercept(sale *model.SaleInfo, k float64) float64 {
	return float64(*sale.StartPrice) - k*float64(*sale.SaleStart)
}

// Zero counts as absent: an uninitialized sale reports zeroes.
func present(v *uint64) bool {
	return v != nil && *v != 0
}

func presentBalance(v *model.Balance) bool {
	return v != nil && *v != 0
}

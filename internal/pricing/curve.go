package pricing

import (
	"iter"
	"math/bits"

	"github.com/poppyseed/coretime/internal/model"
)

// CurveStride is the block distance between two curve samples.
const CurveStride = 1000

// Curve is a lazily evaluated per-core price series over a sale.
// It holds no iteration state; every call to All restarts from SaleStart.
type Curve struct {
	start uint64
	end   uint64
	sale  model.SaleInfo
	cfg   model.SaleConfig
}

// PriceCurve builds the per-core price curve from SaleStart to SaleEnds.
// ok is false when either bound cannot be determined.
func PriceCurve(sale *model.SaleInfo, cfg model.SaleConfig, consts *model.BrokerConstants) (*Curve, bool, error) {
	if sale == nil || !present(sale.SaleStart) {
		return nil, false, nil
	}
	end, ok := SaleEnds(sale, cfg, consts)
	if !ok {
		return nil, false, nil
	}
	if err := checkLeadin(cfg.LeadinLength); err != nil {
		return nil, false, err
	}

	return &Curve{
		start: *sale.SaleStart,
		end:   end,
		sale:  *sale,
		cfg:   cfg,
	}, true, nil
}

// Start returns the first sampled block.
func (c *Curve) Start() uint64 { return c.start }

// End returns the sale end block; it is sampled only if it lies on a stride.
func (c *Curve) End() uint64 { return c.end }

// All yields (block, price) for every stride where a price is computable.
func (c *Curve) All() iter.Seq2[uint64, float64] {
	return func(yield func(uint64, float64) bool) {
		for block := c.start; block <= c.end; {
			price, ok, err := CurrentPricePerCore(block, &c.sale, c.cfg)
			if err == nil && ok && !yield(block, price) {
				return
			}
			next, carry := bits.Add64(block, CurveStride, 0)
			if carry != 0 {
				return
			}
			block = next
		}
	}
}

// Points collects the curve into a slice.
func (c *Curve) Points() []model.PricePoint {
	points := make([]model.PricePoint, 0, (c.end-c.start)/CurveStride+1)
	for block, price := range c.All() {
		points = append(points, model.PricePoint{Block: block, Price: price})
	}
	return points
}

// Series returns the curve as parallel x/y slices for charting.
func (c *Curve) Series() (blocks []uint64, prices []float64) {
	for block, price := range c.All() {
		blocks = append(blocks, block)
		prices = append(prices, price)
	}
	return blocks, prices
}

package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poppyseed/coretime/internal/model"
)

func curveInputs() (*model.SaleInfo, model.SaleConfig, *model.BrokerConstants) {
	sale := &model.SaleInfo{
		SaleStart:    model.Uint64(10_000),
		RegularPrice: model.BalanceOf(100),
		StartPrice:   model.BalanceOf(1100),
	}
	cfg := model.SaleConfig{LeadinLength: 5_000, RegionLength: 100, InterludeLength: 500}
	consts := &model.BrokerConstants{TimeslicePeriod: 100} // ends at 19_500
	return sale, cfg, consts
}

func TestPriceCurve(t *testing.T) {
	sale, cfg, consts := curveInputs()

	curve, ok, err := PriceCurve(sale, cfg, consts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(10_000), curve.Start())
	assert.Equal(t, uint64(19_500), curve.End())

	points := curve.Points()
	// floor((19_500 - 10_000) / 1000) + 1
	require.Len(t, points, 10)

	assert.Equal(t, uint64(10_000), points[0].Block)
	assert.InDelta(t, 1100, points[0].Price, 1e-9)
	assert.Equal(t, uint64(12_000), points[2].Block)
	assert.InDelta(t, 700, points[2].Price, 1e-9)
	assert.Equal(t, uint64(19_000), points[9].Block)
	assert.InDelta(t, 100, points[9].Price, 1e-9)

	for i := 1; i < len(points); i++ {
		assert.Equal(t, points[i-1].Block+CurveStride, points[i].Block)
	}
}

func TestPriceCurveRestartable(t *testing.T) {
	sale, cfg, consts := curveInputs()

	curve, ok, err := PriceCurve(sale, cfg, consts)
	require.NoError(t, err)
	require.True(t, ok)

	first := curve.Points()
	second := curve.Points()
	assert.Equal(t, first, second)

	again, _, _ := PriceCurve(sale, cfg, consts)
	assert.Equal(t, first, again.Points())

	blocks, prices := curve.Series()
	require.Len(t, blocks, len(first))
	require.Len(t, prices, len(first))
	for i, p := range first {
		assert.Equal(t, p.Block, blocks[i])
		assert.Equal(t, p.Price, prices[i])
	}
}

func TestPriceCurveEarlyStop(t *testing.T) {
	sale, cfg, consts := curveInputs()
	curve, _, _ := PriceCurve(sale, cfg, consts)

	var n int
	for range curve.All() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestPriceCurveMissingStartPrice(t *testing.T) {
	sale, cfg, consts := curveInputs()
	sale.StartPrice = nil

	curve, ok, err := PriceCurve(sale, cfg, consts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, curve.Points())
}

func TestPriceCurveUndetermined(t *testing.T) {
	sale, cfg, consts := curveInputs()

	_, ok, err := PriceCurve(&model.SaleInfo{}, cfg, consts)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = PriceCurve(sale, cfg, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPriceCurveZeroLeadin(t *testing.T) {
	sale, cfg, consts := curveInputs()
	cfg.LeadinLength = 0

	_, ok, err := PriceCurve(sale, cfg, consts)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestPriceCurveNearMaxBlock(t *testing.T) {
	sale := &model.SaleInfo{
		SaleStart:    model.Uint64(math.MaxUint64 - 2_500),
		RegularPrice: model.BalanceOf(100),
		StartPrice:   model.BalanceOf(300),
	}
	cfg := model.SaleConfig{LeadinLength: 1_000, RegionLength: 30, InterludeLength: 1_000}
	consts := &model.BrokerConstants{TimeslicePeriod: 100}

	curve, ok, err := PriceCurve(sale, cfg, consts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64-500), curve.End())

	points := curve.Points()
	require.Len(t, points, 3)
	assert.Equal(t, uint64(math.MaxUint64-2_500), points[0].Block)
	assert.Equal(t, uint64(math.MaxUint64-500), points[2].Block)
}

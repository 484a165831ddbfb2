package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poppyseed/coretime/internal/model"
	"github.com/poppyseed/coretime/internal/pricing"
)

type stubSources struct {
	cfg       model.SaleConfig
	info      *model.SaleInfo
	consts    *model.BrokerConstants
	cfgErr    error
	infoErr   error
	constsErr error
}

func (s *stubSources) SaleConfig(ctx context.Context) (model.SaleConfig, error) {
	return s.cfg, s.cfgErr
}

func (s *stubSources) SaleInfo(ctx context.Context) (*model.SaleInfo, error) {
	return s.info, s.infoErr
}

func (s *stubSources) Wait(ctx context.Context) (*model.BrokerConstants, error) {
	return s.consts, s.constsErr
}

func newStub() *stubSources {
	return &stubSources{
		cfg: model.SaleConfig{LeadinLength: 100, RegionLength: 10, InterludeLength: 0},
		info: &model.SaleInfo{
			SaleStart:    model.Uint64(1000),
			RegularPrice: model.BalanceOf(100),
			StartPrice:   model.BalanceOf(300),
		},
		consts: &model.BrokerConstants{TimeslicePeriod: 1000},
	}
}

func sourcesOf(s *stubSources) Sources {
	return Sources{Config: s, Info: s, Constants: s}
}

func TestLoad(t *testing.T) {
	stub := newStub()

	s, err := Load(context.Background(), sourcesOf(stub))
	require.NoError(t, err)

	price, ok, err := s.Price(1050)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 150, price, 1e-9)

	perCore, ok, err := s.PricePerCore(1050)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 200, perCore, 1e-9)

	ends, ok := s.Ends()
	require.True(t, ok)
	assert.Equal(t, uint64(11_000), ends)

	curve, ok, err := s.Curve()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, curve.Points(), 11)

	assert.Equal(t, pricing.StatusLeadin, s.Status(1050))
	assert.Equal(t, pricing.StatusEnded, s.Status(11_001))
}

func TestLoadUninitializedSale(t *testing.T) {
	stub := newStub()
	stub.info = nil

	s, err := Load(context.Background(), sourcesOf(stub))
	require.NoError(t, err)

	_, ok, err := s.Price(1050)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, pricing.StatusUnknown, s.Status(1050))
}

func TestLoadErrors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		mutate  func(*stubSources)
		wantMsg string
	}{
		{name: "config", mutate: func(s *stubSources) { s.cfgErr = boom }, wantMsg: "load sale config: boom"},
		{name: "info", mutate: func(s *stubSources) { s.infoErr = boom }, wantMsg: "load sale info: boom"},
		{name: "constants", mutate: func(s *stubSources) { s.constsErr = boom }, wantMsg: "load broker constants: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub()
			tt.mutate(stub)

			_, err := Load(context.Background(), sourcesOf(stub))
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}

	_, err := Load(context.Background(), Sources{})
	assert.Error(t, err)
}

// Package sale assembles the inputs of a sale and exposes its pricing.
package sale

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/poppyseed/coretime/internal/chain"
	"github.com/poppyseed/coretime/internal/model"
	"github.com/poppyseed/coretime/internal/pricing"
)

// ConstantsProvider supplies cached broker constants.
type ConstantsProvider interface {
	Wait(ctx context.Context) (*model.BrokerConstants, error)
}

// ConstantsRetrier is implemented by providers that can refetch after a
// failed fetch, such as *constants.Cache.
type ConstantsRetrier interface {
	Retry() bool
}

// Sources are the collaborators a session is loaded from.
type Sources struct {
	Config    chain.SaleConfigSource
	Info      chain.SaleInfoSource
	Constants ConstantsProvider
}

// Session is a read-only view of one sale.
type Session struct {
	Info      *model.SaleInfo // nil before the first sale is initialized
	Config    model.SaleConfig
	Constants *model.BrokerConstants
}

// Load fetches configuration, sale info and constants concurrently.
func Load(ctx context.Context, src Sources) (*Session, error) {
	if src.Config == nil || src.Info == nil || src.Constants == nil {
		return nil, errors.New("sale sources incomplete")
	}

	var s Session
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cfg, err := src.Config.SaleConfig(gctx)
		if err != nil {
			return fmt.Errorf("load sale config: %w", err)
		}
		s.Config = cfg
		return nil
	})

	g.Go(func() error {
		info, err := src.Info.SaleInfo(gctx)
		if err != nil {
			return fmt.Errorf("load sale info: %w", err)
		}
		s.Info = info
		return nil
	})

	g.Go(func() error {
		consts, err := src.Constants.Wait(gctx)
		if err != nil {
			return fmt.Errorf("load broker constants: %w", err)
		}
		s.Constants = consts
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Price is the whole-sale price at block.
func (s *Session) Price(block uint64) (float64, bool, error) {
	return pricing.CurrentPrice(block, s.Info, s.Config)
}

// PricePerCore is the per-core price at block.
func (s *Session) PricePerCore(block uint64) (float64, bool, error) {
	return pricing.CurrentPricePerCore(block, s.Info, s.Config)
}

// Ends is the block the sale concludes at.
func (s *Session) Ends() (uint64, bool) {
	return pricing.SaleEnds(s.Info, s.Config, s.Constants)
}

// Curve is the per-core price curve over the sale.
func (s *Session) Curve() (*pricing.Curve, bool, error) {
	return pricing.PriceCurve(s.Info, s.Config, s.Constants)
}

// Status is the sale phase at block.
func (s *Session) Status(block uint64) pricing.Status {
	return pricing.SaleStatus(block, s.Info, s.Config, s.Constants)
}

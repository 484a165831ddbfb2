package indexer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/poppyseed/coretime/internal/chain"
	"github.com/poppyseed/coretime/internal/model"
)

const latestSaleQuery = `
SELECT sale_start, leadin_length, start_price, regular_price,
       region_begin, region_end, ideal_cores_sold, cores_offered
FROM sale_initialized_event
ORDER BY block_number DESC
LIMIT 1`

// Querier is the subset of *pgxpool.Pool used here.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SaleInfoReader reads the latest sale initialization from the indexer.
type SaleInfoReader struct {
	db Querier
}

// NewSaleInfoReader creates a reader over db.
func NewSaleInfoReader(db Querier) *SaleInfoReader {
	return &SaleInfoReader{db: db}
}

// SaleInfo returns the latest sale, nil if the indexer has seen none.
func (r *SaleInfoReader) SaleInfo(ctx context.Context) (*model.SaleInfo, error) {
	var (
		saleStart, leadin, regionBegin, regionEnd *int64
		idealSold, offered                        *int64
		startPrice, regularPrice                  *int64
	)

	err := r.db.QueryRow(ctx, latestSaleQuery).Scan(
		&saleStart, &leadin, &startPrice, &regularPrice,
		&regionBegin, &regionEnd, &idealSold, &offered,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &chain.FetchError{Op: "latest sale", Err: err}
	}

	info := &model.SaleInfo{}
	columns := []struct {
		name string
		src  *int64
		dst  **uint64
	}{
		{"sale_start", saleStart, &info.SaleStart},
		{"leadin_length", leadin, &info.LeadinLength},
		{"region_begin", regionBegin, &info.RegionBegin},
		{"region_end", regionEnd, &info.RegionEnd},
		{"ideal_cores_sold", idealSold, &info.IdealCoresSold},
		{"cores_offered", offered, &info.CoresOffered},
	}
	for _, col := range columns {
		v, err := unsigned(col.name, col.src)
		if err != nil {
			return nil, err
		}
		*col.dst = v
	}

	for _, p := range []struct {
		name string
		src  *int64
		dst  **model.Balance
	}{
		{"start_price", startPrice, &info.StartPrice},
		{"regular_price", regularPrice, &info.RegularPrice},
	} {
		v, err := unsigned(p.name, p.src)
		if err != nil {
			return nil, err
		}
		if v != nil {
			*p.dst = model.BalanceOf(model.Balance(*v))
		}
	}

	return info, nil
}

func unsigned(column string, v *int64) (*uint64, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 {
		return nil, &chain.DecodeError{Record: "sale_initialized_event", Field: column, Err: errors.New("negative value")}
	}
	u := uint64(*v)
	return &u, nil
}

var _ chain.SaleInfoSource = (*SaleInfoReader)(nil)

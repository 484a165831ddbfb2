package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/poppyseed/coretime/internal/chain"
)

// fakeRow scans fixed column values into *(*int64) destinations.
type fakeRow struct {
	values []*int64
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		*(d.(**int64)) = r.values[i]
	}
	return nil
}

type fakeQuerier struct {
	row fakeRow
	sql string
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	return q.row
}

func i64(v int64) *int64 { return &v }

func TestSaleInfoReader(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{values: []*int64{
		i64(1000), i64(100), i64(300), i64(100),
		i64(50), nil, nil, i64(20),
	}}}
	r := NewSaleInfoReader(q)

	info, err := r.SaleInfo(context.Background())
	if err != nil {
		t.Fatalf("SaleInfo failed: %v", err)
	}
	if q.sql != latestSaleQuery {
		t.Errorf("unexpected query %q", q.sql)
	}
	if info.SaleStart == nil || *info.SaleStart != 1000 {
		t.Errorf("SaleStart = %v", info.SaleStart)
	}
	if info.StartPrice == nil || *info.StartPrice != 300 {
		t.Errorf("StartPrice = %v", info.StartPrice)
	}
	if info.RegularPrice == nil || *info.RegularPrice != 100 {
		t.Errorf("RegularPrice = %v", info.RegularPrice)
	}
	if info.RegionEnd != nil {
		t.Errorf("RegionEnd = %v, want nil", *info.RegionEnd)
	}
	if info.CoresOffered == nil || *info.CoresOffered != 20 {
		t.Errorf("CoresOffered = %v", info.CoresOffered)
	}
}

func TestSaleInfoReader_NoRows(t *testing.T) {
	r := NewSaleInfoReader(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	info, err := r.SaleInfo(context.Background())
	if err != nil || info != nil {
		t.Errorf("SaleInfo() = %v, %v; want nil, nil", info, err)
	}
}

func TestSaleInfoReader_Errors(t *testing.T) {
	r := NewSaleInfoReader(&fakeQuerier{row: fakeRow{err: errors.New("connection reset")}})
	_, err := r.SaleInfo(context.Background())
	var fetchErr *chain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("expected *chain.FetchError, got %v", err)
	}

	r = NewSaleInfoReader(&fakeQuerier{row: fakeRow{values: []*int64{
		i64(-1), nil, nil, nil, nil, nil, nil, nil,
	}}})
	_, err = r.SaleInfo(context.Background())
	var decErr *chain.DecodeError
	if !errors.As(err, &decErr) || decErr.Field != "sale_start" {
		t.Errorf("expected sale_start decode error, got %v", err)
	}
}

package chain

import (
	"context"
	"encoding/json"

	"github.com/poppyseed/coretime/internal/model"
)

// RawRegionEntry is one undecoded entry of the broker regions storage map.
type RawRegionEntry struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// RegionSource lists every region ownership record on chain.
type RegionSource interface {
	RegionEntries(ctx context.Context) ([]RawRegionEntry, error)
}

// ConstantsSource fetches the broker pallet constants.
type ConstantsSource interface {
	BrokerConstants(ctx context.Context) (model.BrokerConstants, error)
}

// SaleConfigSource fetches the broker configuration.
type SaleConfigSource interface {
	SaleConfig(ctx context.Context) (model.SaleConfig, error)
}

// SaleInfoSource fetches the most recent sale initialization.
type SaleInfoSource interface {
	SaleInfo(ctx context.Context) (*model.SaleInfo, error)
}

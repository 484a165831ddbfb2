package gateway

import (
	"context"
	"encoding/json"

	"github.com/poppyseed/coretime/internal/chain"
	"github.com/poppyseed/coretime/internal/model"
)

const (
	pathRegions       = "/broker/regions"
	pathConstants     = "/broker/constants"
	pathConfiguration = "/broker/configuration"
	pathSaleInfo      = "/broker/sale-info"
)

// RegionsResponse is the payload of /broker/regions.
type RegionsResponse struct {
	Entries []chain.RawRegionEntry `json:"entries"`
}

// RegionEntries fetches every raw regions storage entry.
func (c *Client) RegionEntries(ctx context.Context) ([]chain.RawRegionEntry, error) {
	body, err := c.get(ctx, pathRegions)
	if err != nil {
		return nil, &chain.FetchError{Op: "regions", Err: err}
	}

	var resp RegionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &chain.DecodeError{Record: "regions response", Err: err}
	}
	return resp.Entries, nil
}

// BrokerConstants fetches the broker pallet constants.
func (c *Client) BrokerConstants(ctx context.Context) (model.BrokerConstants, error) {
	body, err := c.get(ctx, pathConstants)
	if err != nil {
		return model.BrokerConstants{}, &chain.FetchError{Op: "broker constants", Err: err}
	}
	return chain.DecodeBrokerConstants(body)
}

// SaleConfig fetches the broker configuration.
func (c *Client) SaleConfig(ctx context.Context) (model.SaleConfig, error) {
	body, err := c.get(ctx, pathConfiguration)
	if err != nil {
		return model.SaleConfig{}, &chain.FetchError{Op: "sale config", Err: err}
	}
	return chain.DecodeSaleConfig(body)
}

// SaleInfo fetches the latest sale initialization, nil before the first sale.
func (c *Client) SaleInfo(ctx context.Context) (*model.SaleInfo, error) {
	body, err := c.get(ctx, pathSaleInfo)
	if err != nil {
		return nil, &chain.FetchError{Op: "sale info", Err: err}
	}
	return chain.DecodeSaleInfo(body)
}

var (
	_ chain.RegionSource     = (*Client)(nil)
	_ chain.ConstantsSource  = (*Client)(nil)
	_ chain.SaleConfigSource = (*Client)(nil)
	_ chain.SaleInfoSource   = (*Client)(nil)
)

package chain

import (
	"encoding/json"
	"errors"

	"github.com/poppyseed/coretime/internal/model"
)

type humanConstants struct {
	TimeslicePeriod  *string `json:"timeslicePeriod"`
	MaxLeasedCores   *string `json:"maxLeasedCores"`
	MaxReservedCores *string `json:"maxReservedCores"`
}

type humanConfig struct {
	AdvanceNotice       *string `json:"advanceNotice"`
	InterludeLength     *string `json:"interludeLength"`
	LeadinLength        *string `json:"leadinLength"`
	RegionLength        *string `json:"regionLength"`
	IdealBulkProportion string  `json:"idealBulkProportion"`
	LimitCoresOffered   *string `json:"limitCoresOffered"`
	RenewalBump         string  `json:"renewalBump"`
	ContributionTimeout *string `json:"contributionTimeout"`
}

type humanSaleInfo struct {
	SaleStart      *string `json:"saleStart"`
	LeadinLength   *string `json:"leadinLength"`
	StartPrice     *string `json:"startPrice"`
	RegularPrice   *string `json:"regularPrice"`
	RegionBegin    *string `json:"regionBegin"`
	RegionEnd      *string `json:"regionEnd"`
	IdealCoresSold *string `json:"idealCoresSold"`
	CoresOffered   *string `json:"coresOffered"`
}

// numeralField pairs a field name with its raw value and destination.
type numeralField struct {
	name string
	raw  *string
	dst  *uint64
}

func decodeRequired(record string, fields []numeralField) error {
	for _, f := range fields {
		if f.raw == nil {
			return &DecodeError{Record: record, Field: f.name, Err: errors.New("missing")}
		}
		v, err := ParseNumeral(*f.raw)
		if err != nil {
			return &DecodeError{Record: record, Field: f.name, Err: err}
		}
		*f.dst = v
	}
	return nil
}

// DecodeBrokerConstants decodes the broker pallet constants.
func DecodeBrokerConstants(raw json.RawMessage) (model.BrokerConstants, error) {
	var h humanConstants
	if err := json.Unmarshal(raw, &h); err != nil {
		return model.BrokerConstants{}, &DecodeError{Record: "broker constants", Err: err}
	}

	var c model.BrokerConstants
	err := decodeRequired("broker constants", []numeralField{
		{"timeslicePeriod", h.TimeslicePeriod, &c.TimeslicePeriod},
	})
	if err != nil {
		return model.BrokerConstants{}, err
	}

	// The core-count constants are informational; older runtimes omit them.
	if v, err := parseOptionalNumeral(h.MaxLeasedCores); err == nil && v != nil {
		c.MaxLeasedCores = *v
	}
	if v, err := parseOptionalNumeral(h.MaxReservedCores); err == nil && v != nil {
		c.MaxReservedCores = *v
	}
	return c, nil
}

// DecodeSaleConfig decodes the broker configuration.
func DecodeSaleConfig(raw json.RawMessage) (model.SaleConfig, error) {
	var h humanConfig
	if err := json.Unmarshal(raw, &h); err != nil {
		return model.SaleConfig{}, &DecodeError{Record: "sale config", Err: err}
	}

	cfg := model.SaleConfig{
		IdealBulkProportion: h.IdealBulkProportion,
		RenewalBump:         h.RenewalBump,
	}
	err := decodeRequired("sale config", []numeralField{
		{"interludeLength", h.InterludeLength, &cfg.InterludeLength},
		{"leadinLength", h.LeadinLength, &cfg.LeadinLength},
		{"regionLength", h.RegionLength, &cfg.RegionLength},
	})
	if err != nil {
		return model.SaleConfig{}, err
	}

	if h.AdvanceNotice != nil {
		if cfg.AdvanceNotice, err = ParseNumeral(*h.AdvanceNotice); err != nil {
			return model.SaleConfig{}, &DecodeError{Record: "sale config", Field: "advanceNotice", Err: err}
		}
	}
	if h.ContributionTimeout != nil {
		if cfg.ContributionTimeout, err = ParseNumeral(*h.ContributionTimeout); err != nil {
			return model.SaleConfig{}, &DecodeError{Record: "sale config", Field: "contributionTimeout", Err: err}
		}
	}
	if cfg.LimitCoresOffered, err = parseOptionalNumeral(h.LimitCoresOffered); err != nil {
		return model.SaleConfig{}, &DecodeError{Record: "sale config", Field: "limitCoresOffered", Err: err}
	}
	return cfg, nil
}

// DecodeSaleInfo decodes a sale initialization record. Every field is
// optional; JSON null decodes to a nil *SaleInfo.
func DecodeSaleInfo(raw json.RawMessage) (*model.SaleInfo, error) {
	var h *humanSaleInfo
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, &DecodeError{Record: "sale info", Err: err}
	}
	if h == nil {
		return nil, nil
	}

	var info model.SaleInfo
	optional := []struct {
		name string
		raw  *string
		dst  **uint64
	}{
		{"saleStart", h.SaleStart, &info.SaleStart},
		{"leadinLength", h.LeadinLength, &info.LeadinLength},
		{"regionBegin", h.RegionBegin, &info.RegionBegin},
		{"regionEnd", h.RegionEnd, &info.RegionEnd},
		{"idealCoresSold", h.IdealCoresSold, &info.IdealCoresSold},
		{"coresOffered", h.CoresOffered, &info.CoresOffered},
	}
	for _, f := range optional {
		v, err := parseOptionalNumeral(f.raw)
		if err != nil {
			return nil, &DecodeError{Record: "sale info", Field: f.name, Err: err}
		}
		*f.dst = v
	}

	prices := []struct {
		name string
		raw  *string
		dst  **model.Balance
	}{
		{"startPrice", h.StartPrice, &info.StartPrice},
		{"regularPrice", h.RegularPrice, &info.RegularPrice},
	}
	for _, f := range prices {
		v, err := parseOptionalNumeral(f.raw)
		if err != nil {
			return nil, &DecodeError{Record: "sale info", Field: f.name, Err: err}
		}
		if v != nil {
			*f.dst = model.BalanceOf(model.Balance(*v))
		}
	}
	return &info, nil
}

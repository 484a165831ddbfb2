package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/poppyseed/coretime/internal/model"
)

type humanRegionID struct {
	Begin *string `json:"begin"`
	Core  *string `json:"core"`
	Mask  *string `json:"mask"`
}

type humanRegionRecord struct {
	End   *string `json:"end"`
	Owner *string `json:"owner"`
	Paid  *string `json:"paid"`
}

// DecodeRegionKey decodes the key of a regions storage entry. The key is the
// list of storage-map arguments, each a region id; a bare object is accepted
// as a single facet.
func DecodeRegionKey(raw json.RawMessage) ([]model.RegionID, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, &DecodeError{Record: "region key", Err: errors.New("empty key")}
	}

	var facets []humanRegionID
	if strings.HasPrefix(trimmed, "{") {
		var one humanRegionID
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, &DecodeError{Record: "region key", Err: err}
		}
		facets = []humanRegionID{one}
	} else if err := json.Unmarshal(raw, &facets); err != nil {
		return nil, &DecodeError{Record: "region key", Err: err}
	}

	if len(facets) == 0 {
		return nil, &DecodeError{Record: "region key", Err: errors.New("no region id facets")}
	}

	ids := make([]model.RegionID, 0, len(facets))
	for _, f := range facets {
		id, err := decodeRegionID(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodeRegionID(f humanRegionID) (model.RegionID, error) {
	if f.Core == nil {
		return model.RegionID{}, &DecodeError{Record: "region key", Field: "core", Err: errors.New("missing")}
	}
	if f.Begin == nil {
		return model.RegionID{}, &DecodeError{Record: "region key", Field: "begin", Err: errors.New("missing")}
	}
	if f.Mask == nil || *f.Mask == "" {
		return model.RegionID{}, &DecodeError{Record: "region key", Field: "mask", Err: errors.New("missing")}
	}

	core, err := ParseNumeral(*f.Core)
	if err != nil {
		return model.RegionID{}, &DecodeError{Record: "region key", Field: "core", Err: err}
	}
	if core > math.MaxUint32 {
		return model.RegionID{}, &DecodeError{Record: "region key", Field: "core", Err: fmt.Errorf("%d out of range", core)}
	}
	begin, err := ParseNumeral(*f.Begin)
	if err != nil {
		return model.RegionID{}, &DecodeError{Record: "region key", Field: "begin", Err: err}
	}

	return model.RegionID{
		Core:  uint32(core),
		Begin: begin,
		Mask:  *f.Mask,
	}, nil
}

// DecodeRegionValue decodes the ownership record of a regions storage entry.
// Owner and paid are nullable on chain.
func DecodeRegionValue(raw json.RawMessage) (model.RegionOwner, error) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return model.RegionOwner{}, &DecodeError{Record: "region value", Err: errors.New("not an object")}
	}

	var rec humanRegionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.RegionOwner{}, &DecodeError{Record: "region value", Err: err}
	}
	if rec.End == nil {
		return model.RegionOwner{}, &DecodeError{Record: "region value", Field: "end", Err: errors.New("missing")}
	}

	return model.RegionOwner{
		End:   *rec.End,
		Owner: rec.Owner,
		Paid:  rec.Paid,
	}, nil
}

// DecodeRegion decodes a full storage entry.
func DecodeRegion(entry RawRegionEntry) (model.Region, error) {
	detail, err := DecodeRegionKey(entry.Key)
	if err != nil {
		return model.Region{}, err
	}
	owner, err := DecodeRegionValue(entry.Value)
	if err != nil {
		return model.Region{}, err
	}
	return model.Region{Detail: detail, Owner: owner}, nil
}

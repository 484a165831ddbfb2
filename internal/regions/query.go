package regions

import "github.com/poppyseed/coretime/internal/model"

// Query returns the first region in snap with a facet on core starting at
// begin. A non-empty mask additionally requires that facet's mask to match
// exactly. Snapshot order decides between multiple matches.
func Query(snap *model.Snapshot, core uint32, begin uint64, mask string) (model.Region, bool) {
	if snap == nil {
		return model.Region{}, false
	}
	for _, region := range snap.Regions {
		if matches(region, core, begin, mask) {
			return region, true
		}
	}
	return model.Region{}, false
}

func matches(region model.Region, core uint32, begin uint64, mask string) bool {
	for _, id := range region.Detail {
		if id.Core != core || id.Begin != begin {
			continue
		}
		if mask == "" || id.Mask == mask {
			return true
		}
	}
	return false
}

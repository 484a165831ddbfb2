package chain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/poppyseed/coretime/internal/model"
)

func TestNormalizeNumeral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000", "1000"},
		{"1,000", "1000"},
		{"12,345,678", "12345678"},
		{" 4 ", "4"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeNumeral(tt.in); got != tt.want {
			t.Errorf("NormalizeNumeral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseNumeral(t *testing.T) {
	if got, err := ParseNumeral("1,000"); err != nil || got != 1000 {
		t.Errorf("ParseNumeral(1,000) = %d, %v; want 1000, nil", got, err)
	}
	for _, bad := range []string{"", "abc", "-5", "1.5"} {
		if _, err := ParseNumeral(bad); err == nil {
			t.Errorf("ParseNumeral(%q) expected error", bad)
		}
	}
}

func TestDecodeRegionKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []model.RegionID
		wantErr string
	}{
		{
			name: "array of facets",
			raw:  `[{"begin":"1,000","core":"4","mask":"0xff"}]`,
			want: []model.RegionID{{Core: 4, Begin: 1000, Mask: "0xff"}},
		},
		{
			name: "bare object",
			raw:  `{"begin":"250","core":"12","mask":"0xffffffffffffffffffff"}`,
			want: []model.RegionID{{Core: 12, Begin: 250, Mask: "0xffffffffffffffffffff"}},
		},
		{
			name: "multiple facets",
			raw:  `[{"begin":"1","core":"1","mask":"0x01"},{"begin":"2","core":"2","mask":"0x02"}]`,
			want: []model.RegionID{{Core: 1, Begin: 1, Mask: "0x01"}, {Core: 2, Begin: 2, Mask: "0x02"}},
		},
		{name: "empty", raw: ``, wantErr: "decode region key: empty key"},
		{name: "null", raw: `null`, wantErr: "decode region key: empty key"},
		{name: "empty list", raw: `[]`, wantErr: "decode region key: no region id facets"},
		{name: "missing core", raw: `[{"begin":"1","mask":"0x01"}]`, wantErr: "decode region key field core: missing"},
		{name: "missing mask", raw: `[{"begin":"1","core":"1"}]`, wantErr: "decode region key field mask: missing"},
		{name: "core out of range", raw: `[{"begin":"1","core":"4,294,967,296","mask":"0x01"}]`, wantErr: "decode region key field core: 4294967296 out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRegionKey(json.RawMessage(tt.raw))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
				}
				var decErr *DecodeError
				if !errors.As(err, &decErr) {
					t.Errorf("error %T is not *DecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("facet[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeRegionKeyBadBegin(t *testing.T) {
	_, err := DecodeRegionKey(json.RawMessage(`[{"begin":"x","core":"1","mask":"0x01"}]`))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if decErr.Field != "begin" {
		t.Errorf("Field = %q, want %q", decErr.Field, "begin")
	}
}

func TestDecodeRegionValue(t *testing.T) {
	owner, err := DecodeRegionValue(json.RawMessage(`{"end":"2,000","owner":"5GrwvaEF","paid":"1,500,000"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner.End != "2,000" {
		t.Errorf("End = %q, want %q", owner.End, "2,000")
	}
	if owner.Owner == nil || *owner.Owner != "5GrwvaEF" {
		t.Errorf("Owner = %v, want 5GrwvaEF", owner.Owner)
	}
	if owner.Paid == nil || *owner.Paid != "1,500,000" {
		t.Errorf("Paid = %v, want 1,500,000", owner.Paid)
	}

	unowned, err := DecodeRegionValue(json.RawMessage(`{"end":"2000","owner":null,"paid":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unowned.Owner != nil || unowned.Paid != nil {
		t.Errorf("expected nil owner and paid, got %+v", unowned)
	}

	for _, bad := range []string{`"str"`, `[]`, `{"owner":"x"}`, `{`} {
		if _, err := DecodeRegionValue(json.RawMessage(bad)); err == nil {
			t.Errorf("DecodeRegionValue(%s) expected error", bad)
		}
	}
}

func TestDecodeRegion(t *testing.T) {
	region, err := DecodeRegion(RawRegionEntry{
		Key:   json.RawMessage(`[{"begin":"1,000","core":"4","mask":"0xff"}]`),
		Value: json.RawMessage(`{"end":"1,100","owner":"alice","paid":null}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(region.Detail) != 1 || region.Detail[0].Begin != 1000 {
		t.Errorf("Detail = %+v", region.Detail)
	}

	_, err = DecodeRegion(RawRegionEntry{
		Key:   json.RawMessage(`[{"begin":"1","core":"4","mask":"0xff"}]`),
		Value: json.RawMessage(`null`),
	})
	if err == nil {
		t.Error("expected error for null value")
	}
}

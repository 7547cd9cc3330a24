package middleware

import (
	"reflect"
	"testing"
	"time"
)

func TestGetTopCountries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		n         int
		countries map[string]int
		want      []*CountryStat
	}{
		{name: "empty map", n: 5,
			countries: map[string]int{},
			want:      []*CountryStat{},
		},
		{name: "top 2 of 4", n: 2,
			countries: map[string]int{"GH": 40, "NG": 12, "CI": 30, "TG": 5},
			want:      []*CountryStat{{Code: "GH", Count: 40}, {Code: "CI", Count: 30}},
		},
		{name: "n=0", n: 0,
			countries: map[string]int{"GH": 40},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gs := NewGeoStats(t.Context())

			gs.mu.Lock()
			gs.countries = tt.countries
			gs.mu.Unlock()

			got := gs.GetTopCountries(tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("top countries mismatch: want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	gs := NewGeoStats(t.Context())

	// first visit counts
	gs.Record("203.0.113.9", "GH")
	// repeat visit inside the validity window does not
	gs.Record("203.0.113.9", "GH")
	// missing country code buckets under XX
	gs.Record("198.51.100.7", "")
	// empty IP is discarded entirely
	gs.Record("", "GH")

	gs.mu.RLock()
	defer gs.mu.RUnlock()

	if gs.countries["GH"] != 1 {
		t.Errorf("GH count = %d, want 1", gs.countries["GH"])
	}
	if gs.countries["XX"] != 1 {
		t.Errorf("XX count = %d, want 1", gs.countries["XX"])
	}
	if _, ok := gs.visitors[""]; ok {
		t.Error("empty IP recorded in visitors map")
	}
	if lastSeen := gs.visitors["203.0.113.9"]; time.Since(lastSeen) > time.Second {
		t.Error("visitor timestamp not refreshed")
	}
}

package types

import (
	"math"
	"testing"
)

func TestScopeMatches(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		request string
		want    bool
	}{
		{"both empty", "", "", true},
		{"global entry matches any request", "", "/api/orders", true},
		{"empty request matches any entry", "/api/orders", "", true},
		{"exact match", "/api/orders", "/api/orders", true},
		{"entry prefix of request", "/api", "/api/orders", true},
		{"entry not prefix", "/api/users", "/api/orders", false},
		{"wildcard covers", "/api/live/*", "/api/live/checkout", true},
		{"wildcard prefix boundary", "/api/live/*", "/api/liveness", false},
		{"wildcard misses", "/api/live/*", "/api/batch/run", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopeMatches(tt.entry, tt.request); got != tt.want {
				t.Errorf("ScopeMatches(%q, %q) = %v, want %v", tt.entry, tt.request, got, tt.want)
			}
		})
	}
}

func TestScopeSpecificity(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		request string
		want    float64
	}{
		{"global entry", "", "/api/orders", 0},
		{"empty request", "/api/orders", "", 0},
		{"exact match", "/api/orders", "/api/orders", 1},
		{"prefix share", "/api", "/api/orders", 4.0 / 11.0},
		{"wildcard scores on prefix", "/api/live/*", "/api/live/checkout", 10.0 / 18.0},
		{"no overlap", "/admin", "/api/orders", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScopeSpecificity(tt.entry, tt.request)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScopeSpecificity(%q, %q) = %v, want %v", tt.entry, tt.request, got, tt.want)
			}
		})
	}
}

func TestScopeSpecificity_ExactBeatsWildcard(t *testing.T) {
	request := "/api/live/checkout"
	exact := ScopeSpecificity("/api/live/checkout", request)
	wild := ScopeSpecificity("/api/live/*", request)
	if exact <= wild {
		t.Errorf("exact scope scored %v, wildcard %v; exact should rank higher", exact, wild)
	}
}

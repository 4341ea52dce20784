package pagination_test

import (
	"net/url"
	"testing"

	"github.com/adtrail/adtrail/pkg/pagination"
)

func testConfig() pagination.Config {
	return pagination.Config{PageSize: 20, MaxOffset: 1000}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.MaxOffset != 1000 {
		t.Errorf("MaxOffset = %d, want 1000", cfg.MaxOffset)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "10")
	t.Setenv("TEST_MAX_OFFSET", "500")

	env := &pagination.ConfigEnv{
		PageSize:  "TEST_PAGE_SIZE",
		MaxOffset: "TEST_MAX_OFFSET",
	}

	cfg := pagination.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.MaxOffset != 500 {
		t.Errorf("MaxOffset = %d, want 500", cfg.MaxOffset)
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := pagination.Config{PageSize: 20, MaxOffset: 1000}
	cfg.Merge(&pagination.Config{PageSize: 50})

	if cfg.PageSize != 50 {
		t.Errorf("PageSize = %d, want 50", cfg.PageSize)
	}
	if cfg.MaxOffset != 1000 {
		t.Errorf("MaxOffset = %d, want 1000", cfg.MaxOffset)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	req := pagination.PageRequest{Page: -5}
	req.Normalize()
	if req.Page != 0 {
		t.Errorf("Page = %d, want 0", req.Page)
	}
}

func TestPageRequestOffset(t *testing.T) {
	tests := []struct {
		name string
		page int
		want int
	}{
		{"first page", 0, 0},
		{"second page", 1, 20},
		{"boundary", 50, 1000},
		{"clamped", 51, 1000},
		{"deep clamped", 100000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page}
			if got := req.Offset(testConfig()); got != tt.want {
				t.Errorf("Offset(page=%d) = %d, want %d", tt.page, got, tt.want)
			}
		})
	}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantSearch *string
	}{
		{"defaults", "", 0, nil},
		{"page set", "page=3", 3, nil},
		{"unparsable page", "page=abc", 0, nil},
		{"negative page clamped", "page=-2", 0, nil},
		{"search set", "search=healthcare", 0, strPtr("healthcare")},
		{"both", "page=2&search=wahl", 2, strPtr("wahl")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			req := pagination.FromQuery(values)
			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			switch {
			case tt.wantSearch == nil && req.Search != nil:
				t.Errorf("Search = %q, want nil", *req.Search)
			case tt.wantSearch != nil && (req.Search == nil || *req.Search != *tt.wantSearch):
				t.Errorf("Search = %v, want %q", req.Search, *tt.wantSearch)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

package ads

import (
	"strings"
	"testing"

	"github.com/adtrail/adtrail/pkg/pagination"
)

func searchConfig() pagination.Config {
	return pagination.Config{PageSize: 20, MaxOffset: 1000}
}

func TestBuildSearchQueryDefaults(t *testing.T) {
	sql, args := buildSearchQuery("en-US", pagination.PageRequest{}, searchConfig())

	if !strings.Contains(sql, "a.lang = $1") {
		t.Errorf("missing lang filter: %s", sql)
	}
	if !strings.Contains(sql, "a.political_probability > $2") {
		t.Errorf("missing probability gate: %s", sql)
	}
	if !strings.Contains(sql, "a.suppressed = $3") {
		t.Errorf("missing suppression filter: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY a.created_at DESC") {
		t.Errorf("missing recency ordering: %s", sql)
	}
	if !strings.HasSuffix(sql, "LIMIT 20 OFFSET 0") {
		t.Errorf("unexpected page clause: %s", sql)
	}
	if strings.Contains(sql, "tsquery") {
		t.Errorf("text search applied without a term: %s", sql)
	}

	want := []any{"en-US", probabilityThreshold, false}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestBuildSearchQueryWithTerm(t *testing.T) {
	page := pagination.PageRequest{Search: strPtr("healthcare")}
	sql, args := buildSearchQuery("en-US", page, searchConfig())

	if !strings.Contains(sql, "to_englishtsvector(a.html) @@ to_englishtsquery($4)") {
		t.Errorf("missing text-search predicate: %s", sql)
	}
	if !strings.Contains(sql, "ORDER BY ts_rank(to_englishtsvector(a.html), to_englishtsquery($5)) DESC, a.created_at DESC") {
		t.Errorf("relevance must outrank recency: %s", sql)
	}

	if len(args) != 5 {
		t.Fatalf("args = %v, want 5 entries", args)
	}
	if args[3] != "healthcare" || args[4] != "healthcare" {
		t.Errorf("search term args = %v", args[3:])
	}
}

func TestBuildSearchQueryGerman(t *testing.T) {
	page := pagination.PageRequest{Search: strPtr("wahl")}
	sql, _ := buildSearchQuery("de-DE", page, searchConfig())

	if !strings.Contains(sql, "to_germantsvector(a.html)") || !strings.Contains(sql, "to_germantsquery($4)") {
		t.Errorf("german configuration not selected: %s", sql)
	}
	if strings.Contains(sql, "english") {
		t.Errorf("english configuration leaked into german query: %s", sql)
	}
}

func TestBuildSearchQueryOffsetClamp(t *testing.T) {
	tests := []struct {
		name string
		page int
		want string
	}{
		{"first page", 0, "OFFSET 0"},
		{"mid page", 3, "OFFSET 60"},
		{"boundary page", 50, "OFFSET 1000"},
		{"beyond boundary", 51, "OFFSET 1000"},
		{"deep page", 100000, "OFFSET 1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _ := buildSearchQuery("en-US", pagination.PageRequest{Page: tt.page}, searchConfig())
			if !strings.HasSuffix(sql, tt.want) {
				t.Errorf("page %d: %s, want suffix %q", tt.page, sql, tt.want)
			}
		})
	}
}

func TestTextSearchFunctions(t *testing.T) {
	if v, q := textSearchFunctions("de-DE"); v != "to_germantsvector" || q != "to_germantsquery" {
		t.Errorf("de-DE = %s, %s", v, q)
	}
	// Every other language uses the default configuration.
	for _, lang := range []string{"en-US", "fr-FR", ""} {
		if v, q := textSearchFunctions(lang); v != "to_englishtsvector" || q != "to_englishtsquery" {
			t.Errorf("%q = %s, %s", lang, v, q)
		}
	}
}

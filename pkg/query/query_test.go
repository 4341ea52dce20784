package query_test

import (
	"testing"

	"github.com/adtrail/adtrail/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "ads", "a").
		Project("id", "ID").
		Project("lang", "Lang").
		Project("created_at", "CreatedAt")
}

func strPtr(s string) *string { return &s }

func TestProjectionMapFrom(t *testing.T) {
	p := testProjection()
	if got := p.From(); got != "public.ads a" {
		t.Errorf("From() = %q, want %q", got, "public.ads a")
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "a" {
		t.Errorf("Alias() = %q, want %q", got, "a")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	want := "a.id, a.lang, a.created_at"
	if got := p.Columns(); got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		view string
		want string
	}{
		{"ID", "a.id"},
		{"Lang", "a.lang"},
		{"Unmapped", "Unmapped"},
	}

	for _, tt := range tests {
		if got := p.Column(tt.view); got != tt.want {
			t.Errorf("Column(%q) = %q, want %q", tt.view, got, tt.want)
		}
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Lang", "en-US").
		Build()

	want := "SELECT a.id, a.lang, a.created_at FROM public.ads a WHERE a.lang = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "en-US" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	var lang *string
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Lang", lang).
		Build()

	if sql != "SELECT a.id, a.lang, a.created_at FROM public.ads a" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderWhereGreaterThan(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereGreaterThan("CreatedAt", "2024-01-01").
		Build()

	if sql != "SELECT a.id, a.lang, a.created_at FROM public.ads a WHERE a.created_at > $1" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereContains("Lang", strPtr("en")).
		Build()

	if sql != "SELECT a.id, a.lang, a.created_at FROM public.ads a WHERE a.lang ILIKE $1" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 || args[0] != "%en%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderRawWhereNumbering(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Lang", "en-US").
		Where("to_englishtsvector(a.id) @@ to_englishtsquery($%d)", "term").
		Build()

	want := "SELECT a.id, a.lang, a.created_at FROM public.ads a" +
		" WHERE a.lang = $1 AND to_englishtsvector(a.id) @@ to_englishtsquery($2)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[1] != "term" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderOrderByExpressionNumberedAfterWhere(t *testing.T) {
	sql, args := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt", Descending: true}).
		WhereEquals("Lang", "en-US").
		OrderByExpression("ts_rank(a.id, $%d) DESC", "term").
		Build()

	want := "SELECT a.id, a.lang, a.created_at FROM public.ads a" +
		" WHERE a.lang = $1 ORDER BY ts_rank(a.id, $2) DESC, a.created_at DESC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "en-US" || args[1] != "term" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt", Descending: true}).Build()

	want := "SELECT a.id, a.lang, a.created_at FROM public.ads a ORDER BY a.created_at DESC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderOrderByFieldsOverridesDefault(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "CreatedAt", Descending: true}).
		OrderByFields([]query.SortField{{Field: "Lang"}}).
		Build()

	if sql != "SELECT a.id, a.lang, a.created_at FROM public.ads a ORDER BY a.lang ASC" {
		t.Errorf("sql = %q", sql)
	}
}

func TestBuilderBuildLimit(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection()).
		WhereEquals("Lang", "en-US").
		BuildLimit(20, 40)

	want := "SELECT a.id, a.lang, a.created_at FROM public.ads a WHERE a.lang = $1 LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Lang", "en-US").
		BuildCount()

	if sql != "SELECT COUNT(*) FROM public.ads a WHERE a.lang = $1" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", "ad-1")

	if sql != "SELECT a.id, a.lang, a.created_at FROM public.ads a WHERE a.id = $1" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 || args[0] != "ad-1" {
		t.Errorf("args = %v", args)
	}
}

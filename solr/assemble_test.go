package solr

import (
	"testing"

	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

func mustAssemble(t *testing.T, req query.Request) map[string]string {
	t.Helper()
	params, err := Assemble(req, StandardProfile(), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return params
}

func TestAssembleEmptyRequest(t *testing.T) {
	params := mustAssemble(t, query.Request{})
	if params["q"] != MatchAll {
		t.Fatalf("q = %q", params["q"])
	}
	if params["rows"] != "1000000" {
		t.Fatalf("rows = %q", params["rows"])
	}
	if params["wt"] != "json" {
		t.Fatalf("wt = %q", params["wt"])
	}
	if _, ok := params["start"]; ok {
		t.Fatal("start set without a page")
	}
	if _, ok := params["sort"]; ok {
		t.Fatal("sort set without an order")
	}
}

func TestAssemblePagination(t *testing.T) {
	params := mustAssemble(t, query.Request{Limit: 10, Page: 3})
	if params["rows"] != "10" {
		t.Fatalf("rows = %q", params["rows"])
	}
	if params["start"] != "20" {
		t.Fatalf("start = %q", params["start"])
	}
}

func TestAssembleSort(t *testing.T) {
	params := mustAssemble(t, query.Request{Order: []query.Order{
		{Attribute: "year", Direction: query.Desc},
		{Attribute: "title"},
	}})
	if params["sort"] != "year desc,title asc" {
		t.Fatalf("sort = %q", params["sort"])
	}
}

func TestAssembleGrouping(t *testing.T) {
	params := mustAssemble(t, query.Request{
		Limit:    5,
		LimitPer: "seriesId",
		Order:    []query.Order{{Attribute: "year"}},
	})
	if params["group"] != "true" {
		t.Fatalf("group = %q", params["group"])
	}
	if params["group.field"] != "seriesId" {
		t.Fatalf("group.field = %q", params["group.field"])
	}
	if params["group.limit"] != "5" {
		t.Fatalf("group.limit = %q", params["group.limit"])
	}
	if params["group.format"] != "simple" || params["group.main"] != "true" {
		t.Fatalf("group shape params wrong: %v", params)
	}
	if params["rows"] != "1000000" {
		t.Fatalf("rows = %q", params["rows"])
	}
	if _, ok := params["sort"]; ok {
		t.Fatal("sort must not be forwarded when grouping")
	}
}

func TestAssembleAttributeList(t *testing.T) {
	params := mustAssemble(t, query.Request{Attributes: []string{"id", "title"}})
	if params["fl"] != "id,title" {
		t.Fatalf("fl = %q", params["fl"])
	}
}

func TestAssembleSearchFieldScoped(t *testing.T) {
	params, err := Assemble(query.Request{Search: "title:Foo Bar"}, StandardProfile(), []string{"title"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if params["q"] != `(title:"Foo Bar")` {
		t.Fatalf("q = %q", params["q"])
	}
}

func TestAssembleSearchUnscopedIsEscaped(t *testing.T) {
	params, err := Assemble(query.Request{Search: "foo:bar"}, StandardProfile(), []string{"title"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if params["q"] != `foo\:bar` {
		t.Fatalf("q = %q", params["q"])
	}
}

func TestAssembleRequestFieldsOverrideServerFields(t *testing.T) {
	req := query.Request{Search: "name:x", SearchFields: []string{"name"}}
	params, err := Assemble(req, StandardProfile(), []string{"title"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if params["q"] != `(name:"x")` {
		t.Fatalf("q = %q", params["q"])
	}
}

func TestAssembleFragmentsJoinWithAnd(t *testing.T) {
	req := query.Request{
		Search:   "robot",
		Filter:   query.Filter{{query.Where("type", query.Equal, "movie")}},
		RawQuery: "year:[1990   TO\t2000]",
	}
	params := mustAssemble(t, req)
	want := "robot AND (type:movie) AND year:[1990 TO 2000]"
	if params["q"] != want {
		t.Fatalf("q = %q, want %q", params["q"], want)
	}
}

func TestAssembleCompileErrorPropagates(t *testing.T) {
	req := query.Request{Filter: query.Filter{{query.Where("x", query.Less, 1)}}}
	if _, err := Assemble(req, LegacyProfile(), nil); err == nil {
		t.Fatal("expected unsupported operator error")
	}
}

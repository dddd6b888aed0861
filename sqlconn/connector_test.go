package sqlconn

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

func openTestConnector(t *testing.T) *Connector {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	stmts := []string{
		`CREATE TABLE docs (id INTEGER PRIMARY KEY, title TEXT, year INTEGER, series_id INTEGER)`,
		`INSERT INTO docs (id, title, year, series_id) VALUES
			(1, 'Metropolis', 1927, 10),
			(2, 'Blade Runner', 1982, 10),
			(3, 'Blade Runner 2049', 2017, 10),
			(4, 'Alien', 1979, 20),
			(5, 'Aliens', 1986, 20),
			(6, 'Solaris', 1972, 30)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close seed db: %v", err)
	}

	conn, err := Open(context.Background(), Options{
		Server:       "testdb",
		Engine:       "sqlite",
		DSN:          dsn,
		Table:        "docs",
		SearchFields: []string{"title"},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSearchAll(t *testing.T) {
	conn := openTestConnector(t)
	res, err := conn.Search(context.Background(), query.Request{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalCount != 6 || len(res.Docs) != 6 {
		t.Fatalf("total = %d, docs = %d", res.TotalCount, len(res.Docs))
	}
}

func TestSearchFilterRange(t *testing.T) {
	conn := openTestConnector(t)
	res, err := conn.Search(context.Background(), query.Request{
		Filter: query.Filter{{
			query.Where("year", query.Greater, 1980),
			query.Where("year", query.LessOrEqual, 1990),
		}},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalCount != 2 {
		t.Fatalf("total = %d", res.TotalCount)
	}
	for _, d := range res.Docs {
		y := d["year"].(int64)
		if y <= 1980 || y > 1990 {
			t.Fatalf("year %d outside bounds", y)
		}
	}
}

func TestSearchOrderLimitPage(t *testing.T) {
	conn := openTestConnector(t)
	res, err := conn.Search(context.Background(), query.Request{
		Attributes: []string{"id", "year"},
		Order:      []query.Order{{Attribute: "year", Direction: query.Desc}},
		Limit:      2,
		Page:       2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalCount != 6 {
		t.Fatalf("total = %d", res.TotalCount)
	}
	if len(res.Docs) != 2 {
		t.Fatalf("docs = %d", len(res.Docs))
	}
	// Page 2 of years sorted descending: 1982, 1979.
	if res.Docs[0]["year"].(int64) != 1982 || res.Docs[1]["year"].(int64) != 1979 {
		t.Fatalf("docs = %v", res.Docs)
	}
	if _, ok := res.Docs[0]["title"]; ok {
		t.Fatal("attribute projection not applied")
	}
}

func TestSearchLimitPerGroup(t *testing.T) {
	conn := openTestConnector(t)
	res, err := conn.Search(context.Background(), query.Request{
		Limit:    1,
		LimitPer: "series_id",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Docs) != 3 {
		t.Fatalf("expected one doc per series, got %d", len(res.Docs))
	}
	seen := map[int64]bool{}
	for _, d := range res.Docs {
		sid := d["series_id"].(int64)
		if seen[sid] {
			t.Fatalf("series %d appears twice", sid)
		}
		seen[sid] = true
		if _, ok := d[rnCol]; ok {
			t.Fatal("row-number column leaked into result doc")
		}
	}
	// Total count still reflects the unfolded match set.
	if res.TotalCount != 6 {
		t.Fatalf("total = %d", res.TotalCount)
	}
}

func TestSearchFreeText(t *testing.T) {
	conn := openTestConnector(t)
	res, err := conn.Search(context.Background(), query.Request{Search: "blade"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalCount != 2 {
		t.Fatalf("total = %d", res.TotalCount)
	}
}

func TestSearchCombinesSearchAndFilter(t *testing.T) {
	conn := openTestConnector(t)
	res, err := conn.Search(context.Background(), query.Request{
		Search: "alien",
		Filter: query.Filter{{query.Where("year", query.Less, 1980)}},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalCount != 1 {
		t.Fatalf("total = %d", res.TotalCount)
	}
	if res.Docs[0]["title"] != "Alien" {
		t.Fatalf("docs = %v", res.Docs)
	}
}

func TestSearchRejectsRawQuery(t *testing.T) {
	conn := openTestConnector(t)
	_, err := conn.Search(context.Background(), query.Request{RawQuery: "year:[* TO 2000]"})
	if qberrors.CodeOf(err) != qberrors.ErrBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(context.Background(), Options{Engine: "oracle", DSN: "x"})
	if qberrors.CodeOf(err) != qberrors.ErrConfig {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestCapabilitiesReflectConfig(t *testing.T) {
	conn := openTestConnector(t)
	caps := conn.Capabilities()
	if !caps.FullText || !caps.CompositeKeys || !caps.Grouping {
		t.Fatalf("capabilities = %+v", caps)
	}
	if !caps.Operators.Supports(query.Range) {
		t.Fatal("range operator missing")
	}
}

package solr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	qberrors "github.com/querybridge/querybridge/pkg/querybridge/errors"
	"github.com/querybridge/querybridge/pkg/querybridge/query"
)

func newTestConnector(t *testing.T, handler http.Handler) (*Connector, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	conn, err := New(Options{
		Server:     "test",
		URLs:       []string{srv.URL},
		Collection: "library",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return conn, srv
}

func TestSearchSendsFormEncodedSelect(t *testing.T) {
	var gotPath string
	var gotForm url.Values
	conn, _ := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing request id header")
		}
		w.Write([]byte(`{"response":{"numFound":2,"docs":[{"id":1},{"id":2}]}}`))
	}))

	res, err := conn.Search(context.Background(), query.Request{
		Filter: query.Filter{{query.Where("type", query.Equal, "movie")}},
		Limit:  10,
		Page:   3,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/library/select" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotForm.Get("q") != "(type:movie)" {
		t.Fatalf("q = %q", gotForm.Get("q"))
	}
	if gotForm.Get("rows") != "10" || gotForm.Get("start") != "20" {
		t.Fatalf("pagination params wrong: %v", gotForm)
	}
	if gotForm.Get("wt") != "json" {
		t.Fatalf("wt = %q", gotForm.Get("wt"))
	}
	if res.TotalCount != 2 || len(res.Docs) != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestSearchRequestCollectionOverridesDefault(t *testing.T) {
	var gotPath string
	conn, _ := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"response":{"numFound":0,"docs":[]}}`))
	}))
	if _, err := conn.Search(context.Background(), query.Request{Collection: "archive"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotPath != "/archive/select" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestSearchWithoutCollection(t *testing.T) {
	conn, err := New(Options{Server: "test", URLs: []string{"http://localhost:1"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = conn.Search(context.Background(), query.Request{})
	if qberrors.CodeOf(err) != qberrors.ErrBadRequest {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	conn, _ := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "undefined field bogus", http.StatusBadRequest)
	}))
	_, err := conn.Search(context.Background(), query.Request{})
	if qberrors.CodeOf(err) != qberrors.ErrTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestSearchMalformedReply(t *testing.T) {
	conn, _ := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	_, err := conn.Search(context.Background(), query.Request{})
	if qberrors.CodeOf(err) != qberrors.ErrDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	var gotPath string
	conn, _ := newTestConnector(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"OK"}`))
	}))
	if err := conn.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if gotPath != "/admin/ping" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestCapabilitiesFollowProfile(t *testing.T) {
	conn, err := New(Options{Server: "test", URLs: []string{"http://localhost:1"}, Profile: LegacyProfile()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	caps := conn.Capabilities()
	if caps.Operators.Supports(query.Less) {
		t.Fatal("legacy profile must not support exclusive less")
	}
	if !caps.Operators.Supports(query.Range) || !caps.Grouping || !caps.RawQuery {
		t.Fatalf("capabilities = %+v", caps)
	}
}

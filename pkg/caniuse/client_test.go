package caniuse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
)

const gridPayload = `{
	"title": "CSS Grid Layout",
	"description": "Method of using a <a href=\"https://www.w3.org/TR/css-grid-1/\">grid</a> concept to lay out content.",
	"links": [{"url": "https://gridbyexample.com", "title": "Examples"}],
	"stats": {
		"chrome": {"56": "a x", "57": "y"},
		"firefox": {"52": "y"}
	}
}`

func newTestServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		switch r.URL.Path {
		case "/css-grid.json":
			w.Write([]byte(gridPayload))
		case "/empty.json":
			// 200 with nothing in it
		case "/shapeless.json":
			w.Write([]byte(`{"title": "no stats here"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetchAndParse(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(WithBaseURL(srv.URL))

	f, err := c.Feature(context.Background(), "css-grid")
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	if f.Title != "CSS Grid Layout" {
		t.Fatalf("unexpected title %q", f.Title)
	}
	if f.Description != "Method of using a grid concept to lay out content." {
		t.Fatalf("description not flattened: %q", f.Description)
	}
	if f.Matrix["chrome"]["57"] != "y" || f.Matrix["chrome"]["56"] != "a x" {
		t.Fatalf("matrix not parsed: %v", f.Matrix)
	}
	if len(f.Links) != 2 {
		t.Fatalf("expected payload link plus description anchor, got %v", f.Links)
	}
}

func TestClientMemoryCache(t *testing.T) {
	hits := 0
	srv := newTestServer(t, &hits)
	c := NewClient(WithBaseURL(srv.URL))

	ctx := context.Background()
	if _, err := c.Feature(ctx, "css-grid"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := c.Feature(ctx, "css-grid"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected 1 HTTP hit, got %d", hits)
	}
}

func TestClientErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(WithBaseURL(srv.URL))
	ctx := context.Background()

	if _, err := c.Feature(ctx, "no-such-feature"); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := c.Feature(ctx, "empty"); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := c.Feature(ctx, "shapeless"); err == nil {
		t.Fatal("expected error for payload without stats")
	}
}

func TestClientSQLiteCacheRoundTrip(t *testing.T) {
	hits := 0
	srv := newTestServer(t, &hits)

	dbPath := filepath.Join(t.TempDir(), "cache.sqlite")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	c1 := NewClient(WithBaseURL(srv.URL), WithDB(db))
	if _, err := c1.Feature(ctx, "css-grid"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	// A fresh client (empty memory cache) sharing the DB should not refetch.
	c2 := NewClient(WithBaseURL(srv.URL), WithDB(db))
	f, err := c2.Feature(ctx, "css-grid")
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if f.Matrix["firefox"]["52"] != "y" {
		t.Fatalf("cached payload not parsed: %v", f.Matrix)
	}
	if hits != 1 {
		t.Fatalf("expected 1 HTTP hit with warm sqlite cache, got %d", hits)
	}
}

func TestDBStaleRowIgnored(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.sqlite")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Put(ctx, "flexbox", `{"stats":{}}`); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, ok, _ := db.Get(ctx, "flexbox", time.Hour); !ok {
		t.Fatal("expected fresh row to be served")
	}
	if _, ok, _ := db.Get(ctx, "flexbox", -time.Second); ok {
		t.Fatal("expected stale row to be ignored")
	}
}

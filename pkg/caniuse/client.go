// Package caniuse fetches per-feature browser support matrices from the raw
// caniuse dataset and resolves support codes for browser/version pairs out
// of them, degrading gracefully through fallback and closest-version
// heuristics when exact data is missing.
package caniuse

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/canscope/canscope/internal/utils"
	"github.com/canscope/canscope/pkg/htmlutil"
	"github.com/canscope/canscope/pkg/wfetch"
)

// DefaultBaseURL serves one JSON document per feature id.
const DefaultBaseURL = "https://raw.githubusercontent.com/Fyrd/caniuse/main/features-json"

// DefaultTTL bounds how long a fetched feature is reused without re-fetching.
const DefaultTTL = time.Hour

// Link is a reference document attached to a feature.
type Link struct {
	URL   string
	Title string
}

// Feature is one parsed support-data record.
type Feature struct {
	ID          string
	Title       string
	Description string
	Links       []Link
	Matrix      SupportMatrix
}

// Client fetches features with a memory cache in front and an optional
// sqlite cache behind.
type Client struct {
	baseURL string
	ttl     time.Duration
	cache   *Cache
	db      *DB
	http    *retryablehttp.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different data endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithTTL sets the freshness bound for both cache layers.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithDB attaches a persistent payload cache.
func WithDB(db *DB) Option {
	return func(c *Client) { c.db = db }
}

// WithHTTPClient swaps the HTTP client (used in tests).
func WithHTTPClient(hc *retryablehttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = NewCache(c.ttl)
	return c
}

// Feature returns the parsed support record for a feature id, consulting the
// memory cache, then the sqlite cache, then the network. A non-success
// response or an empty/shapeless payload is an error; the resolver layer
// converts those into error decisions.
func (c *Client) Feature(ctx context.Context, id string) (*Feature, error) {
	if f, ok := c.cache.Get(id); ok {
		return f, nil
	}

	if c.db != nil {
		payload, ok, err := c.db.Get(ctx, id, c.ttl)
		if err != nil {
			utils.Log.Warnf("Feature cache read failed for %s: %v", id, err)
		} else if ok {
			f, err := parseFeature(id, payload)
			if err == nil {
				c.cache.Put(id, f)
				return f, nil
			}
			utils.Log.Warnf("Discarding bad cached payload for %s: %v", id, err)
		}
	}

	res, err := wfetch.SendRequest(ctx, &wfetch.Req{URL: c.baseURL + "/" + id + ".json"}, c.http)
	if err != nil {
		return nil, fmt.Errorf("fetching support data for %s: %w", id, err)
	}
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("fetching support data for %s: status %d", id, res.StatusCode)
	}
	if res.BodyString == "" {
		return nil, fmt.Errorf("fetching support data for %s: empty payload", id)
	}

	f, err := parseFeature(id, res.BodyString)
	if err != nil {
		return nil, err
	}

	if c.db != nil {
		if err := c.db.Put(ctx, id, res.BodyString); err != nil {
			utils.Log.Warnf("Feature cache write failed for %s: %v", id, err)
		}
	}
	c.cache.Put(id, f)
	return f, nil
}

func parseFeature(id, payload string) (*Feature, error) {
	stats := gjson.Get(payload, "stats")
	if !stats.Exists() || !stats.IsObject() {
		return nil, fmt.Errorf("support data for %s has no stats matrix", id)
	}

	matrix := SupportMatrix{}
	stats.ForEach(func(browser, versions gjson.Result) bool {
		m := map[string]string{}
		versions.ForEach(func(version, code gjson.Result) bool {
			m[version.String()] = code.String()
			return true
		})
		matrix[browser.String()] = m
		return true
	})

	description := gjson.Get(payload, "description").String()

	f := &Feature{
		ID:          id,
		Title:       gjson.Get(payload, "title").String(),
		Description: htmlutil.Flatten(description),
		Matrix:      matrix,
	}

	for _, link := range gjson.Get(payload, "links").Array() {
		f.Links = append(f.Links, Link{
			URL:   link.Get("url").String(),
			Title: link.Get("title").String(),
		})
	}
	// Descriptions occasionally embed their own reference anchors; keep them.
	for _, href := range htmlutil.Links(description) {
		f.Links = append(f.Links, Link{URL: href})
	}

	return f, nil
}

package wfetch

import (
	"context"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "canscope (+https://github.com/canscope/canscope)"

type Header struct {
	Name  string
	Value string
}

type Req struct {
	URL     string
	Headers []Header
}

type Res struct {
	StatusCode int
	BodyString string
}

// DefaultClient is a retrying HTTP client with retryablehttp's own noisy
// logging turned off. Data endpoints we hit are static JSON, so GET retries
// are always safe.
func DefaultClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 3
	c.Logger = nil
	return c
}

// SendRequest performs a GET against wReq.URL and returns the body as a
// string. A nil client falls back to DefaultClient.
func SendRequest(ctx context.Context, wReq *Req, client *retryablehttp.Client) (*Res, error) {
	if client == nil {
		client = DefaultClient()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, wReq.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Res{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}, nil
}

package shiftsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// RawShift is one shift record exactly as the upstream API delivered it.
// Field selection and renaming happen later, in the transform step.
type RawShift map[string]any

type shiftsPageResponse struct {
	Results []RawShift `json:"results"`
	Links   struct {
		Base string `json:"base"`
		Next string `json:"next"`
	} `json:"links"`
}

type Client struct {
	EndpointURL string
	HTTP        *http.Client
}

func NewClient(endpointURL string) *Client {
	return &Client{
		EndpointURL: endpointURL,
		HTTP: &http.Client{
			Timeout: 25 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// StartURL is the first page: the configured endpoint with the page-size
// parameter applied. Every later page URL comes from the response itself.
func (c *Client) StartURL(pageSize int) (string, error) {
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", c.EndpointURL, err)
	}
	q := u.Query()
	q.Set("limit", fmt.Sprintf("%d", pageSize))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchPage performs one GET against pageURL and returns the page's raw shift
// records plus the absolute URL of the next page. An empty next URL is the
// pagination-termination signal. The next pointer is taken verbatim from the
// response and only resolved against the page URL; it is never reconstructed.
func (c *Client) FetchPage(ctx context.Context, pageURL string) ([]RawShift, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("shifts API status=%d, body=%s", resp.StatusCode, string(b))
	}

	var page shiftsPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, "", fmt.Errorf("decode shifts page: %w", err)
	}

	next, err := resolveNext(pageURL, page.Links.Next)
	if err != nil {
		return nil, "", err
	}
	return page.Results, next, nil
}

func resolveNext(pageURL, next string) (string, error) {
	if next == "" {
		return "", nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page URL %q: %w", pageURL, err)
	}
	ref, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("parse next link %q: %w", next, err)
	}
	return base.ResolveReference(ref).String(), nil
}

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// FetchError is returned for any transport, status or decode failure.
type FetchError struct {
	// Op names the fetch that failed (total_count, catalog_page, details, image).
	Op string
	// URL is the requested address.
	URL string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches storefront JSON over HTTP. It does not retry.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &Client{
		http:      &http.Client{Timeout: time.Duration(timeout) * time.Second},
		userAgent: cfg.UserAgent,
	}
}

// FetchTotalCount requests the first, empty page of a library and returns
// the total number of catalog entries.
func (c *Client) FetchTotalCount(ctx context.Context, libraryURL string) (int, error) {
	var page Catalog
	if err := c.getJSON(ctx, "total_count", libraryURL+"0", &page); err != nil {
		return 0, err
	}
	return page.TotalResults, nil
}

// FetchCatalogPage requests count entries from the library base URL.
func (c *Client) FetchCatalogPage(ctx context.Context, libraryURL string, count int) (*Catalog, error) {
	var page Catalog
	if err := c.getJSON(ctx, "catalog_page", libraryURL+strconv.Itoa(count), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchTitleDetails requests the full-detail payload of one title.
func (c *Client) FetchTitleDetails(ctx context.Context, detailsURL string) (*TitleDetails, error) {
	var details TitleDetails
	if err := c.getJSON(ctx, "details", detailsURL, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FetchImage downloads an image and returns its bytes and content type.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	body, header, err := c.get(ctx, "image", imageURL)
	if err != nil {
		return nil, "", err
	}
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	return body, contentType, nil
}

func (c *Client) getJSON(ctx context.Context, op, url string, v any) error {
	body, _, err := c.get(ctx, op, url)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &FetchError{Op: op, URL: url, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, url string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, &FetchError{Op: op, URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &FetchError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &FetchError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, &FetchError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	return body, resp.Header, nil
}

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/vishalpokuri/inkle-task/app/customer"
)

var _ ClientInterface = (*Client)(nil)
var _ customer.RecordUpdaterInterface = (*Client)(nil)

// Client talks to the customer record source: GET /countries, GET /taxes
// and PUT /taxes/{id}. Requests share a rate limiter so refresh bursts
// cannot hammer the upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
}

func NewClient(httpClient *http.Client, baseURL, userAgent string, timeoutSeconds int, requestsPerSecond float64) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		timeout:    time.Duration(timeoutSeconds) * time.Second,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// ListCountries fetches the country lookup table.
func (c *Client) ListCountries(ctx context.Context) ([]customer.CountryRef, error) {
	var countries []customer.CountryRef
	if err := c.getJSON(ctx, "/countries", &countries); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

// ListRecords fetches the full record collection. The source offers no
// server-side pagination or filtering.
func (c *Client) ListRecords(ctx context.Context) ([]customer.RawRecord, error) {
	var records []customer.RawRecord
	if err := c.getJSON(ctx, "/taxes", &records); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// UpdateRecord issues the PUT carrying the full merged record.
func (c *Client) UpdateRecord(ctx context.Context, id string, update customer.RecordUpdate) error {
	if id == "" {
		return fmt.Errorf("record id is required")
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode update payload: %w", err)
	}

	path := "/taxes/" + url.PathEscape(id)
	resp, err := c.do(ctx, http.MethodPut, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	// Drain so the connection can be reused; the caller refreshes the
	// whole collection rather than trusting the echoed record.
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(timeoutCtx, method, c.baseURL+path, body)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}

	// Tie the timeout context to the body's lifetime.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

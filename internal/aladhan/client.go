// Package aladhan fetches daily prayer timings from the Aladhan HTTP API.
package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adthand/adthand/common"
	"github.com/adthand/adthand/internal/prayer"
	"github.com/adthand/adthand/pkg/logger"
)

// DateLayout is the date path segment of timingsByCity.
const DateLayout = "02-01-2006"

const maxBodySize = 1 << 20

var (
	ErrEmptyTimings = errors.New("response carries no timings")
	ErrBadStatus    = errors.New("unexpected response status")
)

// Client is a prayer.Fetcher backed by GET {base}/timingsByCity.
type Client struct {
	client    *http.Client
	base      string
	method    int
	userAgent string
	log       logger.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 15s.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithMethod selects the calculation method. Negative values leave the
// choice to the API.
func WithMethod(m int) Option {
	return func(cl *Client) { cl.method = m }
}

func WithLogger(l logger.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

func WithUserAgent(ua string) Option {
	return func(cl *Client) { cl.userAgent = ua }
}

// NewClient creates a client for the API rooted at base, e.g.
// "https://api.aladhan.com/v1". An empty base uses the public API.
func NewClient(base string, opts ...Option) *Client {
	if base == "" {
		base = common.DefaultAPIURL
	}
	c := &Client{
		client:    &http.Client{Timeout: 15 * time.Second},
		base:      strings.TrimRight(base, "/"),
		method:    -1,
		userAgent: common.AppName,
		log:       logger.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type timingsResponse struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type timingsData struct {
	Timings map[string]string `json:"timings"`
}

// URL returns the request URL for q.
func (c *Client) URL(q prayer.Query) string {
	v := url.Values{}
	v.Set("city", q.City)
	v.Set("country", q.Country)
	if c.method >= 0 {
		v.Set("method", strconv.Itoa(c.method))
	}
	return c.base + "/timingsByCity/" + q.Date.Format(DateLayout) + "?" + v.Encode()
}

// Timings fetches the name to "HH:MM" table for q.Date.
func (c *Client) Timings(ctx context.Context, q prayer.Query) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.log.Info("Looking up timings for %s in %s, %s", q.Date.Format(DateLayout), q.City, q.Country)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	var r timingsResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if r.Code != 0 && r.Code != http.StatusOK {
		return nil, fmt.Errorf("%w: %d %s", ErrBadStatus, r.Code, r.Status)
	}
	var d timingsData
	if err := json.Unmarshal(r.Data, &d); err != nil {
		// The API reports lookup failures as a string in data.
		return nil, fmt.Errorf("decode timings: %w", err)
	}
	if len(d.Timings) == 0 {
		return nil, ErrEmptyTimings
	}
	return d.Timings, nil
}

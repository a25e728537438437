package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brk3/wellnest/pkg/versioninfo"
	"github.com/brk3/wellnest/pkg/wellness"
)

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func New(base, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Op     string
	Status int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Msg)
	}
	return fmt.Sprintf("%s: %d", e.Op, e.Status)
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		_ = json.Unmarshal(raw, &body)
		return &StatusError{Op: op, Status: res.StatusCode, Msg: body.Error}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) QuickStats(ctx context.Context) (*wellness.QuickStats, error) {
	var out wellness.QuickStats
	if err := c.get(ctx, "stats", "/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PeriodAnalytics(ctx context.Context, window string) (*wellness.PeriodAnalytics, error) {
	var out wellness.PeriodAnalytics
	if err := c.get(ctx, "analytics "+window, "/analytics/"+url.PathEscape(window), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DailySummary(ctx context.Context, day string) (*wellness.DailySummary, error) {
	var out wellness.DailySummary
	path := "/analytics/summary?date=" + url.QueryEscape(day)
	if err := c.get(ctx, "summary "+day, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Version(ctx context.Context) (*versioninfo.VersionInfo, error) {
	var out versioninfo.VersionInfo
	if err := c.get(ctx, "version", "/version", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

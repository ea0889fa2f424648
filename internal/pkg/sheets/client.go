// Package sheets is the thin protocol layer against the remote tabular
// store: read a range, append rows, overwrite a range, clear a range.
// It holds no row state of its own; idempotence and ordering are the
// sync coordinator's problem.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrAuthExpired is returned on 401/403; the token session has already
// been invalidated when the caller sees it.
var ErrAuthExpired = errors.New("remote auth expired")

// WriteError wraps any failed append/update/clear. Callers count these,
// they never trigger an automatic retry.
type WriteError struct {
	Op    string
	Range string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sheets %s %s: %v", e.Op, e.Range, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// TokenSource provides the bearer token for every call and is told when
// the remote store rejects it.
type TokenSource interface {
	EnsureToken(ctx context.Context) (string, error)
	Invalidate()
}

// Client talks to one spreadsheet. Two processes writing concurrently can
// still race on scan-then-write sequences built on top of it; that is an
// accepted property of the mirror, not something this layer prevents.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client

	mu            sync.Mutex
	spreadsheetID string
}

func NewClient(baseURL, spreadsheetID string, tokens TokenSource) *Client {
	return &Client{
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		tokens:        tokens,
		http:          &http.Client{Timeout: 30 * time.Second},
	}
}

// SpreadsheetID returns the resolved document id, empty until provided
// or lazily created by EnsureSpreadsheet.
func (c *Client) SpreadsheetID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spreadsheetID
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

// GetValues reads a range as rows of strings.
func (c *Client) GetValues(ctx context.Context, rangeSpec string) ([][]string, error) {
	id, err := c.EnsureSpreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s", c.baseURL, id, url.PathEscape(rangeSpec))
	body, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("sheets get %s: decode: %w", rangeSpec, err)
	}
	return vr.Values, nil
}

// AppendValues appends rows after the last non-empty row of the range.
func (c *Client) AppendValues(ctx context.Context, rangeSpec string, rows [][]string) error {
	id, err := c.EnsureSpreadsheet(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		c.baseURL, id, url.PathEscape(rangeSpec))
	if _, err := c.do(ctx, http.MethodPost, u, valueRange{Values: rows}); err != nil {
		if errors.Is(err, ErrAuthExpired) {
			return err
		}
		return &WriteError{Op: "append", Range: rangeSpec, Err: err}
	}
	return nil
}

// UpdateValues overwrites the range with the given rows.
func (c *Client) UpdateValues(ctx context.Context, rangeSpec string, rows [][]string) error {
	id, err := c.EnsureSpreadsheet(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.baseURL, id, url.PathEscape(rangeSpec))
	if _, err := c.do(ctx, http.MethodPut, u, valueRange{Range: rangeSpec, Values: rows}); err != nil {
		if errors.Is(err, ErrAuthExpired) {
			return err
		}
		return &WriteError{Op: "update", Range: rangeSpec, Err: err}
	}
	return nil
}

// ClearValues empties the range. The tabular protocol has no row delete,
// so removals are modeled as clear-and-rewrite by the callers.
func (c *Client) ClearValues(ctx context.Context, rangeSpec string) error {
	id, err := c.EnsureSpreadsheet(ctx)
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s:clear", c.baseURL, id, url.PathEscape(rangeSpec))
	if _, err := c.do(ctx, http.MethodPost, u, struct{}{}); err != nil {
		if errors.Is(err, ErrAuthExpired) {
			return err
		}
		return &WriteError{Op: "clear", Range: rangeSpec, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, u string, payload any) ([]byte, error) {
	token, err := c.tokens.EnsureToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.tokens.Invalidate()
		return nil, ErrAuthExpired
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

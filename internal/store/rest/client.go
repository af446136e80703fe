package rest

import (
	"bytes"
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

	"github.com/five82/navigator/internal/store"
)

// Ensure Client implements store.Client at compile time.
var _ store.Client = (*Client)(nil)

const (
	defaultAPIURL    = "127.0.0.1:54321"
	defaultUserAgent = "navigator/0.1"
	requestTimeout   = 10 * time.Second
	restPrefix       = "/rest/v1/"
)

// TokenFunc returns the bearer token for the signed-in user, or "" to fall
// back to the API key.
type TokenFunc func(ctx context.Context) (string, error)

// Client talks to a PostgREST-compatible API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	token     TokenFunc
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token source.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// NewClient builds a Client for apiURL using apiKey for the apikey header.
func NewClient(apiURL, apiKey string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Select reads rows from collection.
func (c *Client) Select(ctx context.Context, collection string, q store.Query) ([]store.Row, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("select", "*")
	for _, p := range q.Predicates() {
		values.Add(p.Column, "eq."+formatValue(p.Value))
	}
	if q.Order.Column != "" {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		values.Set("order", q.Order.Column+"."+dir)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	var rows []store.Row
	if err := c.do(ctx, "select", collection, http.MethodGet, values, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Insert creates one row and returns it as stored by the server.
func (c *Client) Insert(ctx context.Context, collection string, row store.Row) (store.Row, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var rows []store.Row
	if err := c.do(ctx, "insert", collection, http.MethodPost, nil, row, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return row.Clone(), nil
	}
	return rows[0], nil
}

// Update patches the row with the given id.
func (c *Client) Update(ctx context.Context, collection, id string, patch store.Row) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.mutateOne(ctx, "update", collection, http.MethodPatch, id, patch)
}

// Delete removes the row with the given id.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.mutateOne(ctx, "delete", collection, http.MethodDelete, id, nil)
}

func (c *Client) mutateOne(ctx context.Context, op, collection, method, id string, body store.Row) error {
	values := url.Values{}
	values.Set(store.IDColumn, "eq."+id)
	var rows []store.Row
	if err := c.do(ctx, op, collection, method, values, body, &rows); err != nil {
		return err
	}
	// return=representation yields the affected rows; none means no match.
	if len(rows) == 0 {
		return &store.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, collection, method string, values url.Values, body any, dest any) error {
	rel := &url.URL{Path: restPrefix + url.PathEscape(collection)}
	if values != nil {
		rel.RawQuery = values.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return store.Wrap(op, collection, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return store.Wrap(op, collection, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	bearer := c.apiKey
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return store.Wrap(op, collection, fmt.Errorf("resolve token: %w", err))
		}
		if tok != "" {
			bearer = tok
		}
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return store.Wrap(op, collection, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &store.StoreError{
			Op:         op,
			Collection: collection,
			Status:     resp.StatusCode,
			Err:        readAPIError(resp.Body),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return store.Wrap(op, collection, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// apiError is the PostgREST error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func readAPIError(r io.Reader) error {
	data, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	var payload apiError
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		if payload.Code != "" {
			return fmt.Errorf("%s (%s)", payload.Message, payload.Code)
		}
		return errors.New(payload.Message)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = "request failed"
	}
	return errors.New(text)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

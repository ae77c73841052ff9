// Package validator is the HTTP client of the remote HL7 v2 validation service.
package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"hl7play/internal/trace"
)

const (
	pathValidate      = "api/validate"
	pathCheckResource = "api/checkResource"
	pathParse         = "api/parse"
	pathLoadExample   = "api/loadVxuExample"

	// RequestIDHeader carries the id generated for every outgoing request.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 60 * time.Second
	maxErrorBody   = 4 << 10
)

// ErrInvalidParseResult is returned when the parse endpoint answers with
// something that is not a JSON document.
var ErrInvalidParseResult = errors.New("parse result is not valid JSON")

// StatusError reports a non-2xx answer from the service.
type StatusError struct {
	Code int
	Path string
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Path, e.Code, e.Body)
}

// Client talks to one validator base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration // 0 → 60s
	HTTPClient *http.Client  // может быть nil
}

// New creates a client for baseURL (e.g. "https://host/hl7v2/").
func New(baseURL string, opts Options) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("validator url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid validator url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid validator url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: u, http: hc}, nil
}

// BaseURL returns the normalized service URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Validate runs the full validation of a query.
func (c *Client) Validate(ctx context.Context, q Query) (ValidationResult, error) {
	var out ValidationResult
	if err := c.postJSON(ctx, pathValidate, q, &out); err != nil {
		return ValidationResult{}, err
	}
	return out, nil
}

// CheckResource checks a single resource document.
func (c *Client) CheckResource(ctx context.Context, content string, rType ResourceType) (CheckResourceResult, error) {
	body := struct {
		Content string       `json:"content"`
		RType   ResourceType `json:"rType"`
	}{Content: content, RType: rType}

	var out CheckResourceResult
	if err := c.postJSON(ctx, pathCheckResource, body, &out); err != nil {
		return CheckResourceResult{}, err
	}
	return out, nil
}

// Parse asks the service for the element tree of a message and returns it
// as indented JSON. The service may answer with the document itself or with
// a JSON string wrapping it.
func (c *Client) Parse(ctx context.Context, q ParseQuery) (string, error) {
	raw, err := c.post(ctx, pathParse, q)
	if err != nil {
		return "", err
	}
	doc := gjson.ParseBytes(raw)
	if doc.Type == gjson.String {
		doc = gjson.Parse(doc.Str)
	}
	if !gjson.Valid(doc.Raw) {
		return "", ErrInvalidParseResult
	}
	return doc.Get("@pretty").Raw, nil
}

// LoadExample fetches the bundled VXU example resources.
func (c *Client) LoadExample(ctx context.Context) (Query, error) {
	raw, err := c.do(ctx, http.MethodGet, pathLoadExample, nil)
	if err != nil {
		return Query{}, err
	}
	var q Query
	if err := json.Unmarshal(raw, &q); err != nil {
		return Query{}, fmt.Errorf("%s: decode response: %w", pathLoadExample, err)
	}
	return q, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	raw, err := c.post(ctx, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in any) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	target := c.base.ResolveReference(ref)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeRequest, path, 0).WithExtra("request_id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		span.End("transport error")
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.End("read error")
		return nil, fmt.Errorf("%s: read response: %w", path, err)
	}
	span.WithExtra("status", resp.Status).End("")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Path: path, Body: msg}
	}
	return raw, nil
}

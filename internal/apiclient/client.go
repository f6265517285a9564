// Package apiclient talks to the external site API used in live mode.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const maxResponseSize = 10 << 20

type tokenKey struct{}

// WithToken attaches the upstream bearer token to outgoing calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Error is a non-2xx answer from the upstream API.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: upstream returned %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: upstream returned %d: %s", e.Method, e.Path, e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

func New(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	fields := logrus.Fields{"method": method, "path": path}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(fields).WithError(err).Error("upstream request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.log.WithFields(fields).WithError(err).Error("error reading upstream response")
		return nil, fmt.Errorf("%s %s: error reading response: %w", method, path, err)
	}

	env := &Envelope{Status: resp.StatusCode, Raw: raw}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, Message: env.Message()}
		c.log.WithFields(fields).WithField("status", resp.StatusCode).Warn(apiErr.Error())
		return nil, apiErr
	}

	return env, nil
}

// Envelope is a raw upstream response. Upstream payloads sit under
// different field names per endpoint, so callers name the candidates.
type Envelope struct {
	Status int
	Raw    []byte
}

// ErrNoPayload means none of the candidate fields was present.
var ErrNoPayload = fmt.Errorf("upstream response has no payload")

func (e *Envelope) Success() bool {
	if res := gjson.GetBytes(e.Raw, "success"); res.Exists() {
		return res.Bool()
	}
	return e.Status >= 200 && e.Status <= 299
}

func (e *Envelope) Message() string {
	if !gjson.ValidBytes(e.Raw) {
		return strings.TrimSpace(string(e.Raw))
	}
	return gjson.GetBytes(e.Raw, "message").String()
}

// Decode unmarshals the first present field among "data" and fields into
// dst. A bare JSON array body is decoded as a whole.
func (e *Envelope) Decode(dst any, fields ...string) error {
	for _, field := range append([]string{"data"}, fields...) {
		res := gjson.GetBytes(e.Raw, field)
		if !res.Exists() || res.Type == gjson.Null {
			continue
		}
		if err := json.Unmarshal([]byte(res.Raw), dst); err != nil {
			return fmt.Errorf("error decoding %q: %w", field, err)
		}
		return nil
	}

	if gjson.ParseBytes(e.Raw).IsArray() {
		if err := json.Unmarshal(e.Raw, dst); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
		return nil
	}

	return ErrNoPayload
}

// String returns the first non-empty string among the given paths.
func (e *Envelope) String(paths ...string) string {
	for _, path := range paths {
		if s := gjson.GetBytes(e.Raw, path).String(); s != "" {
			return s
		}
	}
	return ""
}

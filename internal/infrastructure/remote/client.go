// Package remote is the HTTP data source for the auth backend. It maps
// every failure to an *autherr.Error and normalizes the response shapes
// the backend has used into one envelope.
package remote

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

	"github.com/oksasatya/realio-auth/internal/domain/autherr"
)

// DefaultTimeout bounds a whole request, connection to last body byte.
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = 4 << 20

// Client talks JSON to the auth backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// NewClient builds a client for baseURL. A zero timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: NewLoggingTransport(http.DefaultTransport, logger),
		},
		logger: logger,
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) postJSON(ctx context.Context, path string, in any, authorization string) (json.RawMessage, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, autherr.Transport(fmt.Errorf("encode request: %w", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return nil, autherr.Transport(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, authorization)
}

func (c *Client) get(ctx context.Context, path, authorization string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, autherr.Transport(err)
	}
	return c.send(req, authorization)
}

// send executes req and returns the 2xx payload with any data wrapper
// removed.
func (c *Client) send(req *http.Request, authorization string) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, autherr.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, autherr.Transport(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := autherr.API(resp.StatusCode, ErrorMessage(body))
		c.logger.WithFields(logrus.Fields{
			"path":   req.URL.Path,
			"status": resp.StatusCode,
		}).Warn("api request rejected")
		return nil, apiErr
	}
	return unwrapData(body)
}

// ErrorMessage extracts the text to report from a non-2xx body: the
// "message" or "error" string of a JSON object, else the trimmed body.
// It returns "" for an empty body so the caller can fall back to the
// status text.
func ErrorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(trimmed, &obj) == nil {
		for _, key := range []string{"message", "error"} {
			var s string
			if json.Unmarshal(obj[key], &s) == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		var nested struct {
			Message string `json:"message"`
		}
		if raw, ok := obj["error"]; ok && json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return string(trimmed)
}

func unwrapData(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("{}"), nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, autherr.Transport(fmt.Errorf("decode response: %w", err))
	}
	if data, ok := obj["data"]; ok {
		if d := bytes.TrimSpace(data); len(d) > 0 && d[0] == '{' {
			return d, nil
		}
	}
	return trimmed, nil
}

func decode[T any](raw json.RawMessage, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, autherr.Transport(fmt.Errorf("decode response: %w", err))
	}
	return &out, nil
}

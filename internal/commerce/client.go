package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/blissbyuddy/storefront-client/pkg/errors"
	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/blissbyuddy/storefront-client/pkg/metrics"
)

// TokenSource supplies the bearer token attached to outgoing requests. An
// empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Options configures the commerce API client. The HTTP client is injected;
// the commerce client never mutates shared transport defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Credential TokenSource
	Logger     *logger.Logger
	Metrics    *metrics.ClientMetrics
	UserAgent  string
}

// Client talks to the commerce API.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// New builds a commerce client with the credential, request-id, idempotency,
// logging and metrics middleware layered onto the injected transport.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base url required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	transport := CredentialTransport(opts.Credential, base)
	transport = IdempotencyTransport(transport)
	transport = RequestIDTransport(transport)
	transport = LoggingTransport(opts.Logger, transport)
	transport = MetricsTransport(opts.Metrics, transport)

	wrapped := *httpClient
	wrapped.Transport = transport

	return &Client{
		baseURL:   opts.BaseURL,
		http:      &wrapped,
		userAgent: opts.UserAgent,
	}, nil
}

// Get issues a GET and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, out)
	return err
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) (int, error) {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) (int, error) {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE, optionally with a JSON body, and decodes any
// response body into out. Callers inspect the status for 204 handling.
func (c *Client) Delete(ctx context.Context, path string, body, out any) (int, error) {
	return c.do(ctx, http.MethodDelete, path, body, out)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commerce api request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, c.apiError(resp.StatusCode, data)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
		}
	}
	return resp.StatusCode, nil
}

// apiError maps an error response onto a coded error, preferring the API's
// own message when the envelope parses.
func (c *Client) apiError(status int, body []byte) error {
	code := pkgerrors.FromStatus(status)
	message := pkgerrors.MetadataFor(code).PublicMessage

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
	}
	return pkgerrors.New(code, message).WithDetails(map[string]any{"status": status})
}

const maxResponseBytes = 4 << 20

package commerce

import (
	"net/http"
	"time"

	"github.com/blissbyuddy/storefront-client/pkg/logger"
	"github.com/blissbyuddy/storefront-client/pkg/metrics"
	"github.com/google/uuid"
)

const (
	requestIDHeader   = "X-Request-Id"
	idempotencyHeader = "X-Idempotency-Key"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// CredentialTransport attaches the current bearer token, if any. The token
// is read per request so credential changes take effect immediately.
func CredentialTransport(src TokenSource, next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if src != nil {
			if token := src.Token(); token != "" {
				r = r.Clone(r.Context())
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}
		return next.RoundTrip(r)
	})
}

// RequestIDTransport stamps outgoing requests with a request id.
func RequestIDTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get(requestIDHeader) == "" {
			r = r.Clone(r.Context())
			r.Header.Set(requestIDHeader, uuid.NewString())
		}
		return next.RoundTrip(r)
	})
}

// IdempotencyTransport stamps mutating requests with an idempotency key so
// a retried submission cannot double-apply.
func IdempotencyTransport(next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodDelete:
			if r.Header.Get(idempotencyHeader) == "" {
				r = r.Clone(r.Context())
				r.Header.Set(idempotencyHeader, uuid.NewString())
			}
		}
		return next.RoundTrip(r)
	})
}

// LoggingTransport logs each request with its status and duration.
func LoggingTransport(logg *logger.Logger, next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(r)

		ctx := logg.WithFields(r.Context(), map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if reqID := r.Header.Get(requestIDHeader); reqID != "" {
			ctx = logg.WithRequestID(ctx, reqID)
		}

		if err != nil {
			logg.Error(ctx, "commerce request failed", err)
			return nil, err
		}
		ctx = logg.WithField(ctx, "status", resp.StatusCode)
		logg.Debug(ctx, "commerce request")
		return resp, nil
	})
}

// MetricsTransport records request durations and outcomes per endpoint.
func MetricsTransport(m *metrics.ClientMetrics, next http.RoundTripper) http.RoundTripper {
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		endpoint := r.Method + " " + r.URL.Path
		start := time.Now()
		resp, err := next.RoundTrip(r)
		m.ObserveDuration(endpoint, time.Since(start))
		if err != nil || resp.StatusCode >= http.StatusBadRequest {
			m.IncFailure(endpoint)
		} else {
			m.IncSuccess(endpoint)
		}
		return resp, err
	})
}

package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// Reason classifies why a provider request failed.
type Reason string

const (
	ReasonStatus    Reason = "status"
	ReasonTimeout   Reason = "timeout"
	ReasonTransport Reason = "transport"
	ReasonDecode    Reason = "decode"
)

// ExchangeError describes a failed authorization-code exchange.
// Body holds the raw provider response when one was received.
type ExchangeError struct {
	Err    error
	Body   []byte
	Reason Reason
	Status int
}

func (e *ExchangeError) Error() string {
	return requestMessage("token exchange", e.Reason, e.Status, e.Err)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// FetchError describes a failed protected-resource request.
type FetchError struct {
	Err    error
	URL    string
	Body   []byte
	Reason Reason
	Status int
}

func (e *FetchError) Error() string {
	return requestMessage("fetch "+e.URL, e.Reason, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func requestMessage(op string, reason Reason, status int, err error) string {
	msg := fmt.Sprintf("oauth: %s failed (%s", op, reason)
	if status != 0 {
		msg += fmt.Sprintf(", status %d", status)
	}
	msg += ")"
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}

// acceptedStatus reports whether a provider status counts as success.
// Redirects are never followed, so 301 and 302 bodies are decoded like 2xx ones.
func acceptedStatus(code int) bool {
	return (code >= 200 && code < 300) || code == http.StatusMovedPermanently || code == http.StatusFound
}

// roundTrip sends req with the configured headers and timeout and reads at
// most maxResponseSize bytes of the body. A non-accepted status is reported
// with ReasonStatus together with the status and body.
func (o *options) roundTrip(ctx context.Context, req *http.Request) (status int, body []byte, reason Reason, err error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	req = req.WithContext(ctx)

	for k, vs := range o.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", o.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return 0, nil, ReasonTimeout, errors.Join(ErrTimeout, err)
		}
		return 0, nil, ReasonTransport, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(ctx, err) {
			return resp.StatusCode, nil, ReasonTimeout, errors.Join(ErrTimeout, err)
		}
		return resp.StatusCode, nil, ReasonTransport, err
	}

	if !acceptedStatus(resp.StatusCode) {
		return resp.StatusCode, body, ReasonStatus, errors.Join(ErrRequestFailed,
			fmt.Errorf("status=%d body=%s", resp.StatusCode, truncate(body, 256)))
	}

	return resp.StatusCode, body, "", nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

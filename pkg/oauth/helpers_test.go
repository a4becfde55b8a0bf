package oauth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
)

// rewriteTransport intercepts requests to the given provider host and routes
// them to a local handler instead.
type rewriteTransport struct {
	base    http.RoundTripper
	handler http.Handler
	host    string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Host, t.host) {
		recorder := httptest.NewRecorder()
		t.handler.ServeHTTP(recorder, req)
		return recorder.Result(), nil
	}
	return t.base.RoundTrip(req)
}

func clientFor(host string, handler http.Handler) *http.Client {
	return &http.Client{Transport: &rewriteTransport{base: http.DefaultTransport, handler: handler, host: host}}
}

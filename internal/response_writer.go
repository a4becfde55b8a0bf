package internal

import (
	"net/http"
	"sync/atomic"
)

// trackingWriter notes whether a host callback produced any response, so
// ServeHTTP can answer requests the host left unanswered.
type trackingWriter struct {
	http.ResponseWriter
	touched atomic.Bool
}

func track(w http.ResponseWriter) *trackingWriter {
	return &trackingWriter{ResponseWriter: w}
}

func (t *trackingWriter) WriteHeader(code int) {
	if t.touched.Swap(true) {
		return
	}
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.touched.Store(true)
	return t.ResponseWriter.Write(b)
}

// Written reports whether a header or body was sent.
func (t *trackingWriter) Written() bool { return t.touched.Load() }

// Unwrap exposes the wrapped writer to http.ResponseController.
func (t *trackingWriter) Unwrap() http.ResponseWriter { return t.ResponseWriter }

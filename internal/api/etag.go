package api

import (
	"net/http"
	"strings"
)

// weakenEncoded marks the ETag weak on responses that leave with a
// Content-Encoding. The token hashes the identity payload, so it no longer
// names the transferred bytes. Conditional requests still match: the
// resolver compares tags weakly.
//
// It must sit outside the compressor, which sets Content-Encoding just
// before passing WriteHeader down.
func weakenEncoded(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&weakWriter{ResponseWriter: w}, r)
	})
}

type weakWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *weakWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		h := w.Header()
		if tag := h.Get("ETag"); h.Get("Content-Encoding") != "" && strings.HasPrefix(tag, `"`) {
			h.Set("ETag", "W/"+tag)
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *weakWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *weakWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *weakWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

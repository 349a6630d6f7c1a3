package middleware

import (
	"log"
	"net/http"
	"time"
)

// statusWriter records the response code and body size so the logging and
// tracing middleware can report them after the handler returns.
type statusWriter struct {
	http.ResponseWriter
	code  int
	bytes int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.code != 0 {
		return
	}
	sw.code = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.code == 0 {
		sw.code = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += n
	return n, err
}

// StatusCode treats an unwritten header as 200, matching net/http.
func (sw *statusWriter) StatusCode() int {
	if sw.code == 0 {
		return http.StatusOK
	}
	return sw.code
}

// Logging writes one line per request: method, path, status, body size and
// latency. Query strings and request bodies stay out of the log; login and
// account-creation payloads carry credentials.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := newStatusWriter(w)
		start := time.Now()

		next.ServeHTTP(sw, r)

		log.Printf("%s %s %d %dB %s",
			r.Method,
			r.URL.Path,
			sw.StatusCode(),
			sw.bytes,
			time.Since(start).Round(time.Millisecond),
		)
	})
}

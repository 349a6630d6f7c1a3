package middleware

import (
	"net/http"
	"strings"
)

// HSTS tells browsers to pin HTTPS for a year, subdomains included.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// SecureCookies rewrites outgoing Set-Cookie headers so every cookie leaves
// with Secure, HttpOnly and a SameSite attribute regardless of what the
// handler set. The session cookie carries the signed token, so this is the
// floor, not a default.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&cookieHardeningWriter{ResponseWriter: w}, r)
	})
}

type cookieHardeningWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *cookieHardeningWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// WriteHeader hardens any pending Set-Cookie headers before they are flushed.
func (w *cookieHardeningWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	header := w.ResponseWriter.Header()
	if cookies := header["Set-Cookie"]; len(cookies) > 0 {
		header.Del("Set-Cookie")
		for _, cookie := range cookies {
			header.Add("Set-Cookie", hardenCookie(cookie))
		}
	}

	w.ResponseWriter.WriteHeader(code)
}

// hardenCookie appends Secure, HttpOnly and SameSite=Lax to a serialized
// cookie unless the attribute is already present.
func hardenCookie(cookie string) string {
	parts := strings.Split(cookie, ";")

	var hasSecure, hasHTTPOnly, hasSameSite bool
	for i, part := range parts {
		part = strings.TrimSpace(part)
		switch lower := strings.ToLower(part); {
		case lower == "secure":
			hasSecure = true
		case lower == "httponly":
			hasHTTPOnly = true
		case strings.HasPrefix(lower, "samesite"):
			hasSameSite = true
		}
		parts[i] = part
	}

	if !hasSecure {
		parts = append(parts, "Secure")
	}
	if !hasHTTPOnly {
		parts = append(parts, "HttpOnly")
	}
	if !hasSameSite {
		parts = append(parts, "SameSite=Lax")
	}

	return strings.Join(parts, "; ")
}

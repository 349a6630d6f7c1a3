package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHSTS(t *testing.T) {
	handler := HSTS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	got := rr.Header().Get("Strict-Transport-Security")
	if got != "max-age=31536000; includeSubDomains" {
		t.Errorf("Strict-Transport-Security = %q", got)
	}
}

func TestSecureCookies(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   []string
	}{
		{
			name:   "bare cookie gains all three attributes",
			cookie: "access_token=abc; Path=/",
			want:   []string{"Secure", "HttpOnly", "SameSite=Lax"},
		},
		{
			name:   "existing SameSite is kept",
			cookie: "access_token=abc; Path=/; SameSite=Strict",
			want:   []string{"Secure", "HttpOnly", "SameSite=Strict"},
		},
		{
			name:   "already hardened cookie is unchanged",
			cookie: "access_token=abc; Path=/; HttpOnly; Secure; SameSite=Lax",
			want:   []string{"Secure", "HttpOnly", "SameSite=Lax"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecureCookies(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("Set-Cookie", tt.cookie)
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

			cookies := rr.Header()["Set-Cookie"]
			if len(cookies) != 1 {
				t.Fatalf("Set-Cookie headers = %d, want 1", len(cookies))
			}
			for _, attr := range tt.want {
				if !strings.Contains(cookies[0], attr) {
					t.Errorf("cookie %q missing %q", cookies[0], attr)
				}
			}
			if strings.Count(cookies[0], "SameSite") != 1 {
				t.Errorf("cookie %q has duplicated SameSite attributes", cookies[0])
			}
		})
	}
}

func TestSecureCookiesBareWrite(t *testing.T) {
	handler := SecureCookies(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "access_token=abc")
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rr.Header()["Set-Cookie"]
	if len(cookies) != 1 || !strings.Contains(cookies[0], "Secure") {
		t.Errorf("cookie not hardened on implicit WriteHeader: %v", cookies)
	}
}

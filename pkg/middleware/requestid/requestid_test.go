package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/nimburion/hrportal/pkg/middleware"
	"github.com/nimburion/hrportal/pkg/server/router"
	"github.com/nimburion/hrportal/pkg/server/router/nethttp"
)

func serve(t *testing.T, header string) (captured, stored string, rec *httptest.ResponseRecorder) {
	t.Helper()
	r := nethttp.NewRouter()
	r.Use(RequestID())
	r.GET("/test", func(c router.Context) error {
		captured = GetRequestID(c.Request().Context())
		stored, _ = c.Get(string(middleware.RequestIDKey)).(string)
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return captured, stored, rec
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	captured, stored, rec := serve(t, "")

	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("expected generated UUID, got %q: %v", captured, err)
	}
	if rec.Header().Get(RequestIDHeader) != captured {
		t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), captured)
	}
	if stored != captured {
		t.Errorf("router context value = %q, want %q", stored, captured)
	}
}

func TestRequestID_PreservesExistingHeader(t *testing.T) {
	captured, _, rec := serve(t, "existing-request-id-123")

	if captured != "existing-request-id-123" {
		t.Errorf("request id = %q, want existing-request-id-123", captured)
	}
	if rec.Header().Get(RequestIDHeader) != "existing-request-id-123" {
		t.Errorf("response header = %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestID_ReplacesMalformedHeader(t *testing.T) {
	for _, header := range []string{
		"two words",
		"line\nbreak",
		"caf\u00e9",
		strings.Repeat("x", 129),
	} {
		captured, _, _ := serve(t, header)
		if _, err := uuid.Parse(captured); err != nil {
			t.Errorf("header %q: expected generated UUID, got %q", header, captured)
		}
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	first, _, _ := serve(t, "")
	second, _, _ := serve(t, "")
	if first == second {
		t.Errorf("expected distinct ids, both were %q", first)
	}
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "nil context", ctx: nil, want: ""},
		{name: "missing", ctx: context.Background(), want: ""},
		{name: "wrong type", ctx: context.WithValue(context.Background(), middleware.RequestIDKey, 42), want: ""},
		{name: "present", ctx: context.WithValue(context.Background(), middleware.RequestIDKey, "abc"), want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetRequestID(tt.ctx); got != tt.want {
				t.Errorf("GetRequestID() = %q, want %q", got, tt.want)
			}
		})
	}
}

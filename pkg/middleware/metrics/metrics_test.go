package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	obsmetrics "github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/server/router"
	"github.com/nimburion/hrportal/pkg/server/router/nethttp"
)

func TestMetrics_RecordsRequests(t *testing.T) {
	registry := obsmetrics.NewRegistry()
	m := obsmetrics.NewHTTPMetrics(registry)

	r := nethttp.NewRouter()
	r.Use(Metrics(m))
	r.GET("/ok", func(c router.Context) error { return c.String(http.StatusOK, "ok") })
	r.GET("/bad", func(c router.Context) error { return c.String(http.StatusBadRequest, "bad") })
	r.GET("/error", func(c router.Context) error { return errors.New("test error") })

	for _, path := range []string{"/ok", "/ok", "/bad", "/error"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/bad",status="400"} 1
http_requests_total{method="GET",path="/error",status="500"} 1
http_requests_total{method="GET",path="/ok",status="200"} 2
`
	if err := testutil.GatherAndCompare(registry.Gatherer(), strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Error(err)
	}

	inFlight := `
# HELP http_requests_in_flight Current number of HTTP requests being processed
# TYPE http_requests_in_flight gauge
http_requests_in_flight 0
`
	if err := testutil.GatherAndCompare(registry.Gatherer(), strings.NewReader(inFlight), "http_requests_in_flight"); err != nil {
		t.Error(err)
	}
}

func TestResourcePath(t *testing.T) {
	tests := map[string]string{
		"/employees":               "/employees",
		"/employees/EMP-001":       "/employees/:id",
		"/employees/":              "/employees/",
		"/employees/EMP-001/goals": "/employees/EMP-001/goals",
		"/":                        "/",
		"relative/x":               "relative/x",
	}
	for in, want := range tests {
		if got := ResourcePath(in); got != want {
			t.Errorf("ResourcePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMetrics_DetailRequestsShareASeries(t *testing.T) {
	registry := obsmetrics.NewRegistry()
	r := nethttp.NewRouter()
	r.Use(Metrics(obsmetrics.NewHTTPMetrics(registry)))
	r.GET("/courses/:id", func(c router.Context) error { return c.String(http.StatusOK, c.Param("id")) })

	for _, id := range []string{"CRS-001", "CRS-002", "CRS-003"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/courses/"+id, nil))
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/courses/:id",status="200"} 3
`
	if err := testutil.GatherAndCompare(registry.Gatherer(), strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestMetrics_CustomPathLabel(t *testing.T) {
	registry := obsmetrics.NewRegistry()
	r := nethttp.NewRouter()
	r.Use(Metrics(obsmetrics.NewHTTPMetrics(registry), WithPathLabel(func(string) string { return "all" })))
	r.GET("/goals", func(c router.Context) error { return c.String(http.StatusOK, "[]") })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/goals", nil))

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="GET",path="all",status="200"} 1
`
	if err := testutil.GatherAndCompare(registry.Gatherer(), strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Error(err)
	}
}

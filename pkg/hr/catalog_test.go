package hr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/nimburion/hrportal/pkg/controller"
	"github.com/nimburion/hrportal/pkg/listquery"
	"github.com/nimburion/hrportal/pkg/repository"
	"github.com/nimburion/hrportal/pkg/server/router/nethttp"
)

func fixtureCatalog(t *testing.T) *Catalog {
	t.Helper()
	ds, err := LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	c, err := NewCatalog(Options{Dataset: ds})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

type listResponse struct {
	Data       []map[string]any          `json:"data"`
	Pagination controller.PaginationMeta `json:"pagination"`
}

func ids(items []map[string]any) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i], _ = item["id"].(string)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCatalog_Names(t *testing.T) {
	c := fixtureCatalog(t)
	want := []string{"employees", "benefit-plans", "courses", "goals", "leave-requests", "documents", "pay-stubs"}
	if got := c.Names(); !equalStrings(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if _, ok := c.Lookup("courses"); !ok {
		t.Error("Lookup(courses) not found")
	}
	if _, ok := c.Lookup("payroll"); ok {
		t.Error("Lookup(payroll) found")
	}
}

func TestCatalog_Register(t *testing.T) {
	r := nethttp.NewRouter()
	fixtureCatalog(t).Register(r.Group("/api/v1"), controller.ListingOptions{DefaultPageSize: 10, MaxPageSize: 50})

	tests := []struct {
		name     string
		target   string
		wantIDs  []string
		wantMeta controller.PaginationMeta
	}{
		{
			name:     "search matches department",
			target:   "/api/v1/employees?q=eng",
			wantIDs:  []string{"EMP-001", "EMP-003"},
			wantMeta: controller.PaginationMeta{Page: 1, PageSize: 10, TotalMatched: 2, TotalPages: 1},
		},
		{
			name:     "second page of published courses",
			target:   "/api/v1/courses?status=published&page=2&page_size=2",
			wantIDs:  []string{"CRS-005", "CRS-008"},
			wantMeta: controller.PaginationMeta{Page: 2, PageSize: 2, TotalMatched: 4, TotalPages: 2},
		},
		{
			name:     "hire dates sort chronologically",
			target:   "/api/v1/employees?sort=hireDate&order=desc&page_size=3",
			wantIDs:  []string{"EMP-008", "EMP-009", "EMP-005"},
			wantMeta: controller.PaginationMeta{Page: 1, PageSize: 3, TotalMatched: 10, TotalPages: 4},
		},
		{
			name:     "names sort with collation",
			target:   "/api/v1/employees?sort=name&page_size=6",
			wantIDs:  []string{"EMP-001", "EMP-002", "EMP-003", "EMP-004", "EMP-005", "EMP-006"},
			wantMeta: controller.PaginationMeta{Page: 1, PageSize: 6, TotalMatched: 10, TotalPages: 2},
		},
		{
			name:     "filters combine",
			target:   "/api/v1/employees?department=Sales&location=Berlin&status=all",
			wantIDs:  []string{"EMP-002", "EMP-007"},
			wantMeta: controller.PaginationMeta{Page: 1, PageSize: 10, TotalMatched: 2, TotalPages: 1},
		},
		{
			name:     "pay stubs by period sorted by net pay",
			target:   "/api/v1/pay-stubs?period=2025-02&sort=netPay&order=desc",
			wantIDs:  []string{"PAY-006", "PAY-004", "PAY-005"},
			wantMeta: controller.PaginationMeta{Page: 1, PageSize: 10, TotalMatched: 3, TotalPages: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var body listResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := ids(body.Data); !equalStrings(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			if body.Pagination != tt.wantMeta {
				t.Errorf("pagination = %+v, want %+v", body.Pagination, tt.wantMeta)
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/goals/GOL-003", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("detail status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources", nil))
	var descriptors struct {
		Data []controller.Descriptor `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &descriptors); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(descriptors.Data) != 7 {
		t.Errorf("got %d descriptors", len(descriptors.Data))
	}
}

func TestCatalog_InvalidQuery(t *testing.T) {
	res, _ := fixtureCatalog(t).Lookup(ResourceCourses)
	_, err := res.List(context.Background(), repository.QueryOptions{
		Pagination: repository.Pagination{Page: 1, PageSize: 0},
	})
	if !errors.Is(err, listquery.ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewCatalog_RequiresData(t *testing.T) {
	if _, err := NewCatalog(Options{}); err == nil {
		t.Error("expected error without dataset or database")
	}
}

func TestNewCatalog_Database(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(employeesTable.columns).
		AddRow("E2", "Bea", "bea@x", "Sales", "Rep", "active", "Rome", 10.0, "2022-01-01").
		AddRow("E1", "Ann", "ann@x", "Engineering", "Dev", "active", "Oslo", 20.0, "2021-01-01")
	mock.ExpectQuery("SELECT id, name, email, department, position, status, location, salary, hire_date FROM employees ORDER BY id").
		WillReturnRows(rows)

	c, err := NewCatalog(Options{
		DB:          db,
		Snapshots:   repository.NewMemorySnapshotStore(),
		SnapshotTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	res, _ := c.Lookup(ResourceEmployees)

	opts := repository.QueryOptions{
		Sort:       repository.Sort{Field: "salary", Order: repository.SortDesc},
		Pagination: repository.Pagination{Page: 1, PageSize: 5},
	}
	for i := 0; i < 2; i++ {
		page, err := res.List(context.Background(), opts)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		items := page.Items.([]Employee)
		if len(items) != 2 || items[0].ID != "E1" {
			t.Errorf("items = %+v", items)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

package hr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFixtures_Bundled(t *testing.T) {
	ds, err := LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	counts := map[string]int{
		"employees":      len(ds.Employees),
		"benefit plans":  len(ds.BenefitPlans),
		"courses":        len(ds.Courses),
		"goals":          len(ds.Goals),
		"leave requests": len(ds.LeaveRequests),
		"documents":      len(ds.Documents),
		"pay stubs":      len(ds.PayStubs),
	}
	for name, n := range counts {
		if n == 0 {
			t.Errorf("no bundled %s", name)
		}
	}
	if len(ds.Courses) != 10 {
		t.Errorf("courses = %d, want 10", len(ds.Courses))
	}

	seen := map[string]bool{}
	for _, e := range ds.Employees {
		if seen[e.ID] {
			t.Errorf("duplicate employee id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestLoadFixtures_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	content := `
employees:
  - {id: E1, name: Ada, department: Engineering, status: active, salary: 1, hireDate: "2020-1-1"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	ds, err := LoadFixtures(path)
	if err != nil {
		t.Fatalf("LoadFixtures() error = %v", err)
	}
	if len(ds.Employees) != 1 || ds.Employees[0].Name != "Ada" {
		t.Errorf("employees = %+v", ds.Employees)
	}
	if len(ds.Courses) != 0 {
		t.Errorf("courses = %+v", ds.Courses)
	}
}

func TestLoadFixtures_Errors(t *testing.T) {
	if _, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	_, err := ParseFixtures([]byte("employes:\n  - {id: E1}\n"))
	if err == nil || !strings.Contains(err.Error(), "employes") {
		t.Errorf("ParseFixtures() error = %v, want unknown field error", err)
	}
}

func TestParseFixtures_Empty(t *testing.T) {
	ds, err := ParseFixtures(nil)
	if err != nil {
		t.Fatalf("ParseFixtures() error = %v", err)
	}
	if len(ds.Employees) != 0 {
		t.Errorf("employees = %+v", ds.Employees)
	}
}

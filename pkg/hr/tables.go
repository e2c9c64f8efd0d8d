package hr

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nimburion/hrportal/pkg/repository"
)

// table maps a record type onto a relational table. Column order drives both the SELECT
// scan and the seed INSERT.
type table[T any] struct {
	name    string
	columns []string
	scan    func(rows *sql.Rows) (*T, error)
	values  func(T) []any
}

func (t table[T]) source(executor repository.SQLExecutor) (*repository.SQLSource[T], error) {
	return repository.NewSQLSource(executor, t.name, "id", t.columns, repository.RowMapperFunc[T](t.scan))
}

func (t table[T]) insertStatement() string {
	placeholders := make([]string, len(t.columns))
	for i := range t.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO NOTHING",
		t.name, strings.Join(t.columns, ", "), strings.Join(placeholders, ", "))
}

// Execer runs write statements. *sql.DB satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (t table[T]) seed(ctx context.Context, db Execer, records []T) (int64, error) {
	stmt := t.insertStatement()
	var inserted int64
	for _, r := range records {
		res, err := db.ExecContext(ctx, stmt, t.values(r)...)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", t.name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	return inserted, nil
}

var employeesTable = table[Employee]{
	name:    "employees",
	columns: []string{"id", "name", "email", "department", "position", "status", "location", "salary", "hire_date"},
	scan: func(rows *sql.Rows) (*Employee, error) {
		var e Employee
		err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Department, &e.Position, &e.Status, &e.Location, &e.Salary, &e.HireDate)
		return &e, err
	},
	values: func(e Employee) []any {
		return []any{e.ID, e.Name, e.Email, e.Department, e.Position, e.Status, e.Location, e.Salary, e.HireDate}
	},
}

var benefitPlansTable = table[BenefitPlan]{
	name:    "benefit_plans",
	columns: []string{"id", "name", "type", "provider", "status", "monthly_cost", "enrolled_count", "effective_date"},
	scan: func(rows *sql.Rows) (*BenefitPlan, error) {
		var b BenefitPlan
		err := rows.Scan(&b.ID, &b.Name, &b.Type, &b.Provider, &b.Status, &b.MonthlyCost, &b.EnrolledCount, &b.EffectiveDate)
		return &b, err
	},
	values: func(b BenefitPlan) []any {
		return []any{b.ID, b.Name, b.Type, b.Provider, b.Status, b.MonthlyCost, b.EnrolledCount, b.EffectiveDate}
	},
}

var coursesTable = table[Course]{
	name:    "courses",
	columns: []string{"id", "title", "category", "instructor", "status", "level", "duration_hours", "enrolled_count", "start_date"},
	scan: func(rows *sql.Rows) (*Course, error) {
		var c Course
		err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Instructor, &c.Status, &c.Level, &c.DurationHours, &c.EnrolledCount, &c.StartDate)
		return &c, err
	},
	values: func(c Course) []any {
		return []any{c.ID, c.Title, c.Category, c.Instructor, c.Status, c.Level, c.DurationHours, c.EnrolledCount, c.StartDate}
	},
}

var goalsTable = table[Goal]{
	name:    "goals",
	columns: []string{"id", "title", "owner", "category", "status", "priority", "progress", "due_date"},
	scan: func(rows *sql.Rows) (*Goal, error) {
		var g Goal
		err := rows.Scan(&g.ID, &g.Title, &g.Owner, &g.Category, &g.Status, &g.Priority, &g.Progress, &g.DueDate)
		return &g, err
	},
	values: func(g Goal) []any {
		return []any{g.ID, g.Title, g.Owner, g.Category, g.Status, g.Priority, g.Progress, g.DueDate}
	},
}

var leaveRequestsTable = table[LeaveRequest]{
	name:    "leave_requests",
	columns: []string{"id", "employee_name", "department", "type", "status", "days", "start_date", "end_date"},
	scan: func(rows *sql.Rows) (*LeaveRequest, error) {
		var l LeaveRequest
		err := rows.Scan(&l.ID, &l.EmployeeName, &l.Department, &l.Type, &l.Status, &l.Days, &l.StartDate, &l.EndDate)
		return &l, err
	},
	values: func(l LeaveRequest) []any {
		return []any{l.ID, l.EmployeeName, l.Department, l.Type, l.Status, l.Days, l.StartDate, l.EndDate}
	},
}

var documentsTable = table[Document]{
	name:    "documents",
	columns: []string{"id", "title", "category", "owner", "status", "size_kb", "uploaded_at"},
	scan: func(rows *sql.Rows) (*Document, error) {
		var d Document
		err := rows.Scan(&d.ID, &d.Title, &d.Category, &d.Owner, &d.Status, &d.SizeKB, &d.UploadedAt)
		return &d, err
	},
	values: func(d Document) []any {
		return []any{d.ID, d.Title, d.Category, d.Owner, d.Status, d.SizeKB, d.UploadedAt}
	},
}

var payStubsTable = table[PayStub]{
	name:    "pay_stubs",
	columns: []string{"id", "employee_name", "department", "period", "status", "gross_pay", "net_pay", "pay_date"},
	scan: func(rows *sql.Rows) (*PayStub, error) {
		var p PayStub
		err := rows.Scan(&p.ID, &p.EmployeeName, &p.Department, &p.Period, &p.Status, &p.GrossPay, &p.NetPay, &p.PayDate)
		return &p, err
	},
	values: func(p PayStub) []any {
		return []any{p.ID, p.EmployeeName, p.Department, p.Period, p.Status, p.GrossPay, p.NetPay, p.PayDate}
	},
}

// Seed inserts every record of ds into the HR tables, skipping ids already present. It
// returns the number of inserted rows.
func Seed(ctx context.Context, db Execer, ds *Dataset) (int64, error) {
	steps := []func() (int64, error){
		func() (int64, error) { return employeesTable.seed(ctx, db, ds.Employees) },
		func() (int64, error) { return benefitPlansTable.seed(ctx, db, ds.BenefitPlans) },
		func() (int64, error) { return coursesTable.seed(ctx, db, ds.Courses) },
		func() (int64, error) { return goalsTable.seed(ctx, db, ds.Goals) },
		func() (int64, error) { return leaveRequestsTable.seed(ctx, db, ds.LeaveRequests) },
		func() (int64, error) { return documentsTable.seed(ctx, db, ds.Documents) },
		func() (int64, error) { return payStubsTable.seed(ctx, db, ds.PayStubs) },
	}
	var total int64
	for _, step := range steps {
		n, err := step()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

package hr

import (
	lq "github.com/nimburion/hrportal/pkg/listquery"
)

// Resource names as they appear in URLs and on the command line.
const (
	ResourceEmployees     = "employees"
	ResourceBenefitPlans  = "benefit-plans"
	ResourceCourses       = "courses"
	ResourceGoals         = "goals"
	ResourceLeaveRequests = "leave-requests"
	ResourceDocuments     = "documents"
	ResourcePayStubs      = "pay-stubs"
)

// EmployeeSchema: search by name, email or position; filter by department, status, location.
func EmployeeSchema(opts ...lq.Option) *lq.Schema[Employee] {
	return lq.NewSchema([]lq.Field[Employee]{
		lq.String("name", func(e Employee) string { return e.Name }, lq.Searchable, lq.Sortable),
		lq.String("email", func(e Employee) string { return e.Email }, lq.Searchable),
		lq.String("department", func(e Employee) string { return e.Department }, lq.Searchable, lq.Filterable, lq.Sortable),
		lq.String("position", func(e Employee) string { return e.Position }, lq.Searchable, lq.Sortable),
		lq.String("status", func(e Employee) string { return e.Status }, lq.Filterable, lq.Sortable),
		lq.String("location", func(e Employee) string { return e.Location }, lq.Filterable, lq.Sortable),
		lq.Number("salary", func(e Employee) float64 { return e.Salary }, lq.Sortable),
		lq.Date("hireDate", func(e Employee) string { return e.HireDate }, lq.Sortable),
	}, opts...)
}

func BenefitPlanSchema(opts ...lq.Option) *lq.Schema[BenefitPlan] {
	return lq.NewSchema([]lq.Field[BenefitPlan]{
		lq.String("name", func(b BenefitPlan) string { return b.Name }, lq.Searchable, lq.Sortable),
		lq.String("type", func(b BenefitPlan) string { return b.Type }, lq.Filterable, lq.Sortable),
		lq.String("provider", func(b BenefitPlan) string { return b.Provider }, lq.Searchable, lq.Sortable),
		lq.String("status", func(b BenefitPlan) string { return b.Status }, lq.Filterable),
		lq.Number("monthlyCost", func(b BenefitPlan) float64 { return b.MonthlyCost }, lq.Sortable),
		lq.Number("enrolledCount", func(b BenefitPlan) float64 { return float64(b.EnrolledCount) }, lq.Sortable),
		lq.Date("effectiveDate", func(b BenefitPlan) string { return b.EffectiveDate }, lq.Sortable),
	}, opts...)
}

func CourseSchema(opts ...lq.Option) *lq.Schema[Course] {
	return lq.NewSchema([]lq.Field[Course]{
		lq.String("title", func(c Course) string { return c.Title }, lq.Searchable, lq.Sortable),
		lq.String("category", func(c Course) string { return c.Category }, lq.Searchable, lq.Filterable, lq.Sortable),
		lq.String("instructor", func(c Course) string { return c.Instructor }, lq.Searchable, lq.Sortable),
		lq.String("status", func(c Course) string { return c.Status }, lq.Filterable),
		lq.String("level", func(c Course) string { return c.Level }, lq.Filterable, lq.Sortable),
		lq.Number("durationHours", func(c Course) float64 { return c.DurationHours }, lq.Sortable),
		lq.Number("enrolledCount", func(c Course) float64 { return float64(c.EnrolledCount) }, lq.Sortable),
		lq.Date("startDate", func(c Course) string { return c.StartDate }, lq.Sortable),
	}, opts...)
}

func GoalSchema(opts ...lq.Option) *lq.Schema[Goal] {
	return lq.NewSchema([]lq.Field[Goal]{
		lq.String("title", func(g Goal) string { return g.Title }, lq.Searchable, lq.Sortable),
		lq.String("owner", func(g Goal) string { return g.Owner }, lq.Searchable, lq.Sortable),
		lq.String("category", func(g Goal) string { return g.Category }, lq.Filterable),
		lq.String("status", func(g Goal) string { return g.Status }, lq.Filterable, lq.Sortable),
		lq.String("priority", func(g Goal) string { return g.Priority }, lq.Filterable),
		lq.Number("progress", func(g Goal) float64 { return g.Progress }, lq.Sortable),
		lq.Date("dueDate", func(g Goal) string { return g.DueDate }, lq.Sortable),
	}, opts...)
}

func LeaveRequestSchema(opts ...lq.Option) *lq.Schema[LeaveRequest] {
	return lq.NewSchema([]lq.Field[LeaveRequest]{
		lq.String("employeeName", func(l LeaveRequest) string { return l.EmployeeName }, lq.Searchable, lq.Sortable),
		lq.String("department", func(l LeaveRequest) string { return l.Department }, lq.Filterable, lq.Sortable),
		lq.String("type", func(l LeaveRequest) string { return l.Type }, lq.Searchable, lq.Filterable),
		lq.String("status", func(l LeaveRequest) string { return l.Status }, lq.Filterable, lq.Sortable),
		lq.Number("days", func(l LeaveRequest) float64 { return l.Days }, lq.Sortable),
		lq.Date("startDate", func(l LeaveRequest) string { return l.StartDate }, lq.Sortable),
		lq.Date("endDate", func(l LeaveRequest) string { return l.EndDate }, lq.Sortable),
	}, opts...)
}

func DocumentSchema(opts ...lq.Option) *lq.Schema[Document] {
	return lq.NewSchema([]lq.Field[Document]{
		lq.String("title", func(d Document) string { return d.Title }, lq.Searchable, lq.Sortable),
		lq.String("category", func(d Document) string { return d.Category }, lq.Filterable, lq.Sortable),
		lq.String("owner", func(d Document) string { return d.Owner }, lq.Searchable, lq.Sortable),
		lq.String("status", func(d Document) string { return d.Status }, lq.Filterable),
		lq.Number("sizeKB", func(d Document) float64 { return d.SizeKB }, lq.Sortable),
		lq.Date("uploadedAt", func(d Document) string { return d.UploadedAt }, lq.Sortable),
	}, opts...)
}

func PayStubSchema(opts ...lq.Option) *lq.Schema[PayStub] {
	return lq.NewSchema([]lq.Field[PayStub]{
		lq.String("employeeName", func(p PayStub) string { return p.EmployeeName }, lq.Searchable, lq.Sortable),
		lq.String("department", func(p PayStub) string { return p.Department }, lq.Filterable, lq.Sortable),
		lq.String("period", func(p PayStub) string { return p.Period }, lq.Searchable, lq.Filterable),
		lq.String("status", func(p PayStub) string { return p.Status }, lq.Filterable),
		lq.Number("grossPay", func(p PayStub) float64 { return p.GrossPay }, lq.Sortable),
		lq.Number("netPay", func(p PayStub) float64 { return p.NetPay }, lq.Sortable),
		lq.Date("payDate", func(p PayStub) string { return p.PayDate }, lq.Sortable),
	}, opts...)
}

// Package hr declares the HR record types behind the portal's list screens, the field schemas
// the list query pipeline runs against, and the catalog that serves them.
package hr

// Employee is an entry of the employee directory.
type Employee struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Email      string  `json:"email" yaml:"email"`
	Department string  `json:"department" yaml:"department"`
	Position   string  `json:"position" yaml:"position"`
	Status     string  `json:"status" yaml:"status"`
	Location   string  `json:"location" yaml:"location"`
	Salary     float64 `json:"salary" yaml:"salary"`
	HireDate   string  `json:"hireDate" yaml:"hireDate"`
}

// BenefitPlan is a plan offered in the benefits catalog.
type BenefitPlan struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Type          string  `json:"type" yaml:"type"`
	Provider      string  `json:"provider" yaml:"provider"`
	Status        string  `json:"status" yaml:"status"`
	MonthlyCost   float64 `json:"monthlyCost" yaml:"monthlyCost"`
	EnrolledCount int     `json:"enrolledCount" yaml:"enrolledCount"`
	EffectiveDate string  `json:"effectiveDate" yaml:"effectiveDate"`
}

// Course is a training course.
type Course struct {
	ID            string  `json:"id" yaml:"id"`
	Title         string  `json:"title" yaml:"title"`
	Category      string  `json:"category" yaml:"category"`
	Instructor    string  `json:"instructor" yaml:"instructor"`
	Status        string  `json:"status" yaml:"status"`
	Level         string  `json:"level" yaml:"level"`
	DurationHours float64 `json:"durationHours" yaml:"durationHours"`
	EnrolledCount int     `json:"enrolledCount" yaml:"enrolledCount"`
	StartDate     string  `json:"startDate" yaml:"startDate"`
}

// Goal is a performance goal.
type Goal struct {
	ID       string  `json:"id" yaml:"id"`
	Title    string  `json:"title" yaml:"title"`
	Owner    string  `json:"owner" yaml:"owner"`
	Category string  `json:"category" yaml:"category"`
	Status   string  `json:"status" yaml:"status"`
	Priority string  `json:"priority" yaml:"priority"`
	Progress float64 `json:"progress" yaml:"progress"`
	DueDate  string  `json:"dueDate" yaml:"dueDate"`
}

// LeaveRequest is a time-off request.
type LeaveRequest struct {
	ID           string  `json:"id" yaml:"id"`
	EmployeeName string  `json:"employeeName" yaml:"employeeName"`
	Department   string  `json:"department" yaml:"department"`
	Type         string  `json:"type" yaml:"type"`
	Status       string  `json:"status" yaml:"status"`
	Days         float64 `json:"days" yaml:"days"`
	StartDate    string  `json:"startDate" yaml:"startDate"`
	EndDate      string  `json:"endDate" yaml:"endDate"`
}

// Document is an entry of the document library.
type Document struct {
	ID         string  `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Category   string  `json:"category" yaml:"category"`
	Owner      string  `json:"owner" yaml:"owner"`
	Status     string  `json:"status" yaml:"status"`
	SizeKB     float64 `json:"sizeKB" yaml:"sizeKB"`
	UploadedAt string  `json:"uploadedAt" yaml:"uploadedAt"`
}

// PayStub is one payroll statement.
type PayStub struct {
	ID           string  `json:"id" yaml:"id"`
	EmployeeName string  `json:"employeeName" yaml:"employeeName"`
	Department   string  `json:"department" yaml:"department"`
	Period       string  `json:"period" yaml:"period"`
	Status       string  `json:"status" yaml:"status"`
	GrossPay     float64 `json:"grossPay" yaml:"grossPay"`
	NetPay       float64 `json:"netPay" yaml:"netPay"`
	PayDate      string  `json:"payDate" yaml:"payDate"`
}

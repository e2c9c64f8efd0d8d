package listquery

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"golang.org/x/text/language"
)

type employee struct {
	ID         string
	Name       string
	Department string
	Status     string
	HireDate   string
	Salary     float64
}

func employeeSchema() *Schema[employee] {
	return NewSchema([]Field[employee]{
		String("name", func(e employee) string { return e.Name }, Searchable, Sortable),
		String("department", func(e employee) string { return e.Department }, Searchable, Filterable, Sortable),
		String("status", func(e employee) string { return e.Status }, Filterable),
		Date("hireDate", func(e employee) string { return e.HireDate }, Filterable, Sortable),
		Number("salary", func(e employee) float64 { return e.Salary }, Filterable, Sortable),
	})
}

func fiveEmployees() []employee {
	return []employee{
		{ID: "1", Name: "Alice Smith", Department: "Engineering", Status: "active", HireDate: "2021-03-15", Salary: 120000},
		{ID: "2", Name: "Bob Jones", Department: "Sales", Status: "active", HireDate: "2020-11-01", Salary: 80000},
		{ID: "3", Name: "Carol White", Department: "Engineering", Status: "on-leave", HireDate: "2019-7-4", Salary: 135000},
		{ID: "4", Name: "Dan Brown", Department: "Marketing", Status: "active", HireDate: "2022-01-10", Salary: 80000},
		{ID: "5", Name: "Eve Black", Department: "Finance", Status: "inactive", HireDate: "2018-2-28", Salary: 95000},
	}
}

func ids(items []employee) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.ID
	}
	return out
}

func TestQuery_Search(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		wantIDs []string
	}{
		{name: "department substring", search: "eng", wantIDs: []string{"1", "3"}},
		{name: "case insensitive", search: "ENG", wantIDs: []string{"1", "3"}},
		{name: "name substring", search: "bro", wantIDs: []string{"4"}},
		{name: "no match", search: "zzz", wantIDs: []string{}},
		{name: "empty term keeps all", search: "", wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "status is not searchable", search: "inactive", wantIDs: []string{}},
	}

	schema := employeeSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Query(fiveEmployees(), Params{Search: tt.search, Page: 1, PageSize: 10})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got.Items), tt.wantIDs) {
				t.Errorf("Query() ids = %v, want %v", ids(got.Items), tt.wantIDs)
			}
			if got.TotalMatched != len(tt.wantIDs) {
				t.Errorf("TotalMatched = %d, want %d", got.TotalMatched, len(tt.wantIDs))
			}
		})
	}
}

func TestQuery_Filters(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
		wantIDs []string
	}{
		{name: "single filter", filters: map[string]string{"status": "active"}, wantIDs: []string{"1", "2", "4"}},
		{name: "conjunction", filters: map[string]string{"status": "active", "department": "Engineering"}, wantIDs: []string{"1"}},
		{name: "all sentinel", filters: map[string]string{"status": All, "department": "Engineering"}, wantIDs: []string{"1", "3"}},
		{name: "empty value is unconstrained", filters: map[string]string{"status": ""}, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "case sensitive", filters: map[string]string{"department": "engineering"}, wantIDs: []string{}},
		{name: "number filter", filters: map[string]string{"salary": "80000"}, wantIDs: []string{"2", "4"}},
		{name: "date filter on parsed instant", filters: map[string]string{"hireDate": "2019-07-04"}, wantIDs: []string{"3"}},
	}

	schema := employeeSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Query(fiveEmployees(), Params{Filters: tt.filters, Page: 1, PageSize: 10})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got.Items), tt.wantIDs) {
				t.Errorf("Query() ids = %v, want %v", ids(got.Items), tt.wantIDs)
			}
		})
	}
}

func TestQuery_Sort(t *testing.T) {
	tests := []struct {
		name    string
		sort    *Sort
		wantIDs []string
	}{
		{name: "no sort keeps collection order", sort: nil, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "string ascending", sort: &Sort{Field: "name", Order: Asc}, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "string descending", sort: &Sort{Field: "name", Order: Desc}, wantIDs: []string{"5", "4", "3", "2", "1"}},
		{name: "empty order is ascending", sort: &Sort{Field: "salary"}, wantIDs: []string{"2", "4", "5", "1", "3"}},
		{name: "number descending keeps ties in insertion order", sort: &Sort{Field: "salary", Order: Desc}, wantIDs: []string{"3", "1", "5", "2", "4"}},
		{name: "date ascending is chronological", sort: &Sort{Field: "hireDate", Order: Asc}, wantIDs: []string{"5", "3", "2", "1", "4"}},
		{name: "stable ties on string field", sort: &Sort{Field: "department", Order: Asc}, wantIDs: []string{"1", "3", "5", "4", "2"}},
	}

	schema := employeeSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Query(fiveEmployees(), Params{Sort: tt.sort, Page: 1, PageSize: 10})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got.Items), tt.wantIDs) {
				t.Errorf("Query() ids = %v, want %v", ids(got.Items), tt.wantIDs)
			}
		})
	}
}

func TestQuery_DateSortIsNotLexicographic(t *testing.T) {
	records := []employee{
		{ID: "oct", HireDate: "2024-10-01"},
		{ID: "feb", HireDate: "2024-2-01"},
	}
	got, err := employeeSchema().Query(records, Params{Sort: &Sort{Field: "hireDate", Order: Asc}, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if want := []string{"feb", "oct"}; !reflect.DeepEqual(ids(got.Items), want) {
		t.Errorf("Query() ids = %v, want %v", ids(got.Items), want)
	}
}

func TestQuery_StringSortUsesCollation(t *testing.T) {
	records := []employee{
		{ID: "z", Name: "Zoe"},
		{ID: "e", Name: "Émile"},
		{ID: "a", Name: "adam"},
	}
	schema := NewSchema([]Field[employee]{
		String("name", func(e employee) string { return e.Name }, Sortable),
	}, WithLocale(language.French))

	got, err := schema.Query(records, Params{Sort: &Sort{Field: "name", Order: Asc}, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if want := []string{"a", "e", "z"}; !reflect.DeepEqual(ids(got.Items), want) {
		t.Errorf("Query() ids = %v, want %v", ids(got.Items), want)
	}
}

func TestQuery_UnparseableDatesSortFirst(t *testing.T) {
	records := []employee{
		{ID: "dated", HireDate: "2020-01-01"},
		{ID: "blank", HireDate: ""},
		{ID: "junk", HireDate: "soon"},
	}
	got, err := employeeSchema().Query(records, Params{Sort: &Sort{Field: "hireDate", Order: Asc}, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if want := []string{"blank", "junk", "dated"}; !reflect.DeepEqual(ids(got.Items), want) {
		t.Errorf("Query() ids = %v, want %v", ids(got.Items), want)
	}
}

type course struct {
	ID     string
	Title  string
	Status string
}

func TestQuery_PublishedCoursesSecondPage(t *testing.T) {
	statuses := []string{"draft", "published", "archived", "published", "draft", "published", "draft", "archived", "published", "draft"}
	courses := make([]course, len(statuses))
	for i, s := range statuses {
		courses[i] = course{ID: string(rune('a' + i)), Title: "Course", Status: s}
	}
	schema := NewSchema([]Field[course]{
		String("title", func(c course) string { return c.Title }, Searchable, Sortable),
		String("status", func(c course) string { return c.Status }, Filterable),
	})

	got, err := schema.Query(courses, Params{Filters: map[string]string{"status": "published"}, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got.TotalMatched != 4 {
		t.Errorf("TotalMatched = %d, want 4", got.TotalMatched)
	}
	if got.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", got.TotalPages)
	}
	if len(got.Items) != 2 || got.Items[0].ID != "f" || got.Items[1].ID != "i" {
		t.Errorf("Items = %+v, want published courses f and i", got.Items)
	}
}

func TestQuery_Pagination(t *testing.T) {
	schema := employeeSchema()
	tests := []struct {
		name           string
		records        []employee
		page, pageSize int
		wantIDs        []string
		wantTotal      int
		wantPages      int
	}{
		{name: "single page holds all", records: fiveEmployees()[:3], page: 1, pageSize: 10, wantIDs: []string{"1", "2", "3"}, wantTotal: 3, wantPages: 1},
		{name: "empty collection", records: nil, page: 1, pageSize: 10, wantIDs: []string{}, wantTotal: 0, wantPages: 0},
		{name: "last partial page", records: fiveEmployees(), page: 3, pageSize: 2, wantIDs: []string{"5"}, wantTotal: 5, wantPages: 3},
		{name: "page past the end is empty", records: fiveEmployees(), page: 4, pageSize: 2, wantIDs: []string{}, wantTotal: 5, wantPages: 3},
		{name: "far past the end is empty", records: fiveEmployees(), page: 1000, pageSize: 2, wantIDs: []string{}, wantTotal: 5, wantPages: 3},
		{name: "exact multiple", records: fiveEmployees()[:4], page: 2, pageSize: 2, wantIDs: []string{"3", "4"}, wantTotal: 4, wantPages: 2},
		{name: "page whose offset overflows is empty", records: fiveEmployees(), page: 1<<61 + 1, pageSize: 8, wantIDs: []string{}, wantTotal: 5, wantPages: 1},
		{name: "max page size is one page", records: fiveEmployees(), page: 1, pageSize: math.MaxInt, wantIDs: []string{"1", "2", "3", "4", "5"}, wantTotal: 5, wantPages: 1},
		{name: "max page and page size", records: fiveEmployees(), page: math.MaxInt, pageSize: math.MaxInt, wantIDs: []string{}, wantTotal: 5, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schema.Query(tt.records, Params{Page: tt.page, PageSize: tt.pageSize})
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if got.Items == nil {
				t.Fatal("Items is nil, want empty slice")
			}
			if !reflect.DeepEqual(ids(got.Items), tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids(got.Items), tt.wantIDs)
			}
			if got.TotalMatched != tt.wantTotal {
				t.Errorf("TotalMatched = %d, want %d", got.TotalMatched, tt.wantTotal)
			}
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
		})
	}
}

func TestQuery_InvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		wantParam string
		wantField string
	}{
		{name: "zero page size", params: Params{Page: 1, PageSize: 0}, wantParam: "page_size"},
		{name: "negative page size", params: Params{Page: 1, PageSize: -3}, wantParam: "page_size"},
		{name: "zero page", params: Params{Page: 0, PageSize: 10}, wantParam: "page"},
		{name: "unknown sort field", params: Params{Page: 1, PageSize: 10, Sort: &Sort{Field: "shoeSize"}}, wantParam: "sort", wantField: "shoeSize"},
		{name: "field not sortable", params: Params{Page: 1, PageSize: 10, Sort: &Sort{Field: "status"}}, wantParam: "sort", wantField: "status"},
		{name: "bad order", params: Params{Page: 1, PageSize: 10, Sort: &Sort{Field: "name", Order: "sideways"}}, wantParam: "order"},
		{name: "unknown filter field", params: Params{Page: 1, PageSize: 10, Filters: map[string]string{"team": "x"}}, wantParam: "filter", wantField: "team"},
		{name: "field not filterable", params: Params{Page: 1, PageSize: 10, Filters: map[string]string{"name": "Alice Smith"}}, wantParam: "filter", wantField: "name"},
		{name: "unknown filter field with all sentinel", params: Params{Page: 1, PageSize: 10, Filters: map[string]string{"team": All}}, wantParam: "filter", wantField: "team"},
		{name: "non numeric number filter", params: Params{Page: 1, PageSize: 10, Filters: map[string]string{"salary": "lots"}}, wantParam: "filter", wantField: "salary"},
		{name: "non date date filter", params: Params{Page: 1, PageSize: 10, Filters: map[string]string{"hireDate": "yesterday"}}, wantParam: "filter", wantField: "hireDate"},
	}

	schema := employeeSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, records := range [][]employee{nil, fiveEmployees()} {
				_, err := schema.Query(records, tt.params)
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("Query() error = %v, want ErrInvalidArgument", err)
				}
				var iae *InvalidArgumentError
				if !errors.As(err, &iae) {
					t.Fatalf("Query() error %T is not *InvalidArgumentError", err)
				}
				if iae.Param != tt.wantParam || iae.Field != tt.wantField {
					t.Errorf("InvalidArgumentError = %+v, want param %q field %q", iae, tt.wantParam, tt.wantField)
				}
			}
		})
	}
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	records := fiveEmployees()
	before := fiveEmployees()

	got, err := employeeSchema().Query(records, Params{
		Sort:     &Sort{Field: "name", Order: Desc},
		Page:     1,
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if !reflect.DeepEqual(records, before) {
		t.Errorf("input collection was modified: %+v", records)
	}

	got.Items[0].Name = "changed"
	if records[4].Name == "changed" {
		t.Error("result items alias the input collection")
	}
}

func TestQuery_NoSearchableFieldsMatchesNothing(t *testing.T) {
	schema := NewSchema([]Field[employee]{
		String("status", func(e employee) string { return e.Status }, Filterable),
	})
	got, err := schema.Query(fiveEmployees(), Params{Search: "a", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if got.TotalMatched != 0 {
		t.Errorf("TotalMatched = %d, want 0", got.TotalMatched)
	}
}

func TestNewSchema_Panics(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field[employee]
	}{
		{
			name: "duplicate name",
			fields: []Field[employee]{
				String("name", func(e employee) string { return e.Name }),
				String("name", func(e employee) string { return e.Name }),
			},
		},
		{
			name:   "empty name",
			fields: []Field[employee]{String("", func(e employee) string { return e.Name })},
		},
		{
			name:   "searchable number",
			fields: []Field[employee]{Number("salary", func(e employee) float64 { return e.Salary }, Searchable)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("NewSchema() did not panic")
				}
			}()
			NewSchema(tt.fields)
		})
	}
}

func TestSchema_Fields(t *testing.T) {
	schema := employeeSchema()
	if got, want := schema.Fields(Searchable), []string{"name", "department"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fields(Searchable) = %v, want %v", got, want)
	}
	if got, want := schema.Fields(Filterable), []string{"department", "status", "hireDate", "salary"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fields(Filterable) = %v, want %v", got, want)
	}
	if got, want := schema.Fields(Sortable), []string{"name", "department", "hireDate", "salary"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Fields(Sortable) = %v, want %v", got, want)
	}
	if f, ok := schema.Field("hireDate"); !ok || f.Kind() != KindDate {
		t.Errorf("Field(hireDate) = %v, %v", f.Kind(), ok)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		want   string
	}{
		{in: "2024-2-01", wantOK: true, want: "2024-02-01"},
		{in: "2024-10-01", wantOK: true, want: "2024-10-01"},
		{in: "2024/3/9", wantOK: true, want: "2024-03-09"},
		{in: "2024-03-09T10:00:00Z", wantOK: true, want: "2024-03-09"},
		{in: " 2024-03-09 ", wantOK: true, want: "2024-03-09"},
		{in: "", wantOK: false},
		{in: "March", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

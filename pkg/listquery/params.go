package listquery

import "strings"

// All is the filter value meaning "no constraint on this field".
const All = "all"

// Order is the sort direction.
type Order string

const (
	// Asc sorts in ascending order.
	Asc Order = "asc"
	// Desc sorts in descending order.
	Desc Order = "desc"
)

// ParseOrder converts user input into an Order. The empty string means ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", invalid("order", "", "must be asc or desc")
	}
}

// Sort selects the sort key and direction.
type Sort struct {
	Field string
	Order Order
}

// Params is the complete query for one invocation.
type Params struct {
	// Search is matched case-insensitively against every searchable field. Empty disables it.
	Search string
	// Filters maps filterable field names to required values. All or "" leave a field unconstrained.
	Filters map[string]string
	// Sort is optional. A nil Sort keeps the collection order.
	Sort *Sort
	// Page is 1-indexed.
	Page int
	// PageSize must be positive.
	PageSize int
}

// Result is one page of the matched records plus the metadata needed by pagination controls.
type Result[R any] struct {
	Items        []R `json:"items"`
	TotalMatched int `json:"total_matched"`
	TotalPages   int `json:"total_pages"`
}

func unconstrained(v string) bool {
	return v == "" || v == All
}

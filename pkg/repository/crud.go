// Package repository exposes HR collections through a read-only repository contract. Every
// list read loads the full collection from a Source and runs the list query pipeline on it.
package repository

import (
	"context"
	"errors"
	"maps"

	"github.com/nimburion/hrportal/pkg/listquery"
)

// ErrNotFound is returned when no entity has the requested id.
var ErrNotFound = errors.New("entity not found")

// Reader is the read side of an HR collection. FindAll and Count run the list query pipeline,
// so their errors wrap listquery.ErrInvalidArgument for rejected options.
type Reader[T any, ID comparable] interface {
	FindByID(ctx context.Context, id ID) (*T, error)
	FindAll(ctx context.Context, opts QueryOptions) (listquery.Result[T], error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// QueryOptions is one list request as the transports bind it.
type QueryOptions struct {
	Search     string
	Filter     Filter
	Sort       Sort
	Pagination Pagination
}

// Filter maps field names to the required value. listquery.All or "" leaves a field unconstrained.
type Filter map[string]string

// Sort names the sort key. An empty Field keeps source order.
type Sort struct {
	Field string
	Order SortOrder
}

// SortOrder is the pipeline's order; anything but asc or desc is rejected by the pipeline.
type SortOrder = listquery.Order

// Sort orders.
const (
	SortAsc  = listquery.Asc
	SortDesc = listquery.Desc
)

// Pagination selects a 1-indexed page.
type Pagination struct {
	Page     int
	PageSize int
}

// Params converts the options into pipeline parameters. The filter map is copied.
func (o QueryOptions) Params() listquery.Params {
	p := listquery.Params{
		Search:   o.Search,
		Filters:  maps.Clone(o.Filter),
		Page:     o.Pagination.Page,
		PageSize: o.Pagination.PageSize,
	}
	if len(p.Filters) == 0 {
		p.Filters = nil
	}
	if o.Sort.Field != "" {
		p.Sort = &listquery.Sort{Field: o.Sort.Field, Order: o.Sort.Order}
	}
	return p
}

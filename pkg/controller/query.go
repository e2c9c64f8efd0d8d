package controller

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/nimburion/hrportal/pkg/listquery"
	"github.com/nimburion/hrportal/pkg/repository"
)

// Query string parameter names understood by list endpoints. Every other parameter must name a
// filterable field of the resource and is taken as a filter.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamOrder    = "order"
	ParamPage     = "page"
	ParamPageSize = "page_size"
)

// ListingOptions bounds the page size accepted by list endpoints.
type ListingOptions struct {
	DefaultPageSize int
	// MaxPageSize caps page_size; zero disables the cap.
	MaxPageSize int
}

// DefaultListingOptions returns the page size defaults of the list screens.
func DefaultListingOptions() ListingOptions {
	return ListingOptions{DefaultPageSize: 10, MaxPageSize: 100}
}

// BindQueryOptions builds repository options from a query string. A parameter that is neither
// reserved nor a filterable field is rejected. Range checks on page and page_size are left to the
// pipeline so that every rejection carries the same error kind.
func BindQueryOptions(values url.Values, filterable []string, opts ListingOptions) (repository.QueryOptions, error) {
	for name := range values {
		if !isReserved(name) && !slices.Contains(filterable, name) {
			return repository.QueryOptions{}, &listquery.InvalidArgumentError{Param: "filter", Field: name, Reason: "unknown filterable field"}
		}
	}

	out := repository.QueryOptions{
		Search: strings.TrimSpace(values.Get(ParamSearch)),
		Pagination: repository.Pagination{
			Page:     1,
			PageSize: opts.DefaultPageSize,
		},
	}

	if raw := values.Get(ParamPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return out, &listquery.InvalidArgumentError{Param: ParamPage, Reason: "must be an integer"}
		}
		out.Pagination.Page = page
	}
	if raw := values.Get(ParamPageSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return out, &listquery.InvalidArgumentError{Param: ParamPageSize, Reason: "must be an integer"}
		}
		out.Pagination.PageSize = size
	}
	if opts.MaxPageSize > 0 && out.Pagination.PageSize > opts.MaxPageSize {
		out.Pagination.PageSize = opts.MaxPageSize
	}

	if field := values.Get(ParamSort); field != "" {
		order, err := listquery.ParseOrder(values.Get(ParamOrder))
		if err != nil {
			return out, err
		}
		out.Sort = repository.Sort{Field: field, Order: repository.SortOrder(order)}
	}

	for _, name := range filterable {
		if _, ok := values[name]; ok {
			if out.Filter == nil {
				out.Filter = repository.Filter{}
			}
			out.Filter[name] = values.Get(name)
		}
	}
	return out, nil
}

func isReserved(name string) bool {
	switch name {
	case ParamSearch, ParamSort, ParamOrder, ParamPage, ParamPageSize:
		return true
	}
	return false
}

package listquery

import (
	"sort"

	"golang.org/x/text/collate"
)

// Query runs the pipeline: search, filter, stable sort, then paginate. The collection is not
// modified. Parameters are validated before any record is examined, so the returned error is
// always wrapped around ErrInvalidArgument.
func (s *Schema[R]) Query(collection []R, p Params) (Result[R], error) {
	plan, err := s.compile(p)
	if err != nil {
		return Result[R]{}, err
	}

	matched := make([]R, 0, len(collection))
	for _, r := range collection {
		if plan.search != nil && !plan.search.match(r) {
			continue
		}
		if !plan.accept(r) {
			continue
		}
		matched = append(matched, r)
	}

	if plan.sortField != nil {
		sortStable(matched, *plan.sortField, plan.order, collate.New(s.locale))
	}

	total := len(matched)
	result := Result[R]{
		Items:        []R{},
		TotalMatched: total,
		TotalPages:   pageCount(total, p.PageSize),
	}
	if p.Page > result.TotalPages {
		return result, nil
	}

	// page <= TotalPages keeps start below total, so neither bound can overflow.
	start := (p.Page - 1) * p.PageSize
	end := start + min(p.PageSize, total-start)
	result.Items = matched[start:end:end]
	return result, nil
}

func pageCount(total, size int) int {
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

type plan[R any] struct {
	search    *searcher[R]
	filters   []matcher[R]
	sortField *Field[R]
	order     Order
}

func (p *plan[R]) accept(r R) bool {
	for _, m := range p.filters {
		if !m(r) {
			return false
		}
	}
	return true
}

func (s *Schema[R]) compile(p Params) (*plan[R], error) {
	if p.PageSize <= 0 {
		return nil, invalid("page_size", "", "must be positive")
	}
	if p.Page < 1 {
		return nil, invalid("page", "", "must be at least 1")
	}

	out := &plan[R]{}
	// A schema without searchable fields matches nothing for a non-empty term.
	if p.Search != "" {
		fields := make([]Field[R], len(s.searchable))
		for i, idx := range s.searchable {
			fields[i] = s.fields[idx]
		}
		out.search = newSearcher(fields, p.Search)
	}

	// Map iteration order is random; compile in name order so the first reported error is stable.
	names := make([]string, 0, len(p.Filters))
	for name := range p.Filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := s.Field(name)
		if !ok || !f.Has(Filterable) {
			return nil, invalid("filter", name, "unknown filterable field")
		}
		value := p.Filters[name]
		if unconstrained(value) {
			continue
		}
		m, err := compileFilter(f, value)
		if err != nil {
			return nil, err
		}
		out.filters = append(out.filters, m)
	}

	if p.Sort != nil {
		f, ok := s.Field(p.Sort.Field)
		if !ok || !f.Has(Sortable) {
			return nil, invalid("sort", p.Sort.Field, "unknown sortable field")
		}
		order, err := ParseOrder(string(p.Sort.Order))
		if err != nil {
			return nil, err
		}
		out.sortField = &f
		out.order = order
	}
	return out, nil
}

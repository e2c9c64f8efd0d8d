package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimburion/hrportal/pkg/listquery"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/observability/metrics"
	"github.com/nimburion/hrportal/pkg/observability/tracing"
)

// CollectionRepository implements Reader over a Source using a listquery.Schema.
type CollectionRepository[T any, ID comparable] struct {
	resource string
	schema   *listquery.Schema[T]
	source   Source[T]
	idOf     func(T) ID
	metrics  *metrics.ListQueryMetrics
	log      logger.Logger
}

// Option configures a CollectionRepository.
type Option func(*collectionOptions)

type collectionOptions struct {
	metrics *metrics.ListQueryMetrics
	log     logger.Logger
}

// WithMetrics records every FindAll on m.
func WithMetrics(m *metrics.ListQueryMetrics) Option {
	return func(o *collectionOptions) { o.metrics = m }
}

// WithLogger sets the logger used for debug query logs.
func WithLogger(log logger.Logger) Option {
	return func(o *collectionOptions) { o.log = log }
}

// NewCollectionRepository creates a repository named resource.
func NewCollectionRepository[T any, ID comparable](
	resource string,
	schema *listquery.Schema[T],
	source Source[T],
	idOf func(T) ID,
	opts ...Option,
) *CollectionRepository[T, ID] {
	o := collectionOptions{log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &CollectionRepository[T, ID]{
		resource: resource,
		schema:   schema,
		source:   source,
		idOf:     idOf,
		metrics:  o.metrics,
		log:      o.log.With("resource", resource),
	}
}

// Schema returns the schema queries run against.
func (r *CollectionRepository[T, ID]) Schema() *listquery.Schema[T] {
	return r.schema
}

// FindAll loads the collection and runs search, filters, sort and pagination on it.
// Invalid options yield an error wrapping listquery.ErrInvalidArgument.
func (r *CollectionRepository[T, ID]) FindAll(ctx context.Context, opts QueryOptions) (result listquery.Result[T], err error) {
	start := time.Now()
	ctx, span := tracing.StartRepositorySpan(ctx, tracing.SpanOperationListQuery, r.resource)
	defer func() {
		outcome := metrics.OutcomeOK
		switch {
		case errors.Is(err, listquery.ErrInvalidArgument):
			outcome = metrics.OutcomeInvalid
		case err != nil:
			outcome = metrics.OutcomeError
		}
		r.metrics.Observe(r.resource, outcome, time.Since(start), result.TotalMatched)
		tracing.RecordListQuery(span, outcome, result.TotalMatched, len(result.Items))
		tracing.RecordError(span, err)
		span.End()
	}()

	collection, err := r.load(ctx)
	if err != nil {
		return listquery.Result[T]{}, err
	}

	result, err = r.schema.Query(collection, opts.Params())
	if err != nil {
		return listquery.Result[T]{}, err
	}

	r.log.WithContext(ctx).Debug("list query",
		"search", opts.Search,
		"page", opts.Pagination.Page,
		"page_size", opts.Pagination.PageSize,
		"total_matched", result.TotalMatched,
		"returned", len(result.Items),
	)
	return result, nil
}

// FindByID returns the first entity whose id equals id, or an error wrapping ErrNotFound.
func (r *CollectionRepository[T, ID]) FindByID(ctx context.Context, id ID) (_ *T, err error) {
	ctx, span := tracing.StartRepositorySpan(ctx, tracing.SpanOperationFindByID, r.resource)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	collection, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range collection {
		if r.idOf(collection[i]) == id {
			found := collection[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s %v: %w", r.resource, id, ErrNotFound)
}

// Count returns how many entities pass filter.
func (r *CollectionRepository[T, ID]) Count(ctx context.Context, filter Filter) (_ int64, err error) {
	ctx, span := tracing.StartRepositorySpan(ctx, tracing.SpanOperationCount, r.resource)
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	collection, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	result, err := r.schema.Query(collection, QueryOptions{
		Filter:     filter,
		Pagination: Pagination{Page: 1, PageSize: 1},
	}.Params())
	if err != nil {
		return 0, err
	}
	return int64(result.TotalMatched), nil
}

func (r *CollectionRepository[T, ID]) load(ctx context.Context) ([]T, error) {
	collection, err := r.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.source.Name(), err)
	}
	return collection, nil
}

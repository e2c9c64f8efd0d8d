package controller

import (
	"context"

	"github.com/nimburion/hrportal/pkg/listquery"
	"github.com/nimburion/hrportal/pkg/repository"
)

// Descriptor lists the pipeline capabilities of a resource's fields.
type Descriptor struct {
	Name       string   `json:"name" yaml:"name"`
	Searchable []string `json:"searchable" yaml:"searchable"`
	Filterable []string `json:"filterable" yaml:"filterable"`
	Sortable   []string `json:"sortable" yaml:"sortable"`
}

// Page is one type-erased page of a list query.
type Page struct {
	Items        any `json:"items" yaml:"items"`
	TotalMatched int `json:"total_matched" yaml:"total_matched"`
	TotalPages   int `json:"total_pages" yaml:"total_pages"`
}

// Resource is a named HR collection served by the list and detail endpoints.
type Resource interface {
	Descriptor() Descriptor
	List(ctx context.Context, opts repository.QueryOptions) (Page, error)
	Get(ctx context.Context, id string) (any, error)
}

type schemaResource[T any] struct {
	name   string
	schema *listquery.Schema[T]
	reader repository.Reader[T, string]
}

// NewResource exposes a repository keyed by string ids as a Resource.
func NewResource[T any](name string, schema *listquery.Schema[T], reader repository.Reader[T, string]) Resource {
	return &schemaResource[T]{name: name, schema: schema, reader: reader}
}

func (r *schemaResource[T]) Descriptor() Descriptor {
	return Descriptor{
		Name:       r.name,
		Searchable: r.schema.Fields(listquery.Searchable),
		Filterable: r.schema.Fields(listquery.Filterable),
		Sortable:   r.schema.Fields(listquery.Sortable),
	}
}

func (r *schemaResource[T]) List(ctx context.Context, opts repository.QueryOptions) (Page, error) {
	result, err := r.reader.FindAll(ctx, opts)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: result.Items, TotalMatched: result.TotalMatched, TotalPages: result.TotalPages}, nil
}

func (r *schemaResource[T]) Get(ctx context.Context, id string) (any, error) {
	return r.reader.FindByID(ctx, id)
}

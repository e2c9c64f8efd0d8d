// Package listquery implements the search, filter, sort and paginate pipeline shared by every
// list view. A Schema describes which fields of a record type take part in each stage; Query
// runs the stages over a fully materialized collection and returns one page of it.
package listquery

import (
	"fmt"

	"golang.org/x/text/language"
)

// Kind is the value kind of a field. It selects the comparator used for sorting and the parser
// used for filter values.
type Kind int

const (
	// KindString fields compare with locale-aware collation.
	KindString Kind = iota
	// KindNumber fields compare numerically.
	KindNumber
	// KindDate fields hold date-like strings and compare on the parsed instant.
	KindDate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Capability marks the pipeline stages a field participates in.
type Capability uint8

const (
	// Searchable fields are matched against the free-text search term.
	Searchable Capability = 1 << iota
	// Filterable fields can be constrained by exact equality.
	Filterable
	// Sortable fields can be used as the sort key.
	Sortable
)

// Field describes one attribute of R.
type Field[R any] struct {
	name   string
	kind   Kind
	caps   Capability
	text   func(R) string
	number func(R) float64
}

// Name returns the field name used in query parameters.
func (f Field[R]) Name() string { return f.name }

// Kind returns the value kind of the field.
func (f Field[R]) Kind() Kind { return f.kind }

// Has reports whether the field has the given capability.
func (f Field[R]) Has(c Capability) bool { return f.caps&c == c }

// String declares a string-valued field.
func String[R any](name string, value func(R) string, caps ...Capability) Field[R] {
	return Field[R]{name: name, kind: KindString, caps: combine(caps), text: value}
}

// Number declares a numeric field.
func Number[R any](name string, value func(R) float64, caps ...Capability) Field[R] {
	return Field[R]{name: name, kind: KindNumber, caps: combine(caps), number: value}
}

// Date declares a field holding a date-like string.
func Date[R any](name string, value func(R) string, caps ...Capability) Field[R] {
	return Field[R]{name: name, kind: KindDate, caps: combine(caps), text: value}
}

func combine(caps []Capability) Capability {
	var out Capability
	for _, c := range caps {
		out |= c
	}
	return out
}

// Option configures a Schema.
type Option func(*schemaOptions)

type schemaOptions struct {
	locale language.Tag
}

// WithLocale sets the collation locale used to order string fields.
func WithLocale(tag language.Tag) Option {
	return func(o *schemaOptions) {
		o.locale = tag
	}
}

// Schema is the immutable field descriptor of a record type. It is safe for concurrent use.
type Schema[R any] struct {
	fields     []Field[R]
	byName     map[string]int
	searchable []int
	locale     language.Tag
}

// NewSchema builds a schema from field declarations. Field order is preserved.
// It panics on duplicate or empty field names and on searchable fields that are not strings,
// since both are programming errors in the declaration.
func NewSchema[R any](fields []Field[R], opts ...Option) *Schema[R] {
	o := schemaOptions{locale: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Schema[R]{
		fields: append([]Field[R](nil), fields...),
		byName: make(map[string]int, len(fields)),
		locale: o.locale,
	}
	for i, f := range s.fields {
		if f.name == "" {
			panic("listquery: field name cannot be empty")
		}
		if _, dup := s.byName[f.name]; dup {
			panic(fmt.Sprintf("listquery: duplicate field %q", f.name))
		}
		if f.Has(Searchable) && f.kind != KindString {
			panic(fmt.Sprintf("listquery: field %q is %s and cannot be searchable", f.name, f.kind))
		}
		s.byName[f.name] = i
		if f.Has(Searchable) {
			s.searchable = append(s.searchable, i)
		}
	}
	return s
}

// Field looks up a field by name.
func (s *Schema[R]) Field(name string) (Field[R], bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field[R]{}, false
	}
	return s.fields[i], true
}

// Fields returns the names of the fields that have the given capability, in declaration order.
func (s *Schema[R]) Fields(c Capability) []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Has(c) {
			names = append(names, f.name)
		}
	}
	return names
}

// Locale returns the collation locale.
func (s *Schema[R]) Locale() language.Tag {
	return s.locale
}

package listquery

import (
	"bytes"
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
)

// dateLayouts are tried in order. Single-digit month and day layouts also accept two digits,
// so "2024-2-01" and "2024-10-01" both parse.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05",
	"2006-1-2",
	"2006/1/2",
}

// ParseDate parses a date-like string. Unparseable input yields the zero time and false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// matcher is a compiled filter for one field.
type matcher[R any] func(R) bool

func compileFilter[R any](f Field[R], value string) (matcher[R], error) {
	switch f.kind {
	case KindNumber:
		want, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, invalid("filter", f.name, "value is not a number")
		}
		return func(r R) bool { return f.number(r) == want }, nil
	case KindDate:
		want, ok := ParseDate(value)
		if !ok {
			return nil, invalid("filter", f.name, "value is not a date")
		}
		return func(r R) bool {
			got, ok := ParseDate(f.text(r))
			return ok && got.Equal(want)
		}, nil
	default:
		return func(r R) bool { return f.text(r) == value }, nil
	}
}

// searcher matches the search term against every searchable field.
type searcher[R any] struct {
	fields []Field[R]
	term   string
	caser  cases.Caser
}

func newSearcher[R any](fields []Field[R], term string) *searcher[R] {
	caser := cases.Fold()
	return &searcher[R]{fields: fields, term: caser.String(term), caser: caser}
}

func (s *searcher[R]) match(r R) bool {
	for _, f := range s.fields {
		if strings.Contains(s.caser.String(f.text(r)), s.term) {
			return true
		}
	}
	return false
}

// keyed pairs a record with its precomputed sort key.
type keyed[R any] struct {
	rec R
	str []byte
	num float64
	at  time.Time
}

// sortStable orders records by the field, keeping insertion order for equal keys.
func sortStable[R any](records []R, f Field[R], order Order, coll *collate.Collator) {
	entries := make([]keyed[R], len(records))
	var buf collate.Buffer
	for i, r := range records {
		e := keyed[R]{rec: r}
		switch f.kind {
		case KindNumber:
			e.num = f.number(r)
		case KindDate:
			e.at, _ = ParseDate(f.text(r))
		default:
			e.str = coll.KeyFromString(&buf, f.text(r))
		}
		entries[i] = e
	}

	compare := func(a, b keyed[R]) int {
		switch f.kind {
		case KindNumber:
			return cmp.Compare(a.num, b.num)
		case KindDate:
			return a.at.Compare(b.at)
		default:
			return bytes.Compare(a.str, b.str)
		}
	}
	if order == Desc {
		asc := compare
		compare = func(a, b keyed[R]) int { return asc(b, a) }
	}
	slices.SortStableFunc(entries, compare)

	for i, e := range entries {
		records[i] = e.rec
	}
}

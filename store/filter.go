package store

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

type termKind int

const (
	termEq termKind = iota
	termIn
)

type term struct {
	field  string
	kind   termKind
	values []any
}

// Filter accumulates field predicates that all have to hold. An empty Filter
// matches every document.
type Filter struct {
	terms []term
}

func NewFilter() *Filter {
	return &Filter{}
}

// ProductFilter builds the listing filter. Empty criteria add no term.
func ProductFilter(species, size string) *Filter {
	f := NewFilter()
	if species != "" {
		f.Eq("species", species)
	}
	if size != "" {
		f.In("sizes", size)
	}
	return f
}

// Eq requires field to equal value exactly.
func (f *Filter) Eq(field string, value any) *Filter {
	f.terms = append(f.terms, term{field: field, kind: termEq, values: []any{value}})
	return f
}

// In requires field to be one of values. For array fields, any element
// matching is enough.
func (f *Filter) In(field string, values ...any) *Filter {
	f.terms = append(f.terms, term{field: field, kind: termIn, values: values})
	return f
}

func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}

// Document renders the filter as a mongo query document.
func (f *Filter) Document() bson.D {
	doc := bson.D{}
	if f == nil {
		return doc
	}
	for _, t := range f.terms {
		switch t.kind {
		case termEq:
			doc = append(doc, bson.E{Key: t.field, Value: t.values[0]})
		case termIn:
			doc = append(doc, bson.E{Key: t.field, Value: bson.M{"$in": bson.A(t.values)}})
		}
	}
	return doc
}

// Matches evaluates the filter against an in-memory document. An array field
// matches when any element does. Numbers compare by value across Go types;
// everything else needs an exact DeepEqual match. Nested paths and BSON
// type ordering are not supported.
func (f *Filter) Matches(doc bson.M) bool {
	if f == nil {
		return true
	}
	for _, t := range f.terms {
		got, ok := doc[t.field]
		if !ok {
			return false
		}
		matched := false
		for _, want := range t.values {
			if valueMatches(got, want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func valueMatches(got, want any) bool {
	rv := reflect.ValueOf(got)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if scalarEqual(rv.Index(i).Interface(), want) {
				return true
			}
		}
		return false
	}
	return scalarEqual(got, want)
}

func scalarEqual(got, want any) bool {
	if a, ok := toFloat(got); ok {
		if b, ok := toFloat(want); ok {
			return a == b
		}
	}
	return reflect.DeepEqual(got, want)
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

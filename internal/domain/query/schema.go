package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindTime
	// KindList is a JSON-encoded string list; only eq and in apply, as membership tests.
	KindList
)

// Field maps a public (JSON) field name onto storage.
type Field struct {
	Column string
	Kind   Kind
	// Columns are loaded when the field is selected; defaults to Column.
	Columns []string
}

func (f Field) columns() []string {
	if len(f.Columns) > 0 {
		return f.Columns
	}
	if f.Column == "" {
		return nil
	}
	return []string{f.Column}
}

// Schema whitelists what a collection exposes to list queries.
type Schema struct {
	Fields map[string]Field
	// Always lists columns loaded even under a projection (keys needed by relations).
	Always []string
	// Hidden columns are never loaded by list queries.
	Hidden []string
}

type Condition struct {
	Column string
	Kind   Kind
	Op     Op
	Args   []any
}

type Order struct {
	Column string
	Desc   bool
}

// Plan is a Spec resolved against a Schema: typed arguments, storage column
// names and a deterministic order.
type Plan struct {
	Conditions []Condition
	Columns    []string // empty means all visible columns
	Omit       []string
	Order      []Order
	Offset     int
	Limit      int
}

// Plan validates spec against the schema. Unknown fields and values that do
// not parse for the field's kind are validation errors.
func (s Schema) Plan(spec Spec) (Plan, error) {
	p := Plan{Offset: spec.Offset(), Limit: spec.Limit, Omit: s.Hidden}

	for _, pr := range spec.Filters {
		f, ok := s.Fields[pr.Field]
		if !ok || f.Column == "" {
			return Plan{}, apperror.Validation(fmt.Sprintf("Cannot filter on field %q", pr.Field))
		}
		if f.Kind == KindList && pr.Op != OpEq && pr.Op != OpIn {
			return Plan{}, apperror.Validation(fmt.Sprintf("Operator %s is not supported on %s", pr.Op, pr.Field))
		}
		args := make([]any, 0, len(pr.Values))
		for _, raw := range pr.Values {
			v, err := convert(f.Kind, raw)
			if err != nil {
				return Plan{}, apperror.Validation(fmt.Sprintf("Invalid value %q for %s", raw, pr.Field))
			}
			args = append(args, v)
		}
		p.Conditions = append(p.Conditions, Condition{Column: f.Column, Kind: f.Kind, Op: pr.Op, Args: args})
	}

	if len(spec.Select) > 0 {
		seen := map[string]bool{}
		add := func(cols ...string) {
			for _, c := range cols {
				if !seen[c] {
					seen[c] = true
					p.Columns = append(p.Columns, c)
				}
			}
		}
		add(s.Always...)
		for _, name := range spec.Select {
			f, ok := s.Fields[name]
			if !ok {
				return Plan{}, apperror.Validation(fmt.Sprintf("Cannot select field %q", name))
			}
			add(f.columns()...)
		}
	}

	hasID := false
	for _, k := range spec.Sort {
		f, ok := s.Fields[k.Field]
		if !ok || f.Column == "" || f.Kind == KindList {
			return Plan{}, apperror.Validation(fmt.Sprintf("Cannot sort on field %q", k.Field))
		}
		if f.Column == "id" {
			hasID = true
		}
		p.Order = append(p.Order, Order{Column: f.Column, Desc: k.Desc})
	}
	if len(p.Order) == 0 {
		p.Order = append(p.Order, Order{Column: "created_at", Desc: true})
	}
	if !hasID {
		p.Order = append(p.Order, Order{Column: "id"})
	}
	return p, nil
}

func convert(kind Kind, raw string) (any, error) {
	switch kind {
	case KindNumber:
		return strconv.ParseFloat(raw, 64)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), nil
			}
		}
		return nil, fmt.Errorf("invalid time %q", raw)
	default:
		return strings.TrimSpace(raw), nil
	}
}

// Package query turns list-endpoint query strings into a typed, store-neutral
// specification: filter predicates, projection, sort keys and pagination.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

func (o Op) valid() bool {
	switch o {
	case OpEq, OpGt, OpGte, OpLt, OpLte, OpIn:
		return true
	}
	return false
}

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100
)

// reserved parameters never become filter predicates.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Predicate is one field/operator/value constraint. Values has exactly one
// element except for OpIn.
type Predicate struct {
	Field  string
	Op     Op
	Values []string
}

type SortKey struct {
	Field string
	Desc  bool
}

type Spec struct {
	Filters []Predicate
	Select  []string
	Sort    []SortKey
	Page    int
	Limit   int
}

// Offset is the number of matching items skipped before the page starts.
func (s Spec) Offset() int { return (s.Page - 1) * s.Limit }

// HasNext reports whether items remain after this page.
func (s Spec) HasNext(total int64) bool { return int64(s.Page)*int64(s.Limit) < total }

func (s Spec) HasPrev() bool { return s.Offset() > 0 }

// Parse builds a Spec from query parameters. Keys look like `price[gte]`, a
// bare key means equality. Unknown operators are rejected with a validation error.
func Parse(values url.Values) (Spec, error) {
	spec := Spec{
		Select: splitList(values.Get("select")),
		Page:   positiveInt(values.Get("page"), DefaultPage),
		Limit:  positiveInt(values.Get("limit"), DefaultLimit),
	}
	if spec.Limit > MaxLimit {
		spec.Limit = MaxLimit
	}
	for _, f := range splitList(values.Get("sort")) {
		key := SortKey{Field: f}
		if strings.HasPrefix(f, "-") {
			key = SortKey{Field: strings.TrimPrefix(f, "-"), Desc: true}
		}
		if key.Field == "" {
			continue
		}
		spec.Sort = append(spec.Sort, key)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reserved[key] {
			continue
		}
		field, op, err := parseKey(key)
		if err != nil {
			return Spec{}, err
		}
		if op == OpIn {
			var set []string
			for _, v := range values[key] {
				set = append(set, splitList(v)...)
			}
			if len(set) == 0 {
				return Spec{}, apperror.Validation(fmt.Sprintf("%s[in] needs at least one value", field))
			}
			spec.Filters = append(spec.Filters, Predicate{Field: field, Op: op, Values: set})
			continue
		}
		for _, v := range values[key] {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			spec.Filters = append(spec.Filters, Predicate{Field: field, Op: op, Values: []string{v}})
		}
	}
	return spec, nil
}

func parseKey(key string) (string, Op, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.ContainsRune(key, ']') {
			return "", "", apperror.Validation(fmt.Sprintf("Malformed query parameter %q", key))
		}
		return key, OpEq, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", apperror.Validation(fmt.Sprintf("Malformed query parameter %q", key))
	}
	field := key[:open]
	op := Op(strings.ToLower(key[open+1 : len(key)-1]))
	if !op.valid() {
		return "", "", apperror.Validation(fmt.Sprintf("Unsupported operator %q on %s", string(op), field))
	}
	return field, op, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Result is one page of a list query together with the filter-only total.
type Result[T any] struct {
	Items []T
	Total int64
	Spec  Spec
}

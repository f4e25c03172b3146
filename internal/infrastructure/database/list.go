package database

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
)

// listPage resolves spec against schema and runs the filter-only count and
// the paginated select concurrently.
func listPage[T any](ctx context.Context, db *gorm.DB, schema query.Schema, spec query.Spec, preload func(*gorm.DB) *gorm.DB) (query.Result[T], error) {
	plan, err := schema.Plan(spec)
	if err != nil {
		return query.Result[T]{}, err
	}

	var model T
	base := applyConditions(db.Model(&model), plan.Conditions).Session(&gorm.Session{})

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base.WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		q := base.WithContext(gctx)
		switch {
		case len(plan.Columns) > 0:
			q = q.Select(plan.Columns)
		case len(plan.Omit) > 0:
			q = q.Omit(plan.Omit...)
		}
		for _, o := range plan.Order {
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
		}
		if preload != nil {
			q = preload(q)
		}
		return q.Offset(plan.Offset).Limit(plan.Limit).Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return query.Result[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return query.Result[T]{Items: items, Total: total, Spec: spec}, nil
}

func applyConditions(db *gorm.DB, conds []query.Condition) *gorm.DB {
	for _, c := range conds {
		col := clause.Column{Name: c.Column}
		if c.Kind == query.KindList {
			exprs := make([]clause.Expression, 0, len(c.Args))
			for _, a := range c.Args {
				exprs = append(exprs, clause.Expr{SQL: "? LIKE ? ESCAPE '\\'", Vars: []any{col, listMemberPattern(a)}})
			}
			db = db.Where(clause.Or(exprs...))
			continue
		}
		switch c.Op {
		case query.OpGt:
			db = db.Where(clause.Gt{Column: col, Value: c.Args[0]})
		case query.OpGte:
			db = db.Where(clause.Gte{Column: col, Value: c.Args[0]})
		case query.OpLt:
			db = db.Where(clause.Lt{Column: col, Value: c.Args[0]})
		case query.OpLte:
			db = db.Where(clause.Lte{Column: col, Value: c.Args[0]})
		case query.OpIn:
			db = db.Where(clause.IN{Column: col, Values: c.Args})
		default:
			db = db.Where(clause.Eq{Column: col, Value: c.Args[0]})
		}
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listMemberPattern matches one element of a JSON-encoded string array
// column. Wildcards in the value match literally.
func listMemberPattern(v any) string {
	s, _ := v.(string)
	b, _ := json.Marshal(s)
	return "%" + likeEscaper.Replace(string(b)) + "%"
}

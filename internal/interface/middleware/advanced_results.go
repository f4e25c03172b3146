package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

// Finder runs a parsed list query against one collection.
type Finder[T any] func(ctx context.Context, spec query.Spec) (query.Result[T], error)

// AdvancedResults parses filter, select, sort and pagination parameters, runs
// find and stores the page envelope for the list handler under
// response.AdvancedResultsKey. populate names the eager-loaded relations kept
// under a projection.
func AdvancedResults[T any](find Finder[T], populate ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		spec, err := query.Parse(c.Request.URL.Query())
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		res, err := find(c.Request.Context(), spec)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		items, err := query.Project(res.Items, spec.Select, populate...)
		if err != nil {
			_ = c.Error(apperror.Server("Server Error", err))
			c.Abort()
			return
		}

		var p response.Pagination
		if spec.HasNext(res.Total) {
			p.Next = &response.PageRef{Page: spec.Page + 1, Limit: spec.Limit}
		}
		if spec.HasPrev() {
			p.Prev = &response.PageRef{Page: spec.Page - 1, Limit: spec.Limit}
		}
		count := len(items)
		total := res.Total
		c.Set(response.AdvancedResultsKey, response.APIResponse[[]map[string]any]{
			Success:    true,
			RequestID:  c.GetString("request_id"),
			Count:      &count,
			Total:      &total,
			Pagination: &p,
			Data:       items,
		})
		c.Next()
	}
}

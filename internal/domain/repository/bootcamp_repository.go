package repository

import (
	"context"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
)

// BoundingBox is a latitude/longitude rectangle in degrees.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

type BootcampRepository interface {
	Create(ctx context.Context, b *entity.Bootcamp) error
	GetByID(ctx context.Context, id string) (*entity.Bootcamp, error)
	Update(ctx context.Context, b *entity.Bootcamp) error
	UpdatePhoto(ctx context.Context, id, photo string) error
	// Delete removes the bootcamp and its courses.
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	// List runs the query; withCourses eager-loads each bootcamp's courses.
	List(ctx context.Context, spec query.Spec, withCourses bool) (query.Result[entity.Bootcamp], error)
	WithinBox(ctx context.Context, box BoundingBox) ([]entity.Bootcamp, error)
	// RecalculateAverageCost refreshes averageCost from the bootcamp's course tuitions.
	RecalculateAverageCost(ctx context.Context, id string) error
}

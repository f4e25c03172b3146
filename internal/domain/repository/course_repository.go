package repository

import (
	"context"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
)

type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	// GetByID loads the course with its bootcamp summary populated.
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	Update(ctx context.Context, c *entity.Course) error
	Delete(ctx context.Context, id string) error
	ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Course, error)
	// List runs the query; withBootcamp populates each course's bootcamp summary.
	List(ctx context.Context, spec query.Spec, withBootcamp bool) (query.Result[entity.Course], error)
}

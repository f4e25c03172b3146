package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

var _ repository.CourseRepository = (*CourseRepository)(nil)

func bootcampSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "description")
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	var c entity.Course
	err := r.db.WithContext(ctx).Preload("Bootcamp", bootcampSummary).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Update writes every column except identity, ownership and creation time.
func (r *CourseRepository) Update(ctx context.Context, c *entity.Course) error {
	res := r.db.WithContext(ctx).Model(c).
		Select("*").
		Omit("id", "bootcamp_id", "user_id", "created_at", clause.Associations).
		Updates(c)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entity.Course{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CourseRepository) ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Course, error) {
	var out []entity.Course
	err := r.db.WithContext(ctx).
		Where("bootcamp_id = ?", bootcampID).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	if out == nil {
		out = []entity.Course{}
	}
	return out, nil
}

func (r *CourseRepository) List(ctx context.Context, spec query.Spec, withBootcamp bool) (query.Result[entity.Course], error) {
	var preload func(*gorm.DB) *gorm.DB
	if withBootcamp {
		preload = func(q *gorm.DB) *gorm.DB { return q.Preload("Bootcamp", bootcampSummary) }
	}
	return listPage[entity.Course](ctx, r.db, courseSchema, spec, preload)
}

package database

import (
	"context"
	"database/sql"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
)

type BootcampRepository struct {
	db *gorm.DB
}

func NewBootcampRepository(db *gorm.DB) *BootcampRepository {
	return &BootcampRepository{db: db}
}

var _ repository.BootcampRepository = (*BootcampRepository)(nil)

func (r *BootcampRepository) Create(ctx context.Context, b *entity.Bootcamp) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (r *BootcampRepository) GetByID(ctx context.Context, id string) (*entity.Bootcamp, error) {
	var b entity.Bootcamp
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// Update writes every column except identity, owner and creation time.
func (r *BootcampRepository) Update(ctx context.Context, b *entity.Bootcamp) error {
	res := r.db.WithContext(ctx).Model(b).
		Select("*").
		Omit("id", "user_id", "created_at", clause.Associations).
		Updates(b)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BootcampRepository) UpdatePhoto(ctx context.Context, id, photo string) error {
	res := r.db.WithContext(ctx).Model(&entity.Bootcamp{}).Where("id = ?", id).Update("photo", photo)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BootcampRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bootcamp_id = ?", id).Delete(&entity.Course{}).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&entity.Bootcamp{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *BootcampRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Bootcamp{}).Where("user_id = ?", userID).Count(&n).Error
	return n, translate(err)
}

func (r *BootcampRepository) List(ctx context.Context, spec query.Spec, withCourses bool) (query.Result[entity.Bootcamp], error) {
	var preload func(*gorm.DB) *gorm.DB
	if withCourses {
		preload = func(q *gorm.DB) *gorm.DB {
			return q.Preload("Courses", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC").Order("id ASC")
			})
		}
	}
	return listPage[entity.Bootcamp](ctx, r.db, bootcampSchema, spec, preload)
}

func (r *BootcampRepository) WithinBox(ctx context.Context, box repository.BoundingBox) ([]entity.Bootcamp, error) {
	var out []entity.Bootcamp
	err := r.db.WithContext(ctx).
		Where("location_latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("location_longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// RecalculateAverageCost sets averageCost to the mean tuition rounded up to
// the next multiple of ten, or clears it when the bootcamp has no courses.
func (r *BootcampRepository) RecalculateAverageCost(ctx context.Context, id string) error {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).Model(&entity.Course{}).
		Select("AVG(tuition)").
		Where("bootcamp_id = ?", id).
		Row()
	if err := row.Scan(&avg); err != nil {
		return translate(err)
	}
	var cost *float64
	if avg.Valid {
		v := math.Ceil(avg.Float64/10) * 10
		cost = &v
	}
	return translate(r.db.WithContext(ctx).Model(&entity.Bootcamp{}).Where("id = ?", id).Update("average_cost", cost).Error)
}

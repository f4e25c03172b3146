package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

type CourseService struct {
	Courses   repo.CourseRepository
	Bootcamps repo.BootcampRepository
	Logger    logrus.FieldLogger
}

func NewCourseService(courses repo.CourseRepository, bootcamps repo.BootcampRepository, logger logrus.FieldLogger) *CourseService {
	return &CourseService{Courses: courses, Bootcamps: bootcamps, Logger: logger}
}

func courseNotFound(id string) string { return fmt.Sprintf("No course with the id of %s", id) }

type CourseInput struct {
	Title                string
	Description          string
	Weeks                int
	Tuition              float64
	MinimumSkill         string
	ScholarshipAvailable bool
}

type CoursePatch struct {
	Title                *string
	Description          *string
	Weeks                *int
	Tuition              *float64
	MinimumSkill         *string
	ScholarshipAvailable *bool
}

func (s *CourseService) List(ctx context.Context, spec query.Spec) (query.Result[entity.Course], error) {
	res, err := s.Courses.List(ctx, spec, true)
	if err != nil {
		return query.Result[entity.Course]{}, mapRepoErr(err, "No courses found")
	}
	return res, nil
}

// ListByBootcamp returns every course of an existing bootcamp.
func (s *CourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]entity.Course, error) {
	if err := checkID(bootcampID); err != nil {
		return nil, err
	}
	if _, err := s.Bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, mapRepoErr(err, bootcampNotFound(bootcampID))
	}
	courses, err := s.Courses.ListByBootcamp(ctx, bootcampID)
	if err != nil {
		return nil, mapRepoErr(err, bootcampNotFound(bootcampID))
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*entity.Course, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	c, err := s.Courses.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, courseNotFound(id))
	}
	return c, nil
}

// Create adds a course to a bootcamp the actor owns (or any bootcamp for admins).
func (s *CourseService) Create(ctx context.Context, actor Actor, bootcampID string, in CourseInput) (*entity.Course, error) {
	if err := checkID(bootcampID); err != nil {
		return nil, err
	}
	b, err := s.Bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, mapRepoErr(err, bootcampNotFound(bootcampID))
	}
	if !b.OwnedBy(actor.ID) && !actor.IsAdmin() {
		return nil, apperror.Forbidden(fmt.Sprintf("User %s is not authorized to add a course to bootcamp %s", actor.ID, b.ID))
	}

	c := &entity.Course{
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Weeks:                in.Weeks,
		Tuition:              in.Tuition,
		MinimumSkill:         in.MinimumSkill,
		ScholarshipAvailable: in.ScholarshipAvailable,
		BootcampID:           b.ID,
		UserID:               actor.ID,
	}
	if err := s.Courses.Create(ctx, c); err != nil {
		return nil, mapRepoErr(err, courseNotFound(c.ID))
	}
	if err := s.refreshCost(ctx, b.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, c.ID)
}

func (s *CourseService) Update(ctx context.Context, actor Actor, id string, p CoursePatch) (*entity.Course, error) {
	c, err := s.owned(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		c.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Weeks != nil {
		c.Weeks = *p.Weeks
	}
	if p.Tuition != nil {
		c.Tuition = *p.Tuition
	}
	if p.MinimumSkill != nil {
		c.MinimumSkill = *p.MinimumSkill
	}
	if p.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *p.ScholarshipAvailable
	}
	if err := s.Courses.Update(ctx, c); err != nil {
		return nil, mapRepoErr(err, courseNotFound(id))
	}
	if err := s.refreshCost(ctx, c.BootcampID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actor Actor, id string) error {
	c, err := s.owned(ctx, actor, id, "delete")
	if err != nil {
		return err
	}
	if err := s.Courses.Delete(ctx, id); err != nil {
		return mapRepoErr(err, courseNotFound(id))
	}
	return s.refreshCost(ctx, c.BootcampID)
}

func (s *CourseService) owned(ctx context.Context, actor Actor, id, action string) (*entity.Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperror.Forbidden(fmt.Sprintf("User %s is not authorized to %s course %s", actor.ID, action, c.ID))
	}
	return c, nil
}

func (s *CourseService) refreshCost(ctx context.Context, bootcampID string) error {
	if err := s.Bootcamps.RecalculateAverageCost(ctx, bootcampID); err != nil {
		return mapRepoErr(err, bootcampNotFound(bootcampID))
	}
	return nil
}

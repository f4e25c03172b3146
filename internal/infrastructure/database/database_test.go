package database

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/domain/query"
	"github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createUser(t *testing.T, repo *UserRepository, email, role string) *entity.User {
	t.Helper()
	u := &entity.User{Name: "Test " + email, Email: email, Role: role, Password: "$2a$04$hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createBootcamp(t *testing.T, repo *BootcampRepository, owner, name string, careers ...string) *entity.Bootcamp {
	t.Helper()
	b := &entity.Bootcamp{
		UserID:      owner,
		Name:        name,
		Slug:        name,
		Description: "desc " + name,
		Careers:     careers,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func mustSpec(t *testing.T, raw string) query.Spec {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	spec, err := query.Parse(v)
	require.NoError(t, err)
	return spec
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db.Gorm)
	ctx := context.Background()

	u := createUser(t, repo, "a@x.com", "")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, entity.RoleUser, u.Role)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Empty(t, got.Password)

	withPwd, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$hash", withPwd.Password)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db.Gorm)

	createUser(t, repo, "dup@x.com", entity.RoleUser)
	err := repo.Create(context.Background(), &entity.User{Name: "Other", Email: "dup@x.com", Password: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_ResetToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db.Gorm)
	ctx := context.Background()
	u := createUser(t, repo, "reset@x.com", entity.RoleUser)

	now := time.Now().UTC()
	hash := "abc123"
	exp := now.Add(10 * time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, u.ID, &hash, &exp))

	got, err := repo.GetByResetToken(ctx, hash, now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByResetToken(ctx, hash, now.Add(11*time.Minute))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "$2a$04$new"))
	_, err = repo.GetByResetToken(ctx, hash, now)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := repo.GetByIDWithPassword(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$new", stored.Password)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestUserRepository_ListHidesSecrets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db.Gorm)
	createUser(t, repo, "one@x.com", entity.RoleUser)
	createUser(t, repo, "two@x.com", entity.RolePublisher)

	res, err := repo.List(context.Background(), mustSpec(t, "role=publisher"))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, "two@x.com", res.Items[0].Email)
	assert.Empty(t, res.Items[0].Password)

	_, err = repo.List(context.Background(), mustSpec(t, "password=x"))
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

// price >= 100, select name and price, sort price descending, page 2 of 10.
func TestCourseRepository_ListAdvancedQuery(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db.Gorm)
	bootcamps := NewBootcampRepository(db.Gorm)
	courses := NewCourseRepository(db.Gorm)
	ctx := context.Background()

	owner := createUser(t, users, "pub@x.com", entity.RolePublisher)
	b := createBootcamp(t, bootcamps, owner.ID, "Devworks")
	for i := 1; i <= 25; i++ {
		require.NoError(t, courses.Create(ctx, &entity.Course{
			Title:        fmt.Sprintf("Course %02d", i),
			Description:  "long description",
			Weeks:        8,
			Tuition:      float64(i * 10),
			MinimumSkill: entity.SkillBeginner,
			BootcampID:   b.ID,
			UserID:       owner.ID,
		}))
	}

	spec := mustSpec(t, "tuition[gte]=100&select=title,tuition&sort=-tuition&page=2&limit=10")
	res, err := courses.List(ctx, spec, false)
	require.NoError(t, err)

	// 100..250 match; the second page holds the 6 lowest.
	assert.Equal(t, int64(16), res.Total)
	require.Len(t, res.Items, 6)
	for i, c := range res.Items {
		assert.Equal(t, float64(150-i*10), c.Tuition)
		assert.Empty(t, c.Description)
	}
	assert.True(t, res.Spec.HasPrev())
	assert.False(t, res.Spec.HasNext(res.Total))

	projected, err := query.Project(res.Items, spec.Select)
	require.NoError(t, err)
	for _, m := range projected {
		assert.ElementsMatch(t, []string{"id", "title", "tuition"}, keys(m))
	}
}

func TestCourseRepository_PopulateBootcamp(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db.Gorm)
	bootcamps := NewBootcampRepository(db.Gorm)
	courses := NewCourseRepository(db.Gorm)
	ctx := context.Background()

	owner := createUser(t, users, "pub@x.com", entity.RolePublisher)
	b := createBootcamp(t, bootcamps, owner.ID, "Codemasters")
	c := &entity.Course{Title: "Go", Description: "d", Weeks: 4, Tuition: 1000, MinimumSkill: entity.SkillAdvanced, BootcampID: b.ID, UserID: owner.ID}
	require.NoError(t, courses.Create(ctx, c))

	got, err := courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Bootcamp)
	assert.Equal(t, "Codemasters", got.Bootcamp.Name)

	res, err := courses.List(ctx, mustSpec(t, ""), true)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.NotNil(t, res.Items[0].Bootcamp)
	assert.Equal(t, b.ID, res.Items[0].Bootcamp.ID)

	list, err := courses.ListByBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserRepository_RedeemResetToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db.Gorm)
	ctx := context.Background()
	u := createUser(t, repo, "redeem@x.com", entity.RoleUser)

	now := time.Now().UTC()
	hash := "tok"
	exp := now.Add(10 * time.Minute)
	require.NoError(t, repo.SetResetToken(ctx, u.ID, &hash, &exp))

	err := repo.RedeemResetToken(ctx, u.ID, hash, now.Add(11*time.Minute), "$2a$04$late")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = repo.RedeemResetToken(ctx, u.ID, "other", now, "$2a$04$wrong")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.RedeemResetToken(ctx, u.ID, hash, now, "$2a$04$first"))
	err = repo.RedeemResetToken(ctx, u.ID, hash, now, "$2a$04$second")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := repo.GetByIDWithPassword(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$first", stored.Password)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestBootcampRepository_ListWithCoursesAndCareers(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db.Gorm)
	bootcamps := NewBootcampRepository(db.Gorm)
	courses := NewCourseRepository(db.Gorm)
	ctx := context.Background()

	owner := createUser(t, users, "pub@x.com", entity.RolePublisher)
	web := createBootcamp(t, bootcamps, owner.ID, "Web Camp", "Web Development", "UI/UX")
	createBootcamp(t, bootcamps, owner.ID, "Data Camp", "Data Science")
	require.NoError(t, courses.Create(ctx, &entity.Course{Title: "HTML", Description: "d", Weeks: 2, Tuition: 500, MinimumSkill: entity.SkillBeginner, BootcampID: web.ID, UserID: owner.ID}))

	res, err := bootcamps.List(ctx, mustSpec(t, "careers[in]=UI/UX,Business"), true)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Web Camp", res.Items[0].Name)
	assert.Len(t, res.Items[0].Courses, 1)
	assert.Equal(t, []string{"Web Development", "UI/UX"}, res.Items[0].Careers)
	assert.Equal(t, entity.DefaultPhoto, res.Items[0].Photo)

	all, err := bootcamps.List(ctx, mustSpec(t, "sort=name"), false)
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Equal(t, "Data Camp", all.Items[0].Name)
	assert.Empty(t, all.Items[0].Courses)
}

func TestBootcampRepository_CareersMatchWildcardsLiterally(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db.Gorm)
	bootcamps := NewBootcampRepository(db.Gorm)
	ctx := context.Background()

	owner := createUser(t, users, "pub@x.com", entity.RolePublisher)
	createBootcamp(t, bootcamps, owner.ID, "Web Camp", "Web Development")
	createBootcamp(t, bootcamps, owner.ID, "Odd Camp", `100%_Remote\Hybrid`)

	for _, raw := range []string{"careers[in]=%25", "careers[in]=_", "careers[in]=Web_Development", `careers[in]=\`} {
		res, err := bootcamps.List(ctx, mustSpec(t, raw), false)
		require.NoError(t, err, raw)
		assert.Empty(t, res.Items, raw)
		assert.Zero(t, res.Total, raw)
	}

	res, err := bootcamps.List(ctx, mustSpec(t, `careers[in]=100%25_Remote\Hybrid`), false)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Odd Camp", res.Items[0].Name)
}

func TestBootcampRepository_AverageCostAndCascade(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db.Gorm)
	bootcamps := NewBootcampRepository(db.Gorm)
	courses := NewCourseRepository(db.Gorm)
	ctx := context.Background()

	owner := createUser(t, users, "pub@x.com", entity.RolePublisher)
	b := createBootcamp(t, bootcamps, owner.ID, "Avg Camp")
	for _, tuition := range []float64{1000, 1234} {
		require.NoError(t, courses.Create(ctx, &entity.Course{Title: "c", Description: "d", Weeks: 1, Tuition: tuition, MinimumSkill: entity.SkillBeginner, BootcampID: b.ID, UserID: owner.ID}))
	}

	require.NoError(t, bootcamps.RecalculateAverageCost(ctx, b.ID))
	got, err := bootcamps.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AverageCost)
	assert.Equal(t, float64(1120), *got.AverageCost)

	require.NoError(t, bootcamps.Delete(ctx, b.ID))
	left, err := courses.ListByBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.ErrorIs(t, bootcamps.Delete(ctx, b.ID), repository.ErrNotFound)
}

func TestBootcampRepository_UpdateAndBox(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db.Gorm)
	bootcamps := NewBootcampRepository(db.Gorm)
	ctx := context.Background()

	owner := createUser(t, users, "pub@x.com", entity.RolePublisher)
	b := createBootcamp(t, bootcamps, owner.ID, "Boston Camp")
	b.Location = entity.Location{Latitude: 42.35, Longitude: -71.06, City: "Boston", State: "MA"}
	b.Housing = true
	require.NoError(t, bootcamps.Update(ctx, b))
	require.NoError(t, bootcamps.UpdatePhoto(ctx, b.ID, "photo_"+b.ID+".jpg"))

	in, err := bootcamps.WithinBox(ctx, repository.BoundingBox{MinLat: 42, MaxLat: 43, MinLng: -72, MaxLng: -70})
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.True(t, in[0].Housing)
	assert.Equal(t, "photo_"+b.ID+".jpg", in[0].Photo)

	out, err := bootcamps.WithinBox(ctx, repository.BoundingBox{MinLat: 10, MaxLat: 11, MinLng: 10, MaxLng: 11})
	require.NoError(t, err)
	assert.Empty(t, out)

	res, err := bootcamps.List(ctx, mustSpec(t, "location.state=MA&housing=true"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	n, err := bootcamps.CountByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

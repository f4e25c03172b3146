package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/database"
	"github.com/oksasatya/bootcamp-directory/internal/infrastructure/geocoder"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:       "bootcamp-directory",
		CompanyName:   "DevCamper",
		ResetTokenTTL: 10 * time.Minute,
	}
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, job mailer.EmailJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return f.err
}

func (f *fakeNotifier) last(t *testing.T) mailer.EmailJob {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.jobs)
	return f.jobs[len(f.jobs)-1]
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (f *fakeRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeRevoker) Revoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[jti]
	return ok, nil
}

type fakeGeocoder map[string]geocoder.Result

func (f fakeGeocoder) Geocode(_ context.Context, address string) (geocoder.Result, error) {
	if r, ok := f[address]; ok {
		return r, nil
	}
	return geocoder.Result{}, geocoder.ErrNoMatch
}

type memBlobs struct {
	files map[string][]byte
	err   error
}

func (m *memBlobs) Put(_ context.Context, name, _ string, _ int64, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = buf.Bytes()
	return name, nil
}

func (m *memBlobs) Close() error { return nil }

type recordingIndex struct {
	indexed map[string]string
	deleted []string
	hits    []map[string]any
}

func (r *recordingIndex) Index(_ context.Context, b *entity.Bootcamp) error {
	if r.indexed == nil {
		r.indexed = map[string]string{}
	}
	r.indexed[b.ID] = b.Name
	return nil
}

func (r *recordingIndex) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingIndex) Search(context.Context, string, int) ([]map[string]any, error) {
	if r.hits == nil {
		return []map[string]any{}, nil
	}
	return r.hits, nil
}

var errDelivery = errors.New("smtp down")

type fixture struct {
	db       *database.DB
	auth     *AuthService
	users    *UserService
	camps    *BootcampService
	courses  *CourseService
	notifier *fakeNotifier
	revoker  *fakeRevoker
	index    *recordingIndex
	blobs    *memBlobs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := quietLogger()
	db, err := database.OpenSQLite(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := database.NewUserRepository(db.Gorm)
	campRepo := database.NewBootcampRepository(db.Gorm)
	courseRepo := database.NewCourseRepository(db.Gorm)

	hasher := helpers.NewPasswordHasher(bcrypt.MinCost)
	f := &fixture{
		db:       db,
		notifier: &fakeNotifier{},
		revoker:  &fakeRevoker{},
		index:    &recordingIndex{},
		blobs:    &memBlobs{},
	}
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	f.auth = NewAuthService(userRepo, jwt, hasher, f.revoker, f.notifier, testConfig(), logger)
	f.users = NewUserService(userRepo, hasher, logger)
	geo := fakeGeocoder{
		"233 Bay State Rd Boston MA 02215": {Latitude: 42.350846, Longitude: -71.103844, City: "Boston", State: "MA", Zipcode: "02215"},
		"02118":                            {Latitude: 42.3396, Longitude: -71.0724, City: "Boston", Zipcode: "02118"},
		"45 Upper College Rd Kingston RI":  {Latitude: 41.485, Longitude: -71.526, City: "Kingston", State: "RI"},
	}
	f.camps = NewBootcampService(campRepo, geo, f.blobs, f.index, 1000, logger)
	f.courses = NewCourseService(courseRepo, campRepo, logger)
	return f
}

func (f *fixture) register(t *testing.T, email, role string) *Session {
	t.Helper()
	s, err := f.auth.Register(context.Background(), RegisterInput{Name: "User " + email, Email: email, Password: "123456", Role: role})
	require.NoError(t, err)
	return s
}

func (f *fixture) admin(t *testing.T) Actor {
	t.Helper()
	u, err := f.users.Create(context.Background(), CreateUserInput{Name: "Admin", Email: "admin@x.com", Password: "123456", Role: entity.RoleAdmin})
	require.NoError(t, err)
	return Actor{ID: u.ID, Role: u.Role}
}

func actorOf(s *Session) Actor { return Actor{ID: s.User.ID, Role: s.User.Role} }

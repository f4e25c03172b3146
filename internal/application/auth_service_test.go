package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	mailtpl "github.com/oksasatya/bootcamp-directory/pkg/mailer/templates"
)

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "a@x.com", entity.RolePublisher)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, entity.RolePublisher, s.User.Role)
	assert.Empty(t, s.User.Password)

	stored, err := f.auth.Users.GetByIDWithPassword(ctx, s.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", stored.Password)
	assert.True(t, f.auth.Hasher.Compare(stored.Password, "123456"))

	id, err := f.auth.JWT.Verify(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, id)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "")

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"admin role", RegisterInput{Name: "n", Email: "b@x.com", Password: "123456", Role: entity.RoleAdmin}, "role"},
		{"short password", RegisterInput{Name: "n", Email: "b@x.com", Password: "12345"}, "password"},
		{"bad email", RegisterInput{Name: "n", Email: "not-an-email", Password: "123456"}, "email"},
		{"missing name", RegisterInput{Email: "b@x.com", Password: "123456"}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(ctx, tt.in)
			ae, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, ae.Kind)
			assert.Contains(t, ae.Details, tt.field)
		})
	}

	_, err := f.auth.Register(ctx, RegisterInput{Name: "dup", Email: "A@x.com", Password: "123456"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "Duplicate field value entered")
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "a@x.com", "")

	_, err := f.auth.Login(ctx, "a@x.com", "wrong-password")
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUnauthorized, ae.Kind)
	assert.Equal(t, "Invalid credentials", ae.Message)

	_, err = f.auth.Login(ctx, "nobody@x.com", "123456")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = f.auth.Login(ctx, "", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	s, err := f.auth.Login(ctx, "a@x.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)
	assert.Empty(t, s.User.Password)
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.register(t, "a@x.com", "")

	u, claims, err := f.auth.Authenticate(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, u.ID)
	assert.Equal(t, s.Claims.ID, claims.ID)

	_, _, err = f.auth.Authenticate(ctx, s.Token[:len(s.Token)-3])
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	require.NoError(t, f.auth.Logout(ctx, claims))
	assert.Greater(t, f.revoker.revoked[claims.ID], time.Duration(0))
	_, _, err = f.auth.Authenticate(ctx, s.Token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestAuthService_AuthenticateDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.register(t, "a@x.com", "")

	require.NoError(t, f.users.Delete(ctx, s.User.ID))
	_, _, err := f.auth.Authenticate(ctx, s.Token)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindUnauthorized, ae.Kind)
	assert.Equal(t, "Access denied", ae.Message)
}

func TestAuthService_UpdateDetailsAndPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.register(t, "a@x.com", "")

	name, email := "Renamed", "renamed@x.com"
	u, err := f.auth.UpdateDetails(ctx, s.User.ID, UpdateDetailsInput{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Name)
	assert.Equal(t, "renamed@x.com", u.Email)
	assert.Equal(t, entity.RoleUser, u.Role)

	_, err = f.auth.UpdatePassword(ctx, s.User.ID, "bad-current", "654321")
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Password is incorrect", ae.Message)

	next, err := f.auth.UpdatePassword(ctx, s.User.ID, "123456", "654321")
	require.NoError(t, err)
	assert.NotEmpty(t, next.Token)

	_, err = f.auth.Login(ctx, "renamed@x.com", "654321")
	require.NoError(t, err)
}

func resetTokenFrom(t *testing.T, f *fakeNotifier, base string) string {
	t.Helper()
	job := f.last(t)
	require.Equal(t, mailtpl.ResetPassword, job.Template)
	link, _ := job.Data["ResetURL"].(string)
	require.True(t, strings.HasPrefix(link, base))
	return strings.TrimPrefix(link, base)
}

const resetBase = "http://localhost/api/v1/auth/resetpassword/"

func TestAuthService_ResetRoundTripOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "")

	require.NoError(t, f.auth.ForgotPassword(ctx, ForgotInput{Email: "a@x.com", ResetBase: resetBase}))
	token := resetTokenFrom(t, f.notifier, resetBase)
	assert.Len(t, token, 40)

	s, err := f.auth.ResetPassword(ctx, token, "newpass1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, mailtpl.PasswordChanged, f.notifier.last(t).Template)

	_, err = f.auth.Login(ctx, "a@x.com", "newpass1")
	require.NoError(t, err)

	_, err = f.auth.ResetPassword(ctx, token, "another1")
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	assert.Equal(t, "Invalid token", ae.Message)
}

func TestAuthService_ConcurrentResetRedeemsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "")
	// a realistic cost keeps the redemptions overlapping
	f.auth.Hasher = helpers.NewPasswordHasher(10)

	require.NoError(t, f.auth.ForgotPassword(ctx, ForgotInput{Email: "a@x.com", ResetBase: resetBase}))
	token := resetTokenFrom(t, f.notifier, resetBase)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.auth.ResetPassword(ctx, token, fmt.Sprintf("newpass%d", i))
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "token redeemed more than once")
			winner = i
			continue
		}
		ae, ok := apperror.As(err)
		require.True(t, ok, err)
		assert.Equal(t, "Invalid token", ae.Message)
	}
	require.NotEqual(t, -1, winner)

	for i := 0; i < attempts; i++ {
		_, err := f.auth.Login(ctx, "a@x.com", fmt.Sprintf("newpass%d", i))
		if i == winner {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}
}

func TestAuthService_ResetExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "")

	now := time.Now()
	f.auth.WithClock(func() time.Time { return now })
	require.NoError(t, f.auth.ForgotPassword(ctx, ForgotInput{Email: "a@x.com", ResetBase: resetBase}))
	token := resetTokenFrom(t, f.notifier, resetBase)

	now = now.Add(11 * time.Minute)
	_, err := f.auth.ResetPassword(ctx, token, "newpass1")
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid token", ae.Message)
}

func TestAuthService_ForgotPasswordRollsBackOnDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "")

	f.notifier.err = errDelivery
	err := f.auth.ForgotPassword(ctx, ForgotInput{Email: "a@x.com", ResetBase: resetBase})
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindServer, ae.Kind)
	assert.Equal(t, "Email could not be sent", ae.Message)

	token := resetTokenFrom(t, f.notifier, resetBase)
	f.notifier.err = nil
	_, err = f.auth.ResetPassword(ctx, token, "newpass1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	f := newFixture(t)
	err := f.auth.ForgotPassword(context.Background(), ForgotInput{Email: "ghost@x.com", ResetBase: resetBase})
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, ae.Kind)
	assert.Equal(t, "There is no user with that email", ae.Message)
	assert.Empty(t, f.notifier.jobs)
}

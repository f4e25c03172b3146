package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/mailer"
	mailtpl "github.com/oksasatya/bootcamp-directory/pkg/mailer/templates"
	"github.com/oksasatya/bootcamp-directory/pkg/validation"
)

const (
	msgAccessDenied       = "Access denied"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	minPasswordLength     = 6
)

// Session is an issued identity token together with the user it names.
type Session struct {
	Token  string
	Claims *helpers.Claims
	User   *entity.User
}

type AuthService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Hasher   *helpers.PasswordHasher
	Revoker  TokenRevoker // nil disables logout revocation
	Notifier mailer.Notifier
	Cfg      *config.Config
	Logger   logrus.FieldLogger

	now func() time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.PasswordHasher, revoker TokenRevoker, notifier mailer.Notifier, cfg *config.Config, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		Users:    users,
		JWT:      jwt,
		Hasher:   hasher,
		Revoker:  revoker,
		Notifier: notifier,
		Cfg:      cfg,
		Logger:   logger,
		now:      time.Now,
	}
}

// WithClock swaps the time source used for reset token expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) clock() time.Time { return s.now().UTC() }

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a user and signs them in. Admin cannot be self-assigned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if in.Role == "" {
		in.Role = entity.RoleUser
	}
	if !entity.HasRole(in.Role, entity.RoleUser, entity.RolePublisher) {
		return nil, apperror.ValidationDetails("Invalid input", map[string]string{"role": "must be one of: user publisher"})
	}
	u, err := createUser(ctx, s.Users, s.Hasher, in.Name, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, err
	}
	return s.IssueToken(u)
}

// createUser checks the credential policy, hashes the password and stores the user.
func createUser(ctx context.Context, users repo.UserRepository, hasher *helpers.PasswordHasher, name, email, password, role string) (*entity.User, error) {
	details := map[string]string{}
	if strings.TrimSpace(name) == "" {
		details["name"] = "is required"
	}
	if !validation.Email(email) {
		details["email"] = "must be a valid email"
	}
	if len(password) < minPasswordLength {
		details["password"] = "must be at least 6 characters"
	}
	if len(details) > 0 {
		return nil, apperror.ValidationDetails("Invalid input", details)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, serverError("hash password", err)
	}
	u := &entity.User{Name: strings.TrimSpace(name), Email: strings.ToLower(strings.TrimSpace(email)), Role: role, Password: hash}
	if err := users.Create(ctx, u); err != nil {
		return nil, mapRepoErr(err, "User not found")
	}
	u.Password = ""
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperror.Validation("Please provide email and password")
	}
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, mapRepoErr(err, msgInvalidCredentials)
	}
	if !s.Hasher.Compare(u.Password, password) {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	u.Password = ""
	return s.IssueToken(u)
}

// IssueToken signs a fresh identity token for u.
func (s *AuthService) IssueToken(u *entity.User) (*Session, error) {
	tok, claims, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, serverError("sign token", err)
	}
	return &Session{Token: tok, Claims: claims, User: u}, nil
}

// Authenticate verifies a presented token and resolves the user it names.
// Every failure, including a user deleted after issuance, is Unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, *helpers.Claims, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, nil, &apperror.Error{Kind: apperror.KindUnauthorized, Message: msgAccessDenied, Err: err}
	}
	if s.Revoker != nil && claims.ID != "" {
		revoked, err := s.Revoker.Revoked(ctx, claims.ID)
		if err != nil {
			helpers.LogError(s.Logger, "revocation lookup failed", err, logrus.Fields{"user_id": claims.UserID})
		} else if revoked {
			return nil, nil, apperror.Unauthorized(msgAccessDenied)
		}
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil, apperror.Unauthorized(msgAccessDenied)
	}
	if err != nil {
		return nil, nil, mapRepoErr(err, msgAccessDenied)
	}
	return u, claims, nil
}

// Logout revokes the token id for the rest of its lifetime when a revoker is configured.
func (s *AuthService) Logout(ctx context.Context, claims *helpers.Claims) error {
	if s.Revoker == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.Revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return serverError("revoke token", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, "User not found")
	}
	return u, nil
}

type UpdateDetailsInput struct {
	Name  *string
	Email *string
}

// UpdateDetails changes name and/or email; role and password are untouched.
func (s *AuthService) UpdateDetails(ctx context.Context, userID string, in UpdateDetailsInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, "User not found")
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperror.ValidationDetails("Invalid input", map[string]string{"name": "is required"})
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if !validation.Email(*in.Email) {
			return nil, apperror.ValidationDetails("Invalid input", map[string]string{"email": "must be a valid email"})
		}
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, mapRepoErr(err, "User not found")
	}
	return u, nil
}

// UpdatePassword requires the current password and returns a fresh session.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) (*Session, error) {
	u, err := s.Users.GetByIDWithPassword(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, "User not found")
	}
	if !s.Hasher.Compare(u.Password, current) {
		return nil, apperror.Unauthorized("Password is incorrect")
	}
	if err := s.setPassword(ctx, u, next); err != nil {
		return nil, err
	}
	return s.IssueToken(u)
}

func (s *AuthService) hashPassword(plain string) (string, error) {
	if len(plain) < minPasswordLength {
		return "", apperror.ValidationDetails("Invalid input", map[string]string{"password": "must be at least 6 characters"})
	}
	hash, err := s.Hasher.Hash(plain)
	if err != nil {
		return "", serverError("hash password", err)
	}
	return hash, nil
}

func (s *AuthService) setPassword(ctx context.Context, u *entity.User, plain string) error {
	hash, err := s.hashPassword(plain)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return mapRepoErr(err, "User not found")
	}
	u.Password = ""
	u.ClearResetToken()
	return nil
}

// ForgotInput carries what the notification needs besides the user.
type ForgotInput struct {
	Email string
	// ResetBase is prefixed to the plaintext token to form the link.
	ResetBase string
	IP        string
	UserAgent string
}

// ForgotPassword issues a reset token and notifies the user. When delivery
// fails the token is cleared again so no unreachable token stays redeemable.
func (s *AuthService) ForgotPassword(ctx context.Context, in ForgotInput) error {
	if !validation.Email(in.Email) {
		return apperror.ValidationDetails("Invalid input", map[string]string{"email": "must be a valid email"})
	}
	u, err := s.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NotFound("There is no user with that email")
	}
	if err != nil {
		return mapRepoErr(err, "There is no user with that email")
	}

	plain, hash, err := helpers.NewResetToken()
	if err != nil {
		return serverError("generate reset token", err)
	}
	now := s.clock()
	expire := now.Add(s.Cfg.ResetTokenTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, &hash, &expire); err != nil {
		return mapRepoErr(err, "There is no user with that email")
	}

	data := mailtpl.NewResetPasswordData(s.Cfg, u.Name, u.Email, in.ResetBase+plain,
		mailtpl.WithTime(now),
		mailtpl.WithExpiresAt(expire),
		mailtpl.WithIP(in.IP),
		mailtpl.WithUserAgent(in.UserAgent),
	)
	job := mailer.EmailJob{To: u.Email, Template: mailtpl.ResetPassword, Data: data}
	if err := s.Notifier.Notify(ctx, job); err != nil {
		helpers.LogError(s.Logger, "reset email delivery failed", err, logrus.Fields{"user_id": u.ID})
		if rbErr := s.Users.SetResetToken(ctx, u.ID, nil, nil); rbErr != nil {
			helpers.LogError(s.Logger, "reset token rollback failed", rbErr, logrus.Fields{"user_id": u.ID})
		}
		return apperror.Server("Email could not be sent", err)
	}
	return nil
}

// ResetPassword redeems a plaintext reset token. Unknown, expired and
// already redeemed tokens fail the same way. The store only accepts the new
// password while the token is still held, so concurrent redemptions of one
// token leave exactly one winner.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	if token == "" {
		return nil, apperror.Validation(msgInvalidToken)
	}
	tokenHash := helpers.SHA256Hex(token)
	u, err := s.Users.GetByResetToken(ctx, tokenHash, s.clock())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Validation(msgInvalidToken)
	}
	if err != nil {
		return nil, mapRepoErr(err, msgInvalidToken)
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	err = s.Users.RedeemResetToken(ctx, u.ID, tokenHash, s.clock(), hash)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Validation(msgInvalidToken)
	}
	if err != nil {
		return nil, mapRepoErr(err, msgInvalidToken)
	}
	u.Password = ""
	u.ClearResetToken()

	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.PasswordChanged,
		Data:     mailtpl.NewPasswordChangedData(s.Cfg, u.Name, u.Email, mailtpl.WithTime(s.clock())),
	}
	if err := s.Notifier.Notify(ctx, job); err != nil {
		helpers.LogError(s.Logger, "password changed email failed", err, logrus.Fields{"user_id": u.ID})
	}
	return s.IssueToken(u)
}

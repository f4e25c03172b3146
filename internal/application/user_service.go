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
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/validation"
)

// UserService is the admin-only user management surface.
type UserService struct {
	Users  repo.UserRepository
	Hasher *helpers.PasswordHasher
	Logger logrus.FieldLogger
}

func NewUserService(users repo.UserRepository, hasher *helpers.PasswordHasher, logger logrus.FieldLogger) *UserService {
	return &UserService{Users: users, Hasher: hasher, Logger: logger}
}

func userNotFound(id string) string { return fmt.Sprintf("No user with the id of %s", id) }

func (s *UserService) List(ctx context.Context, spec query.Spec) (query.Result[entity.User], error) {
	res, err := s.Users.List(ctx, spec)
	if err != nil {
		return query.Result[entity.User]{}, mapRepoErr(err, "No users found")
	}
	return res, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, userNotFound(id))
	}
	return u, nil
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Create may assign any role, admin included.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if in.Role == "" {
		in.Role = entity.RoleUser
	}
	if !entity.HasRole(in.Role, entity.RoleUser, entity.RolePublisher, entity.RoleAdmin) {
		return nil, apperror.ValidationDetails("Invalid input", map[string]string{"role": "must be one of: user publisher admin"})
	}
	u, err := createUser(ctx, s.Users, s.Hasher, in.Name, in.Email, in.Password, in.Role)
	if err != nil {
		return nil, err
	}
	helpers.LogInfo(s.Logger, "user created by admin", logrus.Fields{"user_id": u.ID, "role": u.Role})
	return u, nil
}

type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, userNotFound(id))
	}
	details := map[string]string{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			details["name"] = "is required"
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if !validation.Email(*in.Email) {
			details["email"] = "must be a valid email"
		}
		u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		if !entity.HasRole(*in.Role, entity.RoleUser, entity.RolePublisher, entity.RoleAdmin) {
			details["role"] = "must be one of: user publisher admin"
		}
		u.Role = *in.Role
	}
	if len(details) > 0 {
		return nil, apperror.ValidationDetails("Invalid input", details)
	}
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, mapRepoErr(err, userNotFound(id))
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return mapRepoErr(err, userNotFound(id))
	}
	return nil
}

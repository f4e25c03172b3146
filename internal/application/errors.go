package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oksasatya/bootcamp-directory/internal/domain/entity"
	repo "github.com/oksasatya/bootcamp-directory/internal/domain/repository"
	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
)

const (
	msgDuplicate = "Duplicate field value entered"
	msgServer    = "Server Error"
)

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// mapRepoErr classifies a repository failure. Errors that are already
// classified (e.g. query validation) pass through untouched.
func mapRepoErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, repo.ErrDuplicate):
		return apperror.Validation(msgDuplicate)
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return serverError("database error", err)
}

// serverError hides the failing operation from the caller but keeps it in the cause.
func serverError(op string, err error) error {
	return apperror.Server(msgServer, fmt.Errorf("%s: %w", op, err))
}

// checkID rejects ids that cannot name any stored resource.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NotFound(fmt.Sprintf("Resource not found with id of %s", id))
	}
	return nil
}

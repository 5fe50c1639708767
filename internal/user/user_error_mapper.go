package user

import (
	"errors"
	"strings"

	"go-leave/internal/shared/apperror"
	usererrors "go-leave/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MapRepositoryError turns store errors into user-facing AppErrors.
func MapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return usererrors.ErrUserAlreadyExists
	}

	// sqlite and wrapped driver errors
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") || strings.Contains(errMsg, "unique constraint failed") {
		return usererrors.ErrUserAlreadyExists
	}

	return apperror.Persistence(err)
}

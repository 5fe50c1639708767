package usererrors

import (
	"go-leave/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)

	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"Role must be one of: employee manager admin",
		http.StatusBadRequest,
	)

	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager ID",
		http.StatusBadRequest,
	)

	ErrManagerNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Manager does not exist",
		http.StatusBadRequest,
	)

	ErrNotAManager = apperror.New(
		apperror.CodeInvalidInput,
		"Manager must be a user with role manager",
		http.StatusBadRequest,
	)

	ErrSelfManager = apperror.New(
		apperror.CodeInvalidInput,
		"A user cannot be their own manager",
		http.StatusBadRequest,
	)

	ErrManagerHasReports = apperror.New(
		apperror.CodeConflict,
		"Manager still has direct reports; reassign them first",
		http.StatusConflict,
	)

	ErrCannotDeleteSelf = apperror.New(
		apperror.CodeInvalidState,
		"You cannot delete your own account",
		http.StatusConflict,
	)

	ErrCannotChangeOwnRole = apperror.New(
		apperror.CodeInvalidState,
		"You cannot change your own role",
		http.StatusConflict,
	)

	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only administrators can manage users",
		http.StatusForbidden,
	)
)

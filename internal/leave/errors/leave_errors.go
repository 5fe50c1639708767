package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be one of: sick casual annual unpaid",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrReasonTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"reason must be at most 500 characters",
		http.StatusBadRequest,
	)
	ErrCommentTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"comment must be at most 500 characters",
		http.StatusBadRequest,
	)
	ErrInvalidReviewStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of: approved rejected",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status filter must be one of: pending approved rejected",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave not found",
		http.StatusNotFound,
	)
	ErrCreateForbidden = apperror.New(
		apperror.CodeForbidden,
		"your role cannot submit leave requests",
		http.StatusForbidden,
	)
	ErrListForbidden = apperror.New(
		apperror.CodeForbidden,
		"your role cannot list other employees' leave requests",
		http.StatusForbidden,
	)
	ErrViewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to view this leave request",
		http.StatusForbidden,
	)
	ErrReviewForbidden = apperror.New(
		apperror.CodeForbidden,
		"you can only review leave requests of your direct reports",
		http.StatusForbidden,
	)
	ErrDeleteForbidden = apperror.New(
		apperror.CodeForbidden,
		"you can only delete your own leave requests",
		http.StatusForbidden,
	)
	ErrLeaveAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been reviewed",
		http.StatusConflict,
	)
)

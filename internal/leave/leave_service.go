package leave

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go-leave/internal/access"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxTextLength = 500

// Recorder receives lifecycle events for metrics.
type Recorder interface {
	LeaveCreated(leaveType string)
	LeaveReviewed(status string)
	LeaveDeleted()
}

type nopRecorder struct{}

func (nopRecorder) LeaveCreated(string)  {}
func (nopRecorder) LeaveReviewed(string) {}
func (nopRecorder) LeaveDeleted()        {}

type Config struct {
	// AllowReReview lets a reviewer overwrite a record that is already approved or rejected.
	AllowReReview bool
	Metrics       Recorder
	Now           func() time.Time
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, caller access.Caller, req CreateLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, caller access.Caller) ([]LeaveResponse, error)
	ListScoped(ctx context.Context, caller access.Caller, status string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, caller access.Caller, id string) (LeaveResponse, error)
	Review(ctx context.Context, caller access.Caller, id string, req ReviewLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, caller access.Caller, id string) error
}

type service struct {
	repo      Repository
	directory access.Directory
	cfg       Config
	logger    *zap.Logger
}

func NewService(repo Repository, directory access.Directory, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopRecorder{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &service{repo: repo, directory: directory, cfg: cfg, logger: l}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return apperror.Persistence(err)
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperror.RequiredField(field)
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func validateCreate(req CreateLeaveRequest) (start, end time.Time, err error) {
	switch req.LeaveType {
	case "":
		return start, end, apperror.RequiredField("leave_type")
	case TypeSick, TypeCasual, TypeAnnual, TypeUnpaid:
	default:
		return start, end, leaveerrors.ErrInvalidLeaveType
	}

	if start, err = parseDate("start_date", req.StartDate); err != nil {
		return start, end, err
	}
	if end, err = parseDate("end_date", req.EndDate); err != nil {
		return start, end, err
	}
	if end.Before(start) {
		return start, end, leaveerrors.ErrInvalidDateRange
	}

	if strings.TrimSpace(req.Reason) == "" {
		return start, end, apperror.RequiredField("reason")
	}
	if utf8.RuneCountInString(req.Reason) > maxTextLength {
		return start, end, leaveerrors.ErrReasonTooLong
	}
	return start, end, nil
}

func (s *service) Create(ctx context.Context, caller access.Caller, req CreateLeaveRequest) (LeaveResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !access.For(caller, s.directory).CanCreate() {
		return LeaveResponse{}, leaveerrors.ErrCreateForbidden
	}

	start, end, err := validateCreate(req)
	if err != nil {
		return LeaveResponse{}, err
	}

	leave := &Leave{
		ID:         uuid.New(),
		EmployeeID: caller.ID,
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     StatusPending,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		l.Error("failed to create leave", zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}

	created, err := s.repo.FindByID(ctx, leave.ID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.cfg.Metrics.LeaveCreated(created.LeaveType)
	l.Info("leave created",
		zap.String("leave_id", created.ID.String()),
		zap.String("leave_type", created.LeaveType),
	)
	return mapToResponse(*created), nil
}

func (s *service) ListMine(ctx context.Context, caller access.Caller) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindByEmployee(ctx, caller.ID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to list own leaves", zap.Error(err))
		return nil, apperror.Persistence(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListScoped(ctx context.Context, caller access.Caller, status string) ([]LeaveResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, leaveerrors.ErrInvalidStatusFilter
	}

	scope, err := access.For(caller, s.directory).ListScope(ctx)
	if err != nil {
		if errors.Is(err, access.ErrDenied) {
			return nil, leaveerrors.ErrListForbidden
		}
		return nil, apperror.Persistence(err)
	}

	leaves, err := s.repo.FindAll(ctx, Filter{
		AllEmployees: scope.All(),
		EmployeeIDs:  scope.EmployeeIDs(),
		Status:       status,
	})
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to list scoped leaves", zap.Error(err))
		return nil, apperror.Persistence(err)
	}
	return mapToListResponse(leaves), nil
}

// find loads a record by its raw id. Absence is reported before any authorization check.
func (s *service) find(ctx context.Context, id string) (*Leave, error) {
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	leave, err := s.repo.FindByID(ctx, leaveID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return leave, nil
}

func (s *service) GetByID(ctx context.Context, caller access.Caller, id string) (LeaveResponse, error) {
	leave, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	ok, err := access.For(caller, s.directory).CanView(ctx, leave.EmployeeID)
	if err != nil {
		return LeaveResponse{}, apperror.Persistence(err)
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrViewForbidden
	}
	return mapToResponse(*leave), nil
}

func (s *service) Review(ctx context.Context, caller access.Caller, id string, req ReviewLeaveRequest) (LeaveResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != StatusApproved && status != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidReviewStatus
	}
	if utf8.RuneCountInString(req.Comment) > maxTextLength {
		return LeaveResponse{}, leaveerrors.ErrCommentTooLong
	}

	leave, err := s.find(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	ok, err := access.For(caller, s.directory).CanReview(ctx, leave.EmployeeID)
	if err != nil {
		return LeaveResponse{}, apperror.Persistence(err)
	}
	if !ok {
		l.Warn("review denied",
			zap.String("leave_id", leave.ID.String()),
			zap.String("owner_id", leave.EmployeeID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrReviewForbidden
	}

	if leave.Status != StatusPending && !s.cfg.AllowReReview {
		return LeaveResponse{}, leaveerrors.ErrLeaveAlreadyReviewed
	}

	reviewer := caller.ID
	now := s.cfg.Now().UTC()
	leave.Status = status
	leave.ReviewedBy = &reviewer
	leave.ReviewedAt = &now
	leave.ReviewComment = req.Comment

	if err := s.repo.Update(ctx, leave); err != nil {
		l.Error("failed to review leave", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, apperror.Persistence(err)
	}

	updated, err := s.repo.FindByID(ctx, leave.ID)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	s.cfg.Metrics.LeaveReviewed(status)
	l.Info("leave reviewed",
		zap.String("leave_id", id),
		zap.String("status", status),
		zap.String("reviewer_id", caller.ID.String()),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Delete(ctx context.Context, caller access.Caller, id string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	leave, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if !access.For(caller, s.directory).CanDelete(leave.EmployeeID) {
		return leaveerrors.ErrDeleteForbidden
	}

	if err := s.repo.Delete(ctx, leave.ID); err != nil {
		l.Error("failed to delete leave", zap.String("leave_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.cfg.Metrics.LeaveDeleted()
	l.Info("leave deleted", zap.String("leave_id", id), zap.String("actor_id", caller.ID.String()))
	return nil
}

package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type RequestService struct {
	tx             database.Transactor
	requestRepo    leave.LeaveRequestRepository
	attendanceRepo attendance.AttendanceRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewRequestService(tx database.Transactor, leaveRequestRepository leave.LeaveRequestRepository, attendanceRepository attendance.AttendanceRepository) *RequestService {
	return &RequestService{
		tx:             tx,
		requestRepo:    leaveRequestRepository,
		attendanceRepo: attendanceRepository,
		logger:         slog.Default(),
		now:            time.Now,
	}
}

// SetClock replaces time.Now, mainly for tests.
func (s *RequestService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RequestService) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// CreateLeaveRequest implements leave.LeaveService.
func (s *RequestService) CreateLeaveRequest(ctx context.Context, requester user.Ref, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if requester.Type != user.TypeEmployee {
		return leave.LeaveRequestResponse{}, leave.ErrEmployeesOnly
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	startDate, err := attendance.ParseBusinessDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := attendance.ParseBusinessDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	workingDays := len(attendance.Workdays(startDate, endDate))
	if workingDays == 0 {
		return leave.LeaveRequestResponse{}, leave.ErrNoWorkingDays
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}
	now := s.now().UTC()
	request := leave.Request{
		ID:          id.String(),
		EmployeeID:  requester.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: workingDays,
		Reason:      req.Reason,
		Status:      leave.StatusWaitingApproval,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		hasOverlap, err := s.requestRepo.CheckOverlapping(ctx, requester.ID, startDate, endDate)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if hasOverlap {
			return leave.ErrOverlappingLeave
		}

		if err := s.requestRepo.Create(ctx, request); err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.logger.Info("leave requested", "id", request.ID, "employee_id", request.EmployeeID, "working_days", workingDays)
	return mapRequestToResponse(request), nil
}

// ListMyLeaveRequests implements leave.LeaveService.
func (s *RequestService) ListMyLeaveRequests(ctx context.Context, requester user.Ref, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	filter.EmployeeID = &requester.ID
	return s.ListLeaveRequests(ctx, filter)
}

// ListLeaveRequests implements leave.LeaveService.
func (s *RequestService) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	query := leave.ListQuery{
		EmployeeID: filter.EmployeeID,
		Offset:     (filter.Page - 1) * filter.Limit,
		Limit:      filter.Limit,
	}
	if filter.Status != nil {
		status := leave.RequestStatus(*filter.Status)
		query.Status = &status
	}

	requests, total, err := s.requestRepo.List(ctx, query)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, mapRequestToResponse(r))
	}

	totalPages, showing := paginate(total, filter.Page, filter.Limit)
	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    totalPages,
		Showing:       showing,
		LeaveRequests: responses,
	}, nil
}

// GetLeaveRequest implements leave.LeaveService. Employees only see their
// own requests; anything else reads as not found.
func (s *RequestService) GetLeaveRequest(ctx context.Context, principal user.Principal, id string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if !principal.CanView(user.EmployeeRef(request.EmployeeID)) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	return mapRequestToResponse(request), nil
}

// ApproveLeaveRequest implements leave.LeaveService.
func (s *RequestService) ApproveLeaveRequest(ctx context.Context, id string, approver user.Ref) (leave.LeaveRequestResponse, error) {
	var marked int
	request, err := s.review(ctx, id, func(ctx context.Context, request *leave.Request, now time.Time) error {
		request.Status = leave.StatusApproved
		request.ApprovedBy = &approver.ID
		request.ApprovedAt = &now
		if err := s.requestRepo.UpdateStatus(ctx, *request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		days := attendance.Workdays(request.StartDate, request.EndDate)
		n, err := s.attendanceRepo.MarkLeave(ctx, user.EmployeeRef(request.EmployeeID), days)
		if err != nil {
			return fmt.Errorf("failed to mark leave days: %w", err)
		}
		marked = n
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.logger.Info("leave approved", "id", request.ID, "employee_id", request.EmployeeID, "approved_by", approver.ID, "marked_days", marked)
	resp := mapRequestToResponse(request)
	resp.MarkedDays = &marked
	return resp, nil
}

// RejectLeaveRequest implements leave.LeaveService.
func (s *RequestService) RejectLeaveRequest(ctx context.Context, req leave.RejectLeaveRequestRequest, approver user.Ref) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.review(ctx, req.ID, func(ctx context.Context, request *leave.Request, now time.Time) error {
		request.Status = leave.StatusRejected
		request.RejectionReason = &req.Reason
		request.ApprovedBy = &approver.ID
		request.ApprovedAt = &now
		if err := s.requestRepo.UpdateStatus(ctx, *request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.logger.Info("leave rejected", "id", request.ID, "employee_id", request.EmployeeID, "rejected_by", approver.ID)
	return mapRequestToResponse(request), nil
}

// CancelLeaveRequest implements leave.LeaveService.
func (s *RequestService) CancelLeaveRequest(ctx context.Context, requester user.Ref, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.review(ctx, id, func(ctx context.Context, request *leave.Request, now time.Time) error {
		if user.EmployeeRef(request.EmployeeID) != requester {
			return leave.ErrLeaveRequestNotFound
		}
		request.Status = leave.StatusCancelled
		request.CancelledAt = &now
		if err := s.requestRepo.UpdateStatus(ctx, *request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapRequestToResponse(request), nil
}

// review locks a request still waiting for approval and hands it to decide
// inside one transaction.
func (s *RequestService) review(ctx context.Context, id string, decide func(ctx context.Context, request *leave.Request, now time.Time) error) (leave.Request, error) {
	if !validator.IsValidUUID(id) {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}

	var saved leave.Request
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		request, err := s.requestRepo.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveRequestNotFound) {
				return err
			}
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if request.Status != leave.StatusWaitingApproval {
			return leave.ErrLeaveAlreadyProcessed
		}

		now := s.now().UTC()
		request.UpdatedAt = now
		if err := decide(ctx, &request, now); err != nil {
			return err
		}
		saved = request
		return nil
	})
	return saved, err
}

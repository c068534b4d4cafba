package leave

import (
	"context"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, requester user.Ref, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, requester user.Ref, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, principal user.Principal, id string) (LeaveRequestResponse, error)

	// ApproveLeaveRequest marks every working day of the request as leave
	// in attendance, in the same transaction as the status change.
	ApproveLeaveRequest(ctx context.Context, id string, approver user.Ref) (LeaveRequestResponse, error)

	RejectLeaveRequest(ctx context.Context, req RejectLeaveRequestRequest, approver user.Ref) (LeaveRequestResponse, error)

	// CancelLeaveRequest withdraws a request still waiting for approval.
	CancelLeaveRequest(ctx context.Context, requester user.Ref, id string) (LeaveRequestResponse, error)
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	ListByPeriod(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req payroll.GenerateRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Generate payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.payrollService.GeneratePayroll(r.Context(), req, principal.Ref)
	if err != nil {
		slog.Error("Generate payroll service error", "month", req.Month, "year", req.Year, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated successfully", resp)
}

// ListByPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PeriodFilter{
		Month: queryInt(r, "month"),
		Year:  queryInt(r, "year"),
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.payrollService.ListByPeriod(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list payroll by period", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListByEmployee implements PayrollHandler.
func (h *payrollHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	req := payroll.ListRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.payrollService.GetPayroll(r.Context(), principal, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.payrollService.GetPayrollRecord(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// UpdateStatus implements PayrollHandler.
func (h *payrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateStatusRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.payrollService.SetPayrollStatus(r.Context(), req)
	if err != nil {
		slog.Error("Failed to update payroll status", "id", req.ID, "status", req.Status, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated", resp)
}

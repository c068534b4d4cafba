package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	ReCheckIn(w http.ResponseWriter, r *http.Request)
	ReCheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.session(w, r, attendance.EventCheckIn)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.session(w, r, attendance.EventCheckOut)
}

// ReCheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ReCheckIn(w http.ResponseWriter, r *http.Request) {
	h.session(w, r, attendance.EventReCheckIn)
}

// ReCheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ReCheckOut(w http.ResponseWriter, r *http.Request) {
	h.session(w, r, attendance.EventReCheckOut)
}

func (h *attendanceHandlerImpl) session(w http.ResponseWriter, r *http.Request, event attendance.Event) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req attendance.SessionRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Attendance session decode error", "event", event.String(), "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.IPAddress = clientIP(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var (
		resp attendance.SessionResponse
		err  error
	)
	switch event {
	case attendance.EventCheckIn:
		resp, err = h.attendanceService.CheckIn(r.Context(), principal.Ref, req)
	case attendance.EventCheckOut:
		resp, err = h.attendanceService.CheckOut(r.Context(), principal.Ref, req)
	case attendance.EventReCheckIn:
		resp, err = h.attendanceService.ReCheckIn(r.Context(), principal.Ref, req)
	case attendance.EventReCheckOut:
		resp, err = h.attendanceService.ReCheckOut(r.Context(), principal.Ref, req)
	}
	if err != nil {
		slog.Warn("Attendance session rejected", "event", event.String(), "user", principal.Ref.String(), "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, event.String()+" recorded", resp)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.attendanceService.GetToday(r.Context(), principal.Ref)
	if err != nil {
		slog.Error("Failed to get today's attendance", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	filter := attendance.HistoryFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.GetHistory(r.Context(), principal.Ref, filter)
	if err != nil {
		slog.Error("Failed to get attendance history", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	req := attendance.SummaryRequest{
		Month: queryInt(r, "month"),
		Year:  queryInt(r, "year"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.GetMonthlySummary(r.Context(), principal.Ref, req)
	if err != nil {
		slog.Error("Failed to get attendance summary", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		UserType:  queryString(r, "user_type"),
		UserID:    queryString(r, "user_id"),
		Status:    queryString(r, "status"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list attendance", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// UpdateStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateStatusRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.attendanceService.SetAttendanceStatus(r.Context(), req)
	if err != nil {
		slog.Error("Failed to update attendance status", "id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance status updated", resp)
}

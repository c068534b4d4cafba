package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ReportHandler interface {
	AttendanceCSV(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	PayrollWorkbook(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// AttendanceCSV implements ReportHandler.
func (h *reportHandlerImpl) AttendanceCSV(w http.ResponseWriter, r *http.Request) {
	req := report.AttendanceExportRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		UserType:  queryString(r, "user_type"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.AttendanceCSV(r.Context(), req, &buf); err != nil {
		slog.Error("Attendance export failed", "error", err)
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.csv", req.StartDate, req.EndDate)
	writeFile(w, contentTypeCSV, filename, &buf)
}

// Payslip implements ReportHandler.
func (h *reportHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.reportService.Payslip(r.Context(), principal, id, &buf); err != nil {
		slog.Error("Payslip render failed", "id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	writeFile(w, contentTypePDF, "payslip_"+id+".pdf", &buf)
}

// PayrollWorkbook implements ReportHandler.
func (h *reportHandlerImpl) PayrollWorkbook(w http.ResponseWriter, r *http.Request) {
	req := report.PayrollExportRequest{
		Month: queryInt(r, "month"),
		Year:  queryInt(r, "year"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.reportService.PayrollWorkbook(r.Context(), req, &buf); err != nil {
		slog.Error("Payroll export failed", "month", req.Month, "year", req.Year, "error", err)
		response.HandleError(w, err)
		return
	}

	writeFile(w, contentTypeXLSX, fmt.Sprintf("payroll_%04d-%02d.xlsx", req.Year, req.Month), &buf)
}

func writeFile(w http.ResponseWriter, contentType, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write export", "filename", filename, "error", err)
	}
}

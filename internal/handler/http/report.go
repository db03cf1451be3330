package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shinelab/detailing-ops/internal/domain/report"
	"github.com/shinelab/detailing-ops/internal/handler/http/response"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

type ReportHandler interface {
	Monthly(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	ListExports(w http.ResponseWriter, r *http.Request)
	DownloadExport(w http.ResponseWriter, r *http.Request)
	SendPayslip(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func reportFilterFromQuery(r *http.Request) (report.ReportFilter, error) {
	var errs validator.ValidationErrors
	filter := report.ReportFilter{
		Year:            queryInt(r, "year", &errs),
		Month:           queryInt(r, "month", &errs),
		IncludeHolidays: queryBool(r, "include_holidays", &errs),
	}
	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}

// Monthly implements ReportHandler.
func (h *reportHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.MonthlyReport(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		TotalItems: len(result.Employees),
		Warnings:   result.Warnings,
	})
}

// Employee implements ReportHandler.
func (h *reportHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.EmployeeReport(r.Context(), chi.URLParam(r, "employeeId"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.reportService.ExportMonthly(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.FileName, file.ContentType, file.Data)
}

// ListExports implements ReportHandler.
func (h *reportHandlerImpl) ListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.reportService.ListExports(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, exports, &response.Meta{TotalItems: len(exports)})
}

// DownloadExport implements ReportHandler.
func (h *reportHandlerImpl) DownloadExport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.DownloadExport(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.FileName, file.ContentType, file.Data)
}

// SendPayslip implements ReportHandler.
func (h *reportHandlerImpl) SendPayslip(w http.ResponseWriter, r *http.Request) {
	filter, err := reportFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	employeeID := chi.URLParam(r, "employeeId")
	result, err := h.reportService.SendPayslip(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Payslip sent", "employee_id", employeeID, "year", filter.Year, "month", filter.Month)
	response.SuccessWithMessage(w, "Payslip sent", result)
}

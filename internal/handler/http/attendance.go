package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shinelab/detailing-ops/internal/domain/attendance"
	"github.com/shinelab/detailing-ops/internal/handler/http/response"
	"github.com/shinelab/detailing-ops/internal/pkg/jwt"
	"github.com/shinelab/detailing-ops/internal/pkg/validator"
)

// maxImportBytes bounds uploaded attendance workbooks.
const maxImportBytes = 10 << 20

type AttendanceHandler interface {
	UpsertRecord(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	ClearMonth(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)

	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	AddHoliday(w http.ResponseWriter, r *http.Request)
	RemoveHoliday(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
	}
}

func monthFilterFromQuery(r *http.Request) (attendance.MonthFilter, error) {
	var errs validator.ValidationErrors
	filter := attendance.MonthFilter{
		EmployeeID: strings.TrimSpace(r.URL.Query().Get("employee_id")),
		Year:       queryInt(r, "year", &errs),
		Month:      queryInt(r, "month", &errs),
	}
	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}

// UpsertRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpsertRecordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("UpsertRecord decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.UpsertRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record saved", record)
}

// ListRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter, err := monthFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: len(records)})
}

// ClearMonth implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClearMonth(w http.ResponseWriter, r *http.Request) {
	filter, err := monthFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ClearMonth(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance records cleared", result)
}

// Import implements AttendanceHandler.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File is required", map[string]string{"file": "is required"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		response.BadRequest(w, "Only .xlsx files are supported", map[string]string{"file": "must be an .xlsx workbook"})
		return
	}

	result, err := h.attendanceService.ImportRecords(r.Context(), file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance workbook imported", "file", header.Filename, "imported", result.Imported, "skipped", result.Skipped)
	response.SuccessWithMessage(w, "Attendance workbook imported", result)
}

// Stream pushes attendance change events over SSE
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the short-lived token travels in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.attendanceService.Subscribe(r.Context())
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode attendance event", "event", event.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// GetSettings implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.attendanceService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("UpdateSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	settings, err := h.attendanceService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance settings updated", settings)
}

// AddHoliday implements AttendanceHandler.
func (h *attendanceHandlerImpl) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req attendance.AddHolidayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	settings, err := h.attendanceService.AddHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday added", settings)
}

// RemoveHoliday implements AttendanceHandler.
func (h *attendanceHandlerImpl) RemoveHoliday(w http.ResponseWriter, r *http.Request) {
	settings, err := h.attendanceService.RemoveHoliday(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday removed", settings)
}

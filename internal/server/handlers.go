package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"timesheet/internal/domain"
	apperrors "timesheet/internal/errors"
	"timesheet/internal/export"
	"timesheet/internal/services"
	"timesheet/internal/timecalc"
)

// ─── Views ──────────────────────────────────────────────────────────────────

type entryView struct {
	Date    string     `json:"date"`
	State   string     `json:"state"`
	StartAt *time.Time `json:"startAt"`
	EndAt   *time.Time `json:"endAt"`
	Total   *string    `json:"total"`
}

func newEntryView(e *domain.DayEntry) *entryView {
	if e == nil {
		return nil
	}
	return &entryView{
		Date:    e.DateKey,
		State:   e.State().String(),
		StartAt: e.StartTime,
		EndAt:   e.EndTime,
		Total:   e.TotalHHMM,
	}
}

type settingsView struct {
	UserID       string `json:"userId"`
	RolloverDay  int    `json:"rolloverDay"`
	RolloverHour int    `json:"rolloverHour"`
	RoundingRule string `json:"roundingRule"`
}

func newSettingsView(s domain.Settings) settingsView {
	return settingsView{
		UserID:       s.UserID,
		RolloverDay:  s.RolloverDay,
		RolloverHour: s.RolloverHour,
		RoundingRule: string(s.RoundingRule),
	}
}

type statusView struct {
	Date    string     `json:"date"`
	State   string     `json:"state"`
	Elapsed string     `json:"elapsed,omitempty"`
	Total   string     `json:"total,omitempty"`
	Entry   *entryView `json:"entry,omitempty"`
	Pending int        `json:"pending"`
}

type stampView struct {
	Outcome string     `json:"outcome,omitempty"`
	Date    string     `json:"date,omitempty"`
	Queued  bool       `json:"queued"`
	Pending int        `json:"pending"`
	Message string     `json:"message"`
	Entry   *entryView `json:"entry,omitempty"`
}

// ─── Requests ───────────────────────────────────────────────────────────────

type stampRequest struct {
	At *time.Time `json:"at"`
}

type entryRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type settingsRequest struct {
	RolloverDay  *int    `json:"rolloverDay"`
	RolloverHour *int    `json:"rolloverHour"`
	RoundingRule *string `json:"roundingRule"`
}

// decodeBody decodes an optional JSON body into v. An empty body is not an
// error.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewInvalidInputError("body", "", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}

// ─── Handlers ───────────────────────────────────────────────────────────────

func (s *Server) handleStamp(w http.ResponseWriter, r *http.Request) {
	var req stampRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	at := s.now()
	if req.At != nil {
		at = *req.At
	}

	report, err := s.api.Stamp(r.Context(), at)
	if err != nil {
		writeAppError(w, err)
		return
	}

	status := http.StatusOK
	if report.Queued {
		status = http.StatusAccepted
	}
	writeJSON(w, status, stampView{
		Outcome: string(report.Outcome),
		Date:    report.DateKey,
		Queued:  report.Queued,
		Pending: report.Pending,
		Message: report.Message,
		Entry:   newEntryView(report.Entry),
	})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	status, err := s.api.Today(r.Context(), s.now())
	if err != nil {
		writeAppError(w, err)
		return
	}
	pending, err := s.api.PendingStamps(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStatusView(status, pending))
}

func newStatusView(status *services.DayStatus, pending int) statusView {
	return statusView{
		Date:    status.DateKey,
		State:   status.State,
		Elapsed: status.Elapsed,
		Total:   status.Total,
		Entry:   newEntryView(status.Entry),
		Pending: pending,
	}
}

// resolvePeriod reads ?which=current|previous|YYYY-MM-DD
func (s *Server) resolvePeriod(r *http.Request) (timecalc.Period, error) {
	switch which := r.URL.Query().Get("which"); which {
	case "", "current":
		return s.api.CurrentPeriod(r.Context(), s.now())
	case "previous":
		return s.api.PreviousPeriod(r.Context(), s.now())
	default:
		return s.api.PeriodStartingOn(r.Context(), which)
	}
}

func (s *Server) handlePeriod(w http.ResponseWriter, r *http.Request) {
	period, err := s.resolvePeriod(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	period, err := s.resolvePeriod(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	entries, err := s.api.ListEntries(r.Context(), period)
	if err != nil {
		writeAppError(w, err)
		return
	}

	views := make([]*entryView, 0, len(entries))
	for i := range entries {
		views = append(views, newEntryView(&entries[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"period":  period,
		"entries": views,
	})
}

func (s *Server) handleSetEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	entry, err := s.api.SetEntry(r.Context(), chi.URLParam(r, "date"), req.Start, req.End)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryView(entry))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeleteEntry(r.Context(), chi.URLParam(r, "date")); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	period, err := s.resolvePeriod(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	summary, err := s.api.Summary(r.Context(), period)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.api.GetSettings(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsView(settings))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	settings, err := s.api.UpdateSettings(r.Context(), domain.SettingsPatch{
		RolloverDay:  req.RolloverDay,
		RolloverHour: req.RolloverHour,
		RoundingRule: req.RoundingRule,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsView(settings))
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	report, err := s.api.Sync(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	result, err := s.api.Backup(r.Context(), s.now(), force)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	period, err := s.resolvePeriod(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	doc, err := s.api.Export(r.Context(), format, period, s.now())
	if err != nil {
		writeAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

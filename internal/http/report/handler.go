package report

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/fonda/internal/report"
)

type Handler struct {
	svc      *report.Service
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/end-of-day", h.endOfDay)
}

type rangeQuery struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

var errInvertedRange = errors.New("end_date is before start_date")

// dateRange reads start_date and end_date, defaulting to the current month up to today.
func (h *Handler) dateRange(r *http.Request) (time.Time, time.Time, error) {
	q := rangeQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	if err := h.validate.Struct(q); err != nil {
		return time.Time{}, time.Time{}, err
	}

	now := h.now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if q.StartDate != "" {
		from, _ = time.Parse(time.DateOnly, q.StartDate)
	}

	if q.EndDate != "" {
		to, _ = time.Parse(time.DateOnly, q.EndDate)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, errInvertedRange
	}

	return from, to, nil
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sum, err := h.svc.Summary(r.Context(), from, to)
	if err != nil {
		slog.Error("failed to build summary", "error", err)
		http.Error(w, "failed to build summary", http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSummaryResponse(sum)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) endOfDay(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dateRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	closes, err := h.svc.EndOfDayReports(r.Context(), from, to)
	if err != nil {
		slog.Error("failed to list end-of-day reports", "error", err)
		http.Error(w, "failed to list end-of-day reports", http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toDailyCloseList(closes)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/fonda/internal/export"
)

type Handler struct {
	svc      *export.Service
	validate *validator.Validate
	now      func() time.Time
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type closingResponse struct {
	Date          string `json:"date"`
	CashTotal     string `json:"cash_total"`
	CardTotal     string `json:"card_total"`
	ExpensesTotal string `json:"expenses_total"`
	Notes         string `json:"notes,omitempty"`
}

type exportMetadataResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	Closings  []closingResponse `json:"closings"`
	EmailBody string            `json:"email_body"`
}

var errInvertedRange = errors.New("end_date is before start_date")

// period decodes the request body, defaulting to last month when no dates are given.
func (h *Handler) period(r *http.Request) (time.Time, time.Time, error) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return time.Time{}, time.Time{}, err
	}

	if err := h.validate.Struct(req); err != nil {
		return time.Time{}, time.Time{}, err
	}

	now := h.now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := firstOfMonth.AddDate(0, -1, 0)
	to := firstOfMonth.AddDate(0, 0, -1)

	if req.StartDate != "" {
		from, _ = time.Parse(time.DateOnly, req.StartDate)
	}

	if req.EndDate != "" {
		to, _ = time.Parse(time.DateOnly, req.EndDate)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, errInvertedRange
	}

	return from, to, nil
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bundle, err := h.svc.Export(r.Context(), from, to)
	if err != nil {
		slog.Error("failed to export period", "error", err)
		http.Error(w, "failed to export period", http.StatusBadGateway)

		return
	}

	closings := make([]closingResponse, 0, len(bundle.Closings))
	for _, c := range bundle.Closings {
		closings = append(closings, closingResponse{
			Date:          c.Date.Format(time.DateOnly),
			CashTotal:     c.CashTotal.StringFixed(2),
			CardTotal:     c.CardTotal.StringFixed(2),
			ExpensesTotal: c.ExpensesTotal.StringFixed(2),
			Notes:         c.Notes,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		StartDate: from.Format(time.DateOnly),
		EndDate:   to.Format(time.DateOnly),
		Closings:  closings,
		EmailBody: export.GenerateSummaryText(bundle),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.period(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bundle, err := h.svc.Export(r.Context(), from, to)
	if err != nil {
		slog.Error("failed to export period", "error", err)
		http.Error(w, "failed to export period", http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s_%s.zip\"", from.Format("20060102"), to.Format("20060102")))

	if err := export.WriteZip(w, bundle); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}

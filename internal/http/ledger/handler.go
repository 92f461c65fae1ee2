package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/supabase"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

// Paths maps each endpoint to the record kind it stores.
var Paths = map[string]ledger.Kind{
	"/incomes":            ledger.KindIncome,
	"/expenses":           ledger.KindExpense,
	"/beverages":          ledger.KindBeverageSale,
	"/end-of-day-reports": ledger.KindEndOfDayReport,
}

func (h *Handler) Routes(r chi.Router) {
	for path, kind := range Paths {
		r.Post(path, h.add(kind))
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (h *Handler) add(kind ledger.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.UseNumber()

		var record ledger.Record
		if err := dec.Decode(&record); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
			return
		}

		if record == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object"})
			return
		}

		data, err := h.svc.Add(r.Context(), kind, record)
		if err != nil {
			status, resp := errorStatus(err)
			if status >= http.StatusInternalServerError {
				slog.Error("failed to store record", "kind", kind, "error", err)
			}

			writeJSON(w, status, resp)

			return
		}

		if data == nil {
			data = []ledger.Record{}
		}

		writeJSON(w, http.StatusCreated, data)
	}
}

// errorStatus maps store and validation failures to a response. Store-side 5xx and
// transport errors surface as 502 since the API only relays them.
func errorStatus(err error) (int, errorResponse) {
	var validationErr *ledger.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, errorResponse{Error: validationErr.Error()}
	}

	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		resp := errorResponse{
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
			Hint:    apiErr.Hint,
		}

		if apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			return apiErr.StatusCode, resp
		}

		return http.StatusBadGateway, resp
	}

	return http.StatusBadGateway, errorResponse{Error: "store unavailable"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

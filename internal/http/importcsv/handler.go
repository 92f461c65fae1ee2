package importcsv

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fonda/internal/importer"
	"github.com/MrJamesThe3rd/fonda/internal/importer/statement"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	importSvc *importer.Service
	validate  *validator.Validate
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		validate:  validator.New(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type importForm struct {
	Bank string `validate:"required,oneof=cgd santander bbva"`
}

type entryDTO struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      string      `json:"amount"`
	Kind        ledger.Kind `json:"kind"`
}

type importResponse struct {
	ImportID uuid.UUID       `json:"import_id"`
	Parsed   int             `json:"parsed"`
	Incomes  int             `json:"incomes"`
	Expenses int             `json:"expenses"`
	Records  []ledger.Record `json:"records"`
	Error    string          `json:"error,omitempty"`
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (statement.Bank, []byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return "", nil, false
	}

	form := importForm{Bank: strings.ToLower(strings.TrimSpace(r.FormValue("bank")))}
	if err := h.validate.Struct(form); err != nil {
		http.Error(w, "bank must be one of cgd, santander, bbva", http.StatusBadRequest)
		return "", nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return "", nil, false
	}

	return statement.Bank(form.Bank), data, true
}

// preview parses the statement and returns the entries without writing them.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	bank, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	entries, err := h.importSvc.Parse(bank, bytes.NewReader(data))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, entryDTO{
			Date:        e.Date.Format(time.DateOnly),
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			Kind:        e.Kind,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	bank, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	res, err := h.importSvc.Import(r.Context(), bank, bytes.NewReader(data))
	if res == nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := importResponse{
		ImportID: res.ImportID,
		Parsed:   res.Parsed,
		Incomes:  res.Incomes,
		Expenses: res.Expenses,
		Records:  res.Inserted,
	}

	status := http.StatusCreated

	if err != nil {
		slog.Error("import stopped", "import_id", res.ImportID, "inserted", res.Total(), "error", err)

		resp.Error = err.Error()
		status = http.StatusBadGateway
	}

	if resp.Records == nil {
		resp.Records = []ledger.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Package httperr maps domain errors to HTTP responses in one place.
package httperr

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/catalog"
	"github.com/zaidnet/tagihan/internal/importer"
	"github.com/zaidnet/tagihan/internal/importer/gsheet"
	"github.com/zaidnet/tagihan/internal/notify"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type mapping struct {
	err    error
	kind   string
	status int
}

// Order matters: the first match wins.
var mappings = []mapping{
	{bill.ErrNotFound, "not_found", http.StatusNotFound},
	{bill.ErrInvalidName, "invalid_name", http.StatusUnprocessableEntity},
	{bill.ErrInvalidAmount, "invalid_amount", http.StatusUnprocessableEntity},
	{bill.ErrInvalidCoordinates, "invalid_coordinates", http.StatusUnprocessableEntity},
	{bill.ErrInvalidStatus, "invalid_status", http.StatusUnprocessableEntity},
	{bill.ErrInvalidPaymentMethod, "invalid_payment_method", http.StatusUnprocessableEntity},
	{importer.ErrBatchEmpty, "import_batch_empty", http.StatusUnprocessableEntity},
	{importer.ErrMissingName, "missing_name", http.StatusUnprocessableEntity},
	{importer.ErrMissingAmount, "missing_amount", http.StatusUnprocessableEntity},
	{importer.ErrAmountNotNumeric, "amount_not_numeric", http.StatusUnprocessableEntity},
	{importer.ErrUnknownFormat, "unknown_format", http.StatusBadRequest},
	{gsheet.ErrInvalidSpreadsheet, "invalid_spreadsheet", http.StatusBadRequest},
	{notify.ErrUnavailable, "reminder_unavailable", http.StatusConflict},
	{catalog.ErrNotFound, "not_found", http.StatusNotFound},
	{catalog.ErrInvalidName, "invalid_name", http.StatusUnprocessableEntity},
	{catalog.ErrInvalidPrice, "invalid_amount", http.StatusUnprocessableEntity},
	{catalog.ErrDuplicate, "duplicate_package", http.StatusConflict},
}

// Classify returns the stable kind and status for err. Unknown errors are
// internal.
func Classify(err error) (string, int) {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return m.kind, m.status
		}
	}

	return "internal", http.StatusInternalServerError
}

// Write sends err as a JSON error body. Internal errors are logged and their
// text is not exposed.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	kind, status := Classify(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}

	JSON(w, status, Body{Error: kind, Message: msg})
}

func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, Body{Error: "bad_request", Message: msg})
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/export"
	"github.com/zaidnet/tagihan/internal/http/httperr"
	"github.com/zaidnet/tagihan/internal/importer"
)

var contentTypes = map[importer.Format]string{
	importer.FormatCSV:  "text/csv; charset=utf-8",
	importer.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type Handler struct {
	svc   *export.Service
	bills *bill.Service
	now   func() time.Time
}

func NewHandler(svc *export.Service, bills *bill.Service) *Handler {
	return &Handler{svc: svc, bills: bills, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the ledger, optionally narrowed by q, status and
// selected=true, as a spreadsheet attachment.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := importer.FormatXLSX
	if s := q.Get("format"); s != "" {
		f, err := importer.ParseFormat(s)
		if err != nil {
			httperr.Write(w, r, err)
			return
		}

		format = f
	}

	filter := bill.ListFilter{Search: q.Get("q")}

	if s := q.Get("status"); s != "" {
		status, err := bill.ParseStatus(s)
		if err != nil {
			httperr.Write(w, r, err)
			return
		}

		filter.Status = &status
	}

	bills := h.bills.List(filter)

	if selectedOnly, _ := strconv.ParseBool(q.Get("selected")); selectedOnly {
		picked := bills[:0]
		for _, b := range bills {
			if h.bills.IsSelected(b.ID) {
				picked = append(picked, b)
			}
		}

		bills = picked
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(format, h.now())))

	if err := h.svc.Write(w, format, bills); err != nil {
		slog.Error("failed to write export", "format", format, "error", err)
	}
}

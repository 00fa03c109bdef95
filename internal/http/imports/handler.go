package imports

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zaidnet/tagihan/internal/bill"
	billHandler "github.com/zaidnet/tagihan/internal/http/bill"
	"github.com/zaidnet/tagihan/internal/http/httperr"
	"github.com/zaidnet/tagihan/internal/importer"
)

const maxUploadSize = 10 << 20

// SheetSource fetches rows from a spreadsheet range.
type SheetSource interface {
	Rows(ctx context.Context, spreadsheet, rng string) ([]importer.Row, error)
}

type Handler struct {
	importSvc    *importer.Service
	billSvc      *bill.Service
	sheets       SheetSource
	defaultSheet string
	defaultRange string
}

// NewHandler builds the import endpoints. sheets may be nil, which disables
// the Google Sheets source.
func NewHandler(importSvc *importer.Service, billSvc *bill.Service, sheets SheetSource, defaultSheet, defaultRange string) *Handler {
	return &Handler{
		importSvc:    importSvc,
		billSvc:      billSvc,
		sheets:       sheets,
		defaultSheet: defaultSheet,
		defaultRange: defaultRange,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/preview", h.preview)
	r.Post("/sheets", h.importSheet)
}

type problemResponse struct {
	Row   int    `json:"row"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type importResponse struct {
	Added    int               `json:"added"`
	Rejected int               `json:"rejected"`
	Invalid  int               `json:"invalid"`
	Bills    any               `json:"bills"`
	Problems []problemResponse `json:"problems"`
}

// emptyImportResponse is the error body of an import whose rows all failed.
type emptyImportResponse struct {
	httperr.Body
	Problems []problemResponse `json:"problems"`
}

type candidateResponse struct {
	Row         int    `json:"row"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	PackageName string `json:"package_name,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type previewResponse struct {
	Accepted []candidateResponse `json:"accepted"`
	Rejected int                 `json:"rejected"`
	Problems []problemResponse   `json:"problems"`
}

func toProblems(rs []importer.Rejection) []problemResponse {
	out := make([]problemResponse, 0, len(rs))
	for _, r := range rs {
		kind, _ := httperr.Classify(r.Err)
		out = append(out, problemResponse{Row: r.Row, Kind: kind, Error: r.Err.Error()})
	}

	return out
}

// readUpload returns the parsed rows of the multipart "file" field. The
// format comes from the "format" field or the file extension.
func (h *Handler) readUpload(r *http.Request) ([]importer.Row, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errBadRequest("failed to parse form: " + err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errBadRequest("file field is required")
	}
	defer file.Close()

	name := r.FormValue("format")
	if name == "" {
		name = header.Filename
	}

	format, err := importer.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	return h.importSvc.Read(format, file)
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	rows, err := h.readUpload(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.apply(w, r, rows)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.readUpload(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	res := h.importSvc.Reconcile(rows)

	resp := previewResponse{
		Accepted: make([]candidateResponse, 0, len(res.Accepted)),
		Rejected: res.Rejected,
		Problems: toProblems(res.Rejections),
	}

	for i, c := range res.Accepted {
		resp.Accepted = append(resp.Accepted, candidateResponse{
			Row:         res.AcceptedRows[i],
			Name:        c.Name,
			Amount:      c.Amount.Decimal.String(),
			PhoneNumber: c.PhoneNumber,
			Address:     c.Address,
			PackageName: c.PackageName,
			Notes:       c.Notes,
		})
	}

	httperr.JSON(w, http.StatusOK, resp)
}

type sheetRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
}

func (h *Handler) importSheet(w http.ResponseWriter, r *http.Request) {
	if h.sheets == nil {
		httperr.JSON(w, http.StatusNotImplemented, httperr.Body{
			Error:   "sheets_disabled",
			Message: "google sheets import is not configured",
		})

		return
	}

	var req sheetRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			fail(w, r, err)
			return
		}
	}

	if req.SpreadsheetID == "" {
		req.SpreadsheetID = h.defaultSheet
	}

	if req.Range == "" {
		req.Range = h.defaultRange
	}

	if req.SpreadsheetID == "" {
		fail(w, r, errBadRequest("spreadsheet_id is required"))
		return
	}

	rows, err := h.sheets.Rows(r.Context(), req.SpreadsheetID, req.Range)
	if err != nil {
		fail(w, r, err)
		return
	}

	h.apply(w, r, rows)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, rows []importer.Row) {
	report, err := h.importSvc.Apply(r.Context(), h.billSvc, h.importSvc.Reconcile(rows))
	if err != nil {
		if report != nil && errors.Is(err, importer.ErrBatchEmpty) {
			kind, status := httperr.Classify(err)
			httperr.JSON(w, status, emptyImportResponse{
				Body:     httperr.Body{Error: kind, Message: err.Error()},
				Problems: toProblems(report.Problems),
			})

			return
		}

		fail(w, r, err)
		return
	}

	httperr.JSON(w, http.StatusCreated, importResponse{
		Added:    len(report.Added),
		Rejected: report.Rejected,
		Invalid:  report.Invalid,
		Bills:    billHandler.ToResponseList(report.Added, nil),
		Problems: toProblems(report.Problems),
	})
}

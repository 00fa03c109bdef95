package imports_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/http/imports"
	"github.com/zaidnet/tagihan/internal/importer"
)

const sampleCSV = "Nama;Nominal;No HP\nBudi;50000;0812\n;10000;\nSari;abc;\n"

type fakeSheets struct {
	rows     []importer.Row
	gotID    string
	gotRange string
}

func (f *fakeSheets) Rows(_ context.Context, spreadsheet, rng string) ([]importer.Row, error) {
	f.gotID = spreadsheet
	f.gotRange = rng

	return f.rows, nil
}

func newRouter(t *testing.T, sheets imports.SheetSource) (http.Handler, *bill.Service) {
	t.Helper()

	billSvc := bill.NewService(bill.NewLedger(), nil, nil)
	h := imports.NewHandler(importer.NewService(), billSvc, sheets, "default-sheet", "Tagihan!A1:H")

	r := chi.NewRouter()
	r.Route("/import", h.Routes)

	return r, billSvc
}

func upload(t *testing.T, path, filename, format, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}

	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

type importJSON struct {
	Added    int `json:"added"`
	Rejected int `json:"rejected"`
	Invalid  int `json:"invalid"`
	Bills    []struct {
		Name   string `json:"name"`
		Amount int64  `json:"amount"`
		Status string `json:"status"`
	} `json:"bills"`
	Problems []struct {
		Row  int    `json:"row"`
		Kind string `json:"kind"`
	} `json:"problems"`
}

func TestHandler_ImportFile(t *testing.T) {
	router, billSvc := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "/import", "tagihan.csv", "", sampleCSV))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got importJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	assert.Equal(t, 1, got.Added)
	assert.Equal(t, 2, got.Rejected)
	assert.Zero(t, got.Invalid)
	require.Len(t, got.Bills, 1)
	assert.Equal(t, "Budi", got.Bills[0].Name)
	assert.Equal(t, int64(50000), got.Bills[0].Amount)
	assert.Equal(t, "pending", got.Bills[0].Status)

	require.Len(t, got.Problems, 2)
	assert.Equal(t, 2, got.Problems[0].Row)
	assert.Equal(t, "missing_name", got.Problems[0].Kind)
	assert.Equal(t, 3, got.Problems[1].Row)
	assert.Equal(t, "amount_not_numeric", got.Problems[1].Kind)

	assert.Equal(t, 1, billSvc.Stats().TotalCustomers)
}

func TestHandler_ImportFileErrors(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		format     string
		content    string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "NothingAccepted",
			filename:   "tagihan.csv",
			content:    "Nama;Nominal\n;1\nSari;abc\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "import_batch_empty",
		},
		{
			name:       "EveryRowInvalid",
			filename:   "tagihan.csv",
			content:    "Nama;Nominal\nBudi;-5\nSari;-1\n",
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "import_batch_empty",
		},
		{
			name:       "UnknownExtension",
			filename:   "tagihan.ods",
			content:    "x",
			wantStatus: http.StatusBadRequest,
			wantKind:   "unknown_format",
		},
		{
			name:       "FormatFieldWins",
			filename:   "upload.bin",
			format:     "csv",
			content:    "Nama,Nominal\nBudi,1\n",
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, billSvc := newRouter(t, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, upload(t, "/import", tt.filename, tt.format, tt.content))
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantKind == "" {
				return
			}

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Error)
			assert.Zero(t, billSvc.Stats().TotalCustomers)
		})
	}
}

func TestHandler_ImportEveryRowInvalidListsProblems(t *testing.T) {
	router, billSvc := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "/import", "tagihan.csv", "", "Nama;Nominal\nBudi;-5\n;1\n"))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var body struct {
		Error    string `json:"error"`
		Problems []struct {
			Row  int    `json:"row"`
			Kind string `json:"kind"`
		} `json:"problems"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, "import_batch_empty", body.Error)
	require.Len(t, body.Problems, 2)
	assert.Equal(t, 2, body.Problems[0].Row)
	assert.Equal(t, "missing_name", body.Problems[0].Kind)
	assert.Equal(t, 1, body.Problems[1].Row)
	assert.Equal(t, "invalid_amount", body.Problems[1].Kind)
	assert.Zero(t, billSvc.Stats().TotalCustomers)
}

func TestHandler_Preview(t *testing.T) {
	router, billSvc := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "/import/preview", "tagihan.csv", "", sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Accepted []struct {
			Row         int    `json:"row"`
			Name        string `json:"name"`
			Amount      string `json:"amount"`
			PhoneNumber string `json:"phone_number"`
		} `json:"accepted"`
		Rejected int `json:"rejected"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

	require.Len(t, got.Accepted, 1)
	assert.Equal(t, 1, got.Accepted[0].Row)
	assert.Equal(t, "50000", got.Accepted[0].Amount)
	assert.Equal(t, "0812", got.Accepted[0].PhoneNumber)
	assert.Equal(t, 2, got.Rejected)

	assert.Zero(t, billSvc.Stats().TotalCustomers)
}

func TestHandler_ImportSheet(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		router, _ := newRouter(t, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/sheets", nil))
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})

	t.Run("DefaultsFromConfig", func(t *testing.T) {
		src := &fakeSheets{rows: []importer.Row{
			importer.NewRow(map[string]any{"Nama": "Budi", "Nominal": 75000.0}),
		}}
		router, billSvc := newRouter(t, src)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/sheets", nil))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		assert.Equal(t, "default-sheet", src.gotID)
		assert.Equal(t, "Tagihan!A1:H", src.gotRange)
		assert.Equal(t, int64(75000), billSvc.Stats().TotalUnpaid)
	})

	t.Run("ExplicitRange", func(t *testing.T) {
		src := &fakeSheets{rows: []importer.Row{
			importer.NewRow(map[string]any{"Nama": "Sari", "Nominal": "1"}),
		}}
		router, _ := newRouter(t, src)

		req := httptest.NewRequest(http.MethodPost, "/import/sheets",
			bytes.NewBufferString(`{"spreadsheet_id":"abc123","range":"Maret!A:F"}`))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		assert.Equal(t, "abc123", src.gotID)
		assert.Equal(t, "Maret!A:F", src.gotRange)
	})
}

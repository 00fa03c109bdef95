package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/catalog"
	"github.com/zaidnet/tagihan/internal/export"
	tagihanHttp "github.com/zaidnet/tagihan/internal/http"
	billHandler "github.com/zaidnet/tagihan/internal/http/bill"
	catalogHandler "github.com/zaidnet/tagihan/internal/http/catalog"
	exportHandler "github.com/zaidnet/tagihan/internal/http/export"
	importHandler "github.com/zaidnet/tagihan/internal/http/imports"
	"github.com/zaidnet/tagihan/internal/importer"
	"github.com/zaidnet/tagihan/internal/notify"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	var (
		billSvc    = bill.NewService(bill.NewLedger(), nil, nil)
		catalogSvc = catalog.NewService(catalog.NewMockRepository(gomock.NewController(t)))
		importSvc  = importer.NewService(importer.WithPackageResolver(catalogSvc))
	)

	return tagihanHttp.New(
		billHandler.NewHandler(billSvc, notify.NewComposer("ZaidNet", "62")),
		importHandler.NewHandler(importSvc, billSvc, nil, "", ""),
		catalogHandler.NewHandler(catalogSvc),
		exportHandler.NewHandler(export.NewService(importSvc.Aliases()), billSvc),
		5*time.Second,
	)
}

func TestRouter(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "Health", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "ListBills", method: http.MethodGet, path: "/api/v1/bills", wantStatus: http.StatusOK},
		{name: "Stats", method: http.MethodGet, path: "/api/v1/stats", wantStatus: http.StatusOK},
		{
			name: "CreateBill", method: http.MethodPost, path: "/api/v1/bills",
			body: `{"name":"Budi","amount":1}`, contentType: "application/json", wantStatus: http.StatusCreated,
		},
		{
			name: "WrongContentType", method: http.MethodPost, path: "/api/v1/bills",
			body: `name=Budi`, contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType,
		},
		{name: "Selection", method: http.MethodGet, path: "/api/v1/selection", wantStatus: http.StatusOK},
		{name: "Unknown", method: http.MethodGet, path: "/api/v1/invoices", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bills", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

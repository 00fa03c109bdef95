package export_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/export"
	exportHandler "github.com/zaidnet/tagihan/internal/http/export"
	"github.com/zaidnet/tagihan/internal/importer"
)

func newRouter(t *testing.T) (http.Handler, *bill.Service) {
	t.Helper()

	bills := bill.NewService(bill.NewLedger(), nil, nil)

	for _, name := range []string{"Budi", "Sari", "Andi"} {
		_, err := bills.Add(context.Background(), bill.Candidate{
			Name:   name,
			Amount: decimal.NewNullDecimal(decimal.NewFromInt(100000)),
		})
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	r.Route("/export", exportHandler.NewHandler(export.NewService(nil), bills).Routes)

	return r, bills
}

func TestHandler_Download(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		format    importer.Format
		wantNames []string
	}{
		{name: "DefaultXLSX", query: "", format: importer.FormatXLSX, wantNames: []string{"Budi", "Sari", "Andi"}},
		{name: "CSVSearch", query: "?format=csv&q=a", format: importer.FormatCSV, wantNames: []string{"Sari", "Andi"}},
		{name: "SelectedOnly", query: "?format=csv&selected=true", format: importer.FormatCSV, wantNames: []string{"Sari"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, bills := newRouter(t)

			sari := bills.List(bill.ListFilter{Search: "sari"})
			require.Len(t, sari, 1)
			require.NoError(t, bills.Select(sari[0].ID))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "."+string(tt.format))

			rows, err := importer.NewService().Read(tt.format, rec.Body)
			require.NoError(t, err)

			res := importer.Reconcile(rows, importer.DefaultAliases)

			names := make([]string, 0, len(res.Accepted))
			for _, c := range res.Accepted {
				names = append(names, c.Name)
			}

			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestHandler_DownloadBadQuery(t *testing.T) {
	router, _ := newRouter(t)

	for _, q := range []string{"?format=ods", "?status=lunas"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export"+q, nil))
		assert.NotEqual(t, http.StatusOK, rec.Code, q)
	}
}

package gsheet_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"

	"github.com/zaidnet/tagihan/internal/importer"
	"github.com/zaidnet/tagihan/internal/importer/gsheet"
)

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "Bare", in: "1AbC-d_9", want: "1AbC-d_9"},
		{name: "URL", in: "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", want: "1AbC-d_9"},
		{name: "Padded", in: "  1AbC  ", want: "1AbC"},
		{name: "Garbage", in: "not a sheet", wantErr: true},
		{name: "Empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gsheet.SpreadsheetID(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, gsheet.ErrInvalidSpreadsheet)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_Rows(t *testing.T) {
	var gotQuery, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"range": "Tagihan!A1:D4",
			"majorDimension": "ROWS",
			"values": [
				["Nama Pelanggan", "Nominal", "Nomor WhatsApp"],
				["Budi", 150000, 81234567890],
				[],
				["Sari", "abc"]
			]
		}`))
	}))
	defer srv.Close()

	src, err := gsheet.New(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication(),
	)
	require.NoError(t, err)

	rows, err := src.Rows(context.Background(), "https://docs.google.com/spreadsheets/d/sheet123/edit", "Tagihan")
	require.NoError(t, err)

	assert.True(t, strings.Contains(gotPath, "sheet123"), gotPath)
	assert.Contains(t, gotQuery, "valueRenderOption=UNFORMATTED_VALUE")

	require.Len(t, rows, 2)

	res := importer.Reconcile(rows, importer.DefaultAliases)
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "Budi", res.Accepted[0].Name)
	assert.Equal(t, "81234567890", res.Accepted[0].PhoneNumber)
	assert.Equal(t, int64(150000), res.Accepted[0].Amount.Decimal.IntPart())
	assert.Equal(t, 1, res.Rejected)
}

func TestSource_RowsInvalidID(t *testing.T) {
	src, err := gsheet.New(context.Background(), goption.WithoutAuthentication())
	require.NoError(t, err)

	_, err = src.Rows(context.Background(), "bad id!", "Sheet1")
	require.ErrorIs(t, err, gsheet.ErrInvalidSpreadsheet)
}

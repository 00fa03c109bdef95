package gsheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	goption "google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/zaidnet/tagihan/internal/importer"
)

var (
	ErrInvalidSpreadsheet = errors.New("invalid spreadsheet id or url")

	urlID   = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	plainID = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
)

// Source reads billing rows from a Google Sheets range.
type Source struct {
	svc *sheets.Service
}

// New builds a read-only Sheets client. Credentials come from opts, for
// example goption.WithCredentialsJSON.
func New(ctx context.Context, opts ...goption.ClientOption) (*Source, error) {
	opts = append([]goption.ClientOption{goption.WithScopes(sheets.SpreadsheetsReadonlyScope)}, opts...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Source{svc: svc}, nil
}

// NewFromCredentialsFile builds a client from a service account key file.
func NewFromCredentialsFile(ctx context.Context, path string) (*Source, error) {
	creds, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	return New(ctx, goption.WithCredentialsJSON(creds))
}

// Rows fetches rng and converts it to importer rows. Values are requested
// unformatted so numeric cells arrive as numbers, not display text.
func (s *Source) Rows(ctx context.Context, spreadsheet, rng string) ([]importer.Row, error) {
	id, err := SpreadsheetID(spreadsheet)
	if err != nil {
		return nil, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(id, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", rng, err)
	}

	return importer.FromTable(resp.Values), nil
}

// SpreadsheetID accepts either a bare spreadsheet id or a sheet URL.
func SpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)

	if m := urlID.FindStringSubmatch(s); len(m) == 2 {
		return m[1], nil
	}

	if plainID.MatchString(s) {
		return s, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidSpreadsheet, s)
}

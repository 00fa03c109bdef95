package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
)

// Format is a tabular file format the importer can read.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrRowRejected      = errors.New("import row rejected")
	ErrMissingName      = errors.New("missing customer name")
	ErrMissingAmount    = errors.New("missing amount")
	ErrAmountNotNumeric = errors.New("amount is not numeric")
	ErrBatchEmpty       = errors.New("import produced no valid rows")
	ErrUnknownFormat    = errors.New("unknown import format")
)

// Reader turns a tabular source into rows.
type Reader interface {
	Read(r io.Reader) ([]Row, error)
}

// Cell is one header/value pair of a source row.
type Cell struct {
	Header string
	Value  any
}

// Row keeps source column order so alias resolution is deterministic.
type Row []Cell

// NewRow builds a row from map-shaped input, ordering cells by header.
func NewRow(m map[string]any) Row {
	headers := make([]string, 0, len(m))
	for h := range m {
		headers = append(headers, h)
	}

	slices.Sort(headers)

	row := make(Row, len(headers))
	for i, h := range headers {
		row[i] = Cell{Header: h, Value: m[h]}
	}

	return row
}

// ParseFormat accepts a format name or a file name with a known extension.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimPrefix(ext, ".")
	}

	switch Format(name) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

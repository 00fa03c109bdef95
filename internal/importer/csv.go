package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	enc "github.com/zaidnet/tagihan/internal/encoding"
)

// CSVReader reads spreadsheet CSV exports in any common encoding, separated
// by semicolons, commas or tabs.
type CSVReader struct{}

func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

func (p *CSVReader) Read(r io.Reader) ([]Row, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	comma := sniffDelimiter(data)
	slog.Debug("reading csv", "charset", charset, "delimiter", string(comma))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	// Leading-space trimming would swallow empty fields between tabs.
	reader.TrimLeadingSpace = comma != '\t'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return fromStrings(records), nil
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/importer"
)

const (
	sheetName = "Tagihan"

	headerStatus  = "Status"
	headerDueDate = "Jatuh Tempo"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Service writes the ledger as a spreadsheet. Column titles come from the
// importer's aliases, so an exported file imports back unchanged.
type Service struct {
	aliases importer.Aliases
}

func NewService(aliases importer.Aliases) *Service {
	if aliases == nil {
		aliases = importer.DefaultAliases
	}

	return &Service{aliases: aliases}
}

// Header returns the exported column titles in order.
func (s *Service) Header() []string {
	header := make([]string, 0, len(importer.Fields)+2)
	for _, f := range importer.Fields {
		header = append(header, s.aliases.Header(f))
	}

	return append(header, headerStatus, headerDueDate)
}

func (s *Service) Write(w io.Writer, format importer.Format, bills []*bill.Bill) error {
	switch format {
	case importer.FormatCSV:
		return s.WriteCSV(w, bills)
	case importer.FormatXLSX:
		return s.WriteXLSX(w, bills)
	default:
		return fmt.Errorf("%w: %q", importer.ErrUnknownFormat, format)
	}
}

// WriteCSV writes semicolon-separated UTF-8 with a byte-order mark, the
// layout spreadsheet apps in the Indonesian locale open without prompting.
func (s *Service) WriteCSV(w io.Writer, bills []*bill.Bill) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(s.Header()); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, b := range bills {
		rec := make([]string, 0, len(importer.Fields)+2)
		for _, v := range record(b) {
			rec = append(rec, fmt.Sprint(v))
		}

		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row for bill %s: %w", b.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func (s *Service) WriteXLSX(w io.Writer, bills []*bill.Bill) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := s.Header()
	headerRow := make([]any, len(header))

	for i, h := range header {
		headerRow[i] = h
	}

	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, b := range bills {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := record(b)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row for bill %s: %w", b.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

// record follows importer.Fields order, then status and due date.
func record(b *bill.Bill) []any {
	due := ""
	if !b.DueDate.IsZero() {
		due = b.DueDate.Format(time.DateOnly)
	}

	return []any{
		b.Name,
		b.Amount,
		b.Notes,
		b.PhoneNumber,
		b.Address,
		b.PackageName,
		string(b.Status),
		due,
	}
}

// Filename builds a download name such as "tagihan_20260305.xlsx".
func Filename(format importer.Format, at time.Time) string {
	return fmt.Sprintf("tagihan_%s.%s", at.Format("20060102"), format)
}

// Summary renders one line per bill for a plain-text report.
func Summary(bills []*bill.Bill) string {
	var sb strings.Builder

	for _, b := range bills {
		mark := " "
		if b.Status == bill.StatusPaid {
			mark = "x"
		}

		sb.WriteString(fmt.Sprintf("[%s] %s | Rp%s | %s\n", mark, b.Name, strconv.FormatInt(b.Amount, 10), b.DueDate.Format(time.DateOnly)))
	}

	return sb.String()
}

package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/export"
	"github.com/zaidnet/tagihan/internal/importer"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

type exportOptions struct {
	dir      string
	format   string
	status   string
	selected bool
}

// ExportModel writes the ledger, or a slice of it, to a spreadsheet file.
type ExportModel struct {
	CommonModel
	bills    *bill.Service
	exporter *export.Service

	state   exportState
	form    *huh.Form
	opts    *exportOptions
	spinner spinner.Model

	file    string
	summary string
	err     error
}

func NewExportModel(bills *bill.Service, exporter *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := ExportModel{
		bills:    bills,
		exporter: exporter,
		spinner:  s,
		opts:     &exportOptions{dir: "./exports", format: string(importer.FormatXLSX)},
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Bills" }

func (m ExportModel) ShortHelp() string {
	return "Esc: back"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.opts))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.file = result.file
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.opts.dir),
			huh.NewSelect[string]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("Excel (.xlsx)", string(importer.FormatXLSX)),
					huh.NewOption("CSV (.csv)", string(importer.FormatCSV)),
				).
				Value(&m.opts.format),
			huh.NewSelect[string]().
				Key("status").
				Title("Bills").
				Options(
					huh.NewOption("All", ""),
					huh.NewOption("Pending only", string(bill.StatusPending)),
					huh.NewOption("Paid only", string(bill.StatusPaid)),
				).
				Value(&m.opts.status),
			huh.NewConfirm().
				Key("selected").
				Title("Only selected bills?").
				Value(&m.opts.selected),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting bills...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.file,
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	file string
	body string
	err  error
}

func (m ExportModel) runExportCmd(opts exportOptions) tea.Cmd {
	return func() tea.Msg {
		format, err := importer.ParseFormat(opts.format)
		if err != nil {
			return exportResultMsg{err: err}
		}

		var filter bill.ListFilter
		if opts.status != "" {
			filter.Status = new(bill.Status(opts.status))
		}

		bills := m.bills.List(filter)
		if opts.selected {
			bills = onlySelected(m.bills, bills)
		}

		if err := os.MkdirAll(opts.dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		path := filepath.Join(opts.dir, export.Filename(format, time.Now()))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if err := m.exporter.Write(f, format, bills); err != nil {
			f.Close()
			return exportResultMsg{err: err}
		}

		if err := f.Close(); err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{file: path, body: export.Summary(bills)}
	}
}

func onlySelected(svc *bill.Service, bills []*bill.Bill) []*bill.Bill {
	out := make([]*bill.Bill, 0, len(bills))
	for _, b := range bills {
		if svc.IsSelected(b.ID) {
			out = append(out, b)
		}
	}

	return out
}

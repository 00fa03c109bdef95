package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/importer"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateReading
	importStatePreview
	importStateApplying
	importStateResult
)

// ImportModel picks a spreadsheet, previews the reconciliation and applies
// the accepted rows to the ledger.
type ImportModel struct {
	CommonModel
	bills    *bill.Service
	importer *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string

	result   importer.Result
	problems list.Model

	status string
	err    error
}

func NewImportModel(bills *bill.Service, imp *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		bills:      bills,
		importer:   imp,
		filePicker: fp,
	}
}

func (m ImportModel) Title() string { return "Import Bills" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: add accepted rows | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			return m.updatePreview(msg)
		}

	case readResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.result = msg.result
		m.problems = newProblemList(msg.result.Rejections)
		m.state = importStatePreview

		return m, nil

	case applyResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			if msg.report != nil {
				m.problems = newProblemList(msg.report.Problems)
			}

			return m, nil
		}

		m.status = fmt.Sprintf("Added %d bills, rejected %d rows, %d invalid.",
			len(msg.report.Added), msg.report.Rejected, msg.report.Invalid)
		m.problems = newProblemList(msg.report.Problems)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateReading
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.readCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.result = importer.Result{}
		m.problems = list.Model{}
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if err := m.result.Err(); err != nil {
			m.state = importStateResult
			m.err = err
			m.status = fmt.Sprintf("Error: %v", err)

			return m, nil
		}

		m.state = importStateApplying
		m.status = fmt.Sprintf("Adding %d bills...", len(m.result.Accepted))

		return m, m.applyCmd(m.result)
	}

	var cmd tea.Cmd
	m.problems, cmd = m.problems.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV or XLSX file to import:\n\n%s", m.filePicker.View()),
		)
	case importStateReading, importStateApplying:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.path)
	summary := fmt.Sprintf("%d rows accepted, %d rejected. Enter adds the accepted rows.",
		len(m.result.Accepted), m.result.Rejected)

	parts := []string{header, "", summary}
	if len(m.result.Rejections) > 0 {
		parts = append(parts, "", m.problems.View())
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	color := lipgloss.Color("46")
	if m.err != nil {
		color = lipgloss.Color("196")
	}

	body := lipgloss.NewStyle().Foreground(color).Render(m.status)
	if len(m.problems.Items()) > 0 {
		body += "\n\n" + m.problems.View()
	}

	return style.Render(body + "\n\n(Esc to go back)")
}

// Messages

type readResultMsg struct {
	result importer.Result
	err    error
}

type applyResultMsg struct {
	report *importer.Report
	err    error
}

func (m ImportModel) readCmd(path string) tea.Cmd {
	return func() tea.Msg {
		format, err := importer.ParseFormat(path)
		if err != nil {
			return readResultMsg{err: err}
		}

		f, err := os.Open(path)
		if err != nil {
			return readResultMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importer.Read(format, f)
		if err != nil {
			return readResultMsg{err: err}
		}

		return readResultMsg{result: m.importer.Reconcile(rows)}
	}
}

func (m ImportModel) applyCmd(res importer.Result) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		report, err := m.importer.Apply(ctx, m.bills, res)
		return applyResultMsg{report: report, err: err}
	}
}

// Problem list

type problemItem struct {
	rejection importer.Rejection
}

func (i problemItem) Title() string { return fmt.Sprintf("Row %d", i.rejection.Row) }

func (i problemItem) Description() string {
	msg := i.rejection.Err.Error()
	prefix := fmt.Sprintf("row %d: ", i.rejection.Row)
	if idx := strings.Index(msg, prefix); idx >= 0 {
		msg = msg[idx+len(prefix):]
	}

	return msg
}

func (i problemItem) FilterValue() string { return "" }

func newProblemList(rejections []importer.Rejection) list.Model {
	items := make([]list.Item, len(rejections))
	for i, r := range rejections {
		items[i] = problemItem{rejection: r}
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 15)
	l.Title = "Problems"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

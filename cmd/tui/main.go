package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/zaidnet/tagihan/cmd/tui/internal/view"
	"github.com/zaidnet/tagihan/internal/app"
	"github.com/zaidnet/tagihan/internal/config"
	"github.com/zaidnet/tagihan/internal/logging"
)

type model struct {
	app *app.App

	currentView View

	listView   view.ListModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewList   View = 1
	ViewImport View = 2
	ViewExport View = 3
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		listView:    view.NewListModel(a.Bills, a.Composer),
		importView:  view.NewImportModel(a.Bills, a.Importer),
		exportView:  view.NewExportModel(a.Bills, a.Exporter),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Bills, m.app.Composer)

				return m, m.listView.Init()
			case "2":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Bills, m.app.Importer)

				return m, m.importView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Bills, m.app.Exporter)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		st := m.app.Bills.Stats()

		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.Billing.Brand + " Billing\n\n" +
				view.FormatAmount(st.TotalUnpaid) + " unpaid across " +
				lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(st.TotalPending)) + " bills\n\n" +
				"1. Bills\n" +
				"2. Import Spreadsheet\n" +
				"3. Export Spreadsheet\n\n" +
				"q. Quit",
		)
	case ViewList:
		return m.listView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Log lines would tear the alt screen; keep warnings only.
	if err := logging.Setup("warn", cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	_, err = p.Run()

	a.Close()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

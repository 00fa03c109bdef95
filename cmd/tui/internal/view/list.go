package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/notify"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateForm
	listStateConfirm
)

var statusLabels = []string{"All", "Pending", "Paid"}

// billForm holds the add/edit form bindings. It lives behind a pointer so
// the huh fields keep writing to the same values across model copies.
type billForm struct {
	id      uuid.UUID // zero for a new bill
	name    string
	amount  string
	phone   string
	address string
	pkg     string
	notes   string
	due     string
}

type deletion struct {
	ids     []uuid.UUID
	confirm bool
}

// ListModel browses the ledger and edits bills in place.
type ListModel struct {
	CommonModel
	bills    *bill.Service
	composer *notify.Composer

	state  listState
	table  table.Model
	search textinput.Model
	form   *huh.Form
	values *billForm
	del    *deletion

	rows []*bill.Bill

	statusFilterIdx int
	filter          bill.ListFilter

	status string
}

func NewListModel(bills *bill.Service, composer *notify.Composer) ListModel {
	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Name", Width: 24},
		{Title: "Amount", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Due", Width: 18},
		{Title: "Package", Width: 16},
		{Title: "Phone", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "customer name"
	search.Prompt = "/ "

	m := ListModel{
		bills:    bills,
		composer: composer,
		table:    t,
		search:   search,
	}
	m.refreshTable()

	return m
}

func (m ListModel) Title() string { return "Bills" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Enter: apply | Esc: cancel"
	case listStateForm, listStateConfirm:
		return "Navigate form | Esc: cancel"
	}

	return "space: select | a: select all | c: clear | p/u: paid/pending | n: new | e: edit | " +
		"d/D: delete/delete selected | w: reminder | /: search | s: status | esc: back"
}

func (m ListModel) Init() tea.Cmd {
	return nil
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.values = nil
		m.del = nil
		m.table.Focus()
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateForm:
		return m.updateForm(msg)
	case listStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		if m.filter.Search != "" {
			m.filter.Search = ""
			m.search.SetValue("")
			m.refreshTable()

			return m, nil
		}

		return m, Back
	case "r":
		m.status = ""
		m.refreshTable()

		return m, nil
	case "/":
		m.state = listStateSearch
		m.table.Blur()
		m.search.SetValue(m.filter.Search)

		return m, m.search.Focus()
	case "s":
		m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusLabels)
		m.applyFilter()
		m.refreshTable()

		return m, nil
	case " ":
		m.toggleSelection()
		return m, nil
	case "a":
		n := m.bills.SelectFiltered(m.filter)
		m.status = fmt.Sprintf("Selected %d bills.", n)
		m.refreshTable()

		return m, nil
	case "c":
		m.bills.ClearSelection()
		m.status = "Selection cleared."
		m.refreshTable()

		return m, nil
	case "p":
		return m, m.setStatusCmd(bill.StatusPaid)
	case "u":
		return m, m.setStatusCmd(bill.StatusPending)
	case "n":
		return m.enterForm(nil)
	case "e":
		if b := m.current(); b != nil {
			return m.enterForm(b)
		}

		return m, nil
	case "d":
		if b := m.current(); b != nil {
			return m.enterConfirm([]uuid.UUID{b.ID}, fmt.Sprintf("Delete the bill for %s?", b.Name))
		}

		return m, nil
	case "D":
		ids := m.bills.Selected()
		if len(ids) == 0 {
			m.status = "Nothing selected."
			return m, nil
		}

		return m.enterConfirm(ids, fmt.Sprintf("Delete %d selected bills?", len(ids)))
	case "w":
		m.reminder()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.filter.Search = strings.TrimSpace(m.search.Value())
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.table.SetCursor(0)
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m ListModel) enterForm(b *bill.Bill) (tea.Model, tea.Cmd) {
	v := &billForm{}
	if b != nil {
		v = &billForm{
			id:      b.ID,
			name:    b.Name,
			amount:  fmt.Sprintf("%d", b.Amount),
			phone:   b.PhoneNumber,
			address: b.Address,
			pkg:     b.PackageName,
			notes:   b.Notes,
			due:     b.DueDate.Format(time.DateOnly),
		}
	}

	m.values = v
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&v.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Key("amount").
				Title("Amount (Rp)").
				Placeholder("150000").
				Value(&v.amount).
				Validate(func(s string) error {
					_, err := bill.ParseAmount(s)
					return err
				}),
			huh.NewInput().Key("phone").Title("Phone").Placeholder("0812...").Value(&v.phone),
			huh.NewInput().Key("address").Title("Address").Value(&v.address),
			huh.NewInput().Key("package").Title("Package").Value(&v.pkg),
			huh.NewInput().
				Key("due").
				Title("Due date").
				Placeholder("YYYY-MM-DD, empty for default").
				Value(&v.due).
				Validate(func(s string) error {
					_, err := parseDue(s)
					return err
				}),
			huh.NewText().Key("notes").Title("Notes").Lines(3).Value(&v.notes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.values = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd(*m.values)
}

func (m ListModel) enterConfirm(ids []uuid.UUID, title string) (tea.Model, tea.Cmd) {
	d := &deletion{ids: ids}

	m.del = d
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&d.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, func() tea.Msg { return actionMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.del.confirm {
		return m, func() tea.Msg { return actionMsg{} }
	}

	return m, m.deleteCmd(m.del.ids)
}

func (m ListModel) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.viewStats(),
		fmt.Sprintf(
			"Filter: [s] Status: %s | [/] Search: %s | Selected: %d",
			activeStyle(statusLabels[m.statusFilterIdx]),
			activeStyle(orDash(m.filter.Search)),
			len(m.bills.Selected()),
		),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateSearch {
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.search.View())
	}

	if (m.state == listStateForm || m.state == listStateConfirm) && m.form != nil {
		title := "New Bill"
		if m.state == listStateConfirm {
			title = "Confirm"
		} else if m.values != nil && m.values.id != uuid.Nil {
			title = "Edit Bill"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) viewStats() string {
	st := m.bills.Stats()

	return fmt.Sprintf(
		"Customers: %d | Pending: %d (%s) | Paid: %d (%s) | Revenue: %s",
		st.TotalCustomers,
		st.TotalPending, FormatAmount(st.TotalUnpaid),
		st.TotalPaid, FormatAmount(st.TotalPaidAmount),
		activeStyle(FormatAmount(st.TotalRevenue)),
	)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func (m *ListModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(bill.StatusPending)
	case 2:
		m.filter.Status = new(bill.StatusPaid)
	default:
		m.filter.Status = nil
	}
}

func (m *ListModel) refreshTable() {
	m.rows = m.bills.List(m.filter)

	rows := make([]table.Row, 0, len(m.rows))
	for _, b := range m.rows {
		mark := "[ ]"
		if m.bills.IsSelected(b.ID) {
			mark = "[x]"
		}

		rows = append(rows, table.Row{
			mark,
			b.Name,
			FormatAmount(b.Amount),
			string(b.Status),
			FormatDate(b.DueDate),
			b.PackageName,
			b.PhoneNumber,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m ListModel) current() *bill.Bill {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	return m.rows[idx]
}

func (m *ListModel) toggleSelection() {
	b := m.current()
	if b == nil {
		return
	}

	if m.bills.IsSelected(b.ID) {
		m.bills.Deselect(b.ID)
	} else if err := m.bills.Select(b.ID); err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
	}

	m.refreshTable()
}

func (m *ListModel) reminder() {
	b := m.current()
	if b == nil {
		return
	}

	r, err := m.composer.Compose(*b)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return
	}

	m.status = "Reminder: " + r.URL
}

func parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return nil, errors.New("use YYYY-MM-DD")
	}

	return &t, nil
}

// Messages

type actionMsg struct {
	status string
	err    error
}

func (m ListModel) setStatusCmd(status bill.Status) tea.Cmd {
	b := m.current()
	if b == nil {
		return nil
	}

	id := b.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.bills.SetStatus(ctx, id, status)
		if err != nil {
			return actionMsg{err: err}
		}

		return actionMsg{status: fmt.Sprintf("%s marked %s.", updated.Name, updated.Status)}
	}
}

func (m ListModel) saveCmd(v billForm) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		amount, err := bill.ParseAmount(v.amount)
		if err != nil {
			return actionMsg{err: err}
		}

		due, err := parseDue(v.due)
		if err != nil {
			return actionMsg{err: err}
		}

		if v.id == uuid.Nil {
			b, err := m.bills.Add(ctx, bill.Candidate{
				Name:        v.name,
				Amount:      decimal.NewNullDecimal(amount),
				DueDate:     due,
				PhoneNumber: v.phone,
				Address:     v.address,
				PackageName: v.pkg,
				Notes:       v.notes,
			})
			if err != nil {
				return actionMsg{err: err}
			}

			return actionMsg{status: fmt.Sprintf("Added %s.", b.Name)}
		}

		b, err := m.bills.Update(ctx, v.id, bill.Patch{
			Name:        &v.name,
			Amount:      decimal.NewNullDecimal(amount),
			DueDate:     due,
			PhoneNumber: &v.phone,
			Address:     &v.address,
			PackageName: &v.pkg,
			Notes:       &v.notes,
		})
		if err != nil {
			return actionMsg{err: err}
		}

		return actionMsg{status: fmt.Sprintf("Saved %s.", b.Name)}
	}
}

func (m ListModel) deleteCmd(ids []uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.bills.RemoveMany(ctx, ids)
		if err != nil {
			return actionMsg{err: err}
		}

		return actionMsg{status: fmt.Sprintf("Deleted %d bills.", n)}
	}
}

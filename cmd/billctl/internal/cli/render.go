package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/importer"
	"github.com/zaidnet/tagihan/internal/notify"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func renderRejections(w io.Writer, rs []importer.Rejection) {
	if len(rs) == 0 {
		return
	}

	t := newTable("Row", "Problem")
	for _, r := range rs {
		t.Row(strconv.Itoa(r.Row), r.Err.Error())
	}

	fmt.Fprintln(w, t.Render())
}

func renderBills(w io.Writer, c *notify.Composer, bills []*bill.Bill) {
	t := newTable("ID", "Name", "Amount", "Status", "Due", "Package")
	for _, b := range bills {
		t.Row(
			b.ID.String()[:8],
			b.Name,
			"Rp"+c.FormatAmount(b.Amount),
			string(b.Status),
			notify.FormatDate(b.DueDate),
			b.PackageName,
		)
	}

	fmt.Fprintln(w, t.Render())
}

func renderStats(w io.Writer, c *notify.Composer, s bill.Stats) {
	t := newTable("", "Count", "Amount")
	t.Row("Pending", strconv.Itoa(s.TotalPending), "Rp"+c.FormatAmount(s.TotalUnpaid))
	t.Row("Paid", strconv.Itoa(s.TotalPaid), "Rp"+c.FormatAmount(s.TotalPaidAmount))
	t.Row("Total", strconv.Itoa(s.TotalCustomers), "Rp"+c.FormatAmount(s.TotalRevenue))

	fmt.Fprintln(w, t.Render())
}

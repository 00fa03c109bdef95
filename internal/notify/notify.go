package notify

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zaidnet/tagihan/internal/bill"
)

// ErrUnavailable is returned for bills that carry no usable phone number.
var ErrUnavailable = errors.New("reminder unavailable")

// Reminder is a ready-to-send message and its WhatsApp deep link.
// Delivery happens outside this package.
type Reminder struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

const (
	pendingText = `Halo {{.Name}}, tagihan internet {{.Brand}}{{with .Package}} paket {{.}}{{end}} sebesar Rp{{.Amount}} jatuh tempo pada {{.DueDate}}. Mohon segera melakukan pembayaran. Terima kasih.`
	paidText    = `Halo {{.Name}}, pembayaran tagihan internet {{.Brand}}{{with .Package}} paket {{.}}{{end}} sebesar Rp{{.Amount}} sudah kami terima. Terima kasih.`
)

var templates = template.Must(template.New(string(bill.StatusPending)).Parse(pendingText))

func init() {
	template.Must(templates.New(string(bill.StatusPaid)).Parse(paidText))
}

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

type Composer struct {
	brand       string
	countryCode string
	printer     *message.Printer
}

func NewComposer(brand, countryCode string) *Composer {
	if countryCode == "" {
		countryCode = "62"
	}

	return &Composer{
		brand:       brand,
		countryCode: countryCode,
		printer:     message.NewPrinter(language.Indonesian),
	}
}

type messageData struct {
	Name    string
	Brand   string
	Package string
	Amount  string
	DueDate string
}

func (c *Composer) Compose(b bill.Bill) (Reminder, error) {
	phone := c.NormalizePhone(b.PhoneNumber)
	if phone == "" {
		return Reminder{}, fmt.Errorf("%w: bill %s has no phone number", ErrUnavailable, b.ID)
	}

	tmpl := templates.Lookup(string(b.Status))
	if tmpl == nil {
		return Reminder{}, fmt.Errorf("%w: %q", bill.ErrInvalidStatus, b.Status)
	}

	var buf bytes.Buffer

	err := tmpl.Execute(&buf, messageData{
		Name:    b.Name,
		Brand:   c.brand,
		Package: b.PackageName,
		Amount:  c.FormatAmount(b.Amount),
		DueDate: FormatDate(b.DueDate),
	})
	if err != nil {
		return Reminder{}, fmt.Errorf("rendering reminder: %w", err)
	}

	msg := buf.String()

	return Reminder{
		Phone:   phone,
		Message: msg,
		URL:     "https://wa.me/" + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20"),
	}, nil
}

// NormalizePhone reduces a phone number to international digits:
// "0812-3456" becomes "628123456". It returns "" when no digits remain.
func (c *Composer) NormalizePhone(raw string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}

		return -1
	}, raw)

	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "0"):
		return c.countryCode + digits[1:]
	case strings.HasPrefix(digits, c.countryCode):
		return digits
	default:
		return c.countryCode + digits
	}
}

// FormatAmount groups thousands the Indonesian way: 150000 becomes "150.000".
func (c *Composer) FormatAmount(amount int64) string {
	return c.printer.Sprintf("%d", amount)
}

// FormatDate renders t as "5 Maret 2026".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

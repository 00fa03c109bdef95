package view

import (
	"context"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zaidnet/tagihan/internal/notify"
)

const dbTimeout = 5 * time.Second

var printer = message.NewPrinter(language.Indonesian)

// FormatAmount renders whole rupiah with Indonesian grouping, e.g. "Rp150.000".
func FormatAmount(amount int64) string {
	return "Rp" + printer.Sprintf("%d", amount)
}

func FormatDate(t time.Time) string {
	return notify.FormatDate(t)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

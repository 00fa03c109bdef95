package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zaidnet/tagihan/internal/bill"
)

// Rejection explains why a source row produced no candidate. Row is the
// 1-based position of the row among the data rows.
type Rejection struct {
	Row int
	Err error
}

// Result is the outcome of reconciling a batch of rows. AcceptedRows holds
// the source row number of each accepted candidate.
type Result struct {
	Accepted     []bill.Candidate
	AcceptedRows []int
	Rejected     int
	Rejections   []Rejection
}

// Err reports ErrBatchEmpty when no row was accepted.
func (r Result) Err() error {
	if len(r.Accepted) == 0 {
		return ErrBatchEmpty
	}

	return nil
}

// Reconcile maps raw rows into bill candidates. Rows missing a name or an
// amount, or whose amount is not a number, are rejected and counted; the
// batch itself never fails. Source order is preserved.
func Reconcile(rows []Row, aliases Aliases) Result {
	var res Result

	for i, row := range rows {
		n := i + 1

		c, err := reconcileRow(row, aliases)
		if err != nil {
			res.Rejected++
			res.Rejections = append(res.Rejections, Rejection{
				Row: n,
				Err: fmt.Errorf("%w: row %d: %w", ErrRowRejected, n, err),
			})

			continue
		}

		res.Accepted = append(res.Accepted, c)
		res.AcceptedRows = append(res.AcceptedRows, n)
	}

	return res
}

func reconcileRow(row Row, aliases Aliases) (bill.Candidate, error) {
	nameVal, ok := aliases.lookup(row, FieldName)
	if !ok {
		return bill.Candidate{}, ErrMissingName
	}

	amountVal, ok := aliases.lookup(row, FieldAmount)
	if !ok {
		return bill.Candidate{}, ErrMissingAmount
	}

	amount, err := bill.ParseAmount(amountVal)
	if err != nil {
		if errors.Is(err, bill.ErrMissingAmount) {
			return bill.Candidate{}, ErrMissingAmount
		}

		return bill.Candidate{}, fmt.Errorf("%w: %v", ErrAmountNotNumeric, amountVal)
	}

	return bill.Candidate{
		Name:        text(nameVal),
		Amount:      decimal.NewNullDecimal(amount),
		Status:      bill.StatusPending,
		Notes:       aliases.text(row, FieldNotes),
		PhoneNumber: aliases.text(row, FieldPhone),
		Address:     aliases.text(row, FieldAddress),
		PackageName: aliases.text(row, FieldPackage),
	}, nil
}

func (a Aliases) text(row Row, field Field) string {
	v, ok := a.lookup(row, field)
	if !ok {
		return ""
	}

	return text(v)
}

// text renders a cell as trimmed text. Whole floats, which is how sheet
// APIs return numeric cells such as phone numbers, lose their ".0".
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}

	return strings.TrimSpace(fmt.Sprint(v))
}

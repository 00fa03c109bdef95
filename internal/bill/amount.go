package bill

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest accepted bill amount in rupiah. It keeps ledger
// totals well inside int64.
const MaxAmount int64 = 1_000_000_000_000_000

var maxAmount = decimal.NewFromInt(MaxAmount)

// ParseAmount coerces a loosely typed amount into a decimal.
//
// Accepted inputs are Go integers and floats, json.Number, decimal.Decimal and
// strings holding a plain decimal number ("50000", " 1250.75 ", "-3", "5e4").
// Grouping separators are not understood: "50.000" is fifty, not fifty thousand.
// Nil and blank strings are reported as ErrMissingAmount, anything else that is
// not a finite number as ErrInvalidAmount. Sign and range are checked later by
// validation so every entry path shares one rule.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, ErrMissingAmount
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, ErrMissingAmount
		}

		return *x, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0), nil
	case uint32:
		return decimal.NewFromInt(int64(x)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), nil
	case float32:
		return parseAmountFloat(float64(x))
	case float64:
		return parseAmountFloat(x)
	case json.Number:
		return parseAmountString(x.String())
	case string:
		return parseAmountString(x)
	}

	return decimal.Zero, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidAmount, v)
}

func parseAmountFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v is not a finite number", ErrInvalidAmount, f)
	}

	return decimal.NewFromFloat(f), nil
}

func parseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	return d, nil
}

// wholeAmount truncates toward zero after rejecting negative and oversized
// values. The sign is judged before truncation, so -0.5 is rejected.
func wholeAmount(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}

	whole := d.Truncate(0)
	if whole.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, d)
	}

	return whole.IntPart(), nil
}

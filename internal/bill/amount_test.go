package bill_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaidnet/tagihan/internal/bill"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr error
	}{
		{name: "Int", in: 50000, want: "50000"},
		{name: "Int64", in: int64(75000), want: "75000"},
		{name: "Uint64", in: uint64(math.MaxUint64), want: "18446744073709551615"},
		{name: "Float", in: 1250.5, want: "1250.5"},
		{name: "JSONNumber", in: json.Number("200000"), want: "200000"},
		{name: "Decimal", in: decimal.NewFromInt(10), want: "10"},
		{name: "String", in: " 50000 ", want: "50000"},
		{name: "StringFraction", in: "1250.75", want: "1250.75"},
		{name: "StringExponent", in: "5e4", want: "50000"},
		{name: "GroupedIsNotThousands", in: "50.000", want: "50"},
		{name: "Nil", in: nil, wantErr: bill.ErrMissingAmount},
		{name: "Blank", in: "   ", wantErr: bill.ErrMissingAmount},
		{name: "Text", in: "abc", wantErr: bill.ErrInvalidAmount},
		{name: "NaN", in: math.NaN(), wantErr: bill.ErrInvalidAmount},
		{name: "Inf", in: math.Inf(1), wantErr: bill.ErrInvalidAmount},
		{name: "Bool", in: true, wantErr: bill.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bill.ParseAmount(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_MissingIsInvalid(t *testing.T) {
	_, err := bill.ParseAmount(nil)
	assert.ErrorIs(t, err, bill.ErrInvalidAmount)
}

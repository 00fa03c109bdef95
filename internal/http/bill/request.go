package bill

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaidnet/tagihan/internal/bill"
)

// Amount and due date arrive loosely typed: amounts may be numbers or numeric
// strings, dates either "2006-01-02" or RFC 3339.
type createBillRequest struct {
	Name          string             `json:"name"`
	Amount        any                `json:"amount"`
	Status        bill.Status        `json:"status"`
	PaymentMethod bill.PaymentMethod `json:"payment_method"`
	DueDate       string             `json:"due_date"`
	PhoneNumber   string             `json:"phone_number"`
	Address       string             `json:"address"`
	PackageName   string             `json:"package_name"`
	Notes         string             `json:"notes"`
	Latitude      *float64           `json:"latitude"`
	Longitude     *float64           `json:"longitude"`
	PhotoRef      string             `json:"photo_ref"`
}

type updateBillRequest struct {
	Name          *string             `json:"name"`
	Amount        any                 `json:"amount"`
	PaymentMethod *bill.PaymentMethod `json:"payment_method"`
	DueDate       *string             `json:"due_date"`
	PhoneNumber   *string             `json:"phone_number"`
	Address       *string             `json:"address"`
	PackageName   *string             `json:"package_name"`
	Notes         *string             `json:"notes"`
	Latitude      *float64            `json:"latitude"`
	Longitude     *float64            `json:"longitude"`
	ClearLocation bool                `json:"clear_location"`
	PhotoRef      *string             `json:"photo_ref"`
}

// badRequest marks malformed input, as opposed to input that fails validation.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return badRequest{msg: "invalid request body: " + err.Error()}
	}

	return nil
}

func optionalAmount(v any) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}

	d, err := bill.ParseAmount(v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return decimal.NewNullDecimal(d), nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, badRequest{msg: fmt.Sprintf("invalid due_date %q: use YYYY-MM-DD", s)}
}

func (req createBillRequest) candidate() (bill.Candidate, error) {
	amount, err := optionalAmount(req.Amount)
	if err != nil {
		return bill.Candidate{}, err
	}

	due, err := parseDate(req.DueDate)
	if err != nil {
		return bill.Candidate{}, err
	}

	return bill.Candidate{
		Name:          req.Name,
		Amount:        amount,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		DueDate:       due,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		PackageName:   req.PackageName,
		Notes:         req.Notes,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		PhotoRef:      req.PhotoRef,
	}, nil
}

func (req updateBillRequest) patch() (bill.Patch, error) {
	amount, err := optionalAmount(req.Amount)
	if err != nil {
		return bill.Patch{}, err
	}

	p := bill.Patch{
		Name:          req.Name,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		PackageName:   req.PackageName,
		Notes:         req.Notes,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ClearLocation: req.ClearLocation,
		PhotoRef:      req.PhotoRef,
	}

	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return bill.Patch{}, err
		}

		p.DueDate = due
	}

	return p, nil
}

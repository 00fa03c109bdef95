package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the payment state of a bill.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// PaymentMethod records how a paid bill was settled.
type PaymentMethod string

const (
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"
)

// Location is the customer's geolocation. A bill has both coordinates or none.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Bill is one customer's recurring billing entry.
type Bill struct {
	ID            uuid.UUID
	Name          string
	Amount        int64 // Whole rupiah, no sub-unit
	Status        Status
	PaymentMethod PaymentMethod
	DueDate       time.Time
	PhoneNumber   string
	Address       string
	PackageName   string
	Notes         string
	Location      *Location
	PhotoRef      string // Opaque attachment handle
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// Candidate is the unvalidated input shared by manual entry and import.
type Candidate struct {
	Name          string
	Amount        decimal.NullDecimal
	Status        Status
	PaymentMethod PaymentMethod
	DueDate       *time.Time
	PhoneNumber   string
	Address       string
	PackageName   string
	Notes         string
	Latitude      *float64
	Longitude     *float64
	PhotoRef      string
}

// Patch holds the fields of an update. Nil fields are left untouched.
// Status is deliberately absent: SetStatus is the only way to change it.
type Patch struct {
	Name          *string
	Amount        decimal.NullDecimal
	PaymentMethod *PaymentMethod
	DueDate       *time.Time
	PhoneNumber   *string
	Address       *string
	PackageName   *string
	Notes         *string
	Latitude      *float64
	Longitude     *float64
	ClearLocation bool
	PhotoRef      *string
}

func (b *Bill) clone() *Bill {
	c := *b
	if b.Location != nil {
		loc := *b.Location
		c.Location = &loc
	}

	if b.UpdatedAt != nil {
		t := *b.UpdatedAt
		c.UpdatedAt = &t
	}

	return &c
}

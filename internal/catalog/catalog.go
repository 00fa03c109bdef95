package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("package not found")
	ErrInvalidName  = errors.New("invalid package name")
	ErrInvalidPrice = errors.New("invalid package price")
	ErrDuplicate    = errors.New("package already exists")
)

// Package is an internet plan offered to customers.
type Package struct {
	ID          uuid.UUID
	Name        string
	Speed       string // e.g. "20 Mbps"
	Price       int64  // Monthly price in whole rupiah
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

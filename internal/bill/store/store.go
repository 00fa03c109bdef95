package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/database"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanBill reads a bill row in selectBillColumns order.
func scanBill(s scanner) (*bill.Bill, error) {
	var b bill.Bill

	var statusStr, methodStr string

	var lat, lng sql.NullFloat64

	if err := s.Scan(
		&b.ID, &b.Name, &b.Amount, &statusStr, &methodStr, &b.DueDate,
		&b.PhoneNumber, &b.Address, &b.PackageName, &b.Notes,
		&lat, &lng, &b.PhotoRef, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Status = bill.Status(statusStr)
	b.PaymentMethod = bill.PaymentMethod(methodStr)

	if lat.Valid && lng.Valid {
		b.Location = &bill.Location{Latitude: lat.Float64, Longitude: lng.Float64}
	}

	return &b, nil
}

const selectBillColumns = `
	id, name, amount, status, payment_method, due_date,
	phone_number, address, package_name, notes,
	latitude, longitude, photo_ref, created_at, updated_at
`

func locationArgs(b *bill.Bill) (lat, lng sql.NullFloat64) {
	if b.Location == nil {
		return lat, lng
	}

	return sql.NullFloat64{Float64: b.Location.Latitude, Valid: true},
		sql.NullFloat64{Float64: b.Location.Longitude, Valid: true}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()

	return &u
}

// ListBills returns every bill in insertion order.
func (s *Store) ListBills(ctx context.Context) ([]*bill.Bill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM bills ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bill: %w", err)
		}

		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bill rows: %w", err)
	}

	return bills, nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.Bill, error) {
	query := s.db.Rebind(`SELECT ` + selectBillColumns + ` FROM bills WHERE id = $1`)

	b, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting bill: %w", err)
	}

	return b, nil
}

// CreateBills inserts the batch in one transaction; either every bill is
// written or none is.
func (s *Store) CreateBills(ctx context.Context, bills []*bill.Bill) error {
	if len(bills) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := s.db.Rebind(`
		INSERT INTO bills (id, name, amount, status, payment_method, due_date,
			phone_number, address, package_name, notes,
			latitude, longitude, photo_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`)

	stmt, err := dbTx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bills {
		lat, lng := locationArgs(b)

		_, err := stmt.ExecContext(ctx,
			b.ID,
			b.Name,
			b.Amount,
			b.Status,
			b.PaymentMethod,
			b.DueDate.UTC(),
			b.PhoneNumber,
			b.Address,
			b.PackageName,
			b.Notes,
			lat,
			lng,
			b.PhotoRef,
			b.CreatedAt.UTC(),
			utcPtr(b.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("creating bill %s: %w", b.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing bills: %w", err)
	}

	return nil
}

func (s *Store) UpdateBill(ctx context.Context, b *bill.Bill) error {
	query := s.db.Rebind(`
		UPDATE bills
		SET name = $1, amount = $2, payment_method = $3, due_date = $4,
			phone_number = $5, address = $6, package_name = $7, notes = $8,
			latitude = $9, longitude = $10, photo_ref = $11, updated_at = $12
		WHERE id = $13
	`)

	lat, lng := locationArgs(b)

	res, err := s.db.ExecContext(ctx, query,
		b.Name,
		b.Amount,
		b.PaymentMethod,
		b.DueDate.UTC(),
		b.PhoneNumber,
		b.Address,
		b.PackageName,
		b.Notes,
		lat,
		lng,
		b.PhotoRef,
		utcPtr(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating bill: %w", err)
	}

	return expectRow(res, b.ID)
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status bill.Status, updatedAt time.Time) error {
	query := s.db.Rebind(`
		UPDATE bills
		SET status = $1, updated_at = $2
		WHERE id = $3
	`)

	res, err := s.db.ExecContext(ctx, query, status, updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectRow(res, id)
}

func (s *Store) DeleteBills(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))

	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := s.db.Rebind(`DELETE FROM bills WHERE id IN (` + strings.Join(placeholders, ", ") + `)`)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting bills: %w", err)
	}

	return nil
}

func expectRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", bill.ErrNotFound, id)
	}

	return nil
}

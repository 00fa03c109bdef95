package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zaidnet/tagihan/internal/catalog"
	"github.com/zaidnet/tagihan/internal/database"
)

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectPackageColumns = `id, name, speed, price, description, active, created_at, updated_at`

func scanPackage(s scanner) (*catalog.Package, error) {
	var p catalog.Package

	if err := s.Scan(
		&p.ID, &p.Name, &p.Speed, &p.Price, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Store) CreatePackage(ctx context.Context, p *catalog.Package) error {
	query := s.db.Rebind(`
		INSERT INTO packages (id, name, speed, price, description, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Speed, p.Price, p.Description, p.Active, p.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating package: %w", err)
	}

	return nil
}

func (s *Store) GetPackage(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	query := s.db.Rebind(`SELECT ` + selectPackageColumns + ` FROM packages WHERE id = $1`)

	p, err := scanPackage(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting package: %w", err)
	}

	return p, nil
}

// FindByName matches case-insensitively. It returns nil without error when
// nothing matches.
func (s *Store) FindByName(ctx context.Context, name string) (*catalog.Package, error) {
	query := s.db.Rebind(`
		SELECT ` + selectPackageColumns + `
		FROM packages
		WHERE LOWER(name) = LOWER($1)
		ORDER BY active DESC, created_at DESC
		LIMIT 1
	`)

	p, err := scanPackage(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("finding package: %w", err)
	}

	return p, nil
}

func (s *Store) ListPackages(ctx context.Context, activeOnly bool) ([]*catalog.Package, error) {
	query := `SELECT ` + selectPackageColumns + ` FROM packages`

	var args []any

	if activeOnly {
		query += ` WHERE active = $1`

		args = append(args, true)
	}

	query += ` ORDER BY price ASC, name ASC`

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing packages: %w", err)
	}
	defer rows.Close()

	var pkgs []*catalog.Package

	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning package: %w", err)
		}

		pkgs = append(pkgs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating package rows: %w", err)
	}

	return pkgs, nil
}

func (s *Store) SetActive(ctx context.Context, id uuid.UUID, active bool, updatedAt time.Time) error {
	query := s.db.Rebind(`UPDATE packages SET active = $1, updated_at = $2 WHERE id = $3`)

	res, err := s.db.ExecContext(ctx, query, active, updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("updating package: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

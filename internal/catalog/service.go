package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreatePackage(ctx context.Context, p *Package) error
	GetPackage(ctx context.Context, id uuid.UUID) (*Package, error)
	FindByName(ctx context.Context, name string) (*Package, error)
	ListPackages(ctx context.Context, activeOnly bool) ([]*Package, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, updatedAt time.Time) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	Name        string
	Speed       string
	Price       int64
	Description string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Package, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	if params.Price < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrice, params.Price)
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking package name: %w", err)
	}

	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, existing.Name)
	}

	p := &Package{
		ID:          uuid.New(),
		Name:        name,
		Speed:       strings.TrimSpace(params.Speed),
		Price:       params.Price,
		Description: params.Description,
		Active:      true,
		CreatedAt:   s.now(),
	}

	if err := s.repo.CreatePackage(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Package, error) {
	return s.repo.GetPackage(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Package, error) {
	return s.repo.ListPackages(ctx, activeOnly)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active, s.now())
}

// Resolve returns the catalog spelling of a package name typed by hand or
// found in a spreadsheet. Returns empty string if no package matches.
func (s *Service) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}

	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return "", err
	}

	if p == nil {
		return "", nil
	}

	return p.Name, nil
}

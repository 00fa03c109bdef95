package bill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	ListBills(ctx context.Context) ([]*Bill, error)
	CreateBills(ctx context.Context, bills []*Bill) error
	UpdateBill(ctx context.Context, b *Bill) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, updatedAt time.Time) error
	DeleteBills(ctx context.Context, ids []uuid.UUID) error
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Service serializes access to a Ledger and mirrors each mutation to the
// repository. Repository and publisher are both optional.
type Service struct {
	mu     sync.Mutex
	ledger *Ledger
	repo   Repository
	pub    Publisher
}

func NewService(ledger *Ledger, repo Repository, pub Publisher) *Service {
	return &Service{ledger: ledger, repo: repo, pub: pub}
}

type ListFilter struct {
	Search string
	Status *Status
}

// AddFailure reports a candidate that did not pass validation in AddMany.
type AddFailure struct {
	Index int
	Err   error
}

// Load replaces the ledger with what the repository holds.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return fmt.Errorf("loading bills: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Restore(bills)
}

func (s *Service) Add(ctx context.Context, c Candidate) (*Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.snapshot()

	b, err := s.ledger.Add(c)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.CreateBills(ctx, []*Bill{b}); err != nil {
			s.ledger.rollback(snap)
			return nil, fmt.Errorf("creating bill: %w", err)
		}
	}

	s.publish(ctx, newEvent(EventCreated, b, b.CreatedAt))

	return b, nil
}

// AddMany adds every valid candidate in one repository write. Invalid
// candidates are reported as failures and do not stop the batch.
func (s *Service) AddMany(ctx context.Context, cs []Candidate) ([]*Bill, []AddFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		prepared []*Bill
		failures []AddFailure
	)

	for i, c := range cs {
		b, err := s.ledger.Prepare(c)
		if err != nil {
			failures = append(failures, AddFailure{Index: i, Err: err})
			continue
		}

		prepared = append(prepared, b)
	}

	if len(prepared) == 0 {
		return nil, failures, nil
	}

	if s.repo != nil {
		if err := s.repo.CreateBills(ctx, prepared); err != nil {
			return nil, failures, fmt.Errorf("creating bills: %w", err)
		}
	}

	added := make([]*Bill, len(prepared))

	for i, b := range prepared {
		s.ledger.insert(b)
		added[i] = b.clone()
	}

	for _, b := range added {
		s.publish(ctx, newEvent(EventCreated, b, b.CreatedAt))
	}

	return added, failures, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (*Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.snapshot()

	b, err := s.ledger.Update(id, p)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.UpdateBill(ctx, b); err != nil {
			s.ledger.rollback(snap)
			return nil, fmt.Errorf("updating bill: %w", err)
		}
	}

	s.publish(ctx, newEvent(EventUpdated, b, *b.UpdatedAt))

	return b, nil
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.snapshot()

	b, changed, err := s.ledger.SetStatus(id, status)
	if err != nil {
		return nil, err
	}

	if !changed {
		return b, nil
	}

	if s.repo != nil {
		if err := s.repo.UpdateStatus(ctx, id, b.Status, *b.UpdatedAt); err != nil {
			s.ledger.rollback(snap)
			return nil, fmt.Errorf("updating bill status: %w", err)
		}
	}

	s.publish(ctx, newEvent(EventStatusChanged, b, *b.UpdatedAt))

	return b, nil
}

func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.SetStatus(ctx, id, StatusPaid)
}

func (s *Service) MarkPending(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.SetStatus(ctx, id, StatusPending)
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ledger.Get(id)
	if err != nil {
		return err
	}

	_, err = s.removeLocked(ctx, []*Bill{b})

	return err
}

// RemoveMany deletes the listed bills that exist and returns how many were removed.
func (s *Service) RemoveMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeIDsLocked(ctx, ids)
}

// RemoveSelected deletes every selected bill.
func (s *Service) RemoveSelected(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeIDsLocked(ctx, s.ledger.Selected())
}

func (s *Service) removeIDsLocked(ctx context.Context, ids []uuid.UUID) (int, error) {
	existing := s.ledger.Existing(ids)
	if len(existing) == 0 {
		return 0, nil
	}

	bills := make([]*Bill, 0, len(existing))

	for _, id := range existing {
		b, err := s.ledger.Get(id)
		if err != nil {
			return 0, err
		}

		bills = append(bills, b)
	}

	return s.removeLocked(ctx, bills)
}

func (s *Service) removeLocked(ctx context.Context, bills []*Bill) (int, error) {
	ids := make([]uuid.UUID, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}

	if s.repo != nil {
		if err := s.repo.DeleteBills(ctx, ids); err != nil {
			return 0, fmt.Errorf("deleting bills: %w", err)
		}
	}

	n := s.ledger.RemoveMany(ids)
	now := s.ledger.now()

	for _, b := range bills {
		s.publish(ctx, newEvent(EventDeleted, b, now))
	}

	return n, nil
}

func (s *Service) Get(id uuid.UUID) (*Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Get(id)
}

// List returns bills in ledger order, narrowed by a case-insensitive name
// search and an optional status.
func (s *Service) List(filter ListFilter) []*Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Filter(s.ledger.Bills(), filter)
}

// Filter applies a ListFilter to bills, keeping their order.
func Filter(bills []*Bill, filter ListFilter) []*Bill {
	q := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]*Bill, 0, len(bills))

	for _, b := range bills {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}

		if q != "" && !strings.Contains(strings.ToLower(b.Name), q) {
			continue
		}

		out = append(out, b)
	}

	return out
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Stats()
}

func (s *Service) Select(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Select(id)
}

func (s *Service) Deselect(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.Deselect(id)
}

func (s *Service) SelectAll(ids []uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.SelectAll(ids)
}

// SelectFiltered selects exactly the bills visible under filter.
func (s *Service) SelectFiltered(filter ListFilter) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := Filter(s.ledger.Bills(), filter)

	ids := make([]uuid.UUID, len(visible))
	for i, b := range visible {
		ids[i] = b.ID
	}

	return s.ledger.SelectAll(ids)
}

func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ClearSelection()
}

func (s *Service) Selected() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Selected()
}

func (s *Service) IsSelected(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.IsSelected(id)
}

func (s *Service) publish(ctx context.Context, e Event) {
	if s.pub == nil {
		return
	}

	if err := s.pub.Publish(ctx, e); err != nil {
		slog.Error("failed to publish bill event", "type", e.Type, "bill_id", e.BillID, "error", err)
	}
}

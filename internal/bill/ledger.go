package bill

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const DefaultDueAfter = 30 * 24 * time.Hour

// maxIDAttempts bounds retries when the generator returns an ID already issued.
const maxIDAttempts = 8

// Ledger is the authoritative in-memory collection of bills plus the
// bulk-operation selection. It has a single writer and is not safe for
// concurrent use; Service serializes access for concurrent hosts.
type Ledger struct {
	bills    []*Bill
	byID     map[uuid.UUID]*Bill
	issued   map[uuid.UUID]struct{}
	selected map[uuid.UUID]struct{}

	now      func() time.Time
	newID    func() uuid.UUID
	dueAfter time.Duration
}

type LedgerOption func(*Ledger)

func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(gen func() uuid.UUID) LedgerOption {
	return func(l *Ledger) { l.newID = gen }
}

// WithDueAfter sets the offset from creation used when no due date is given.
func WithDueAfter(d time.Duration) LedgerOption {
	return func(l *Ledger) { l.dueAfter = d }
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		byID:     make(map[uuid.UUID]*Bill),
		issued:   make(map[uuid.UUID]struct{}),
		selected: make(map[uuid.UUID]struct{}),
		now:      time.Now,
		newID:    uuid.New,
		dueAfter: DefaultDueAfter,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Restore replaces the ledger contents with previously persisted bills,
// keeping their order. Selection is cleared.
func (l *Ledger) Restore(bills []*Bill) error {
	byID := make(map[uuid.UUID]*Bill, len(bills))
	ordered := make([]*Bill, 0, len(bills))

	for _, b := range bills {
		if _, dup := byID[b.ID]; dup {
			return fmt.Errorf("restoring ledger: duplicate id %s", b.ID)
		}

		c := b.clone()
		byID[c.ID] = c
		ordered = append(ordered, c)
	}

	l.bills = ordered
	l.byID = byID
	l.selected = make(map[uuid.UUID]struct{})

	for id := range byID {
		l.issued[id] = struct{}{}
	}

	return nil
}

// Prepare validates a candidate and assigns it a fresh ID without adding it.
func (l *Ledger) Prepare(c Candidate) (*Bill, error) {
	b, err := Validate(c, l.now(), l.dueAfter)
	if err != nil {
		return nil, err
	}

	id, err := l.nextID()
	if err != nil {
		return nil, err
	}

	b.ID = id

	return &b, nil
}

// Add validates c and appends the resulting bill.
func (l *Ledger) Add(c Candidate) (*Bill, error) {
	b, err := l.Prepare(c)
	if err != nil {
		return nil, err
	}

	l.insert(b)

	return b.clone(), nil
}

func (l *Ledger) insert(b *Bill) {
	stored := b.clone()
	l.bills = append(l.bills, stored)
	l.byID[stored.ID] = stored
	l.issued[stored.ID] = struct{}{}
}

func (l *Ledger) nextID() (uuid.UUID, error) {
	for range maxIDAttempts {
		id := l.newID()
		if id == uuid.Nil {
			continue
		}

		if _, used := l.issued[id]; !used {
			l.issued[id] = struct{}{}
			return id, nil
		}
	}

	return uuid.Nil, fmt.Errorf("generating bill id: no unused id after %d attempts", maxIDAttempts)
}

// Update merges p into the bill with the given id.
func (l *Ledger) Update(id uuid.UUID, p Patch) (*Bill, error) {
	cur, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next, err := applyPatch(*cur.clone(), p)
	if err != nil {
		return nil, err
	}

	now := l.now()
	next.UpdatedAt = &now
	*cur = next

	return cur.clone(), nil
}

// SetStatus is the only path that changes a bill's status.
func (l *Ledger) SetStatus(id uuid.UUID, status Status) (*Bill, bool, error) {
	cur, ok := l.byID[id]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	changed, err := Transition(cur.Status, status)
	if err != nil {
		return nil, false, err
	}

	if changed {
		now := l.now()
		cur.Status = status
		cur.UpdatedAt = &now
	}

	return cur.clone(), changed, nil
}

// Remove deletes one bill and drops it from the selection.
func (l *Ledger) Remove(id uuid.UUID) error {
	if _, ok := l.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	l.removeSet(map[uuid.UUID]struct{}{id: {}})

	return nil
}

// RemoveMany deletes every listed bill that exists and ignores the rest.
// It returns how many bills were actually removed.
func (l *Ledger) RemoveMany(ids []uuid.UUID) int {
	set := make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := l.byID[id]; ok {
			set[id] = struct{}{}
		}
	}

	if len(set) == 0 {
		return 0
	}

	l.removeSet(set)

	return len(set)
}

func (l *Ledger) removeSet(set map[uuid.UUID]struct{}) {
	kept := l.bills[:0]

	for _, b := range l.bills {
		if _, drop := set[b.ID]; drop {
			delete(l.byID, b.ID)
			delete(l.selected, b.ID)

			continue
		}

		kept = append(kept, b)
	}

	clear(l.bills[len(kept):])
	l.bills = kept
}

// Existing filters ids down to those present in the ledger, in ledger order.
func (l *Ledger) Existing(ids []uuid.UUID) []uuid.UUID {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var out []uuid.UUID

	for _, b := range l.bills {
		if _, ok := want[b.ID]; ok {
			out = append(out, b.ID)
		}
	}

	return out
}

func (l *Ledger) Get(id uuid.UUID) (*Bill, error) {
	b, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return b.clone(), nil
}

// Bills returns copies of every bill in insertion order.
func (l *Ledger) Bills() []*Bill {
	out := make([]*Bill, len(l.bills))
	for i, b := range l.bills {
		out[i] = b.clone()
	}

	return out
}

func (l *Ledger) Len() int {
	return len(l.bills)
}

func (l *Ledger) Stats() Stats {
	return ComputeStats(l.bills)
}

// Select adds an existing bill to the selection.
func (l *Ledger) Select(id uuid.UUID) error {
	if _, ok := l.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	l.selected[id] = struct{}{}

	return nil
}

func (l *Ledger) Deselect(id uuid.UUID) {
	delete(l.selected, id)
}

// SelectAll replaces the selection with the given ids. Ids not in the ledger
// are skipped so the selection stays a subset of existing bills.
func (l *Ledger) SelectAll(ids []uuid.UUID) int {
	l.selected = make(map[uuid.UUID]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := l.byID[id]; ok {
			l.selected[id] = struct{}{}
		}
	}

	return len(l.selected)
}

func (l *Ledger) ClearSelection() {
	l.selected = make(map[uuid.UUID]struct{})
}

func (l *Ledger) IsSelected(id uuid.UUID) bool {
	_, ok := l.selected[id]
	return ok
}

// Selected returns the selected ids in ledger order.
func (l *Ledger) Selected() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(l.selected))

	for _, b := range l.bills {
		if _, ok := l.selected[b.ID]; ok {
			out = append(out, b.ID)
		}
	}

	return out
}

// snapshot captures the ledger so a failed persistence step can be undone.
type snapshot struct {
	bills    []*Bill
	selected map[uuid.UUID]struct{}
}

func (l *Ledger) snapshot() snapshot {
	s := snapshot{
		bills:    l.Bills(),
		selected: make(map[uuid.UUID]struct{}, len(l.selected)),
	}

	for id := range l.selected {
		s.selected[id] = struct{}{}
	}

	return s
}

func (l *Ledger) rollback(s snapshot) {
	l.bills = s.bills
	l.byID = make(map[uuid.UUID]*Bill, len(s.bills))

	for _, b := range s.bills {
		l.byID[b.ID] = b
	}

	l.selected = s.selected
}

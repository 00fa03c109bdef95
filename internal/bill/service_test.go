package bill_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zaidnet/tagihan/internal/bill"
)

type fixture struct {
	repo *bill.MockRepository
	pub  *bill.MockPublisher
	svc  *bill.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo: bill.NewMockRepository(ctrl),
		pub:  bill.NewMockPublisher(ctrl),
	}

	ledger := bill.NewLedger(bill.WithClock(func() time.Time { return fixedNow }))
	f.svc = bill.NewService(ledger, f.repo, f.pub)

	return f
}

// seed adds bills through the service with persistence and events accepted.
func (f *fixture) seed(t *testing.T, names ...string) []uuid.UUID {
	t.Helper()

	f.repo.EXPECT().CreateBills(gomock.Any(), gomock.Len(1)).Return(nil).Times(len(names))
	f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(len(names))

	ids := make([]uuid.UUID, len(names))

	for i, n := range names {
		b, err := f.svc.Add(context.Background(), bill.Candidate{Name: n, Amount: amount("100000")})
		require.NoError(t, err)

		ids[i] = b.ID
	}

	return ids
}

func TestService_Add(t *testing.T) {
	tests := []struct {
		name      string
		in        bill.Candidate
		setupMock func(f *fixture)
		wantErr   error
		wantLen   int
	}{
		{
			name: "Success",
			in:   bill.Candidate{Name: "Budi", Amount: amount("50000")},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateBills(gomock.Any(), gomock.Len(1)).
					Return(nil)
				f.pub.EXPECT().
					Publish(gomock.Any(), gomock.Cond(func(e bill.Event) bool {
						return e.Type == bill.EventCreated && e.Amount == 50000
					})).
					Return(nil)
			},
			wantLen: 1,
		},
		{
			name:    "InvalidCandidate",
			in:      bill.Candidate{Name: "", Amount: amount("1")},
			wantErr: bill.ErrInvalidName,
		},
		{
			name: "RepoErrorRollsBack",
			in:   bill.Candidate{Name: "Budi", Amount: amount("50000")},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().
					CreateBills(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "PublishErrorIsNotFatal",
			in:   bill.Candidate{Name: "Budi", Amount: amount("50000")},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().CreateBills(gomock.Any(), gomock.Any()).Return(nil)
				f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			got, err := f.svc.Add(context.Background(), tt.in)
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, bill.ErrInvalidName) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}

				assert.Empty(t, f.svc.List(bill.ListFilter{}))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Budi", got.Name)
			assert.Len(t, f.svc.List(bill.ListFilter{}), tt.wantLen)
		})
	}
}

func TestService_AddMany(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		CreateBills(gomock.Any(), gomock.Len(2)).
		Return(nil)
	f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	added, failures, err := f.svc.AddMany(context.Background(), []bill.Candidate{
		{Name: "Budi", Amount: amount("50000")},
		{Name: "", Amount: amount("1")},
		{Name: "Sari", Amount: amount("75000")},
	})
	require.NoError(t, err)

	require.Len(t, added, 2)
	assert.Equal(t, "Budi", added[0].Name)
	assert.Equal(t, "Sari", added[1].Name)

	require.Len(t, failures, 1)
	assert.Equal(t, 1, failures[0].Index)
	assert.ErrorIs(t, failures[0].Err, bill.ErrInvalidName)
}

func TestService_AddManyRepoError(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().CreateBills(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	_, _, err := f.svc.AddMany(context.Background(), []bill.Candidate{
		{Name: "Budi", Amount: amount("50000")},
	})
	require.ErrorContains(t, err, "db error")
	assert.Empty(t, f.svc.List(bill.ListFilter{}))
}

func TestService_Update(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "Budi")

	f.repo.EXPECT().
		UpdateBill(gomock.Any(), gomock.Any()).
		Return(errors.New("db error"))

	_, err := f.svc.Update(context.Background(), ids[0], bill.Patch{Name: ptr("X")})
	require.ErrorContains(t, err, "db error")

	got, err := f.svc.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Budi", got.Name)

	f.repo.EXPECT().UpdateBill(gomock.Any(), gomock.Any()).Return(nil)
	f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	updated, err := f.svc.Update(context.Background(), ids[0], bill.Patch{Name: ptr("X")})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Name)
}

func TestService_SetStatus(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "Budi")

	f.repo.EXPECT().
		UpdateStatus(gomock.Any(), ids[0], bill.StatusPaid, fixedNow).
		Return(nil)
	f.pub.EXPECT().
		Publish(gomock.Any(), gomock.Cond(func(e bill.Event) bool {
			return e.Type == bill.EventStatusChanged && e.Status == bill.StatusPaid
		})).
		Return(nil)

	got, err := f.svc.MarkPaid(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, got.Status)

	// No-op transitions touch neither the repository nor the publisher.
	got, err = f.svc.MarkPaid(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, got.Status)

	assert.Equal(t, int64(100000), f.svc.Stats().TotalPaidAmount)
}

func TestService_SetStatusRepoError(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "Budi")

	f.repo.EXPECT().
		UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("db error"))

	_, err := f.svc.MarkPaid(context.Background(), ids[0])
	require.ErrorContains(t, err, "db error")

	got, err := f.svc.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPending, got.Status)
}

func TestService_RemoveSelected(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B", "C")

	require.NoError(t, f.svc.Select(ids[0]))
	require.NoError(t, f.svc.Select(ids[2]))

	f.repo.EXPECT().
		DeleteBills(gomock.Any(), []uuid.UUID{ids[0], ids[2]}).
		Return(nil)
	f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	n, err := f.svc.RemoveSelected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Empty(t, f.svc.Selected())

	remaining := f.svc.List(bill.ListFilter{})
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[1], remaining[0].ID)
}

func TestService_RemoveManyRepoError(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "A", "B")

	require.NoError(t, f.svc.Select(ids[0]))

	f.repo.EXPECT().DeleteBills(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	_, err := f.svc.RemoveMany(context.Background(), ids)
	require.ErrorContains(t, err, "db error")

	assert.Len(t, f.svc.List(bill.ListFilter{}), 2)
	assert.True(t, f.svc.IsSelected(ids[0]))
}

func TestService_RemoveUnknown(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Remove(context.Background(), uuid.New())
	require.ErrorIs(t, err, bill.ErrNotFound)

	n, err := f.svc.RemoveMany(context.Background(), []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_Load(t *testing.T) {
	f := newFixture(t)

	stored := []*bill.Bill{
		{ID: uuid.New(), Name: "A", Amount: 10, Status: bill.StatusPaid},
		{ID: uuid.New(), Name: "B", Amount: 20, Status: bill.StatusPending},
	}

	f.repo.EXPECT().ListBills(gomock.Any()).Return(stored, nil)

	require.NoError(t, f.svc.Load(context.Background()))
	assert.Equal(t, stored, f.svc.List(bill.ListFilter{}))
	assert.Equal(t, int64(30), f.svc.Stats().TotalRevenue)
}

func TestService_ListAndSelectFiltered(t *testing.T) {
	f := newFixture(t)
	ids := f.seed(t, "Budi Santoso", "Sari", "budiman")

	f.repo.EXPECT().UpdateStatus(gomock.Any(), ids[2], bill.StatusPaid, gomock.Any()).Return(nil)
	f.pub.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.svc.MarkPaid(context.Background(), ids[2])
	require.NoError(t, err)

	paid := bill.StatusPaid

	tests := []struct {
		name   string
		filter bill.ListFilter
		want   []uuid.UUID
	}{
		{name: "All", want: ids},
		{name: "Search", filter: bill.ListFilter{Search: " BUDI "}, want: []uuid.UUID{ids[0], ids[2]}},
		{name: "Status", filter: bill.ListFilter{Status: &paid}, want: []uuid.UUID{ids[2]}},
		{name: "SearchAndStatus", filter: bill.ListFilter{Search: "sari", Status: &paid}, want: []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.svc.List(tt.filter)

			gotIDs := make([]uuid.UUID, len(got))
			for i, b := range got {
				gotIDs[i] = b.ID
			}

			assert.Equal(t, tt.want, gotIDs)

			assert.Equal(t, len(tt.want), f.svc.SelectFiltered(tt.filter))
			assert.ElementsMatch(t, tt.want, f.svc.Selected())
		})
	}
}

func TestService_WithoutRepository(t *testing.T) {
	svc := bill.NewService(bill.NewLedger(), nil, nil)

	require.NoError(t, svc.Load(context.Background()))

	b, err := svc.Add(context.Background(), bill.Candidate{Name: "Budi", Amount: amount("1")})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), b.ID))
	assert.Zero(t, svc.Stats().TotalCustomers)
}

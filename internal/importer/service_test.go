package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/importer"
)

const sampleCSV = `Nama;Nominal;Paket;Catatan
Budi;50000;home 20;
;10000;;
Sari;abc;;
Andi;-5;;salah ketik
Rina;75000;;baru pasang
`

func TestService_ImportIntoLedger(t *testing.T) {
	ledger := bill.NewService(bill.NewLedger(), nil, nil)
	svc := importer.NewService()

	report, err := svc.Import(context.Background(), ledger, importer.FormatCSV, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, report.Added, 2)
	assert.Equal(t, "Budi", report.Added[0].Name)
	assert.Equal(t, "Rina", report.Added[1].Name)
	assert.Equal(t, 2, report.Rejected)
	assert.Equal(t, 1, report.Invalid)

	require.Len(t, report.Problems, 3)
	assert.Equal(t, 2, report.Problems[0].Row)
	assert.Equal(t, 3, report.Problems[1].Row)
	assert.Equal(t, 4, report.Problems[2].Row)
	assert.ErrorIs(t, report.Problems[2].Err, bill.ErrInvalidAmount)

	stats := ledger.Stats()
	assert.Equal(t, 2, stats.TotalPending)
	assert.Equal(t, int64(125000), stats.TotalUnpaid)
}

func TestService_ImportEveryRowInvalid(t *testing.T) {
	ledger := bill.NewService(bill.NewLedger(), nil, nil)

	report, err := importer.NewService().Import(context.Background(), ledger, importer.FormatCSV,
		strings.NewReader("Nama;Nominal\nBudi;-5\nSari;-1\n"))
	require.ErrorIs(t, err, importer.ErrBatchEmpty)

	require.NotNil(t, report)
	assert.Equal(t, 2, report.Invalid)
	require.Len(t, report.Problems, 2)
	assert.ErrorIs(t, report.Problems[0].Err, bill.ErrInvalidAmount)
	assert.Zero(t, ledger.Stats().TotalCustomers)
}

func TestService_Apply(t *testing.T) {
	rows := []importer.Row{
		{{Header: "Nama", Value: "Budi"}, {Header: "Nominal", Value: "50000"}, {Header: "Paket", Value: "home 20"}},
		{{Header: "Nama", Value: "Sari"}, {Header: "Nominal", Value: "60000"}, {Header: "Paket", Value: "Unknown"}},
	}

	type testCase struct {
		name      string
		rows      []importer.Row
		setupMock func(a *importer.MockAdder, r *importer.MockPackageResolver)
		wantErr   error
		check     func(t *testing.T, rep *importer.Report)
	}

	tests := []testCase{
		{
			name: "CanonicalizesPackages",
			rows: rows,
			setupMock: func(a *importer.MockAdder, r *importer.MockPackageResolver) {
				r.EXPECT().Resolve(gomock.Any(), "home 20").Return("Home 20 Mbps", nil)
				r.EXPECT().Resolve(gomock.Any(), "Unknown").Return("", nil)

				a.EXPECT().
					AddMany(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, cs []bill.Candidate) ([]*bill.Bill, []bill.AddFailure, error) {
						require.Len(t, cs, 2)
						assert.Equal(t, "Home 20 Mbps", cs[0].PackageName)
						assert.Equal(t, "Unknown", cs[1].PackageName)

						return []*bill.Bill{{Name: cs[0].Name}, {Name: cs[1].Name}}, nil, nil
					})
			},
			check: func(t *testing.T, rep *importer.Report) {
				assert.Len(t, rep.Added, 2)
				assert.Zero(t, rep.Invalid)
			},
		},
		{
			name: "ResolverErrorKeepsName",
			rows: rows[:1],
			setupMock: func(a *importer.MockAdder, r *importer.MockPackageResolver) {
				r.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("", errors.New("db error"))

				a.EXPECT().
					AddMany(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, cs []bill.Candidate) ([]*bill.Bill, []bill.AddFailure, error) {
						assert.Equal(t, "home 20", cs[0].PackageName)
						return []*bill.Bill{{Name: cs[0].Name}}, nil, nil
					})
			},
			check: func(t *testing.T, rep *importer.Report) {
				assert.Len(t, rep.Added, 1)
			},
		},
		{
			name: "EveryCandidateInvalid",
			rows: rows,
			setupMock: func(a *importer.MockAdder, r *importer.MockPackageResolver) {
				r.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("", nil).Times(2)
				a.EXPECT().
					AddMany(gomock.Any(), gomock.Any()).
					Return(nil, []bill.AddFailure{
						{Index: 0, Err: bill.ErrInvalidAmount},
						{Index: 1, Err: bill.ErrInvalidAmount},
					}, nil)
			},
			wantErr: importer.ErrBatchEmpty,
			check: func(t *testing.T, rep *importer.Report) {
				require.NotNil(t, rep)
				assert.Empty(t, rep.Added)
				assert.Equal(t, 2, rep.Invalid)
				require.Len(t, rep.Problems, 2)
				assert.Equal(t, 1, rep.Problems[0].Row)
				assert.Equal(t, 2, rep.Problems[1].Row)
			},
		},
		{
			name:    "EmptyBatchNeverReachesLedger",
			rows:    []importer.Row{{{Header: "Nama", Value: ""}}},
			wantErr: importer.ErrBatchEmpty,
		},
		{
			name: "AdderError",
			rows: rows[:1],
			setupMock: func(a *importer.MockAdder, r *importer.MockPackageResolver) {
				r.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return("", nil)
				a.EXPECT().AddMany(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			adder := importer.NewMockAdder(ctrl)
			resolver := importer.NewMockPackageResolver(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(adder, resolver)
			}

			svc := importer.NewService(importer.WithPackageResolver(resolver))

			rep, err := svc.Apply(context.Background(), adder, svc.Reconcile(tt.rows))
			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, importer.ErrBatchEmpty) {
					assert.ErrorIs(t, err, importer.ErrBatchEmpty)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}

				if tt.check != nil {
					tt.check(t, rep)
				}

				return
			}

			require.NoError(t, err)
			tt.check(t, rep)
		})
	}
}

func TestService_ReadUnknownFormat(t *testing.T) {
	_, err := importer.NewService().Read("ods", strings.NewReader(""))
	require.ErrorIs(t, err, importer.ErrUnknownFormat)
}

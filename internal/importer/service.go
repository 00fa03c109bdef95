package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zaidnet/tagihan/internal/bill"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer

// Adder is the ledger's batch create path.
type Adder interface {
	AddMany(ctx context.Context, cs []bill.Candidate) ([]*bill.Bill, []bill.AddFailure, error)
}

// PackageResolver returns the catalog spelling of a package name, or "" when
// the name is unknown.
type PackageResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Report summarizes an applied import. Rejected rows failed reconciliation;
// Invalid rows were accepted but failed bill validation when added.
type Report struct {
	Added    []*bill.Bill
	Rejected int
	Invalid  int
	Problems []Rejection
}

type Service struct {
	readers  map[Format]Reader
	aliases  Aliases
	packages PackageResolver
}

type Option func(*Service)

// WithAliases replaces DefaultAliases.
func WithAliases(a Aliases) Option {
	return func(s *Service) { s.aliases = a }
}

func WithPackageResolver(r PackageResolver) Option {
	return func(s *Service) { s.packages = r }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		readers: map[Format]Reader{
			FormatCSV:  NewCSVReader(),
			FormatXLSX: NewXLSXReader(),
		},
		aliases: DefaultAliases,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Aliases() Aliases {
	return s.aliases
}

func (s *Service) Read(format Format, r io.Reader) ([]Row, error) {
	reader, ok := s.readers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return reader.Read(r)
}

func (s *Service) Reconcile(rows []Row) Result {
	return Reconcile(rows, s.aliases)
}

// Apply adds every accepted candidate through adder. It returns
// ErrBatchEmpty without touching the ledger when nothing was accepted, and
// ErrBatchEmpty together with the report when every accepted candidate
// failed validation, so callers can still show the problems.
func (s *Service) Apply(ctx context.Context, adder Adder, res Result) (*Report, error) {
	if err := res.Err(); err != nil {
		return nil, err
	}

	candidates := make([]bill.Candidate, len(res.Accepted))
	copy(candidates, res.Accepted)

	if s.packages != nil {
		s.canonicalizePackages(ctx, candidates)
	}

	added, failures, err := adder.AddMany(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("adding imported bills: %w", err)
	}

	report := &Report{
		Added:    added,
		Rejected: res.Rejected,
		Invalid:  len(failures),
		Problems: append([]Rejection(nil), res.Rejections...),
	}

	for _, f := range failures {
		row := f.Index + 1
		if f.Index < len(res.AcceptedRows) {
			row = res.AcceptedRows[f.Index]
		}

		report.Problems = append(report.Problems, Rejection{Row: row, Err: f.Err})
	}

	if len(added) == 0 {
		return report, fmt.Errorf("%w: all %d accepted rows failed validation", ErrBatchEmpty, len(failures))
	}

	return report, nil
}

// Import reads, reconciles and applies one file.
func (s *Service) Import(ctx context.Context, adder Adder, format Format, r io.Reader) (*Report, error) {
	rows, err := s.Read(format, r)
	if err != nil {
		return nil, err
	}

	return s.Apply(ctx, adder, s.Reconcile(rows))
}

func (s *Service) canonicalizePackages(ctx context.Context, cs []bill.Candidate) {
	for i, c := range cs {
		if c.PackageName == "" {
			continue
		}

		canonical, err := s.packages.Resolve(ctx, c.PackageName)
		if err != nil {
			slog.Warn("failed to resolve package", "package", c.PackageName, "error", err)
			continue
		}

		if canonical != "" {
			cs[i].PackageName = canonical
		}
	}
}

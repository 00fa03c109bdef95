package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zaidnet/tagihan/internal/bill"
	"github.com/zaidnet/tagihan/internal/importer"
)

func filterFlags(cmd *cobra.Command, search, status *string) {
	cmd.Flags().StringVarP(search, "query", "q", "", "Only bills whose name contains this text")
	cmd.Flags().StringVar(status, "status", "", "Only bills with this status (pending or paid)")
}

func buildFilter(search, status string) (bill.ListFilter, error) {
	filter := bill.ListFilter{Search: search}

	if status != "" {
		s, err := bill.ParseStatus(status)
		if err != nil {
			return bill.ListFilter{}, err
		}

		filter.Status = &s
	}

	return filter, nil
}

func newListCmd() *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show bills in ledger order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := buildFilter(search, status)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			renderBills(cmd.OutOrStdout(), a.Composer, a.Bills.List(filter))

			return nil
		},
	}

	filterFlags(cmd, &search, &status)

	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize pending and paid bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			renderStats(cmd.OutOrStdout(), a.Composer, a.Bills.Stats())

			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:     "export FILE",
		Short:   "Write the ledger to a CSV or XLSX file",
		Example: `  billctl export tagihan.xlsx --status pending`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := importer.ParseFormat(args[0])
			if err != nil {
				return err
			}

			filter, err := buildFilter(search, status)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			bills := a.Bills.List(filter)

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating %s: %w", args[0], err)
			}

			if err := a.Exporter.Write(f, format, bills); err != nil {
				f.Close()
				return err
			}

			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d bills written to %s\n", len(bills), args[0])

			return nil
		},
	}

	filterFlags(cmd, &search, &status)

	return cmd
}

func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind ID",
		Short: "Print the WhatsApp reminder link for a bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid bill id %q", args[0])
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.Bills.Get(id)
			if err != nil {
				return err
			}

			rem, err := a.Composer.Compose(*b)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), rem.Message)
			fmt.Fprintln(cmd.OutOrStdout(), rem.URL)

			return nil
		},
	}
}

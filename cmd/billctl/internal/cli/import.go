package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaidnet/tagihan/internal/importer"
)

func newImportCmd() *cobra.Command {
	var (
		format string
		sheet  string
		rng    string
	)

	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Add the valid rows of a spreadsheet to the ledger",
		Example: `  billctl import tagihan-maret.csv
  billctl import --sheet https://docs.google.com/spreadsheets/d/abc123/edit --range "Maret!A:H"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (sheet == "") {
				return errors.New("give either a FILE or --sheet")
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var rows []importer.Row

			if sheet != "" {
				if a.Sheets == nil {
					return errors.New("google sheets import needs GOOGLE_CREDENTIALS_FILE")
				}

				if rng == "" {
					rng = a.Config.Google.Range
				}

				rows, err = a.Sheets.Rows(cmd.Context(), sheet, rng)
			} else {
				rows, err = readFile(a.Importer, args[0], format)
			}

			if err != nil {
				return err
			}

			report, err := a.Importer.Apply(cmd.Context(), a.Bills, a.Importer.Reconcile(rows))
			if err != nil {
				if report != nil {
					renderRejections(cmd.ErrOrStderr(), report.Problems)
				}

				return err
			}

			out := cmd.OutOrStdout()
			renderBills(out, a.Composer, report.Added)
			renderRejections(out, report.Problems)
			fmt.Fprintf(out, "%d added, %d rejected, %d invalid\n", len(report.Added), report.Rejected, report.Invalid)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "File format (csv or xlsx), inferred from the extension by default")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Google Sheets URL or spreadsheet ID to import instead of a file")
	cmd.Flags().StringVar(&rng, "range", "", "Sheet range, defaults to GOOGLE_SHEET_RANGE")

	return cmd
}

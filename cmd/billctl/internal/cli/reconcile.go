package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zaidnet/tagihan/internal/importer"
)

func newReconcileCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "reconcile FILE",
		Short: "Check a spreadsheet without touching the ledger",
		Long: `Reads a CSV or XLSX billing sheet and reports which rows would be
accepted and which would be rejected, and why.`,
		Example: `  billctl reconcile tagihan-maret.xlsx
  billctl reconcile export.txt --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readFile(importer.NewService(), args[0], format)
			if err != nil {
				return err
			}

			res := importer.Reconcile(rows, importer.DefaultAliases)
			out := cmd.OutOrStdout()

			t := newTable("Row", "Name", "Amount", "Phone", "Package")
			for i, c := range res.Accepted {
				t.Row(fmt.Sprint(res.AcceptedRows[i]), c.Name, c.Amount.Decimal.String(), c.PhoneNumber, c.PackageName)
			}

			fmt.Fprintln(out, t.Render())
			renderRejections(out, res.Rejections)
			fmt.Fprintf(out, "%d accepted, %d rejected\n", len(res.Accepted), res.Rejected)

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "File format (csv or xlsx), inferred from the extension by default")

	return cmd
}

func readFile(svc *importer.Service, path, format string) ([]importer.Row, error) {
	if format == "" {
		format = path
	}

	f, err := importer.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	return svc.Read(f, file)
}

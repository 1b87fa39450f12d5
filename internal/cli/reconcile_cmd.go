package cli

import (
	"github.com/alexanderramin/budgetflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReconcileCmd(app *App) *cobra.Command {
	var (
		year   string
		format outputFormat
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare declared totals across plans for a fiscal year",
		Long: `Reconcile sums, per agency, the revised project budgets against their
monthly cashflows and the work programme budgets against procurement values,
then grades the larger variance as none, minor, major or critical.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Reconcile.Reconcile(cmd.Context(), year)
			if err != nil {
				return err
			}
			return emit(cmd, app, format, report, func() string {
				return formatter.FormatReconcileReport(report)
			})
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "Fiscal year ID")
	_ = cmd.MarkFlagRequired("year")
	addFormatFlag(cmd, &format)

	return cmd
}

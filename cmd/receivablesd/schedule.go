package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/dto"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/internal/application/usecase"
	"github.com/BuildZone-Tech/gerenciador-de-dividas/pkg/money"
)

func newScheduleCmd() *cobra.Command {
	var (
		principal string
		count     int
		firstDue  string
	)

	cmd := &cobra.Command{
		Use:     "schedule",
		Short:   "Preview the installment schedule of a fixed-schedule debt",
		Example: "  receivablesd schedule --principal 1000.00 --count 3 --first-due 2024-01-31",
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := money.ParseAmount(principal)
			if err != nil {
				return fmt.Errorf("invalid --principal: %w", err)
			}
			due, err := time.Parse(time.DateOnly, firstDue)
			if err != nil {
				return fmt.Errorf("invalid --first-due %q, want YYYY-MM-DD", firstDue)
			}

			resp, err := usecase.NewPreviewScheduleUseCase().Execute(cmd.Context(), dto.PreviewScheduleRequest{
				Principal:        amount,
				InstallmentCount: count,
				FirstDueDate:     due,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "#\tDUE\tAMOUNT\t")
			for _, e := range resp.Entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t\n", e.Number, e.DueDate.Format(time.DateOnly), e.Amount.StringFixed(2))
			}
			fmt.Fprintf(w, "\tTOTAL\t%s\t\n", resp.Total.StringFixed(2))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "Contract total")
	cmd.Flags().IntVar(&count, "count", 1, "Number of installments")
	cmd.Flags().StringVar(&firstDue, "first-due", time.Now().Format(time.DateOnly), "First due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("principal")
	return cmd
}

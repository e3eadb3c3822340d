package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portfel-dev/portfel/internal/app"
	"github.com/portfel-dev/portfel/internal/common"
	"github.com/portfel-dev/portfel/internal/services/rates"
)

func newRateCommand(configPath *string) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "rate <currency> <date>",
		Short: "Resolve one currency's PLN mid rate for a date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			currency, day := args[0], args[1]
			if _, err := common.ParseDay(day); err != nil {
				return fmt.Errorf("invalid date %q: want YYYY-MM-DD", day)
			}

			a, err := app.NewApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			mid, ok := a.RateService.Resolve(cmd.Context(), currency, day, offline)
			if !ok {
				return fmt.Errorf("no rate found for %s on %s", currency, day)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "1 %s = %.4f %s (%s)\n", currency, mid, rates.ReferenceCurrency, day)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "use cached rates only, never fetch")

	return cmd
}

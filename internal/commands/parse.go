package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portfel-dev/portfel/internal/app"
	"github.com/portfel-dev/portfel/internal/models"
	"github.com/portfel-dev/portfel/internal/services/portfolio"
)

// parseOutput is what the parse command prints: the merged portfolio plus
// one report per input file.
type parseOutput struct {
	Portfolio *models.Portfolio     `json:"portfolio"`
	Reports   []*models.ParseReport `json:"reports"`
}

func newParseCommand(configPath *string) *cobra.Command {
	var offline bool
	var futureRates bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "parse <statement.csv> [more.csv...]",
		Short: "Parse statement exports into a PLN-normalized portfolio",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.NewApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := portfolio.BuildOptions{
				SkipFetch:         offline,
				HandleFutureRates: futureRates,
			}

			var portfolios []*models.Portfolio
			var reports []*models.ParseReport

			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open statement %s: %w", path, err)
				}
				records, err := portfolio.ReadRecords(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("failed to read statement %s: %w", path, err)
				}

				p, report := a.Builder.Build(cmd.Context(), records, opts)
				a.Logger.Info().Str("file", path).Str("ingest_id", report.IngestID).Int("records", p.Size()).Msg("statement parsed")
				portfolios = append(portfolios, p)
				reports = append(reports, report)
			}

			out := parseOutput{
				Portfolio: portfolio.Merge(portfolios...),
				Reports:   reports,
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode portfolio: %w", err)
			}
			data = append(data, '\n')

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write output %s: %w", outPath, err)
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "recompute from cached rates only, never fetch")
	cmd.Flags().BoolVar(&futureRates, "future-rates", false, "clamp future-dated rows to today's rate")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write output JSON to a file instead of stdout")

	return cmd
}

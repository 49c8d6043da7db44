package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

var (
	ratesProvider string
	ratesExport   string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the rate table",
	Long: `Show the per-million-token rates of every priced model.

Use --export to write the active table as a YAML rate file that can be edited
and loaded with --rates-file.`,
	Args: cobra.NoArgs,
	RunE: runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)

	ratesCmd.Flags().StringVar(&ratesProvider, "provider", "",
		"Only show models of this provider")
	ratesCmd.Flags().StringVar(&ratesExport, "export", "",
		"Write the rate table to this YAML file")
}

func runRates(cmd *cobra.Command, args []string) error {
	table := rates.All()

	if ratesExport != "" {
		path := expandPath(ratesExport)
		if err := pricing.SaveRateFile(path, table); err != nil {
			return err
		}
		util.LogInfof("Exported %d rates to %s", table.Len(), path)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rates to %s\n", table.Len(), path)
		return err
	}

	rows := formatter.RateRows(table, ratesProvider)
	if len(rows) == 0 {
		return fmt.Errorf("no rates for provider %q", ratesProvider)
	}

	out := cmd.OutOrStdout()
	if appConfig.Output == config.OutputJSON {
		return formatter.NewJSONFormatter(out).Format(rows)
	}
	return formatter.NewTableFormatter(out).Format(rows)
}

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

var (
	priceInputTokens  int
	priceOutputTokens int
)

var priceCmd = &cobra.Command{
	Use:   "price <provider> <model>",
	Short: "Price a token count against the rate table",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrice,
}

// priceOutput is the JSON shape of the price command
type priceOutput struct {
	Provider     string              `json:"provider"`
	Model        string              `json:"model"`
	InputTokens  int                 `json:"input_tokens"`
	OutputTokens int                 `json:"output_tokens"`
	Rate         pricing.RateEntry   `json:"rate"`
	Breakdown    model.CostBreakdown `json:"breakdown"`
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().IntVarP(&priceInputTokens, "input-tokens", "i", 0,
		"Number of input tokens")
	priceCmd.Flags().IntVarP(&priceOutputTokens, "output-tokens", "t", 0,
		"Number of output tokens")
}

func runPrice(cmd *cobra.Command, args []string) error {
	provider, modelID := args[0], args[1]
	if priceInputTokens < 0 || priceOutputTokens < 0 {
		return fmt.Errorf("token counts must not be negative")
	}

	rate, err := rates.Lookup(provider, modelID)
	if err != nil {
		return err
	}
	breakdown := pricing.Apply(rate, priceInputTokens, priceOutputTokens)

	out := cmd.OutOrStdout()
	if appConfig.Output == config.OutputJSON {
		return formatter.NewJSONFormatter(out).Format(priceOutput{
			Provider:     pricing.NormalizeProvider(provider),
			Model:        modelID,
			InputTokens:  priceInputTokens,
			OutputTokens: priceOutputTokens,
			Rate:         rate,
			Breakdown:    breakdown,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", pricing.NormalizeProvider(provider), modelID)
	fmt.Fprintf(&b, "  Input:  %s tokens × %s/1M = %s\n",
		util.FormatInteger(priceInputTokens), util.FormatRate(rate.InputPerMillion), util.FormatUSD(breakdown.InputCost, 6))
	fmt.Fprintf(&b, "  Output: %s tokens × %s/1M = %s\n",
		util.FormatInteger(priceOutputTokens), util.FormatRate(rate.OutputPerMillion), util.FormatUSD(breakdown.OutputCost, 6))
	fmt.Fprintf(&b, "  Total:  %s\n", util.FormatUSD(breakdown.TotalCost, 6))
	if rate.HasCachedInput() {
		fmt.Fprintf(&b, "  Cached input rate %s/1M is listed but not applied\n", util.FormatRate(*rate.CachedInputPerMillion))
	}

	_, err = fmt.Fprint(out, b.String())
	return err
}

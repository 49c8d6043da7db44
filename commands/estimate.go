package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/core/tokens"
	"github.com/penwyp/go-api-cost-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

var (
	estimateFile         string
	estimateProvider     string
	estimateModel        string
	estimateOutputTokens int
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [text...]",
	Short: "Estimate the token count (and optionally cost) of text",
	Long: `Estimate the token count of text given as arguments, read from --file, or from stdin.

The estimate is max(ceil(words / 0.75), ceil(characters / 4)): a rough upper
bound for cost warnings, not an exact tokenizer count.`,
	RunE: runEstimate,
}

// estimateOutput is the JSON shape of the estimate command
type estimateOutput struct {
	Tokens     int                `json:"tokens"`
	Provider   string             `json:"provider,omitempty"`
	Model      string             `json:"model,omitempty"`
	Estimation *tokens.Estimation `json:"estimation,omitempty"`
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	estimateCmd.Flags().StringVarP(&estimateFile, "file", "f", "",
		"Read text from file (- for stdin)")
	estimateCmd.Flags().StringVar(&estimateProvider, "provider", "",
		"Provider to price the estimate against")
	estimateCmd.Flags().StringVar(&estimateModel, "model", "",
		"Model to price the estimate against")
	estimateCmd.Flags().IntVar(&estimateOutputTokens, "output-tokens", 0,
		"Expected output tokens to include in the cost estimate")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	text, err := readEstimateInput(cmd, args)
	if err != nil {
		return err
	}

	result := estimateOutput{Tokens: tokens.Estimate(text)}

	if estimateProvider != "" || estimateModel != "" {
		if estimateProvider == "" || estimateModel == "" {
			return fmt.Errorf("--provider and --model must be given together")
		}
		est, err := tokens.EstimateCost(pricing.NewCalculator(rates), estimateProvider, estimateModel, text, estimateOutputTokens)
		if err != nil {
			return err
		}
		result.Provider = pricing.NormalizeProvider(estimateProvider)
		result.Model = estimateModel
		result.Estimation = &est
	}

	out := cmd.OutOrStdout()
	if appConfig.Output == config.OutputJSON {
		return formatter.NewJSONFormatter(out).Format(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Estimated tokens: %s\n", util.FormatInteger(result.Tokens))
	if est := result.Estimation; est != nil {
		fmt.Fprintf(&b, "%s %s: %s input + %s output tokens = %s (input %s, output %s)\n",
			result.Provider, result.Model,
			util.FormatInteger(est.InputTokens), util.FormatInteger(est.OutputTokens),
			util.FormatUSD(est.Breakdown.TotalCost, 6),
			util.FormatUSD(est.Breakdown.InputCost, 6), util.FormatUSD(est.Breakdown.OutputCost, 6))
	}
	_, err = fmt.Fprint(out, b.String())
	return err
}

func readEstimateInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case estimateFile == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case estimateFile != "":
		data, err := os.ReadFile(estimateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", estimateFile, err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return "", fmt.Errorf("no text given: pass text arguments or --file")
	}
}

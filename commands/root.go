package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

var (
	// Configuration file
	cfgFile string

	// Logging related
	debug     bool
	logFile   string
	logFormat string

	// Output related
	outputFormat string

	// Rates related
	ratesSource string
	ratesFile   string

	// Resolved by PersistentPreRunE
	appConfig *config.Config
	rates     pricing.RateProvider

	rootCmd = &cobra.Command{
		Use:   "costtrack",
		Short: "API call cost estimator and tracker",
		Long: `costtrack prices OpenAI and Claude API calls against a per-million-token rate table,
estimates token counts for raw text, and accumulates session totals from call logs.

Token estimates are a heuristic upper bound for cost warnings, not tokenizer output.

Examples:
  costtrack price openai gpt-4o --input-tokens 1000000 --output-tokens 500000
  costtrack estimate "Summarize this paragraph" --provider claude --model claude-3-haiku
  costtrack rates --provider openai
  costtrack track calls.jsonl -o csv
  costtrack watch calls.jsonl --metrics-addr :9090`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

const (
	defaultConfigFile = "~/.go-api-cost-tracker/config.yaml"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file path (default "+defaultConfigFile+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format (text, json, table, csv)")
	rootCmd.PersistentFlags().StringVar(&ratesSource, "rates-source", "",
		"Rate table source (default, file)")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates-file", "",
		"YAML rate table used when --rates-source=file")
}

// setup loads configuration, applies flag overrides, and initializes logging and rates
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := cfg.Logging.Level
	if debug {
		logLevel = "debug"
	}

	path := expandPath(cfg.Logging.File)
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, path, debug, util.ParseLogFormat(cfg.Logging.Format)); err != nil {
		return err
	}

	if cfg.Rates.RatesFile != "" {
		cfg.Rates.RatesFile = expandPath(cfg.Rates.RatesFile)
	}
	provider, err := pricing.CreateRateProvider(&cfg.Rates)
	if err != nil {
		return err
	}

	util.LogDebugf("Using %s rates, output=%s", provider.Name(), cfg.Output)
	appConfig = cfg
	rates = provider
	return nil
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(expandPath(cfgFile), false)
	}
	return config.Load(expandPath(defaultConfigFile), true)
}

// applyFlagOverrides copies explicitly set flags over file values
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
	if flags.Changed("rates-source") {
		cfg.Rates.RatesSource = ratesSource
	}
	if flags.Changed("rates-file") {
		cfg.Rates.RatesFile = ratesFile
		if !flags.Changed("rates-source") {
			cfg.Rates.RatesSource = pricing.SourceFile
		}
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/pricing"
)

// resetFlags restores every flag to its default so commands can run repeatedly in one process
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

// runCommand executes the root command with args in an isolated home directory
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCommandContext(t, context.Background(), args...)
}

func runCommandContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--log-file", filepath.Join(home, "logs", "test.log")))

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Test idempotency
	err = ensureDir(testDir)
	assert.NoError(t, err)
}

func TestSetup_Defaults(t *testing.T) {
	_, err := runCommand(t, "rates")
	require.NoError(t, err)

	assert.Equal(t, config.OutputText, appConfig.Output)
	assert.Equal(t, pricing.SourceDefault, rates.Name())
	assert.FileExists(t, appConfig.Logging.File)
}

func TestSetup_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\nlogging:\n  level: debug\n"), 0644))

	out, err := runCommand(t, "rates", "--config", cfgPath, "--provider", "claude")
	require.NoError(t, err)

	assert.Equal(t, config.OutputJSON, appConfig.Output)
	assert.Equal(t, "debug", appConfig.Logging.Level)
	assert.Contains(t, out, `"provider": "CLAUDE"`)
}

func TestSetup_MissingExplicitConfig(t *testing.T) {
	_, err := runCommand(t, "rates", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestSetup_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: json\n"), 0644))

	_, err := runCommand(t, "rates", "--config", cfgPath, "-o", "table")
	require.NoError(t, err)
	assert.Equal(t, config.OutputTable, appConfig.Output)
}

func TestSetup_InvalidOutput(t *testing.T) {
	_, err := runCommand(t, "rates", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestSetup_RatesFileImpliesFileSource(t *testing.T) {
	ratesPath := filepath.Join(t.TempDir(), "rates.yaml")
	content := "providers:\n  openai:\n    custom-model:\n      input: 1.0\n      output: 2.0\n"
	require.NoError(t, os.WriteFile(ratesPath, []byte(content), 0644))

	out, err := runCommand(t, "price", "openai", "custom-model", "-i", "1000000", "-t", "1000000")
	require.Error(t, err, "custom model is unknown to the built-in table")
	assert.Empty(t, out)

	out, err = runCommand(t, "price", "openai", "custom-model", "-i", "1000000", "-t", "1000000",
		"--rates-file", ratesPath)
	require.NoError(t, err)
	assert.Equal(t, pricing.SourceFile, rates.Name())
	assert.Contains(t, out, "Total:  $3.000000")
}

func TestSetup_InvalidRatesFile(t *testing.T) {
	ratesPath := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(ratesPath, []byte("providers:\n  openai:\n    bad:\n      input: -1\n      output: 2\n"), 0644))

	_, err := runCommand(t, "rates", "--rates-file", ratesPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrInvalidRate)
}

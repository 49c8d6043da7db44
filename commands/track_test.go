package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-api-cost-tracker/internal/testing/fixtures"
)

const sampleCallLog = `{"provider":"openai","model":"gpt-4o","input_tokens":1000000,"output_tokens":0,"caller":"summarize"}
{"provider":"claude","model":"claude-3-haiku","input_tokens":1000,"output_tokens":1000,"success":false}
{"provider":"openai","model":"gpt-5","input_tokens":10,"output_tokens":10}
not json at all

{"provider":"openai","model":"gpt-4o","input_tokens":-1,"output_tokens":0}
`

func writeCallLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTrack_Text(t *testing.T) {
	path := writeCallLog(t, "calls.jsonl", sampleCallLog)

	out, err := runCommand(t, "track", path)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "API COST TRACKING"))
	assert.Contains(t, out, "✅ OPENAI API Call - summarize")
	assert.Contains(t, out, "❌ CLAUDE API Call - Unknown")
	assert.Contains(t, out, "Cost Tracking Warning: unknown model: openai:gpt-5")
	assert.Contains(t, out, "Session: 1 calls, $2.500000 total")
	assert.Contains(t, out, "(1 failed, not billed)")
	assert.Contains(t, out, "1 calls skipped: unknown model")
}

func TestTrack_Quiet(t *testing.T) {
	path := writeCallLog(t, "calls.jsonl", sampleCallLog)

	out, err := runCommand(t, "track", "-q", path)
	require.NoError(t, err)

	assert.NotContains(t, out, "API COST TRACKING")
	assert.True(t, strings.HasPrefix(out, "Session: 1 calls, $2.500000 total"))
}

func TestTrack_JSON(t *testing.T) {
	path := writeCallLog(t, "calls.jsonl", sampleCallLog)

	out, err := runCommand(t, "track", path, "-o", "json")
	require.NoError(t, err)

	var got trackOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	require.Len(t, got.Calls, 2)
	assert.True(t, got.Calls[0].Record.Succeeded())
	assert.True(t, got.Calls[1].Record.Failed)
	assert.NotEmpty(t, got.Calls[0].CallID)
	assert.Equal(t, 1, got.Report.Summary.TotalCalls)
	assert.InDelta(t, 2.5, got.Report.Summary.TotalCost, 1e-9)
	assert.Equal(t, 1, got.Report.UnknownCalls)
}

func TestTrack_CSV(t *testing.T) {
	path := writeCallLog(t, "calls.jsonl", sampleCallLog)

	out, err := runCommand(t, "track", path, "-o", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Call ID,Provider,Model"))
	assert.Contains(t, lines[1], "OPENAI,gpt-4o,summarize")
	assert.NotContains(t, out, "Session:")
}

func TestTrack_ResetPerFile(t *testing.T) {
	first := writeCallLog(t, "first.jsonl", `{"provider":"openai","model":"gpt-4o","input_tokens":1000000,"output_tokens":0}`+"\n")
	second := writeCallLog(t, "second.jsonl", `{"provider":"openai","model":"gpt-4o-mini","input_tokens":1000000,"output_tokens":0}`+"\n")

	out, err := runCommand(t, "track", "-q", "--reset-per-file", first, second)
	require.NoError(t, err)

	assert.Contains(t, out, first+"\nSession: 1 calls, $2.500000 total")
	assert.Contains(t, out, second+"\nSession: 1 calls, $0.150000 total")
}

func TestTrack_AccumulatesAcrossFiles(t *testing.T) {
	first := writeCallLog(t, "first.jsonl", `{"provider":"openai","model":"gpt-4o","input_tokens":1000000,"output_tokens":0}`+"\n")
	second := writeCallLog(t, "second.jsonl", `{"provider":"openai","model":"gpt-4o-mini","input_tokens":1000000,"output_tokens":0}`+"\n")

	out, err := runCommand(t, "track", "-q", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: 2 calls, $2.650000 total")
}

func TestTrack_MissingFile(t *testing.T) {
	path := writeCallLog(t, "calls.jsonl", sampleCallLog)
	missing := filepath.Join(t.TempDir(), "missing.jsonl")

	out, err := runCommand(t, "track", "-q", missing, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: 1 calls")

	_, err = runCommand(t, "track", missing)
	require.Error(t, err)
}

func TestTrack_Directory(t *testing.T) {
	dir := t.TempDir()
	line := `{"provider":"openai","model":"gpt-4o","input_tokens":1000000,"output_tokens":0}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jsonl"), []byte(line), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.jsonl"), []byte(line), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(line), 0644))

	out, err := runCommand(t, "track", "-q", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Session: 2 calls, $5.000000 total")

	_, err = runCommand(t, "track", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no call logs found")
}

func TestTrack_GeneratedProjects(t *testing.T) {
	gen := fixtures.NewTestDataGenerator(t.TempDir())
	_, err := gen.GenerateSession("simple", fixtures.SimpleSession())
	require.NoError(t, err)
	_, err = gen.GenerateSession("mixed", fixtures.MixedSession())
	require.NoError(t, err)
	_, err = gen.CreateEmptyProject("empty")
	require.NoError(t, err)

	out, err := runCommand(t, "track", "-q", "-o", "json", gen.GetBaseDir())
	require.NoError(t, err)

	var got trackOutput
	require.NoError(t, sonic.UnmarshalString(out, &got))
	assert.Equal(t, 3, got.Report.Summary.TotalCalls)
	assert.InDelta(t, 2.50+0.15+1.25, got.Report.Summary.TotalCost, 1e-9)
	assert.Equal(t, 1, got.Report.UnknownCalls)
	assert.Len(t, got.Calls, 4)
}

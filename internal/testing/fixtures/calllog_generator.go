package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
)

const callLogName = "calls.jsonl"

// TestDataGenerator writes JSONL call logs for tests
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// GetBaseDir returns the base directory
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// SimpleSession is two successful calls costing $2.50 and $0.15
func SimpleSession() []model.CallRecord {
	gpt := model.NewCallRecord(model.ProviderOpenAI, model.ModelGPT4o, 1_000_000, 0)
	gpt.Caller = "summarize"
	mini := model.NewCallRecord(model.ProviderOpenAI, model.ModelGPT4oMini, 1_000_000, 0)
	mini.DurationMs = 1200
	return []model.CallRecord{gpt, mini}
}

// MixedSession holds one billed call ($1.25), one failed call and one unknown model
func MixedSession() []model.CallRecord {
	billed := model.NewCallRecord(model.ProviderClaude, model.ModelClaude3Haiku, 0, 1_000_000)
	failed := model.NewCallRecord(model.ProviderClaude, model.ModelClaude4Opus, 1000, 1000)
	failed.Failed = true
	unknown := model.NewCallRecord(model.ProviderOpenAI, "gpt-unknown", 10, 10)
	return []model.CallRecord{billed, failed, unknown}
}

// LargeSession returns n successful gpt-4o-mini calls of 1000 input and 500 output tokens
func LargeSession(n int) []model.CallRecord {
	records := make([]model.CallRecord, n)
	for i := range records {
		records[i] = model.NewCallRecord(model.ProviderOpenAI, model.ModelGPT4oMini, 1000, 500)
		records[i].Caller = fmt.Sprintf("worker-%d", i%4)
	}
	return records
}

// GenerateSession writes records to <baseDir>/<project>/calls.jsonl and returns its path
func (g *TestDataGenerator) GenerateSession(project string, records []model.CallRecord) (string, error) {
	projectDir := filepath.Join(g.baseDir, project)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(projectDir, callLogName)
	return path, g.WriteJSONL(path, records)
}

// CreateEmptyProject creates a project with an empty call log and returns its path
func (g *TestDataGenerator) CreateEmptyProject(project string) (string, error) {
	return g.GenerateSession(project, nil)
}

// WriteJSONL writes records to filename, replacing its contents
func (g *TestDataGenerator) WriteJSONL(filename string, records []model.CallRecord) error {
	return writeRecords(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, records)
}

// AppendJSONL appends records to filename, creating it if needed
func (g *TestDataGenerator) AppendJSONL(filename string, records []model.CallRecord) error {
	return writeRecords(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, records)
}

// CleanupTestData removes all generated test data
func (g *TestDataGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}

func writeRecords(filename string, flag int, records []model.CallRecord) error {
	file, err := os.OpenFile(filename, flag, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, rec := range records {
		line, err := sonic.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

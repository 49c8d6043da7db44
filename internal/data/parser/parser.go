package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

const maxLineSize = 10 * 1024 * 1024

// ErrInvalidRecord marks a line that decoded but does not describe a call
var ErrInvalidRecord = errors.New("invalid call record")

// Parser parses JSONL call-record files.
type Parser struct {
	concurrency int
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File    string
	Records []model.CallRecord
	Error   error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// DecodeLine decodes and validates a single JSONL line.
func DecodeLine(line []byte) (model.CallRecord, error) {
	var rec model.CallRecord
	if err := sonic.Unmarshal(line, &rec); err != nil {
		return rec, err
	}
	if err := Validate(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// Validate checks the fields a call record cannot be priced without.
func Validate(rec model.CallRecord) error {
	switch {
	case rec.Provider == "":
		return fmt.Errorf("%w: missing provider", ErrInvalidRecord)
	case rec.Model == "":
		return fmt.Errorf("%w: missing model", ErrInvalidRecord)
	case rec.InputTokens < 0 || rec.OutputTokens < 0:
		return fmt.Errorf("%w: negative token count", ErrInvalidRecord)
	case rec.DurationMs < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidRecord)
	}
	return nil
}

// ParseRecords reads call records from r, one JSON object per line.
// Blank and invalid lines are skipped.
func ParseRecords(r io.Reader, source string) ([]model.CallRecord, error) {
	var records []model.CallRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := DecodeLine(line)
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid line %s:%d - %v", source, lineCount, err))
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", source, err)
	}

	util.LogDebug(fmt.Sprintf("Parsed %s: %d lines, %d valid records", source, lineCount, len(records)))
	return records, nil
}

// ParseFile parses the call log at the specified path.
func (p *Parser) ParseFile(filepath string) ([]model.CallRecord, error) {
	util.LogDebug(fmt.Sprintf("Start parsing file: %s", filepath))

	file, err := os.Open(filepath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", filepath, err))
		return nil, err
	}
	defer file.Close()

	return ParseRecords(file, filepath)
}

// ParseFiles parses multiple files concurrently. Results arrive in completion order.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			records, err := p.ParseFile(f)
			results <- ParseResult{
				File:    f,
				Records: records,
				Error:   err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()

	return results
}

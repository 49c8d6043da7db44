package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

// Reader reads a growing call log incrementally. Only complete lines are
// decoded; a trailing partial line is kept until its newline arrives.
type Reader struct {
	path    string
	offset  int64
	partial []byte
}

// NewReader creates a reader positioned at the start of path
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Path returns the file being read
func (r *Reader) Path() string {
	return r.path
}

// Offset returns the number of bytes consumed so far
func (r *Reader) Offset() int64 {
	return r.offset
}

// SkipToEnd positions the reader at the current end of the file
func (r *Reader) SkipToEnd() error {
	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.offset = 0
			return nil
		}
		return err
	}
	r.offset = info.Size()
	r.partial = nil
	return nil
}

// ReadNew returns the records appended since the last call. A missing file
// yields no records; a truncated file is re-read from the start.
func (r *Reader) ReadNew() ([]model.CallRecord, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < r.offset {
		util.LogDebugf("Call log %s was truncated, reading from start", r.path)
		r.offset = 0
		r.partial = nil
	}

	if _, err := file.Seek(r.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek %s: %w", r.path, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	r.offset += int64(len(data))

	buf := append(r.partial, data...)
	last := bytes.LastIndexByte(buf, '\n')
	if last < 0 {
		r.partial = buf
		return nil, nil
	}
	r.partial = append([]byte(nil), buf[last+1:]...)

	return ParseRecords(bytes.NewReader(buf[:last+1]), r.path)
}

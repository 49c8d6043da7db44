package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

// JSONFormatter writes values as indented JSON
type JSONFormatter struct {
	w io.Writer
}

// NewJSONFormatter creates a JSON formatter writing to w
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

// Format writes v as indented JSON with sorted map keys
func (f *JSONFormatter) Format(v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}

// JSONLines writes each tracked call as one JSON object per line
type JSONLines struct {
	w io.Writer
}

// NewJSONLines creates a JSON Lines writer on w
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

// Write encodes v on a single line
func (f *JSONLines) Write(v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}

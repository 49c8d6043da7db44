package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

const minModelWidth = 12

// TableFormatter renders rate rows as a box-drawn table
type TableFormatter struct {
	w        io.Writer
	headers  []string
	maxWidth int
}

// NewTableFormatter creates a rate table formatter sized to w's terminal width
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w:        w,
		headers:  []string{"Provider", "Model", "Input / 1M", "Output / 1M", "Cached In / 1M"},
		maxWidth: util.TerminalWidth(w),
	}
}

// Format prints the rate rows as a boxed table
func (f *TableFormatter) Format(rows []RateRow) error {
	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		cached := "-"
		if row.CachedInput != nil {
			cached = util.FormatRate(*row.CachedInput)
		}
		data = append(data, []string{
			row.Provider,
			row.Model,
			util.FormatRate(row.Input),
			util.FormatRate(row.Output),
			cached,
		})
	}

	widths := f.calculateColumnWidths(data)
	for _, values := range data {
		values[1] = util.TruncateString(values[1], widths[1])
	}

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, values := range data {
		f.printRow(&b, values, widths)
	}
	f.printBorder(&b, widths, "bottom")
	fmt.Fprintf(&b, "%d models\n", len(rows))

	_, err := io.WriteString(f.w, b.String())
	return err
}

// calculateColumnWidths sizes columns to their content, shrinking the model
// column when the table would not fit the terminal
func (f *TableFormatter) calculateColumnWidths(data [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, values := range data {
		for i, value := range values {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if overflow := total - f.maxWidth; overflow > 0 {
		widths[1] = max(widths[1]-overflow, minModelWidth)
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

// printRow prints a row; the first two columns are left-aligned, prices right-aligned
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		b.WriteString(" " + util.PadString(value, widths[i], i < 2) + " │")
	}
	b.WriteString("\n")
}

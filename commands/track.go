package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/session"
	"github.com/penwyp/go-api-cost-tracker/internal/data/parser"
	"github.com/penwyp/go-api-cost-tracker/internal/data/scanner"
	"github.com/penwyp/go-api-cost-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

var (
	trackQuiet       bool
	trackResetPerLog bool
)

var trackCmd = &cobra.Command{
	Use:   "track <calls.jsonl|dir>...",
	Short: "Price every call in one or more JSONL call logs",
	Long: `Track reads JSONL call logs (one call record per line) and accumulates session totals.
Directories are searched recursively for *.jsonl files.

Each line holds provider, model, input_tokens and output_tokens, plus optional
caller, duration_ms and success (default true). Failed calls are priced but not
billed to the session; calls for unknown models are reported and skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrack,
}

// trackOutput is the JSON shape of the track command
type trackOutput struct {
	File   string                  `json:"file,omitempty"`
	Calls  []*model.TrackResult    `json:"calls"`
	Report formatter.SessionReport `json:"report"`
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().BoolVarP(&trackQuiet, "quiet", "q", false,
		"Only print the session summary")
	trackCmd.Flags().BoolVar(&trackResetPerLog, "reset-per-file", false,
		"Reset the session after each file and summarize files separately")
}

func runTrack(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	format := appConfig.Output

	opts := []session.Option{session.WithReporter(session.NewLogReporter(nil))}
	if format == config.OutputText || format == config.OutputTable {
		if !trackQuiet {
			opts = append(opts, session.WithReporter(formatter.NewCallReporter(out)))
		}
	}
	tracker := session.NewTracker(rates, opts...)

	files, err := scanner.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no call logs found")
	}

	// Parse concurrently, track in argument order
	parsed := make(map[string]parser.ParseResult, len(files))
	for result := range parser.NewParser(runtime.NumCPU()).ParseFiles(files) {
		parsed[result.File] = result
	}

	var csvOut *formatter.CSVFormatter
	if format == config.OutputCSV {
		csvOut = formatter.NewCSVFormatter(out)
		if err := csvOut.WriteHeader(); err != nil {
			return err
		}
	}

	var (
		failedFiles int
		outputs     []trackOutput
		current     = trackOutput{}
		collector   = formatter.NewSessionCollector()
	)

	flush := func(file string) error {
		current.File = file
		current.Report = collector.Report(tracker.Summary())
		util.LogInfof("Session: %d calls, %s", current.Report.Summary.TotalCalls,
			util.FormatUSD(current.Report.Summary.TotalCost, 6))
		if err := writeTrackSummary(out, format, current); err != nil {
			return err
		}
		outputs = append(outputs, current)
		current = trackOutput{}
		collector = formatter.NewSessionCollector()
		return nil
	}

	for _, file := range files {
		result := parsed[file]
		if result.Error != nil {
			util.LogErrorf("Failed to parse %s: %v", file, result.Error)
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipping %s: %v\n", file, result.Error)
			failedFiles++
			continue
		}

		for _, rec := range result.Records {
			tracked, err := tracker.Track(rec)
			if err != nil {
				collector.AddUnknown()
				continue
			}
			collector.Add(tracked)
			current.Calls = append(current.Calls, tracked)
			if csvOut != nil {
				if err := csvOut.Write(tracked); err != nil {
					return err
				}
			}
		}

		if trackResetPerLog {
			if err := flush(file); err != nil {
				return err
			}
			tracker.Reset()
		}
	}

	if !trackResetPerLog {
		if err := flush(""); err != nil {
			return err
		}
	}

	if csvOut != nil {
		if err := csvOut.Flush(); err != nil {
			return err
		}
	}
	if format == config.OutputJSON {
		if trackResetPerLog {
			if err := formatter.NewJSONFormatter(out).Format(outputs); err != nil {
				return err
			}
		} else if err := formatter.NewJSONFormatter(out).Format(outputs[0]); err != nil {
			return err
		}
	}

	if failedFiles == len(files) {
		return fmt.Errorf("no call log could be read")
	}
	return nil
}

// writeTrackSummary prints a session summary for text formats; json and csv are written by the caller
func writeTrackSummary(w io.Writer, format string, o trackOutput) error {
	if format != config.OutputText && format != config.OutputTable {
		return nil
	}
	if o.File != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", o.File); err != nil {
			return err
		}
	}
	return formatter.NewSummaryFormatter(w).Format(o.Report)
}

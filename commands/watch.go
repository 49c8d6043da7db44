package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-api-cost-tracker/internal/config"
	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/core/session"
	"github.com/penwyp/go-api-cost-tracker/internal/monitoring"
	"github.com/penwyp/go-api-cost-tracker/internal/presentation/formatter"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

var (
	watchFromStart   bool
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch <calls.jsonl>",
	Short: "Follow a JSONL call log and track calls as they are appended",
	Long: `Watch follows a JSONL call log and prices each call as it is appended.

The session runs until interrupted. Send SIGHUP to reset the session totals.
With --metrics-addr, Prometheus metrics are served on /metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchFromStart, "from-start", false,
		"Track calls already in the log before following it")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	addr := watchMetricsAddr
	if addr == "" && appConfig.Metrics.Enabled {
		addr = appConfig.Metrics.Addr
	}
	metrics := monitoring.New(addr != "")

	opts := []session.Option{
		session.WithReporter(session.NewLogReporter(nil)),
		session.WithMetrics(metrics),
	}
	var handler session.TrackHandler
	if appConfig.Output == config.OutputJSON {
		lines := formatter.NewJSONLines(out)
		handler = func(rec model.CallRecord, result *model.TrackResult, err error) {
			var v interface{} = result
			if err != nil {
				v = map[string]interface{}{"record": rec, "error": err.Error()}
			}
			if werr := lines.Write(v); werr != nil {
				util.LogWarnf("Failed to write call: %v", werr)
			}
		}
	} else {
		opts = append(opts, session.WithReporter(formatter.NewCallReporter(out)))
	}
	tracker := session.NewTracker(rates, opts...)

	follower, err := session.NewCallLogFollower(expandPath(args[0]), tracker, watchFromStart, handler)
	if err != nil {
		return err
	}
	defer follower.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr != "" {
		shutdown, err := serveMetrics(addr, metrics)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	go resetOnHangup(ctx, tracker)

	util.LogInfof("Watching %s", args[0])
	if err := follower.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	summary := tracker.Summary()
	util.LogInfof("Watch stopped: %d calls, %s", summary.TotalCalls, util.FormatUSD(summary.TotalCost, 6))
	if appConfig.Output == config.OutputJSON {
		return nil
	}
	_, err = fmt.Fprintf(out, "Session: %d calls, %s total\n", summary.TotalCalls, util.FormatUSD(summary.TotalCost, 6))
	return err
}

// serveMetrics exposes metrics on addr/metrics until the returned shutdown is called
func serveMetrics(addr string, metrics *monitoring.Metrics) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.LogErrorf("Metrics server stopped: %v", err)
		}
	}()
	util.LogInfof("Serving metrics on http://%s/metrics", listener.Addr())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}, nil
}

func resetOnHangup(ctx context.Context, tracker *session.Tracker) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			tracker.Reset()
		}
	}
}

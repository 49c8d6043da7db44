package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-api-cost-tracker/internal/core/model"
	"github.com/penwyp/go-api-cost-tracker/internal/data/parser"
	"github.com/penwyp/go-api-cost-tracker/internal/util"
)

// TrackHandler is called for every record the follower tracks; result is nil when err is set
type TrackHandler func(rec model.CallRecord, result *model.TrackResult, err error)

// CallLogFollower tails a JSONL call log and tracks each appended record
type CallLogFollower struct {
	watcher   *fsnotify.Watcher
	reader    *parser.Reader
	tracker   *Tracker
	path      string
	onTracked TrackHandler
}

// NewCallLogFollower watches path's directory so the log may be created or
// rotated after the follower starts. With fromStart unset, existing lines are skipped.
func NewCallLogFollower(path string, tracker *Tracker, fromStart bool, onTracked TrackHandler) (*CallLogFollower, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	reader := parser.NewReader(absPath)
	if !fromStart {
		if err := reader.SkipToEnd(); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return &CallLogFollower{
		watcher:   watcher,
		reader:    reader,
		tracker:   tracker,
		path:      absPath,
		onTracked: onTracked,
	}, nil
}

// Run tracks records until ctx is cancelled or the watcher is closed
func (f *CallLogFollower) Run(ctx context.Context) error {
	f.drain()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-f.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				f.drain()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return nil
			}
			// Log error but continue running
			util.LogError("Call log monitoring error: " + err.Error())
		}
	}
}

// drain tracks every complete record appended since the last read
func (f *CallLogFollower) drain() {
	records, err := f.reader.ReadNew()
	if err != nil {
		util.LogWarnf("Failed to read call log %s: %v", f.path, err)
		return
	}

	for _, rec := range records {
		result, err := f.tracker.Track(rec)
		if f.onTracked != nil {
			f.onTracked(rec, result, err)
		}
	}
}

// Close stops watching the call log
func (f *CallLogFollower) Close() error {
	return f.watcher.Close()
}

package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/arloliu/chainsum/report"
)

// DefaultDebounce is how long Watch waits for writes to settle before rebuilding.
const DefaultDebounce = 500 * time.Millisecond

// EmitFunc receives each rebuilt report, or the error that prevented it.
// Returning an error stops Watch with that error.
type EmitFunc func(in *report.Input, err error) error

// Watch builds the report for req, then rebuilds it whenever a chain or
// paramnames file of the run changes in req.Dir, until ctx is done. Build
// errors are passed to emit rather than ending the watch, since a sampler may
// be midway through writing a row.
//
// Watch returns nil when ctx is cancelled.
func (r *Reporter) Watch(ctx context.Context, req Request, debounce time.Duration, emit EmitFunc) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(req.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", req.Dir, err)
	}

	in, err := r.Build(ctx, req)
	if err := emit(in, err); err != nil {
		return err
	}
	prefix := req.Prefix
	if prefix == "" && in != nil {
		prefix = in.Prefix
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("watch stopped", zap.Error(ctx.Err()))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, prefix) {
				continue
			}
			r.log.Debug("chain file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			in, err := r.Build(ctx, req)
			if ctx.Err() != nil {
				return nil
			}
			if err := emit(in, err); err != nil {
				return err
			}
			if prefix == "" && in != nil {
				prefix = in.Prefix
			}
		}
	}
}

// relevant reports whether event touches a file of the run with the given
// prefix; any chain-like file counts while the prefix is still unknown.
func relevant(event fsnotify.Event, prefix string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if prefix == "" {
		return strings.Contains(name, ".txt") || strings.HasSuffix(name, ".paramnames")
	}

	return strings.HasPrefix(name, prefix+".")
}

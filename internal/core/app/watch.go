package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"glslreflect/internal/core/watcher"
	"glslreflect/internal/shared/observability"
	"glslreflect/internal/shared/util"
)

// Watch renders path once, then again whenever path or any file named by its
// #line directives changes. Regenerations are debounced by the watcher and
// throttled by watch.max_runs_per_second. Failed runs are logged and write
// nothing. Watch returns when ctx is cancelled.
func (a *App) Watch(ctx context.Context, path string, w io.Writer) error {
	changes := make(chan []string, 1)
	fw, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Watch.Exclude, func(paths []string) {
		select {
		case changes <- paths:
		default:
			// a regeneration is already queued
		}
	})
	if err != nil {
		return err
	}
	defer fw.Close()

	limiter := util.NewLimiter(a.Config.Watch.MaxRunsPerSecond, a.Config.Watch.Burst)

	regenerate := func() {
		waited, err := limiter.Wait(ctx)
		if waited {
			observability.RegenerationsThrottledTotal.Inc()
		}
		if err != nil {
			return
		}

		res, err := a.ReflectFile(ctx, path)
		if err != nil {
			slog.Error("reflection failed", "path", path, "error", err)
			return
		}
		if err := a.WriteResult(w, res); err != nil {
			slog.Error("failed to write output", "run_id", res.RunID, "error", err)
			return
		}
		slog.Info("output regenerated",
			"run_id", res.RunID,
			"structs", res.Stats.Structs,
			"functions", res.Stats.Functions,
			"cache_hit", res.CacheHit,
		)

		if err := fw.Track(watchTargets(path, res.LineFiles)); err != nil {
			slog.Warn("failed to update watched files", "error", err)
		}
	}

	if err := fw.Track([]string{path}); err != nil {
		return err
	}
	fw.Start()
	regenerate()
	slog.Info("watching for changes", "files", fw.Tracked())

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			slog.Debug("change detected", "paths", paths)
			regenerate()
		}
	}
}

// watchTargets returns path plus the #line files, resolved relative to the
// directory of path. Files whose directory does not exist are skipped.
func watchTargets(path string, lineFiles []string) []string {
	base := filepath.Dir(path)
	targets := make([]string, 0, len(lineFiles)+1)
	targets = append(targets, path)
	for _, f := range lineFiles {
		resolved := util.ResolveRelative(base, f)
		if info, err := os.Stat(filepath.Dir(resolved)); err != nil || !info.IsDir() {
			slog.Debug("skipping #line file outside existing directories", "path", f)
			continue
		}
		targets = append(targets, resolved)
	}
	return util.UniqueStrings(targets)
}

// Package app ties the reflection engine to files, renderers, the output
// cache and watch mode.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"glslreflect/internal/core/config"
	"glslreflect/internal/core/errors"
	"glslreflect/internal/data/cache"
	"glslreflect/internal/engine/parser"
	"glslreflect/internal/engine/reflection"
	"glslreflect/internal/output"
	"glslreflect/internal/shared/observability"
	"glslreflect/internal/shared/util"

	"github.com/google/uuid"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Result is one completed reflection run.
type Result struct {
	RunID       string
	Path        string
	ContentHash string
	Format      string
	Output      []byte
	Stats       reflection.Stats
	// LineFiles are the paths named by #line directives, as written in the source.
	LineFiles []string
	CacheHit  bool
	Duration  time.Duration
	// Document is nil when the output was served from the cache.
	Document *reflection.Document
}

type App struct {
	Config *config.Config

	cache     *cache.Store
	ownsCache bool
	memory    *cache.Memory

	mu       sync.RWMutex
	lastRun  *Result
	lastErr  error
	lastTime time.Time
}

type Option func(*App)

// WithCache uses store instead of opening the configured cache path. The
// caller keeps ownership of store.
func WithCache(store *cache.Store) Option {
	return func(a *App) {
		a.cache = store
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &App{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if cfg.Cache.MemoryEntries > 0 {
		a.memory = cache.NewMemory(cfg.Cache.MemoryEntries)
	}

	if a.cache == nil && cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "open output cache"), errors.CtxPath, cfg.Cache.Path)
		}
		a.cache = store
		a.ownsCache = true
	}
	return a, nil
}

func (a *App) Close() error {
	if a.ownsCache {
		return a.cache.Close()
	}
	return nil
}

// ReflectFile reads path and renders its reflection document in the
// configured format. On error nothing is rendered.
func (a *App) ReflectFile(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	res, err := a.reflectFile(ctx, path)
	if err != nil {
		observability.RunsTotal.WithLabelValues(outcomeFailure).Inc()
		a.recordRun(&Result{RunID: uuid.NewString(), Path: path, Duration: time.Since(start)}, err)
		return nil, err
	}

	res.Duration = time.Since(start)
	observability.RunsTotal.WithLabelValues(outcomeSuccess).Inc()
	observability.StructsExtracted.Set(float64(res.Stats.Structs))
	observability.FunctionsExtracted.Set(float64(res.Stats.Functions))
	a.recordRun(res, nil)

	slog.Debug("reflection complete",
		"run_id", res.RunID,
		"path", path,
		"structs", res.Stats.Structs,
		"functions", res.Stats.Functions,
		"cache_hit", res.CacheHit,
		"duration", res.Duration,
	)
	return res, nil
}

func (a *App) reflectFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read shader source"), errors.CtxPath, path)
	}

	res := &Result{
		RunID:       uuid.NewString(),
		Path:        path,
		ContentHash: util.ContentHash(data),
		Format:      a.Config.Output.Format,
	}
	key := a.cacheKey(res.ContentHash)

	if entry, ok := a.lookupCache(key); ok {
		res.Output = entry.Output
		res.LineFiles = entry.LineFiles
		res.Stats = reflection.Stats{
			Structs:    entry.StructCount,
			Members:    entry.MemberCount,
			Functions:  entry.FunctionCount,
			Parameters: entry.ParameterCount,
			Files:      entry.FileCount,
		}
		res.CacheHit = true
		return res, nil
	}

	reflected, err := reflection.Reflect(ctx, string(data))
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	out, err := a.Render(reflected, res.Format)
	if err != nil {
		return nil, err
	}

	res.Output = out
	res.Document = reflected.Document
	res.Stats = reflected.Document.Stats()
	res.LineFiles = lineFiles(reflected.Tree)
	a.storeCache(key, res)
	return res, nil
}

// Render serializes a reflection result in the given format.
func (a *App) Render(res *reflection.Result, format string) ([]byte, error) {
	if res == nil || res.Document == nil {
		return nil, errors.New(errors.CodeInternal, "nothing to render")
	}

	var (
		text string
		err  error
	)
	switch format {
	case "", config.FormatJSON:
		return output.NewJSONGenerator(a.Config.Output.IndentWidth()).Generate(res.Document)
	case config.FormatTSV:
		text, err = output.NewTSVGenerator().Generate(res.Document)
	case config.FormatDOT:
		text, err = output.NewDOTGenerator(res.Tree).Generate()
	case config.FormatTree:
		text, err = output.NewTreeDumper(res.Tree).Generate()
	case config.FormatMermaid:
		text, err = output.NewMermaidGenerator(res.Document).Generate()
	default:
		return nil, errors.AddContext(errors.New(errors.CodeValidationError, "unsupported output format"), errors.CtxValue, format)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("render %s output", format))
	}
	return []byte(text), nil
}

// WriteResult writes the rendered output to output.path when configured,
// otherwise to w.
func (a *App) WriteResult(w io.Writer, res *Result) error {
	if res == nil {
		return errors.New(errors.CodeInternal, "no result to write")
	}
	if path := a.Config.Output.Path; path != "" {
		if err := util.WriteFileWithDirs(path, res.Output, 0o644); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write output file"), errors.CtxPath, path)
		}
		return nil
	}
	if _, err := w.Write(res.Output); err != nil {
		return errors.Wrap(err, errors.CodeIO, "write output")
	}
	return nil
}

// RunStatus describes the most recent run.
type RunStatus struct {
	Last *Result // most recent successful result
	Err  error   // error of the most recent run, nil on success
	At   time.Time
}

func (a *App) LastRun() RunStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return RunStatus{Last: a.lastRun, Err: a.lastErr, At: a.lastTime}
}

func (a *App) cacheKey(hash string) cache.Key {
	key := cache.Key{ContentHash: hash, Format: a.Config.Output.Format, Renderer: output.RendererVersion}
	if key.Format == "" || key.Format == config.FormatJSON {
		key.Format = config.FormatJSON
		key.Indent = a.Config.Output.IndentWidth()
	}
	return key
}

func (a *App) lookupCache(key cache.Key) (cache.Entry, bool) {
	if a.memory != nil {
		if entry, ok := a.memory.Get(key); ok {
			observability.CacheLookupsTotal.WithLabelValues("memory_hit").Inc()
			return entry, true
		}
	}
	if a.cache == nil {
		return cache.Entry{}, false
	}
	entry, ok, err := a.cache.Get(key)
	if err != nil {
		slog.Warn("cache lookup failed", "error", err)
		observability.CacheLookupsTotal.WithLabelValues("error").Inc()
		return cache.Entry{}, false
	}
	if !ok {
		observability.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return cache.Entry{}, false
	}
	observability.CacheLookupsTotal.WithLabelValues("hit").Inc()
	if a.memory != nil {
		a.memory.Put(entry)
	}
	return entry, true
}

func (a *App) storeCache(key cache.Key, res *Result) {
	entry := cache.Entry{
		Key:            key,
		Output:         res.Output,
		StructCount:    res.Stats.Structs,
		MemberCount:    res.Stats.Members,
		FunctionCount:  res.Stats.Functions,
		ParameterCount: res.Stats.Parameters,
		FileCount:      res.Stats.Files,
		LineFiles:      res.LineFiles,
	}
	if a.memory != nil {
		a.memory.Put(entry)
	}
	if a.cache == nil {
		return
	}
	if err := a.cache.Put(entry); err != nil {
		slog.Warn("cache store failed", "error", err)
	}
}

func (a *App) recordRun(res *Result, runErr error) {
	a.mu.Lock()
	a.lastErr = runErr
	a.lastTime = time.Now().UTC()
	if runErr == nil {
		a.lastRun = res
	}
	a.mu.Unlock()

	if a.cache == nil {
		return
	}
	outcome := outcomeSuccess
	if runErr != nil {
		outcome = outcomeFailure
	}
	if err := a.cache.RecordRun(cache.Run{
		ID:          res.RunID,
		SourcePath:  res.Path,
		ContentHash: res.ContentHash,
		Outcome:     outcome,
		CacheHit:    res.CacheHit,
		Duration:    res.Duration,
	}); err != nil {
		slog.Warn("failed to record run", "run_id", res.RunID, "error", err)
	}
}

// lineFiles lists #line paths in first-seen order.
func lineFiles(tree *parser.Tree) []string {
	if tree == nil || tree.Root == nil {
		return nil
	}
	var files []string
	for _, child := range tree.Root.Children {
		if child.Kind == parser.KindFilePath {
			files = append(files, tree.Text(child))
		}
	}
	return util.UniqueStrings(files)
}

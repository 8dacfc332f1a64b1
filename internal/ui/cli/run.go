// Package cli implements the glslreflect command line.
package cli

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"glslreflect/internal/core/app"
	"glslreflect/internal/core/config"
	"glslreflect/internal/core/errors"
	"glslreflect/internal/shared/observability"
)

// Run executes the command and returns the process exit code. The document
// goes to stdout; logs, usage and the summary go to stderr. Every failure
// exits 1 without writing to stdout.
func Run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if opts.version {
		fmt.Fprintf(stdout, "glslreflect v%s\n", versionString)
		return 0
	}

	configureLogging(stderr, opts.verbose)

	if len(opts.args) != 1 {
		err := errors.New(errors.CodeUsage, "exactly one input path is required")
		slog.Error("invalid arguments", "code", errors.CodeOf(err), "error", err)
		fmt.Fprintln(stderr, usageLine)
		return 1
	}
	inputPath := opts.args[0]

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("failed to load config", "code", errors.CodeOf(err), "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Error("failed to initialize tracing", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "code", errors.CodeOf(err), "error", err)
		return 1
	}
	defer a.Close()

	if opts.watch {
		return runWatch(ctx, a, inputPath, stdout)
	}

	res, err := a.ReflectFile(ctx, inputPath)
	if err != nil {
		slog.Error("reflection failed", "path", inputPath, "code", errors.CodeOf(err), "error", err)
		return 1
	}
	if err := a.WriteResult(stdout, res); err != nil {
		slog.Error("failed to write output", "code", errors.CodeOf(err), "error", err)
		return 1
	}
	if opts.summary {
		fmt.Fprint(stderr, renderSummary(res))
	}
	return 0
}

func runWatch(ctx context.Context, a *app.App, inputPath string, stdout io.Writer) int {
	if addr := a.Config.Observability.MetricsAddr; addr != "" {
		server := NewObservabilityServer(addr, app.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	if err := a.Watch(ctx, inputPath, stdout); err != nil {
		slog.Error("watch mode failed", "error", err)
		return 1
	}
	return 0
}

func loadConfig(opts cliOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "load config"), errors.CtxPath, opts.configPath)
		}
	} else {
		cfg, err = config.FromEnv()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, "load config from environment")
		}
	}

	if opts.format != "" {
		format := strings.ToLower(strings.TrimSpace(opts.format))
		if !slices.Contains(config.SupportedFormats, format) {
			err := errors.New(errors.CodeUsage, "unsupported -format; expected one of: "+strings.Join(config.SupportedFormats, ", "))
			return nil, errors.AddContext(err, errors.CtxValue, opts.format)
		}
		cfg.Output.Format = format
	}
	if opts.outputPath != "" {
		cfg.Output.Path = opts.outputPath
	}
	return cfg, nil
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

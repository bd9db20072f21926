package main

//
//  @title           bocspot API
//  @version         1.0
//  @description     Daily BOC EUR spot selling rate recorder.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/bocspot
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        quotes
//  @tag.description Recorded spot selling quotes
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g main.go -d ./,../internal/api -o ../docs --parseDependency --parseInternal

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/bocspot/config"
	_ "github.com/guttosm/bocspot/docs" // swagger docs
	"github.com/guttosm/bocspot/internal/app"
	"github.com/guttosm/bocspot/internal/domain/models"
	"github.com/guttosm/bocspot/internal/logger"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `usage: bocspot <command> [flags]

commands:
  fetch  [--file PATH] [--force]   fetch today's quote and append it to the log
  plot   [--file PATH] [--out PATH] render the log as a PNG chart
  serve  [--file PATH] [--port N]  expose the log over HTTP
`

// shutdownTimeout bounds graceful shutdown in serve mode.
const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches one CLI invocation and returns the process exit code.
// Status lines go to stdout; diagnostics and errors go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger.InitWithWriter(stderr)

	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return exitUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fail(stderr, err)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "fetch":
		return runFetch(ctx, cfg, rest, stdout, stderr)
	case "plot":
		return runPlot(ctx, cfg, rest, stdout, stderr)
	case "serve":
		return runServe(ctx, cfg, rest, stderr)
	case "-h", "--help", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}
}

func runFetch(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("fetch", stderr)
	file := fs.String("file", cfg.Storage.DataFile, "path of the tab-separated log")
	force := fs.Bool("force", false, "append even if the published date is already recorded")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	cfg.Storage.DataFile = *file

	comps, cleanup, err := app.Build(ctx, cfg)
	if err != nil {
		return fail(stderr, err)
	}
	defer cleanup()

	res, err := comps.Service.FetchAndRecord(ctx, *force)
	if err != nil {
		return fail(stderr, err)
	}

	rec := res.Record
	if res.Written {
		_, _ = fmt.Fprintf(stdout, "APPEND  written: %s  rate_per_1=%s\n", rec.SourceDate, rec.RatePer1.StringFixed(6))
	} else {
		_, _ = fmt.Fprintf(stdout, "SKIP  %s already recorded, not written again\n", rec.SourceDate)
	}
	_, _ = fmt.Fprintf(stdout, "INFO  local=%s  source=%s %s\n", rec.LocalTime.Format(models.LocalTimeLayout), rec.SourceDate, rec.SourceTime)
	return exitOK
}

func runPlot(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("plot", stderr)
	file := fs.String("file", cfg.Storage.DataFile, "path of the tab-separated log")
	out := fs.String("out", cfg.Plot.Out, "output PNG path")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	cfg.Storage.DataFile = *file
	// plotting never touches the mirror
	cfg.Postgres.Enabled = false

	comps, cleanup, err := app.Build(ctx, cfg)
	if err != nil {
		return fail(stderr, err)
	}
	defer cleanup()

	res, err := comps.Service.Plot(ctx, *out)
	if err != nil {
		return fail(stderr, err)
	}
	_, _ = fmt.Fprintf(stdout, "PLOT  %s  points=%d skipped=%d\n", res.Out, res.Points, res.Skipped)
	return exitOK
}

func runServe(ctx context.Context, cfg config.Config, args []string, stderr io.Writer) int {
	fs := newFlagSet("serve", stderr)
	file := fs.String("file", cfg.Storage.DataFile, "path of the tab-separated log")
	port := fs.String("port", cfg.Server.Port, "port to listen on")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	cfg.Storage.DataFile = *file

	router, cleanup, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		return fail(stderr, err)
	}
	defer cleanup()

	ln, err := net.Listen("tcp", ":"+*port)
	if err != nil {
		return fail(stderr, fmt.Errorf("listen on port %s: %w", *port, err))
	}

	server := &http.Server{
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.L().Info().Str("addr", ln.Addr().String()).Str("file", cfg.Storage.DataFile).Msg("server starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fail(stderr, err)
	}
	logger.L().Info().Msg("server exited gracefully")
	return exitOK
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parse returns ok=false with the exit code to use when parsing stops the command.
func parse(fs *flag.FlagSet, args []string) (int, bool) {
	err := fs.Parse(args)
	switch {
	case err == nil && fs.NArg() == 0:
		return exitOK, true
	case errors.Is(err, flag.ErrHelp):
		return exitOK, false
	case err == nil:
		_, _ = fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return exitUsage, false
	default:
		return exitUsage, false
	}
}

func fail(stderr io.Writer, err error) int {
	logger.L().Debug().Err(err).Msg("command failed")
	_, _ = fmt.Fprintf(stderr, "ERROR  %v\n", err)
	return exitError
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"wren/pkg/config"
)

const appName = "wren"

type envKey struct{}

// env keeps everything the commands share.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error
	start    time.Time
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	panic("env not found in context")
}

// initializeAppContext prepares configuration and logging after the command
// line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}
	e := envFromContext(ctx)

	var err error
	configFile := cmd.String("config")
	if e.cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		e.cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if e.log, e.closeLog, err = e.cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}

	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		e.log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	e := envFromContext(ctx)
	if e.log != nil {
		e.log.Debug("Program ended", zap.Duration("elapsed", time.Since(e.start)), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	if e.closeLog != nil {
		if er := e.closeLog(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close log: %w", er))
		}
	}
	return
}

var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if e := envFromContext(ctx); e.log != nil {
		e.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func viewportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Usage: "viewport width in CSS pixels (overrides configuration)"},
		&cli.IntFlag{Name: "height", Usage: "viewport height in CSS pixels (overrides configuration)"},
		&cli.FloatFlag{Name: "scale", Usage: "device pixels per CSS pixel (overrides configuration)"},
		&cli.StringSliceFlag{Name: "user-css", TakesFile: true, Usage: "apply user stylesheet `FILE`, may be repeated"},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.WithValue(context.Background(), envKey{}, &env{start: time.Now()}),
		os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "style and block layout engine for HTML documents",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything the engine does to the console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "layout",
				Usage:        "Lays out a document and prints its box tree",
				ArgsUsage:    "SOURCE",
				Flags:        viewportFlags(),
				OnUsageError: usageErrorHandler,
				Action:       runLayout,
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path or http(s) URL of the HTML document
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "render",
				Usage:        "Lays out a document and paints its boxes to a PNG file",
				ArgsUsage:    "SOURCE DESTINATION",
				Flags:        viewportFlags(),
				OnUsageError: usageErrorHandler,
				Action:       runRender,
			},
			{
				Name:      "compare",
				Usage:     "Renders a document and compares the result with a reference PNG",
				ArgsUsage: "SOURCE REFERENCE",
				Flags: append(viewportFlags(),
					&cli.IntFlag{Name: "tolerance", Value: 2, Usage: "largest per-channel difference (0-255) still treated as equal"},
					&cli.IntFlag{Name: "fuzz", Usage: "let pixels match within `RADIUS` pixels of their position"},
					&cli.StringFlag{Name: "diff", TakesFile: true, Usage: "write an image marking differing pixels to `FILE` when the images differ"},
				),
				OnUsageError: usageErrorHandler,
				Action:       runCompare,
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// os.Exit skips deferred calls, so it runs last
	defer func() {
		stop()
		if err != nil {
			// the log may not exist yet or may already be closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

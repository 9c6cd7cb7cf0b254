package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/source"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// app carries the dependencies shared by every subcommand.
type app struct {
	debug      bool
	configPath string

	// logToFile is false in tests so runs do not touch the user cache dir.
	logToFile bool
	logCloser io.Closer

	engine  *engine.Engine
	clock   engine.Clock
	fetcher source.CardFetcher
}

func newApp() *app {
	return &app{
		logToFile: true,
		engine:    engine.Default(),
		clock:     engine.RealClock{},
		fetcher:   source.NewHTTPFetcher(),
	}
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain(args []string) int {
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp()
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CommandName,
		Short:         config.CmdShortRoot,
		Version:       config.Version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logCloser = setupLogging(cmd.ErrOrStderr(), logLevel(cmd, a.debug), a.logToFile)
			logStartupInfo()
			return a.loadSettings()
		},
	}
	root.SetVersionTemplate(versionLine())

	// Declared here so cobra reuses it for --version instead of its default text.
	root.Flags().Bool(config.FlagVersion, false, config.FlagDescVersion)
	root.PersistentFlags().BoolVar(&a.debug, config.FlagDebug, false, config.FlagDescDebug)
	root.PersistentFlags().StringVar(&a.configPath, config.FlagConfig, "", config.FlagDescConfig)

	root.AddCommand(
		newInsightsCmd(a),
		newCalendarCmd(a),
		newContactsCmd(a),
		newServeCmd(a),
		newLoginCmd(a),
	)
	return root
}

// loadSettings replaces the default engine when --config is given.
func (a *app) loadSettings() error {
	if a.configPath == "" {
		return nil
	}
	settings, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	eng, err := engine.New(settings)
	if err != nil {
		return err
	}
	a.engine = eng
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close() // Best effort close
	}
}

// versionLine renders the build information printed by --version.
func versionLine() string {
	return fmt.Sprintf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// logLevel keeps one-shot commands quiet; the long-running server logs at Info.
func logLevel(cmd *cobra.Command, debugMode bool) slog.Level {
	switch {
	case debugMode:
		return slog.LevelDebug
	case cmd.Name() == config.CmdUseServe:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// setupLogging configures the default slog logger.
// Stdout is reserved for command output, so records go to stderr.
func setupLogging(stderr io.Writer, level slog.Level, toFile bool) io.Closer {
	writers := []io.Writer{stderr}
	var logFile *os.File

	if toFile {
		if logPath, err := getLogFilePath(); err == nil {
			// O_TRUNC resets logs on restart to prevent indefinite growth.
			f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
			if err == nil {
				writers = append(writers, f)
				logFile = f
			} else {
				fmt.Fprintf(stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
			}
		}
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}

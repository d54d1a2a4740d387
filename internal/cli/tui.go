package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtg01100/cookie-profiles/internal/logging"
	"github.com/dtg01100/cookie-profiles/internal/store"
	"github.com/dtg01100/cookie-profiles/internal/tracing"
	"github.com/dtg01100/cookie-profiles/internal/tui"
)

// runProgram runs the interactive editor.
// This function is injectable for testing purposes.
var runProgram = tui.Run

// runTUI opens the editor over the saved profiles. The editor owns the terminal,
// so it logs to the log file in the data directory.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !skipChecks {
		if err := preflightBeforeEditor(ctx, cmd.ErrOrStderr(), cfg); err != nil {
			return err
		}
	}

	level := logLevel
	if level == "" {
		level = cfg.Settings.LogLevel
	}
	logPath, err := cfg.LogFilePath()
	if err != nil {
		return fmt.Errorf("failed to resolve log file: %w", err)
	}
	fileLogger, closeLog, err := logging.NewFile(logPath, level)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	provider, err := tracing.Setup(ctx)
	if err != nil {
		fileLogger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			fileLogger.Warn("failed to flush traces", "error", err)
		}
	}()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	st := store.New(repo, fileLogger)
	fileLogger.Info("starting editor", "version", cliVersion, "database", repo.Path())

	err = runProgram(tui.Deps{
		Preferences: cfg,
		Store:       st,
		Loader:      st,
		Source:      loadSource(cfg, fileLogger),
		Logger:      fileLogger,
	})
	if err != nil {
		return err
	}

	if !cfg.CookiesEnabled() {
		return nil
	}
	path, err := cfg.CookiesFilePath()
	if err != nil {
		return fmt.Errorf("failed to resolve cookies file: %w", err)
	}
	n, err := writeJar(ctx, repo, path)
	if err != nil {
		fileLogger.Error("failed to write cookies jar", "path", path, "error", err)
		return err
	}
	fileLogger.Info("cookies jar refreshed", "path", path, "profiles", n)
	return nil
}

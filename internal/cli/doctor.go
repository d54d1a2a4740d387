package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dtg01100/cookie-profiles/internal/config"
	"github.com/dtg01100/cookie-profiles/internal/preflight"
	"github.com/dtg01100/cookie-profiles/internal/textutil"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the data directory, database, Firefox and clipboard",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

var skipChecks bool

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "skip pre-flight checks before opening the editor")
}

// runChecks runs the pre-flight checks against cfg.
// This function is injectable for testing purposes.
var runChecks = func(ctx context.Context, cfg *config.Config) ([]preflight.CheckResult, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	return preflight.Run(ctx, preflight.Environment{
		DataDir:            dataDir,
		DatabasePath:       dbPath,
		Browsers:           loadSource(cfg, logger).Profiles,
		ClipboardAvailable: textutil.ClipboardAvailable,
	}), nil
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results, err := runChecks(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, preflight.FormatResults(results))
	}

	if preflight.HasCriticalFailure(results) {
		return fmt.Errorf("critical pre-flight checks failed")
	}
	return nil
}

// preflightBeforeEditor reports failed checks to w and refuses to start on a critical failure.
func preflightBeforeEditor(ctx context.Context, w io.Writer, cfg *config.Config) error {
	results, err := runChecks(ctx, cfg)
	if err != nil {
		return err
	}
	if preflight.AllPassed(results) {
		return nil
	}

	fmt.Fprint(w, preflight.FormatResults(results))
	fmt.Fprintln(w)

	if preflight.HasCriticalFailure(results) {
		fmt.Fprintln(w, "Critical pre-flight check(s) failed. Cannot start the editor.")
		fmt.Fprintln(w, "You can skip these checks with --skip-checks (not recommended).")
		return fmt.Errorf("critical pre-flight checks failed")
	}

	fmt.Fprintln(w, "⚠ Some optional checks failed. The editor will start, but some")
	fmt.Fprintln(w, "  features may not work correctly.")
	return nil
}

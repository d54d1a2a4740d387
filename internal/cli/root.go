package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dtg01100/cookie-profiles/internal/config"
	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/generator"
	"github.com/dtg01100/cookie-profiles/internal/logging"
	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/storage"
	"github.com/dtg01100/cookie-profiles/internal/tui"
)

var (
	cfgFile    string
	outputJSON bool
	logLevel   string
	cliVersion = "dev"
)

// logger is the CLI logger; it writes to stderr and is rebuilt from --log-level before each command.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "cookie-profiles",
	Short: "Manage per-site cookie profiles for downloads",
	Long: `cookie-profiles keeps a list of cookie profiles, each holding Netscape-format
cookies for one site, and writes them to the cookies.txt jar a downloader reads.

Run without arguments to open the interactive editor.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogger,
	RunE:              runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $XDG_CONFIG_HOME/cookie-profiles)")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); the editor defaults to settings.log_level")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run runs the root command with args, printing any error to stderr.
func Run(args []string, stdout, stderr io.Writer) error {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err != nil {
		printError(stderr, err)
	}
	return err
}

// SetVersion sets the version reported by --version and the version command.
func SetVersion(v string) {
	cliVersion = v
	tui.Version = v
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersion)
		return err
	},
}

func setupLogger(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = "warn"
	}
	logger = logging.New(cmd.ErrOrStderr(), level, false)
	return nil
}

// loadConfig returns the application configuration, using the --config flag
// if provided. This function is injectable for testing purposes.
var loadConfig = func() (*config.Config, error) {
	if cfgFile != "" {
		if err := os.Setenv("XDG_CONFIG_HOME", cfgFile); err != nil {
			return nil, fmt.Errorf("failed to set config directory: %w", err)
		}
	}
	return config.Load()
}

// openRepository opens the profile database named by cfg.
// This function is injectable for testing purposes.
var openRepository = func(ctx context.Context, cfg *config.Config) (*storage.Repository, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	return storage.Open(ctx, path)
}

// loadSource returns the browser cookie source.
// This function is injectable for testing purposes.
var loadSource = func(cfg *config.Config, logger *log.Logger) cookieSource {
	return generator.NewFirefox(cfg.Settings.FirefoxProfile, logger)
}

// cookieSource lists browser profiles and reads their cookies.
type cookieSource interface {
	Profiles() ([]generator.Profile, error)
	Generate(ctx context.Context, profile generator.Profile, rawURL string) (string, error)
}

// withRepository loads the config, opens the database and runs fn.
func withRepository(ctx context.Context, fn func(cfg *config.Config, repo *storage.Repository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}()

	return fn(cfg, repo)
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Suggestion != "" {
		fmt.Fprintf(w, "Hint: %s\n", appErr.Suggestion)
	}
}

// findProfile searches for a profile by ID or URL. An ID match wins over a URL match.
// Returns nil if not found.
func findProfile(profiles []models.CookieProfile, idOrURL string) *models.CookieProfile {
	for i := range profiles {
		if profiles[i].ID == idOrURL {
			return &profiles[i]
		}
	}
	for i := range profiles {
		if profiles[i].URL == idOrURL {
			return &profiles[i]
		}
	}
	return nil
}

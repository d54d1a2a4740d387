package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dtg01100/cookie-profiles/internal/config"
	"github.com/dtg01100/cookie-profiles/internal/storage"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Use saved cookies for downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCookiesEnabled(cmd, true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop using saved cookies for downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCookiesEnabled(cmd, false)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether cookies are enabled and where files live",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var restoreConfigCmd = &cobra.Command{
	Use:   "restore-config",
	Short: "Restore config.yaml from the backup kept by the last save",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			if err := os.Setenv("XDG_CONFIG_HOME", cfgFile); err != nil {
				return fmt.Errorf("failed to set config directory: %w", err)
			}
		}
		if err := config.RestoreFromBackup(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration restored from backup")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(restoreConfigCmd)
}

func setCookiesEnabled(cmd *cobra.Command, enabled bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.SetCookiesEnabled(enabled); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cookies %s\n", state)
	return nil
}

// statusReport is the status command's JSON output.
type statusReport struct {
	Enabled     bool   `json:"enabled"`
	Profiles    int    `json:"profiles"`
	Database    string `json:"database"`
	CookiesFile string `json:"cookies_file"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	return withRepository(cmd.Context(), func(cfg *config.Config, repo *storage.Repository) error {
		profiles, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		jar, err := cfg.CookiesFilePath()
		if err != nil {
			return fmt.Errorf("failed to resolve cookies file: %w", err)
		}

		report := statusReport{
			Enabled:     cfg.CookiesEnabled(),
			Profiles:    len(profiles),
			Database:    repo.Path(),
			CookiesFile: jar,
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, report)
		}

		state := "disabled"
		if report.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(out, "Cookies:      %s\n", state)
		fmt.Fprintf(out, "Profiles:     %d\n", report.Profiles)
		fmt.Fprintf(out, "Database:     %s\n", report.Database)
		fmt.Fprintf(out, "Cookies file: %s\n", report.CookiesFile)
		return nil
	})
}

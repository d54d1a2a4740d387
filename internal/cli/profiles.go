package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dtg01100/cookie-profiles/internal/config"
	"github.com/dtg01100/cookie-profiles/internal/cookies"
	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/storage"
	"github.com/dtg01100/cookie-profiles/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cookie profiles",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a cookie profile",
	Long: `Save Netscape-format cookies for a URL.

If a profile for the URL already exists its content is replaced.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id-or-url>",
	Short: "Delete a cookie profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Write the cookies jar",
	Long: `Write every profile's cookies to a single Netscape cookies.txt file.

The default path is settings.cookies_file, or cookies.txt in the data directory.
Nothing is written while cookies are disabled unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Back up profiles to a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore profiles from a backup file",
	Long: `Restore profiles from a file written by backup.

Profiles whose URL is already saved are skipped. With --replace all saved
profiles are removed first.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

var (
	addURL         string
	addContent     string
	addFile        string
	exportForce    bool
	restoreReplace bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)

	addCmd.Flags().StringVar(&addURL, "url", "", "URL the cookies belong to (required)")
	addCmd.Flags().StringVar(&addContent, "content", "", "cookies in Netscape format")
	addCmd.Flags().StringVarP(&addFile, "file", "f", "", "read cookies from a file")
	addCmd.MarkFlagRequired("url")
	addCmd.MarkFlagsMutuallyExclusive("content", "file")
	addCmd.MarkFlagsOneRequired("content", "file")

	exportCmd.Flags().BoolVar(&exportForce, "force", false, "write the jar even when cookies are disabled")
	restoreCmd.Flags().BoolVar(&restoreReplace, "replace", false, "remove saved profiles before restoring")
}

func runList(cmd *cobra.Command, args []string) error {
	return withRepository(cmd.Context(), func(_ *config.Config, repo *storage.Repository) error {
		profiles, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, profiles)
		}

		if len(profiles) == 0 {
			fmt.Fprintln(out, "No cookie profiles saved.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tURL\tCOOKIES\tMODIFIED")
		for _, p := range profiles {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				p.ID, p.URL, p.CookieLines(), p.ModifiedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	content := addContent
	if addFile != "" {
		data, err := os.ReadFile(utils.ExpandHome(addFile))
		if err != nil {
			return fmt.Errorf("failed to read cookies file: %w", err)
		}
		content = string(data)
	}

	if _, err := cookies.Parse(content); err != nil {
		logger.Warn("cookies are not valid Netscape format", "error", err)
	}

	return withRepository(cmd.Context(), func(_ *config.Config, repo *storage.Repository) error {
		saved, replaced, err := saveProfile(cmd.Context(), repo, addURL, content)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputJSON {
			return printJSON(out, saved)
		}
		if replaced {
			fmt.Fprintf(out, "Profile for '%s' updated (ID: %s)\n", saved.URL, saved.ID)
		} else {
			fmt.Fprintf(out, "Profile for '%s' saved (ID: %s)\n", saved.URL, saved.ID)
		}
		return nil
	})
}

// saveProfile replaces the content of the first profile saved for url, or adds a new one.
func saveProfile(ctx context.Context, repo *storage.Repository, url, content string) (models.CookieProfile, bool, error) {
	existing, err := repo.FindByURL(ctx, url)
	if err != nil {
		return models.CookieProfile{}, false, err
	}

	p := models.CookieProfile{URL: url, Content: content}
	replaced := len(existing) > 0
	if replaced {
		p.ID = existing[0].ID
	}

	saved, err := repo.Upsert(ctx, p)
	if err != nil {
		return models.CookieProfile{}, false, err
	}
	logger.Debug("profile saved", "id", saved.ID, "url", saved.URL, "replaced", replaced)
	return saved, replaced, nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	idOrURL := args[0]

	return withRepository(cmd.Context(), func(_ *config.Config, repo *storage.Repository) error {
		profiles, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}

		p := findProfile(profiles, idOrURL)
		if p == nil {
			return apperrors.NewProfileNotFoundError(idOrURL)
		}

		if err := repo.Delete(cmd.Context(), p.ID); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile for '%s' deleted (ID: %s)\n", p.URL, p.ID)
		return nil
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	return withRepository(cmd.Context(), func(cfg *config.Config, repo *storage.Repository) error {
		if !cfg.CookiesEnabled() && !exportForce {
			return fmt.Errorf("cookies are disabled; run 'cookie-profiles enable' or pass --force")
		}

		path := ""
		if len(args) == 1 {
			path = utils.ExpandHome(args[0])
		} else {
			var err error
			if path, err = cfg.CookiesFilePath(); err != nil {
				return fmt.Errorf("failed to resolve cookies file: %w", err)
			}
		}

		n, err := writeJar(cmd.Context(), repo, path)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d profile(s) to %s\n", n, path)
		return nil
	})
}

// writeJar writes every saved profile to the cookies jar at path.
func writeJar(ctx context.Context, repo *storage.Repository, path string) (int, error) {
	profiles, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := cookies.WriteJar(path, profiles); err != nil {
		return 0, err
	}
	logger.Debug("cookies jar written", "path", path, "profiles", len(profiles))
	return len(profiles), nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	path := utils.ExpandHome(args[0])

	return withRepository(cmd.Context(), func(_ *config.Config, repo *storage.Repository) error {
		profiles, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}
		if err := config.ExportProfiles(path, profiles); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d profile(s) to %s\n", len(profiles), path)
		return nil
	})
}

func runRestore(cmd *cobra.Command, args []string) error {
	imported, err := config.ImportProfiles(utils.ExpandHome(args[0]))
	if err != nil {
		return err
	}

	mode := config.ImportModeMerge
	if restoreReplace {
		mode = config.ImportModeReplace
	}

	return withRepository(cmd.Context(), func(_ *config.Config, repo *storage.Repository) error {
		ctx := cmd.Context()

		existing, err := repo.List(ctx)
		if err != nil {
			return err
		}

		selected := config.SelectImports(existing, imported, mode)
		if mode == config.ImportModeReplace {
			if err := repo.DeleteAll(ctx); err != nil {
				return err
			}
		}

		for _, p := range selected {
			if _, err := repo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("failed to restore profile for '%s': %w", p.URL, err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored %d profile(s), skipped %d\n",
			len(selected), len(imported)-len(selected))
		return nil
	})
}

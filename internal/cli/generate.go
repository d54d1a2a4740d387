package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dtg01100/cookie-profiles/internal/config"
	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/generator"
	"github.com/dtg01100/cookie-profiles/internal/storage"
)

var browsersCmd = &cobra.Command{
	Use:   "browsers",
	Short: "List Firefox profiles cookies can be read from",
	Args:  cobra.NoArgs,
	RunE:  runBrowsers,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Read cookies for a URL from Firefox",
	Long: `Read the cookies Firefox holds for a URL and print them in Netscape format.

The default Firefox profile is used unless --browser-profile names another one.
With --save the cookies are stored as the profile for the URL instead.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	generateURL     string
	generateProfile string
	generateSave    bool
)

func init() {
	rootCmd.AddCommand(browsersCmd)
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateURL, "url", "", "URL to read cookies for (required)")
	generateCmd.Flags().StringVarP(&generateProfile, "browser-profile", "p", "", "Firefox profile name or directory")
	generateCmd.Flags().BoolVar(&generateSave, "save", false, "save the cookies as a profile")
	generateCmd.MarkFlagRequired("url")
}

func runBrowsers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	profiles, err := loadSource(cfg, logger).Profiles()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return printJSON(out, profiles)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEFAULT\tPATH")
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%v\t%s\n", p.Name, p.Default, p.Dir)
	}
	return w.Flush()
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generateProfile != "" {
		cfg.Settings.FirefoxProfile = generateProfile
	}

	source := loadSource(cfg, logger)
	profiles, err := source.Profiles()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return apperrors.NewNoBrowserProfileError("Firefox", nil)
	}
	// Profiles lists the default profile first.
	browser := profiles[0]

	content, err := source.Generate(cmd.Context(), browser, generateURL)
	if err != nil {
		return err
	}

	if !generateSave {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}

	return withRepository(cmd.Context(), func(_ *config.Config, repo *storage.Repository) error {
		saved, _, err := saveProfile(cmd.Context(), repo, generateURL, content)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved cookies from Firefox profile '%s' for '%s' (ID: %s)\n",
			browser.Name, saved.URL, saved.ID)
		return nil
	})
}

var _ cookieSource = (*generator.Firefox)(nil)

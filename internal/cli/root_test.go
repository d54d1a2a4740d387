package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dtg01100/cookie-profiles/internal/config"
	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/storage"
)

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	bufOut := &bytes.Buffer{}
	bufErr := &bytes.Buffer{}
	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// useTempDirs points the config and data directories at fresh temp dirs.
func useTempDirs(t *testing.T) (configDir, dataDir string) {
	t.Helper()
	configDir = t.TempDir()
	dataDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("XDG_DATA_HOME", dataDir)
	return configDir, dataDir
}

const sampleCookies = "# Netscape HTTP Cookie File\n.example.com\tTRUE\t/\tTRUE\t0\tsid\tabc\n"

func TestVersionFlag(t *testing.T) {
	SetVersion("1.2.3")
	out, _, err := runCmd(t, rootCmd, "--version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "1.2.3\n" {
		t.Fatalf("expected version output, got %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	out, _, err := runCmd(t, rootCmd, "version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "1.2.3\n" {
		t.Fatalf("expected version output, got %q", out)
	}
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := runCmd(t, rootCmd, "--no-such-flag")
	if err == nil {
		t.Fatalf("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "no-such-flag") {
		t.Fatalf("expected error to name the flag, got %v", err)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, fmt.Errorf("test error message"))
	if buf.String() != "Error: test error message\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	printError(&buf, apperrors.NewProfileNotFoundError("abc"))
	if !strings.Contains(buf.String(), "Hint: Run 'cookie-profiles list'") {
		t.Errorf("expected suggestion, got %q", buf.String())
	}
}

func TestRun(t *testing.T) {
	useTempDirs(t)
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	if err := Run([]string{"delete", "missing"}, &out, &errOut); err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(errOut.String(), "Error: ") {
		t.Errorf("expected error on stderr, got %q", errOut.String())
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"key": "value", "name": "test"}
	if err := printJSON(&buf, data); err != nil {
		t.Fatalf("printJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"key": "value"`) {
		t.Errorf("expected indented JSON, got %q", buf.String())
	}
}

func TestFindProfile(t *testing.T) {
	profiles := []models.CookieProfile{
		{ID: "abc12345", URL: "https://a.com"},
		{ID: "def45678", URL: "https://b.com"},
		{ID: "https://a.com", URL: "https://c.com"},
	}

	p := findProfile(profiles, "def45678")
	if p == nil || p.URL != "https://b.com" {
		t.Fatalf("expected to find profile by ID, got %+v", p)
	}

	p = findProfile(profiles, "https://b.com")
	if p == nil || p.ID != "def45678" {
		t.Fatalf("expected to find profile by URL, got %+v", p)
	}

	p = findProfile(profiles, "https://a.com")
	if p == nil || p.URL != "https://c.com" {
		t.Errorf("expected ID match to win over URL match, got %+v", p)
	}

	if p := findProfile(profiles, "nonexistent"); p != nil {
		t.Error("expected nil for nonexistent profile")
	}
}

func TestAddListDelete(t *testing.T) {
	useTempDirs(t)

	out, _, err := runCmd(t, rootCmd, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No cookie profiles saved.") {
		t.Errorf("expected empty list message, got %q", out)
	}

	out, _, err = runCmd(t, rootCmd, "add", "--url", "https://example.com", "--content", sampleCookies)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "saved") {
		t.Errorf("expected saved message, got %q", out)
	}

	out, _, err = runCmd(t, rootCmd, "list", "--json")
	if err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var profiles []models.CookieProfile
	if err := json.Unmarshal([]byte(out), &profiles); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	if len(profiles) != 1 || profiles[0].URL != "https://example.com" || profiles[0].Content != sampleCookies {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}

	out, _, err = runCmd(t, rootCmd, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, profiles[0].ID) || !strings.Contains(out, "https://example.com") {
		t.Errorf("expected table row, got %q", out)
	}

	if _, _, err := runCmd(t, rootCmd, "delete", "https://example.com"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	out, _, _ = runCmd(t, rootCmd, "list")
	if !strings.Contains(out, "No cookie profiles saved.") {
		t.Errorf("expected profile removed, got %q", out)
	}
}

func TestAddFromFileReplacesByURL(t *testing.T) {
	useTempDirs(t)

	if _, _, err := runCmd(t, rootCmd, "add", "--url", "https://example.com", "--content", "old"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	file := filepath.Join(t.TempDir(), "cookies.txt")
	if err := os.WriteFile(file, []byte(sampleCookies), 0600); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCmd(t, rootCmd, "add", "--url", "https://example.com", "--file", file)
	if err != nil {
		t.Fatalf("add --file failed: %v", err)
	}
	if !strings.Contains(out, "updated") {
		t.Errorf("expected updated message, got %q", out)
	}

	out, _, _ = runCmd(t, rootCmd, "list", "--json")
	var profiles []models.CookieProfile
	if err := json.Unmarshal([]byte(out), &profiles); err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 1 || profiles[0].Content != sampleCookies {
		t.Errorf("expected one replaced profile, got %+v", profiles)
	}
}

func TestAddRequiresContent(t *testing.T) {
	useTempDirs(t)

	if _, _, err := runCmd(t, rootCmd, "add", "--url", "https://example.com"); err == nil {
		t.Error("expected error without --content or --file")
	}
	if _, _, err := runCmd(t, rootCmd, "add", "--content", "x"); err == nil {
		t.Error("expected error without --url")
	}
	if _, _, err := runCmd(t, rootCmd, "add", "--url", "u", "--content", "x", "--file", "y"); err == nil {
		t.Error("expected error with both --content and --file")
	}
}

func TestDeleteNotFound(t *testing.T) {
	useTempDirs(t)

	_, _, err := runCmd(t, rootCmd, "delete", "nope")
	if !errors.Is(err, apperrors.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}

func TestEnableDisableStatus(t *testing.T) {
	_, dataDir := useTempDirs(t)

	out, _, err := runCmd(t, rootCmd, "enable")
	if err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if out != "Cookies enabled\n" {
		t.Errorf("unexpected output %q", out)
	}

	out, _, err = runCmd(t, rootCmd, "status", "--json")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("status output is not JSON: %v", err)
	}
	if !report.Enabled {
		t.Error("expected cookies enabled")
	}
	if want := filepath.Join(dataDir, "cookie-profiles", "profiles.db"); report.Database != want {
		t.Errorf("database = %q, want %q", report.Database, want)
	}

	if _, _, err := runCmd(t, rootCmd, "disable"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	out, _, _ = runCmd(t, rootCmd, "status")
	if !strings.Contains(out, "disabled") {
		t.Errorf("expected disabled status, got %q", out)
	}
}

func TestExport(t *testing.T) {
	_, dataDir := useTempDirs(t)
	if _, _, err := runCmd(t, rootCmd, "add", "--url", "https://example.com", "--content", sampleCookies); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCmd(t, rootCmd, "export"); err == nil {
		t.Fatal("expected export to refuse while cookies are disabled")
	}

	forced := filepath.Join(t.TempDir(), "jar.txt")
	if _, _, err := runCmd(t, rootCmd, "export", forced, "--force"); err != nil {
		t.Fatalf("export --force failed: %v", err)
	}
	data, err := os.ReadFile(forced)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "sid\tabc") {
		t.Errorf("jar missing cookie line: %q", data)
	}

	if _, _, err := runCmd(t, rootCmd, "enable"); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCmd(t, rootCmd, "export")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	jar := filepath.Join(dataDir, "cookie-profiles", "cookies.txt")
	if !strings.Contains(out, jar) {
		t.Errorf("expected default jar path in %q", out)
	}
	if _, err := os.Stat(jar); err != nil {
		t.Errorf("expected jar at %s: %v", jar, err)
	}
}

func TestBackupRestore(t *testing.T) {
	useTempDirs(t)
	for _, u := range []string{"https://a.com", "https://b.com"} {
		if _, _, err := runCmd(t, rootCmd, "add", "--url", u, "--content", sampleCookies); err != nil {
			t.Fatal(err)
		}
	}

	backup := filepath.Join(t.TempDir(), "profiles.yaml")
	if _, _, err := runCmd(t, rootCmd, "backup", backup); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	if _, _, err := runCmd(t, rootCmd, "delete", "https://a.com"); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCmd(t, rootCmd, "restore", backup)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out, "Restored 1 profile(s), skipped 1") {
		t.Errorf("unexpected restore output %q", out)
	}

	if _, _, err := runCmd(t, rootCmd, "add", "--url", "https://c.com", "--content", "x"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCmd(t, rootCmd, "restore", backup, "--replace"); err != nil {
		t.Fatalf("restore --replace failed: %v", err)
	}

	out, _, _ = runCmd(t, rootCmd, "list", "--json")
	var profiles []models.CookieProfile
	if err := json.Unmarshal([]byte(out), &profiles); err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 2 || profiles[0].URL != "https://a.com" || profiles[1].URL != "https://b.com" {
		t.Errorf("expected the backed up profiles only, got %+v", profiles)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	useTempDirs(t)

	if _, _, err := runCmd(t, rootCmd, "restore", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing backup")
	}
}

func TestConfigFlag(t *testing.T) {
	useTempDirs(t)
	custom := t.TempDir()

	if _, _, err := runCmd(t, rootCmd, "--config", custom, "enable"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(custom, "cookie-profiles", "config.yaml")); err != nil {
		t.Errorf("expected config written under --config dir: %v", err)
	}
}

func TestWithRepositoryConfigError(t *testing.T) {
	old := loadConfig
	defer func() { loadConfig = old }()
	loadConfig = func() (*config.Config, error) { return nil, errors.New("broken") }

	called := false
	err := withRepository(context.Background(), func(*config.Config, *storage.Repository) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Errorf("expected config error before opening the database, got %v", err)
	}
}

func TestRestoreConfig(t *testing.T) {
	useTempDirs(t)

	if _, _, err := runCmd(t, rootCmd, "restore-config"); err == nil {
		t.Error("expected error without a backup")
	}

	if _, _, err := runCmd(t, rootCmd, "enable"); err != nil {
		t.Fatalf("enable failed: %v", err)
	}
	if _, _, err := runCmd(t, rootCmd, "disable"); err != nil {
		t.Fatalf("disable failed: %v", err)
	}

	out, _, err := runCmd(t, rootCmd, "restore-config")
	if err != nil {
		t.Fatalf("restore-config failed: %v", err)
	}
	if !strings.Contains(out, "restored") {
		t.Errorf("unexpected output %q", out)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.CookiesEnabled() {
		t.Error("expected the enabled config from before disable")
	}
}

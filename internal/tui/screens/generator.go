package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtg01100/cookie-profiles/internal/cookies"
	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/generator"
	"github.com/dtg01100/cookie-profiles/internal/tui/components"
)

// CookieSource lists browser profiles and generates cookie text from them.
type CookieSource interface {
	Profiles() ([]generator.Profile, error)
	Generate(ctx context.Context, profile generator.Profile, rawURL string) (string, error)
}

// Messages

// GeneratorProfilesMsg carries the discovered browser profiles.
type GeneratorProfilesMsg struct {
	Profiles []generator.Profile
	Err      error
}

// CookiesGeneratedMsg carries cookie text generated for the draft URL.
type CookiesGeneratedMsg struct {
	Content string
	Err     error
}

// GeneratorScreen imports cookies for the draft URL from a browser profile
// into the open editor.
type GeneratorScreen struct {
	store  ProfileStore
	source CookieSource

	url      string
	profiles []generator.Profile
	selected string
	form     *huh.Form
	loading  bool
	err      error
	width    int
	height   int
}

// NewGeneratorScreen creates the generator screen.
func NewGeneratorScreen(st ProfileStore, source CookieSource) *GeneratorScreen {
	return &GeneratorScreen{
		store:  st,
		source: source,
	}
}

// SetSize sets the screen dimensions.
func (s *GeneratorScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Init reads the draft URL and starts profile discovery.
func (s *GeneratorScreen) Init() tea.Cmd {
	s.url = s.store.Snapshot().State.EditingCookieProfile.URL
	s.profiles = nil
	s.selected = ""
	s.form = nil
	s.err = nil
	s.loading = true
	return s.loadProfiles
}

func (s *GeneratorScreen) loadProfiles() tea.Msg {
	profiles, err := s.source.Profiles()
	return GeneratorProfilesMsg{Profiles: profiles, Err: err}
}

// Update handles screen updates.
func (s *GeneratorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, back
		}

	case GeneratorProfilesMsg:
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		if strings.TrimSpace(s.url) == "" {
			s.err = fmt.Errorf("enter a URL in the editor before generating cookies")
			return s, nil
		}
		s.profiles = msg.Profiles
		s.buildForm()
		return s, s.form.Init()

	case CookiesGeneratedMsg:
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.store.ReplaceContent(msg.Content)
		return s, back
	}

	if s.form == nil || s.loading {
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.loading = true
		return s, s.generate(s.selected)
	case huh.StateAborted:
		return s, back
	}

	return s, cmd
}

func back() tea.Msg {
	return NavigateMsg{Screen: RouteCookies}
}

func (s *GeneratorScreen) buildForm() {
	options := make([]huh.Option[string], 0, len(s.profiles))
	for _, p := range s.profiles {
		label := p.Name
		if p.Default {
			label += " (default)"
		}
		options = append(options, huh.NewOption(label, p.CookiesPath))
	}
	if len(s.profiles) > 0 {
		s.selected = s.profiles[0].CookiesPath
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Firefox profile").
				Description("Import cookies for "+s.url).
				Options(options...).
				Value(&s.selected),
		),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(false)
}

// generate reads cookies from the profile whose store is at cookiesPath.
func (s *GeneratorScreen) generate(cookiesPath string) tea.Cmd {
	var profile generator.Profile
	for _, p := range s.profiles {
		if p.CookiesPath == cookiesPath {
			profile = p
			break
		}
	}
	source := s.source
	url := s.url

	return func() tea.Msg {
		content, err := source.Generate(context.Background(), profile, url)
		if err != nil {
			return CookiesGeneratedMsg{Err: err}
		}
		if found, err := cookies.Parse(content); err == nil && len(found) == 0 {
			return CookiesGeneratedMsg{Err: apperrors.NewNoCookiesError(strings.TrimSpace(url))}
		}
		return CookiesGeneratedMsg{Content: content}
	}
}

// View renders the screen.
func (s *GeneratorScreen) View() string {
	var b strings.Builder

	title := components.Styles.Title.Render("Generate cookies")
	b.WriteString(lipgloss.NewStyle().
		Width(s.width).
		Align(lipgloss.Center).
		Render(title))
	b.WriteString("\n\n")

	switch {
	case s.err != nil:
		b.WriteString(components.Styles.Error.Render(apperrors.FormatErrorForTUI(s.err)))
	case s.loading:
		b.WriteString(components.RenderInfo("Reading Firefox profiles..."))
	case s.form != nil:
		b.WriteString(s.form.View())
	}

	b.WriteString("\n\n")
	b.WriteString(components.HelpBar(s.width, []components.HelpItem{
		{Key: "↑/↓", Desc: "choose"},
		{Key: "Enter", Desc: "import"},
		{Key: "Esc", Desc: "back to editor"},
	}))

	return b.String()
}

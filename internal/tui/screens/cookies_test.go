package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/internal/store"
)

// memRepo is an in-memory store.Repository.
type memRepo struct {
	profiles []models.CookieProfile
	next     int
}

func (r *memRepo) List(context.Context) ([]models.CookieProfile, error) {
	return append([]models.CookieProfile(nil), r.profiles...), nil
}

func (r *memRepo) Upsert(_ context.Context, p models.CookieProfile) (models.CookieProfile, error) {
	if p.ID == "" {
		r.next++
		p.ID = fmt.Sprintf("new%05d", r.next)
	}
	for i := range r.profiles {
		if r.profiles[i].ID == p.ID {
			r.profiles[i] = p
			return p, nil
		}
	}
	r.profiles = append(r.profiles, p)
	return p, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	for i := range r.profiles {
		if r.profiles[i].ID == id {
			r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

// recordingStore records the commands the screens issue.
type recordingStore struct {
	*store.Store
	mu    sync.Mutex
	calls []string
}

func (r *recordingStore) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingStore) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recordingStore) count(call string) int {
	n := 0
	for _, c := range r.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (r *recordingStore) ShowEditDialog(p *models.CookieProfile) {
	if p == nil {
		r.record("showEdit:new")
	} else {
		r.record("showEdit:" + p.URL)
	}
	r.Store.ShowEditDialog(p)
}

func (r *recordingStore) ShowDeleteDialog(p models.CookieProfile) {
	r.record("showDelete:" + p.URL)
	r.Store.ShowDeleteDialog(p)
}

func (r *recordingStore) HideDialog() {
	r.record("hide")
	r.Store.HideDialog()
}

func (r *recordingStore) UpdateURL(url string) {
	r.record("url:" + url)
	r.Store.UpdateURL(url)
}

func (r *recordingStore) UpdateContent(content string) {
	r.record("content:" + content)
	r.Store.UpdateContent(content)
}

func (r *recordingStore) HideDialogAt(revision int) bool {
	closed := r.Store.HideDialogAt(revision)
	if closed {
		r.record("hide")
	} else {
		r.record("hide:stale")
	}
	return closed
}

func (r *recordingStore) CommitDraft(ctx context.Context, draft models.CookieProfile) (models.CookieProfile, error) {
	r.record("commit:" + draft.URL)
	return r.Store.CommitDraft(ctx, draft)
}

func (r *recordingStore) DeleteProfile(ctx context.Context, target models.CookieProfile) error {
	r.record("delete:" + target.URL)
	return r.Store.DeleteProfile(ctx, target)
}

// countPrefix counts the calls starting with prefix.
func (r *recordingStore) countPrefix(prefix string) int {
	n := 0
	for _, c := range r.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakePrefs struct {
	mu      sync.Mutex
	enabled bool
	writes  []bool
	err     error
}

func (p *fakePrefs) CookiesEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *fakePrefs) SetCookiesEnabled(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.writes = append(p.writes, enabled)
	if p.err != nil {
		return p.err
	}
	p.enabled = enabled
	return nil
}

type cookiesFixture struct {
	screen    *CookiesScreen
	store     *recordingStore
	prefs     *fakePrefs
	feedback  int
	clipboard string
}

func newCookiesFixture(t *testing.T, enabled bool, profiles ...models.CookieProfile) *cookiesFixture {
	t.Helper()

	f := &cookiesFixture{
		store: &recordingStore{Store: store.New(&memRepo{profiles: profiles}, nil)},
		prefs: &fakePrefs{enabled: enabled},
	}
	if err := f.store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	f.screen = NewCookiesScreen(f.prefs, f.store,
		WithFeedback(func() { f.feedback++ }),
		WithClipboard(func() (string, error) { return f.clipboard, nil }),
	)
	f.screen.SetSize(100, 40)
	f.screen.Init()
	t.Cleanup(f.screen.Close)
	f.pump()
	return f
}

// pump delivers the pending store snapshot, if any, to the screen.
func (f *cookiesFixture) pump() {
	select {
	case snap, ok := <-f.screen.snapshots:
		if ok {
			f.screen.Update(SnapshotMsg{Snapshot: snap})
		}
	default:
	}
}

func (f *cookiesFixture) press(keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		_, last = f.screen.Update(keyMsg(k))
	}
	return last
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+v":
		return tea.KeyMsg{Type: tea.KeyCtrlV}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func threeProfiles() []models.CookieProfile {
	return []models.CookieProfile{
		{ID: "id-a", URL: "a.com", Content: "c1"},
		{ID: "id-b", URL: "b.com", Content: "c2"},
		{ID: "id-c", URL: "c.com", Content: "c3"},
	}
}

func TestCookiesScreen_Scenario(t *testing.T) {
	f := newCookiesFixture(t, false, models.CookieProfile{ID: "id-a", URL: "a.com", Content: "c1"})

	if f.screen.Enabled() {
		t.Error("switch should be off")
	}
	rows := f.screen.Rows()
	if len(rows) != 2 || rows[0] != "a.com" || rows[1] != "+ Generate new cookies" {
		t.Fatalf("Rows() = %q", rows)
	}
	view := f.screen.View()
	if !strings.Contains(view, "a.com") || !strings.Contains(view, "off") {
		t.Errorf("View() missing profile row or switch state:\n%s", view)
	}

	f.press("down", "enter")
	f.pump()

	if f.screen.dialog == nil {
		t.Fatal("edit dialog not open after selecting a row")
	}
	if got := f.screen.dialog.URL(); got != "a.com" {
		t.Errorf("dialog URL = %q, want %q", got, "a.com")
	}
	if got := f.screen.dialog.Content(); got != "c1" {
		t.Errorf("dialog content = %q, want %q", got, "c1")
	}
}

func TestCookiesScreen_RowsInOrder(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)

	want := []string{"a.com", "b.com", "c.com", "+ Generate new cookies"}
	got := f.screen.Rows()
	if len(got) != len(want) {
		t.Fatalf("Rows() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCookiesScreen_EmptyList(t *testing.T) {
	f := newCookiesFixture(t, true)

	rows := f.screen.Rows()
	if len(rows) != 1 {
		t.Fatalf("Rows() = %q, want only the add row", rows)
	}
	if !strings.Contains(f.screen.View(), "No cookie profiles saved yet") {
		t.Error("View() should show the empty state")
	}
}

func TestCookiesScreen_ToggleWritesOnce(t *testing.T) {
	f := newCookiesFixture(t, false)

	cmd := f.press("space")
	if !f.screen.Enabled() {
		t.Fatal("switch should be on after toggling")
	}
	if cmd == nil {
		t.Fatal("toggle should return a persistence command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("persistence command returned %T, want nil", msg)
	}
	if len(f.prefs.writes) != 1 || f.prefs.writes[0] != true {
		t.Fatalf("writes = %v, want [true]", f.prefs.writes)
	}

	f.press("enter")()
	if f.screen.Enabled() {
		t.Error("switch should be off after toggling again")
	}
	if len(f.prefs.writes) != 2 || f.prefs.writes[1] != false {
		t.Errorf("writes = %v, want [true false]", f.prefs.writes)
	}
}

func TestCookiesScreen_ToggleCommandsOutOfOrder(t *testing.T) {
	f := newCookiesFixture(t, false)

	on := f.press("space")
	off := f.press("space")
	off()
	on()

	if f.screen.Enabled() {
		t.Fatal("switch should be off after two toggles")
	}
	if f.prefs.CookiesEnabled() {
		t.Errorf("saved preference = true, want the latest value false (writes %v)", f.prefs.writes)
	}
	if len(f.prefs.writes) != 1 {
		t.Errorf("writes = %v, want the older write skipped", f.prefs.writes)
	}
}

func TestCookiesScreen_CloseSavesPendingToggle(t *testing.T) {
	f := newCookiesFixture(t, false)

	f.press("space")
	f.screen.Close()

	if !f.prefs.CookiesEnabled() {
		t.Error("Close() should save a toggle whose command never ran")
	}
	if len(f.prefs.writes) != 1 {
		t.Errorf("writes = %v, want one write", f.prefs.writes)
	}
}

func TestCookiesScreen_ToggleFailureKeepsLocalState(t *testing.T) {
	f := newCookiesFixture(t, false)
	f.prefs.err = errors.New("read-only config")

	f.press("space")()

	if !f.screen.Enabled() {
		t.Error("local switch state should not roll back on write failure")
	}
	if f.prefs.CookiesEnabled() {
		t.Error("preference should be unchanged after a failed write")
	}
}

func TestCookiesScreen_SpaceOnProfileRowDoesNotToggle(t *testing.T) {
	f := newCookiesFixture(t, false, threeProfiles()...)

	if cmd := f.press("down", "space"); cmd != nil {
		t.Error("space on a profile row should do nothing")
	}
	if f.screen.Enabled() || len(f.prefs.writes) != 0 {
		t.Error("switch changed from a profile row")
	}
}

func TestCookiesScreen_AddRowOpensBlankDraft(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)

	f.press("down", "down", "down", "down", "enter")
	f.pump()

	if got := f.store.Calls(); len(got) != 1 || got[0] != "showEdit:new" {
		t.Fatalf("calls = %q, want [showEdit:new]", got)
	}
	if f.screen.dialog == nil {
		t.Fatal("dialog not open")
	}
	if f.screen.dialog.URL() != "" || f.screen.dialog.Content() != "" {
		t.Errorf("blank draft expected, got url=%q content=%q", f.screen.dialog.URL(), f.screen.dialog.Content())
	}
}

func TestCookiesScreen_AddKey(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)

	f.press("a")
	f.pump()

	if f.screen.dialog == nil {
		t.Fatal("a should open the editor")
	}
	if !strings.Contains(f.screen.View(), "New cookie profile") {
		t.Error("dialog title should mark a new profile")
	}
}

func TestCookiesScreen_LongPressOpensDeleteOnly(t *testing.T) {
	for _, k := range []string{"d", "delete"} {
		t.Run(k, func(t *testing.T) {
			f := newCookiesFixture(t, true, threeProfiles()...)

			f.press("down", "down", k)
			f.pump()

			if f.feedback != 1 {
				t.Errorf("feedback called %d times, want 1", f.feedback)
			}
			calls := f.store.Calls()
			if len(calls) != 1 || calls[0] != "showDelete:b.com" {
				t.Errorf("calls = %q, want [showDelete:b.com]", calls)
			}
			if f.screen.dialog != nil {
				t.Error("edit dialog must not open on long-press")
			}
			if f.screen.delete == nil {
				t.Error("delete confirmation not shown")
			}
		})
	}
}

func TestCookiesScreen_LongPressOnSwitchIgnored(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)

	f.press("d")

	if f.feedback != 0 || len(f.store.Calls()) != 0 {
		t.Error("delete on the switch row should do nothing")
	}
}

func TestCookiesScreen_TypingUpdatesDraft(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()

	f.press("x", "y")

	want := []string{"showEdit:new", "url:x", "url:xy"}
	got := f.store.Calls()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	if url := f.store.Snapshot().State.EditingCookieProfile.URL; url != "xy" {
		t.Errorf("draft URL = %q, want %q", url, "xy")
	}
	if f.store.countPrefix("commit:") != 0 {
		t.Error("typing must not commit")
	}
}

func TestCookiesScreen_TypingContent(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()

	f.press("tab", "k", "v")

	if got := f.store.Snapshot().State.EditingCookieProfile.Content; got != "kv" {
		t.Errorf("draft content = %q, want %q", got, "kv")
	}
	if got := f.store.Snapshot().State.EditingCookieProfile.URL; got != "" {
		t.Errorf("draft URL = %q, want empty", got)
	}
}

func TestCookiesScreen_KeystrokeSnapshotsKeepDialog(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()
	dialog := f.screen.dialog

	f.press("x", "y")
	f.pump()

	if f.screen.dialog != dialog {
		t.Error("keystroke snapshots should not rebuild the dialog")
	}
	if f.screen.dialog.URL() != "xy" {
		t.Errorf("dialog URL = %q, want %q", f.screen.dialog.URL(), "xy")
	}
}

func TestCookiesScreen_DismissDiscards(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.press("down", "enter")
	f.pump()

	f.press("z", "esc")

	if f.screen.dialog != nil {
		t.Error("dialog should close on dismiss")
	}
	f.pump()
	if f.screen.dialog != nil {
		t.Error("dialog reopened after dismiss")
	}
	if f.store.countPrefix("commit:") != 0 {
		t.Error("dismiss must not commit")
	}
	if f.store.count("hide") != 1 {
		t.Errorf("hide called %d times, want 1", f.store.count("hide"))
	}
	if got := f.store.Snapshot().Profiles[0].URL; got != "a.com" {
		t.Errorf("profile changed to %q after dismiss", got)
	}
}

func TestCookiesScreen_ConfirmCommitsThenCloses(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.press("a")
	f.pump()
	f.press("n", "e", "w")

	cmd := f.press("ctrl+s")
	if f.screen.dialog != nil {
		t.Error("dialog should close on confirm")
	}

	// The store still shows the dialog until the command runs.
	f.pump()
	if f.screen.dialog != nil {
		t.Error("stale snapshot reopened the dialog")
	}

	if cmd == nil {
		t.Fatal("confirm should return a command")
	}
	msg, ok := cmd().(DraftCommittedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("confirm command returned %#v", msg)
	}

	calls := f.store.Calls()
	if f.store.countPrefix("commit:") != 1 {
		t.Fatalf("commit called %d times, want 1 (calls %q)", f.store.countPrefix("commit:"), calls)
	}
	if n := len(calls); calls[n-2] != "commit:new" || calls[n-1] != "hide" {
		t.Errorf("calls = %q, want commit followed by hide", calls)
	}

	f.pump()
	rows := f.screen.Rows()
	if len(rows) != 5 || rows[3] != "new" {
		t.Errorf("Rows() = %q, want new profile appended", rows)
	}
}

func TestCookiesScreen_ConfirmThenOpenAnother(t *testing.T) {
	f := newCookiesFixture(t, true, models.CookieProfile{ID: "id-a", URL: "a.com", Content: "c1"})
	f.press("a")
	f.pump()
	f.press("n", "e", "w")

	cmd := f.press("ctrl+s")
	// A second editor opens before the commit runs.
	f.press("a")
	cmd()
	f.pump()

	rows := f.screen.Rows()
	want := []string{"a.com", "new", "+ Generate new cookies"}
	if strings.Join(rows, "|") != strings.Join(want, "|") {
		t.Errorf("Rows() = %q, want %q", rows, want)
	}
	if f.store.count("commit:new") != 1 || f.store.countPrefix("commit:") != 1 {
		t.Errorf("calls = %q, want one commit of the confirmed draft", f.store.Calls())
	}
	if f.store.count("hide:stale") != 1 || f.store.count("hide") != 0 {
		t.Errorf("calls = %q, want the second editor left open", f.store.Calls())
	}
	if f.screen.dialog == nil {
		t.Fatal("second editor was closed by the earlier confirm")
	}
	if f.screen.dialog.URL() != "" {
		t.Errorf("second editor URL = %q, want blank draft", f.screen.dialog.URL())
	}
}

func TestCookiesScreen_ConfirmButton(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()

	// url -> content -> generate -> dismiss -> confirm
	cmd := f.press("tab", "tab", "tab", "tab", "enter")
	if cmd == nil {
		t.Fatal("confirm button should return a command")
	}
	cmd()
	if f.store.countPrefix("commit:") != 1 {
		t.Error("confirm button should commit once")
	}
}

func TestCookiesScreen_DismissButton(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()

	f.press("tab", "tab", "tab", "enter")

	if f.screen.dialog != nil {
		t.Error("dismiss button should close the dialog")
	}
	if f.store.countPrefix("commit:") != 0 {
		t.Error("dismiss button must not commit")
	}
}

func TestCookiesScreen_PasteURL(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.clipboard = "watch this https://www.example.com/v?id=1 later"
	f.press("a")
	f.pump()

	f.press("ctrl+v")

	if got := f.screen.dialog.URL(); got != "https://www.example.com/v?id=1" {
		t.Errorf("dialog URL = %q", got)
	}
	if got := f.store.Snapshot().State.EditingCookieProfile.URL; got != "https://www.example.com/v?id=1" {
		t.Errorf("draft URL = %q", got)
	}
}

func TestCookiesScreen_PasteWithoutURL(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.clipboard = "no link here"
	f.press("down", "enter")
	f.pump()

	f.press("ctrl+v")

	if got := f.screen.dialog.URL(); got != "a.com" {
		t.Errorf("dialog URL = %q, want unchanged", got)
	}
	if !strings.Contains(f.screen.View(), "No URL found in clipboard") {
		t.Error("View() should report the missing URL")
	}
}

func TestCookiesScreen_GenerateKeepsDialogOpen(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()

	cmd := f.press("ctrl+g")
	if cmd == nil {
		t.Fatal("generate should return a command")
	}
	nav, ok := cmd().(NavigateMsg)
	if !ok || nav.Screen != RouteGenerator {
		t.Errorf("generate command returned %#v", nav)
	}
	if f.screen.dialog == nil {
		t.Error("dialog should stay open while generating")
	}
	if len(f.store.Calls()) != 1 {
		t.Errorf("generate should not touch the store, calls = %q", f.store.Calls())
	}
}

func TestCookiesScreen_ReplacedContentReloadsDialog(t *testing.T) {
	f := newCookiesFixture(t, true)
	f.press("a")
	f.pump()
	f.press("x")

	f.store.ReplaceContent("# Netscape HTTP Cookie File\n")
	f.pump()

	if f.screen.dialog == nil {
		t.Fatal("dialog closed after content replacement")
	}
	if got := f.screen.dialog.Content(); got != "# Netscape HTTP Cookie File\n" {
		t.Errorf("dialog content = %q", got)
	}
	if got := f.screen.dialog.URL(); got != "x" {
		t.Errorf("dialog URL = %q, want typed value kept", got)
	}
}

func TestCookiesScreen_DeleteCancel(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.press("down", "d")
	f.pump()

	f.press("esc")

	if f.screen.delete != nil {
		t.Error("delete confirmation should close on esc")
	}
	if f.store.countPrefix("delete:") != 0 {
		t.Error("cancel must not delete")
	}
	if len(f.store.Snapshot().Profiles) != 3 {
		t.Error("profile removed on cancel")
	}
}

func TestCookiesScreen_DeleteConfirm(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.press("down", "down", "d")
	f.pump()

	cmd := f.screen.delete.Confirm()
	msg, ok := cmd().(ProfileDeletedMsg)
	if !ok || msg.Err != nil {
		t.Fatalf("delete command returned %#v", msg)
	}
	f.screen.Update(msg)
	f.pump()

	rows := f.screen.Rows()
	if len(rows) != 3 || rows[0] != "a.com" || rows[1] != "c.com" {
		t.Errorf("Rows() = %q, want b.com removed", rows)
	}
	calls := f.store.Calls()
	if n := len(calls); calls[n-2] != "delete:b.com" || calls[n-1] != "hide" {
		t.Errorf("calls = %q, want delete followed by hide", calls)
	}
}

func TestCookiesScreen_DeleteThenOpenEditor(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.press("down", "d")
	f.pump()

	cmd := f.screen.delete.Confirm()
	f.screen.Update(nil)
	if f.screen.delete != nil {
		t.Fatal("confirmation should close once answered")
	}
	// The editor opens on b.com before the delete runs.
	f.press("down", "enter")
	msg := cmd()
	f.screen.Update(msg)
	f.pump()

	rows := f.screen.Rows()
	if len(rows) != 3 || rows[0] != "b.com" || rows[1] != "c.com" {
		t.Errorf("Rows() = %q, want a.com removed", rows)
	}
	if f.store.count("delete:a.com") != 1 {
		t.Errorf("calls = %q, want a.com deleted", f.store.Calls())
	}
	if f.screen.dialog == nil || f.screen.dialog.URL() != "b.com" {
		t.Error("editor on b.com was closed by the earlier delete")
	}
}

func TestCookiesScreen_CursorClampedAfterDelete(t *testing.T) {
	f := newCookiesFixture(t, true, threeProfiles()...)
	f.press("down", "down", "down", "down")

	f.store.ShowDeleteDialog(threeProfiles()[2])
	f.pump()
	f.screen.delete.Confirm()()
	f.pump()

	if f.screen.menu.Cursor >= len(f.screen.menu.Items) {
		t.Errorf("cursor %d out of range %d", f.screen.menu.Cursor, len(f.screen.menu.Items))
	}
}

func TestCookiesScreen_Capturing(t *testing.T) {
	f := newCookiesFixture(t, true)
	if f.screen.Capturing() {
		t.Error("no dialog open")
	}
	f.press("a")
	f.pump()
	if !f.screen.Capturing() {
		t.Error("dialog open should capture keys")
	}
}

func TestCookiesScreen_CloseStopsSubscription(t *testing.T) {
	f := newCookiesFixture(t, true)
	ch := f.screen.snapshots

	f.screen.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Close")
	}
}

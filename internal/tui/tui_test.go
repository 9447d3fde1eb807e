package tui

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sadopc/timerboard/internal/board"
	"github.com/sadopc/timerboard/internal/clock"
	"github.com/sadopc/timerboard/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestLog() *logrus.Entry {
	l, _ := test.NewNullLogger()
	return logrus.NewEntry(l)
}

func newTestApp(t *testing.T) App {
	t.Helper()
	scr := NewScreen()
	b := board.New(board.Config{
		Storage:  newTestStore(t),
		Renderer: scr,
		Clock:    clock.NewFake(time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)),
		Log:      newTestLog(),
	})
	a := NewApp(b, scr, Options{ExportDir: t.TempDir(), Log: newTestLog()})
	return resize(a, 120, 40)
}

func resize(a App, w, h int) App {
	m, _ := a.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return m.(App)
}

func press(a App, k string) App {
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	m, _ := a.Update(msg)
	return m.(App)
}

func tick(a App, n int) App {
	for i := 0; i < n; i++ {
		m, _ := a.Update(tickMsg(time.Now()))
		a = m.(App)
	}
	return a
}

// addTimer goes through the form's submit path without driving huh.
func addTimer(t *testing.T, a App, name, preset, custom string) App {
	t.Helper()
	a = press(a, "n")
	if !a.form.formActive {
		t.Fatal("n should open the add form")
	}
	*a.form.name = name
	*a.form.preset = preset
	*a.form.custom = custom
	a.form, _ = a.form.submit()
	return a
}

// ============================================================
// Helpers
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 2 {
		t.Fatalf("expected 2 views, got %d", len(viewNames))
	}
	if viewNames[viewBoard] != "Board" || viewNames[viewOverview] != "Overview" {
		t.Fatalf("unexpected view names: %v", viewNames)
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Alice", "Alice"},
		{"\x1b[31mRed\x1b[0m", "Red"},
		{"bell\a here", "bell here"},
		{"tab\tname", "tabname"},
		{"<b>bold</b>", "<b>bold</b>"},
	}
	for _, tt := range tests {
		if got := cleanName(tt.in); got != tt.want {
			t.Errorf("cleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	got := truncate("a very long name indeed", 8)
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate should add ellipsis, got %q", got)
	}
}

func TestValidators(t *testing.T) {
	if validateName("   ") == nil {
		t.Fatal("blank name should fail")
	}
	if validateName("Bob") != nil {
		t.Fatal("Bob should pass")
	}
	for _, bad := range []string{"", "0", "1000", "abc", "-3"} {
		if validateMinutes(bad) == nil {
			t.Errorf("validateMinutes(%q) should fail", bad)
		}
	}
	for _, good := range []string{"1", " 45 ", "999"} {
		if validateMinutes(good) != nil {
			t.Errorf("validateMinutes(%q) should pass", good)
		}
	}
}

func TestScreenRender(t *testing.T) {
	scr := NewScreen()
	scr.Render(board.Snapshot{Timers: []board.Timer{{ID: 1, Name: "A"}}})
	if got := scr.current(); len(got.Timers) != 1 || got.Timers[0].Name != "A" {
		t.Fatalf("screen did not keep snapshot: %+v", got)
	}
}

// ============================================================
// Add form
// ============================================================

func TestFormDefaults(t *testing.T) {
	a := newTestApp(t)
	if a.form.defaultMinutes != board.DefaultMinutes {
		t.Fatalf("default minutes = %d", a.form.defaultMinutes)
	}
	a = press(a, "n")
	if *a.form.preset != "30" {
		t.Fatalf("preset should default to 30, got %q", *a.form.preset)
	}
	if *a.form.name != "" {
		t.Fatal("name should start empty")
	}
}

func TestFormEscCancels(t *testing.T) {
	a := newTestApp(t)
	a = press(a, "n")
	a = press(a, "esc")
	if a.form.formActive {
		t.Fatal("esc should close the form")
	}
	if a.board.Len() != 0 {
		t.Fatal("cancel must not add a timer")
	}
}

func TestAddPresetTimer(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "  Alice  ", "60", "")

	timers := a.board.Timers()
	if len(timers) != 1 {
		t.Fatalf("expected 1 timer, got %d", len(timers))
	}
	got := timers[0]
	if got.Name != "Alice" || got.InitialSeconds != 3600 {
		t.Fatalf("unexpected timer: %+v", got)
	}
	if got.Status != board.StatusRunning {
		t.Fatalf("new timer should run, got %s", got.Status)
	}
	if a.form.formActive {
		t.Fatal("form should close after submit")
	}
}

func TestAddCustomTimer(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Bob", board.CustomPreset, "5")
	if got := a.board.Timers()[0].InitialSeconds; got != 300 {
		t.Fatalf("custom 5 min = %d seconds, want 300", got)
	}

	// Invalid custom falls back to the default duration.
	a = addTimer(t, a, "Cy", board.CustomPreset, "5000")
	if got := a.board.Timers()[1].InitialSeconds; got != 1800 {
		t.Fatalf("fallback = %d seconds, want 1800", got)
	}
}

func TestAddBlankNameReportsError(t *testing.T) {
	a := newTestApp(t)
	a = press(a, "n")
	*a.form.name = "   "
	var cmd tea.Cmd
	a.form, cmd = a.form.submit()
	if a.board.Len() != 0 {
		t.Fatal("blank name must not add a timer")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

// ============================================================
// Board view
// ============================================================

func TestBoardEmptyState(t *testing.T) {
	a := newTestApp(t)
	if !strings.Contains(a.View(), "No active timers") {
		t.Fatal("empty board should say so")
	}
}

func TestBoardCardsShowTimers(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")
	a = addTimer(t, a, "Bob", "90", "")

	v := a.View()
	for _, want := range []string{"Alice", "Bob", "30:00", "01:30:00", "Running", "Started: "} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoardKeysActOnSelection(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")
	a = addTimer(t, a, "Bob", "30", "")
	ids := []int64{a.board.Timers()[0].ID, a.board.Timers()[1].ID}

	// First card is selected by default.
	a = press(a, " ")
	if got, _ := a.board.Get(ids[0]); got.Status != board.StatusPaused {
		t.Fatalf("space should pause Alice, got %s", got.Status)
	}
	if got, _ := a.board.Get(ids[1]); got.Status != board.StatusRunning {
		t.Fatal("Bob should be untouched")
	}

	a = press(a, "s")
	if got, _ := a.board.Get(ids[0]); got.Status != board.StatusRunning {
		t.Fatal("s should resume Alice")
	}

	a = press(a, "right")
	a = press(a, "r")
	if got, _ := a.board.Get(ids[1]); got.Status != board.StatusStopped {
		t.Fatalf("r should reset Bob, got %s", got.Status)
	}

	a = press(a, "d")
	if a.board.Len() != 1 {
		t.Fatal("d should delete Bob")
	}
	if _, ok := a.board.Get(ids[1]); ok {
		t.Fatal("Bob should be gone")
	}

	// Selection moved back to Alice.
	a = press(a, "c")
	if a.board.Len() != 0 {
		t.Fatal("c should confirm Alice")
	}
}

func TestBoardSelectionClamps(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")
	a = press(a, "left")
	a = press(a, "right")
	a = press(a, "right")
	timers := a.board.Timers()
	if got := a.dashboard.cursor(timers); got != 0 {
		t.Fatalf("cursor = %d, want 0", got)
	}
}

func TestTickAdvancesBoard(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")
	a = tick(a, 3)
	if got := a.board.Timers()[0].RemainingSeconds; got != 1797 {
		t.Fatalf("remaining = %d, want 1797", got)
	}
	if !strings.Contains(a.View(), "29:57") {
		t.Fatal("view should show the ticked time")
	}
}

// ============================================================
// Alert
// ============================================================

func TestAlertOverlayAndDismiss(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Eli", board.CustomPreset, "1")
	a = tick(a, 60)

	if _, ok := a.board.Alerting(); !ok {
		t.Fatal("timer should be alerting after a minute")
	}
	if !strings.Contains(a.View(), "Time is up for Eli!") {
		t.Fatal("alert overlay missing")
	}

	// Board keys are blocked while the alert is up.
	a = press(a, "d")
	if a.board.Len() != 1 {
		t.Fatal("delete must be ignored during an alert")
	}

	a = press(a, "esc")
	if _, ok := a.board.Alerting(); ok {
		t.Fatal("esc should dismiss the alert")
	}
	a = tick(a, 2)
	got := a.board.Timers()[0]
	if got.Status != board.StatusOvertime || got.OvertimeSeconds != 2 {
		t.Fatalf("overtime should keep counting: %+v", got)
	}
}

func TestAlertConfirmRemovesTimer(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Eli", board.CustomPreset, "1")
	a = addTimer(t, a, "Fay", "30", "")
	a = tick(a, 60)

	a = press(a, "c")
	if a.board.Len() != 1 || a.board.Timers()[0].Name != "Fay" {
		t.Fatalf("c should confirm the alerting timer, have %+v", a.board.Timers())
	}
}

func TestAlertSanitizesName(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "\x1b[2JEve", board.CustomPreset, "1")
	a = tick(a, 60)
	v := a.View()
	if strings.Contains(v, "\x1b[2J") {
		t.Fatal("escape sequence from name leaked into view")
	}
	if !strings.Contains(v, "Time is up for Eve!") {
		t.Fatal("sanitized name missing from alert")
	}
}

// ============================================================
// App
// ============================================================

func TestAppLoadingState(t *testing.T) {
	scr := NewScreen()
	b := board.New(board.Config{Renderer: scr, Log: newTestLog()})
	a := NewApp(b, scr, Options{})
	if a.View() != "Loading..." {
		t.Fatalf("expected Loading..., got %q", a.View())
	}
}

func TestAppViewSwitching(t *testing.T) {
	a := newTestApp(t)
	a = press(a, "2")
	if a.activeView != viewOverview {
		t.Fatal("2 should open overview")
	}
	a = press(a, "1")
	if a.activeView != viewBoard {
		t.Fatal("1 should open board")
	}
	a = press(a, "tab")
	if a.activeView != viewOverview {
		t.Fatal("tab should cycle to overview")
	}
	a = press(a, "tab")
	if a.activeView != viewBoard {
		t.Fatal("tab should wrap to board")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	a := newTestApp(t)
	header := a.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Errorf("header missing tab %q", name)
		}
	}
}

func TestAppFooterCounts(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")
	footer := a.renderFooter(a.screen.current())
	if !strings.Contains(footer, "1 running") {
		t.Fatalf("footer should count running timers: %q", footer)
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(statusMsg{text: "hello"})
	a = m.(App)
	if a.status != "hello" {
		t.Fatalf("status = %q", a.status)
	}
}

func TestAppHelpToggle(t *testing.T) {
	a := newTestApp(t)
	a = press(a, "?")
	if !a.showHelp || !a.help.ShowAll {
		t.Fatal("? should show full help")
	}
	a = press(a, "?")
	if a.showHelp {
		t.Fatal("? should toggle help off")
	}
}

func TestOverviewView(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")
	a = addTimer(t, a, "Bob", "60", "")
	a = press(a, "2")
	v := a.View()
	for _, want := range []string{"Overview", "2 timers", "Alice", "Bob", "minutes left"} {
		if !strings.Contains(v, want) {
			t.Errorf("overview missing %q", want)
		}
	}
}

func TestOverviewEmpty(t *testing.T) {
	a := newTestApp(t)
	a = press(a, "2")
	if !strings.Contains(a.View(), "Nothing to chart yet") {
		t.Fatal("empty overview should say so")
	}
}

// ============================================================
// Export
// ============================================================

func TestExportPicker(t *testing.T) {
	a := newTestApp(t)
	a = press(a, "e")
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(a.View(), "Export Format") {
		t.Fatal("picker not drawn")
	}
	a = press(a, "esc")
	if a.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestDoExportWritesFiles(t *testing.T) {
	a := newTestApp(t)
	a = addTimer(t, a, "Alice", "30", "")

	for format, ext := range map[int]string{0: ".csv", 1: ".json", 2: ".pdf"} {
		msg := a.doExport(format)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("format %d: expected exportDoneMsg, got %#v", format, msg)
		}
		if !strings.HasSuffix(done.path, ext) {
			t.Fatalf("path %q should end with %s", done.path, ext)
		}
		data, err := os.ReadFile(done.path)
		if err != nil {
			t.Fatal(err)
		}
		if ext == ".pdf" {
			if !strings.HasPrefix(string(data), "%PDF-") {
				t.Fatal("pdf export has no PDF header")
			}
			continue
		}
		if !strings.Contains(string(data), "Alice") {
			t.Fatalf("export %s missing timer", ext)
		}
	}
}

// ============================================================
// Keys
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should not be empty")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should not be empty")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("help group %d is empty", i)
		}
	}
}

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamilov2/presentation/pkg/charts"
	"github.com/kamilov2/presentation/pkg/config"
	"github.com/kamilov2/presentation/pkg/deck"
	"github.com/kamilov2/presentation/pkg/nav"
	"github.com/kamilov2/presentation/pkg/progress"
	"github.com/kamilov2/presentation/pkg/watcher"
)

func testDeck(t *testing.T, slides int) *deck.Deck {
	t.Helper()
	var b strings.Builder
	b.WriteString("---\ntitle: Test Deck\n---\n\n")
	for i := 1; i <= slides; i++ {
		if i > 1 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "# Slide %d\n\nBody %d.\n", i, i)
	}
	d, err := deck.Parse([]byte(b.String()))
	if err != nil {
		t.Fatalf("building test deck: %v", err)
	}
	return d
}

func testModel(t *testing.T, slides int, store progress.Store) Model {
	t.Helper()
	d := testDeck(t, slides)
	ctrl := nav.NewController(d.Len(), 0, nav.DefaultTiming())
	reg := charts.NewRegistry()
	charts.RegisterBuiltins(reg)

	m := NewModel(d, ctrl, reg, store, config.DefaultConfig(), TestTheme(), nil)
	m.clip = func(string) error { return nil }

	// Deliver an initial size so the model is ready.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestUpdate_TransitionSequence(t *testing.T) {
	store := progress.NewMemStore()
	m := testModel(t, 5, store)

	m, cmd := update(t, m, keyMsg("right"))
	if cmd == nil {
		t.Fatal("accepted navigation should schedule the commit tick")
	}
	if m.ctrl.State() != nav.StateTransitioning {
		t.Fatal("expected transitioning state after request")
	}
	// The outgoing slide stays on screen until commit.
	if m.shown != 0 {
		t.Errorf("expected shown=0 before commit, got %d", m.shown)
	}
	if !m.exiting {
		t.Error("outgoing slide should carry the exiting mark")
	}

	m, cmd = update(t, m, commitTickMsg{gen: m.transitionGen})
	if cmd == nil {
		t.Fatal("commit should schedule the settle tick")
	}
	if m.shown != 1 {
		t.Errorf("expected shown=1 after commit, got %d", m.shown)
	}
	if m.exiting {
		t.Error("exiting mark should clear at commit")
	}
	// Progress persists at the commit boundary.
	if got := progress.Load(store, 5); got != 1 {
		t.Errorf("expected persisted index 1, got %d", got)
	}
	// Input stays locked until settle.
	if m.ctrl.State() != nav.StateTransitioning {
		t.Error("commit should not release the input lock")
	}

	m, _ = update(t, m, settleTickMsg{gen: m.transitionGen})
	if m.ctrl.State() != nav.StateIdle {
		t.Error("settle should return the controller to idle")
	}
}

func TestUpdate_RapidKeysDuringTransitionAreDropped(t *testing.T) {
	m := testModel(t, 10, nil)

	m, _ = update(t, m, keyMsg("right"))
	for i := 0; i < 4; i++ {
		m, _ = update(t, m, keyMsg("right"))
	}

	m, _ = update(t, m, commitTickMsg{gen: m.transitionGen})
	m, _ = update(t, m, settleTickMsg{gen: m.transitionGen})

	if m.ctrl.Index() != 1 {
		t.Errorf("burst should advance exactly one slide, got index %d", m.ctrl.Index())
	}
}

func TestUpdate_StaleTransitionTicksIgnored(t *testing.T) {
	m := testModel(t, 5, nil)

	m, _ = update(t, m, keyMsg("right"))
	gen := m.transitionGen

	// A tick from a previous generation changes nothing.
	m, cmd := update(t, m, commitTickMsg{gen: gen - 1})
	if cmd != nil {
		t.Error("stale commit tick should be inert")
	}
	if m.shown != 0 {
		t.Errorf("stale tick advanced shown to %d", m.shown)
	}

	m, _ = update(t, m, commitTickMsg{gen: gen})
	if m.shown != 1 {
		t.Errorf("live tick should commit, shown=%d", m.shown)
	}
}

func TestUpdate_ResizeBurstRelayoutsOnce(t *testing.T) {
	m := testModel(t, 3, nil)
	before := m.relayouts

	// Five resizes in quick succession, each bumping the generation.
	var gens []int
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 100 + i, Height: 30})
		gens = append(gens, m.resizeGen)
	}

	// Every scheduled tick eventually fires; only the last generation does
	// the work.
	for _, gen := range gens {
		m, _ = update(t, m, resizeDebounceTickMsg{gen: gen})
	}

	if got := m.relayouts - before; got != 1 {
		t.Errorf("expected exactly 1 relayout for the burst, got %d", got)
	}
}

func TestUpdate_RelayoutRecomputesProfile(t *testing.T) {
	m := testModel(t, 3, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	m, _ = update(t, m, resizeDebounceTickMsg{gen: m.resizeGen})
	if m.profile != ProfileCompact {
		t.Errorf("expected compact profile at 60 cols, got %v", m.profile)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 150, Height: 40})
	m, _ = update(t, m, resizeDebounceTickMsg{gen: m.resizeGen})
	if m.profile != ProfileWide {
		t.Errorf("expected wide profile at 150 cols, got %v", m.profile)
	}
}

func TestUpdate_MouseSwipeNavigates(t *testing.T) {
	m := testModel(t, 5, nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	// Drag left: forward.
	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 50, Y: 10})
	now = now.Add(100 * time.Millisecond)
	m, cmd := update(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, X: 30, Y: 10})
	if cmd == nil {
		t.Fatal("left swipe should request a transition")
	}
	if m.ctrl.Index() != 1 {
		t.Errorf("expected index 1 after left swipe, got %d", m.ctrl.Index())
	}

	m, _ = update(t, m, commitTickMsg{gen: m.transitionGen})
	m, _ = update(t, m, settleTickMsg{gen: m.transitionGen})

	// Drag right: back.
	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 30, Y: 10})
	now = now.Add(100 * time.Millisecond)
	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, X: 50, Y: 10})
	if m.ctrl.Index() != 0 {
		t.Errorf("expected index 0 after right swipe, got %d", m.ctrl.Index())
	}
}

func TestUpdate_SlowDragIsNotASwipe(t *testing.T) {
	m := testModel(t, 5, nil)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 50, Y: 10})
	now = now.Add(800 * time.Millisecond)
	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, X: 30, Y: 10})

	if m.ctrl.Index() != 0 {
		t.Errorf("slow drag should not navigate, got index %d", m.ctrl.Index())
	}
}

func TestUpdate_DigitKeysJump(t *testing.T) {
	m := testModel(t, 5, nil)

	m, _ = update(t, m, keyMsg("3"))
	if m.ctrl.Index() != 2 {
		t.Errorf("key 3 should jump to index 2, got %d", m.ctrl.Index())
	}

	m, _ = update(t, m, commitTickMsg{gen: m.transitionGen})
	m, _ = update(t, m, settleTickMsg{gen: m.transitionGen})

	// Out-of-range digit is dropped.
	m, _ = update(t, m, keyMsg("9"))
	if m.ctrl.Index() != 2 {
		t.Errorf("key 9 on a 5-slide deck should be dropped, got %d", m.ctrl.Index())
	}
}

func TestView_ProgressBarAndCounter(t *testing.T) {
	m := testModel(t, 5, nil)
	m.ctrl.ShowImmediate(2)
	m.shown = 2

	out := m.View()
	if !strings.Contains(out, "3/5") {
		t.Error("view missing slide counter 3/5")
	}
	if !strings.Contains(out, "Slide 3") {
		t.Error("view missing current slide content")
	}
	if !strings.Contains(out, "Test Deck") {
		t.Error("view missing deck title header")
	}
	if !strings.Contains(out, "█") {
		t.Error("view missing progress bar fill")
	}
}

func TestView_HideProgressBar(t *testing.T) {
	m := testModel(t, 5, nil)
	m.cfg.UI.HideProgressBar = true

	if strings.Contains(m.View(), "░") {
		t.Error("progress bar rendered despite being hidden")
	}
}

func TestView_ShowsOutgoingSlideDuringTransition(t *testing.T) {
	m := testModel(t, 5, nil)

	m, _ = update(t, m, keyMsg("right"))
	out := m.View()
	if !strings.Contains(out, "Slide 1") {
		t.Error("pre-commit view should still show the outgoing slide")
	}
	// The counter tracks the controller, which already moved.
	if !strings.Contains(out, "2/5") {
		t.Error("counter should follow the committed index")
	}
}

func TestView_UnknownChartPlaceholder(t *testing.T) {
	d, err := deck.Parse([]byte("# Chart\n\n:chart no-such-chart\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctrl := nav.NewController(d.Len(), 0, nav.DefaultTiming())
	m := NewModel(d, ctrl, charts.NewRegistry(), nil, config.DefaultConfig(), TestTheme(), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	if !strings.Contains(m.View(), "unavailable") {
		t.Error("unknown chart id should render a placeholder")
	}
}

func TestView_RegisteredChartRenders(t *testing.T) {
	d, err := deck.Parse([]byte("# Chart\n\n:chart time-allocation\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctrl := nav.NewController(d.Len(), 0, nav.DefaultTiming())
	reg := charts.NewRegistry()
	charts.RegisterBuiltins(reg)
	m := NewModel(d, ctrl, reg, nil, config.DefaultConfig(), TestTheme(), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 110, Height: 40})
	m = next.(Model)

	out := m.View()
	if !strings.Contains(out, "Time Allocation") {
		t.Error("embedded chart title missing from view")
	}
	if strings.Contains(out, "unavailable") {
		t.Error("registered chart rendered as placeholder")
	}
}

func TestObserveChartContainer_ResizesOnlyOnBoxChange(t *testing.T) {
	d, err := deck.Parse([]byte("# Chart\n\n:chart team-radar\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctrl := nav.NewController(d.Len(), 0, nav.DefaultTiming())
	reg := charts.NewRegistry()
	charts.RegisterBuiltins(reg)
	m := NewModel(d, ctrl, reg, nil, config.DefaultConfig(), TestTheme(), nil)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	w, h := m.chartBox()
	if m.chartBoxes["team-radar"] != [2]int{w, h} {
		t.Fatal("container observer did not record the chart box")
	}

	// Same size again: the recorded box is unchanged and no resize happens.
	next, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	if m.chartBoxes["team-radar"] != [2]int{w, h} {
		t.Error("identical resize should not change the recorded box")
	}
}

func TestUpdate_QuitSavesProgress(t *testing.T) {
	store := progress.NewMemStore()
	m := testModel(t, 5, store)
	m.ctrl.ShowImmediate(3)

	_, cmd := update(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should return the quit command")
	}
	if got := progress.Load(store, 5); got != 3 {
		t.Errorf("expected persisted index 3 on quit, got %d", got)
	}
}

func TestUpdate_BlurSavesProgress(t *testing.T) {
	store := progress.NewMemStore()
	m := testModel(t, 5, store)
	m.ctrl.ShowImmediate(2)

	m, _ = update(t, m, tea.BlurMsg{})
	if got := progress.Load(store, 5); got != 2 {
		t.Errorf("expected persisted index 2 after focus loss, got %d", got)
	}
}

func TestUpdate_ReloadedDeckDrivesTeardownSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.md")
	if err := os.WriteFile(path, []byte("# One\n\nA.\n\n---\n\n# Two\n\nB.\n\n---\n\n# Three\n\nC.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := deck.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	store := progress.NewMemStore()
	ctrl := nav.NewController(d.Len(), 2, nav.DefaultTiming())
	w, err := watcher.New(path)
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(d, ctrl, charts.NewRegistry(), store, config.DefaultConfig(), TestTheme(), w)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)

	// The last in-session save wrote index 2.
	progress.Save(store, path, 2)

	// A copy taken before the reload, as a hook captured before Run would be.
	stale := m

	// The deck shrinks on disk to a single slide.
	if err := os.WriteFile(path, []byte("# Only\n\nLeft.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, FileChangedMsg{})

	if m.ctrl == stale.ctrl {
		t.Fatal("reload should install a fresh controller")
	}
	if m.Index() != 0 {
		t.Fatalf("expected index clamped to 0 after reload, got %d", m.Index())
	}

	// Saving from the current model overwrites the stale record with the
	// clamped position; the stale copy would have re-written index 2.
	m.SaveProgress()
	if got := progress.Load(store, 5); got != 0 {
		t.Errorf("expected persisted index 0 from reloaded state, got %d", got)
	}
	if stale.Index() != 2 {
		t.Errorf("stale copy should still hold the old controller, got %d", stale.Index())
	}
}

func TestUpdate_HelpToggle(t *testing.T) {
	m := testModel(t, 3, nil)

	m, _ = update(t, m, keyMsg("?"))
	if !m.showHelp {
		t.Error("? should enable full help")
	}
	m, _ = update(t, m, keyMsg("?"))
	if m.showHelp {
		t.Error("? again should disable full help")
	}
}

func TestProfileForWidth(t *testing.T) {
	cases := []struct {
		cols int
		want LayoutProfile
	}{
		{40, ProfileCompact},
		{80, ProfileCompact},
		{81, ProfileMedium},
		{120, ProfileMedium},
		{121, ProfileWide},
		{200, ProfileWide},
	}
	for _, tc := range cases {
		if got := profileForWidth(tc.cols); got != tc.want {
			t.Errorf("profileForWidth(%d) = %v, want %v", tc.cols, got, tc.want)
		}
	}
}

func TestProfileSettleDelay(t *testing.T) {
	base := 600 * time.Millisecond
	if got := ProfileCompact.settleDelay(base); got != 150*time.Millisecond {
		t.Errorf("compact settle delay = %v, want 150ms", got)
	}
	if got := ProfileWide.settleDelay(base); got != base {
		t.Errorf("wide settle delay = %v, want %v", got, base)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello w…"},
		{"hi", 0, ""},
		{"hello", 1, "…"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestClampLines(t *testing.T) {
	in := "a\nb\nc\nd"
	if got := clampLines(in, 10); got != in {
		t.Errorf("short content should pass through, got %q", got)
	}
	got := clampLines(in, 3)
	if strings.Count(got, "\n") != 2 {
		t.Errorf("expected 3 lines, got %q", got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("clamped content should end with a continuation hint, got %q", got)
	}
}

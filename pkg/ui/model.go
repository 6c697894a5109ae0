// Package ui provides the terminal user interface for present: an Elm-style
// Bubble Tea model that owns the slide deck, the navigation controller, the
// chart registry, and the progress store, and mediates every input path
// (keyboard, mouse drag, resize, deck-file change) between them.
package ui

import (
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kamilov2/presentation/pkg/charts"
	"github.com/kamilov2/presentation/pkg/config"
	"github.com/kamilov2/presentation/pkg/deck"
	"github.com/kamilov2/presentation/pkg/debug"
	"github.com/kamilov2/presentation/pkg/metrics"
	"github.com/kamilov2/presentation/pkg/nav"
	"github.com/kamilov2/presentation/pkg/progress"
	"github.com/kamilov2/presentation/pkg/watcher"
)

// LayoutProfile classifies the terminal width. Compact terminals get the
// cheap transition profile (a shortened settle delay) and tighter chart
// boxes.
type LayoutProfile int

const (
	ProfileWide LayoutProfile = iota
	ProfileMedium
	ProfileCompact
)

func (p LayoutProfile) String() string {
	switch p {
	case ProfileCompact:
		return "compact"
	case ProfileMedium:
		return "medium"
	default:
		return "wide"
	}
}

// profileForWidth maps terminal columns to a layout profile.
func profileForWidth(cols int) LayoutProfile {
	switch {
	case cols <= 80:
		return ProfileCompact
	case cols <= 120:
		return ProfileMedium
	default:
		return ProfileWide
	}
}

// settleDelay applies the profile's transition cost to the configured base.
func (p LayoutProfile) settleDelay(base time.Duration) time.Duration {
	if p == ProfileCompact {
		return base / 4
	}
	return base
}

// commitTickMsg marks the commit-visual-state phase boundary. The generation
// guards against stale ticks; transition timers are not cancelable once
// started, so an abandoned sequence is ignored by generation mismatch.
type commitTickMsg struct{ gen int }

// settleTickMsg marks the settle phase boundary.
type settleTickMsg struct{ gen int }

// resizeDebounceTickMsg is the trailing edge of the resize debounce window.
// Each resize bumps the generation; only the tick carrying the latest
// generation performs the relayout, so a burst collapses to one pass.
type resizeDebounceTickMsg struct{ gen int }

// FileChangedMsg is sent when the deck file changes on disk.
type FileChangedMsg struct{}

// clipboardResultMsg reports the outcome of a copy-to-clipboard command.
type clipboardResultMsg struct{ err error }

// WatchDeckCmd waits for the next deck-file change notification.
func WatchDeckCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// Model is the main Bubble Tea model for present.
type Model struct {
	deck  *deck.Deck
	ctrl  *nav.Controller
	reg   *charts.Registry
	store progress.Store
	cfg   config.Config

	theme   Theme
	keys    KeyMap
	help    help.Model
	md      *MarkdownRenderer
	gesture *nav.GestureRecognizer
	watcher *watcher.Watcher

	width   int
	height  int
	ready   bool
	profile LayoutProfile

	// shown is the slide currently rendered. It lags the controller's index
	// between Request and the commit-visual-state boundary, so the exiting
	// slide stays on screen while the lock is held.
	shown   int
	exiting bool

	// Generation counters invalidate stale phase/debounce ticks.
	transitionGen int
	resizeGen     int

	// relayouts counts debounced full chart-relayout passes.
	relayouts int
	// chartBoxes tracks the last box pushed to each chart by the container
	// observer, so only a real box change triggers a chart resize.
	chartBoxes map[string][2]int

	persist  bool
	showHelp bool
	status   string

	// now and clip are injection points for tests.
	now  func() time.Time
	clip func(string) error
}

// NewModel wires a model over its collaborators. store may be nil (no
// persistence) and w may be nil (no live reload).
func NewModel(d *deck.Deck, ctrl *nav.Controller, reg *charts.Registry, store progress.Store, cfg config.Config, theme Theme, w *watcher.Watcher) Model {
	g := nav.NewGestureRecognizer()
	g.MinDistance = cfg.Gesture.MinDistance
	g.MaxDuration = cfg.MaxGestureDuration()

	return Model{
		deck:       d,
		ctrl:       ctrl,
		reg:        reg,
		store:      store,
		cfg:        cfg,
		theme:      theme,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		md:         NewMarkdownRenderer(cfg.UI.Theme, 76),
		gesture:    g,
		watcher:    w,
		width:      80,
		height:     24,
		profile:    ProfileCompact,
		shown:      ctrl.Index(),
		chartBoxes: make(map[string][2]int),
		persist:    store != nil,
		now:        time.Now,
		clip:       clipboard.WriteAll,
	}
}

// WithInitialSize seeds the layout before the first WindowSizeMsg arrives,
// so the opening frame is not laid out for a guessed 80x24.
func (m Model) WithInitialSize(width, height int) Model {
	m.width = width
	m.height = height
	m.ready = true
	m.profile = profileForWidth(width)
	m.md.SetWidth(m.contentWidth())
	return m
}

// Init starts the deck watcher listener.
func (m Model) Init() tea.Cmd {
	return WatchDeckCmd(m.watcher)
}

// Update routes all events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.BlurMsg:
		// The terminal lost focus; flush the position while we still can.
		m.saveProgress()
		return m, nil

	case commitTickMsg:
		if msg.gen != m.transitionGen {
			return m, nil
		}
		return m.commitVisual()

	case settleTickMsg:
		if msg.gen != m.transitionGen {
			return m, nil
		}
		m.ctrl.Settle()
		return m, nil

	case resizeDebounceTickMsg:
		if msg.gen != m.resizeGen {
			return m, nil
		}
		return m.relayout()

	case FileChangedMsg:
		return m.reloadDeck()

	case clipboardResultMsg:
		if msg.err != nil {
			m.status = "copy failed"
			debug.Warn("clipboard: %v", msg.err)
		} else {
			m.status = "slide copied"
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveProgress()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Suspend):
		// Same best-effort flush as the hidden/backgrounded hook.
		m.saveProgress()
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		slide := m.deck.Slide(m.shown)
		return m, func() tea.Msg {
			return clipboardResultMsg{err: m.clip(slide.Content)}
		}

	case key.Matches(msg, m.keys.Next):
		return m.startTransition(m.ctrl.Next())

	case key.Matches(msg, m.keys.Previous):
		return m.startTransition(m.ctrl.Previous())

	case key.Matches(msg, m.keys.First):
		return m.startTransition(m.ctrl.GoTo(0))

	case key.Matches(msg, m.keys.Last):
		return m.startTransition(m.ctrl.GoTo(m.ctrl.Total() - 1))
	}

	// Digit keys jump straight to a slide.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		n, _ := strconv.Atoi(s)
		return m.startTransition(m.ctrl.GoTo(n - 1))
	}

	return m, nil
}

// handleMouse feeds press/release pairs to the swipe recognizer. Swipes are
// the terminal analog of touch: positive horizontal displacement navigates
// back, negative forward. The controller drops the request if a transition
// is already in flight.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.startTransition(m.ctrl.Previous())
	case tea.MouseButtonWheelDown:
		return m.startTransition(m.ctrl.Next())
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.gesture.Begin(msg.X, msg.Y, m.now())
		}
	case tea.MouseActionRelease:
		switch m.gesture.End(msg.X, msg.Y, m.now()) {
		case nav.SwipeRight:
			return m.startTransition(m.ctrl.Previous())
		case nav.SwipeLeft:
			return m.startTransition(m.ctrl.Next())
		}
	}
	return m, nil
}

// handleResize applies the new size immediately for layout, notifies the
// current slide's chart through the container observer (the direct, per-chart
// signal), and schedules the debounced full relayout as the fallback pass.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.md.SetWidth(m.contentWidth())
	m.observeChartContainer()

	m.resizeGen++
	gen := m.resizeGen
	return m, tea.Tick(m.cfg.ResizeDebounce(), func(time.Time) tea.Msg {
		return resizeDebounceTickMsg{gen: gen}
	})
}

// startTransition begins the two-phase transition sequence for an accepted
// request. Rejected requests (re-entrant, out of range, boundary no-ops)
// change nothing.
func (m Model) startTransition(tr nav.Transition, ok bool) (tea.Model, tea.Cmd) {
	if !ok {
		return m, nil
	}
	// The outgoing slide stays rendered, marked exiting, until commit.
	m.shown = tr.From
	m.exiting = true
	m.status = ""
	m.transitionGen++
	gen := m.transitionGen
	return m, tea.Tick(m.ctrl.Timing().CommitDelay, func(time.Time) tea.Msg {
		return commitTickMsg{gen: gen}
	})
}

// commitVisual is the commit-visual-state phase: the new slide becomes
// active, the counter and progress bar follow the controller, the position
// is persisted, and the settle timer starts.
func (m Model) commitVisual() (tea.Model, tea.Cmd) {
	defer metrics.Timer(metrics.TransitionCommit)()

	m.ctrl.CommitVisual()
	m.shown = m.ctrl.Index()
	m.exiting = false
	m.observeChartContainer()
	m.saveProgress()

	gen := m.transitionGen
	delay := m.profile.settleDelay(m.ctrl.Timing().SettleDelay)
	return m, tea.Tick(delay, func(time.Time) tea.Msg {
		return settleTickMsg{gen: gen}
	})
}

// relayout is the debounced window-resize pass: recompute the layout
// profile, then push the new box to every registered chart.
func (m Model) relayout() (tea.Model, tea.Cmd) {
	m.profile = profileForWidth(m.width)
	w, h := m.chartBox()
	m.reg.ResizeAll(w, h)
	for _, c := range m.reg.Charts() {
		m.chartBoxes[c.ID()] = [2]int{w, h}
	}
	m.relayouts++
	debug.Log("relayout pass %d (%s, %dx%d)", m.relayouts, m.profile, m.width, m.height)
	return m, nil
}

// observeChartContainer is the per-chart size observer: when the current
// slide embeds a chart and its container box changed, resize just that
// chart. This is the preferred, direct signal; the debounced window pass is
// the best-effort fallback.
func (m *Model) observeChartContainer() {
	slide := m.deck.Slide(m.shown)
	if slide.ChartID == "" {
		return
	}
	c, ok := m.reg.Get(slide.ChartID)
	if !ok {
		return
	}
	w, h := m.chartBox()
	box := [2]int{w, h}
	if m.chartBoxes[c.ID()] == box {
		return
	}
	c.Resize(w, h)
	m.chartBoxes[c.ID()] = box
}

// reloadDeck re-reads the deck file after an on-disk change, preserving the
// position by clamping the index into the new slide range.
func (m Model) reloadDeck() (tea.Model, tea.Cmd) {
	if m.watcher == nil {
		return m, nil
	}
	defer debug.LogEnterExit("reload deck")()
	d, err := deck.Load(m.deck.Path)
	if err != nil {
		debug.Warn("reloading deck: %v", err)
		m.status = "deck reload failed"
		return m, WatchDeckCmd(m.watcher)
	}

	index := m.ctrl.Index()
	if index >= d.Len() {
		index = d.Len() - 1
	}
	m.deck = d
	m.ctrl = nav.NewController(d.Len(), index, m.ctrl.Timing())
	m.shown = m.ctrl.Index()
	m.exiting = false
	m.status = "deck reloaded"
	return m, WatchDeckCmd(m.watcher)
}

// saveProgress is best-effort and fire-and-forget: storage failures are
// swallowed inside progress.Save.
func (m Model) saveProgress() {
	if !m.persist {
		return
	}
	progress.Save(m.store, m.deck.Path, m.ctrl.Index())
}

// SaveProgress persists the current position. Exposed for the suspend and
// teardown hooks in main.
func (m Model) SaveProgress() {
	m.saveProgress()
}

// Index returns the controller's current slide index.
func (m Model) Index() int {
	return m.ctrl.Index()
}

// contentWidth is the markdown wrap width for the current terminal size.
func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return w
}

// chartBox is the drawing box offered to an embedded chart.
func (m Model) chartBox() (int, int) {
	w := m.width - 6
	h := m.height - 12
	return w, h
}

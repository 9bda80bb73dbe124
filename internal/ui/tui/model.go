package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/stats"
)

type viewMode int

const (
	viewFeed viewMode = iota
	viewRate
)

type (
	engineEventMsg  event.Event
	channelDoneMsg  struct{}
	tickMsg         time.Time
	saveResultMsg   struct{ err error }
	revealResultMsg struct{ err error }
)

func readNextEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return engineEventMsg(ev)
		}
		return channelDoneMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// scrollKeys move the feed viewport. They never close the completion message.
var scrollKeys = map[string]func(*feedView){
	"j":    (*feedView).scrollDown,
	"down": (*feedView).scrollDown,
	"k":    (*feedView).scrollUp,
	"up":   (*feedView).scrollUp,
	"g":    (*feedView).scrollToTop,
	"G":    (*feedView).scrollToBottom,
}

// Model is the root Bubble Tea model. It shows the waiting message while a
// search runs and the completion message once it finishes; dismissing the
// completion message reveals the output directory when reveal is set.
type Model struct {
	events  <-chan event.Event
	stats   stats.ReadTicker
	workers int
	root    string
	output  string
	reveal  func() error // nil disables reveal on dismiss

	mode   viewMode
	feed   feedView
	rate   rateView
	width  int
	height int

	banner    string // lifecycle message
	statusMsg string
	runErr    error
	done      bool
	dismissed bool
	quitting  bool
	revealErr error

	lastSnap  stats.Snapshot
	lastSpeed float64
	lastETA   time.Duration

	save prompt
}

// NewModel creates a new TUI model.
func NewModel(events <-chan event.Event, collector stats.ReadTicker, workers int, root, output string, reveal func() error) Model {
	return Model{
		events:  events,
		stats:   collector,
		workers: workers,
		root:    root,
		output:  output,
		reveal:  reveal,
		feed:    newFeedView(root),
		rate:    newRateView(),
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(readNextEvent(m.events), tickCmd())
}

// sample refreshes the cached counters. A finished run has no ETA.
func (m *Model) sample() {
	m.lastSnap = m.stats.Snapshot()
	m.lastSpeed = m.stats.RollingSpeed(10)
	m.lastETA = 0
	if !m.done {
		m.lastETA = m.stats.ETA()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.save.open {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.done && !m.save.open && msg.Action == tea.MouseActionRelease {
			return m.dismiss()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case engineEventMsg:
		ev := event.Event(msg)
		m.observe(ev)
		return m, readNextEvent(m.events)

	case channelDoneMsg:
		m.done = true
		m.sample()

	case tickMsg:
		m.stats.Tick()
		m.sample()
		return m, tickCmd()

	case saveResultMsg:
		m.save.open = false
		m.statusMsg = "saved to " + m.save.value()
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("save failed: %v", msg.err)
		}

	case revealResultMsg:
		m.revealErr = msg.err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) observe(ev event.Event) {
	switch ev.Type {
	case event.RunStarted:
		m.banner = ev.Message
	case event.RunComplete:
		m.banner = ev.Message
		m.runErr = ev.Error
		m.done = true
		m.sample()
	}
	m.feed.handleEvent(ev)
	m.rate.handleEvent(ev)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if scroll, ok := scrollKeys[k]; ok {
		if m.mode == viewFeed {
			scroll(&m.feed)
		}
		return m, nil
	}

	switch k {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "r", "f", "e":
		m.mode = viewFeed
		if k == "r" {
			m.mode = viewRate
		}
		m.statusMsg = ""
		return m, nil
	case "s":
		if m.done {
			m.save.show(fmt.Sprintf("filescope-%s.log", time.Now().Format("2006-01-02-150405")))
			m.statusMsg = ""
		}
		return m, nil
	}

	// Once finished any other key closes the completion message. While
	// running only q leaves early.
	switch {
	case m.done:
		return m.dismiss()
	case k == "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.save.open = false
		m.statusMsg = ""
		return m, nil
	case tea.KeyEnter:
		return m, m.writeReport(m.save.value())
	}
	m.save.edit(msg)
	return m, nil
}

// dismiss closes the completion message. The reveal runs at most once.
func (m Model) dismiss() (tea.Model, tea.Cmd) {
	if m.dismissed {
		return m, nil
	}
	m.dismissed = true
	if m.reveal == nil {
		m.quitting = true
		return m, tea.Quit
	}
	reveal := m.reveal
	return m, func() tea.Msg { return revealResultMsg{err: reveal()} }
}

func (m Model) writeReport(path string) tea.Cmd {
	r := m.report()
	return func() tea.Msg { return saveResultMsg{err: r.save(path)} }
}

// Dismissed reports whether the completion message was closed.
func (m Model) Dismissed() bool { return m.dismissed }

// RevealErr returns the error from revealing the output directory, if any.
func (m Model) RevealErr() error { return m.revealErr }

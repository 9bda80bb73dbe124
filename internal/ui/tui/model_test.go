package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/filescope/internal/event"
	"github.com/bamsammich/filescope/internal/stats"
)

func newTestModel() (Model, *stats.Collector) {
	ch := make(chan event.Event, 10)
	c := stats.NewCollector()
	c.AddFilesMatched(100)
	c.AddBytesMatched(1024 * 1024 * 1024)
	return NewModel(ch, c, 8, "/media", "/out", nil), c
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel()
	assert.NotNil(t, m.Init())
}

func TestModel_KeyQ_QuitsWhileRunning(t *testing.T) {
	m, _ := newTestModel()
	model, cmd := update(t, m, key('q'))
	assert.True(t, model.quitting)
	assert.False(t, model.dismissed)
	assert.NotNil(t, cmd)
}

func TestModel_OtherKeysIgnoredWhileRunning(t *testing.T) {
	m, _ := newTestModel()
	model, cmd := update(t, m, key('x'))
	assert.False(t, model.quitting)
	assert.False(t, model.dismissed)
	assert.Nil(t, cmd)
}

func TestModel_KeyR_SwitchesToRate(t *testing.T) {
	m, _ := newTestModel()
	model, _ := update(t, m, key('r'))
	assert.Equal(t, viewRate, model.mode)
}

func TestModel_KeyF_SwitchesToFeed(t *testing.T) {
	m, _ := newTestModel()
	m.mode = viewRate
	model, _ := update(t, m, key('f'))
	assert.Equal(t, viewFeed, model.mode)
}

func TestModel_WindowResize(t *testing.T) {
	m, _ := newTestModel()
	model, _ := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, model.width)
	assert.Equal(t, 40, model.height)
}

func TestModel_EngineEvent(t *testing.T) {
	m, _ := newTestModel()
	model, cmd := update(t, m, engineEventMsg(event.Event{
		Type:     event.FileStarted,
		Path:     "/media/test.png",
		Size:     4096,
		WorkerID: 0,
	}))

	require.Len(t, model.feed.active, 1)
	assert.True(t, model.rate.busyWorkers[0])
	assert.NotNil(t, cmd)
}

func TestModel_LifecycleBanner(t *testing.T) {
	m, _ := newTestModel()

	model, _ := update(t, m, engineEventMsg(event.Event{Type: event.RunStarted, Message: "please wait"}))
	assert.Equal(t, "please wait", model.banner)
	assert.False(t, model.done)
	assert.Contains(t, model.View(), "please wait")

	model, _ = update(t, model, engineEventMsg(event.Event{Type: event.RunComplete, Message: "all done"}))
	assert.Equal(t, "all done", model.banner)
	assert.True(t, model.done)
	assert.Contains(t, model.View(), "all done")
}

func TestModel_RunCompleteError(t *testing.T) {
	m, _ := newTestModel()
	runErr := errors.New("create output directory: permission denied")
	model, _ := update(t, m, engineEventMsg(event.Event{Type: event.RunComplete, Message: "all done", Error: runErr}))
	assert.Equal(t, runErr, model.runErr)
	assert.Contains(t, model.View(), "permission denied")
}

func TestModel_ChannelDone_StaysOpen(t *testing.T) {
	m, _ := newTestModel()
	model, _ := update(t, m, channelDoneMsg{})
	assert.True(t, model.done)
	assert.False(t, model.quitting)
}

func TestModel_Tick(t *testing.T) {
	m, c := newTestModel()
	c.AddFilesCopied(5)
	c.AddBytesCopied(1024 * 1024)

	model, cmd := update(t, m, tickMsg(time.Now()))
	assert.Equal(t, int64(5), model.lastSnap.FilesCopied)
	assert.NotNil(t, cmd)
}

func TestModel_DismissWithoutReveal(t *testing.T) {
	m, _ := newTestModel()
	m.done = true

	model, cmd := update(t, m, key('x'))
	assert.True(t, model.dismissed)
	assert.True(t, model.quitting)
	assert.NotNil(t, cmd)
}

func TestModel_DismissRevealsOnce(t *testing.T) {
	calls := 0
	ch := make(chan event.Event)
	m := NewModel(ch, stats.NewCollector(), 2, "/media", "/out", func() error {
		calls++
		return nil
	})
	m.done = true

	model, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, model.dismissed)
	require.NotNil(t, cmd)

	// A second interaction before the reveal finishes does nothing.
	model, again := update(t, model, key('q'))
	assert.Nil(t, again)

	msg := cmd()
	res, ok := msg.(revealResultMsg)
	require.True(t, ok)
	assert.NoError(t, res.err)
	assert.Equal(t, 1, calls)

	model, quit := update(t, model, msg)
	assert.True(t, model.quitting)
	assert.NotNil(t, quit)
}

func TestModel_RevealErrorRecorded(t *testing.T) {
	ch := make(chan event.Event)
	m := NewModel(ch, stats.NewCollector(), 2, "/media", "/out", func() error {
		return errors.New("no file manager")
	})
	m.done = true

	model, cmd := update(t, m, key(' '))
	require.NotNil(t, cmd)
	model, _ = update(t, model, cmd())
	assert.EqualError(t, model.RevealErr(), "no file manager")
}

func TestModel_MouseClickDismisses(t *testing.T) {
	m, _ := newTestModel()

	model, _ := update(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, model.dismissed, "click before completion must not dismiss")

	model.done = true
	model, cmd := update(t, model, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.True(t, model.dismissed)
	assert.NotNil(t, cmd)
}

func TestModel_ViewFeed(t *testing.T) {
	m, _ := newTestModel()
	m.width = 80
	m.height = 30
	out := m.View()
	assert.Contains(t, out, "filescope")
	assert.Contains(t, out, "quit")
}

func TestModel_ViewRate(t *testing.T) {
	m, _ := newTestModel()
	m.mode = viewRate
	m.stats.Tick()
	m.lastSnap = m.stats.Snapshot()

	out := m.View()
	assert.Contains(t, out, "filescope")
	assert.Contains(t, out, "workers")
}

func TestModel_ViewQuitting(t *testing.T) {
	m, _ := newTestModel()
	m.quitting = true
	assert.Empty(t, m.View())
}

func TestModel_ScrollKeys(t *testing.T) {
	m, _ := newTestModel()
	for i := range 10 {
		m.feed.handleEvent(event.Event{
			Type: event.FileCopied,
			Path: "/media/" + string(rune('a'+i)) + ".png",
			Size: 100,
		})
	}

	model, _ := update(t, m, key('j'))
	assert.False(t, model.feed.follow)

	model, _ = update(t, model, key('G'))
	assert.True(t, model.feed.follow)

	model, _ = update(t, model, key('g'))
	assert.Equal(t, 0, model.feed.offset)
	assert.False(t, model.feed.follow)
}

func TestModel_ScrollKeysDoNotDismiss(t *testing.T) {
	m, _ := newTestModel()
	m.done = true
	model, _ := update(t, m, key('j'))
	assert.False(t, model.dismissed)
}

func TestModel_SaveModal_ActivatesOnlyWhenDone(t *testing.T) {
	m, _ := newTestModel()

	model, _ := update(t, m, key('s'))
	assert.False(t, model.save.open)

	model.done = true
	model, _ = update(t, model, key('s'))
	assert.True(t, model.save.open)
	assert.False(t, model.dismissed)
	assert.Contains(t, model.save.value(), "filescope-")
	assert.Contains(t, model.save.value(), ".log")
}

func TestModel_SaveModal_EscCancels(t *testing.T) {
	m, _ := newTestModel()
	m.done = true
	m.save.show("test.log")

	model, _ := update(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, model.save.open)
	assert.False(t, model.dismissed)
}

func TestModel_SaveModal_TextInput(t *testing.T) {
	m, _ := newTestModel()
	m.save.open = true

	model, _ := update(t, m, key('a'))
	model, _ = update(t, model, key('b'))
	model, _ = update(t, model, key('c'))
	assert.Equal(t, "abc", model.save.value())
	assert.Equal(t, 3, model.save.cursor)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ab", model.save.value())

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyLeft})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "a", model.save.value())
}

func TestModel_SaveModal_WritesFile(t *testing.T) {
	m, _ := newTestModel()
	m.done = true
	m.lastSnap = m.stats.Snapshot()

	m.feed.handleEvent(event.Event{Type: event.FileCopied, Path: "/media/pics/test.png", Dst: "/out/test.png", Size: 1024})
	m.feed.handleEvent(event.Event{Type: event.WalkError, Error: errors.New("open /media/locked: permission denied")})

	path := filepath.Join(t.TempDir(), "test-report.log")
	m.save.show(path)

	result, ok := m.writeReport(path)().(saveResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "filescope report")
	assert.Contains(t, string(content), "root:        /media")
	assert.Contains(t, string(content), "output:      /out")
	assert.Contains(t, string(content), "pics/test.png")
	assert.Contains(t, string(content), "/out/test.png")
	assert.Contains(t, string(content), "locked: permission denied")
	assert.Contains(t, string(content), "images       1")
	assert.Equal(t, "saved to "+path, func() string {
		model, _ := update(t, m, result)
		return model.statusMsg
	}())
}

func TestModel_FooterChangesWhenDone(t *testing.T) {
	m, _ := newTestModel()
	assert.Contains(t, m.renderFooter(), "quit")

	m.done = true
	footer := m.renderFooter()
	assert.Contains(t, footer, "save")
	assert.Contains(t, footer, "close")
}

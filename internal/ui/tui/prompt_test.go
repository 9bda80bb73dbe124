package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestPrompt_EditsRunes(t *testing.T) {
	var p prompt
	p.show("café.log")
	assert.True(t, p.open)
	assert.Equal(t, 8, p.cursor)

	for range 4 {
		p.edit(tea.KeyMsg{Type: tea.KeyLeft})
	}
	p.edit(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "caf.log", p.value())

	p.edit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("é-2")})
	assert.Equal(t, "café-2.log", p.value())
	assert.Equal(t, 6, p.cursor)
}

func TestPrompt_CursorBounds(t *testing.T) {
	var p prompt
	p.show("ab")

	p.edit(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, p.cursor)
	p.edit(tea.KeyMsg{Type: tea.KeyDelete})
	assert.Equal(t, "ab", p.value())

	p.edit(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, p.cursor)
	p.edit(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "ab", p.value())
	p.edit(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, " ab", p.value())

	p.edit(tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 3, p.cursor)
}

func TestPrompt_IgnoresOtherKeys(t *testing.T) {
	var p prompt
	p.show("x")
	assert.False(t, p.edit(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, "x", p.value())
	assert.Contains(t, p.render(), "Save to:")
}

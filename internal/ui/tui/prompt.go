package tui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// prompt is the one-line text input used to name the saved report. It edits
// runes so a cursor never lands inside a multi-byte character.
type prompt struct {
	open   bool
	text   []rune
	cursor int
}

func (p *prompt) show(initial string) {
	p.open = true
	p.text = []rune(initial)
	p.cursor = len(p.text)
}

func (p *prompt) value() string { return string(p.text) }

// edit applies one key to the input and reports whether it was consumed.
func (p *prompt) edit(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace:
		if p.cursor > 0 {
			p.text = append(p.text[:p.cursor-1], p.text[p.cursor:]...)
			p.cursor--
		}
	case tea.KeyDelete:
		if p.cursor < len(p.text) {
			p.text = append(p.text[:p.cursor], p.text[p.cursor+1:]...)
		}
	case tea.KeyLeft:
		p.cursor = max(p.cursor-1, 0)
	case tea.KeyRight:
		p.cursor = min(p.cursor+1, len(p.text))
	case tea.KeyHome, tea.KeyCtrlA:
		p.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		p.cursor = len(p.text)
	case tea.KeyRunes, tea.KeySpace:
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		tail := append(slices.Clone(runes), p.text[p.cursor:]...)
		p.text = append(p.text[:p.cursor], tail...)
		p.cursor += len(runes)
	default:
		return false
	}
	return true
}

func (p *prompt) render() string {
	before, after := string(p.text[:p.cursor]), string(p.text[p.cursor:])
	return "  " + st.prompt.Render("Save to: ") +
		st.input.Render(before) + st.input.Render("█") + st.input.Render(after)
}

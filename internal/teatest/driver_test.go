package teatest

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type echoModel struct {
	typed  strings.Builder
	width  int
	events int
}

type tickMsg struct{}

func (m *echoModel) Init() tea.Cmd {
	return func() tea.Msg { return tickMsg{} }
}

func (m *echoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.events++
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			return m, tea.Quit
		}
		m.typed.WriteString(msg.String())
	}
	return m, nil
}

func (m *echoModel) View() string { return m.typed.String() }

func TestDriver_InitResizeAndType(t *testing.T) {
	m := &echoModel{}
	d := New(t, m).DrainInit().Resize(100, 40)

	d.Type("abc")
	assert.Equal(t, "abc", d.View())
	assert.Equal(t, 100, m.width)
	// tick + resize + three runes
	assert.Equal(t, 5, m.events)
}

func TestDriver_QuitStopsDelivery(t *testing.T) {
	m := &echoModel{}
	d := New(t, m)

	d.Key(tea.KeyEnter)
	assert.True(t, d.Quitting)

	d.Type("x")
	assert.Empty(t, d.View())
}

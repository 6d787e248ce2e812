package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/roaster/internal/cli/formatter"
)

// browseModel pages a rendered report in a scrollable viewport.
type browseModel struct {
	title   string
	content string
	vp      viewport.Model
	ready   bool
	quit    key.Binding
}

func newBrowseModel(title, content string) browseModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = browseKeyMap()
	return browseModel{
		title:   title,
		content: content,
		vp:      vp,
		quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseKeyMap keeps the pager keys and drops the letter bindings that
// would shadow quit.
func browseKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Title and footer take one line each.
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-2, 1)
		if !m.ready {
			m.vp.SetContent(m.content)
			m.ready = true
		}
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	footer := formatter.Dim("q quit  pgup/pgdn scroll  ") + scrollIndicator(m.vp)
	return fmt.Sprintf("%s\n%s\n%s", formatter.Header(m.title), m.vp.View(), footer)
}

// scrollIndicator returns a dim scroll position for the footer.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return formatter.Dim("[TOP]")
	}
	if vp.AtBottom() {
		return formatter.Dim("[END]")
	}
	return formatter.Dim(fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100)))
}

// browseText shows content full screen until the user quits.
func browseText(app *App, title, content string) error {
	p := tea.NewProgram(newBrowseModel(title, content), tea.WithAltScreen(), tea.WithInput(app.In))
	_, err := p.Run()
	return err
}

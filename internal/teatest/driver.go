// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and returned commands are run inline, so a
// test sees the model state after every message without a tea.Program.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds command chains.
const MaxDrainDepth = 50

// cmdTimeout skips commands that wait on timers.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a command returns tea.QuitMsg.
	Quitting bool
}

// New wraps model. Init is not run until DrainInit.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{T: t, Model: model}
}

// DrainInit runs the model's Init command.
func (d *Driver) DrainInit() *Driver {
	d.T.Helper()
	d.drain(d.Model.Init(), 0)
	return d
}

// Resize sends a WindowSizeMsg.
func (d *Driver) Resize(w, h int) *Driver {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: w, Height: h})
	return d
}

// Send dispatches msg and drains the resulting commands. Messages after
// a quit are dropped.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	next, cmd := d.Model.Update(msg)
	d.Model = next
	d.drain(cmd, 0)
}

// Key sends a special key such as tea.KeyPgDown.
func (d *Driver) Key(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
	default:
		next, nextCmd := d.Model.Update(msg)
		d.Model = next
		d.drain(nextCmd, depth+1)
	}
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

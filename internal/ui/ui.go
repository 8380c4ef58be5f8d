// package ui implements the interactive review screen for a transform batch.
//
// Rows are shown as a list with their live transform state; selected rows can
// be stopped or restarted while the rest of the batch keeps running.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"favtrax/internal/models"
	"favtrax/internal/transform"
)

// Model represents the review TUI state.
type Model struct {
	manager *transform.Manager
	updates <-chan StateMsg

	rows   []models.Row
	states []transform.State

	rowList list.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
	err     error
}

// keyMap defines the key bindings for the review screen.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	stop    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop row"),
		),
		restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart row"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.stop, k.restart, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.stop, k.restart, k.quit},
	}
}

// rowItem wraps one row and its current state to implement list.Item.
type rowItem struct {
	id    int
	row   models.Row
	state transform.State
}

func (i rowItem) FilterValue() string {
	if i.row.Kind == models.RowByID {
		return i.row.ID
	}
	return i.row.Title
}

func (i rowItem) Title() string {
	if i.row.Kind == models.RowByID {
		return fmt.Sprintf("#%d %s", i.id, i.row.ID)
	}
	return fmt.Sprintf("#%d %s - %s", i.id, i.row.Title, i.row.AuthorName)
}

func (i rowItem) Description() string {
	return describeState(i.state)
}

// NewModel creates a review model over a loaded batch.
//
// updates must carry every state change the manager emits; the model owns no
// polling loop.
func NewModel(manager *transform.Manager, rows []models.Row, updates <-chan StateMsg) *Model {
	states := make([]transform.State, len(rows))
	items := make([]list.Item, len(rows))
	for i, row := range rows {
		states[i] = transform.Idle()
		items[i] = rowItem{id: i, row: row, state: states[i]}
	}

	rowList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	rowList.Title = "Imported rows"
	rowList.Styles.Title = styles.title
	rowList.SetShowHelp(false)

	return &Model{
		manager: manager,
		updates: updates,
		rows:    rows,
		states:  states,
		rowList: rowList,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts listening for transform state changes.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rowList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			m.manager.Release()
			return m, tea.Quit
		case key.Matches(msg, m.keys.stop):
			if i, ok := m.selected(); ok {
				m.manager.Stop(i)
			}
			return m, nil
		case key.Matches(msg, m.keys.restart):
			if i, ok := m.selected(); ok && m.manager.CanStart(i) {
				m.manager.Start(i)
			}
			return m, nil
		}

	case StateMsg:
		if msg.ID >= 0 && msg.ID < len(m.states) {
			m.states[msg.ID] = msg.State
			m.rowList.SetItem(msg.ID, rowItem{id: msg.ID, row: m.rows[msg.ID], state: msg.State})
		}
		return m, m.waitForUpdate()
	}

	var cmd tea.Cmd
	m.rowList, cmd = m.rowList.Update(msg)
	return m, cmd
}

// View renders the row list, batch summary and help line.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("error: %v", m.err)) + "\n"
	}

	return m.rowList.View() + "\n" + m.summary() + "\n" + m.help.View(m.keys)
}

func (m *Model) selected() (int, bool) {
	item, ok := m.rowList.SelectedItem().(rowItem)
	if !ok {
		return 0, false
	}
	return item.id, true
}

func (m *Model) summary() string {
	counts := make(map[transform.Kind]int)
	for _, st := range m.states {
		counts[st.Kind]++
	}

	return fmt.Sprintf(
		"%s %d  %s %d  %s %d  pending %d",
		styles.ok.Render("ok"), counts[transform.KindSuccess],
		styles.err.Render("failed"), counts[transform.KindFailed],
		styles.warn.Render("cancelled"), counts[transform.KindReleased]+counts[transform.KindStopped],
		counts[transform.KindQueueing]+counts[transform.KindPending],
	)
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.updates
		if !ok {
			return nil
		}
		return msg
	}
}

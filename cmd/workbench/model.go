package main

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/quantdesk/quantdesk/internal/types"
	"github.com/quantdesk/quantdesk/internal/workspace"
)

// Input modes for the single-line prompt overlay.
const (
	inputNone = iota
	inputCreate
	inputRename
	inputSymbol
)

// strategyItem adapts a registry entry for the sidebar list.
type strategyItem struct {
	meta     types.StrategyMeta
	starred  bool
	selected bool
}

func (i strategyItem) Title() string {
	title := string(i.meta.Path)
	if i.starred {
		title = "★ " + title
	}

	return title
}

func (i strategyItem) Description() string {
	desc := i.meta.UpdatedAt.Format("2006-01-02 15:04")
	if i.selected {
		desc += " (active)"
	}

	return desc
}

func (i strategyItem) FilterValue() string {
	return string(i.meta.Path)
}

// Model is the main Bubble Tea model for the workbench.
type Model struct {
	ws *workspace.Controller

	strategyList list.Model
	editor       textarea.Model
	prompt       textinput.Model
	equityTable  table.Model

	inputMode int
	run       workspace.RunSettings
	status    string
	errText   string
	width     int
	height    int

	program *tea.Program
}

// NewModel creates the workbench model around a workspace controller.
func NewModel(ws *workspace.Controller) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 32, 20)
	l.Title = "Strategies"
	l.SetShowHelp(false)

	editor := textarea.New()
	editor.Placeholder = "strategy source"
	editor.CharLimit = 0

	prompt := textinput.New()
	prompt.CharLimit = 128

	equity := table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: 20},
			{Title: "Equity", Width: 12},
		}),
		table.WithHeight(10),
	)

	return Model{
		ws:           ws,
		strategyList: l,
		editor:       editor,
		prompt:       prompt,
		equityTable:  equity,
		run:          workspace.DefaultRunSettings(),
	}
}

// SetProgram sets the tea.Program reference so the controller's change hook
// can push refresh messages from background goroutines.
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.ws.SetOnChange(func() {
		p.Send(workspaceChangedMsg{})
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.reloadRegistry()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.strategyList.SetSize(32, msg.Height-6)
		m.editor.SetWidth(msg.Width - 36)
		m.editor.SetHeight(msg.Height - 8)
		m.equityTable.SetHeight(msg.Height - 12)

		return m, nil

	case workspaceChangedMsg:
		m.refreshFromWorkspace()

		return m, nil

	case registryLoadedMsg:
		m.refreshFromWorkspace()
		m.status = "registry loaded"

		return m, nil

	case savedMsg:
		m.status = "saved " + string(msg.ID)
		m.refreshFromWorkspace()

		return m, nil

	case backtestDoneMsg:
		m.status = "backtest finished for " + string(msg.ID)
		m.refreshFromWorkspace()

		return m, nil

	case tuningDoneMsg:
		m.status = "tuning finished for " + string(msg.ID)
		m.refreshFromWorkspace()

		return m, nil

	case paperStartedMsg:
		m.status = "paper session started for " + string(msg.ID)
		m.refreshFromWorkspace()

		return m, nil

	case errMsg:
		m.errText = msg.Err.Error()

		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The prompt overlay captures everything but esc/enter.
	if m.inputMode != inputNone {
		switch msg.String() {
		case "esc":
			m.inputMode = inputNone
			m.prompt.Blur()
			m.prompt.Reset()

			return m, nil
		case "enter":
			return m.submitPrompt()
		}

		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)

		return m, cmd
	}

	editing := m.ws.CurrentView() == workspace.ViewCode && m.editor.Focused()

	switch msg.String() {
	case "ctrl+c":
		m.ws.Close()

		return m, tea.Quit

	case "q":
		if !editing {
			m.ws.Close()

			return m, tea.Quit
		}

	case "tab":
		m.cycleView()

		return m, nil

	case "ctrl+s":
		return m, m.saveCode()

	case "esc":
		if editing {
			m.editor.Blur()

			return m, nil
		}
	}

	if !editing {
		switch msg.String() {
		case "enter":
			if m.ws.CurrentView() == workspace.ViewCode {
				if item, ok := m.strategyList.SelectedItem().(strategyItem); ok {
					return m, m.selectStrategy(item.meta.Path)
				}
			}

		case "i":
			if m.ws.CurrentView() == workspace.ViewCode {
				m.editor.Focus()

				return m, textarea.Blink
			}

		case "f":
			if item, ok := m.strategyList.SelectedItem().(strategyItem); ok {
				return m, m.toggleFavorite(item.meta.Path)
			}

		case "n":
			m.inputMode = inputCreate
			m.prompt.Placeholder = "new_strategy.py"
			m.prompt.Focus()

			return m, textinput.Blink

		case "m":
			if _, ok := m.ws.Active(); ok {
				m.inputMode = inputRename
				m.prompt.Placeholder = "new name"
				m.prompt.Focus()

				return m, textinput.Blink
			}

		case "s":
			m.inputMode = inputSymbol
			m.prompt.Placeholder = "symbol (e.g. AAPL)"
			m.prompt.SetValue(m.run.Symbol)
			m.prompt.Focus()

			return m, textinput.Blink

		case "x":
			if item, ok := m.strategyList.SelectedItem().(strategyItem); ok {
				return m, m.deleteStrategy(item.meta.Path)
			}

		case "r":
			switch m.ws.CurrentView() {
			case workspace.ViewBacktest:
				return m, m.runBacktest()
			case workspace.ViewTuning:
				return m, m.runTuning()
			case workspace.ViewPaper:
				return m, m.startPaper()
			}
		}
	}

	return m.updateFocused(msg)
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	value := m.prompt.Value()
	mode := m.inputMode

	m.inputMode = inputNone
	m.prompt.Blur()
	m.prompt.Reset()

	if value == "" {
		return m, nil
	}

	switch mode {
	case inputCreate:
		return m, m.createStrategy(types.StrategyID(value))
	case inputRename:
		if active, ok := m.ws.Active(); ok {
			return m, m.renameStrategy(active, types.StrategyID(value))
		}
	case inputSymbol:
		m.run.Symbol = value
		m.status = "symbol set to " + value
	}

	return m, nil
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.ws.CurrentView() {
	case workspace.ViewCode:
		if m.editor.Focused() {
			before := m.editor.Value()
			m.editor, cmd = m.editor.Update(msg)

			if active, ok := m.ws.Active(); ok && m.editor.Value() != before {
				m.ws.EditCode(active, m.editor.Value())
			}

			return m, cmd
		}

		m.strategyList, cmd = m.strategyList.Update(msg)

		return m, cmd

	case workspace.ViewBacktest, workspace.ViewPaper:
		m.equityTable, cmd = m.equityTable.Update(msg)

		return m, cmd
	}

	return m, nil
}

// cycleView advances the foregrounded view; the controller reevaluates the
// polling condition on every change.
func (m *Model) cycleView() {
	order := []workspace.View{
		workspace.ViewCode,
		workspace.ViewBacktest,
		workspace.ViewTuning,
		workspace.ViewPaper,
	}

	current := m.ws.CurrentView()
	for i, v := range order {
		if v == current {
			m.ws.SetView(order[(i+1)%len(order)])

			break
		}
	}

	m.refreshFromWorkspace()
}

// refreshFromWorkspace re-reads widget contents from the controller's
// caches after any committed mutation.
func (m *Model) refreshFromWorkspace() {
	metas := m.ws.Strategies()
	active, hasActive := m.ws.Active()

	items := make([]list.Item, 0, len(metas))
	for _, meta := range metas {
		items = append(items, strategyItem{
			meta:     meta,
			starred:  m.ws.IsFavorite(meta.Path),
			selected: hasActive && meta.Path == active,
		})
	}

	m.strategyList.SetItems(items)

	if hasActive && !m.editor.Focused() {
		if code, err := m.ws.Code(active).Take(); err == nil {
			m.editor.SetValue(code)
		}
	}

	m.equityTable.SetRows(m.equityRows())
}

func (m *Model) equityRows() []table.Row {
	active, ok := m.ws.Active()
	if !ok {
		return nil
	}

	var curve []types.EquityPoint

	switch m.ws.CurrentView() {
	case workspace.ViewPaper:
		if entry, err := m.ws.PaperEntry(active).Take(); err == nil {
			if state, err := entry.State.Take(); err == nil {
				curve = state.Snapshot.EquityCurve
			}
		}
	default:
		if result, err := m.ws.BacktestResult(active).Take(); err == nil {
			curve = result.EquityCurve
		}
	}

	// Most recent points first.
	rows := make([]table.Row, 0, len(curve))
	for i := len(curve) - 1; i >= 0; i-- {
		point := curve[i]
		rows = append(rows, table.Row{
			point.Time.Format("2006-01-02 15:04:05"),
			FormatMoney(point.Value),
		})
	}

	return rows
}

// --- Commands ---

func (m Model) reloadRegistry() tea.Cmd {
	return func() tea.Msg {
		if err := m.ws.ReloadRegistry(context.Background()); err != nil {
			return errMsg{Err: err}
		}

		return registryLoadedMsg{}
	}
}

func (m Model) selectStrategy(id types.StrategyID) tea.Cmd {
	return func() tea.Msg {
		if err := m.ws.Select(context.Background(), id); err != nil {
			return errMsg{Err: err}
		}

		return workspaceChangedMsg{}
	}
}

func (m Model) saveCode() tea.Cmd {
	return func() tea.Msg {
		active, ok := m.ws.Active()
		if !ok {
			return nil
		}

		if err := m.ws.Save(context.Background()); err != nil {
			return errMsg{Err: err}
		}

		return savedMsg{ID: active}
	}
}

func (m Model) createStrategy(suggested types.StrategyID) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ws.Create(context.Background(), suggested); err != nil {
			return errMsg{Err: err}
		}

		return registryLoadedMsg{}
	}
}

func (m Model) renameStrategy(oldID, newID types.StrategyID) tea.Cmd {
	return func() tea.Msg {
		if err := m.ws.Rename(context.Background(), oldID, newID); err != nil {
			return errMsg{Err: err}
		}

		return workspaceChangedMsg{}
	}
}

func (m Model) deleteStrategy(id types.StrategyID) tea.Cmd {
	return func() tea.Msg {
		if err := m.ws.Delete(context.Background(), id); err != nil {
			return errMsg{Err: err}
		}

		return workspaceChangedMsg{}
	}
}

func (m Model) toggleFavorite(id types.StrategyID) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ws.ToggleFavorite(id); err != nil {
			return errMsg{Err: err}
		}

		return workspaceChangedMsg{}
	}
}

func (m Model) runBacktest() tea.Cmd {
	run := m.run

	return func() tea.Msg {
		active, ok := m.ws.Active()
		if !ok {
			return nil
		}

		if err := m.ws.RunBacktest(context.Background(), run); err != nil {
			return errMsg{Err: err}
		}

		return backtestDoneMsg{ID: active}
	}
}

func (m Model) runTuning() tea.Cmd {
	run := m.run

	return func() tea.Msg {
		active, ok := m.ws.Active()
		if !ok {
			return nil
		}

		if err := m.ws.RunTuning(context.Background(), run); err != nil {
			return errMsg{Err: err}
		}

		return tuningDoneMsg{ID: active}
	}
}

func (m Model) startPaper() tea.Cmd {
	run := m.run

	return func() tea.Msg {
		active, ok := m.ws.Active()
		if !ok {
			return nil
		}

		if err := m.ws.StartPaper(context.Background(), run); err != nil {
			return errMsg{Err: err}
		}

		return paperStartedMsg{ID: active}
	}
}

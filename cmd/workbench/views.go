package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantdesk/quantdesk/internal/workspace"
)

var viewTabs = []workspace.View{
	workspace.ViewCode,
	workspace.ViewBacktest,
	workspace.ViewTuning,
	workspace.ViewPaper,
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("quantdesk"))
	s.WriteString("  ")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.inputMode != inputNone {
		s.WriteString(m.prompt.View())
		s.WriteString("\n\n")
	}

	switch m.ws.CurrentView() {
	case workspace.ViewCode:
		s.WriteString(m.renderCodeView())
	case workspace.ViewBacktest:
		s.WriteString(m.renderBacktestView())
	case workspace.ViewTuning:
		s.WriteString(m.renderTuningView())
	case workspace.ViewPaper:
		s.WriteString(m.renderPaperView())
	}

	s.WriteString("\n")

	if m.errText != "" {
		s.WriteString(ErrorStyle.Render("Error: " + m.errText))
		s.WriteString("\n")
	}

	if m.status != "" {
		s.WriteString(StatusStyle.Render(m.status))
		s.WriteString("\n")
	}

	s.WriteString(HelpStyle.Render(m.helpLine()))

	return s.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(viewTabs))

	current := m.ws.CurrentView()
	for _, v := range viewTabs {
		label := string(v)
		if v == current {
			parts = append(parts, ActiveTabStyle.Render(label))
		} else {
			parts = append(parts, TabStyle.Render(label))
		}
	}

	return strings.Join(parts, " | ")
}

func (m Model) renderCodeView() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, m.strategyList.View(), "  ", m.editor.View())
}

func (m Model) renderBacktestView() string {
	var s strings.Builder

	active, ok := m.ws.Active()
	if !ok {
		return "No strategy selected.\n"
	}

	s.WriteString(TitleStyle.Render("Backtest - " + string(active)))
	s.WriteString("\n\n")

	result, err := m.ws.BacktestResult(active).Take()
	if err != nil {
		s.WriteString("No backtest yet. Press r to run one.\n")

		return s.String()
	}

	finalValue, _ := result.FinalValue.Float64()
	pnl, _ := result.PnL.Float64()

	s.WriteString(fmt.Sprintf("run %s | final %.2f | pnl %s | win rate %.1f%% | trades %d\n\n",
		result.RunID, finalValue, FormatMoney(pnl), result.WinRate*100, len(result.Markers)))
	s.WriteString(m.equityTable.View())
	s.WriteString("\n")

	return s.String()
}

func (m Model) renderTuningView() string {
	var s strings.Builder

	active, ok := m.ws.Active()
	if !ok {
		return "No strategy selected.\n"
	}

	s.WriteString(TitleStyle.Render("Tuning - " + string(active)))
	s.WriteString("\n\n")

	entry, err := m.ws.TuningEntry(active).Take()
	if err != nil {
		s.WriteString("Parameter spec not loaded yet.\n")

		return s.String()
	}

	s.WriteString(fmt.Sprintf("trials: %d  objective: %s\n", entry.Trials, entry.Objective))

	for name, rng := range entry.Ranges {
		s.WriteString(fmt.Sprintf("  %-16s [%g, %g] (%s)\n", name, rng.Min, rng.Max, rng.Type))
	}

	s.WriteString("\n")

	if entry.Err != "" {
		s.WriteString(ErrorStyle.Render("Error: " + entry.Err))
		s.WriteString("\n")
	}

	if entry.ResultText != "" {
		s.WriteString(entry.ResultText)
		s.WriteString("\n")
	}

	if best, err := entry.BestRun.Take(); err == nil {
		pnl, _ := best.PnL.Float64()
		s.WriteString(fmt.Sprintf("best run: pnl %s over %d bars\n", FormatMoney(pnl), len(best.EquityCurve)))
	}

	return s.String()
}

func (m Model) renderPaperView() string {
	var s strings.Builder

	active, ok := m.ws.Active()
	if !ok {
		return "No strategy selected.\n"
	}

	s.WriteString(TitleStyle.Render("Paper Trading - " + string(active)))

	if m.ws.Polling() {
		s.WriteString("  " + StatusStyle.Render("(live)"))
	}

	s.WriteString("\n\n")

	entry, err := m.ws.PaperEntry(active).Take()
	if err != nil || entry.SessionID == "" {
		s.WriteString("No paper session. Press r to start one.\n")

		return s.String()
	}

	s.WriteString(fmt.Sprintf("session %s | %s %s | broker %s | status %s\n\n",
		entry.SessionID, entry.Session.Symbol, entry.Session.Interval,
		entry.Session.Broker, entry.Session.Status))

	if entry.Err != "" {
		s.WriteString(ErrorStyle.Render("Error: " + entry.Err))
		s.WriteString("\n\n")
	}

	state, stateErr := entry.State.Take()
	if stateErr != nil {
		s.WriteString("Waiting for first snapshot...\n")

		return s.String()
	}

	finalValue, _ := state.Snapshot.FinalValue.Float64()
	pnl, _ := state.Snapshot.PnL.Float64()

	s.WriteString(fmt.Sprintf("equity %.2f | pnl %s | bars %d\n\n",
		finalValue, FormatMoney(pnl), len(state.Snapshot.EquityCurve)))
	s.WriteString(m.equityTable.View())
	s.WriteString("\n")

	return s.String()
}

func (m Model) helpLine() string {
	switch m.ws.CurrentView() {
	case workspace.ViewCode:
		return "enter: select | i: edit | esc: back | ctrl+s: save | f: favorite | n: new | m: rename | x: delete | tab: view | q: quit"
	case workspace.ViewBacktest:
		return "r: run backtest | s: symbol | tab: view | q: quit"
	case workspace.ViewTuning:
		return "r: run tuning | tab: view | q: quit"
	case workspace.ViewPaper:
		return "r: start session | s: symbol | tab: view | q: quit"
	}

	return ""
}

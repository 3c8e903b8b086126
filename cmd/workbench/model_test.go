package main

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/quantdesk/internal/client"
	"github.com/quantdesk/quantdesk/internal/client/labserver"
	"github.com/quantdesk/quantdesk/internal/logger"
	"github.com/quantdesk/quantdesk/internal/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Controller {
	t.Helper()

	server := labserver.NewServer()
	require.NoError(t, server.Start())
	t.Cleanup(func() {
		require.NoError(t, server.Stop())
	})

	c, err := client.NewClient(client.ClientConfig{BaseURL: server.URL()}, logger.NewNopLogger())
	require.NoError(t, err)

	favorites, err := workspace.LoadFavorites("")
	require.NoError(t, err)

	ws := workspace.NewController(c, favorites, 50*time.Millisecond, logger.NewNopLogger())
	t.Cleanup(ws.Close)

	return ws
}

func TestWorkbenchListsStrategies(t *testing.T) {
	m := NewModel(newTestWorkspace(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("sma_crossover.py")) &&
			bytes.Contains(bts, []byte("breakout.py"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestWorkbenchRunsBacktestFromView(t *testing.T) {
	m := NewModel(newTestWorkspace(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("sma_crossover.py"))
	}, teatest.WithDuration(3*time.Second))

	// Tab to the backtest view and run one.
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("No backtest yet"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("win rate"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestWorkbenchPromptOverlay(t *testing.T) {
	m := NewModel(newTestWorkspace(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("sma_crossover.py"))
	}, teatest.WithDuration(3*time.Second))

	// Open the symbol prompt, then dismiss it.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("AAPL"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
}

func TestStrategyItemTitle(t *testing.T) {
	item := strategyItem{}
	item.meta.Path = "sma.py"
	assert.Equal(t, "sma.py", item.Title())

	item.starred = true
	assert.Equal(t, "★ sma.py", item.Title())
	assert.Equal(t, "sma.py", item.FilterValue())
}

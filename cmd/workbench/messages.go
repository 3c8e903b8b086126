package main

import "github.com/quantdesk/quantdesk/internal/types"

// workspaceChangedMsg signals that the workspace controller committed a
// mutation (including background paper-session refreshes).
type workspaceChangedMsg struct{}

// registryLoadedMsg signals that the strategy registry finished reloading.
type registryLoadedMsg struct{}

// savedMsg signals that the active strategy's code was saved.
type savedMsg struct {
	ID types.StrategyID
}

// backtestDoneMsg signals a finished backtest run.
type backtestDoneMsg struct {
	ID types.StrategyID
}

// tuningDoneMsg signals a finished tuning flow (success or surfaced error).
type tuningDoneMsg struct {
	ID types.StrategyID
}

// paperStartedMsg signals a started (or failed-to-start) paper session.
type paperStartedMsg struct {
	ID types.StrategyID
}

// errMsg carries an operation failure for the status line.
type errMsg struct {
	Err error
}

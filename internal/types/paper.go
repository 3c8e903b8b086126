package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Broker selects where a paper session's orders are simulated.
type Broker string

const (
	BrokerLocal  Broker = "local"
	BrokerAlpaca Broker = "alpaca"
)

// SessionStatus is the lifecycle state of a paper session.
type SessionStatus string

const (
	SessionStatusRunning SessionStatus = "running"
	SessionStatusStopped SessionStatus = "stopped"
)

// PaperSession is the metadata of one paper trading session.
type PaperSession struct {
	SessionID    string          `json:"session_id" yaml:"session_id"`
	StrategyPath StrategyID      `json:"strategy_path" yaml:"strategy_path"`
	Symbol       string          `json:"symbol" yaml:"symbol"`
	Interval     string          `json:"interval" yaml:"interval"`
	Cash         decimal.Decimal `json:"cash" yaml:"cash"`
	Position     float64         `json:"position" yaml:"position"`
	CreatedAt    time.Time       `json:"created_at" yaml:"created_at"`
	Status       SessionStatus   `json:"status" yaml:"status"`
	Broker       Broker          `json:"broker" yaml:"broker"`

	// Mode is "paper_local" or "paper_remote" depending on the broker.
	Mode string `json:"mode" yaml:"mode"`
}

// PaperSessionState bundles a session's metadata with its latest
// performance snapshot. The snapshot shares the backtest result shape so the
// same chart and table rendering applies to both.
type PaperSessionState struct {
	Session  PaperSession   `json:"session" yaml:"session"`
	Snapshot BacktestResult `json:"snapshot" yaml:"snapshot"`
}

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarkerSide tags a trade marker as a buy or a sell.
type MarkerSide string

const (
	MarkerSideBuy  MarkerSide = "buy"
	MarkerSideSell MarkerSide = "sell"
)

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Time  time.Time `json:"time" yaml:"time"`
	Value float64   `json:"value" yaml:"value"`
}

// Candle is one OHLCV price bar.
type Candle struct {
	Time   time.Time `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

// TradeMarker marks one executed order on the price chart.
type TradeMarker struct {
	Time  time.Time  `json:"time" yaml:"time"`
	Price float64    `json:"price" yaml:"price"`
	Side  MarkerSide `json:"side" yaml:"side"`
}

// IndicatorSeries is one named indicator overlay computed during a run.
type IndicatorSeries struct {
	ID     string        `json:"id" yaml:"id"`
	Label  string        `json:"label" yaml:"label"`
	Color  string        `json:"color" yaml:"color"`
	Points []EquityPoint `json:"points" yaml:"points"`
}

// BacktestResult is the complete outcome of one backtest run.
// It is overwritten wholesale on every new run for a strategy and doubles as
// the snapshot shape for live paper sessions.
type BacktestResult struct {
	// RunID uniquely identifies this run on the backend.
	RunID string `json:"run_id" yaml:"run_id"`

	// FinalValue is the portfolio value at the end of the run.
	FinalValue decimal.Decimal `json:"final_value" yaml:"final_value"`

	// PnL is the profit or loss relative to the starting cash.
	PnL decimal.Decimal `json:"pnl" yaml:"pnl"`

	// WinRate is the fraction of closed trades with positive pnl.
	WinRate float64 `json:"win_rate" yaml:"win_rate"`

	// EquityCurve is the time-ordered portfolio value series.
	EquityCurve []EquityPoint `json:"equity_curve" yaml:"equity_curve"`

	// Candles holds the OHLC bars the run was executed against. Optional.
	Candles []Candle `json:"candles,omitempty" yaml:"candles,omitempty"`

	// Markers holds the executed trade markers. Optional.
	Markers []TradeMarker `json:"markers,omitempty" yaml:"markers,omitempty"`

	// Indicators holds named indicator overlays. Optional.
	Indicators []IndicatorSeries `json:"indicators,omitempty" yaml:"indicators,omitempty"`

	// Analytics is the raw analyzer output, opaque to the client.
	Analytics map[string]any `json:"analytics,omitempty" yaml:"analytics,omitempty"`
}

package client

import (
	"github.com/shopspring/decimal"

	"github.com/quantdesk/quantdesk/internal/types"
)

// BacktestParams holds the parameters for a backtest run request.
type BacktestParams struct {
	StrategyPath types.StrategyID   `json:"strategy_path" validate:"required"`
	Symbol       string             `json:"symbol" validate:"required"`
	Interval     string             `json:"interval" validate:"required"`
	Period       string             `json:"period" validate:"required"`
	StartCash    decimal.Decimal    `json:"start_cash"`
	DatasetPath  string             `json:"dataset_path,omitempty"`
	Params       map[string]float64 `json:"params,omitempty"`
	Market       string             `json:"market,omitempty"`
	Exchange     string             `json:"exchange,omitempty"`
}

// TuningParams holds the parameters for a hyperparameter tuning request.
type TuningParams struct {
	StrategyPath types.StrategyID            `json:"strategy_path" validate:"required"`
	Symbol       string                      `json:"symbol" validate:"required"`
	Interval     string                      `json:"interval" validate:"required"`
	Period       string                      `json:"period" validate:"required"`
	Trials       int                         `json:"n_trials" validate:"required,min=1"`
	Seed         *int64                      `json:"seed,omitempty"`
	Objective    types.TuningObjective       `json:"objective" validate:"required,oneof=pnl final_value win_rate sharpe_ratio max_drawdown_pct"`
	Ranges       map[string]types.ParamRange `json:"ranges" validate:"required,min=1"`
	DatasetPath  string                      `json:"dataset_path,omitempty"`
}

// PaperStartParams holds the parameters for starting a paper trading session.
type PaperStartParams struct {
	StrategyPath types.StrategyID `json:"strategy_path" validate:"required"`
	Symbol       string           `json:"symbol" validate:"required"`
	Interval     string           `json:"interval" validate:"required"`
	Period       string           `json:"period" validate:"required"`
	DatasetPath  string           `json:"dataset_path,omitempty"`
	Market       string           `json:"market,omitempty"`
	Exchange     string           `json:"exchange,omitempty"`
	StartingCash decimal.Decimal  `json:"starting_cash"`
	Broker       types.Broker     `json:"broker" validate:"required,oneof=local alpaca"`
}

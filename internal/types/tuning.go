package types

// TuningObjective selects the metric a tuning run optimizes.
type TuningObjective string

const (
	ObjectivePnL         TuningObjective = "pnl"
	ObjectiveFinalValue  TuningObjective = "final_value"
	ObjectiveWinRate     TuningObjective = "win_rate"
	ObjectiveSharpe      TuningObjective = "sharpe_ratio"
	ObjectiveMaxDrawdown TuningObjective = "max_drawdown_pct"
)

// TuningResult is the backend's summary of a finished tuning run.
type TuningResult struct {
	// BestValue is the best objective value seen across all trials.
	BestValue float64 `json:"best_value" yaml:"best_value"`

	// BestParams is the parameter set that produced BestValue.
	BestParams map[string]float64 `json:"best_params" yaml:"best_params"`

	// Trials is the number of requested trials.
	Trials int `json:"trials" yaml:"trials"`

	// FailedTrials counts trials pruned by execution failures.
	FailedTrials int `json:"failed_trials" yaml:"failed_trials"`

	// Objective echoes the optimized metric.
	Objective TuningObjective `json:"objective" yaml:"objective"`

	// Direction is "maximize" or "minimize" depending on the objective.
	Direction string `json:"direction" yaml:"direction"`

	// SearchSpace echoes the ranges the run actually used.
	SearchSpace map[string]ParamRange `json:"search_space" yaml:"search_space"`
}

package types

import "time"

// StrategyID is the path-like identifier of a strategy file, unique within
// the registry (e.g. "sma_crossover.py" or "experiments/breakout.py").
// It is stable across renames only through explicit rename propagation.
type StrategyID string

// StrategyMeta describes one strategy known to the lab backend.
// The registry replaces its whole set of metas on every reload.
type StrategyMeta struct {
	// Name is the display name (the file name without directories).
	Name string `json:"name" yaml:"name"`

	// Path is the strategy identifier, relative to the lab's strategies root.
	Path StrategyID `json:"path" yaml:"path"`

	// UpdatedAt is the last modification time reported by the backend.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ParamType is the declared type of a tunable strategy parameter.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
)

// ParamSpec describes one tunable parameter declared by a strategy,
// as reported by the backend's parameter inspection.
type ParamSpec struct {
	Name         string    `json:"name" yaml:"name"`
	Type         ParamType `json:"type" yaml:"type"`
	Default      float64   `json:"default" yaml:"default"`
	SuggestedMin float64   `json:"suggested_min" yaml:"suggested_min"`
	SuggestedMax float64   `json:"suggested_max" yaml:"suggested_max"`
}

// ParamRange is one numeric search range in a tuning request.
type ParamRange struct {
	Min  float64   `json:"min" yaml:"min"`
	Max  float64   `json:"max" yaml:"max"`
	Type ParamType `json:"type" yaml:"type"`
}

// DefaultRanges derives the initial tuning search ranges from a strategy's
// declared parameter specs. Parameters without a usable suggested range fall
// back to a range centered on the default value.
func DefaultRanges(specs []ParamSpec) map[string]ParamRange {
	ranges := make(map[string]ParamRange, len(specs))

	for _, spec := range specs {
		minV, maxV := spec.SuggestedMin, spec.SuggestedMax
		if minV == 0 && maxV == 0 {
			minV = spec.Default / 2
			maxV = spec.Default * 2
		}

		ranges[spec.Name] = ParamRange{
			Min:  minV,
			Max:  maxV,
			Type: spec.Type,
		}
	}

	return ranges
}

package types

import "time"

// Dataset describes one locally imported OHLCV dataset on the backend.
type Dataset struct {
	Name    string    `json:"name" yaml:"name"`
	Path    string    `json:"path" yaml:"path"`
	Rows    int       `json:"rows" yaml:"rows"`
	Start   time.Time `json:"start" yaml:"start"`
	End     time.Time `json:"end" yaml:"end"`
	Columns []string  `json:"columns" yaml:"columns"`
}

// Symbol is one tradable symbol returned by a symbol search.
type Symbol struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Exchange string `json:"exchange" yaml:"exchange"`
}

// Package labserver provides an in-memory strategy lab backend for testing.
// It implements the REST surface the workbench client consumes, with
// deterministic synthetic backtest results.
package labserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/quantdesk/quantdesk/internal/types"
)

// strategyRecord is the server-side state of one strategy file.
type strategyRecord struct {
	Content   string
	UpdatedAt time.Time
	Params    []types.ParamSpec
}

// paperRecord tracks one paper session and how often its state was polled.
type paperRecord struct {
	Session   types.PaperSession
	Refreshes int
}

// Server is an in-memory lab backend.
type Server struct {
	mu sync.Mutex

	httpServer *http.Server
	listener   net.Listener

	strategies map[types.StrategyID]*strategyRecord
	order      []types.StrategyID
	sessions   map[string]*paperRecord
	datasets   []types.Dataset
	symbols    []types.Symbol

	// failures maps an operation key to a detail message; a present key makes
	// that operation answer 400 with the message until cleared.
	failures map[string]string
}

// Operation keys accepted by SetFailure.
const (
	OpBacktest   = "backtest"
	OpTuning     = "tuning"
	OpPaperState = "paper_state"
	OpSave       = "save"
)

// defaultParams is the parameter spec attached to seeded strategies,
// mirroring a plain SMA crossover strategy's declaration.
func defaultParams() []types.ParamSpec {
	return []types.ParamSpec{
		{Name: "fast_period", Type: types.ParamTypeInt, Default: 10, SuggestedMin: 1, SuggestedMax: 100},
		{Name: "risk_pct", Type: types.ParamTypeFloat, Default: 1.0, SuggestedMin: 0.01, SuggestedMax: 10},
		{Name: "slow_period", Type: types.ParamTypeInt, Default: 30, SuggestedMin: 3, SuggestedMax: 300},
	}
}

// NewServer creates a lab server seeded with two example strategies.
func NewServer() *Server {
	now := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)

	s := &Server{
		strategies: make(map[types.StrategyID]*strategyRecord),
		sessions:   make(map[string]*paperRecord),
		failures:   make(map[string]string),
		datasets: []types.Dataset{
			{
				Name:    "AAPL_1m_5d",
				Path:    "datasets/AAPL_1m_5d.csv",
				Rows:    1950,
				Start:   now.AddDate(0, 0, -5),
				End:     now,
				Columns: []string{"time", "open", "high", "low", "close", "volume"},
			},
		},
		symbols: []types.Symbol{
			{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
			{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"},
			{Symbol: "SPY", Name: "SPDR S&P 500 ETF", Exchange: "NYSEARCA"},
		},
	}

	s.seedStrategy("sma_crossover.py", "PARAMS = {\"fast_period\": 10, \"slow_period\": 30}\n", now)
	s.seedStrategy("breakout.py", "PARAMS = {\"fast_period\": 20, \"slow_period\": 50}\n", now.Add(time.Minute))

	return s
}

func (s *Server) seedStrategy(id types.StrategyID, content string, updatedAt time.Time) {
	s.strategies[id] = &strategyRecord{Content: content, UpdatedAt: updatedAt, Params: defaultParams()}
	s.order = append(s.order, id)
}

// Start begins serving on an ephemeral localhost port.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{Handler: s.router()}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// SetFailure makes the given operation fail with the detail message until
// ClearFailure is called.
func (s *Server) SetFailure(op, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = detail
}

// ClearFailure removes an injected failure.
func (s *Server) ClearFailure(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
}

// SessionRefreshes reports how many times a session's state was fetched.
func (s *Server) SessionRefreshes(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.sessions[sessionID]; ok {
		return rec.Refreshes
	}

	return 0
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/strategies", s.handleListStrategies).Methods(http.MethodGet)
	api.HandleFunc("/strategies", s.handleSaveStrategy).Methods(http.MethodPost)
	api.HandleFunc("/strategies/create", s.handleCreateStrategy).Methods(http.MethodPost)
	api.HandleFunc("/strategies/rename", s.handleRenameStrategy).Methods(http.MethodPost)
	api.HandleFunc("/strategies/{path:.+}/params", s.handleStrategyParams).Methods(http.MethodGet)
	api.HandleFunc("/strategies/{path:.+}", s.handleReadStrategy).Methods(http.MethodGet)
	api.HandleFunc("/strategies/{path:.+}", s.handleDeleteStrategy).Methods(http.MethodDelete)
	api.HandleFunc("/backtests/run", s.handleRunBacktest).Methods(http.MethodPost)
	api.HandleFunc("/optimize/run", s.handleRunTuning).Methods(http.MethodPost)
	api.HandleFunc("/paper/start", s.handleStartPaper).Methods(http.MethodPost)
	api.HandleFunc("/paper/{id}/stop", s.handleStopPaper).Methods(http.MethodPost)
	api.HandleFunc("/paper/{id}/state", s.handlePaperState).Methods(http.MethodGet)
	api.HandleFunc("/datasets", s.handleListDatasets).Methods(http.MethodGet)
	api.HandleFunc("/symbols/search", s.handleSearchSymbols).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) failureFor(op string) (string, bool) {
	detail, ok := s.failures[op]

	return detail, ok
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metas := make([]types.StrategyMeta, 0, len(s.order))
	for _, id := range s.order {
		rec := s.strategies[id]
		metas = append(metas, types.StrategyMeta{
			Name:      baseName(id),
			Path:      id,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, metas)
}

func baseName(id types.StrategyID) string {
	parts := strings.Split(string(id), "/")

	return parts[len(parts)-1]
}

func (s *Server) handleReadStrategy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.StrategyID(mux.Vars(r)["path"])

	rec, ok := s.strategies[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Strategy not found")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"path": id, "content": rec.Content})
}

func (s *Server) handleSaveStrategy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if detail, ok := s.failureFor(OpSave); ok {
		writeDetail(w, http.StatusBadRequest, detail)

		return
	}

	var req struct {
		Path    types.StrategyID `json:"path"`
		Content string           `json:"content"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeDetail(w, http.StatusBadRequest, "path is required")

		return
	}

	rec, ok := s.strategies[req.Path]
	if !ok {
		rec = &strategyRecord{Params: defaultParams()}
		s.strategies[req.Path] = rec
		s.order = append(s.order, req.Path)
	}

	rec.Content = req.Content
	rec.UpdatedAt = time.Now().UTC()

	writeJSON(w, http.StatusOK, map[string]any{"status": "saved", "path": req.Path})
}

func (s *Server) handleCreateStrategy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		Path types.StrategyID `json:"path"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeDetail(w, http.StatusBadRequest, "path is required")

		return
	}

	// Deduplicate the suggested id the way the backend does for files.
	assigned := req.Path
	for i := 1; ; i++ {
		if _, exists := s.strategies[assigned]; !exists {
			break
		}

		base := strings.TrimSuffix(string(req.Path), ".py")
		assigned = types.StrategyID(fmt.Sprintf("%s_%d.py", base, i))
	}

	s.strategies[assigned] = &strategyRecord{
		Content:   "PARAMS = {\"fast_period\": 10, \"slow_period\": 30}\n",
		UpdatedAt: time.Now().UTC(),
		Params:    defaultParams(),
	}
	s.order = append(s.order, assigned)

	writeJSON(w, http.StatusOK, map[string]any{"path": assigned})
}

func (s *Server) handleRenameStrategy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		OldPath types.StrategyID `json:"old_path"`
		NewPath types.StrategyID `json:"new_path"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OldPath == "" || req.NewPath == "" {
		writeDetail(w, http.StatusBadRequest, "old_path and new_path are required")

		return
	}

	rec, ok := s.strategies[req.OldPath]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Strategy not found")

		return
	}

	if _, exists := s.strategies[req.NewPath]; exists {
		writeDetail(w, http.StatusBadRequest, "target path already exists")

		return
	}

	delete(s.strategies, req.OldPath)
	s.strategies[req.NewPath] = rec

	for i, id := range s.order {
		if id == req.OldPath {
			s.order[i] = req.NewPath
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "renamed", "path": req.NewPath})
}

func (s *Server) handleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.StrategyID(mux.Vars(r)["path"])

	if _, ok := s.strategies[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Strategy not found")

		return
	}

	delete(s.strategies, id)

	kept := s.order[:0]
	for _, existing := range s.order {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	s.order = kept

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "path": id})
}

func (s *Server) handleStrategyParams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.StrategyID(mux.Vars(r)["path"])

	rec, ok := s.strategies[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Strategy not found")

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategy_class": "Strategy",
		"params":         rec.Params,
	})
}

// syntheticResult builds a deterministic backtest result for a strategy.
// The curve drifts upward from the starting cash so assertions can rely on
// stable, non-trivial values.
func (s *Server) syntheticResult(id types.StrategyID, startCash decimal.Decimal, bars int) types.BacktestResult {
	if startCash.IsZero() {
		startCash = decimal.NewFromInt(10000)
	}

	if bars <= 0 {
		bars = 20
	}

	start := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	cash, _ := startCash.Float64()

	curve := make([]types.EquityPoint, 0, bars)
	candles := make([]types.Candle, 0, bars)

	price := 100.0
	value := cash

	for i := 0; i < bars; i++ {
		ts := start.Add(time.Duration(i) * time.Minute)

		// Small deterministic oscillation with upward drift.
		delta := 0.4
		if i%3 == 2 {
			delta = -0.25
		}

		price += delta
		value += delta * 10

		curve = append(curve, types.EquityPoint{Time: ts, Value: value})
		candles = append(candles, types.Candle{
			Time:   ts,
			Open:   price - delta,
			High:   price + 0.1,
			Low:    price - 0.3,
			Close:  price,
			Volume: 1000 + float64(i),
		})
	}

	final := decimal.NewFromFloat(value).Round(2)

	return types.BacktestResult{
		RunID:       uuid.New().String(),
		FinalValue:  final,
		PnL:         final.Sub(startCash).Round(2),
		WinRate:     0.5,
		EquityCurve: curve,
		Candles:     candles,
		Markers: []types.TradeMarker{
			{Time: start.Add(2 * time.Minute), Price: 100.8, Side: types.MarkerSideBuy},
			{Time: start.Add(12 * time.Minute), Price: 103.1, Side: types.MarkerSideSell},
		},
		Indicators: []types.IndicatorSeries{
			{ID: "sma_fast", Label: "SMA(10)", Color: "#ffd166", Points: curve[:len(curve)/2]},
		},
		Analytics: map[string]any{
			"performance": map[string]any{"sharpe_ratio": 1.2},
			"risk":        map[string]any{"max_drawdown_pct": 3.4},
			"strategy":    string(id),
		},
	}
}

func (s *Server) handleRunBacktest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if detail, ok := s.failureFor(OpBacktest); ok {
		writeDetail(w, http.StatusBadRequest, detail)

		return
	}

	var req struct {
		StrategyPath types.StrategyID `json:"strategy_path"`
		StartCash    decimal.Decimal  `json:"start_cash"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StrategyPath == "" {
		writeDetail(w, http.StatusBadRequest, "strategy_path is required")

		return
	}

	if _, ok := s.strategies[req.StrategyPath]; !ok {
		writeDetail(w, http.StatusBadRequest, "Strategy not found")

		return
	}

	writeJSON(w, http.StatusOK, s.syntheticResult(req.StrategyPath, req.StartCash, 20))
}

func (s *Server) handleRunTuning(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if detail, ok := s.failureFor(OpTuning); ok {
		writeDetail(w, http.StatusBadRequest, detail)

		return
	}

	var req struct {
		StrategyPath types.StrategyID            `json:"strategy_path"`
		Trials       int                         `json:"n_trials"`
		Objective    types.TuningObjective       `json:"objective"`
		Ranges       map[string]types.ParamRange `json:"ranges"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StrategyPath == "" {
		writeDetail(w, http.StatusBadRequest, "strategy_path is required")

		return
	}

	if len(req.Ranges) == 0 {
		writeDetail(w, http.StatusBadRequest, "Optimization ranges are required")

		return
	}

	// Best params land on the midpoint of each range; deterministic and easy
	// to assert against.
	best := make(map[string]float64, len(req.Ranges))

	names := make([]string, 0, len(req.Ranges))
	for name := range req.Ranges {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rng := req.Ranges[name]
		mid := (rng.Min + rng.Max) / 2

		if rng.Type == types.ParamTypeInt {
			mid = float64(int(mid))
		}

		best[name] = mid
	}

	direction := "maximize"
	if req.Objective == types.ObjectiveMaxDrawdown {
		direction = "minimize"
	}

	writeJSON(w, http.StatusOK, types.TuningResult{
		BestValue:    42.5,
		BestParams:   best,
		Trials:       req.Trials,
		FailedTrials: 0,
		Objective:    req.Objective,
		Direction:    direction,
		SearchSpace:  req.Ranges,
	})
}

func (s *Server) handleStartPaper(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var req struct {
		StrategyPath types.StrategyID `json:"strategy_path"`
		Symbol       string           `json:"symbol"`
		Interval     string           `json:"interval"`
		StartingCash decimal.Decimal  `json:"starting_cash"`
		Broker       types.Broker     `json:"broker"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StrategyPath == "" || req.Symbol == "" {
		writeDetail(w, http.StatusBadRequest, "strategy_path and symbol are required")

		return
	}

	broker := req.Broker
	if broker == "" {
		broker = types.BrokerLocal
	}

	mode := "paper_local"
	if broker == types.BrokerAlpaca {
		mode = "paper_remote"
	}

	session := types.PaperSession{
		SessionID:    uuid.New().String(),
		StrategyPath: req.StrategyPath,
		Symbol:       req.Symbol,
		Interval:     req.Interval,
		Cash:         req.StartingCash,
		Position:     0,
		CreatedAt:    time.Now().UTC(),
		Status:       types.SessionStatusRunning,
		Broker:       broker,
		Mode:         mode,
	}

	s.sessions[session.SessionID] = &paperRecord{Session: session}

	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleStopPaper(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := mux.Vars(r)["id"]

	rec, ok := s.sessions[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Session not found")

		return
	}

	rec.Session.Status = types.SessionStatusStopped

	writeJSON(w, http.StatusOK, map[string]any{"status": "stopped", "session_id": id})
}

func (s *Server) handlePaperState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if detail, ok := s.failureFor(OpPaperState); ok {
		writeDetail(w, http.StatusInternalServerError, detail)

		return
	}

	id := mux.Vars(r)["id"]

	rec, ok := s.sessions[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Session not found")

		return
	}

	rec.Refreshes++

	// The snapshot grows by one bar per refresh so pollers observe progress.
	state := types.PaperSessionState{
		Session:  rec.Session,
		Snapshot: s.syntheticResult(rec.Session.StrategyPath, rec.Session.Cash, 5+rec.Refreshes),
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.datasets)
}

func (s *Server) handleSearchSymbols(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToUpper(r.URL.Query().Get("q"))

	limit := 8
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	matches := make([]types.Symbol, 0, limit)

	for _, sym := range s.symbols {
		if len(matches) >= limit {
			break
		}

		if query == "" || strings.Contains(sym.Symbol, query) || strings.Contains(strings.ToUpper(sym.Name), query) {
			matches = append(matches, sym)
		}
	}

	writeJSON(w, http.StatusOK, matches)
}

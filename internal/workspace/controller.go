package workspace

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/quantdesk/quantdesk/internal/client"
	"github.com/quantdesk/quantdesk/internal/logger"
	"github.com/quantdesk/quantdesk/internal/types"
	"github.com/quantdesk/quantdesk/pkg/errors"
)

// View identifies which workspace view is foregrounded.
type View string

const (
	ViewCode     View = "code"
	ViewBacktest View = "backtest"
	ViewTuning   View = "tuning"
	ViewPaper    View = "paper"
)

// RunSettings carries the market/time parameters shared by backtest, tuning
// and paper runs. The controller fills in the strategy id.
type RunSettings struct {
	Symbol      string
	Interval    string
	Period      string
	StartCash   decimal.Decimal
	DatasetPath string
	Market      string
	Broker      types.Broker
}

// DefaultRunSettings mirrors the backend's request defaults.
func DefaultRunSettings() RunSettings {
	return RunSettings{
		Symbol:    "AAPL",
		Interval:  "1m",
		Period:    "5d",
		StartCash: decimal.NewFromInt(10000),
		Market:    "stocks",
		Broker:    types.BrokerLocal,
	}
}

// Controller owns the workspace state: the registry, the four cache
// buckets, the favorites index, the active strategy id and the live session
// synchronizer. All mutations go through it, and every handler tolerates the
// world having changed across an await (the active id is captured when a
// flow is initiated and results are committed to the originating id).
type Controller struct {
	mu sync.Mutex

	remote    client.RemoteService
	log       *logger.Logger
	store     *Store
	registry  *Registry
	favorites *Favorites
	sync      *Synchronizer

	active types.StrategyID // empty means unselected
	view   View

	tuningInFlight map[types.StrategyID]bool

	// onChange, when set, is invoked after every committed mutation so the
	// UI can re-render. Called without the lock held.
	onChange func()
}

// NewController wires a controller around a remote service and a loaded
// favorites index. pollInterval governs the live session synchronizer.
func NewController(remote client.RemoteService, favorites *Favorites, pollInterval time.Duration, log *logger.Logger) *Controller {
	c := &Controller{
		remote:         remote,
		log:            log,
		store:          NewStore(),
		registry:       NewRegistry(),
		favorites:      favorites,
		view:           ViewCode,
		tuningInFlight: make(map[types.StrategyID]bool),
	}

	c.sync = NewSynchronizer(remote, pollInterval, log, c.commitPaperRefresh)

	return c
}

// SetOnChange registers the UI notification hook.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Close stops background polling.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync.Stop()
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// errText converts an error into the human-readable message stored in
// cache-entry error fields.
func errText(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}

		return e.Message
	}

	return err.Error()
}

// --- Registry ---

// ReloadRegistry fetches the strategy list, replaces the registry wholesale,
// prunes cache entries and favorites for strategies that no longer exist,
// clears a vanished active id and selects a default strategy when none is
// selected.
func (c *Controller) ReloadRegistry(ctx context.Context) error {
	metas, err := c.remote.ListStrategies(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRemoteUnavailable, "failed to list strategies", err)
	}

	c.mu.Lock()

	c.registry.Replace(metas)
	c.store.Reconcile(c.registry.IDs())

	if err := c.favorites.Reconcile(c.registry.IDs()); err != nil {
		c.log.Warn("favorites reconciliation failed", zap.Error(err))
	}

	// Registry drift: the active strategy disappeared out from under us.
	if c.active != "" && !c.registry.Has(c.active) {
		c.log.Info("active strategy no longer in registry", zap.String("strategy", string(c.active)))
		c.active = ""
		c.reevaluateSyncLocked()
	}

	var defaultID types.StrategyID

	if c.active == "" {
		if first, ok := c.registry.First(); ok {
			defaultID = first.Path
		}
	}

	c.mu.Unlock()
	c.notify()

	if defaultID != "" {
		return c.Select(ctx, defaultID)
	}

	return nil
}

// Strategies returns the registry entries in backend order.
func (c *Controller) Strategies() []types.StrategyMeta {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.registry.Items()
}

// --- Selection ---

// Active returns the active strategy id, or false when unselected.
func (c *Controller) Active() (types.StrategyID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.active, c.active != ""
}

// Select makes id the active strategy and hydrates its working state from
// the caches, fetching the code and seeding the tuning ranges on first
// activation. Reselecting the active id is a no-op.
func (c *Controller) Select(ctx context.Context, id types.StrategyID) error {
	c.mu.Lock()

	if c.active == id {
		c.mu.Unlock()

		return nil
	}

	if !c.registry.Has(id) {
		c.mu.Unlock()

		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s is not in the registry", id)
	}

	c.active = id
	needCode := !c.store.Code.Has(id)
	needTuning := !c.store.Tuning.Has(id)
	c.reevaluateSyncLocked()
	c.mu.Unlock()
	c.notify()

	if needCode {
		if err := c.fetchCode(ctx, id); err != nil {
			return err
		}
	}

	if needTuning {
		c.seedTuning(ctx, id)
	}

	return nil
}

// fetchCode populates the code cache for id. Fetches are idempotent reads,
// so last-fetch-wins: the result is discarded only if something else
// populated the key while the fetch was in flight.
func (c *Controller) fetchCode(ctx context.Context, id types.StrategyID) error {
	text, err := c.remote.ReadStrategy(ctx, id)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteUnavailable, err, "failed to read strategy %s", id)
	}

	c.mu.Lock()
	if !c.store.Code.Has(id) {
		c.store.Code.Set(id, text)
	}
	c.mu.Unlock()
	c.notify()

	return nil
}

// seedTuning initializes a strategy's tuning entry from its declared
// parameter defaults on first activation. Failures are logged, not surfaced;
// the entry stays absent and is retried on the next activation.
func (c *Controller) seedTuning(ctx context.Context, id types.StrategyID) {
	specs, err := c.remote.StrategyParams(ctx, id)
	if err != nil {
		c.log.Warn("failed to fetch parameter spec",
			zap.String("strategy", string(id)),
			zap.Error(err))

		return
	}

	c.mu.Lock()
	if !c.store.Tuning.Has(id) {
		c.store.Tuning.Set(id, TuningEntry{
			Ranges:    types.DefaultRanges(specs),
			Trials:    20,
			Objective: types.ObjectivePnL,
		})
	}
	c.mu.Unlock()
	c.notify()
}

// --- Code ---

// Code returns the cached source for id. None means "not yet fetched".
func (c *Controller) Code(id types.StrategyID) optional.Option[string] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Code.Get(id)
}

// EditCode commits a typed edit to the code cache. The cache is the working
// buffer; the remote file is untouched until Save.
func (c *Controller) EditCode(id types.StrategyID, text string) {
	c.mu.Lock()
	c.store.Code.Set(id, text)
	c.mu.Unlock()
	c.notify()
}

// Save writes the active strategy's cached code through to the backend,
// then re-fetches the parameter spec, resets the tuning ranges to the fresh
// defaults and clears the strategy's backtest result: a saved edit
// invalidates any run produced by the previous source.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()

	id := c.active
	if id == "" {
		c.mu.Unlock()

		return errors.New(errors.ErrCodeNoActiveStrategy, "no strategy selected")
	}

	text, takeErr := c.store.Code.Get(id).Take()
	c.mu.Unlock()

	if takeErr != nil {
		return errors.Newf(errors.ErrCodeMissingParameter, "no code loaded for %s", id)
	}

	if err := c.remote.SaveStrategy(ctx, id, text); err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteRejected, err, "failed to save %s", id)
	}

	specs, specErr := c.remote.StrategyParams(ctx, id)

	c.mu.Lock()

	c.store.Code.Set(id, text)
	c.store.Backtest.Delete(id)

	entry, _ := c.store.Tuning.Get(id).Take()
	if entry.Trials == 0 {
		entry.Trials = 20
		entry.Objective = types.ObjectivePnL
	}

	if specErr != nil {
		entry.Ranges = map[string]types.ParamRange{}
		entry.Err = errText(specErr)
	} else {
		entry.Ranges = types.DefaultRanges(specs)
	}

	c.store.Tuning.Set(id, entry)
	c.mu.Unlock()
	c.notify()

	return nil
}

// --- Identity changes ---

// Create asks the backend for a new strategy file, reloads the registry and
// selects the assigned id.
func (c *Controller) Create(ctx context.Context, suggested types.StrategyID) (types.StrategyID, error) {
	assigned, err := c.remote.CreateStrategy(ctx, suggested)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRemoteRejected, "failed to create strategy", err)
	}

	if err := c.ReloadRegistry(ctx); err != nil {
		return assigned, err
	}

	return assigned, c.Select(ctx, assigned)
}

// Rename renames a strategy on the backend, then propagates oldID → newID
// across all four cache buckets, the favorites index and the registry. If
// the active id equals oldID it is updated without re-hydrating: the working
// state already holds the right values.
func (c *Controller) Rename(ctx context.Context, oldID, newID types.StrategyID) error {
	if err := c.remote.RenameStrategy(ctx, oldID, newID); err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteRejected, err, "failed to rename %s", oldID)
	}

	c.mu.Lock()

	c.store.Rename(oldID, newID)
	c.registry.Rename(oldID, newID)

	if err := c.favorites.Rename(oldID, newID); err != nil {
		c.log.Warn("failed to persist favorites after rename", zap.Error(err))
	}

	if c.active == oldID {
		c.active = newID
	}

	c.reevaluateSyncLocked()
	c.mu.Unlock()
	c.notify()

	return nil
}

// Delete removes a strategy on the backend, then drops its entries from all
// buckets and the favorites index. Deleting the active strategy falls back
// to unselected; the next registry reload picks a new default.
func (c *Controller) Delete(ctx context.Context, id types.StrategyID) error {
	if err := c.remote.DeleteStrategy(ctx, id); err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteRejected, err, "failed to delete %s", id)
	}

	c.mu.Lock()

	c.store.Delete(id)
	c.registry.Remove(id)

	if err := c.favorites.Remove(id); err != nil {
		c.log.Warn("failed to persist favorites after delete", zap.Error(err))
	}

	if c.active == id {
		c.active = ""
	}

	c.reevaluateSyncLocked()
	c.mu.Unlock()
	c.notify()

	return nil
}

// --- Favorites ---

// IsFavorite reports whether id is starred.
func (c *Controller) IsFavorite(id types.StrategyID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.favorites.IsFavorite(id)
}

// ToggleFavorite flips id's starred state and persists it.
func (c *Controller) ToggleFavorite(id types.StrategyID) (bool, error) {
	c.mu.Lock()
	starred, err := c.favorites.Toggle(id)
	c.mu.Unlock()
	c.notify()

	return starred, err
}

// --- Backtests ---

// BacktestResult returns the cached last run for id.
func (c *Controller) BacktestResult(id types.StrategyID) optional.Option[types.BacktestResult] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Backtest.Get(id)
}

// RunBacktest executes a backtest for the active strategy and overwrites its
// cached result. The result is committed to the id that was active when the
// run was initiated, even if the selection has moved on since.
func (c *Controller) RunBacktest(ctx context.Context, run RunSettings) error {
	c.mu.Lock()
	id := c.active
	c.mu.Unlock()

	if id == "" {
		return errors.New(errors.ErrCodeNoActiveStrategy, "no strategy selected")
	}

	result, err := c.remote.RunBacktest(ctx, client.BacktestParams{
		StrategyPath: id,
		Symbol:       run.Symbol,
		Interval:     run.Interval,
		Period:       run.Period,
		StartCash:    run.StartCash,
		DatasetPath:  run.DatasetPath,
		Market:       run.Market,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrCodeRemoteRejected, err, "backtest failed for %s", id)
	}

	c.mu.Lock()
	c.store.Backtest.Set(id, result)
	c.mu.Unlock()
	c.notify()

	return nil
}

// --- Tuning ---

// TuningEntry returns the cached tuning state for id.
func (c *Controller) TuningEntry(id types.StrategyID) optional.Option[TuningEntry] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Tuning.Get(id)
}

// UpdateTuning applies an edit to id's tuning entry (ranges, trials, seed,
// objective). Edits made while a run is in flight are accepted and apply to
// the next run; the in-flight run keeps its request-time snapshot.
func (c *Controller) UpdateTuning(id types.StrategyID, mutate func(*TuningEntry)) {
	c.mu.Lock()

	entry, _ := c.store.Tuning.Get(id).Take()
	mutate(&entry)
	c.store.Tuning.Set(id, entry)

	c.mu.Unlock()
	c.notify()
}

// RunTuning executes the two-phase tuning flow for the active strategy:
// first the tuning job, then a backtest replay of the best parameter set,
// issued only after the first response arrives. Both results are committed
// to the strategy that was active at initiation, so returning to it later
// shows the finished run. All failures, including the local empty-ranges
// guard, surface as the entry's error text rather than a returned error.
func (c *Controller) RunTuning(ctx context.Context, run RunSettings) error {
	c.mu.Lock()

	id := c.active
	if id == "" {
		c.mu.Unlock()

		return errors.New(errors.ErrCodeNoActiveStrategy, "no strategy selected")
	}

	if c.tuningInFlight[id] {
		c.mu.Unlock()

		return errors.Newf(errors.ErrCodeTuningInFlight, "a tuning run is already in flight for %s", id)
	}

	entry, _ := c.store.Tuning.Get(id).Take()

	// Request-time snapshot of the search ranges.
	ranges := make(map[string]types.ParamRange, len(entry.Ranges))
	for name, rng := range entry.Ranges {
		ranges[name] = rng
	}

	if len(ranges) == 0 {
		entry.Err = "No optimization parameters configured"
		c.store.Tuning.Set(id, entry)
		c.mu.Unlock()
		c.notify()

		return nil
	}

	trials := entry.Trials
	if trials == 0 {
		trials = 20
	}

	objective := entry.Objective
	if objective == "" {
		objective = types.ObjectivePnL
	}

	seed := entry.Seed
	c.tuningInFlight[id] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.tuningInFlight, id)
		c.mu.Unlock()
	}()

	tuning, err := c.remote.RunTuning(ctx, client.TuningParams{
		StrategyPath: id,
		Symbol:       run.Symbol,
		Interval:     run.Interval,
		Period:       run.Period,
		Trials:       trials,
		Seed:         seed,
		Objective:    objective,
		Ranges:       ranges,
		DatasetPath:  run.DatasetPath,
	})
	if err != nil {
		c.commitTuningFailure(id, errText(err))

		return nil
	}

	// Second phase: replay the best parameter set. Issued strictly after the
	// tuning response, and committed to the originating id regardless of the
	// current selection.
	bestRun := optional.None[types.BacktestResult]()

	replay, err := c.remote.RunBacktest(ctx, client.BacktestParams{
		StrategyPath: id,
		Symbol:       run.Symbol,
		Interval:     run.Interval,
		Period:       run.Period,
		StartCash:    run.StartCash,
		DatasetPath:  run.DatasetPath,
		Market:       run.Market,
		Params:       tuning.BestParams,
	})
	if err != nil {
		c.log.Warn("best-params replay failed",
			zap.String("strategy", string(id)),
			zap.Error(err))
	} else {
		bestRun = optional.Some(replay)
	}

	c.mu.Lock()

	current, _ := c.store.Tuning.Get(id).Take()
	current.ResultText = formatTuningSummary(tuning)
	current.BestRun = bestRun
	current.Err = ""
	c.store.Tuning.Set(id, current)

	c.mu.Unlock()
	c.notify()

	return nil
}

func (c *Controller) commitTuningFailure(id types.StrategyID, message string) {
	c.mu.Lock()

	entry, _ := c.store.Tuning.Get(id).Take()
	entry.Err = message
	c.store.Tuning.Set(id, entry)

	c.mu.Unlock()
	c.notify()
}

// formatTuningSummary renders a finished tuning run for display.
func formatTuningSummary(result types.TuningResult) string {
	names := make([]string, 0, len(result.BestParams))
	for name := range result.BestParams {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, result.BestParams[name]))
	}

	return fmt.Sprintf("best %s=%.4f (%s) over %d trials",
		result.Objective, result.BestValue, strings.Join(parts, ", "), result.Trials)
}

// --- Paper sessions ---

// PaperEntry returns the cached paper session state for id.
func (c *Controller) PaperEntry(id types.StrategyID) optional.Option[PaperEntry] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Paper.Get(id)
}

// StartPaper starts a paper session for the active strategy. A previously
// tracked session is stopped best-effort first so it does not leak on the
// backend. On success the entry is reset: state absent, error empty, the
// first refresh fills it in.
func (c *Controller) StartPaper(ctx context.Context, run RunSettings) error {
	c.mu.Lock()

	id := c.active
	if id == "" {
		c.mu.Unlock()

		return errors.New(errors.ErrCodeNoActiveStrategy, "no strategy selected")
	}

	previous, _ := c.store.Paper.Get(id).Take()
	c.mu.Unlock()

	if previous.SessionID != "" {
		if err := c.remote.StopPaperSession(ctx, previous.SessionID); err != nil {
			c.log.Warn("failed to stop previous paper session",
				zap.String("session_id", previous.SessionID),
				zap.Error(err))
		}
	}

	broker := run.Broker
	if broker == "" {
		broker = types.BrokerLocal
	}

	session, err := c.remote.StartPaperSession(ctx, client.PaperStartParams{
		StrategyPath: id,
		Symbol:       run.Symbol,
		Interval:     run.Interval,
		Period:       run.Period,
		DatasetPath:  run.DatasetPath,
		Market:       run.Market,
		StartingCash: run.StartCash,
		Broker:       broker,
	})

	c.mu.Lock()

	if err != nil {
		entry, _ := c.store.Paper.Get(id).Take()
		entry.Err = errText(err)
		c.store.Paper.Set(id, entry)
		c.mu.Unlock()
		c.notify()

		return nil
	}

	c.store.Paper.Set(id, PaperEntry{
		SessionID: session.SessionID,
		Session:   session,
		Err:       "",
		State:     optional.None[types.PaperSessionState](),
	})

	c.reevaluateSyncLocked()
	c.mu.Unlock()
	c.notify()

	return nil
}

// SetView records the foregrounded view and reevaluates the polling
// activation condition.
func (c *Controller) SetView(v View) {
	c.mu.Lock()
	c.view = v
	c.reevaluateSyncLocked()
	c.mu.Unlock()
	c.notify()
}

// CurrentView returns the foregrounded view.
func (c *Controller) CurrentView() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.view
}

// Polling reports whether the live session synchronizer is active.
func (c *Controller) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.sync.Active()
}

// syncTargetLocked evaluates the activation condition: the paper view is
// foregrounded and the active strategy tracks a non-empty session id.
func (c *Controller) syncTargetLocked() *pollTarget {
	if c.view != ViewPaper || c.active == "" {
		return nil
	}

	entry, err := c.store.Paper.Get(c.active).Take()
	if err != nil || entry.SessionID == "" {
		return nil
	}

	return &pollTarget{Strategy: c.active, SessionID: entry.SessionID}
}

func (c *Controller) reevaluateSyncLocked() {
	c.sync.Reevaluate(c.syncTargetLocked())
}

// commitPaperRefresh applies one synchronizer refresh outcome. Stale
// completions (a generation that is no longer current, or a session id the
// bucket no longer tracks) are discarded silently. On failure the last
// known state is preserved and only the error text is set.
func (c *Controller) commitPaperRefresh(gen uint64, target pollTarget, state optional.Option[types.PaperSessionState], errMsg string) {
	c.mu.Lock()

	if gen != c.sync.Generation() {
		c.mu.Unlock()

		return
	}

	entry, err := c.store.Paper.Get(target.Strategy).Take()
	if err != nil || entry.SessionID != target.SessionID {
		c.mu.Unlock()

		return
	}

	if errMsg != "" {
		entry.Err = errMsg
	} else {
		entry.State = state
		entry.Err = ""
	}

	c.store.Paper.Set(target.Strategy, entry)
	c.mu.Unlock()
	c.notify()
}

// --- Pass-through reads ---

// Datasets lists the datasets available for runs.
func (c *Controller) Datasets(ctx context.Context) ([]types.Dataset, error) {
	return c.remote.ListDatasets(ctx)
}

// SearchSymbols searches tradable symbols.
func (c *Controller) SearchSymbols(ctx context.Context, query string, limit int) ([]types.Symbol, error) {
	return c.remote.SearchSymbols(ctx, query, limit)
}

package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/quantdesk/quantdesk/internal/client"
	"github.com/quantdesk/quantdesk/internal/logger"
	"github.com/quantdesk/quantdesk/internal/types"
	"github.com/quantdesk/quantdesk/mocks"
	qerrors "github.com/quantdesk/quantdesk/pkg/errors"
)

func newTestController(t *testing.T, remote client.RemoteService) *Controller {
	t.Helper()

	favorites, err := LoadFavorites("")
	require.NoError(t, err)

	c := NewController(remote, favorites, time.Hour, logger.NewNopLogger())
	t.Cleanup(c.Close)

	return c
}

func testSpecs() []types.ParamSpec {
	return []types.ParamSpec{
		{Name: "fast_period", Type: types.ParamTypeInt, Default: 10, SuggestedMin: 1, SuggestedMax: 100},
		{Name: "slow_period", Type: types.ParamTypeInt, Default: 30, SuggestedMin: 3, SuggestedMax: 300},
	}
}

// expectActivation sets up the remote calls made the first time id becomes
// active: the code fetch and the parameter spec fetch.
func expectActivation(m *mocks.MockRemoteService, id types.StrategyID, code string) {
	m.EXPECT().ReadStrategy(gomock.Any(), id).Return(code, nil)
	m.EXPECT().StrategyParams(gomock.Any(), id).Return(testSpecs(), nil)
}

func TestReloadRegistrySelectsFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")

	require.NoError(t, c.ReloadRegistry(context.Background()))

	active, ok := c.Active()
	assert.True(t, ok)
	assert.Equal(t, types.StrategyID("a.py"), active)

	code, err := c.Code("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "# a", code)

	entry, err := c.TuningEntry("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, 20, entry.Trials)
	assert.Equal(t, types.ObjectivePnL, entry.Objective)
	assert.Len(t, entry.Ranges, 2)
	assert.Equal(t, types.ParamRange{Min: 1, Max: 100, Type: types.ParamTypeInt}, entry.Ranges["fast_period"])
}

func TestReloadRegistryClearsVanishedActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	// a.py vanished on the backend; the reload falls back to the new first.
	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("b.py"), nil)
	expectActivation(remote, "b.py", "# b")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	active, ok := c.Active()
	assert.True(t, ok)
	assert.Equal(t, types.StrategyID("b.py"), active)
}

func TestReloadRegistryPrunesVanishedStrategyCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	// a.py is removed externally; its cached state must not outlive the
	// registry membership.
	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("b.py"), nil)
	expectActivation(remote, "b.py", "# b")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	_, err := c.Code("a.py").Take()
	assert.Error(t, err, "vanished strategy's code entry must be pruned on reload")

	_, err = c.TuningEntry("a.py").Take()
	assert.Error(t, err, "vanished strategy's tuning entry must be pruned on reload")

	_, err = c.BacktestResult("a.py").Take()
	assert.Error(t, err)

	// a.py is re-created under the same id; selecting it must hydrate from
	// the backend instead of serving the dead incarnation's source.
	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	require.NoError(t, c.ReloadRegistry(context.Background()))

	expectActivation(remote, "a.py", "# a v2")
	require.NoError(t, c.Select(context.Background(), "a.py"))

	code, err := c.Code("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "# a v2", code)
}

func TestSelectReusesCachedState(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	expectActivation(remote, "b.py", "# b")
	require.NoError(t, c.Select(context.Background(), "b.py"))

	// Returning to a.py must be served entirely from the caches: no further
	// remote expectations are registered.
	require.NoError(t, c.Select(context.Background(), "a.py"))

	code, err := c.Code("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "# a", code)
}

func TestSelectUnknownStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	err := c.Select(context.Background(), "ghost.py")
	assert.Error(t, err)
}

func TestEditIsLocalUntilSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	// No SaveStrategy expectation: typing must not touch the backend.
	c.EditCode("a.py", "# edited")

	code, err := c.Code("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "# edited", code)
}

func TestSaveInvalidatesBacktestAndResetsRanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	// Seed a stale backtest result and a customized range.
	remote.EXPECT().RunBacktest(gomock.Any(), gomock.Any()).Return(types.BacktestResult{RunID: "run-1"}, nil)
	require.NoError(t, c.RunBacktest(context.Background(), DefaultRunSettings()))
	c.UpdateTuning("a.py", func(entry *TuningEntry) {
		entry.Ranges["fast_period"] = types.ParamRange{Min: 5, Max: 15, Type: types.ParamTypeInt}
	})

	c.EditCode("a.py", "# edited")

	remote.EXPECT().SaveStrategy(gomock.Any(), types.StrategyID("a.py"), "# edited").Return(nil)
	remote.EXPECT().StrategyParams(gomock.Any(), types.StrategyID("a.py")).Return(testSpecs(), nil)
	require.NoError(t, c.Save(context.Background()))

	// The previous run no longer describes the saved source.
	_, err := c.BacktestResult("a.py").Take()
	assert.Error(t, err)

	entry, err := c.TuningEntry("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, types.ParamRange{Min: 1, Max: 100, Type: types.ParamTypeInt}, entry.Ranges["fast_period"],
		"customized range must reset to the fresh spec defaults")
}

func TestSaveSpecFetchFailureEmptiesRanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().SaveStrategy(gomock.Any(), types.StrategyID("a.py"), "# a").Return(nil)
	remote.EXPECT().StrategyParams(gomock.Any(), types.StrategyID("a.py")).
		Return(nil, assert.AnError)
	require.NoError(t, c.Save(context.Background()))

	entry, err := c.TuningEntry("a.py").Take()
	require.NoError(t, err)
	assert.Empty(t, entry.Ranges)
	assert.NotEmpty(t, entry.Err)
}

func TestSaveWithoutSelection(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	assert.Error(t, c.Save(context.Background()))
}

func TestRenamePropagatesEverywhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().RunBacktest(gomock.Any(), gomock.Any()).Return(types.BacktestResult{RunID: "run-1"}, nil)
	require.NoError(t, c.RunBacktest(context.Background(), DefaultRunSettings()))

	_, err := c.ToggleFavorite("a.py")
	require.NoError(t, err)

	remote.EXPECT().RenameStrategy(gomock.Any(), types.StrategyID("a.py"), types.StrategyID("renamed.py")).Return(nil)
	require.NoError(t, c.Rename(context.Background(), "a.py", "renamed.py"))

	// Identity moved atomically: active id, every bucket, the favorite star.
	active, ok := c.Active()
	assert.True(t, ok)
	assert.Equal(t, types.StrategyID("renamed.py"), active)

	code, err := c.Code("renamed.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "# a", code)

	result, err := c.BacktestResult("renamed.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)

	assert.True(t, c.IsFavorite("renamed.py"))
	assert.False(t, c.IsFavorite("a.py"))

	_, err = c.Code("a.py").Take()
	assert.Error(t, err, "old id must not linger in any bucket")

	ids := make([]types.StrategyID, 0)
	for _, meta := range c.Strategies() {
		ids = append(ids, meta.Path)
	}
	assert.Equal(t, []types.StrategyID{"renamed.py", "b.py"}, ids)
}

func TestDeleteClearsStateAndUnselects(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	_, err := c.ToggleFavorite("a.py")
	require.NoError(t, err)

	remote.EXPECT().DeleteStrategy(gomock.Any(), types.StrategyID("a.py")).Return(nil)
	require.NoError(t, c.Delete(context.Background(), "a.py"))

	_, ok := c.Active()
	assert.False(t, ok)

	_, err = c.Code("a.py").Take()
	assert.Error(t, err)
	assert.False(t, c.IsFavorite("a.py"))
	assert.Len(t, c.Strategies(), 1)
}

func TestRunBacktestCommitsToOriginatingStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	expectActivation(remote, "b.py", "# b")

	// The selection moves to b.py while the run is in flight; the result must
	// still land in a.py's bucket.
	remote.EXPECT().RunBacktest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params client.BacktestParams) (types.BacktestResult, error) {
			require.NoError(t, c.Select(ctx, "b.py"))

			return types.BacktestResult{RunID: "run-a"}, nil
		})

	require.NoError(t, c.RunBacktest(context.Background(), DefaultRunSettings()))

	result, err := c.BacktestResult("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "run-a", result.RunID)

	_, err = c.BacktestResult("b.py").Take()
	assert.Error(t, err)
}

func TestRunTuningCommitsToOriginatingStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py", "b.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	expectActivation(remote, "b.py", "# b")

	tuning := types.TuningResult{
		BestValue:  42.5,
		BestParams: map[string]float64{"fast_period": 12, "slow_period": 48},
		Trials:     20,
		Objective:  types.ObjectivePnL,
	}

	remote.EXPECT().RunTuning(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params client.TuningParams) (types.TuningResult, error) {
			assert.Equal(t, types.StrategyID("a.py"), params.StrategyPath)
			assert.Equal(t, 20, params.Trials)

			// Selection moves away mid-flight.
			require.NoError(t, c.Select(ctx, "b.py"))

			return tuning, nil
		})
	remote.EXPECT().RunBacktest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params client.BacktestParams) (types.BacktestResult, error) {
			assert.Equal(t, types.StrategyID("a.py"), params.StrategyPath)
			assert.Equal(t, tuning.BestParams, params.Params)

			return types.BacktestResult{RunID: "best-run"}, nil
		})

	require.NoError(t, c.RunTuning(context.Background(), DefaultRunSettings()))

	entry, err := c.TuningEntry("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "best pnl=42.5000 (fast_period=12, slow_period=48) over 20 trials", entry.ResultText)
	assert.Empty(t, entry.Err)

	best, err := entry.BestRun.Take()
	require.NoError(t, err)
	assert.Equal(t, "best-run", best.RunID)

	other, err := c.TuningEntry("b.py").Take()
	require.NoError(t, err)
	assert.Empty(t, other.ResultText, "the run must not leak into the new selection")
}

func TestRunTuningEmptyRanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	c.UpdateTuning("a.py", func(entry *TuningEntry) {
		entry.Ranges = map[string]types.ParamRange{}
	})

	// No RunTuning expectation: the guard fails locally before any request.
	require.NoError(t, c.RunTuning(context.Background(), DefaultRunSettings()))

	entry, err := c.TuningEntry("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "No optimization parameters configured", entry.Err)
}

func TestRunTuningRemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().RunTuning(gomock.Any(), gomock.Any()).Return(types.TuningResult{}, assert.AnError)

	require.NoError(t, c.RunTuning(context.Background(), DefaultRunSettings()))

	entry, err := c.TuningEntry("a.py").Take()
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Err)
	assert.Empty(t, entry.ResultText)
}

func TestRunTuningInFlightGuard(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().RunTuning(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, params client.TuningParams) (types.TuningResult, error) {
			// A second run for the same strategy must be rejected while the
			// first is still awaiting its response.
			err := c.RunTuning(ctx, DefaultRunSettings())
			assert.True(t, qerrors.HasCode(err, qerrors.ErrCodeTuningInFlight))

			return types.TuningResult{}, assert.AnError
		})

	require.NoError(t, c.RunTuning(context.Background(), DefaultRunSettings()))
}

func TestStartPaperStopsPreviousSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
		Return(types.PaperSession{SessionID: "sess-1", Status: types.SessionStatusRunning}, nil)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	gomock.InOrder(
		remote.EXPECT().StopPaperSession(gomock.Any(), "sess-1").Return(nil),
		remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
			Return(types.PaperSession{SessionID: "sess-2", Status: types.SessionStatusRunning}, nil),
	)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	entry, err := c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "sess-2", entry.SessionID)
	assert.Empty(t, entry.Err)

	_, stateErr := entry.State.Take()
	assert.Error(t, stateErr, "a fresh session starts with no snapshot")
}

func TestStartPaperFailureKeepsEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
		Return(types.PaperSession{}, assert.AnError)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	entry, err := c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	assert.Empty(t, entry.SessionID)
	assert.NotEmpty(t, entry.Err)
}

func TestCommitPaperRefreshStaleGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	// The code view is foregrounded, so starting the session does not
	// activate polling and the generation stays where it is.
	remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
		Return(types.PaperSession{SessionID: "sess-1", Status: types.SessionStatusRunning}, nil)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	target := pollTarget{Strategy: "a.py", SessionID: "sess-1"}
	snapshot := optional.Some(types.PaperSessionState{
		Session: types.PaperSession{SessionID: "sess-1"},
	})

	c.mu.Lock()
	currentGen := c.sync.Generation()
	c.mu.Unlock()

	// A completion from a superseded generation must be discarded.
	c.commitPaperRefresh(currentGen+1, target, snapshot, "")

	entry, err := c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	_, stateErr := entry.State.Take()
	assert.Error(t, stateErr, "stale completion must not populate the entry")

	// The current generation applies.
	c.commitPaperRefresh(currentGen, target, snapshot, "")

	entry, err = c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	state, stateErr := entry.State.Take()
	require.NoError(t, stateErr)
	assert.Equal(t, "sess-1", state.Session.SessionID)
}

func TestCommitPaperRefreshSessionMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
		Return(types.PaperSession{SessionID: "sess-2", Status: types.SessionStatusRunning}, nil)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	c.mu.Lock()
	currentGen := c.sync.Generation()
	c.mu.Unlock()

	// A refresh for a session the bucket no longer tracks is dropped.
	stale := pollTarget{Strategy: "a.py", SessionID: "sess-1"}
	c.commitPaperRefresh(currentGen, stale, optional.Some(types.PaperSessionState{}), "")

	entry, err := c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	_, stateErr := entry.State.Take()
	assert.Error(t, stateErr)
}

func TestCommitPaperRefreshErrorKeepsLastState(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
		Return(types.PaperSession{SessionID: "sess-1", Status: types.SessionStatusRunning}, nil)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	target := pollTarget{Strategy: "a.py", SessionID: "sess-1"}

	c.mu.Lock()
	currentGen := c.sync.Generation()
	c.mu.Unlock()

	snapshot := optional.Some(types.PaperSessionState{
		Session: types.PaperSession{SessionID: "sess-1"},
	})
	c.commitPaperRefresh(currentGen, target, snapshot, "")

	// A transient failure sets the error but keeps the chartable state.
	c.commitPaperRefresh(currentGen, target, optional.None[types.PaperSessionState](), "backend unreachable")

	entry, err := c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	assert.Equal(t, "backend unreachable", entry.Err)

	state, stateErr := entry.State.Take()
	require.NoError(t, stateErr)
	assert.Equal(t, "sess-1", state.Session.SessionID)

	// The next success clears the error again.
	c.commitPaperRefresh(currentGen, target, snapshot, "")

	entry, err = c.PaperEntry("a.py").Take()
	require.NoError(t, err)
	assert.Empty(t, entry.Err)
}

func TestPollingActivation(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteService(ctrl)
	c := newTestController(t, remote)

	remote.EXPECT().ListStrategies(gomock.Any()).Return(metas("a.py"), nil)
	expectActivation(remote, "a.py", "# a")
	require.NoError(t, c.ReloadRegistry(context.Background()))

	assert.False(t, c.Polling())

	remote.EXPECT().StartPaperSession(gomock.Any(), gomock.Any()).
		Return(types.PaperSession{SessionID: "sess-1", Status: types.SessionStatusRunning}, nil)
	require.NoError(t, c.StartPaper(context.Background(), DefaultRunSettings()))

	// Session exists but the paper view is not foregrounded.
	assert.False(t, c.Polling())

	remote.EXPECT().PaperSessionState(gomock.Any(), "sess-1").
		Return(types.PaperSessionState{Session: types.PaperSession{SessionID: "sess-1"}}, nil).
		AnyTimes()

	c.SetView(ViewPaper)
	assert.True(t, c.Polling())

	c.SetView(ViewCode)
	assert.False(t, c.Polling())
}

func TestFormatTuningSummary(t *testing.T) {
	result := types.TuningResult{
		BestValue:  -3.25,
		BestParams: map[string]float64{"b": 2, "a": 1.5},
		Trials:     50,
		Objective:  types.ObjectiveSharpe,
	}

	assert.Equal(t, "best sharpe_ratio=-3.2500 (a=1.5, b=2) over 50 trials", formatTuningSummary(result))
}

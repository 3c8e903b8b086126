package workspace

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantdesk/quantdesk/internal/client"
	"github.com/quantdesk/quantdesk/internal/logger"
	"github.com/quantdesk/quantdesk/internal/types"
)

// pollTarget identifies what the synchronizer is currently keeping fresh:
// one session id, committed into one strategy's paper bucket.
type pollTarget struct {
	Strategy  types.StrategyID
	SessionID string
}

// commitFunc applies one refresh outcome. On success state is Some and
// errText is empty; on failure state is None and errText carries the
// human-readable message. The gen argument is the activation generation the
// refresh belongs to; the controller drops outcomes whose generation is no
// longer current.
type commitFunc func(gen uint64, target pollTarget, state optional.Option[types.PaperSessionState], errText string)

// Synchronizer polls a paper session's state on a fixed interval while the
// session is relevant. The activation condition is evaluated by the
// controller on every view, session or selection change; the synchronizer
// itself only tracks the current target and discards completions from
// superseded generations. All methods must be called with the controller's
// mutex held; the poll goroutine touches no shared fields.
type Synchronizer struct {
	remote   client.RemoteService
	log      *logger.Logger
	interval time.Duration
	commit   commitFunc

	gen    uint64
	cancel context.CancelFunc
	target *pollTarget
}

// NewSynchronizer creates a stopped synchronizer.
func NewSynchronizer(remote client.RemoteService, interval time.Duration, log *logger.Logger, commit commitFunc) *Synchronizer {
	return &Synchronizer{
		remote:   remote,
		log:      log,
		interval: interval,
		commit:   commit,
	}
}

// Reevaluate is called with the controller's mutex held. A nil target
// deactivates polling; a changed target restarts it under a new generation.
// An unchanged target leaves the running poller alone so no duplicate
// refreshes are issued.
func (s *Synchronizer) Reevaluate(target *pollTarget) {
	if sameTarget(s.target, target) {
		return
	}

	s.gen++

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.target = target
	if target == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.log.Info("paper session polling started",
		zap.String("strategy", string(target.Strategy)),
		zap.String("session_id", target.SessionID))

	go s.poll(ctx, s.gen, *target)
}

// Stop deactivates polling.
func (s *Synchronizer) Stop() {
	s.Reevaluate(nil)
}

// Active reports whether a poller is currently running.
func (s *Synchronizer) Active() bool {
	return s.target != nil
}

// Generation returns the current activation generation. Completions carrying
// an older generation are stale and must be discarded.
func (s *Synchronizer) Generation() uint64 {
	return s.gen
}

func sameTarget(a, b *pollTarget) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

// poll issues one immediate refresh, then one per interval, until the
// context is cancelled.
func (s *Synchronizer) poll(ctx context.Context, gen uint64, target pollTarget) {
	s.refresh(ctx, gen, target)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx, gen, target)
		}
	}
}

// refresh fetches the session state once and commits the outcome. The commit
// callback re-checks the generation under the controller's lock, so a
// refresh that was in flight across a deactivation is discarded silently
// instead of overwriting a newer selection.
func (s *Synchronizer) refresh(ctx context.Context, gen uint64, target pollTarget) {
	state, err := s.remote.PaperSessionState(ctx, target.SessionID)

	if ctx.Err() != nil {
		// Deactivated while in flight; nothing may be applied.
		return
	}

	if err != nil {
		s.log.Warn("paper session refresh failed",
			zap.String("session_id", target.SessionID),
			zap.Error(err))
		s.commit(gen, target, optional.None[types.PaperSessionState](), errText(err))

		return
	}

	s.commit(gen, target, optional.Some(state), "")
}

package scratchsdk

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// gate broadcasts acquisition transitions. Each transition closes the
// current channel and installs a fresh one, waking every waiter at once.
// It is guarded by the owning session's mutex.
type gate struct {
	ch chan struct{}
}

func newGate() gate {
	return gate{ch: make(chan struct{})}
}

func (g *gate) signal() {
	close(g.ch)
	g.ch = make(chan struct{})
}

func (g *gate) watch() <-chan struct{} {
	return g.ch
}

// Wait blocks until the extended token acquisition reaches a terminal state,
// the timeout elapses or ctx is done. It returns nil once the acquisition is
// Complete and an ErrAcquisitionFailed error (wrapping the cause) once it is
// Failed. Both answers are immediate when the state is already terminal.
//
// On an Idle session Wait blocks until some acquisition finishes or the
// timeout elapses. Once Wait has seen an acquisition pending, a Logout or
// Reset that abandons it ends the wait at once with ErrNotAuthenticated.
// Waiting never cancels the acquisition itself, and any number of
// goroutines may wait on the same session.
func (s *Session) Wait(ctx context.Context, timeout time.Duration) error {
	return s.wait(ctx, timeout, 0, false)
}

// wait is Wait for a caller that already knows which acquisition it is
// waiting on, so an abandonment before the first check is not missed.
func (s *Session) wait(ctx context.Context, timeout time.Duration, pendingGen uint64, sawPending bool) error {
	const op = "wait"

	timer := time.NewTimer(max(timeout, 0))
	defer timer.Stop()

	for {
		s.mu.RLock()
		state, lastErr, gen, changed := s.acquisition, s.lastErr, s.gen, s.gate.watch()
		s.mu.RUnlock()

		switch state {
		case AcquisitionComplete:
			return nil
		case AcquisitionFailed:
			return newSessionError(op, ErrAcquisitionFailed, lastErr)
		case AcquisitionPending:
			pendingGen, sawPending = gen, true
		case AcquisitionIdle:
			if sawPending && gen != pendingGen {
				return newSessionError(op, ErrNotAuthenticated, errors.New("acquisition abandoned by logout or reset"))
			}
		}

		select {
		case <-changed:
		case <-timer.C:
			return newSessionError(op, ErrAcquisitionTimeout, fmt.Errorf("still %s after %s", state, timeout))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

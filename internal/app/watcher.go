package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/navigator/internal/session"
)

const (
	defaultWatchInterval = 5 * time.Second
	maxBackoff           = 30 * time.Second
)

// SessionWatcher polls a session provider and reports identity changes.
type SessionWatcher struct {
	Provider session.Provider
	Interval time.Duration
	Log      *zap.Logger
	OnChange func(session.Session)
}

// Start launches the polling goroutine and returns immediately. initial is the
// user the caller already knows about; OnChange fires only when the polled
// user differs from the last one seen. The returned channel closes when the
// goroutine exits.
func (w SessionWatcher) Start(ctx context.Context, initial string) <-chan struct{} {
	interval := w.Interval
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		last := initial
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			sess, err := w.Provider.Current(ctx)
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				failures++
				log.Warn("session poll failed", zap.Error(err), zap.Int("failures", failures))
			default:
				failures = 0
				if sess.UserID != last {
					last = sess.UserID
					log.Info("session changed", zap.Bool("signed_in", sess.SignedIn()))
					if w.OnChange != nil {
						w.OnChange(sess)
					}
				}
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
	return done
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

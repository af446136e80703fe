package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/five82/navigator/internal/session"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

// scriptedProvider returns the scripted sessions in order, then repeats the
// last one.
type scriptedProvider struct {
	mu    sync.Mutex
	steps []step
	calls int
}

type step struct {
	user string
	err  error
}

func (p *scriptedProvider) Current(context.Context) (session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.steps[min(p.calls, len(p.steps)-1)]
	p.calls++
	return session.Session{UserID: s.user}, s.err
}

func TestSessionWatcher_ReportsChangesOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	provider := &scriptedProvider{steps: []step{
		{user: "a"},
		{user: "a"},
		{err: errors.New("keyring locked")},
		{user: "b"},
		{user: "b"},
		{user: ""},
	}}
	changes := make(chan string, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := SessionWatcher{
		Provider: provider,
		Interval: time.Millisecond,
		Log:      zaptest.NewLogger(t),
		OnChange: func(s session.Session) { changes <- s.UserID },
	}.Start(ctx, "a")

	var got []string
	for len(got) < 2 {
		select {
		case u := <-changes:
			got = append(got, u)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for changes, got %v", got)
		}
	}
	cancel()
	<-done

	if len(got) != 2 || got[0] != "b" || got[1] != "" {
		t.Fatalf("changes = %v, want [b \"\"]", got)
	}
}

func TestSessionWatcher_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := SessionWatcher{
		Provider: session.Static{UserID: "local"},
		Interval: time.Hour,
	}.Start(ctx, "local")
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not exit after cancel")
	}
}

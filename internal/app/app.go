package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/navigator/internal/prefs"
	"github.com/five82/navigator/internal/session"
	"github.com/five82/navigator/internal/ui"
)

// Run boots the Navigator TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	userPrefs := prefs.Load(opts.PrefsPath)

	ws, err := env.Workspace(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Local backends have a fixed identity; only the keyring can change
	// underneath us (navigator login/logout in another terminal).
	var sessions chan session.Session
	if env.Keyring != nil {
		sessions = make(chan session.Session, 1)
		watcher := SessionWatcher{
			Provider: env.Sessions,
			Interval: env.Config.SessionPoll,
			Log:      env.Log,
			OnChange: func(s session.Session) {
				ws.SetOwner(s.UserID)
				select {
				case sessions <- s:
				case <-ctx.Done():
				}
			},
		}
		done := watcher.Start(ctx, ws.Owner())
		defer func() {
			cancel()
			<-done
		}()
	}

	env.Log.Info("starting ui", zap.String("theme", userPrefs.Theme), zap.String("tab", userPrefs.LastTab))
	return ui.Run(ui.Options{
		Context:   ctx,
		Workspace: ws,
		Sessions:  sessions,
		Log:       env.Log,
		Backend:   env.Config.Backend,
		ThemeName: userPrefs.Theme,
		LastTab:   userPrefs.LastTab,
		PrefsPath: opts.PrefsPath,
	})
}

package career

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/navigator/internal/collection"
	"github.com/five82/navigator/internal/store"
)

// Workspace holds one controller per collection plus the dashboard, all bound
// to the same store and owner.
type Workspace struct {
	Dashboard   *Dashboard
	Goals       *collection.Controller[Goal]
	Skills      *collection.Controller[Skill]
	Gaps        *collection.Controller[SkillGap]
	Courses     *collection.Controller[Course]
	Mentors     *collection.Controller[Mentor]
	Credentials *collection.Controller[Credential]
	Settings    *collection.Controller[Settings]

	log *zap.Logger
}

// NewWorkspace builds every controller over client.
func NewWorkspace(client store.Client, log *zap.Logger, owner string) *Workspace {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []collection.Option{collection.WithLogger(log), collection.WithOwner(owner)}
	return &Workspace{
		Dashboard:   NewDashboard(client, opts...),
		Goals:       collection.New[Goal](client, GoalsSpec(), opts...),
		Skills:      collection.New[Skill](client, SkillsSpec(), opts...),
		Gaps:        collection.New[SkillGap](client, SkillGapsSpec(), opts...),
		Courses:     collection.New[Course](client, CoursesSpec(), opts...),
		Mentors:     collection.New[Mentor](client, MentorsSpec(), opts...),
		Credentials: collection.New[Credential](client, CredentialsSpec(), opts...),
		Settings:    collection.New[Settings](client, SettingsSpec(), opts...),
		log:         log,
	}
}

// Profile is the dashboard's profile controller.
func (w *Workspace) Profile() *collection.Controller[Profile] {
	return w.Dashboard.Profile
}

// Owner returns the user the workspace is bound to.
func (w *Workspace) Owner() string {
	return w.Goals.Owner()
}

// SetOwner switches every user-scoped controller to userID. It reports whether
// the owner changed. The catalogs (courses, mentors) are shared and keep their
// data.
func (w *Workspace) SetOwner(userID string) bool {
	changed := w.Goals.SetOwner(userID)
	w.Skills.SetOwner(userID)
	w.Gaps.SetOwner(userID)
	w.Credentials.SetOwner(userID)
	w.Settings.SetOwner(userID)
	w.Dashboard.SetOwner(userID)
	if changed {
		w.log.Info("owner changed", zap.Bool("signed_in", userID != ""))
	}
	return changed
}

// LoadAll refreshes every collection concurrently. Like Dashboard.Load, every
// load is attempted and the failures are joined.
func (w *Workspace) LoadAll(ctx context.Context) error {
	loads := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"dashboard", func(ctx context.Context) error { return w.Dashboard.Load(ctx, w.log) }},
		{GoalsCollection, discard(w.Goals.Load)},
		{SkillsCollection, discard(w.Skills.Load)},
		{SkillGapsCollection, discard(w.Gaps.Load)},
		{CoursesCollection, discard(w.Courses.Load)},
		{MentorsCollection, discard(w.Mentors.Load)},
		{CredentialsCollection, discard(w.Credentials.Load)},
		{SettingsCollection, discard(w.Settings.Load)},
	}

	var g errgroup.Group
	errs := make([]error, len(loads))
	for i, l := range loads {
		g.Go(func() error {
			errs[i] = l.fn(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var failed []error
	for i, err := range errs {
		if err == nil || errors.Is(err, collection.ErrSuperseded) || errors.Is(err, collection.ErrSignedOut) {
			continue
		}
		failed = append(failed, fmt.Errorf("%s: %w", loads[i].name, err))
	}
	return errors.Join(failed...)
}

func discard[T any](load func(context.Context) ([]T, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := load(ctx)
		return err
	}
}

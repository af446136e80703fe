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

const (
	dashboardGoals  = 3
	dashboardSkills = 5
)

// Dashboard is the overview panel: the profile, the most recent goals and the
// strongest skills, each with its own controller so one failing panel does not
// blank the others.
type Dashboard struct {
	Profile *collection.Controller[Profile]
	Goals   *collection.Controller[Goal]
	Skills  *collection.Controller[Skill]
}

// NewDashboard builds the dashboard controllers over client.
func NewDashboard(client store.Client, opts ...collection.Option) *Dashboard {
	return &Dashboard{
		Profile: collection.New[Profile](client, ProfileSpec(), opts...),
		Goals:   collection.New[Goal](client, GoalsSpec().WithLimit(dashboardGoals), opts...),
		Skills:  collection.New[Skill](client, SkillsSpec().WithLimit(dashboardSkills), opts...),
	}
}

// SetOwner switches every panel to userID.
func (d *Dashboard) SetOwner(userID string) {
	d.Profile.SetOwner(userID)
	d.Goals.SetOwner(userID)
	d.Skills.SetOwner(userID)
}

// Load refreshes all panels concurrently. Every panel is attempted; the
// returned error joins the failures (superseded loads are not failures).
func (d *Dashboard) Load(ctx context.Context, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		g    errgroup.Group
		errs [3]error
	)
	g.Go(func() error {
		_, errs[0] = d.Profile.Load(ctx)
		return nil
	})
	g.Go(func() error {
		_, errs[1] = d.Goals.Load(ctx)
		return nil
	})
	g.Go(func() error {
		_, errs[2] = d.Skills.Load(ctx)
		return nil
	})
	_ = g.Wait()

	var failed []error
	for i, name := range []string{"profile", "goals", "skills"} {
		if errs[i] == nil || errors.Is(errs[i], collection.ErrSuperseded) {
			continue
		}
		failed = append(failed, fmt.Errorf("%s: %w", name, errs[i]))
	}
	if len(failed) > 0 {
		log.Warn("dashboard partially loaded", zap.Int("failed_panels", len(failed)))
	}
	return errors.Join(failed...)
}

// Summary is what the dashboard renders.
type Summary struct {
	Profile    Profile
	HasProfile bool
	Goals      []Goal
	Skills     []Skill
}

// Snapshot returns the current panel contents.
func (d *Dashboard) Snapshot() Summary {
	var s Summary
	if items := d.Profile.Snapshot().Items; len(items) > 0 {
		s.Profile, s.HasProfile = items[0], true
	}
	s.Goals = d.Goals.Snapshot().Items
	s.Skills = d.Skills.Snapshot().Items
	return s
}

// NeedsOnboarding reports whether the signed-in user has not completed the
// onboarding wizard yet.
func (s Summary) NeedsOnboarding() bool {
	return !s.HasProfile || s.Profile.CurrentEducation == ""
}

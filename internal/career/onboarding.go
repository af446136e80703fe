package career

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/five82/navigator/internal/collection"
)

// Onboarding steps.
const (
	StepEducation  = 1
	StepExperience = 2
	StepGoals      = 3

	wizardSteps = StepGoals
)

const (
	minGraduationYear = 2020
	maxGraduationYear = 2035
)

// EducationLevels are the accepted values for the education step.
var EducationLevels = []string{"High School", "Undergraduate", "Postgraduate", "Doctorate"}

// Wizard collects the onboarding answers across three steps and writes them
// into the user's profile.
type Wizard struct {
	step int

	CurrentEducation    string
	FieldOfStudy        string
	GraduationYear      int
	LocationCity        string
	LocationCountry     string
	JobTitle            string
	CareerGoals         []string
	PreferredIndustries []string
}

// NewWizard starts at the first step with the form defaults.
func NewWizard(now time.Time) *Wizard {
	return &Wizard{
		step:            StepEducation,
		GraduationYear:  now.Year(),
		LocationCountry: "India",
	}
}

// Step returns the current step, 1 through 3.
func (w *Wizard) Step() int { return w.step }

// Last reports whether the wizard is on its final step.
func (w *Wizard) Last() bool { return w.step == wizardSteps }

// Next validates the current step and advances. It stays put on the last step.
func (w *Wizard) Next() error {
	if err := w.validateStep(w.step); err != nil {
		return err
	}
	if w.step < wizardSteps {
		w.step++
	}
	return nil
}

// Back returns to the previous step. It stays put on the first step.
func (w *Wizard) Back() {
	if w.step > StepEducation {
		w.step--
	}
}

// AddGoal appends a trimmed career goal. Blank input is ignored.
func (w *Wizard) AddGoal(goal string) bool {
	return appendTrimmed(&w.CareerGoals, goal)
}

// AddIndustry appends a trimmed preferred industry. Blank input is ignored.
func (w *Wizard) AddIndustry(industry string) bool {
	return appendTrimmed(&w.PreferredIndustries, industry)
}

// RemoveGoal drops the goal at index i.
func (w *Wizard) RemoveGoal(i int) {
	if i >= 0 && i < len(w.CareerGoals) {
		w.CareerGoals = slices.Delete(w.CareerGoals, i, i+1)
	}
}

// RemoveIndustry drops the industry at index i.
func (w *Wizard) RemoveIndustry(i int) {
	if i >= 0 && i < len(w.PreferredIndustries) {
		w.PreferredIndustries = slices.Delete(w.PreferredIndustries, i, i+1)
	}
}

func appendTrimmed(dst *[]string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	*dst = append(*dst, value)
	return true
}

func (w *Wizard) validateStep(step int) error {
	if step != StepEducation {
		return nil
	}
	if !slices.Contains(EducationLevels, w.CurrentEducation) {
		return collection.Invalid("current_education", "select an education level")
	}
	if strings.TrimSpace(w.FieldOfStudy) == "" {
		return collection.Invalid("field_of_study", "is required")
	}
	if w.GraduationYear < minGraduationYear || w.GraduationYear > maxGraduationYear {
		return collection.Invalid("graduation_year", "must be between 2020 and 2035")
	}
	return nil
}

// Apply copies the answers onto p.
func (w *Wizard) Apply(p Profile) Profile {
	p.CurrentEducation = w.CurrentEducation
	p.FieldOfStudy = strings.TrimSpace(w.FieldOfStudy)
	p.GraduationYear = w.GraduationYear
	p.JobTitle = strings.TrimSpace(w.JobTitle)
	p.LocationCity = strings.TrimSpace(w.LocationCity)
	p.LocationCountry = strings.TrimSpace(w.LocationCountry)
	p.CareerGoals = slices.Clone(w.CareerGoals)
	p.PreferredIndustries = slices.Clone(w.PreferredIndustries)
	if p.WorkExperience == nil {
		p.WorkExperience = []string{}
	}
	return p
}

// Submit validates every step and saves the answers into the user's profile
// through c, creating the profile row if the user has none.
func (w *Wizard) Submit(ctx context.Context, c *collection.Controller[Profile], now time.Time) error {
	for step := StepEducation; step <= wizardSteps; step++ {
		if err := w.validateStep(step); err != nil {
			w.step = step
			return err
		}
	}
	if !c.Snapshot().Loaded {
		if _, err := c.Load(ctx); err != nil && !errors.Is(err, collection.ErrSuperseded) {
			return err
		}
	}
	current, _ := CurrentProfile(c)
	return SaveProfile(ctx, c, w.Apply(current), now)
}

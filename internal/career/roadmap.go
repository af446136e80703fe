package career

import (
	"slices"
	"strings"
)

// StepKind says what a roadmap month is for.
type StepKind string

const (
	StepLearn  StepKind = "learn"
	StepApply  StepKind = "apply"
	StepReview StepKind = "review"
)

// RoadmapStep is one month of a roadmap.
type RoadmapStep struct {
	Month    int
	Kind     StepKind
	Skill    string // empty for the review month
	Resource string
}

// Roadmap is a month-by-month upskilling plan towards a role.
type Roadmap struct {
	Role     string
	Required []string
	Missing  []string
	Steps    []RoadmapStep
}

// fallbackResource is suggested for skills without a curated link.
const fallbackResource = "Find a top-rated course on Coursera, Udemy, or edX"

var roleSkills = map[string][]string{
	"Data Scientist": {
		"Python", "Statistics", "Machine Learning", "SQL",
		"Data Visualization", "Deep Learning", "Model Deployment",
	},
	"Backend Engineer": {
		"Python", "Node.js", "REST APIs", "Database Design",
		"Authentication", "Cloud Deployment", "Testing",
	},
	"ML Engineer": {
		"Python", "Machine Learning", "Deep Learning", "MLOps",
		"TensorFlow or PyTorch", "Model Deployment", "APIs",
	},
}

// genericSkills apply to roles without a curated skill list.
var genericSkills = []string{"Project Management", "Domain Research", "Portfolio Building"}

var learningResources = map[string]string{
	"Python":                "https://www.coursera.org/learn/python",
	"Statistics":            "https://www.khanacademy.org/math/statistics-probability",
	"Machine Learning":      "https://www.coursera.org/learn/machine-learning",
	"SQL":                   "https://www.codecademy.com/learn/learn-sql",
	"Data Visualization":    "https://www.datacamp.com/courses/introduction-to-data-visualization-with-python",
	"Deep Learning":         "https://www.deeplearning.ai/",
	"Model Deployment":      "https://www.fullstackpython.com/deployment.html",
	"Node.js":               "https://nodejs.dev/learn",
	"REST APIs":             "https://www.restapitutorial.com/",
	"Database Design":       "https://www.coursera.org/specializations/database-management",
	"Authentication":        "https://auth0.com/docs/get-started/authentication",
	"Cloud Deployment":      "https://www.udemy.com/course/aws-deployment/",
	"Testing":               "https://www.softwaretestinghelp.com/best-python-testing-frameworks/",
	"MLOps":                 "https://coursera.org/learn/mlops",
	"TensorFlow or PyTorch": "https://www.coursera.org/learn/deep-neural-networks-with-pytorch",
	"APIs":                  "https://www.freecodecamp.org/news/how-to-build-an-api/",
}

// RoadmapRoles lists the roles with a curated skill list, sorted.
func RoadmapRoles() []string {
	roles := make([]string, 0, len(roleSkills))
	for r := range roleSkills {
		roles = append(roles, r)
	}
	slices.Sort(roles)
	return roles
}

// RequiredSkills returns the skills role needs and the canonical role name.
// Role names match case-insensitively; unknown roles get the generic list.
func RequiredSkills(role string) (string, []string) {
	role = strings.TrimSpace(role)
	for name, skills := range roleSkills {
		if strings.EqualFold(name, role) {
			return name, slices.Clone(skills)
		}
	}
	return role, slices.Clone(genericSkills)
}

// Resource returns the learning link for skill.
func Resource(skill string) string {
	if r, ok := learningResources[skill]; ok {
		return r
	}
	return fallbackResource
}

// BuildRoadmap plans months of work towards role for a user who already has
// the named skills. Missing skills come first in the role's order, then the
// required skills the user has, in the user's order; the sequence repeats
// when months outlast it. With more than one month the last is a review.
// Skill names compare case-insensitively. months is clamped to 0..60.
func BuildRoadmap(role string, months int, have []string) Roadmap {
	name, required := RequiredSkills(role)
	rm := Roadmap{Role: name, Required: required}

	for _, skill := range required {
		if !containsFold(have, skill) {
			rm.Missing = append(rm.Missing, skill)
		}
	}
	sequence := slices.Clone(rm.Missing)
	for _, skill := range have {
		if i := indexFold(required, skill); i >= 0 && !slices.Contains(sequence, required[i]) {
			sequence = append(sequence, required[i])
		}
	}

	months = min(max(months, 0), 60)
	for m := range months {
		skill := sequence[m%len(sequence)]
		kind := StepApply
		if slices.Contains(rm.Missing, skill) {
			kind = StepLearn
		}
		rm.Steps = append(rm.Steps, RoadmapStep{Month: m + 1, Kind: kind, Skill: skill, Resource: Resource(skill)})
	}
	if months > 1 {
		rm.Steps[months-1] = RoadmapStep{Month: months, Kind: StepReview}
	}
	return rm
}

// Describe renders a step as one sentence.
func (s RoadmapStep) Describe() string {
	switch s.Kind {
	case StepLearn:
		return "Learn and practice " + s.Skill + ". Build a mini-project or take a quiz."
	case StepApply:
		return "Apply your " + s.Skill + " skills to a real project or an open-source contribution."
	default:
		return "Review progress, update your resume and portfolio, and do mock interviews."
	}
}

// TargetRole returns the target role of the newest active goal that names
// one, falling back to any goal with a role.
func TargetRole(goals []Goal) string {
	var fallback string
	for _, g := range goals {
		role := strings.TrimSpace(g.TargetRole)
		if role == "" {
			continue
		}
		if g.Status != "completed" {
			return role
		}
		if fallback == "" {
			fallback = role
		}
	}
	return fallback
}

// SkillNames returns the names of skills in order.
func SkillNames(skills []Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.SkillName)
	}
	return names
}

func containsFold(list []string, s string) bool {
	return indexFold(list, s) >= 0
}

func indexFold(list []string, s string) int {
	return slices.IndexFunc(list, func(v string) bool { return strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) })
}

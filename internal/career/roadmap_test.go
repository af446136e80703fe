package career

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoadmap_MissingSkillsFirst(t *testing.T) {
	rm := BuildRoadmap("data scientist", 9, []string{"sql", " Python ", "Excel"})

	assert.Equal(t, "Data Scientist", rm.Role)
	assert.Equal(t, []string{"Statistics", "Machine Learning", "Data Visualization", "Deep Learning", "Model Deployment"}, rm.Missing)
	require.Len(t, rm.Steps, 9)

	var got []string
	for _, s := range rm.Steps {
		got = append(got, string(s.Kind)+":"+s.Skill)
	}
	assert.Equal(t, []string{
		"learn:Statistics",
		"learn:Machine Learning",
		"learn:Data Visualization",
		"learn:Deep Learning",
		"learn:Model Deployment",
		"apply:SQL",
		"apply:Python",
		"learn:Statistics",
		"review:",
	}, got)
	assert.Equal(t, "https://www.khanacademy.org/math/statistics-probability", rm.Steps[0].Resource)
	assert.Equal(t, 9, rm.Steps[8].Month)
}

func TestBuildRoadmap_Edges(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		months  int
		have    []string
		steps   int
		missing int
		first   StepKind
	}{
		{name: "single month has no review", role: "ML Engineer", months: 1, steps: 1, missing: 7, first: StepLearn},
		{name: "zero months", role: "ML Engineer", months: 0, steps: 0, missing: 7},
		{name: "negative months", role: "ML Engineer", months: -3, steps: 0, missing: 7},
		{name: "capped at sixty", role: "Backend Engineer", months: 99, steps: 60, missing: 7, first: StepLearn},
		{
			name: "nothing missing", role: "Backend Engineer", months: 2, steps: 2, missing: 0, first: StepApply,
			have: []string{"Python", "Node.js", "REST APIs", "Database Design", "Authentication", "Cloud Deployment", "Testing"},
		},
		{name: "unknown role uses generic skills", role: "Chef", months: 4, steps: 4, missing: 3, first: StepLearn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := BuildRoadmap(tt.role, tt.months, tt.have)
			assert.Len(t, rm.Steps, tt.steps)
			assert.Len(t, rm.Missing, tt.missing)
			if tt.steps > 0 {
				assert.Equal(t, tt.first, rm.Steps[0].Kind)
			}
		})
	}
}

func TestBuildRoadmap_UnknownRole(t *testing.T) {
	rm := BuildRoadmap(" Chef ", 2, nil)
	assert.Equal(t, "Chef", rm.Role)
	assert.Equal(t, []string{"Project Management", "Domain Research", "Portfolio Building"}, rm.Required)
	assert.Equal(t, fallbackResource, rm.Steps[0].Resource)
	assert.Contains(t, rm.Steps[1].Describe(), "mock interviews")
}

func TestRequiredSkillsIsACopy(t *testing.T) {
	_, skills := RequiredSkills("Data Scientist")
	skills[0] = "changed"
	_, again := RequiredSkills("Data Scientist")
	assert.Equal(t, "Python", again[0])
}

func TestTargetRole(t *testing.T) {
	assert.Empty(t, TargetRole(nil))
	goals := []Goal{
		{Title: "done", TargetRole: "Analyst", Status: "completed"},
		{Title: "no role", Status: "active"},
		{Title: "current", TargetRole: " ML Engineer ", Status: "active"},
	}
	assert.Equal(t, "ML Engineer", TargetRole(goals))
	assert.Equal(t, "Analyst", TargetRole(goals[:2]))
}

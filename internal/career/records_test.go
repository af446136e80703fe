package career

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/navigator/internal/collection"
)

func requireInvalid(t *testing.T, err error, field string) {
	t.Helper()
	var ve *collection.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, field, ve.Field)
}

func TestGoalValidate(t *testing.T) {
	ok := NewGoal("Lead a team")
	require.NoError(t, ok.Validate())

	tests := []struct {
		name  string
		edit  func(*Goal)
		field string
	}{
		{"blank title", func(g *Goal) { g.Title = " " }, "title"},
		{"bad date", func(g *Goal) { g.TargetDate = "06/01/2030" }, "target_date"},
		{"timeline too short", func(g *Goal) { g.TimelineMonths = 0 }, "timeline_months"},
		{"timeline too long", func(g *Goal) { g.TimelineMonths = 61 }, "timeline_months"},
		{"progress out of range", func(g *Goal) { g.ProgressPercentage = 101 }, "progress_percentage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ok
			tt.edit(&g)
			requireInvalid(t, g.Validate(), tt.field)
		})
	}
}

func TestSkillValidate(t *testing.T) {
	require.NoError(t, Skill{SkillName: "Go", Category: "Technical", ProficiencyLevel: 3}.Validate())
	requireInvalid(t, Skill{Category: "Technical", ProficiencyLevel: 3}.Validate(), "skill_name")
	requireInvalid(t, Skill{SkillName: "Go", ProficiencyLevel: 3}.Validate(), "category")
	requireInvalid(t, Skill{SkillName: "Go", Category: "Technical", ProficiencyLevel: 6}.Validate(), "proficiency_level")
}

func TestCredentialValidate(t *testing.T) {
	base := Credential{CredentialType: "certificate", Title: "CKA", Issuer: "CNCF", IssueDate: "2024-03-01"}
	require.NoError(t, base.Validate())

	missing := base
	missing.Issuer = ""
	requireInvalid(t, missing.Validate(), "issuer")

	badIssue := base
	badIssue.IssueDate = "March 2024"
	requireInvalid(t, badIssue.Validate(), "issue_date")

	noIssue := base
	noIssue.IssueDate = ""
	requireInvalid(t, noIssue.Validate(), "issue_date")

	backwards := base
	backwards.ExpiryDate = "2023-12-31"
	requireInvalid(t, backwards.Validate(), "expiry_date")

	withExpiry := base
	withExpiry.ExpiryDate = "2027-03-01"
	require.NoError(t, withExpiry.Validate())
}

func TestCredentialVerifyIsUnsupported(t *testing.T) {
	c := Credential{BlockchainHash: "0xabc"}
	require.ErrorIs(t, c.Verify(), ErrVerificationUnsupported)
}

func TestCredentialExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.True(t, Credential{ExpiryDate: "2025-06-14"}.Expired(now))
	assert.False(t, Credential{ExpiryDate: "2025-06-15"}.Expired(now))
	assert.False(t, Credential{}.Expired(now))
}

func TestSettingsValidate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
	s := DefaultSettings()
	s.Theme = "solarized"
	requireInvalid(t, s.Validate(), "theme")
	s = DefaultSettings()
	s.Language = ""
	requireInvalid(t, s.Validate(), "language")
}

func TestSearchFields(t *testing.T) {
	mentors := []Mentor{
		{ID: "1", FullName: "Asha Rao", Title: "Staff Engineer", ExpertiseAreas: []string{"Distributed Systems"}},
		{ID: "2", FullName: "Ben Cole", Title: "Designer", ExpertiseAreas: []string{"UX"}},
	}
	got := collection.DeriveView(mentors, "distributed", "")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	courses := []Course{
		{ID: "c1", Title: "Intro", Description: "Learn SQL joins", Category: "Data"},
		{ID: "c2", Title: "SQL Mastery", Category: "Data"},
		{ID: "c3", Title: "Negotiation", Category: "Business"},
	}
	assert.Len(t, collection.DeriveView(courses, "sql", "Data"), 2)
	assert.Equal(t, []string{"Data", "Business"}, collection.Categories(courses))
}

func TestProfileDisplay(t *testing.T) {
	assert.Equal(t, "there", Profile{}.DisplayName())
	assert.Equal(t, "Priya Shah", Profile{FullName: " Priya Shah "}.DisplayName())
	assert.Equal(t, "", Profile{CurrentEducation: "Undergraduate"}.Headline())
	assert.Equal(t, "Undergraduate in Physics", Profile{CurrentEducation: "Undergraduate", FieldOfStudy: "Physics"}.Headline())
}

func TestSkillGap(t *testing.T) {
	assert.Equal(t, 2, SkillGap{CurrentLevel: 1, RequiredLevel: 3}.Gap())
	assert.Equal(t, 0, SkillGap{CurrentLevel: 4, RequiredLevel: 3}.Gap())
}

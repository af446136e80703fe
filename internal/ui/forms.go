package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/collection"
)

func createCmd[T collection.Record](ctx context.Context, t tab, c *collection.Controller[T], rec T) tea.Cmd {
	return func() tea.Msg {
		return mutatedMsg{tab: t, op: "create", err: c.Create(ctx, rec)}
	}
}

// atoi parses a numeric form value; blank uses def.
func atoi(field, value string, def int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, collection.Invalid(field, "must be a whole number")
	}
	return n, nil
}

func goalForm(ctx context.Context, goals *collection.Controller[career.Goal]) *formModal {
	return newFormModal("New goal", tabGoals, []fieldDef{
		{key: "title", label: "Title", placeholder: "Become a data engineer"},
		{key: "description", label: "Description"},
		{key: "target_role", label: "Target role", placeholder: "Data Engineer"},
		{key: "target_date", label: "Target date", placeholder: "YYYY-MM-DD"},
		{key: "timeline_months", label: "Timeline (months)", value: "12"},
	}, func(v map[string]string) (tea.Cmd, error) {
		g := career.NewGoal(v["title"])
		g.Description = v["description"]
		g.TargetRole = v["target_role"]
		g.TargetDate = v["target_date"]
		months, err := atoi("timeline_months", v["timeline_months"], g.TimelineMonths)
		if err != nil {
			return nil, err
		}
		g.TimelineMonths = months
		if err := g.Validate(); err != nil {
			return nil, err
		}
		return createCmd(ctx, tabGoals, goals, g), nil
	})
}

func skillForm(ctx context.Context, skills *collection.Controller[career.Skill]) *formModal {
	return newFormModal("New skill", tabSkills, []fieldDef{
		{key: "skill_name", label: "Skill", placeholder: "SQL"},
		{key: "category", label: "Category", placeholder: "Technical"},
		{key: "proficiency_level", label: "Proficiency (1-5)", value: "3"},
	}, func(v map[string]string) (tea.Cmd, error) {
		level, err := atoi("proficiency_level", v["proficiency_level"], 3)
		if err != nil {
			return nil, err
		}
		s := career.Skill{SkillName: v["skill_name"], Category: v["category"], ProficiencyLevel: level}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return createCmd(ctx, tabSkills, skills, s), nil
	})
}

func credentialForm(ctx context.Context, creds *collection.Controller[career.Credential]) *formModal {
	return newFormModal("New credential", tabCredentials, []fieldDef{
		{key: "credential_type", label: "Type", placeholder: "certification"},
		{key: "title", label: "Title", placeholder: "AWS Solutions Architect"},
		{key: "issuer", label: "Issuer", placeholder: "Amazon Web Services"},
		{key: "issue_date", label: "Issued", placeholder: "YYYY-MM-DD"},
		{key: "expiry_date", label: "Expires", placeholder: "YYYY-MM-DD (optional)"},
	}, func(v map[string]string) (tea.Cmd, error) {
		c := career.Credential{
			CredentialType: v["credential_type"],
			Title:          v["title"],
			Issuer:         v["issuer"],
			IssueDate:      v["issue_date"],
			ExpiryDate:     v["expiry_date"],
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return createCmd(ctx, tabCredentials, creds, c), nil
	})
}

// Row formatters and detail lines per collection.

func goalRow(g career.Goal) row {
	return row{title: g.Title, meta: fmt.Sprintf("%3d%%", g.ProgressPercentage), badge: g.Status}
}

func goalDetails(g career.Goal) []string {
	lines := []string{progressBar(g.ProgressPercentage, 30) + fmt.Sprintf(" %d%%", g.ProgressPercentage)}
	if g.Description != "" {
		lines = append(lines, g.Description)
	}
	if g.TargetRole != "" {
		lines = append(lines, "Target role: "+g.TargetRole)
	}
	timeline := fmt.Sprintf("Timeline: %d months", g.TimelineMonths)
	if g.TargetDate != "" {
		timeline += " · target " + g.TargetDate
	}
	return append(lines, timeline)
}

func skillRow(s career.Skill) row {
	meta := proficiencyDots(s.ProficiencyLevel)
	if s.IsVerified {
		meta += " ✓"
	}
	return row{title: s.SkillName, meta: meta, badge: s.Category}
}

func gapRow(g career.SkillGap) row {
	return row{
		title: g.SkillName,
		meta:  fmt.Sprintf("%d → %d (gap %d)", g.CurrentLevel, g.RequiredLevel, g.Gap()),
		badge: g.Priority,
	}
}

func courseRow(c career.Course) row {
	return row{title: c.Title, meta: fmt.Sprintf("★ %.1f", c.Rating), badge: c.Category}
}

func courseDetails(c career.Course) []string {
	lines := []string{}
	if c.Description != "" {
		lines = append(lines, c.Description)
	}
	lines = append(lines, fmt.Sprintf("%s · %s · %dh", orDash(c.Provider), orDash(c.DifficultyLevel), c.DurationHours))
	if len(c.SkillsCovered) > 0 {
		lines = append(lines, "Skills: "+strings.Join(c.SkillsCovered, ", "))
	}
	return lines
}

func mentorRow(m career.Mentor) row {
	return row{title: m.FullName, meta: fmt.Sprintf("%s ★ %.1f", m.Title, m.Rating)}
}

func mentorDetails(m career.Mentor) []string {
	lines := []string{fmt.Sprintf("%s at %s · %d years · %d sessions", orDash(m.Title), orDash(m.Company), m.YearsExperience, m.TotalSessions)}
	if len(m.ExpertiseAreas) > 0 {
		lines = append(lines, "Expertise: "+strings.Join(m.ExpertiseAreas, ", "))
	}
	if m.Bio != "" {
		lines = append(lines, m.Bio)
	}
	return lines
}

func credentialRow(c career.Credential) row {
	return row{title: c.Title, meta: c.Issuer + " · " + c.IssueDate, badge: c.VerificationStatus}
}

func credentialDetails(now func() time.Time) func(career.Credential) []string {
	return func(c career.Credential) []string {
		lines := []string{
			"Type: " + c.CredentialType,
			"Issued by " + c.Issuer + " on " + c.IssueDate,
		}
		switch {
		case c.ExpiryDate == "":
			lines = append(lines, "Does not expire")
		case c.Expired(now()):
			lines = append(lines, "Expired on "+c.ExpiryDate)
		default:
			lines = append(lines, "Expires "+c.ExpiryDate)
		}
		return append(lines, "Verification: "+orDash(c.VerificationStatus))
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

package ui

import (
	"fmt"
	"strings"

	"github.com/five82/navigator/internal/career"
)

func (m Model) renderDashboard(width int) string {
	styles := m.theme.Styles()
	sum := m.ws.Dashboard.Snapshot()
	profile := m.ws.Profile().Snapshot()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(fmt.Sprintf("Welcome back, %s!", sum.Profile.DisplayName())))
	b.WriteString("\n")
	if h := sum.Profile.Headline(); h != "" {
		b.WriteString(styles.MutedText.Render(h))
		b.WriteString("\n")
	}
	if profile.Loaded && sum.NeedsOnboarding() {
		b.WriteString(styles.WarningText.Render("Your profile is incomplete. Run \"navigator onboard\" to set it up."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Recent goals"))
	b.WriteString("\n")
	if len(sum.Goals) == 0 {
		b.WriteString(styles.MutedText.Render("  No goals yet. Press n on the Goals tab to add one."))
		b.WriteString("\n")
	}
	barWidth := min(max(width/4, 10), 30)
	for _, g := range sum.Goals {
		title := truncate(g.Title, max(width-barWidth-10, 10))
		b.WriteString(fmt.Sprintf("  %-*s %s %3d%%\n", max(width-barWidth-10, 10), title, progressBar(g.ProgressPercentage, barWidth), g.ProgressPercentage))
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Bold(true).Render("Top skills"))
	b.WriteString("\n")
	if len(sum.Skills) == 0 {
		b.WriteString(styles.MutedText.Render("  No skills yet."))
		b.WriteString("\n")
	}
	for _, s := range sum.Skills {
		b.WriteString(fmt.Sprintf("  %-24s %s  %s\n", truncate(s.SkillName, 24), proficiencyDots(s.ProficiencyLevel), styles.MutedText.Render(s.Category)))
	}
	b.WriteString("\n")

	b.WriteString(styles.MutedText.Render(m.dashboardCounts()))
	return b.String()
}

func (m Model) dashboardCounts() string {
	completed := 0
	goals := m.ws.Goals.Snapshot().Items
	for _, g := range goals {
		if g.Status == career.GoalCompleted {
			completed++
		}
	}
	return fmt.Sprintf("%d goals (%d completed) · %d skills · %d credentials · %d courses · %d mentors",
		len(goals), completed,
		len(m.ws.Skills.Snapshot().Items),
		len(m.ws.Credentials.Snapshot().Items),
		len(m.ws.Courses.Snapshot().Items),
		len(m.ws.Mentors.Snapshot().Items),
	)
}

package ui

import "strings"

type tab int

const (
	tabDashboard tab = iota
	tabGoals
	tabSkills
	tabCourses
	tabMentors
	tabCredentials
	tabSettings
	tabCount
)

var tabNames = [tabCount]string{
	"Dashboard", "Goals", "Skills", "Courses", "Mentors", "Credentials", "Settings",
}

func (t tab) String() string {
	if t < 0 || t >= tabCount {
		return ""
	}
	return tabNames[t]
}

func (t tab) next() tab { return (t + 1) % tabCount }
func (t tab) prev() tab { return (t + tabCount - 1) % tabCount }

// parseTab maps a saved tab name back to a tab. Unknown names open the dashboard.
func parseTab(name string) tab {
	for i, n := range tabNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return tab(i)
		}
	}
	return tabDashboard
}

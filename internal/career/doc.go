// Package career defines Navigator's record types (goals, skills, skill gaps,
// courses, mentors, credentials, settings and profiles), the collection specs
// that load them, and the flows built on top: goal progress, the dashboard,
// settings and the onboarding wizard.
package career

package career

import (
	"github.com/five82/navigator/internal/collection"
	"github.com/five82/navigator/internal/store"
)

// Store collection names.
const (
	GoalsCollection       = "user_goals"
	SkillsCollection      = "user_skills"
	SkillGapsCollection   = "skill_gaps"
	CoursesCollection     = "courses"
	MentorsCollection     = "mentors"
	CredentialsCollection = "credentials"
	SettingsCollection    = "user_settings"
	ProfilesCollection    = "user_profiles"
)

// Goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

var activeOnly = []store.Filter{{Column: "is_active", Value: true}}

func GoalsSpec() collection.Spec {
	return collection.Spec{
		Name:  GoalsCollection,
		Noun:  "goal",
		Owned: true,
		Order: store.Order{Column: store.CreatedAtColumn, Descending: true},
	}
}

func SkillsSpec() collection.Spec {
	return collection.Spec{
		Name:  SkillsCollection,
		Noun:  "skill",
		Owned: true,
		Order: store.Order{Column: "proficiency_level", Descending: true},
	}
}

// SkillGapsSpec orders by the priority text, descending, so "medium" sorts
// before "low" before "high". Views that want severity order re-sort.
func SkillGapsSpec() collection.Spec {
	return collection.Spec{
		Name:     SkillGapsCollection,
		Noun:     "skill gap",
		Owned:    true,
		ReadOnly: true,
		Order:    store.Order{Column: "priority", Descending: true},
	}
}

func CoursesSpec() collection.Spec {
	return collection.Spec{
		Name:     CoursesCollection,
		Noun:     "course",
		ReadOnly: true,
		Filters:  activeOnly,
		Order:    store.Order{Column: "rating", Descending: true},
	}
}

func MentorsSpec() collection.Spec {
	return collection.Spec{
		Name:     MentorsCollection,
		Noun:     "mentor",
		ReadOnly: true,
		Filters:  activeOnly,
		Order:    store.Order{Column: "rating", Descending: true},
	}
}

func CredentialsSpec() collection.Spec {
	return collection.Spec{
		Name:  CredentialsCollection,
		Noun:  "credential",
		Owned: true,
		Order: store.Order{Column: "issue_date", Descending: true},
	}
}

func SettingsSpec() collection.Spec {
	return collection.Spec{Name: SettingsCollection, Noun: "settings", Owned: true, Limit: 1}
}

func ProfileSpec() collection.Spec {
	return collection.Spec{Name: ProfilesCollection, Noun: "profile", Owned: true, Limit: 1}
}

func base(extra ...store.Column) []store.Column {
	cols := []store.Column{
		{Name: store.IDColumn, Kind: store.KindText},
		{Name: store.CreatedAtColumn, Kind: store.KindText},
	}
	return append(cols, extra...)
}

func owned(extra ...store.Column) []store.Column {
	return base(append([]store.Column{{Name: store.OwnerColumn, Kind: store.KindText}}, extra...)...)
}

func text(name string) store.Column  { return store.Column{Name: name, Kind: store.KindText} }
func list(name string) store.Column  { return store.Column{Name: name, Kind: store.KindStringList} }
func float(name string) store.Column { return store.Column{Name: name, Kind: store.KindFloat} }
func integer(name string, def int) store.Column {
	return store.Column{Name: name, Kind: store.KindInt, Default: def}
}
func boolean(name string, def bool) store.Column {
	return store.Column{Name: name, Kind: store.KindBool, Default: def}
}

// Tables returns the schema used by the SQL and in-memory backends. It
// mirrors the hosted database's tables and defaults.
func Tables() []store.Table {
	return []store.Table{
		{Name: GoalsCollection, Columns: owned(
			text("title"), text("description"), text("target_role"), text("target_date"),
			integer("timeline_months", 12),
			store.Column{Name: "status", Kind: store.KindText, Default: GoalActive},
			integer("progress_percentage", 0),
		)},
		{Name: SkillsCollection, Columns: owned(
			text("skill_name"), text("category"),
			integer("proficiency_level", 3),
			boolean("is_verified", false),
		)},
		{Name: SkillGapsCollection, Columns: owned(
			text("skill_name"),
			integer("current_level", 0), integer("required_level", 0),
			store.Column{Name: "priority", Kind: store.KindText, Default: "medium"},
		)},
		{Name: CoursesCollection, Columns: base(
			text("title"), text("description"), text("provider"), text("category"),
			text("difficulty_level"), integer("duration_hours", 0), float("rating"),
			list("skills_covered"), text("thumbnail_url"), boolean("is_active", true),
		)},
		{Name: MentorsCollection, Columns: base(
			text("full_name"), text("title"), text("company"), list("expertise_areas"),
			integer("years_experience", 0), text("bio"), float("rating"),
			integer("total_sessions", 0), text("profile_picture_url"), boolean("is_active", true),
		)},
		{Name: CredentialsCollection, Columns: owned(
			text("credential_type"), text("title"), text("issuer"),
			text("issue_date"), text("expiry_date"),
			store.Column{Name: "verification_status", Kind: store.KindText, Default: "pending"},
			text("blockchain_hash"),
		)},
		{Name: SettingsCollection, Columns: owned(
			store.Column{Name: "theme", Kind: store.KindText, Default: "light"},
			store.Column{Name: "language", Kind: store.KindText, Default: "en"},
			boolean("notifications_enabled", true),
			boolean("email_notifications", true),
			boolean("sms_notifications", false),
		)},
		{Name: ProfilesCollection, Columns: owned(
			text("full_name"), text("email"), text("phone"),
			text("current_education"), text("field_of_study"),
			store.Column{Name: "graduation_year", Kind: store.KindInt},
			text("job_title"), list("work_experience"), list("career_goals"),
			list("preferred_industries"), text("location_city"), text("location_country"),
			text("updated_at"),
		)},
	}
}

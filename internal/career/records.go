package career

import (
	"errors"
	"strings"
	"time"

	"github.com/five82/navigator/internal/collection"
)

const dateLayout = "2006-01-02"

// Goal is a row of user_goals.
type Goal struct {
	ID                 string `json:"id,omitempty"`
	UserID             string `json:"user_id,omitempty"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	TargetRole         string `json:"target_role"`
	TargetDate         string `json:"target_date,omitempty"`
	TimelineMonths     int    `json:"timeline_months"`
	Status             string `json:"status,omitempty"`
	ProgressPercentage int    `json:"progress_percentage"`
	CreatedAt          string `json:"created_at,omitempty"`
}

func (g Goal) RecordID() string     { return g.ID }
func (g Goal) SearchText() []string { return []string{g.Title, g.Description, g.TargetRole} }
func (g Goal) Facet() string        { return g.Status }

// ParsedCreatedAt returns the creation time or the zero time.
func (g Goal) ParsedCreatedAt() time.Time { return parseTime(g.CreatedAt) }

// Completed reports whether the goal reached 100%.
func (g Goal) Completed() bool { return g.Status == GoalCompleted }

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return collection.Invalid("title", "is required")
	}
	if err := checkDate("target_date", g.TargetDate, false); err != nil {
		return err
	}
	if g.TimelineMonths < 1 || g.TimelineMonths > 60 {
		return collection.Invalid("timeline_months", "must be between 1 and 60")
	}
	if g.ProgressPercentage < 0 || g.ProgressPercentage > 100 {
		return collection.Invalid("progress_percentage", "must be between 0 and 100")
	}
	return nil
}

// Skill is a row of user_skills.
type Skill struct {
	ID               string `json:"id,omitempty"`
	UserID           string `json:"user_id,omitempty"`
	SkillName        string `json:"skill_name"`
	Category         string `json:"category"`
	ProficiencyLevel int    `json:"proficiency_level"`
	IsVerified       bool   `json:"is_verified"`
	CreatedAt        string `json:"created_at,omitempty"`
}

func (s Skill) RecordID() string     { return s.ID }
func (s Skill) SearchText() []string { return []string{s.SkillName} }
func (s Skill) Facet() string        { return s.Category }

func (s Skill) Validate() error {
	if strings.TrimSpace(s.SkillName) == "" {
		return collection.Invalid("skill_name", "is required")
	}
	if strings.TrimSpace(s.Category) == "" {
		return collection.Invalid("category", "is required")
	}
	if s.ProficiencyLevel < 1 || s.ProficiencyLevel > 5 {
		return collection.Invalid("proficiency_level", "must be between 1 and 5")
	}
	return nil
}

// SkillGap is a row of skill_gaps. Gaps are produced elsewhere and are read only here.
type SkillGap struct {
	ID            string `json:"id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	SkillName     string `json:"skill_name"`
	CurrentLevel  int    `json:"current_level"`
	RequiredLevel int    `json:"required_level"`
	Priority      string `json:"priority"`
	CreatedAt     string `json:"created_at,omitempty"`
}

func (g SkillGap) RecordID() string     { return g.ID }
func (g SkillGap) SearchText() []string { return []string{g.SkillName} }
func (g SkillGap) Facet() string        { return g.Priority }

// Gap returns how many levels are missing, never negative.
func (g SkillGap) Gap() int {
	return max(g.RequiredLevel-g.CurrentLevel, 0)
}

// Course is a row of the shared courses catalog.
type Course struct {
	ID              string   `json:"id,omitempty"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Provider        string   `json:"provider"`
	Category        string   `json:"category"`
	DifficultyLevel string   `json:"difficulty_level"`
	DurationHours   int      `json:"duration_hours"`
	Rating          float64  `json:"rating"`
	SkillsCovered   []string `json:"skills_covered"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

func (c Course) RecordID() string     { return c.ID }
func (c Course) SearchText() []string { return []string{c.Title, c.Description} }
func (c Course) Facet() string        { return c.Category }

// Mentor is a row of the shared mentors catalog.
type Mentor struct {
	ID                string   `json:"id,omitempty"`
	FullName          string   `json:"full_name"`
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	ExpertiseAreas    []string `json:"expertise_areas"`
	YearsExperience   int      `json:"years_experience"`
	Bio               string   `json:"bio"`
	Rating            float64  `json:"rating"`
	TotalSessions     int      `json:"total_sessions"`
	ProfilePictureURL string   `json:"profile_picture_url"`
	IsActive          bool     `json:"is_active"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

func (m Mentor) RecordID() string { return m.ID }

func (m Mentor) SearchText() []string {
	return append([]string{m.FullName, m.Title}, m.ExpertiseAreas...)
}

// Facet is empty: the mentor list has no category filter.
func (m Mentor) Facet() string { return "" }

// Credential is a row of credentials.
//
// BlockchainHash is carried through as stored. Navigator never generates one
// and does not verify credentials; see Verify.
type Credential struct {
	ID                 string `json:"id,omitempty"`
	UserID             string `json:"user_id,omitempty"`
	CredentialType     string `json:"credential_type"`
	Title              string `json:"title"`
	Issuer             string `json:"issuer"`
	IssueDate          string `json:"issue_date"`
	ExpiryDate         string `json:"expiry_date,omitempty"`
	VerificationStatus string `json:"verification_status,omitempty"`
	BlockchainHash     string `json:"blockchain_hash,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}

func (c Credential) RecordID() string     { return c.ID }
func (c Credential) SearchText() []string { return []string{c.Title, c.Issuer, c.CredentialType} }
func (c Credential) Facet() string        { return c.CredentialType }

// Expired reports whether the credential has an expiry date before now.
func (c Credential) Expired(now time.Time) bool {
	exp, err := time.Parse(dateLayout, c.ExpiryDate)
	if err != nil {
		return false
	}
	return exp.Before(now.Truncate(24 * time.Hour))
}

func (c Credential) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"credential_type", c.CredentialType},
		{"title", c.Title},
		{"issuer", c.Issuer},
	} {
		if strings.TrimSpace(f.value) == "" {
			return collection.Invalid(f.name, "is required")
		}
	}
	if err := checkDate("issue_date", c.IssueDate, true); err != nil {
		return err
	}
	if err := checkDate("expiry_date", c.ExpiryDate, false); err != nil {
		return err
	}
	if c.ExpiryDate != "" && c.ExpiryDate < c.IssueDate {
		return collection.Invalid("expiry_date", "is before issue_date")
	}
	return nil
}

// ErrVerificationUnsupported is returned by Verify. Credentials are shown with
// the verification_status the store holds; nothing client side can prove them.
var ErrVerificationUnsupported = errors.New("credential verification is not implemented")

// Verify always fails: there is no verification backend.
func (c Credential) Verify() error {
	return ErrVerificationUnsupported
}

// Settings is the single user_settings row of a user.
type Settings struct {
	ID                   string `json:"id,omitempty"`
	UserID               string `json:"user_id,omitempty"`
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	EmailNotifications   bool   `json:"email_notifications"`
	SMSNotifications     bool   `json:"sms_notifications"`
	CreatedAt            string `json:"created_at,omitempty"`
}

func (s Settings) RecordID() string { return s.ID }

// DefaultSettings is used before a user has saved anything.
func DefaultSettings() Settings {
	return Settings{Theme: "light", Language: "en", NotificationsEnabled: true, EmailNotifications: true}
}

func (s Settings) Validate() error {
	switch s.Theme {
	case "light", "dark":
	default:
		return collection.Invalid("theme", "must be light or dark")
	}
	if strings.TrimSpace(s.Language) == "" {
		return collection.Invalid("language", "is required")
	}
	return nil
}

// Profile is the single user_profiles row of a user.
type Profile struct {
	ID                  string   `json:"id,omitempty"`
	UserID              string   `json:"user_id,omitempty"`
	FullName            string   `json:"full_name"`
	Email               string   `json:"email"`
	Phone               string   `json:"phone"`
	CurrentEducation    string   `json:"current_education"`
	FieldOfStudy        string   `json:"field_of_study"`
	GraduationYear      int      `json:"graduation_year,omitempty"`
	JobTitle            string   `json:"job_title"`
	WorkExperience      []string `json:"work_experience"`
	CareerGoals         []string `json:"career_goals"`
	PreferredIndustries []string `json:"preferred_industries"`
	LocationCity        string   `json:"location_city"`
	LocationCountry     string   `json:"location_country"`
	UpdatedAt           string   `json:"updated_at,omitempty"`
	CreatedAt           string   `json:"created_at,omitempty"`
}

func (p Profile) RecordID() string     { return p.ID }
func (p Profile) SearchText() []string { return []string{p.FullName, p.Email} }
func (p Profile) Facet() string        { return "" }

// ContactFields are the profile columns editable from settings.
var ContactFields = []string{"full_name", "email", "phone"}

func (p Profile) Validate() error {
	if e := strings.TrimSpace(p.Email); e != "" {
		local, domain, ok := strings.Cut(e, "@")
		if !ok || local == "" || !strings.Contains(domain, ".") || strings.ContainsAny(e, " \t") {
			return collection.Invalid("email", "must be an email address")
		}
	}
	for _, r := range p.Phone {
		if !strings.ContainsRune("0123456789+-() ", r) {
			return collection.Invalid("phone", "may only contain digits, spaces and + - ( )")
		}
	}
	return nil
}

// SetContact returns p with the contact field named by field set to value.
func (p Profile) SetContact(field, value string) (Profile, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(field) {
	case "full_name", "name":
		p.FullName = value
	case "email":
		p.Email = value
	case "phone":
		p.Phone = value
	default:
		return p, collection.Invalid(field, "unknown profile field; use one of "+strings.Join(ContactFields, ", "))
	}
	return p, p.Validate()
}

// DisplayName returns FullName, or "there" when it is blank.
func (p Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return "there"
}

// Headline describes the user's studies, e.g. "Bachelor's in Computer Science".
// It is empty unless both parts are known.
func (p Profile) Headline() string {
	if p.CurrentEducation == "" || p.FieldOfStudy == "" {
		return ""
	}
	return p.CurrentEducation + " in " + p.FieldOfStudy
}

func checkDate(field, value string, required bool) error {
	if strings.TrimSpace(value) == "" {
		if required {
			return collection.Invalid(field, "is required")
		}
		return nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return collection.Invalid(field, "must be a date (YYYY-MM-DD)")
	}
	return nil
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999-07", dateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

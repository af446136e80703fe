package career

import (
	"context"
	"errors"
	"time"

	"github.com/five82/navigator/internal/collection"
	"github.com/five82/navigator/internal/store"
)

// Language is a selectable interface language.
type Language struct {
	Code string
	Name string
}

// Languages lists the supported language codes in display order.
var Languages = []Language{
	{"en", "English"},
	{"hi", "Hindi"},
	{"ta", "Tamil"},
	{"te", "Telugu"},
	{"bn", "Bengali"},
	{"mr", "Marathi"},
}

// NextLanguage returns the language after code, wrapping around. Unknown codes
// go to the first language.
func NextLanguage(code string) string {
	for i, l := range Languages {
		if l.Code == code {
			return Languages[(i+1)%len(Languages)].Code
		}
	}
	return Languages[0].Code
}

// LanguageName returns the display name for code, or code itself.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// CurrentSettings returns the loaded settings row or the defaults when the
// user has none yet.
func CurrentSettings(c *collection.Controller[Settings]) Settings {
	if items := c.Snapshot().Items; len(items) > 0 {
		return items[0]
	}
	return DefaultSettings()
}

// SaveSettings validates s and writes it. The user has at most one settings
// row: it is updated in place when s carries its id and inserted otherwise.
func SaveSettings(ctx context.Context, c *collection.Controller[Settings], s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.ID == "" {
		return c.Create(ctx, s)
	}
	patch, err := patchOf(s)
	if err != nil {
		return err
	}
	return c.Update(ctx, s.ID, patch)
}

// CurrentProfile returns the loaded profile, if any.
func CurrentProfile(c *collection.Controller[Profile]) (Profile, bool) {
	if items := c.Snapshot().Items; len(items) > 0 {
		return items[0], true
	}
	return Profile{}, false
}

// SaveProfile validates p and writes the user's profile row, stamping
// updated_at.
func SaveProfile(ctx context.Context, c *collection.Controller[Profile], p Profile, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = now.UTC().Format(time.RFC3339)
	if p.ID == "" {
		return c.Create(ctx, p)
	}
	patch, err := patchOf(p)
	if err != nil {
		return err
	}
	return c.Update(ctx, p.ID, patch)
}

// patchOf encodes rec without the columns a patch may not carry.
func patchOf(rec any) (store.Row, error) {
	row, err := store.Encode(rec)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{store.IDColumn, store.OwnerColumn, store.CreatedAtColumn} {
		delete(row, col)
	}
	if len(row) == 0 {
		return nil, errors.New("nothing to save")
	}
	return row, nil
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/collection"
)

var settingKeys = []string{"theme", "language", "notifications", "email", "sms"}

func (r *runner) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change account settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if _, err := ws.Settings.Load(ctx); err != nil {
					return err
				}
				s := career.CurrentSettings(ws.Settings)
				return renderTable(cmd.OutOrStdout(), []string{"Setting", "Value"}, [][]string{
					{"theme", s.Theme},
					{"language", s.Language + " (" + career.LanguageName(s.Language) + ")"},
					{"notifications", onOff(s.NotificationsEnabled)},
					{"email", onOff(s.EmailNotifications)},
					{"sms", onOff(s.SMSNotifications)},
				})
			})
		},
	}

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting (theme, language, notifications, email, sms)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: settingKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if _, err := ws.Settings.Load(ctx); err != nil {
					return err
				}
				s, err := applySetting(career.CurrentSettings(ws.Settings), args[0], args[1])
				if err != nil {
					return err
				}
				if err := career.SaveSettings(ctx, ws.Settings, s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s.\n", strings.ToLower(args[0]))
				return nil
			})
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}

func (r *runner) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your name and contact details",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if _, err := ws.Profile().Load(ctx); err != nil {
					return err
				}
				p, _ := career.CurrentProfile(ws.Profile())
				return renderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, [][]string{
					{"full_name", p.FullName},
					{"email", p.Email},
					{"phone", p.Phone},
					{"education", p.Headline()},
					{"job_title", p.JobTitle},
					{"location", strings.Trim(p.LocationCity+", "+p.LocationCountry, ", ")},
				})
			})
		},
	}

	set := &cobra.Command{
		Use:       "set <field> <value>",
		Short:     "Change a contact field (full_name, email, phone)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: career.ContactFields,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if _, err := ws.Profile().Load(ctx); err != nil {
					return err
				}
				current, _ := career.CurrentProfile(ws.Profile())
				p, err := current.SetContact(args[0], args[1])
				if err != nil {
					return err
				}
				if err := career.SaveProfile(ctx, ws.Profile(), p, r.now()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s.\n", strings.ToLower(args[0]))
				return nil
			})
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}

func applySetting(s career.Settings, key, value string) (career.Settings, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "theme":
		s.Theme = strings.ToLower(value)
	case "language":
		s.Language = strings.ToLower(value)
		if career.LanguageName(s.Language) == s.Language {
			return s, collection.Invalid("language", "unsupported language "+value)
		}
	case "notifications", "email", "sms":
		b, err := parseSwitch(value)
		if err != nil {
			return s, collection.Invalid(key, "must be on or off")
		}
		switch strings.ToLower(key) {
		case "notifications":
			s.NotificationsEnabled = b
		case "email":
			s.EmailNotifications = b
		default:
			s.SMSNotifications = b
		}
	default:
		return s, collection.Invalid(key, "unknown setting; use one of "+strings.Join(settingKeys, ", "))
	}
	return s, nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

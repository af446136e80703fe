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

func (r *runner) goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal"},
		Short:   "List and manage career goals",
	}

	var search, status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your goals, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				goals, err := load(ctx, ws.Goals, search, status)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(goals))
				for _, g := range goals {
					rows = append(rows, []string{g.ID, g.Title, g.TargetRole, strconv.Itoa(g.ProgressPercentage) + "%", g.Status})
				}
				return printList(cmd, "goals", []string{"ID", "Title", "Target role", "Progress", "Status"}, rows)
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "only goals containing this text")
	list.Flags().StringVar(&status, "status", "", "only goals with this status (active, completed)")

	var g career.Goal
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := career.NewGoal(args[0])
			goal.Description, goal.TargetRole, goal.TargetDate = g.Description, g.TargetRole, g.TargetDate
			goal.TimelineMonths = g.TimelineMonths
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if err := ws.Goals.Create(ctx, goal); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added goal %q.\n", goal.Title)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&g.Description, "description", "d", "", "what the goal is about")
	add.Flags().StringVar(&g.TargetRole, "role", "", "role you are aiming for")
	add.Flags().StringVar(&g.TargetDate, "target-date", "", "target date (YYYY-MM-DD)")
	add.Flags().IntVar(&g.TimelineMonths, "months", 12, "timeline in months (1-60)")

	progress := &cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set a goal's progress; 100 marks it completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return collection.Invalid("progress_percentage", "must be a whole number")
			}
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if err := career.SetProgress(ctx, ws.Goals, args[0], pct); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Progress set to %d%%.\n", min(max(pct, 0), 100))
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, progress, removeCmd(r, func(ws *career.Workspace) *collection.Controller[career.Goal] {
		return ws.Goals
	}))
	return cmd
}

func (r *runner) skillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "skills",
		Aliases: []string{"skill"},
		Short:   "List and manage skills and skill gaps",
	}

	var search, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your skills, strongest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				skills, err := load(ctx, ws.Skills, search, category)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(skills))
				for _, s := range skills {
					verified := ""
					if s.IsVerified {
						verified = "yes"
					}
					rows = append(rows, []string{s.ID, s.SkillName, s.Category, fmt.Sprintf("%d/5", s.ProficiencyLevel), verified})
				}
				return printList(cmd, "skills", []string{"ID", "Skill", "Category", "Level", "Verified"}, rows)
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "only skills containing this text")
	list.Flags().StringVarP(&category, "category", "c", "", "only skills in this category")

	var s career.Skill
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a skill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skill := career.Skill{SkillName: args[0], Category: s.Category, ProficiencyLevel: s.ProficiencyLevel}
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if err := ws.Skills.Create(ctx, skill); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added skill %q.\n", skill.SkillName)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&s.Category, "category", "c", "", "skill category (required)")
	add.Flags().IntVarP(&s.ProficiencyLevel, "level", "l", 3, "proficiency 1-5")

	gaps := &cobra.Command{
		Use:   "gaps",
		Short: "List skill gaps for your target roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				gaps, err := load(ctx, ws.Gaps, "", "")
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(gaps))
				for _, g := range gaps {
					rows = append(rows, []string{g.SkillName, strconv.Itoa(g.CurrentLevel), strconv.Itoa(g.RequiredLevel), strconv.Itoa(g.Gap()), g.Priority})
				}
				return printList(cmd, "skill gaps", []string{"Skill", "Current", "Required", "Gap", "Priority"}, rows)
			})
		},
	}

	var months int
	roadmap := &cobra.Command{
		Use:   "roadmap [role]",
		Short: "Plan the skills to learn for a role, month by month",
		Long: "Without a role the target role of your newest active goal is used. Curated roles: " +
			strings.Join(career.RoadmapRoles(), ", ") + ".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				skills, err := ws.Skills.Load(ctx)
				if err != nil {
					return err
				}
				role := ""
				if len(args) == 1 {
					role = args[0]
				} else {
					goals, err := ws.Goals.Load(ctx)
					if err != nil {
						return err
					}
					role = career.TargetRole(goals)
				}
				if strings.TrimSpace(role) == "" {
					return collection.Invalid("target_role", "name a role or set one on a goal")
				}

				rm := career.BuildRoadmap(role, months, career.SkillNames(skills))
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Roadmap for %s\n", rm.Role)
				if len(rm.Missing) == 0 {
					fmt.Fprintln(out, "You already have every required skill.")
				} else {
					fmt.Fprintf(out, "Missing skills: %s\n", strings.Join(rm.Missing, ", "))
				}
				rows := make([][]string, 0, len(rm.Steps))
				for _, step := range rm.Steps {
					resource := step.Resource
					if step.Kind != career.StepLearn {
						resource = ""
					}
					rows = append(rows, []string{strconv.Itoa(step.Month), step.Describe(), resource})
				}
				return printList(cmd, "roadmap steps", []string{"Month", "Step", "Resource"}, rows)
			})
		},
	}
	roadmap.Flags().IntVarP(&months, "months", "m", 6, "length of the plan in months (up to 60)")

	cmd.AddCommand(list, add, gaps, roadmap, removeCmd(r, func(ws *career.Workspace) *collection.Controller[career.Skill] {
		return ws.Skills
	}))
	return cmd
}

func (r *runner) coursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Browse the course catalog",
	}

	var search, category string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active courses, best rated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				courses, err := load(ctx, ws.Courses, search, category)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(courses))
				for _, c := range courses {
					rows = append(rows, []string{c.Title, c.Provider, c.Category, c.DifficultyLevel, fmt.Sprintf("%dh", c.DurationHours), fmt.Sprintf("%.1f", c.Rating)})
				}
				return printList(cmd, "courses", []string{"Title", "Provider", "Category", "Level", "Duration", "Rating"}, rows)
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "only courses containing this text")
	list.Flags().StringVarP(&category, "category", "c", "", "only courses in this category")

	cmd.AddCommand(list)
	return cmd
}

func (r *runner) mentorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mentors",
		Aliases: []string{"mentor"},
		Short:   "Browse mentors",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List active mentors, best rated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				mentors, err := load(ctx, ws.Mentors, search, "")
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(mentors))
				for _, m := range mentors {
					rows = append(rows, []string{m.FullName, m.Title, m.Company, strings.Join(m.ExpertiseAreas, ", "), fmt.Sprintf("%.1f", m.Rating)})
				}
				return printList(cmd, "mentors", []string{"Name", "Title", "Company", "Expertise", "Rating"}, rows)
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match name, title or expertise area")

	cmd.AddCommand(list)
	return cmd
}

func (r *runner) credentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"credential", "creds"},
		Short:   "List and manage certificates and credentials",
	}

	var search, kind string
	list := &cobra.Command{
		Use:   "list",
		Short: "List your credentials, most recently issued first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				creds, err := load(ctx, ws.Credentials, search, kind)
				if err != nil {
					return err
				}
				now := r.now()
				rows := make([][]string, 0, len(creds))
				for _, c := range creds {
					expiry := c.ExpiryDate
					if c.Expired(now) {
						expiry += " (expired)"
					}
					rows = append(rows, []string{c.ID, c.Title, c.Issuer, c.CredentialType, c.IssueDate, expiry, c.VerificationStatus})
				}
				return printList(cmd, "credentials", []string{"ID", "Title", "Issuer", "Type", "Issued", "Expires", "Status"}, rows)
			})
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "match title, issuer or type")
	list.Flags().StringVarP(&kind, "type", "t", "", "only credentials of this type")

	var c career.Credential
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred := c
			cred.Title = args[0]
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if err := ws.Credentials.Create(ctx, cred); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added credential %q.\n", cred.Title)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&c.CredentialType, "type", "t", "certification", "credential type")
	add.Flags().StringVar(&c.Issuer, "issuer", "", "issuing organization (required)")
	add.Flags().StringVar(&c.IssueDate, "issued", "", "issue date YYYY-MM-DD (required)")
	add.Flags().StringVar(&c.ExpiryDate, "expires", "", "expiry date YYYY-MM-DD")

	cmd.AddCommand(list, add, removeCmd(r, func(ws *career.Workspace) *collection.Controller[career.Credential] {
		return ws.Credentials
	}))
	return cmd
}

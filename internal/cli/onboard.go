package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/collection"
)

func (r *runner) onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Set up your profile: education, experience and goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				if ws.Owner() == "" {
					return collection.ErrSignedOut
				}
				p := &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
				w := career.NewWizard(r.now())
				if err := p.run(w); err != nil {
					return err
				}
				if err := w.Submit(ctx, ws.Profile(), r.now()); err != nil {
					return err
				}
				fmt.Fprintln(p.out, "Profile saved. Welcome aboard!")
				return nil
			})
		},
	}
}

// prompter reads wizard answers line by line.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p *prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	if line = strings.TrimSpace(line); line == "" {
		return def, nil
	}
	return line, nil
}

// askList collects entries until a blank line.
func (p *prompter) askList(label string, add func(string) bool) error {
	fmt.Fprintf(p.out, "%s (one per line, blank to finish)\n", label)
	for {
		v, err := p.ask("  +", "")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !add(v) {
			return nil
		}
	}
}

func (p *prompter) run(w *career.Wizard) error {
	fmt.Fprintln(p.out, "Step 1 of 3: education")
	for i, level := range career.EducationLevels {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, level)
	}
	for {
		edu, err := p.ask("Education level", "")
		if err != nil {
			return err
		}
		w.CurrentEducation = educationLevel(edu)
		if w.FieldOfStudy, err = p.ask("Field of study", w.FieldOfStudy); err != nil {
			return err
		}
		year, err := p.ask("Graduation year", strconv.Itoa(w.GraduationYear))
		if err != nil {
			return err
		}
		w.GraduationYear, _ = strconv.Atoi(year)
		err = w.Next()
		if err == nil {
			break
		}
		if !collection.IsValidation(err) {
			return err
		}
		fmt.Fprintf(p.out, "  %v\n", err)
	}

	fmt.Fprintln(p.out, "Step 2 of 3: experience")
	var err error
	if w.JobTitle, err = p.ask("Current job title", w.JobTitle); err != nil {
		return err
	}
	if w.LocationCity, err = p.ask("City", w.LocationCity); err != nil {
		return err
	}
	if w.LocationCountry, err = p.ask("Country", w.LocationCountry); err != nil {
		return err
	}
	if err := w.Next(); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Step 3 of 3: goals")
	if err := p.askList("Career goals", w.AddGoal); err != nil {
		return err
	}
	return p.askList("Preferred industries", w.AddIndustry)
}

// educationLevel accepts a menu number or a level name in any case.
func educationLevel(v string) string {
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(career.EducationLevels) {
		return career.EducationLevels[n-1]
	}
	if i := slices.IndexFunc(career.EducationLevels, func(l string) bool { return strings.EqualFold(l, v) }); i >= 0 {
		return career.EducationLevels[i]
	}
	return v
}

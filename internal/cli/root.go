package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/navigator/internal/app"
	"github.com/five82/navigator/internal/career"
	"github.com/five82/navigator/internal/collection"
)

// EnvFunc opens the environment a command runs in.
type EnvFunc func(ctx context.Context, opts app.Options) (*app.Env, error)

// Deps are the seams commands run through. Zero fields use the real
// implementations.
type Deps struct {
	OpenEnv EnvFunc
	RunTUI  func(ctx context.Context, opts app.Options) error
	Now     func() time.Time
}

type runner struct {
	opts    app.Options
	openEnv EnvFunc
	runTUI  func(ctx context.Context, opts app.Options) error
	now     func() time.Time
}

// NewRootCmd builds the navigator command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	r := &runner{openEnv: deps.OpenEnv, runTUI: deps.RunTUI, now: deps.Now}
	if r.openEnv == nil {
		r.openEnv = app.Bootstrap
	}
	if r.runTUI == nil {
		r.runTUI = app.Run
	}
	if r.now == nil {
		r.now = time.Now
	}

	root := &cobra.Command{
		Use:           "navigator",
		Short:         "Career planning in the terminal",
		Long:          "Navigator tracks career goals, skills and credentials and browses courses and mentors.\nRun without a command to open the interactive interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.runTUI(cmd.Context(), r.opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&r.opts.ConfigPath, "config", "", "config file (default ~/.config/navigator/config.toml)")
	flags.StringVar(&r.opts.PrefsPath, "prefs", "", "UI preferences file (default ~/.config/navigator/prefs.toml)")
	flags.BoolVarP(&r.opts.Verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&r.opts.LogStderr, "log-stderr", false, "log to stderr instead of the log file")

	root.AddCommand(
		r.goalsCmd(),
		r.skillsCmd(),
		r.coursesCmd(),
		r.mentorsCmd(),
		r.credentialsCmd(),
		r.settingsCmd(),
		r.profileCmd(),
		r.onboardCmd(),
		r.loginCmd(),
		r.logoutCmd(),
		r.whoamiCmd(),
		r.migrateCmd(),
		r.logsCmd(),
	)
	return root
}

// withEnv opens the environment for the duration of fn.
func (r *runner) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *app.Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := r.openEnv(ctx, r.opts)
	if err != nil {
		return err
	}
	defer env.Close()
	if err := fn(ctx, env); err != nil {
		env.Log.Debug("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
		return signInHint(err)
	}
	return nil
}

// withWorkspace is withEnv plus the workspace of the current user.
func (r *runner) withWorkspace(cmd *cobra.Command, fn func(ctx context.Context, ws *career.Workspace) error) error {
	return r.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
		ws, err := env.Workspace(ctx)
		if err != nil {
			return err
		}
		return fn(ctx, ws)
	})
}

func signInHint(err error) error {
	if errors.Is(err, collection.ErrSignedOut) {
		return fmt.Errorf("%w: run \"navigator login\" first", err)
	}
	return err
}

type listable interface {
	collection.Record
	collection.Searchable
}

// load fills c and returns the rows matching term and category.
func load[T listable](ctx context.Context, c *collection.Controller[T], term, category string) ([]T, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	return collection.DeriveView(items, term, category), nil
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// printList renders rows as a table, or a short note when there are none.
func printList(cmd *cobra.Command, noun string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s.\n", noun)
		return nil
	}
	return renderTable(cmd.OutOrStdout(), header, rows)
}

// promptConfirmer asks on the command's terminal. It remembers the answer so
// the caller can tell a declined delete from a completed one.
type promptConfirmer struct {
	in       *bufio.Reader
	out      io.Writer
	answered bool
	yes      bool
}

func newConfirmer(cmd *cobra.Command, assumeYes bool) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout(), yes: assumeYes}
}

func (p *promptConfirmer) Confirm(prompt string) bool {
	if p.yes {
		p.answered = true
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	answer, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		p.answered = true
	}
	return p.answered
}

// removeCmd builds the "rm <id>" subcommand for an owned collection.
func removeCmd[T collection.Record](r *runner, ctrl func(*career.Workspace) *collection.Controller[T]) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withWorkspace(cmd, func(ctx context.Context, ws *career.Workspace) error {
				confirm := newConfirmer(cmd, yes)
				if err := ctrl(ws).Delete(ctx, args[0], confirm); err != nil {
					return err
				}
				if confirm.answered {
					fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/navigator/internal/app"
	"github.com/five82/navigator/internal/logging"
	"github.com/five82/navigator/internal/logtail"
)

var errNoSignIn = errors.New("this backend has a fixed user; set user_id in the config instead")

func (r *runner) loginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an access token",
		Long:  "Stores the access token in the system keyring. Without --token the token is read from standard input.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				if env.Keyring == nil {
					return errNoSignIn
				}
				if token == "" {
					fmt.Fprint(cmd.OutOrStdout(), "Access token: ")
					line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					token = strings.TrimSpace(line)
				}
				sess, err := env.Keyring.Save(token)
				if err != nil {
					return err
				}
				env.Log.Info("signed in", zap.String("user_id", sess.UserID))
				who := sess.UserID
				if sess.Email != "" {
					who = sess.Email
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", who)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "access token (JWT)")
	return cmd
}

func (r *runner) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				if env.Keyring == nil {
					return errNoSignIn
				}
				if err := env.Keyring.Clear(); err != nil {
					return err
				}
				env.Log.Info("signed out")
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func (r *runner) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				sess, err := env.Session(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !sess.SignedIn() {
					fmt.Fprintf(out, "Not signed in (%s backend).\n", env.Config.Backend)
					return nil
				}
				fmt.Fprintf(out, "%s (%s backend)\n", sess.UserID, env.Config.Backend)
				if sess.Email != "" {
					fmt.Fprintf(out, "email:   %s\n", sess.Email)
				}
				if !sess.ExpiresAt.IsZero() {
					fmt.Fprintf(out, "expires: %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}

func (r *runner) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables (sqlite and postgres backends)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				if err := env.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
				return nil
			})
		},
	}
}

func (r *runner) logsCmd() *cobra.Command {
	var (
		lines int
		level string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			minLevel, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			return r.withEnv(cmd, func(ctx context.Context, env *app.Env) error {
				entries, err := logtail.Tail(env.Config.LogPath(), lines, minLevel)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, e := range entries {
					if raw {
						fmt.Fprintln(out, e.Raw)
					} else {
						fmt.Fprintln(out, e.Format())
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of entries; 0 for all")
	cmd.Flags().StringVarP(&level, "level", "l", "debug", "minimum level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the JSON lines as written")
	return cmd
}

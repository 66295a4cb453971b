// Package cli implements the frontline command tree: the long-running
// serve command plus one-shot admin commands that grant VIP, search
// players, manage links and print the health report.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/frontline-pass/frontline/internal/api"
	"github.com/frontline-pass/frontline/internal/vip"
)

// Services is what the commands operate on.
type Services struct {
	Vip     api.VipService
	Players api.PlayerSearcher
	Health  api.HealthReporter

	// Serve runs the daemon until ctx ends. Nil for one-shot commands that
	// never call it.
	Serve func(ctx context.Context) error
	Close func() error
}

// Loader wires Services from the environment. envFile may be empty.
type Loader func(ctx context.Context, envFile string) (*Services, error)

type options struct {
	envFile string
	load    Loader
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the daemon.
func NewRootCommand(version string, load Loader) *cobra.Command {
	opts := &options{load: load}

	cmd := &cobra.Command{
		Use:           "frontline",
		Short:         "Grant temporary VIP on a game server over RCON or its HTTP admin API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.serve(cmd)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newGrantCommand(opts))
	cmd.AddCommand(newRequestCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newRegisterCommand(opts))
	cmd.AddCommand(newPlayerCommand(opts))
	cmd.AddCommand(newOwnerCommand(opts))
	cmd.AddCommand(newHealthCommand(opts))
	cmd.AddCommand(newDurationCommand(opts))

	return cmd
}

// with loads the services, runs fn and closes them.
func (o *options) with(cmd *cobra.Command, fn func(ctx context.Context, svc *Services) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := o.load(ctx, o.envFile)
	if err != nil {
		return err
	}
	if svc.Close != nil {
		defer func() {
			if cerr := svc.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	return fn(ctx, svc)
}

func (o *options) serve(cmd *cobra.Command) error {
	return o.with(cmd, func(ctx context.Context, svc *Services) error {
		if svc.Serve == nil {
			return errors.New("serve is not available")
		}
		return svc.Serve(ctx)
	})
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API, telemetry and moderation notifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.serve(cmd)
		},
	}
}

func newGrantCommand(opts *options) *cobra.Command {
	var (
		comment   string
		name      string
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "grant <player-id>",
		Short: "Grant VIP to a player id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := vip.GrantRequest{
				PlayerID:   args[0],
				Comment:    comment,
				PlayerName: name,
			}
			if expiresIn < 0 {
				return fmt.Errorf("--expires-in must be positive, got %s", expiresIn)
			}
			if expiresIn > 0 {
				req.Expiration = time.Now().UTC().Add(expiresIn).Format(time.RFC3339)
			}

			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				outcome, err := svc.Vip.Grant(ctx, req)
				if err != nil {
					return err
				}
				printGrant(cmd.OutOrStdout(), outcome)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&comment, "comment", "c", "", "comment recorded with the grant")
	flags.StringVarP(&name, "name", "n", "", "player name sent to the HTTP API")
	flags.DurationVarP(&expiresIn, "expires-in", "e", 0, "grant length (defaults to the configured VIP duration)")
	return cmd
}

func newRequestCommand(opts *options) *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "request <user-id>",
		Short: "Grant VIP to the player linked to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				outcome, err := svc.Vip.RequestVip(ctx, args[0], displayName)
				if err != nil {
					return err
				}
				printGrant(cmd.OutOrStdout(), outcome)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "name used in the grant comment")
	return cmd
}

func newSearchCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <prefix>",
		Short: "Search players by name prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}
			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				printPlayers(cmd.OutOrStdout(), svc.Players.SearchPlayers(ctx, args[0], limit))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 25, "maximum number of results")
	return cmd
}

func newRegisterCommand(opts *options) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register <user-id> <player-id>",
		Short: "Link a user to a player id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				out, err := svc.Vip.Register(ctx, args[0], args[1], name)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "Linked %s to %s", args[0], out.PlayerID)
				if out.PlayerName != "" {
					fmt.Fprintf(w, " (%s)", out.PlayerName)
				}
				fmt.Fprintln(w)
				if out.PreviousPlayerID != "" {
					fmt.Fprintf(w, "Replaced previous link %s\n", out.PreviousPlayerID)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "player name (looked up when omitted)")
	return cmd
}

func newPlayerCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "player <user-id>",
		Short: "Show the player linked to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				link, err := svc.Vip.Player(ctx, args[0])
				if err != nil {
					return err
				}
				printLink(cmd.OutOrStdout(), link)
				return nil
			})
		},
	}
}

func newOwnerCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "owner <player-id>",
		Short: "Show which user a player id is linked to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				link, err := svc.Vip.PlayerOwner(ctx, args[0])
				if err != nil {
					return err
				}
				printLink(cmd.OutOrStdout(), link)
				return nil
			})
		},
	}
}

func newHealthCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the health report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				report, err := svc.Health.Report(ctx)
				if err != nil {
					return err
				}
				printHealth(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func newDurationCommand(opts *options) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "duration [hours]",
		Short: "Show, set or reset the VIP duration in hours",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset && len(args) == 1 {
				return errors.New("--reset does not take an hours argument")
			}

			var hours float64
			if len(args) == 1 {
				h, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid hours %q: %w", args[0], err)
				}
				hours = h
			}

			return opts.with(cmd, func(ctx context.Context, svc *Services) error {
				switch {
				case reset:
					h, err := svc.Vip.ResetDuration(ctx)
					if err != nil {
						return err
					}
					hours = h
				case len(args) == 1:
					if err := svc.Vip.SetDuration(ctx, hours); err != nil {
						return err
					}
				default:
					hours = svc.Vip.Duration(ctx)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "VIP duration: %s hours\n", vip.FormatHours(hours))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "restore the configured default duration")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactor"
	"github.com/AnatoleLucet/reactor/stream"
)

type role string

const (
	roleAdmin role = "admin"
	roleUser  role = "user"
	roleGuest role = "guest"
)

type user struct {
	ID          int
	Username    string
	Role        role
	Permissions []string
}

var users = map[string]*user{
	"admin": {1, "admin", roleAdmin, []string{"read", "write", "delete", "manage-users"}},
	"user":  {2, "user", roleUser, []string{"read", "write"}},
	"guest": {3, "guest", roleGuest, []string{"read"}},
}

var errInvalidCredentials = errors.New("invalid credentials")

// route is a page and the check guarding it.
type route struct {
	Path  string
	Allow func(u *user) bool
}

var routes = []route{
	{"/dashboard", func(u *user) bool { return u != nil }},
	{"/editor", func(u *user) bool { return u != nil && slices.Contains(u.Permissions, "write") }},
	{"/admin", func(u *user) bool { return u != nil && u.Role == roleAdmin }},
}

func guardCmd(e *env) *cobra.Command {
	var (
		every   time.Duration
		latency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "guard ACTION...",
		Short: "Replay logins and logouts against route guards",
		Long: `Run each ACTION, one every --every: a username logs in (after
--latency), "logout" logs out. Known users are admin, user and guest.

Route access is derived from the current user and printed whenever
it changes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGuard(cmd, e, args, every, latency)
		},
	}

	cmd.Flags().DurationVar(&every, "every", 2*time.Second, "Delay between actions")
	cmd.Flags().DurationVar(&latency, "latency", time.Second, "Simulated login latency")

	return cmd
}

func runGuard(cmd *cobra.Command, e *env, actions []string, every, latency time.Duration) error {
	clk := e.driver()
	out := printer{w: cmd.OutOrStdout(), clk: clk}
	rt := e.runtime("guard")

	var (
		owner  *reactor.Owner
		runErr error
	)
	rt.Run(func() {
		owner = reactor.NewOwner()
		runErr = owner.Run(func() error {
			current := reactor.NewCell[*user](nil, reactor.Name[*user]("current-user"))

			who := reactor.NewDerived(func() string {
				if u := current.Read(); u != nil {
					return u.Username + " (" + string(u.Role) + ")"
				}
				return "anonymous"
			})

			access := reactor.NewDerived(func() string {
				u := current.Read()

				parts := make([]string, len(routes))
				for i, r := range routes {
					verdict := "deny"
					if r.Allow(u) {
						verdict = "allow"
					}
					parts[i] = r.Path + "=" + verdict
				}
				return strings.Join(parts, " ")
			})

			reactor.NewNamedTask("guard", func() {
				out.say("%s: %s", who.Read(), access.Read())
			})

			login := func(name string) stream.Stream[*user] {
				return stream.TryMap(stream.After(clk, latency, name), func(name string) (*user, error) {
					u, ok := users[strings.ToLower(name)]
					if !ok {
						return nil, fmt.Errorf("%w for %q", errInvalidCredentials, name)
					}
					return u, nil
				})
			}

			for i, action := range actions {
				clk.ScheduleAt(time.Duration(i)*every, func() {
					if action == "logout" {
						out.say("logout")
						current.Write(nil)
						return
					}

					out.say("login %s", action)
					login(action).Subscribe(stream.Funcs[*user]{
						OnNext: func(u *user) { current.Write(u) },
						OnError: func(err error) {
							out.say("login failed: %v", errors.Unwrap(err))
						},
					})
				})
			}

			return nil
		})
	})
	defer owner.Dispose()
	if runErr != nil {
		return runErr
	}

	if err := clk.drive(cmd.Context()); err != nil {
		return err
	}

	logStats("guard", rt)
	return e.report(cmd.OutOrStdout())
}

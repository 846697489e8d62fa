package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactor"
	"github.com/AnatoleLucet/reactor/stream"
)

type article struct {
	ID          int
	Title       string
	Description string
	Category    string
}

var articles = []article{
	{1, "Angular Guards", "Protecting routes with guards", "Security"},
	{2, "RxJS Operators", "Advanced reactive programming", "RxJS"},
	{3, "debounceTime", "Delay emissions by time", "RxJS"},
	{4, "switchMap", "Switch to new observable", "RxJS"},
	{5, "combineLatest", "Combine multiple streams", "RxJS"},
	{6, "CanActivate", "Route activation guard", "Guards"},
	{7, "CanDeactivate", "Route deactivation guard", "Guards"},
	{8, "Authentication", "User authentication flow", "Security"},
	{9, "Authorization", "Role-based access control", "Security"},
	{10, "shareReplay", "Share and replay values", "RxJS"},
}

var errInvalidQuery = errors.New("invalid query")

type searchPage struct {
	Term    string
	Results []article
}

type searchOptions struct {
	gap      time.Duration
	debounce time.Duration
	latency  time.Duration
}

func searchCmd(e *env) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search TERM...",
		Short: "Simulate typing into a type-ahead search box",
		Long: `Type each TERM into a search box, one every --gap.

Queries are debounced, deduplicated and looked up with a simulated
latency; a newer query cancels the lookup of an older one.
Terms starting with "!" fail the lookup.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, e, args, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.gap, "gap", 100*time.Millisecond, "Delay between typed terms")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "Debounce window")
	cmd.Flags().DurationVar(&opts.latency, "latency", 500*time.Millisecond, "Simulated lookup latency")

	return cmd
}

func runSearch(cmd *cobra.Command, e *env, terms []string, opts searchOptions) error {
	clk := e.driver()
	out := printer{w: cmd.OutOrStdout(), clk: clk}
	rt := e.runtime("search")

	var sub *stream.Subscription
	rt.Run(func() {
		query := reactor.NewCell("", reactor.Name[string]("query"))
		loading := reactor.NewCell(false, reactor.Name[bool]("loading"))

		first := true
		reactor.NewNamedTask("loading", func() {
			busy := loading.Read()
			if first {
				first = false
				return
			}

			if busy {
				out.say("searching")
			} else {
				out.say("idle")
			}
		})

		typed := stream.Filter(reactor.Watch(query), func(q string) bool { return q != "" })
		typed = stream.Tap(typed, func(string) { loading.Write(true) })

		queries := stream.Distinct(stream.Debounce(typed, clk, opts.debounce))
		queries = stream.Tap(queries, func(q string) {
			slog.Debug("search: lookup", "query", q)
			out.say("query %q", q)
		})

		pages := stream.SwitchLatest(queries, func(q string) stream.Stream[searchPage] {
			return lookup(clk, q, opts.latency)
		})
		pages = stream.Tap(pages, func(searchPage) { loading.Write(false) })
		pages = stream.CatchErr(pages, func(err error) stream.Stream[searchPage] {
			slog.Warn("search: lookup failed", "err", err)
			out.say("lookup failed: %v", errors.Unwrap(err))
			loading.Write(false)
			return stream.Of(searchPage{})
		})

		var found *reactor.Cell[searchPage]
		found, sub = reactor.FromStream(pages, searchPage{})

		reactor.NewNamedTask("results", func() {
			page := found.Read()
			if page.Term == "" {
				return
			}

			out.say("%s for %q", plural(len(page.Results), "result"), page.Term)
			for _, a := range page.Results {
				fmt.Fprintf(out.w, "  - %s (%s)\n", a.Title, a.Category)
			}
		})

		for i, term := range terms {
			clk.ScheduleAt(time.Duration(i)*opts.gap, func() {
				out.say("typed %q", term)
				query.Write(term)
			})
		}
	})
	defer sub.Dispose()

	if err := clk.drive(cmd.Context()); err != nil {
		return err
	}

	logStats("search", rt)
	return e.report(cmd.OutOrStdout())
}

// lookup searches the articles after the given latency.
func lookup(clk driver, q string, latency time.Duration) stream.Stream[searchPage] {
	found := stream.TryMap(stream.Of(q), func(q string) (searchPage, error) {
		if strings.HasPrefix(q, "!") {
			return searchPage{}, fmt.Errorf("%w %q", errInvalidQuery, q)
		}

		page := searchPage{Term: q}
		needle := strings.ToLower(q)
		for _, a := range articles {
			if strings.Contains(strings.ToLower(a.Title), needle) ||
				strings.Contains(strings.ToLower(a.Description), needle) ||
				strings.Contains(strings.ToLower(a.Category), needle) {
				page.Results = append(page.Results, a)
			}
		}
		return page, nil
	})

	return stream.Delay(found, clk, latency)
}

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactor"
	"github.com/AnatoleLucet/reactor/stream"
)

var symbols = []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}

type quote struct {
	Symbol string
	Price  int
}

type reading struct {
	Temperature int
	Humidity    int
	Pressure    int
}

type logEvent struct {
	At      time.Duration
	Message string
}

type dashboardRow struct {
	Row    int
	Stock  quote
	Sensor reading
	Events int
}

// Feeds are deterministic so runs can be compared.
func quotes(i int) []quote {
	qs := make([]quote, len(symbols))
	for n, s := range symbols {
		qs[n] = quote{Symbol: s, Price: 100 + 10*n + 5*i}
	}
	return qs
}

func sense(i int) reading {
	return reading{
		Temperature: 20 + (i*3)%7,
		Humidity:    40 + 2*i,
		Pressure:    1000 + i,
	}
}

type dashboardOptions struct {
	rows int
	hot  int
}

func dashboardCmd(e *env) *cobra.Command {
	var opts dashboardOptions

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Combine live stock, sensor and event feeds",
		Long: `Join the latest stock quotes (every 2s), sensor readings (every 1s)
and event log (every 3s) into dashboard rows.

Feeds are shared between their consumers and stop once --rows rows
were printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, e, opts)
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", 4, "Number of rows to print")
	cmd.Flags().IntVar(&opts.hot, "hot", 25, "Temperature flagged as hot")

	return cmd
}

func runDashboard(cmd *cobra.Command, e *env, opts dashboardOptions) error {
	clk := e.driver()
	out := printer{w: cmd.OutOrStdout(), clk: clk}
	rt := e.runtime("dashboard")

	var peak *reactor.Cell[int]
	rt.Run(func() {
		stocks := stream.Multicast(stream.Map(stream.Interval(clk, 2*time.Second), quotes))
		sensors := stream.Multicast(stream.Map(stream.Interval(clk, time.Second), sense))

		events := stream.Map(stream.Interval(clk, 3*time.Second), func(i int) logEvent {
			return logEvent{At: clk.Now(), Message: "system update"}
		})
		history := stream.StartWith(stream.Fold(events, []logEvent{}, func(acc []logEvent, e logEvent) []logEvent {
			acc = append(acc, e)
			return acc[max(0, len(acc)-10):]
		}), []logEvent{})

		var peakSub *stream.Subscription
		peak, peakSub = reactor.FromStream(stream.Fold(sensors, 0, func(acc int, r reading) int {
			return max(acc, r.Temperature)
		}), 0)

		n := 0
		rows := stream.Map(stream.JoinLatest3(stocks, sensors, history), func(t stream.Triple[[]quote, reading, []logEvent]) dashboardRow {
			n++
			return dashboardRow{Row: n, Stock: t.First[0], Sensor: t.Second, Events: len(t.Third)}
		})

		row := reactor.NewCell(dashboardRow{})
		hot := reactor.NewDerived(func() bool { return row.Read().Sensor.Temperature >= opts.hot })

		reactor.NewNamedTask("dashboard", func() {
			r := row.Read()
			if r.Row == 0 {
				return
			}

			flag := ""
			if hot.Read() {
				flag = " HOT"
			}

			out.say("%s %d | %d°C %d%% %dhPa | %s%s",
				r.Stock.Symbol, r.Stock.Price,
				r.Sensor.Temperature, r.Sensor.Humidity, r.Sensor.Pressure,
				plural(r.Events, "event"), flag)
		})

		stream.Take(rows, opts.rows).Subscribe(stream.Funcs[dashboardRow]{
			OnNext:     func(r dashboardRow) { row.Write(r) },
			OnComplete: peakSub.Dispose,
		})
	})

	if err := clk.drive(cmd.Context()); err != nil {
		return err
	}

	out.say("peak %d°C", peak.Peek())
	logStats("dashboard", rt)
	return e.report(cmd.OutOrStdout())
}

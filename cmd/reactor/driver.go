package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/AnatoleLucet/reactor"
	"github.com/AnatoleLucet/reactor/clock"
)

// driver is a clock able to run a scenario to completion.
type driver interface {
	clock.Clock

	// drive fires scheduled callbacks until none is left.
	drive(ctx context.Context) error
}

func newDriver(realtime bool) driver {
	if realtime {
		return realDriver{clock.NewReal()}
	}
	return virtualDriver{clock.NewVirtual()}
}

type virtualDriver struct {
	*clock.Virtual
}

func (d virtualDriver) drive(context.Context) error {
	d.RunAll()
	return nil
}

type realDriver struct {
	*clock.Real
}

func (d realDriver) drive(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var poll func()
	poll = func() {
		if d.Pending() == 0 {
			cancel()
			return
		}
		d.ScheduleAfter(10*time.Millisecond, poll)
	}
	d.ScheduleAfter(0, poll)

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// printer writes lines stamped with the scenario time.
type printer struct {
	w   io.Writer
	clk clock.Clock
}

func (p printer) say(format string, args ...any) {
	fmt.Fprintf(p.w, "[%5dms] %s\n", p.clk.Now().Milliseconds(), fmt.Sprintf(format, args...))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func logStats(scenario string, rt *reactor.Runtime) {
	s := rt.Stats()
	slog.Debug("scenario finished",
		"scenario", scenario,
		"ticks", s.Ticks,
		"derived_evaluations", s.DerivedEvaluations,
		"task_runs", s.TaskRuns,
		"task_panics", s.TaskPanics,
		"rejected_writes", s.RejectedWrites,
	)
}

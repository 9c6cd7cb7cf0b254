package main

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/feed"
	"github.com/tartampluch/go-age/internal/metrics"
	"github.com/tartampluch/go-age/internal/roster"
	"github.com/tartampluch/go-age/internal/server"
	"github.com/tartampluch/go-age/internal/source"
)

type serveOptions struct {
	birth    string
	name     string
	reminder string
	port     string
	refresh  time.Duration
	book     bookFlags
}

func newServeCmd(a *app) *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   config.CmdUseServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.birth, config.FlagBirth, "", config.FlagDescBirth)
	f.StringVar(&opts.name, config.FlagName, config.FormatSelfName, config.FlagDescName)
	f.StringVar(&opts.reminder, config.FlagReminder, "", config.FlagDescReminder)
	f.StringVar(&opts.port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	f.DurationVar(&opts.refresh, config.FlagRefresh, config.DefaultFeedRefresh, config.FlagDescRefresh)
	opts.book.register(f)
	return cmd
}

func (a *app) runServe(ctx context.Context, opts serveOptions) error {
	if err := validatePort(opts.port); err != nil {
		return err
	}
	if err := feed.ValidateTrigger(opts.reminder); err != nil {
		return err
	}
	people, err := a.peopleSource(opts)
	if err != nil {
		return err
	}
	if opts.refresh <= 0 {
		opts.refresh = config.DefaultFeedRefresh
	}

	srv := server.NewCalendarServer(opts.port, a.engine, metrics.New())
	srv.Clock = a.clock

	w := &feedWorker{
		engine:   a.engine,
		clock:    a.clock,
		people:   people,
		server:   srv,
		opts:     feed.Options{ReminderTrigger: opts.reminder},
		interval: opts.refresh,
	}
	go w.run(ctx)

	return srv.Start(ctx)
}

// peopleSource resolves the flags into a loader run on every refresh, so
// address book edits reach the feed without a restart.
func (a *app) peopleSource(opts serveOptions) (func(context.Context) ([]source.Person, error), error) {
	var self *source.Person
	if opts.birth != "" {
		birth, err := engine.ParseDate(opts.birth)
		if err != nil {
			return nil, err
		}
		self = &source.Person{Name: opts.name, Birth: birth}
	}

	book := opts.book
	switch {
	case book.set():
		if err := book.validate(); err != nil {
			return nil, err
		}
	case self == nil:
		return nil, errors.New(config.ErrBirthRequired)
	}

	return func(ctx context.Context) ([]source.Person, error) {
		var people []source.Person
		if self != nil {
			people = append(people, *self)
		}
		if !book.set() {
			return people, nil
		}
		loaded, err := a.loadPeople(ctx, &book)
		if err != nil {
			return nil, err
		}
		return append(people, loaded...), nil
	}, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(config.ErrPortNumber)
	}
	if n < config.MinPort || n > config.MaxPort {
		return errors.New(config.ErrPortRange)
	}
	return nil
}

// feedWorker regenerates the served calendar on a fixed schedule.
type feedWorker struct {
	engine   *engine.Engine
	clock    engine.Clock
	people   func(context.Context) ([]source.Person, error)
	server   *server.CalendarServer
	opts     feed.Options
	interval time.Duration
}

func (w *feedWorker) run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	w.refreshLogged(ctx, log)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, w.interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-ticker.C:
			w.refreshLogged(ctx, log)
		}
	}
}

func (w *feedWorker) refreshLogged(ctx context.Context, log *slog.Logger) {
	if err := w.refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error(config.MsgFeedRefresh, config.LogKeyError, err)
	}
}

// refresh runs the Load -> Build -> Render pipeline and publishes the result.
func (w *feedWorker) refresh(ctx context.Context) error {
	people, err := w.people(ctx)
	if err != nil {
		return err
	}
	now := w.clock.Now()
	entries, err := roster.Build(ctx, w.engine, people, now)
	if err != nil {
		return err
	}
	data, err := feed.Render(entries, now, w.opts)
	if err != nil {
		return err
	}
	w.server.Update(data)
	return nil
}

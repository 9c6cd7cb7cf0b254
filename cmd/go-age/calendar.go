package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/feed"
	"github.com/tartampluch/go-age/internal/roster"
)

type calendarOptions struct {
	birth    string
	name     string
	reminder string
	out      string
}

func newCalendarCmd(a *app) *cobra.Command {
	var opts calendarOptions
	cmd := &cobra.Command{
		Use:   config.CmdUseCalendar,
		Short: config.CmdShortCalendar,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalendar(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.birth, config.FlagBirth, "", config.FlagDescBirth)
	f.StringVar(&opts.name, config.FlagName, config.FormatSelfName, config.FlagDescName)
	f.StringVar(&opts.reminder, config.FlagReminder, "", config.FlagDescReminder)
	f.StringVar(&opts.out, config.FlagOut, "", config.FlagDescOut)
	_ = cmd.MarkFlagRequired(config.FlagBirth)
	return cmd
}

func (a *app) runCalendar(stdout io.Writer, opts calendarOptions) error {
	birth, err := engine.ParseDate(opts.birth)
	if err != nil {
		return err
	}
	now := a.clock.Now()
	ins, err := a.engine.Compute(birth, now)
	if err != nil {
		return err
	}

	data, err := feed.Render(
		[]roster.Entry{{Name: opts.name, Insights: ins}},
		now,
		feed.Options{ReminderTrigger: opts.reminder},
	)
	if err != nil {
		return err
	}

	if opts.out == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
		return nil
	}

	if err := os.WriteFile(opts.out, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	slog.Info(config.MsgCalendarWrite,
		config.LogKeyComponent, config.CompCLI,
		config.LogKeyPath, opts.out,
		config.LogKeySizeBytes, len(data),
	)
	return nil
}

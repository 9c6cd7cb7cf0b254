package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/render"
	"golang.org/x/term"
)

type insightsOptions struct {
	birth     string
	reference string
	live      bool
	json      bool
}

func newInsightsCmd(a *app) *cobra.Command {
	var opts insightsOptions
	cmd := &cobra.Command{
		Use:   config.CmdUseInsights,
		Short: config.CmdShortInsights,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInsights(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.birth, config.FlagBirth, "", config.FlagDescBirth)
	f.StringVar(&opts.reference, config.FlagReference, "", config.FlagDescReference)
	f.BoolVar(&opts.live, config.FlagLive, false, config.FlagDescLive)
	f.BoolVar(&opts.json, config.FlagJSON, false, config.FlagDescJSON)
	_ = cmd.MarkFlagRequired(config.FlagBirth)
	return cmd
}

func (a *app) runInsights(ctx context.Context, out io.Writer, opts insightsOptions) error {
	if opts.live && opts.reference != "" {
		return errors.New(config.ErrLiveWithReference)
	}
	birth, err := engine.ParseDate(opts.birth)
	if err != nil {
		return err
	}

	if opts.live {
		return a.runLive(ctx, out, birth, opts.json)
	}

	clock := a.clock
	if opts.reference != "" {
		reference, err := engine.ParseDate(opts.reference)
		if err != nil {
			return err
		}
		clock = engine.FixedClock{At: reference}
	}

	ins, err := a.engine.ComputeLive(birth, clock)
	if err != nil {
		return err
	}
	return writeInsights(out, ins, opts.json)
}

// runLive recomputes against the clock on every tick until ctx is cancelled.
func (a *app) runLive(ctx context.Context, out io.Writer, birth time.Time, asJSON bool) error {
	ticker := time.NewTicker(config.LiveTickInterval)
	defer ticker.Stop()

	redraw := isTerminal(out) && !asJSON
	for {
		ins, err := a.engine.ComputeLive(birth, a.clock)
		if err != nil {
			return err
		}
		if redraw {
			_, _ = io.WriteString(out, config.ClearScreen)
		}
		if err := writeInsights(out, ins, asJSON); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			slog.Debug(config.MsgCtxCancel, config.LogKeyComponent, config.CompCLI)
			return nil
		case <-ticker.C:
		}
	}
}

func writeInsights(out io.Writer, ins engine.AgeInsights, asJSON bool) error {
	if asJSON {
		return writeJSON(out, ins)
	}
	if _, err := io.WriteString(out, render.Insights(config.FormatSelfName, ins)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/render"
	"github.com/tartampluch/go-age/internal/roster"
	"github.com/tartampluch/go-age/internal/source"
)

// bookFlags selects an address book: a local vCard file or a remote URL.
type bookFlags struct {
	vcard string
	url   string
	user  string
}

func (b *bookFlags) register(f *pflag.FlagSet) {
	f.StringVar(&b.vcard, config.FlagVCard, "", config.FlagDescVCard)
	f.StringVar(&b.url, config.FlagURL, "", config.FlagDescURL)
	f.StringVar(&b.user, config.FlagUser, "", config.FlagDescUser)
}

func (b *bookFlags) set() bool {
	return b.vcard != "" || b.url != ""
}

func (b *bookFlags) validate() error {
	switch {
	case b.vcard != "" && b.url != "":
		return errors.New(config.ErrSourceConflict)
	case !b.set():
		return errors.New(config.ErrSourceMissing)
	}
	return nil
}

func (b *bookFlags) options() source.Options {
	opts := source.Options{LocalPath: b.vcard, URL: b.url}
	if b.url != "" {
		opts.Credentials = source.ResolveCredentials(b.user)
	}
	return opts
}

// loadPeople reads the selected address book.
func (a *app) loadPeople(ctx context.Context, b *bookFlags) ([]source.Person, error) {
	loader := &source.Loader{Fetcher: a.fetcher}
	return loader.Load(ctx, b.options())
}

func newContactsCmd(a *app) *cobra.Command {
	var book bookFlags
	var asJSON bool
	cmd := &cobra.Command{
		Use:   config.CmdUseContacts,
		Short: config.CmdShortContacts,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runContacts(cmd.Context(), cmd.OutOrStdout(), &book, asJSON)
		},
	}
	book.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, config.FlagJSON, false, config.FlagDescJSON)
	return cmd
}

func (a *app) runContacts(ctx context.Context, out io.Writer, book *bookFlags, asJSON bool) error {
	if err := book.validate(); err != nil {
		return err
	}
	people, err := a.loadPeople(ctx, book)
	if err != nil {
		return err
	}
	entries, err := roster.Build(ctx, a.engine, people, a.clock.Now())
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, entries)
	}
	if _, err := io.WriteString(out, render.Roster(entries)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

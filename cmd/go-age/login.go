package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/source"
	"golang.org/x/term"
)

func newLoginCmd(_ *app) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   config.CmdUseLogin,
		Short: config.CmdShortLogin,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return errors.New(config.ErrUserRequired)
			}
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return source.StorePassword(user, password)
		},
	}
	cmd.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	return cmd
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = io.WriteString(prompt, config.PromptPassword)
		raw, err := term.ReadPassword(int(f.Fd()))
		_, _ = io.WriteString(prompt, "\n")
		if err != nil {
			return "", fmt.Errorf("%s: %w", config.ErrReadPassword, err)
		}
		return string(raw), nil
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("%s: %w", config.ErrReadPassword, err)
		}
		return "", errors.New(config.ErrPasswordEmpty)
	}
	return strings.TrimRight(scanner.Text(), "\r"), nil
}

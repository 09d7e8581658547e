package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/agilechain/chainsync/internal/app/storage"
	"github.com/agilechain/chainsync/internal/backend"
	"github.com/agilechain/chainsync/internal/config"
	"github.com/agilechain/chainsync/internal/httpclient"
	"github.com/agilechain/chainsync/internal/session"
)

func (c *cli) newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the team backend and store the session",
		Long: `Log in to the team backend. The password is read from the terminal without echo,
or from the first line of standard input when it is not a terminal.`,
		RunE: c.runLogin,
	}
	cmd.Flags().String("email", "", "Account email")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(err)
	}
	return cmd
}

func (c *cli) runLogin(cmd *cobra.Command, _ []string) error {
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	client := backend.NewClient(cfg.Backend.BaseURL, httpclient.NewDefaultClient(cfg.Backend.GetTimeout()), nil)
	s, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	store, cleanup, err := newSessionStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Save(cmd.Context(), s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	name := s.User.Name
	if name == "" {
		name = email
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
	return nil
}

func (c *cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, cleanup, err := newSessionStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	factory, err := storage.NewStorageFactory(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := factory.CreateSessionStore(ctx)
	if err != nil {
		factory.Cleanup()
		return nil, nil, err
	}
	return store, factory.Cleanup, nil
}

// readPassword reads without echo from a terminal, otherwise one line from in
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(prompt, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password is required")
	}
	return pw, nil
}

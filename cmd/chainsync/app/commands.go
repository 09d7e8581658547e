// Package app provides the command line interface of chainsync.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agilechain/chainsync/internal/config"
	"github.com/agilechain/chainsync/internal/versions"
)

// cli carries the settings shared by every command
type cli struct {
	v *viper.Viper
}

// NewRootCmd creates the root command of chainsync
func NewRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix(config.EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:               "chainsync",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Keeps the local project view consistent with the team backend and the ledger",
		Long: `chainsync reconciles the local view of a team's sprints, tasks and backlog against
the blockchain ledger, wraps ledger writes with pre- and post-write verification and
serves a local API for the UI.`,
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.v.GetBool("debug") {
				logLevel.Set(slog.LevelDebug)
			}
		},
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	for _, name := range []string{"config", "debug"} {
		if err := c.v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			slog.Error("Error binding flag", "flag", name, "error", err)
		}
	}

	rootCmd.AddCommand(
		c.newServeCmd(),
		c.newSyncCmd(),
		c.newStatusCmd(),
		c.newLoginCmd(),
		c.newLogoutCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// loadConfig loads the configuration file named by --config or CHAINSYNC_CONFIG,
// falling back to the defaults
func (c *cli) loadConfig() (*config.Config, error) {
	var opts []config.Option
	if path := c.v.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format version info as JSON: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agilechain/chainsync/internal/app/storage"
)

func (c *cli) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the report of the last reconciliation of every domain",
		RunE:  c.runStatus,
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

func (c *cli) runStatus(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	factory, err := storage.NewStorageFactory(cfg)
	if err != nil {
		return err
	}
	defer factory.Cleanup()

	reports, err := factory.CreateReportStore(cmd.Context())
	if err != nil {
		return err
	}
	report, err := reports.LoadReport(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load sync report: %w", err)
	}

	out := cmd.OutOrStdout()
	if report == nil {
		_, _ = fmt.Fprintln(out, "No sync report found")
		return nil
	}

	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format report as JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	return printReport(out, report)
}

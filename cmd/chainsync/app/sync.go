package app

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	syncapp "github.com/agilechain/chainsync/internal/app"
	"github.com/agilechain/chainsync/internal/status"
	pkgsync "github.com/agilechain/chainsync/internal/sync"
)

func (c *cli) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [domain]",
		Short: "Reconcile local state against the ledger once",
		Long: `Reconcile one domain (equipe|team, sprints, tarefas|tasks, backlog) or, without an
argument, every domain. Without --force domains verified within the throttle window are
reported as still valid without contacting the ledger.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runSync,
	}
	cmd.Flags().Bool("force", false, "Bypass the throttle window")
	return cmd
}

func (c *cli) runSync(cmd *cobra.Command, args []string) error {
	domain := pkgsync.DomainAll
	if len(args) == 1 {
		d, err := pkgsync.ParseDomain(args[0])
		if err != nil {
			return err
		}
		domain = d
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	components, err := syncapp.BuildComponents(ctx, syncapp.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = components.Coordinator.Stop() }()

	if domain == pkgsync.DomainAll {
		report, err := components.Coordinator.SyncAll(ctx, force, nil)
		if err != nil {
			return err
		}
		if err := printReport(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.OK() {
			return fmt.Errorf("sync finished with failures: %s", report.Summary())
		}
		return nil
	}

	outcome, err := components.Coordinator.SyncDomain(ctx, domain, force, nil)
	if err != nil {
		return err
	}
	if err := printOutcomes(cmd.OutOrStdout(), []pkgsync.Outcome{outcome}); err != nil {
		return err
	}
	if !outcome.OK {
		return fmt.Errorf("sync of %s failed: %s", domain, outcome.Reason)
	}
	return nil
}

// printReport writes the report header and its outcome table
func printReport(w io.Writer, report *status.Report) error {
	forced := ""
	if report.Forced {
		forced = " (forced)"
	}
	_, _ = fmt.Fprintf(w, "Sync %s%s started %s, took %s: %s\n",
		report.SyncID, forced,
		report.StartedAt.Local().Format(time.DateTime),
		report.Duration.Round(time.Millisecond),
		report.Summary(),
	)
	return printOutcomes(w, report.Outcomes)
}

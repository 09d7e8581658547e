package app

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	pkgsync "github.com/agilechain/chainsync/internal/sync"
)

// printOutcomes renders outcomes as a table
func printOutcomes(w io.Writer, outcomes []pkgsync.Outcome) error {
	table := tablewriter.NewWriter(w)
	table.Header("Domain", "OK", "Reason", "Duration", "Message")
	for _, o := range outcomes {
		if err := table.Append([]string{
			o.Domain.String(),
			strconv.FormatBool(o.OK),
			string(o.Reason),
			o.Duration.Round(time.Millisecond).String(),
			o.Message,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

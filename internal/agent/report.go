package agent

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/MKhiriev/data-publish-agent/models"
)

// printReport writes one row per synced collection followed by a totals line.
func (a *App) printReport(report models.SyncReport) {
	table := tablewriter.NewWriter(a.out)
	table.Header("Collection", "Scope", "From", "To", "Pages", "Items", "Status")

	for _, c := range report.Reports {
		status := "done"
		switch {
		case c.Error != "":
			status = "failed: " + c.Error
		case !c.Done:
			status = "partial"
		}

		_ = table.Append(c.Collection, c.Scope.String(), c.Start.String(), c.End.String(),
			strconv.Itoa(c.Pages), strconv.Itoa(c.Items), status)
	}

	_ = table.Render()

	_, _ = fmt.Fprintf(a.out, "Run %s: %d clients, %d items, %d failed in %s\n",
		report.RunID, len(report.ClientIDs), report.Items(), len(report.Failed()),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

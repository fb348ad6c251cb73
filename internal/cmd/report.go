package cmd

import (
	"io"

	"github.com/rodaine/table"
)

const (
	statusApplied     = "applied"
	statusPartial     = "partial"
	statusSkipped     = "not applied"
	statusCheckFailed = "check failed"
	statusError       = "error"
)

type row struct {
	file   string
	step   string
	kind   string
	status string
	detail string
}

func printReport(w io.Writer, rows []row) {
	tbl := table.New("File", "Step", "Fix", "Status", "Detail").WithWriter(w)

	for _, r := range rows {
		tbl.AddRow(r.file, r.step, r.kind, r.status, r.detail)
	}

	tbl.Print()
}

package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// WriteServiceTable renders derived service summaries as a table.
func WriteServiceTable(w io.Writer, infos []domain.ServiceInfo) error {
	table := tablewriter.NewWriter(w)
	table.Header("Service", "Category", "Logs", "Active", "Last Activity")

	for _, info := range infos {
		active := "no"
		if info.IsActive {
			active = "yes"
		}
		last := "-"
		if !info.LastActivity.IsZero() {
			last = info.LastActivity.Format("2006-01-02 15:04:05")
		}
		if err := table.Append([]string{
			info.DisplayName,
			string(info.Category),
			strconv.Itoa(info.LogCount),
			active,
			last,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteNodeTable renders positioned graph nodes as a table, for the
// one-shot graph command's text mode.
func WriteNodeTable(w io.Writer, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Node", "Kind", "X", "Y", "Placement")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// FormatCoord renders a canvas coordinate with fixed precision.
func FormatCoord(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

package export

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Reporter prints tables to the console.
type Reporter struct {
	writer   io.Writer
	useColor bool
}

func NewReporter(writer io.Writer, useColor bool) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer, useColor: useColor}
}

func (r *Reporter) Handle(t domain.Table) error {
	if _, err := fmt.Fprintf(r.writer, "\n%s\n", r.title(t)); err != nil {
		return err
	}
	if !t.Period.Start.IsZero() {
		if _, err := fmt.Fprintf(r.writer, "Period: %s to %s (%d years)\n\n",
			t.Period.Start.Format(adapters.DateLayout), t.Period.End.Format(adapters.DateLayout),
			t.Period.Years); err != nil {
			return err
		}
	}

	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(r.writer, "No rows.")
		return err
	}

	table := tablewriter.NewWriter(r.writer)
	table.SetHeader(t.Columns)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	countCol := -1
	if t.Name == reports.DataQualityName {
		countCol = len(t.Columns) - 1
	}
	for _, row := range t.Rows {
		table.Append(r.decorate(row, countCol))
	}
	table.Render()
	return nil
}

func (r *Reporter) title(t domain.Table) string {
	if t.Title == "" {
		return t.Name
	}
	if r.useColor {
		return color.New(color.Bold).Sprint(t.Title)
	}
	return t.Title
}

// decorate highlights non-zero counts of data quality issues.
func (r *Reporter) decorate(row []string, countCol int) []string {
	if !r.useColor || countCol < 0 || countCol >= len(row) {
		return row
	}
	out := append([]string(nil), row...)
	n, err := strconv.ParseInt(out[countCol], 10, 64)
	if err != nil {
		return out
	}
	if n > 0 {
		out[countCol] = color.RedString(out[countCol])
	} else {
		out[countCol] = color.GreenString(out[countCol])
	}
	return out
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

// WriteCSV writes the header and rows of t as RFC 4180 CSV.
func WriteCSV(w io.Writer, t domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write %s header: %w", t.Name, err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write %s rows: %w", t.Name, err)
	}
	return nil
}

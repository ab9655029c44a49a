package services

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes a report as a two-column sheet: a title line, a header and
// one line per metric in report order.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		{r.Title, ""},
		{"Métrica", "Valor"},
	}
	for _, row := range r.Rows {
		records = append(records, []string{row.Name, row.Value})
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write report csv: %w", err)
	}
	return nil
}

// ExportFilename names the downloaded file after the period and window.
func ExportFilename(r *Report) string {
	return fmt.Sprintf("relatorio_%s_%s.csv", r.Period, r.Window.First.Format("20060102"))
}

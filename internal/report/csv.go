package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"crqa/internal/recurrence"
	"crqa/internal/results"
)

// Columns are the CSV export columns in order. Names are valid R and pandas
// identifiers.
var Columns = []string{
	"run_id",
	"dyad_id",
	"length",
	"state",
	"rr",
	"det",
	"mean_l",
	"max_l",
	"nrline",
	"entr",
	"rentr",
	"lam",
	"tt",
	"max_v",
	"error",
}

// CSVWriter writes dyad results as CSV.
type CSVWriter struct {
	policy      Policy
	writer      *csv.Writer
	headerDone  bool
	rowsWritten int
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer, policy Policy) *CSVWriter {
	return &CSVWriter{policy: policy, writer: csv.NewWriter(w)}
}

// Write writes one row, emitting the header first if needed.
func (cw *CSVWriter) Write(row results.DyadResult) error {
	if !cw.headerDone {
		if err := cw.writer.Write(Columns); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		cw.headerDone = true
	}
	if err := cw.writer.Write(cw.format(row)); err != nil {
		return fmt.Errorf("write CSV row for dyad %s: %w", row.DyadID, err)
	}
	cw.rowsWritten++
	return nil
}

// WriteAll writes every row and flushes.
func (cw *CSVWriter) WriteAll(rows []results.DyadResult) error {
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CSVWriter) Flush() error {
	if !cw.headerDone {
		if err := cw.writer.Write(Columns); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		cw.headerDone = true
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush CSV writer: %w", err)
	}
	return nil
}

// RowsWritten returns the number of data rows written (excluding header).
func (cw *CSVWriter) RowsWritten() int {
	return cw.rowsWritten
}

func (cw *CSVWriter) format(row results.DyadResult) []string {
	metric := cw.policy.Format
	if row.Failed() {
		metric = func(recurrence.Metric) string { return cw.policy.FormatNA() }
	}
	nrline := strconv.Itoa(row.NRLine)
	if row.Failed() {
		nrline = cw.policy.FormatNA()
	}
	return []string{
		row.RunID,
		row.DyadID,
		strconv.Itoa(row.Length),
		string(row.State),
		metric(row.RR),
		metric(row.DET),
		metric(row.MeanL),
		metric(row.MaxL),
		nrline,
		metric(row.ENTR),
		metric(row.RENTR),
		metric(row.LAM),
		metric(row.TT),
		metric(row.MaxV),
		row.Error,
	}
}

package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Row is one line of the report export: a model's metrics for a single
// class, average or the accuracy figure of one run.
type Row struct {
	Timestamp time.Time
	RunID     string
	Model     string
	Class     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Header is the CSV header for report exports.
const Header = "timestamp,run_id,model,class,precision,recall,f1_score,support"

const (
	numFields    = 8
	colTimestamp = 0
	colRunID     = 1
	colModel     = 2
	colClass     = 3
	colPrecision = 4
	colRecall    = 5
	colF1        = 6
	colSupport   = 7
)

// Rows flattens a report: one row per class, then accuracy, macro and
// weighted averages. The accuracy row carries the value in the F1 column.
func Rows(r *Report, runID string, ts time.Time) []Row {
	base := Row{Timestamp: ts, RunID: runID, Model: r.Model}
	var rows []Row
	add := func(class string, m Metrics) {
		row := base
		row.Class = class
		row.Precision, row.Recall, row.F1, row.Support = m.Precision, m.Recall, m.F1, m.Support
		rows = append(rows, row)
	}
	for _, c := range r.Classes {
		add(c.Label, c.Metrics)
	}
	add(KeyAccuracy, Metrics{F1: r.Accuracy, Support: r.Support()})
	add(KeyMacroAvg, r.MacroAvg)
	add(KeyWeightedAvg, r.WeightedAvg)
	return rows
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(r Row) []string {
	rec := make([]string, numFields)
	rec[colTimestamp] = r.Timestamp.Format(time.RFC3339)
	rec[colRunID] = r.RunID
	rec[colModel] = r.Model
	rec[colClass] = r.Class
	rec[colPrecision] = formatMetric(r.Precision)
	rec[colRecall] = formatMetric(r.Recall)
	rec[colF1] = formatMetric(r.F1)
	rec[colSupport] = strconv.Itoa(r.Support)
	if r.Class == KeyAccuracy {
		rec[colPrecision], rec[colRecall] = "", ""
	}
	return rec
}

// UnmarshalRow converts a CSV record to a Row. Blank metric cells read as 0.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Row{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var metrics [3]float64
	for i, col := range []int{colPrecision, colRecall, colF1} {
		if record[col] == "" {
			continue
		}
		metrics[i], err = strconv.ParseFloat(record[col], 64)
		if err != nil {
			return Row{}, fmt.Errorf("parsing %s %q: %w", strings.Split(Header, ",")[col], record[col], err)
		}
	}

	support, err := strconv.Atoi(record[colSupport])
	if err != nil {
		return Row{}, fmt.Errorf("parsing support %q: %w", record[colSupport], err)
	}

	return Row{
		Timestamp: ts,
		RunID:     record[colRunID],
		Model:     record[colModel],
		Class:     record[colClass],
		Precision: metrics[0],
		Recall:    metrics[1],
		F1:        metrics[2],
		Support:   support,
	}, nil
}

// WriteReports writes a header and the rows of every report.
func WriteReports(w io.Writer, reports []*Report, runID string, ts time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range reports {
		for i, row := range Rows(r, runID, ts) {
			if err := cw.Write(MarshalRow(row)); err != nil {
				return fmt.Errorf("writing %s row %d: %w", r.Model, i, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendReports appends report rows to the CSV file at path, writing the
// header first when the file is new.
func AppendReports(path string, reports []*Report, runID string, ts time.Time) error {
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening report history: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, r := range reports {
		for i, row := range Rows(r, runID, ts) {
			if err := cw.Write(MarshalRow(row)); err != nil {
				return fmt.Errorf("writing %s row %d: %w", r.Model, i, err)
			}
		}
	}
	return cw.Error()
}

// ReadReports returns all rows of a report export.
func ReadReports(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading report CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadReportFile reads a report export from disk. A missing file yields no rows.
func ReadReportFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening report history: %w", err)
	}
	defer f.Close()
	return ReadReports(f)
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

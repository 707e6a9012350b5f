package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/uhppoted/zoho-sales-sheets/sales"
)

// tableToTSV writes the table header and rows as tab separated values.
func tableToTSV(f io.Writer, table *sales.Table) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, row := range table.Values() {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = clean(sales.Flatten(v))
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()

	return w.Error()
}

// tsvToRecords reads sales records from a TSV file with a header row. The header must include
// the Date column and rows without a date are skipped.
func tsvToRecords(f io.Reader) ([]sales.Record, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	values := [][]any{}
	for _, row := range rows {
		record := []any{}
		for _, v := range row {
			record = append(record, clean(v))
		}

		values = append(values, record)
	}

	table, err := sales.MakeTable(values)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(table.Header, sales.ColDate) {
		return nil, fmt.Errorf("missing '%v' column", sales.ColDate)
	}

	records := []sales.Record{}
	for _, row := range table.Rows {
		if record := sales.FromRow(row); record.Date != "" {
			records = append(records, record)
		}
	}

	return records, nil
}

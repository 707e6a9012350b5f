package sales

import (
	"fmt"
	"strings"
)

// Row maps column names to cell values.
type Row map[string]any

// Table is the contents of a worksheet range: a header row and the data rows below it.
type Table struct {
	Header []string
	Rows   []Row
}

// MakeTable reconstructs a table from worksheet values. The first row is the header and cells
// missing from the end of a short row are treated as empty. An empty range yields an empty table
// with no header.
func MakeTable(values [][]any) (*Table, error) {
	table := Table{
		Header: []string{},
		Rows:   []Row{},
	}

	if len(values) == 0 {
		return &table, nil
	}

	// .. build index
	index := map[string]int{}
	for i, v := range values[0] {
		column := Flatten(v)
		if _, ok := index[column]; ok {
			return nil, fmt.Errorf("duplicate column name '%s'", column)
		}

		index[column] = i
		table.Header = append(table.Header, column)
	}

	// ... records
	for i, record := range values[1:] {
		if len(record) > len(table.Header) {
			return nil, fmt.Errorf("row %v has %v columns, header has %v", i+2, len(record), len(table.Header))
		}

		row := Row{}
		for j, column := range table.Header {
			if j < len(record) {
				row[column] = record[j]
			} else {
				row[column] = nil
			}
		}

		table.Rows = append(table.Rows, row)
	}

	return &table, nil
}

// Append adds the records after the existing rows. Columns of the canonical header that are not
// already in the table are added to the end of the header.
func (t *Table) Append(records []Record) {
	columns := map[string]bool{}
	for _, h := range t.Header {
		columns[h] = true
	}

	for _, h := range Header {
		if !columns[h] {
			t.Header = append(t.Header, h)
		}
	}

	for _, r := range records {
		t.Rows = append(t.Rows, r.Row())
	}
}

// RemovePeriod deletes the rows for which column starts with prefix (e.g. all '2024-06' rows of
// the 'Date' column) and returns the number of rows removed.
func (t *Table) RemovePeriod(column, prefix string) int {
	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if !strings.HasPrefix(strings.TrimSpace(Flatten(row[column])), prefix) {
			rows = append(rows, row)
		}
	}

	removed := len(t.Rows) - len(rows)
	t.Rows = rows

	return removed
}

// Values returns the header row followed by the data rows, with every cell flattened.
func (t *Table) Values() [][]any {
	values := make([][]any, 0, len(t.Rows)+1)

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}

	values = append(values, header)

	for _, row := range t.Rows {
		record := make([]any, len(t.Header))
		for i, h := range t.Header {
			record[i] = Flatten(row[h])
		}

		values = append(values, record)
	}

	return values
}

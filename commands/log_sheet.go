package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/report"
	"github.com/uhppoted/zoho-sales-sheets/sheet"
)

const TIMESTAMP = "2006-01-02 15:04:05"

var logColumns = []string{"Timestamp", "Run ID", "Organization", "Records", "Amount", "Status", "Updated"}

type logStore interface {
	Get(ctx context.Context, area string) ([][]any, error)
	Append(ctx context.Context, area string, values [][]any) error
	DeleteRows(ctx context.Context, title string, rows []int) (int, error)
}

// updateLogSheet appends one row per organization to the log worksheet, adding the header row
// if the worksheet is empty.
func updateLogSheet(ctx context.Context, store logStore, area string, result report.Result, now time.Time) error {
	values, err := store.Get(ctx, area)
	if err != nil {
		return fmt.Errorf("unable to retrieve column headers from log sheet (%w)", err)
	}

	rows := [][]any{}
	index := logIndex(nil)

	if len(values) > 0 {
		index = logIndex(values[0])
		log.Debugf("log sheet column index: %v", index)
	} else {
		header := []any{}
		for _, c := range logColumns {
			header = append(header, c)
		}

		rows = append(rows, header)
	}

	rows = append(rows, logRows(index, result, now.Format(TIMESTAMP))...)

	if err := store.Append(ctx, area, rows); err != nil {
		return fmt.Errorf("error writing log to Google Sheets (%w)", err)
	}

	return nil
}

// pruneLogSheet deletes the log rows older than 'retention' days.
func pruneLogSheet(ctx context.Context, store logStore, area string, retention uint, now time.Time) error {
	anchor, err := sheet.ParseArea(area)
	if err != nil {
		return err
	}

	values, err := store.Get(ctx, area)
	if err != nil {
		return fmt.Errorf("unable to retrieve data from log sheet (%w)", err)
	}

	before := cutoff(now, retention)
	column := 0
	if len(values) > 0 {
		if ix, ok := logIndex(values[0])["timestamp"]; ok {
			column = ix
		}
	}

	log.Infof("pruning log records from before %v", before.Format("2006-01-02"))

	rows := []int{}
	for _, row := range expired(values, column, before) {
		rows = append(rows, anchor.Row+row)
	}

	deleted, err := store.DeleteRows(ctx, anchor.Sheet, rows)
	if err != nil {
		return fmt.Errorf("error pruning log sheet (%w)", err)
	}

	log.Infof("pruned %d log records from log sheet", deleted)

	return nil
}

// logIndex maps the normalised log column names to the column indices in the header row. An
// empty header uses the default column layout.
func logIndex(header []any) map[string]int {
	index := map[string]int{}

	if len(header) == 0 {
		for i, c := range logColumns {
			index[normalise(c)] = i
		}

		return index
	}

	for i, v := range header {
		k := normalise(fmt.Sprintf("%v", v))
		for _, c := range logColumns {
			if k == normalise(c) {
				index[k] = i
			}
		}
	}

	return index
}

func logRows(index map[string]int, result report.Result, timestamp string) [][]any {
	columns := 0
	for _, v := range index {
		if v >= columns {
			columns = v + 1
		}
	}

	rows := [][]any{}
	for _, c := range result.Fetched {
		row := make([]any, columns)
		for i := range row {
			row[i] = ""
		}

		status := "ok"
		if c.Err != nil {
			status = c.Err.Error()
		}

		fields := map[string]any{
			"timestamp":    timestamp,
			"runid":        result.RunID.String(),
			"organization": c.Organization.Name,
			"records":      c.Records,
			"amount":       c.Amount.StringFixed(2),
			"status":       status,
			"updated":      result.Updated,
		}

		for k, v := range fields {
			if ix, ok := index[k]; ok {
				row[ix] = v
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// expired returns the indices of the rows with a timestamp before the cutoff. Rows without a
// valid timestamp (e.g. the header) are never expired.
func expired(values [][]any, column int, cutoff time.Time) []int {
	list := []int{}

	for row, record := range values {
		if column >= len(record) {
			continue
		}

		s := strings.TrimSpace(fmt.Sprintf("%v", record[column]))
		timestamp, err := time.ParseInLocation(TIMESTAMP, s, cutoff.Location())
		if err == nil && timestamp.Before(cutoff) {
			list = append(list, row)
		}
	}

	return list
}

// cutoff returns the start of the oldest day retained in the log.
func cutoff(now time.Time, retention uint) time.Time {
	before := now.AddDate(0, 0, -(int(retention) - 1))

	return time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, before.Location())
}

package sheet

import (
	"context"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/sales"
)

// Policy determines how new records are merged with the existing worksheet rows.
type Policy int

const (
	// Append adds the new records after the existing rows. Rows are never removed, so repeated
	// runs in the same month accumulate duplicate rows.
	Append Policy = iota

	// ReplaceMonth removes the existing rows dated in the same month as the new records before
	// appending.
	ReplaceMonth
)

func (p Policy) String() string {
	switch p {
	case Append:
		return "append"
	case ReplaceMonth:
		return "replace-month"
	default:
		return "unknown"
	}
}

type Options struct {
	Policy Policy
	Atomic bool
	Strict bool
}

type Result struct {
	Existing int
	Removed  int
	Added    int
	Rows     int
	Updated  bool
}

// Engine reconciles new records with the contents of a worksheet range and writes back the
// merged table.
type Engine struct {
	store   Store
	options Options
}

func NewEngine(store Store, options Options) *Engine {
	return &Engine{
		store:   store,
		options: options,
	}
}

// Sync reads the range, merges the records with the existing rows and replaces the contents of
// the range with the header and merged rows. A read failure is logged and treated as an empty
// worksheet unless the engine is strict. Clear and write failures are returned as a SinkError.
func (e *Engine) Sync(ctx context.Context, records []sales.Record, area string) (Result, error) {
	result := Result{}

	if len(records) == 0 {
		return result, nil
	}

	// ... read
	table, err := e.read(ctx, area)
	if err != nil {
		if e.options.Strict {
			return result, err
		}

		log.Warnf("%v - continuing with new records only", err)
		table = &sales.Table{}
	}

	result.Existing = len(table.Rows)

	// ... merge
	if e.options.Policy == ReplaceMonth {
		for _, month := range months(records) {
			removed := table.RemovePeriod(sales.ColDate, month)
			result.Removed += removed

			log.Debugf("removed %v existing rows for %v", removed, month)
		}
	}

	table.Append(records)

	result.Added = len(records)
	result.Rows = len(table.Rows)

	values := table.Values()

	// ... write
	if replacer, ok := e.store.(Replacer); ok && e.options.Atomic {
		log.Debugf("replacing %v with %v rows", area, result.Rows)
		if err := replacer.Replace(ctx, area, values); err != nil {
			return result, &SinkError{Op: "replacing", Range: area, Err: err}
		}
	} else {
		if e.options.Atomic {
			log.Warnf("store does not support atomic replace - using clear and update")
		}

		log.Debugf("clearing %v", area)
		if err := e.store.Clear(ctx, area); err != nil {
			return result, &SinkError{Op: "clearing", Range: area, Err: err}
		}

		log.Debugf("writing %v rows to %v", result.Rows, area)
		if err := e.store.Update(ctx, area, values); err != nil {
			return result, &SinkError{Op: "writing", Range: area, Err: err}
		}
	}

	result.Updated = true

	return result, nil
}

func (e *Engine) read(ctx context.Context, area string) (*sales.Table, error) {
	values, err := e.store.Get(ctx, area)
	if err != nil {
		return nil, &SinkError{Op: "reading", Range: area, Err: err}
	}

	table, err := sales.MakeTable(values)
	if err != nil {
		return nil, &SinkError{Op: "reading", Range: area, Err: err}
	}

	return table, nil
}

// months returns the distinct YYYY-MM reporting months of the records.
func months(records []sales.Record) []string {
	list := []string{}
	seen := map[string]bool{}

	for _, r := range records {
		if len(r.Date) >= 7 && !seen[r.Date[:7]] {
			seen[r.Date[:7]] = true
			list = append(list, r.Date[:7])
		}
	}

	return list
}

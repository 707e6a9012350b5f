// Package sheet implements the synchronisation of sales records to a worksheet range.
package sheet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Store is a remote tabular store addressed by sheet-relative ranges.
//
// Get, Clear and Update are independent remote calls with no transaction across them: a failure
// part way through a sequence of calls leaves the range in whatever state the last successful
// call left it.
type Store interface {
	Get(ctx context.Context, area string) ([][]any, error)
	Clear(ctx context.Context, area string) error
	Update(ctx context.Context, area string, values [][]any) error
}

// Replacer is implemented by stores that can replace the contents of a range in a single request.
type Replacer interface {
	Replace(ctx context.Context, area string, values [][]any) error
}

// GoogleSheets is a Store backed by a Google Sheets spreadsheet.
type GoogleSheets struct {
	google      *sheets.Service
	spreadsheet string
}

func NewGoogleSheets(google *sheets.Service, spreadsheet string) *GoogleSheets {
	return &GoogleSheets{
		google:      google,
		spreadsheet: spreadsheet,
	}
}

// Get returns the values in the range. An open ended range is read from the anchor to the edge
// of the worksheet.
func (g *GoogleSheets) Get(ctx context.Context, area string) ([][]any, error) {
	region, err := g.region(ctx, area)
	if err != nil {
		return nil, err
	}

	response, err := g.google.Spreadsheets.Values.Get(g.spreadsheet, region).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	return response.Values, nil
}

// Clear clears the values in the range. An open ended range is cleared from the anchor to the
// edge of the worksheet.
func (g *GoogleSheets) Clear(ctx context.Context, area string) error {
	region, err := g.region(ctx, area)
	if err != nil {
		return err
	}

	rq := sheets.ClearValuesRequest{}

	if _, err := g.google.Spreadsheets.Values.Clear(g.spreadsheet, region, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

func (g *GoogleSheets) Update(ctx context.Context, area string, values [][]any) error {
	rq := sheets.ValueRange{
		Values: values,
	}

	if _, err := g.google.Spreadsheets.Values.Update(g.spreadsheet, area, &rq).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return err
	}

	return nil
}

// Append adds rows after the last row of the table in the range.
func (g *GoogleSheets) Append(ctx context.Context, area string, values [][]any) error {
	rq := sheets.ValueRange{
		Values: values,
	}

	if _, err := g.google.Spreadsheets.Values.Append(g.spreadsheet, area, &rq).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do(); err != nil {
		return err
	}

	return nil
}

// Replace writes the values at the range anchor and clears the rest of the range in a single
// batch update, so the range is never observed partially written. An open ended range extends to
// the edge of the worksheet.
func (g *GoogleSheets) Replace(ctx context.Context, area string, values [][]any) error {
	anchor, err := ParseArea(area)
	if err != nil {
		return err
	}

	sheet, err := g.sheet(ctx, anchor.Sheet)
	if err != nil {
		return err
	}

	rows := make([]*sheets.RowData, 0, len(values))
	for _, record := range values {
		cells := make([]*sheets.CellData, 0, len(record))
		for _, v := range record {
			s := fmt.Sprintf("%v", v)
			cells = append(cells, &sheets.CellData{
				UserEnteredValue: &sheets.ExtendedValue{StringValue: &s},
			})
		}

		rows = append(rows, &sheets.RowData{Values: cells})
	}

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			&sheets.Request{
				UpdateCells: &sheets.UpdateCellsRequest{
					Range:  gridRange(sheet.Properties.SheetId, *anchor),
					Rows:   rows,
					Fields: "userEnteredValue",
				},
			},
		},
	}

	if _, err := g.google.Spreadsheets.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

// DeleteRows deletes the (zero based) rows from the named worksheet. Contiguous rows are deleted
// with a single request.
func (g *GoogleSheets) DeleteRows(ctx context.Context, title string, rows []int) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	sheet, err := g.sheet(ctx, title)
	if err != nil {
		return 0, err
	}

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{},
	}

	deleted := 0
	for _, span := range spans(rows) {
		start, end := span[0], span[1]

		rq.Requests = append(rq.Requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheet.Properties.SheetId,
					Dimension:       "ROWS",
					StartIndex:      int64(start - deleted),
					EndIndex:        int64(end - deleted + 1),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		})

		deleted += end - start + 1
	}

	if _, err := g.google.Spreadsheets.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return 0, err
	}

	return deleted, nil
}

// region resolves a range to the A1 notation of the cells it covers. Bounded ranges and ranges
// anchored at A1 map directly, any other open ended range is extended to the size of the grid.
func (g *GoogleSheets) region(ctx context.Context, area string) (string, error) {
	a, err := ParseArea(area)
	if err != nil {
		return "", err
	}

	if a.Bounded() || (a.Row == 0 && a.Column == 0) {
		return a.String(), nil
	}

	sheet, err := g.sheet(ctx, a.Sheet)
	if err != nil {
		return "", err
	}

	grid := sheet.Properties.GridProperties
	if grid == nil || int(grid.ColumnCount) <= a.Column || int(grid.RowCount) <= a.Row {
		return "", fmt.Errorf("range '%v' is outside the worksheet grid", area)
	}

	a.EndColumn = int(grid.ColumnCount)
	a.EndRow = int(grid.RowCount)

	return a.String(), nil
}

// gridRange returns the grid range for an area. The end of an open ended area is left unset,
// which extends it to the edge of the worksheet.
func gridRange(sheetID int64, a Area) *sheets.GridRange {
	r := sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(a.Row),
		StartColumnIndex: int64(a.Column),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}

	if a.EndColumn > 0 {
		r.EndColumnIndex = int64(a.EndColumn)
	}

	if a.EndRow > 0 {
		r.EndRowIndex = int64(a.EndRow)
	}

	return &r
}

func (g *GoogleSheets) sheet(ctx context.Context, title string) (*sheets.Sheet, error) {
	spreadsheet, err := g.google.Spreadsheets.Get(g.spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet (%v)", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && strings.EqualFold(strings.TrimSpace(sheet.Properties.Title), strings.TrimSpace(title)) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("unable to identify worksheet '%s'", title)
}

// spans groups a list of row indices into ascending [start,end] runs of contiguous rows.
func spans(rows []int) [][2]int {
	if len(rows) == 0 {
		return nil
	}

	list := append([]int{}, rows...)
	sort.Ints(list)

	runs := [][2]int{}
	start := list[0]
	last := list[0]
	for _, row := range list[1:] {
		if row == last {
			continue
		}

		if row != last+1 {
			runs = append(runs, [2]int{start, last})
			start = row
		}

		last = row
	}

	return append(runs, [2]int{start, last})
}

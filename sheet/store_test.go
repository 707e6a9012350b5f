package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/zoho-sales-sheets/sales"
)

type request struct {
	method string
	path   string
	query  string
	body   string
}

func newGoogleSheets(t *testing.T, responses map[string]string) (*GoogleSheets, func() []request) {
	t.Helper()

	var guard sync.Mutex
	requests := []request{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		guard.Lock()
		requests = append(requests, request{r.Method, r.URL.Path, r.URL.RawQuery, string(body)})
		guard.Unlock()

		w.Header().Set("Content-Type", "application/json")
		for suffix, response := range responses {
			if strings.HasSuffix(r.URL.Path, suffix) {
				fmt.Fprint(w, response)
				return
			}
		}

		fmt.Fprint(w, `{}`)
	}))

	t.Cleanup(server.Close)

	google, err := sheets.NewService(context.Background(),
		option.WithHTTPClient(server.Client()),
		option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)

	return NewGoogleSheets(google, "spreadsheet-id"), func() []request {
		guard.Lock()
		defer guard.Unlock()

		return append([]request{}, requests...)
	}
}

const spreadsheetJSON = `{"spreadsheetId":"spreadsheet-id","sheets":[
  {"properties":{"sheetId":0,"title":"Sheet1","gridProperties":{"rowCount":1000,"columnCount":26}}},
  {"properties":{"sheetId":1234,"title":"Sheet3","gridProperties":{"rowCount":500,"columnCount":12}}}]}`

func TestGoogleSheetsGet(t *testing.T) {
	g, requests := newGoogleSheets(t, map[string]string{
		"/values/Sheet3": `{"range":"Sheet3!A1:B2","majorDimension":"ROWS","values":[["Date","Amount"],["2024-05-01","10"]]}`,
	})

	values, err := g.Get(context.Background(), "Sheet3!A1")

	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Date", "Amount"}, {"2024-05-01", "10"}}, values)

	list := requests()
	require.Len(t, list, 1)
	assert.Equal(t, http.MethodGet, list[0].method)
	assert.Equal(t, "/v4/spreadsheets/spreadsheet-id/values/Sheet3", list[0].path)
}

func TestGoogleSheetsGetRegion(t *testing.T) {
	tests := []struct {
		area     string
		expected []string
	}{
		{"Sheet3!A1", []string{"/v4/spreadsheets/spreadsheet-id/values/Sheet3"}},
		{"Sheet3", []string{"/v4/spreadsheets/spreadsheet-id/values/Sheet3"}},
		{"Sheet3!A1:K", []string{"/v4/spreadsheets/spreadsheet-id/values/Sheet3!A1:K"}},
		{"Sheet3!B2:D20", []string{"/v4/spreadsheets/spreadsheet-id/values/Sheet3!B2:D20"}},
		{"Sheet3!B2", []string{"/v4/spreadsheets/spreadsheet-id", "/v4/spreadsheets/spreadsheet-id/values/Sheet3!B2:L500"}},
		{"'Sales by Item'!A1", []string{"/v4/spreadsheets/spreadsheet-id/values/'Sales by Item'"}},
	}

	for _, test := range tests {
		g, requests := newGoogleSheets(t, map[string]string{
			"/spreadsheets/spreadsheet-id": spreadsheetJSON,
		})

		_, err := g.Get(context.Background(), test.area)
		require.NoError(t, err, test.area)

		paths := []string{}
		for _, rq := range requests() {
			paths = append(paths, rq.path)
		}

		assert.Equal(t, test.expected, paths, test.area)
	}
}

func TestGoogleSheetsGetOutsideGrid(t *testing.T) {
	g, _ := newGoogleSheets(t, map[string]string{
		"/spreadsheets/spreadsheet-id": spreadsheetJSON,
	})

	_, err := g.Get(context.Background(), "Sheet3!M2")

	assert.Error(t, err)
}

func TestGoogleSheetsClearAndUpdate(t *testing.T) {
	g, requests := newGoogleSheets(t, map[string]string{})

	require.NoError(t, g.Clear(context.Background(), "Sheet3!A1"))
	require.NoError(t, g.Update(context.Background(), "Sheet3!A1", [][]any{{"Date"}, {"2024-06-01"}}))

	list := requests()
	require.Len(t, list, 2)

	assert.Equal(t, http.MethodPost, list[0].method)
	assert.Equal(t, "/v4/spreadsheets/spreadsheet-id/values/Sheet3:clear", list[0].path)

	assert.Equal(t, http.MethodPut, list[1].method)
	assert.Contains(t, list[1].query, "valueInputOption=RAW")

	var body sheets.ValueRange
	require.NoError(t, json.Unmarshal([]byte(list[1].body), &body))
	assert.Equal(t, [][]any{{"Date"}, {"2024-06-01"}}, body.Values)
}

func TestGoogleSheetsReplace(t *testing.T) {
	g, requests := newGoogleSheets(t, map[string]string{
		"/spreadsheets/spreadsheet-id": `{"spreadsheetId":"spreadsheet-id","sheets":[{"properties":{"sheetId":0,"title":"Sheet1"}},{"properties":{"sheetId":1234,"title":"Sheet3"}}]}`,
	})

	require.NoError(t, g.Replace(context.Background(), "Sheet3!B2", [][]any{{"Date"}, {"2024-06-01"}}))

	list := requests()
	require.Len(t, list, 2)
	assert.Equal(t, http.MethodGet, list[0].method)
	assert.Equal(t, http.MethodPost, list[1].method)
	assert.True(t, strings.HasSuffix(list[1].path, ":batchUpdate"), list[1].path)

	var rq sheets.BatchUpdateSpreadsheetRequest
	require.NoError(t, json.Unmarshal([]byte(list[1].body), &rq))
	require.Len(t, rq.Requests, 1)
	require.NotNil(t, rq.Requests[0].UpdateCells)

	update := rq.Requests[0].UpdateCells
	assert.Equal(t, int64(1234), update.Range.SheetId)
	assert.Equal(t, int64(1), update.Range.StartRowIndex)
	assert.Equal(t, int64(1), update.Range.StartColumnIndex)
	assert.Equal(t, int64(0), update.Range.EndRowIndex)
	assert.Equal(t, int64(0), update.Range.EndColumnIndex)
	assert.Equal(t, "userEnteredValue", update.Fields)
	require.Len(t, update.Rows, 2)
	assert.Equal(t, "2024-06-01", *update.Rows[1].Values[0].UserEnteredValue.StringValue)
}

func TestGoogleSheetsReplaceWithUnknownSheet(t *testing.T) {
	g, requests := newGoogleSheets(t, map[string]string{
		"/spreadsheets/spreadsheet-id": `{"spreadsheetId":"spreadsheet-id","sheets":[{"properties":{"sheetId":0,"title":"Sheet1"}}]}`,
	})

	assert.Error(t, g.Replace(context.Background(), "Sheet3!A1", [][]any{{"Date"}}))
	assert.Len(t, requests(), 1)
}

func TestGoogleSheetsReplaceBoundedRange(t *testing.T) {
	g, requests := newGoogleSheets(t, map[string]string{
		"/spreadsheets/spreadsheet-id": spreadsheetJSON,
	})

	require.NoError(t, g.Replace(context.Background(), "Sheet3!A1:K", [][]any{{"Date"}}))
	require.NoError(t, g.Replace(context.Background(), "Sheet3!B2:D20", [][]any{{"Date"}}))

	list := requests()
	require.Len(t, list, 4)

	ranges := []*sheets.GridRange{}
	for _, rq := range []request{list[1], list[3]} {
		var body sheets.BatchUpdateSpreadsheetRequest
		require.NoError(t, json.Unmarshal([]byte(rq.body), &body))
		require.Len(t, body.Requests, 1)
		ranges = append(ranges, body.Requests[0].UpdateCells.Range)
	}

	assert.Equal(t, int64(0), ranges[0].StartColumnIndex)
	assert.Equal(t, int64(11), ranges[0].EndColumnIndex)
	assert.Equal(t, int64(0), ranges[0].EndRowIndex)

	assert.Equal(t, int64(1), ranges[1].StartRowIndex)
	assert.Equal(t, int64(1), ranges[1].StartColumnIndex)
	assert.Equal(t, int64(4), ranges[1].EndColumnIndex)
	assert.Equal(t, int64(20), ranges[1].EndRowIndex)
}

func TestEngineSyncReadsAndClearsFromAnchor(t *testing.T) {
	g, requests := newGoogleSheets(t, map[string]string{
		"/values/Sheet3": `{"range":"Sheet3!A1:B3","majorDimension":"ROWS","values":[["Date","Organization"],["2024-05-01","North"],["2024-05-01","South"]]}`,
	})

	engine := NewEngine(g, Options{})
	result, err := engine.Sync(context.Background(), []sales.Record{{Date: "2024-06-01", Organization: "North"}}, "Sheet3!A1")

	require.NoError(t, err)
	assert.Equal(t, 2, result.Existing)
	assert.Equal(t, 3, result.Rows)

	list := requests()
	require.Len(t, list, 3)
	assert.Equal(t, "/v4/spreadsheets/spreadsheet-id/values/Sheet3", list[0].path)
	assert.Equal(t, "/v4/spreadsheets/spreadsheet-id/values/Sheet3:clear", list[1].path)
	assert.Equal(t, "/v4/spreadsheets/spreadsheet-id/values/Sheet3!A1", list[2].path)

	var body sheets.ValueRange
	require.NoError(t, json.Unmarshal([]byte(list[2].body), &body))
	assert.Len(t, body.Values, 4)
}

// Package report runs the month-to-date 'sales by item' synchronisation across a set of
// organizations.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/sales"
	"github.com/uhppoted/zoho-sales-sheets/sheet"
	"github.com/uhppoted/zoho-sales-sheets/zoho"
)

type Fetcher interface {
	SalesByItem(ctx context.Context, accessToken string, org zoho.Organization, window zoho.Window) ([]sales.Record, error)
}

type Syncer interface {
	Sync(ctx context.Context, records []sales.Record, area string) (sheet.Result, error)
}

// Count summarises the records fetched for a single organization. Err is the fetch error, if
// any, in which case Records is 0.
type Count struct {
	Organization zoho.Organization
	Records      int
	Amount       decimal.Decimal
	Err          error
}

type Result struct {
	RunID   uuid.UUID
	Window  zoho.Window
	Fetched []Count
	Sheet   sheet.Result
	Updated bool
	Success bool
}

func (r Result) Records() int {
	total := 0
	for _, c := range r.Fetched {
		total += c.Records
	}

	return total
}

type Orchestrator struct {
	Fetcher       Fetcher
	Syncer        Syncer
	Organizations []zoho.Organization
	Range         string
	AccessToken   string
	Now           func() time.Time
}

// Run fetches the month-to-date sales for each organization in turn and, if any records were
// retrieved, syncs the combined records to the worksheet range. A fetch failure for one
// organization is logged and does not stop the run. If no records are retrieved the worksheet is
// not touched.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}

	window := zoho.NewWindow(now())
	result := Result{
		RunID:   uuid.New(),
		Window:  window,
		Fetched: []Count{},
	}

	log.Infof("%v  fetching MTD data from %v to %v", result.RunID, window.FromDate(), window.ToDate())

	records := []sales.Record{}
	for _, org := range o.Organizations {
		log.Infof("%v  fetching for %v", result.RunID, org)

		list, err := o.Fetcher.SalesByItem(ctx, o.AccessToken, org, window)
		if err != nil {
			log.Errorf("%v  %v", result.RunID, err)
			list = nil
		}

		result.Fetched = append(result.Fetched, Count{
			Organization: org,
			Records:      len(list),
			Amount:       sales.Total(list),
			Err:          err,
		})

		records = append(records, list...)

		log.Infof("%v  %v  records fetched: %v", result.RunID, org.Name, len(list))
	}

	if len(records) == 0 {
		log.Infof("%v  no sales data found for the selected date range - worksheet not updated", result.RunID)
		result.Success = true
		return result, nil
	}

	rs, err := o.Syncer.Sync(ctx, records, o.Range)

	result.Sheet = rs
	result.Updated = rs.Updated

	if err != nil {
		return result, err
	}

	result.Success = true

	log.Infof("%v  worksheet %v updated (existing:%v  removed:%v  added:%v  rows:%v)",
		result.RunID, o.Range, rs.Existing, rs.Removed, rs.Added, rs.Rows)

	return result, nil
}

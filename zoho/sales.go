package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/sales"
)

const DefaultSalesEndpoint = "https://www.zohoapis.in/books/v3/reports/salesbyitem"

const (
	PerPage   = 200
	tokenType = "Zoho-oauthtoken"
)

// Client retrieves the 'sales by item' report from Zoho Books.
type Client struct {
	endpoint string
	client   *http.Client
	maxPages int
}

// NewClient returns a sales report client. A nil HTTP client uses http.DefaultClient and
// maxPages < 1 retrieves only the first page of the report.
func NewClient(endpoint string, client *http.Client, maxPages int) *Client {
	if maxPages < 1 {
		maxPages = 1
	}

	return &Client{
		endpoint: endpoint,
		client:   client,
		maxPages: maxPages,
	}
}

// SalesByItem retrieves the sales report for an organization over the reporting window. Records
// from multiple pages are returned in the order returned by the API. Every record is dated with
// the first day of the reporting month and tagged with the organization name.
func (c *Client) SalesByItem(ctx context.Context, accessToken string, org Organization, window Window) ([]sales.Record, error) {
	if accessToken == "" {
		return nil, &FetchError{Organization: org.Name, Err: fmt.Errorf("missing access token")}
	}

	records := []sales.Record{}
	for page := 1; ; page++ {
		body, err := c.get(ctx, accessToken, org, window, page)
		if err != nil {
			return nil, err
		}

		// a missing or null 'sales' list is an empty report
		list := gjson.GetBytes(body, "sales")
		if page == 1 && len(list.Array()) == 0 {
			log.Debugf("%v  no sales data returned", org.Name)
		}

		if list.IsArray() {
			list.ForEach(func(_, sale gjson.Result) bool {
				records = append(records, toRecord(sale, org.Name, window))
				return true
			})
		}

		if page >= c.maxPages || !gjson.GetBytes(body, "page_context.has_more_page").Bool() {
			break
		}
	}

	return records, nil
}

func (c *Client) get(ctx context.Context, accessToken string, org Organization, window Window, page int) ([]byte, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(PerPage))
	query.Set("usestate", "true")
	query.Set("show_sub_categories", "false")
	query.Set("response_option", "1")
	query.Set("organization_id", org.ID)
	query.Set("from_date", window.FromDate())
	query.Set("to_date", window.ToDate())
	query.Set("filter_by", "TransactionDate.CustomDate")

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Organization: org.Name, Err: err}
	}

	rq.Header.Set("Authorization", tokenType+" "+accessToken)
	rq.Header.Set("Accept", "application/json")

	client := c.client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(rq)
	if err != nil {
		return nil, &FetchError{Organization: org.Name, Err: err}
	}

	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &FetchError{Organization: org.Name, Err: err}
	}

	if response.StatusCode != http.StatusOK {
		return nil, &FetchError{Organization: org.Name, Status: response.StatusCode, Body: string(body)}
	}

	if !gjson.ValidBytes(body) {
		return nil, &FetchError{Organization: org.Name, Err: fmt.Errorf("invalid JSON in sales report response")}
	}

	return body, nil
}

func toRecord(sale gjson.Result, organization string, window Window) sales.Record {
	return sales.Record{
		Date:           window.FromDate(),
		Organization:   organization,
		ItemID:         field(sale, "item_id"),
		ItemName:       field(sale, "item_name"),
		Unit:           field(sale, "unit"),
		IsComboProduct: field(sale, "is_combo_product"),
		QuantitySold:   field(sale, "quantity_sold"),
		Amount:         field(sale, "amount"),
		AveragePrice:   field(sale, "average_price"),
		SKU:            field(sale, "item.sku"),
		BranchName:     field(sale, "branch.branch_name"),
	}
}

func field(sale gjson.Result, path string) string {
	if v := sale.Get(path); v.Exists() {
		return sales.Flatten(value(v))
	}

	return ""
}

// value converts a JSON value to the equivalent Go value, keeping object keys in document order
// and numbers as they were sent.
func value(v gjson.Result) any {
	switch {
	case v.IsArray():
		list := []any{}
		v.ForEach(func(_, e gjson.Result) bool {
			list = append(list, value(e))
			return true
		})
		return list

	case v.IsObject():
		object := sales.Object{}
		v.ForEach(func(k, e gjson.Result) bool {
			object = append(object, sales.Pair{Key: k.String(), Value: value(e)})
			return true
		})
		return object

	case v.Type == gjson.Number:
		return json.Number(v.Raw)

	case v.Type == gjson.True, v.Type == gjson.False:
		return v.Bool()

	case v.Type == gjson.String:
		return v.String()

	default:
		return nil
	}
}

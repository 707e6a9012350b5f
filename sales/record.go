// Package sales defines the canonical 'sales by item' record and the tabular form in which
// records are merged with the rows already stored in a worksheet.
package sales

import (
	"github.com/shopspring/decimal"
)

// Column names, in worksheet order.
const (
	ColDate           = "Date"
	ColOrganization   = "Organization"
	ColItemID         = "Item_id"
	ColItemName       = "Item_name"
	ColUnit           = "Unit"
	ColIsComboProduct = "Is_combo_product"
	ColQuantitySold   = "Quantity_sold"
	ColAmount         = "Amount"
	ColAveragePrice   = "Average_price"
	ColSKU            = "Sku"
	ColBranchName     = "Branch_name"
)

var Header = []string{
	ColDate,
	ColOrganization,
	ColItemID,
	ColItemName,
	ColUnit,
	ColIsComboProduct,
	ColQuantitySold,
	ColAmount,
	ColAveragePrice,
	ColSKU,
	ColBranchName,
}

// Record is a single 'sales by item' entry for one organization and reporting month. All fields
// are already flattened to their worksheet representation and absent source fields are "".
type Record struct {
	Date           string
	Organization   string
	ItemID         string
	ItemName       string
	Unit           string
	IsComboProduct string
	QuantitySold   string
	Amount         string
	AveragePrice   string
	SKU            string
	BranchName     string
}

func (r Record) Values() []string {
	return []string{
		r.Date,
		r.Organization,
		r.ItemID,
		r.ItemName,
		r.Unit,
		r.IsComboProduct,
		r.QuantitySold,
		r.Amount,
		r.AveragePrice,
		r.SKU,
		r.BranchName,
	}
}

func (r Record) Row() Row {
	row := Row{}
	for i, v := range r.Values() {
		row[Header[i]] = v
	}

	return row
}

// Total returns the sum of the record amounts. Amounts that are not numeric (typically because
// the API omitted them) are skipped.
func Total(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if amount, err := decimal.NewFromString(r.Amount); err == nil {
			total = total.Add(amount)
		}
	}

	return total
}

// FromRow builds a record from a row keyed by column name. Columns that are not part of the
// record are ignored and missing columns are "".
func FromRow(row Row) Record {
	get := func(column string) string {
		return Flatten(row[column])
	}

	return Record{
		Date:           get(ColDate),
		Organization:   get(ColOrganization),
		ItemID:         get(ColItemID),
		ItemName:       get(ColItemName),
		Unit:           get(ColUnit),
		IsComboProduct: get(ColIsComboProduct),
		QuantitySold:   get(ColQuantitySold),
		Amount:         get(ColAmount),
		AveragePrice:   get(ColAveragePrice),
		SKU:            get(ColSKU),
		BranchName:     get(ColBranchName),
	}
}

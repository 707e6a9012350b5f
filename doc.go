// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package zoho-sales-sheets copies the Zoho Books 'sales by item' report to a Google Sheets worksheet.

zoho-sales-sheets can be used from the command line but is really intended to be run from a cron job to keep
a running month-to-date record of the item sales across a set of Zoho Books organizations.

zoho-sales-sheets supports the following commands:

  - refresh-token, to exchange the Zoho refresh token for a new access token
  - sync, to fetch the month-to-date sales for each organization and append them to a Google Sheets worksheet
  - get, to download the sales worksheet as a TSV file
  - put, to merge the sales records in a TSV file into the sales worksheet
  - version, to display the current version
*/
package zohosales

package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/sheet"
)

var PutCmd = Put{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		env:         DEFAULT_ENV,
		url:         "",
	},

	area: "Sheet3!A1",
	file: "",
}

// Put merges the sales records from a TSV file into the worksheet e.g. to backfill a month that
// was missed or to restore a worksheet from a file retrieved with 'get'.
type Put struct {
	command
	area         string
	file         string
	replaceMonth bool
	atomic       bool
	strict       bool
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads the sales records in a TSV file to a Google Sheets worksheet"
}

func (cmd *Put) Usage() string {
	return "--credentials <file> --url <url> --range <range> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] put [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Merges the sales records in a TSV file into a Google Sheets worksheet")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug put --credentials "credentials.json" \`+"\n", APP)
	fmt.Println(`                              --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                              --range "Sales!A1" \`)
	fmt.Println(`                              --file "sales.tsv" --replace-month`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'Sales!A1' or 'Sales!A1:K'. A range without an end extends from the anchor to the edge of the worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file with a header row")
	flagset.BoolVar(&cmd.replaceMonth, "replace-month", cmd.replaceMonth, "Replaces the existing rows for the months in the file rather than appending to them")
	flagset.BoolVar(&cmd.atomic, "atomic", cmd.atomic, "Replaces the worksheet range with a single batch update")
	flagset.BoolVar(&cmd.strict, "strict", cmd.strict, "Fails the upload if the existing worksheet rows cannot be read")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
	// ... check parameters
	_, _, spreadsheet, err := cmd.config()
	if err != nil {
		return err
	}

	if _, err := sheet.ParseArea(cmd.area); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	records, err := tsvToRecords(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%w)", cmd.file, err)
	} else if len(records) == 0 {
		log.Infof("no sales records in %v - worksheet not updated", cmd.file)
		return nil
	}

	log.Debugf("spreadsheet - ID:%s  range:%s  records:%v", spreadsheet, cmd.area, len(records))

	// ... upload
	ctx := context.Background()
	google, err := cmd.sheets(ctx)
	if err != nil {
		return err
	}

	policy := sheet.Append
	if cmd.replaceMonth {
		policy = sheet.ReplaceMonth
	}

	engine := sheet.NewEngine(sheet.NewGoogleSheets(google, spreadsheet), sheet.Options{
		Policy: policy,
		Atomic: cmd.atomic,
		Strict: cmd.strict,
	})

	result, err := engine.Sync(ctx, records, cmd.area)
	if err != nil {
		return err
	}

	log.Infof("uploaded TSV file %v to %v (existing:%v  removed:%v  added:%v  rows:%v)",
		cmd.file, cmd.area, result.Existing, result.Removed, result.Added, result.Rows)

	return nil
}

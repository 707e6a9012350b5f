package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/sales"
	"github.com/uhppoted/zoho-sales-sheets/sheet"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		env:         DEFAULT_ENV,
		url:         "",
	},

	area: "Sheet3!A1",
	file: time.Now().Format("sales 2006-01-02T150405.tsv"),
}

type Get struct {
	command
	area string
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the sales records from a Google Sheets worksheet and stores them to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --range <range> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --range <range> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the sales worksheet to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug get --credentials "credentials.json" \`+"\n", APP)
	fmt.Println(`                              --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                              --range "Sales!A1" \`)
	fmt.Println(`                              --file "sales.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range e.g. 'Sales!A1' or 'Sales!A1:K'. A range without an end extends from the anchor to the edge of the worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to 'sales <yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	// ... check parameters
	_, _, spreadsheet, err := cmd.config()
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	log.Debugf("spreadsheet - ID:%s  range:%s", spreadsheet, cmd.area)

	// ... fetch
	ctx := context.Background()
	google, err := cmd.sheets(ctx)
	if err != nil {
		return err
	}

	values, err := sheet.NewGoogleSheets(google, spreadsheet).Get(ctx, cmd.area)
	if err != nil {
		return &sheet.SinkError{Op: "reading", Range: cmd.area, Err: err}
	}

	table, err := sales.MakeTable(values)
	if err != nil {
		return err
	} else if len(table.Header) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	// ... write
	tmp, err := os.CreateTemp(os.TempDir(), "zoho-sales")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := tableToTSV(tmp, table); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	tmp.Close()

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	log.Infof("retrieved %v sales records to file %s", len(table.Rows), cmd.file)

	return nil
}

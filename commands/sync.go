package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/report"
	"github.com/uhppoted/zoho-sales-sheets/sheet"
	"github.com/uhppoted/zoho-sales-sheets/zoho"
)

var SyncCmd = Sync{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
		env:         DEFAULT_ENV,
		url:         "",
	},

	area:         "Sheet3!A1",
	orgs:         "",
	refresh:      false,
	replaceMonth: false,
	atomic:       false,
	strict:       false,
	maxPages:     1,
	salesURL:     zoho.DefaultSalesEndpoint,
	logRange:     "Log!A1:G",
	logRetention: 30,
	timeout:      60 * time.Second,
}

type Sync struct {
	command
	area         string
	orgs         string
	refresh      bool
	replaceMonth bool
	atomic       bool
	strict       bool
	maxPages     uint
	salesURL     string
	logRange     string
	logRetention uint
	timeout      time.Duration
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Fetches the month-to-date Zoho Books 'sales by item' report and appends it to a Google Sheets worksheet"
}

func (cmd *Sync) Usage() string {
	return "--credentials <file> --env <file> --url <url> --range <range>"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] sync [options] --url <URL> --range <range>\n", APP)
	fmt.Println()
	fmt.Println("  Fetches the 'sales by item' report for the current month for each Zoho Books organization and")
	fmt.Println("  appends the records to the worksheet range. The worksheet is not modified if there are no sales.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s --debug sync --credentials "credentials.json" \`+"\n", APP)
	fmt.Println(`                               --env "credentials.env" \`)
	fmt.Println(`                               --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                               --range "Sales!A1" \`)
	fmt.Println(`                               --orgs "60012345678=North,60087654321=South" \`)
	fmt.Println(`                               --refresh --replace-month`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.StringVar(&cmd.area, "range", cmd.area, "Worksheet range for the sales records e.g. 'Sales!A1' or 'Sales!A1:K'. A range without an end extends from the anchor to the edge of the worksheet")
	flagset.StringVar(&cmd.orgs, "orgs", cmd.orgs, "Zoho organizations as a comma separated list of id=name pairs. Defaults to ZOHO_ORGANIZATIONS")
	flagset.BoolVar(&cmd.refresh, "refresh", cmd.refresh, "Refreshes the Zoho access token before fetching the sales records")
	flagset.BoolVar(&cmd.replaceMonth, "replace-month", cmd.replaceMonth, "Replaces the existing rows for the current month rather than appending to them")
	flagset.BoolVar(&cmd.atomic, "atomic", cmd.atomic, "Replaces the worksheet range with a single batch update")
	flagset.BoolVar(&cmd.strict, "strict", cmd.strict, "Fails the sync if the existing worksheet rows cannot be read")
	flagset.UintVar(&cmd.maxPages, "max-pages", cmd.maxPages, "Maximum number of report pages to fetch per organization")
	flagset.StringVar(&cmd.salesURL, "sales-url", cmd.salesURL, "Zoho Books 'sales by item' report endpoint")
	flagset.StringVar(&cmd.logRange, "log-range", cmd.logRange, "Worksheet range for the run log. An empty range disables the log")
	flagset.UintVar(&cmd.logRetention, "log-retention", cmd.logRetention, "Log records older than 'log-retention' days are pruned. 0 disables pruning")
	flagset.DurationVar(&cmd.timeout, "timeout", cmd.timeout, "HTTP request timeout for the Zoho API")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	// ... check parameters
	store, values, spreadsheet, err := cmd.config()
	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.area) == "" {
		return fmt.Errorf("--range is a required option")
	}

	if _, err := sheet.ParseArea(cmd.area); err != nil {
		return err
	}

	if cmd.logRange != "" {
		if _, err := sheet.ParseArea(cmd.logRange); err != nil {
			return fmt.Errorf("invalid --log-range (%w)", err)
		}
	}

	if cmd.maxPages == 0 {
		return fmt.Errorf("--max-pages must be at least 1")
	}

	orgs, err := organizations(cmd.orgs, values)
	if err != nil {
		return err
	} else if len(orgs) == 0 {
		log.Warnf("no Zoho organizations - use --orgs or set %v", zoho.KeyOrganizations)
	}

	log.Debugf("spreadsheet - ID:%s  range:%s  log:%s", spreadsheet, cmd.area, cmd.logRange)

	ctx := context.Background()
	client := &http.Client{Timeout: cmd.timeout}
	credential := zoho.CredentialFromConfig(values)

	// ... refresh access token
	if cmd.refresh {
		provider := zoho.NewTokenProvider(client)
		if updated, err := provider.Refresh(ctx, credential, store); err != nil {
			logAuthError(err)
			log.Warnf("%v - continuing with the saved access token", err)
		} else {
			credential = updated
			log.Infof("access token refreshed and saved to %v", store.Path())
		}
	}

	// ... sync
	google, err := cmd.sheets(ctx)
	if err != nil {
		return err
	}

	sink := sheet.NewGoogleSheets(google, spreadsheet)
	policy := sheet.Append
	if cmd.replaceMonth {
		policy = sheet.ReplaceMonth
	}

	orchestrator := report.Orchestrator{
		Fetcher: zoho.NewClient(cmd.salesURL, client, int(cmd.maxPages)),
		Syncer: sheet.NewEngine(sink, sheet.Options{
			Policy: policy,
			Atomic: cmd.atomic,
			Strict: cmd.strict,
		}),
		Organizations: orgs,
		Range:         cmd.area,
		AccessToken:   credential.AccessToken,
	}

	result, err := orchestrator.Run(ctx)

	// ... log
	if cmd.logRange != "" && len(result.Fetched) > 0 {
		now := time.Now()

		if err := updateLogSheet(ctx, sink, cmd.logRange, result, now); err != nil {
			log.Warnf("%v", err)
		} else if cmd.logRetention > 0 {
			if err := pruneLogSheet(ctx, sink, cmd.logRange, cmd.logRetention, now); err != nil {
				log.Warnf("%v", err)
			}
		}
	}

	return err
}

func logAuthError(err error) {
	var autherr *zoho.AuthError
	if errors.As(err, &autherr) && autherr.Status != 0 {
		log.Errorf("token refresh failed: HTTP %v", autherr.Status)
		log.Errorf("%v", autherr.Body)
	}
}

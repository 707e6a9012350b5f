package commands

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/uhppoted/zoho-sales-sheets/envfile"
	"github.com/uhppoted/zoho-sales-sheets/zoho"
)

const APP = "zoho-sales-sheets"
const VERSION = "v0.1.0"

const KeySpreadsheet = "ZOHO_SPREADSHEET"

type Options struct {
	Debug bool
}

type command struct {
	workdir     string
	credentials string
	env         string
	url         string
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (Google tokens, etc)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google 'credentials.json' file")
	flagset.StringVar(&c.env, "env", c.env, "Path for the Zoho 'credentials.env' file")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL (defaults to ZOHO_SPREADSHEET from the credentials.env file)")

	return flagset
}

// config loads the Zoho credentials file and resolves the spreadsheet ID.
func (c *command) config() (*envfile.Store, map[string]string, string, error) {
	if strings.TrimSpace(c.env) == "" {
		return nil, nil, "", fmt.Errorf("--env is a required option")
	}

	if strings.TrimSpace(c.credentials) == "" {
		return nil, nil, "", fmt.Errorf("--credentials is a required option")
	}

	store := envfile.NewStore(c.env)
	values, err := store.Load()
	if err != nil {
		return nil, nil, "", err
	}

	url := c.url
	if strings.TrimSpace(url) == "" {
		url = values[KeySpreadsheet]
	}

	if strings.TrimSpace(url) == "" {
		return nil, nil, "", fmt.Errorf("--url is a required option")
	}

	spreadsheet, err := spreadsheetID(url)
	if err != nil {
		return nil, nil, "", err
	}

	return store, values, spreadsheet, nil
}

func (c *command) sheets(ctx context.Context) (*sheets.Service, error) {
	client, err := authorize(c.credentials, SHEETS, c.workdir)
	if err != nil {
		return nil, fmt.Errorf("Google Sheets authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Google Sheets client (%w)", err)
	}

	return google, nil
}

func organizations(flag string, values map[string]string) ([]zoho.Organization, error) {
	if strings.TrimSpace(flag) != "" {
		return zoho.ParseOrganizations(flag)
	}

	return zoho.ParseOrganizations(values[zoho.KeyOrganizations])
}

// spreadsheetID accepts either a Google Sheets URL or a bare spreadsheet ID.
func spreadsheetID(url string) (string, error) {
	url = strings.TrimSpace(url)

	if match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(url); len(match) > 1 && match[1] != "" {
		return match[1], nil
	}

	if regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`).MatchString(url) {
		return url, nil
	}

	return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
}

func helpOptions(flagset *flag.FlagSet) {
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-14s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Options:")
	fmt.Println()
	fmt.Println("    --debug          Displays internal information for diagnosing errors")
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(v, " ", ""), "_", ""))
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/uhppoted/zoho-sales-sheets/envfile"
	"github.com/uhppoted/zoho-sales-sheets/log"
	"github.com/uhppoted/zoho-sales-sheets/zoho"
)

var RefreshTokenCmd = RefreshToken{
	env:     DEFAULT_ENV,
	timeout: 30 * time.Second,
}

// RefreshToken exchanges the Zoho refresh token for a new access token and saves it to the
// credentials file.
type RefreshToken struct {
	env     string
	timeout time.Duration
}

func (cmd *RefreshToken) Name() string {
	return "refresh-token"
}

func (cmd *RefreshToken) Description() string {
	return "Refreshes the Zoho access token"
}

func (cmd *RefreshToken) Usage() string {
	return "--env <file>"
}

func (cmd *RefreshToken) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] refresh-token [--env <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Exchanges the ZOHO_REFRESH_TOKEN for a new access token and updates ZOHO_ACCESS_TOKEN in the")
	fmt.Println("  credentials file. The rest of the file is left unchanged.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s refresh-token --env "credentials.env"`+"\n", APP)
	fmt.Println()
}

func (cmd *RefreshToken) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("refresh-token", flag.ExitOnError)

	flagset.StringVar(&cmd.env, "env", cmd.env, "Path for the Zoho 'credentials.env' file")
	flagset.DurationVar(&cmd.timeout, "timeout", cmd.timeout, "HTTP request timeout")

	return flagset
}

func (cmd *RefreshToken) Execute(args ...any) error {
	if strings.TrimSpace(cmd.env) == "" {
		return fmt.Errorf("--env is a required option")
	}

	store := envfile.NewStore(cmd.env)
	values, err := store.Load()
	if err != nil {
		return err
	}

	credential := zoho.CredentialFromConfig(values)
	provider := zoho.NewTokenProvider(&http.Client{Timeout: cmd.timeout})

	if _, err := provider.Refresh(context.Background(), credential, store); err != nil {
		logAuthError(err)
		return err
	}

	log.Infof("access token refreshed and saved to %v", store.Path())

	return nil
}

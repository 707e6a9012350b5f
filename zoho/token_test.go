package zoho_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhppoted/zoho-sales-sheets/envfile"
	"github.com/uhppoted/zoho-sales-sheets/zoho"
)

const env = `ZOHO_CLIENT_ID=1000.CLIENT
ZOHO_CLIENT_SECRET=secret
ZOHO_REFRESH_TOKEN=1000.refresh
ZOHO_REDIRECT_URL=https://example.com/callback
ZOHO_ACCESS_TOKEN=1000.old
# trailing comment
`

type capture struct {
	sync.Mutex
	form  url.Values
	query url.Values
}

func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *capture) {
	t.Helper()

	c := capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Lock()
		defer c.Unlock()

		r.ParseForm()
		c.form = r.PostForm
		c.query = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))

	t.Cleanup(server.Close)

	return server, &c
}

func newEnvFile(t *testing.T) *envfile.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credentials.env")
	require.NoError(t, os.WriteFile(path, []byte(env), 0600))

	return envfile.NewStore(path)
}

func credential(t *testing.T, store *envfile.Store, endpoint string) zoho.Credential {
	t.Helper()

	values, err := store.Load()
	require.NoError(t, err)

	values[zoho.KeyAccountsURL] = endpoint

	return zoho.CredentialFromConfig(values)
}

func TestRefresh(t *testing.T) {
	server, captured := newTokenServer(t, http.StatusOK, `{"access_token":"1000.new","api_domain":"https://www.zohoapis.in","token_type":"Bearer","expires_in":3600}`)
	store := newEnvFile(t)
	c := credential(t, store, server.URL+"/oauth/v2/token")

	updated, err := zoho.NewTokenProvider(server.Client()).Refresh(context.Background(), c, store)

	require.NoError(t, err)
	assert.Equal(t, "1000.new", updated.AccessToken)
	assert.Equal(t, "1000.old", c.AccessToken)

	captured.Lock()
	defer captured.Unlock()

	assert.Equal(t, "refresh_token", captured.form.Get("grant_type"))
	assert.Equal(t, "1000.refresh", captured.form.Get("refresh_token"))
	assert.Equal(t, "1000.CLIENT", captured.form.Get("client_id"))
	assert.Equal(t, "secret", captured.form.Get("client_secret"))
	assert.Equal(t, "https://example.com/callback", captured.query.Get("redirect_uri"))

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	expected := `ZOHO_CLIENT_ID=1000.CLIENT
ZOHO_CLIENT_SECRET=secret
ZOHO_REFRESH_TOKEN=1000.refresh
ZOHO_REDIRECT_URL=https://example.com/callback
ZOHO_ACCESS_TOKEN=1000.new
# trailing comment
`
	assert.Equal(t, expected, string(b))
}

func TestRefreshFailureLeavesConfigUnchanged(t *testing.T) {
	server, _ := newTokenServer(t, http.StatusBadRequest, `{"error":"invalid_code"}`)
	store := newEnvFile(t)
	c := credential(t, store, server.URL+"/oauth/v2/token")

	updated, err := zoho.NewTokenProvider(server.Client()).Refresh(context.Background(), c, store)

	require.Error(t, err)
	assert.Equal(t, "1000.old", updated.AccessToken)

	var autherr *zoho.AuthError
	require.True(t, errors.As(err, &autherr))
	assert.Equal(t, http.StatusBadRequest, autherr.Status)
	assert.Contains(t, autherr.Body, "invalid_code")

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, env, string(b))
}

func TestExchangeWithMissingRefreshToken(t *testing.T) {
	c := zoho.Credential{
		ClientID:     "1000.CLIENT",
		ClientSecret: "secret",
		Endpoint:     zoho.DefaultTokenEndpoint,
	}

	_, err := zoho.NewTokenProvider(nil).Exchange(context.Background(), c)

	var autherr *zoho.AuthError
	require.True(t, errors.As(err, &autherr))
	assert.Equal(t, 0, autherr.Status)
}

func TestCredentialFromConfigDefaults(t *testing.T) {
	c := zoho.CredentialFromConfig(map[string]string{
		zoho.KeyClientID: " 1000.CLIENT ",
	})

	assert.Equal(t, "1000.CLIENT", c.ClientID)
	assert.Equal(t, zoho.DefaultTokenEndpoint, c.Endpoint)
	assert.Equal(t, "", c.AccessToken)
}

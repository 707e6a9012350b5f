package zoho

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/uhppoted/zoho-sales-sheets/log"
)

// TokenProvider exchanges the long-lived refresh token for a new access token.
type TokenProvider struct {
	client *http.Client
}

// NewTokenProvider returns a TokenProvider that uses client for the token exchange. A nil client
// uses http.DefaultClient.
func NewTokenProvider(client *http.Client) *TokenProvider {
	return &TokenProvider{
		client: client,
	}
}

// Exchange makes a single refresh_token grant request and returns a copy of the credential with
// the new access token. The credential passed in is never modified.
func (p *TokenProvider) Exchange(ctx context.Context, c Credential) (Credential, error) {
	if err := c.validate(); err != nil {
		return c, &AuthError{Err: err}
	}

	endpoint, err := tokenURL(c)
	if err != nil {
		return c, &AuthError{Err: err}
	}

	conf := oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  endpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	if p.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken}).Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			status := 0
			if rerr.Response != nil {
				status = rerr.Response.StatusCode
			}

			return c, &AuthError{Status: status, Body: string(rerr.Body), Err: err}
		}

		return c, &AuthError{Err: err}
	}

	if domain, ok := token.Extra("api_domain").(string); ok {
		log.Debugf("access token issued for API domain %v (expires %v)", domain, token.Expiry.Format("15:04:05"))
	}

	updated := c
	updated.AccessToken = token.AccessToken

	return updated, nil
}

// Refresh exchanges the refresh token for a new access token and saves it to the config store.
// A failed exchange does not touch the store.
func (p *TokenProvider) Refresh(ctx context.Context, c Credential, store ConfigStore) (Credential, error) {
	updated, err := p.Exchange(ctx, c)
	if err != nil {
		return c, err
	}

	if err := updated.Persist(store); err != nil {
		return c, fmt.Errorf("error saving access token (%w)", err)
	}

	return updated, nil
}

// tokenURL adds the redirect URI to the token endpoint query string. The remaining parameters
// are sent in the request body.
func tokenURL(c Credential) (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid token endpoint '%v' (%w)", c.Endpoint, err)
	}

	if c.RedirectURI != "" {
		q := u.Query()
		q.Set("redirect_uri", c.RedirectURI)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

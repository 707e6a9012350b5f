package zoho

import (
	"fmt"
)

// AuthError is returned when the OAuth token endpoint rejects a refresh token exchange.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("token exchange failed (HTTP %v: %v)", e.Status, e.Body)
	}

	return fmt.Sprintf("token exchange failed (%v)", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is returned when the sales report for an organization could not be retrieved.
type FetchError struct {
	Organization string
	Status       int
	Body         string
	Err          error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%v: HTTP error %v (%v)", e.Organization, e.Status, e.Body)
	}

	return fmt.Sprintf("%v: %v", e.Organization, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

package commands

import (
	"testing"
)

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
		{"https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit#gid=0", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
		{"  1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms  ", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
	}

	for _, test := range tests {
		id, err := spreadsheetID(test.url)
		if err != nil {
			t.Errorf("Unexpected error for %v (%v)", test.url, err)
		} else if id != test.expected {
			t.Errorf("Incorrect spreadsheet ID for %v\n   expected:%v\n   got:     %v", test.url, test.expected, id)
		}
	}
}

func TestSpreadsheetIDWithInvalidURL(t *testing.T) {
	for _, url := range []string{"", "https://example.com/spreadsheets/d/1234", "not a spreadsheet"} {
		if _, err := spreadsheetID(url); err == nil {
			t.Errorf("Expected error for invalid spreadsheet URL %q", url)
		}
	}
}

func TestOrganizations(t *testing.T) {
	values := map[string]string{
		"ZOHO_ORGANIZATIONS": "60012345678=North",
	}

	orgs, err := organizations("", values)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	} else if len(orgs) != 1 || orgs[0].ID != "60012345678" || orgs[0].Name != "North" {
		t.Errorf("Incorrect organizations from config - got %v", orgs)
	}

	orgs, err = organizations("60087654321=South", values)
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	} else if len(orgs) != 1 || orgs[0].ID != "60087654321" || orgs[0].Name != "South" {
		t.Errorf("Incorrect organizations from --orgs - got %v", orgs)
	}
}

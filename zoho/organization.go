package zoho

import (
	"fmt"
	"strings"
	"time"
)

const KeyOrganizations = "ZOHO_ORGANIZATIONS"

type Organization struct {
	ID   string
	Name string
}

func (o Organization) String() string {
	return fmt.Sprintf("%v (%v)", o.Name, o.ID)
}

// ParseOrganizations parses a list of organizations formatted as 'id=name,id=name'. A missing
// name defaults to the organization ID.
func ParseOrganizations(s string) ([]Organization, error) {
	list := []Organization{}
	ids := map[string]bool{}

	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		id, name, _ := strings.Cut(token, "=")
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)

		if id == "" {
			return nil, fmt.Errorf("invalid organization '%v' - expected something like '60014866712=EcomMasters'", token)
		} else if ids[id] {
			return nil, fmt.Errorf("duplicate organization ID '%v'", id)
		}

		if name == "" {
			name = id
		}

		ids[id] = true
		list = append(list, Organization{ID: id, Name: name})
	}

	return list, nil
}

// Window is the month-to-date reporting window for a run.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow returns the window from the first day of the month of 'today' to 'today'.
func NewWindow(today time.Time) Window {
	year, month, day := today.Date()

	return Window{
		From: time.Date(year, month, 1, 0, 0, 0, 0, today.Location()),
		To:   time.Date(year, month, day, 0, 0, 0, 0, today.Location()),
	}
}

func (w Window) FromDate() string {
	return w.From.Format("2006-01-02")
}

func (w Window) ToDate() string {
	return w.To.Format("2006-01-02")
}

// Month returns the reporting month formatted as YYYY-MM.
func (w Window) Month() string {
	return w.From.Format("2006-01")
}

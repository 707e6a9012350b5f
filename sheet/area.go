package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Area is a worksheet range e.g. 'Sheet3!A1' or 'Sales!B2:L'. A range without an end is open
// ended: it extends from the anchor to the edge of the worksheet grid.
type Area struct {
	Sheet     string
	Column    int // zero based
	Row       int // zero based
	EndColumn int // exclusive, 0 if open
	EndRow    int // exclusive, 0 if open
}

var areaRegex = regexp.MustCompile(`^(.+?)!([a-zA-Z]+)([0-9]+)(?::([a-zA-Z]+)([0-9]*))?$`)

// ParseArea parses a sheet-relative range. A bare sheet name is anchored at A1.
func ParseArea(area string) (*Area, error) {
	area = strings.TrimSpace(area)

	if area != "" && !strings.Contains(area, "!") {
		return &Area{Sheet: unquote(area)}, nil
	}

	match := areaRegex.FindStringSubmatch(area)
	if len(match) < 6 {
		return nil, fmt.Errorf("invalid range '%s' - expected something like 'Sheet3!A1'", area)
	}

	row, err := strconv.Atoi(match[3])
	if err != nil || row < 1 {
		return nil, fmt.Errorf("invalid range '%s' - invalid row '%v'", area, match[3])
	}

	a := Area{
		Sheet:  unquote(match[1]),
		Column: columnIndex(match[2]),
		Row:    row - 1,
	}

	if match[4] != "" {
		a.EndColumn = columnIndex(match[4]) + 1
		if a.EndColumn <= a.Column {
			return nil, fmt.Errorf("invalid range '%s' - end column before start column", area)
		}
	}

	if match[5] != "" {
		end, err := strconv.Atoi(match[5])
		if err != nil || end <= a.Row {
			return nil, fmt.Errorf("invalid range '%s' - invalid end row '%v'", area, match[5])
		}

		a.EndRow = end
	}

	return &a, nil
}

// Bounded returns true if the range has an explicit end.
func (a Area) Bounded() bool {
	return a.EndColumn > 0
}

// String returns the range in A1 notation. An open ended range anchored at A1 is the whole
// worksheet and is returned as just the sheet name.
func (a Area) String() string {
	sheet := quote(a.Sheet)

	switch {
	case a.Bounded() && a.EndRow > 0:
		return fmt.Sprintf("%v!%v%v:%v%v", sheet, columnName(a.Column), a.Row+1, columnName(a.EndColumn-1), a.EndRow)

	case a.Bounded():
		return fmt.Sprintf("%v!%v%v:%v", sheet, columnName(a.Column), a.Row+1, columnName(a.EndColumn-1))

	case a.Column == 0 && a.Row == 0:
		return sheet

	default:
		return fmt.Sprintf("%v!%v%v", sheet, columnName(a.Column), a.Row+1)
	}
}

func columnIndex(name string) int {
	column := 0
	for _, ch := range strings.ToUpper(name) {
		column = column*26 + int(ch-'A'+1)
	}

	return column - 1
}

func columnName(column int) string {
	name := ""
	for n := column + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}

	return name
}

var plainSheetName = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
var cellName = regexp.MustCompile(`^[a-zA-Z]+[0-9]+$`)

func quote(name string) string {
	if plainSheetName.MatchString(name) && !cellName.MatchString(name) {
		return name
	}

	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func unquote(name string) string {
	if len(name) >= 2 && strings.HasPrefix(name, "'") && strings.HasSuffix(name, "'") {
		return strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}

	return name
}

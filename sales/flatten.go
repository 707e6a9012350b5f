package sales

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Pair is a single key/value entry of an Object.
type Pair struct {
	Key   string
	Value any
}

// Object is a key/value mapping that keeps its keys in insertion order.
type Object []Pair

// Flatten converts a value to a single worksheet cell. Lists are joined with ", ", mappings are
// joined as "key: value" pairs in iteration order and nil is the empty string. Values nested in a
// list or mapping are formatted the way the existing rows in the sales worksheets are: lists and
// mappings as [...] and {...} with quoted strings, nil as None and booleans as True/False. Numbers
// with a fraction or exponent are formatted as the shortest decimal with at least one digit after
// the point e.g. 100.50 is 100.5 and 1e3 is 1000.0.
//
// Flatten never fails and is deterministic: plain Go maps are flattened in key order.
func Flatten(v any) string {
	switch x := v.(type) {
	case nil:
		return ""

	case []any:
		list := make([]string, len(x))
		for i, e := range x {
			list[i] = element(e)
		}
		return strings.Join(list, ", ")

	case []string:
		return strings.Join(x, ", ")

	case Object:
		list := make([]string, len(x))
		for i, p := range x {
			list[i] = fmt.Sprintf("%v: %v", p.Key, element(p.Value))
		}
		return strings.Join(list, ", ")

	case map[string]any:
		list := make([]string, 0, len(x))
		for _, k := range keys(x) {
			list = append(list, fmt.Sprintf("%v: %v", k, element(x[k])))
		}
		return strings.Join(list, ", ")

	default:
		return scalar(v)
	}
}

// element formats a value nested in a list or mapping.
func element(v any) string {
	switch x := v.(type) {
	case string:
		return x

	case nil:
		return "None"

	default:
		return literal(x)
	}
}

// literal formats a value inside a nested list or mapping. Strings are quoted.
func literal(v any) string {
	switch x := v.(type) {
	case string:
		return quote(x)

	case nil:
		return "None"

	case []any:
		list := make([]string, len(x))
		for i, e := range x {
			list[i] = literal(e)
		}
		return "[" + strings.Join(list, ", ") + "]"

	case []string:
		list := make([]string, len(x))
		for i, e := range x {
			list[i] = quote(e)
		}
		return "[" + strings.Join(list, ", ") + "]"

	case Object:
		list := make([]string, len(x))
		for i, p := range x {
			list[i] = quote(p.Key) + ": " + literal(p.Value)
		}
		return "{" + strings.Join(list, ", ") + "}"

	case map[string]any:
		list := make([]string, 0, len(x))
		for _, k := range keys(x) {
			list = append(list, quote(k)+": "+literal(x[k]))
		}
		return "{" + strings.Join(list, ", ") + "}"

	default:
		return scalar(v)
	}
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x

	case bool:
		if x {
			return "True"
		}
		return "False"

	case json.Number:
		return number(string(x))

	case float64:
		return formatFloat(x, 64)

	case float32:
		return formatFloat(float64(x), 32)

	case fmt.Stringer:
		return x.String()

	default:
		return fmt.Sprintf("%v", x)
	}
}

// number formats a JSON number. Integers are kept as sent, anything with a fraction or an
// exponent is formatted as a float.
func number(n string) string {
	if !strings.ContainsAny(n, ".eE") {
		if n == "-0" {
			return "0"
		}

		return n
	}

	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return n
	}

	return formatFloat(f, 64)
}

// formatFloat formats a float as the shortest decimal that round trips, always with a fractional
// part, switching to an exponent outside [1e-4, 1e16).
func formatFloat(f float64, bits int) string {
	if abs := math.Abs(f); f != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bits)
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// quote quotes a string with single quotes, or double quotes if it contains a single quote but
// no double quotes.
func quote(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder

	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == '\\' || r == q:
			b.WriteRune('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)

	return b.String()
}

func keys(m map[string]any) []string {
	list := make([]string, 0, len(m))
	for k := range m {
		list = append(list, k)
	}

	sort.Strings(list)

	return list
}

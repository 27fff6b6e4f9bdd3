package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const maxColumns = 6

// preferredColumns are shown first when a list of objects is tabulated.
var preferredColumns = []string{
	"id", "number", "login", "name", "full_name", "title", "state",
	"sha", "ref", "path", "type", "private", "html_url",
}

// tabulate turns a payload into a header and rows of cell strings. ok is
// false when the payload has no tabular shape, e.g. a scalar.
func tabulate(payload any) (header []string, rows [][]string, ok bool) {
	switch value := payload.(type) {
	case map[string]any:
		keys := sortedKeys(value)
		rows = make([][]string, 0, len(keys))
		for _, key := range keys {
			rows = append(rows, []string{key, cellString(value[key])})
		}
		return []string{"Field", "Value"}, rows, true
	case []any:
		objects := make([]map[string]any, 0, len(value))
		for _, item := range value {
			obj, isObj := item.(map[string]any)
			if !isObj {
				return listRows(value)
			}
			objects = append(objects, obj)
		}
		if len(objects) == 0 {
			return nil, nil, true
		}
		header = chooseColumns(objects[0])
		rows = make([][]string, 0, len(objects))
		for _, obj := range objects {
			row := make([]string, len(header))
			for i, column := range header {
				row[i] = cellString(obj[column])
			}
			rows = append(rows, row)
		}
		return header, rows, true
	default:
		return nil, nil, false
	}
}

func listRows(items []any) ([]string, [][]string, bool) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{cellString(item)})
	}
	return []string{"Value"}, rows, true
}

func chooseColumns(sample map[string]any) []string {
	columns := make([]string, 0, maxColumns)
	seen := make(map[string]bool)
	for _, key := range preferredColumns {
		if len(columns) == maxColumns {
			return columns
		}
		if value, ok := sample[key]; ok && isScalar(value) {
			columns = append(columns, key)
			seen[key] = true
		}
	}
	for _, key := range sortedKeys(sample) {
		if len(columns) == maxColumns {
			break
		}
		if !seen[key] && isScalar(sample[key]) {
			columns = append(columns, key)
		}
	}
	return columns
}

func isScalar(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return false
	default:
		return true
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// cellString renders a value for one table cell. Nested values are
// compacted to JSON.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return truncate(string(data), 80)
	}
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return strings.TrimSpace(value[:limit-3]) + "..."
}

package query

import "encoding/json"

// Project reduces each item to the selected top-level JSON keys plus "id" and
// the populated relation keys. With no selection items are returned whole.
// Populated keys missing from an item (empty relations) are rendered as [].
func Project[T any](items []T, fields []string, populate ...string) ([]map[string]any, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []map[string]any{}
	}

	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[f] = true
	}
	for _, p := range populate {
		keep[p] = true
	}

	for _, m := range out {
		for _, p := range populate {
			if _, ok := m[p]; !ok {
				m[p] = []any{}
			}
		}
		if len(fields) == 0 {
			continue
		}
		for k := range m {
			if !keep[k] {
				delete(m, k)
			}
		}
	}
	return out, nil
}

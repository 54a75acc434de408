package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ListOrMap is a tagged variant for fields whose source shape is either a
// plain list of descriptors or a labelled map. Exactly one side is set.
// Callers read through Values so presentation never branches on shape.
type ListOrMap struct {
	List []string
	Map  map[string]string
}

// IsZero reports whether neither shape carries data.
func (v ListOrMap) IsZero() bool {
	return len(v.List) == 0 && len(v.Map) == 0
}

// Values normalizes either shape to a flat, deterministic string list: the
// list verbatim, or "key: value" pairs in key order.
func (v ListOrMap) Values() []string {
	if len(v.List) > 0 {
		out := make([]string, len(v.List))
		copy(out, v.List)
		return out
	}
	if len(v.Map) == 0 {
		return nil
	}
	keys := make([]string, 0, len(v.Map))
	for k := range v.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s: %s", k, v.Map[k]))
	}
	return out
}

func (v ListOrMap) MarshalJSON() ([]byte, error) {
	if len(v.Map) > 0 {
		return json.Marshal(v.Map)
	}
	if v.List != nil {
		return json.Marshal(v.List)
	}
	return []byte("[]"), nil
}

// UnmarshalJSON accepts a string list, a string map, a bare string (treated
// as a one-element list), or null.
func (v *ListOrMap) UnmarshalJSON(data []byte) error {
	*v = ListOrMap{}
	if string(data) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		v.List = list
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		v.Map = m
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			v.List = []string{single}
		}
		return nil
	}

	return fmt.Errorf("listormap: value is neither a string list, a string map, nor a string")
}

package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestListOrMapUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ListOrMap
		wantErr  bool
	}{
		{
			name:     "String list",
			input:    `["Next.js","React"]`,
			expected: ListOrMap{List: []string{"Next.js", "React"}},
		},
		{
			name:     "String map",
			input:    `{"hosting":"Vercel","db":"Supabase"}`,
			expected: ListOrMap{Map: map[string]string{"hosting": "Vercel", "db": "Supabase"}},
		},
		{
			name:     "Bare string becomes one-element list",
			input:    `"Next.js + Supabase"`,
			expected: ListOrMap{List: []string{"Next.js + Supabase"}},
		},
		{
			name:     "Null is empty",
			input:    `null`,
			expected: ListOrMap{},
		},
		{
			name:    "Number is rejected",
			input:   `42`,
			wantErr: true,
		},
		{
			name:    "Nested object is rejected",
			input:   `{"a":{"b":"c"}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v ListOrMap
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(v, tt.expected) {
				t.Errorf("got %+v, want %+v", v, tt.expected)
			}
		})
	}
}

func TestListOrMapValues(t *testing.T) {
	list := ListOrMap{List: []string{"b", "a"}}
	if got := list.Values(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("list values changed order: %v", got)
	}

	m := ListOrMap{Map: map[string]string{"hosting": "Vercel", "db": "Supabase"}}
	expected := []string{"db: Supabase", "hosting: Vercel"}
	if got := m.Values(); !reflect.DeepEqual(got, expected) {
		t.Errorf("map values = %v, want %v", got, expected)
	}

	if got := (ListOrMap{}).Values(); got != nil {
		t.Errorf("empty values = %v, want nil", got)
	}
}

func TestListOrMapMarshalRoundTrip(t *testing.T) {
	in := ListOrMap{Map: map[string]string{"frontend": "React"}}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out ListOrMap
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip changed value: %+v -> %+v", in, out)
	}
}

package importer

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"Thousands separators stripped", "$1,234,567", "1234567", true},
		{"No separator", "$500", "500", true},
		{"Bare number", "979833", "979833", true},
		{"Separators without dollar sign", "18,631", "18631", true},
		{"Decimal cents survive exactly", "$99.99", "99.99", true},
		{"Empty", "", "", false},
		{"Dollar sign only", "$", "", false},
		{"Not a number", "$abc", "", false},
		{"Negative rejected", "-100", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseAmount(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.String() != tt.expected {
				t.Errorf("parseAmount(%q) = %s, want %s", tt.input, got.String(), tt.expected)
			}
		})
	}
}

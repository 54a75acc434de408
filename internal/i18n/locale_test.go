package i18n

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		text     Text
		locale   string
		expected string
	}{
		{
			name:     "Default locale returns base verbatim",
			text:     Text{"zh": "营销工具", "en": "Marketing tools"},
			locale:   "zh",
			expected: "营销工具",
		},
		{
			name:     "Default locale ignores translations",
			text:     Text{"zh": "基础值", "en": "Different"},
			locale:   "zh",
			expected: "基础值",
		},
		{
			name:     "Translated locale returns its entry",
			text:     Text{"zh": "营销工具", "en": "Marketing tools"},
			locale:   "en",
			expected: "Marketing tools",
		},
		{
			name:     "Missing translation falls back to base",
			text:     Text{"zh": "营销工具"},
			locale:   "ja",
			expected: "营销工具",
		},
		{
			name:     "Empty translation falls back to base",
			text:     Text{"zh": "营销工具", "fr": ""},
			locale:   "fr",
			expected: "营销工具",
		},
		{
			name:     "Region-qualified code uses base language",
			text:     Text{"zh": "营销工具", "en": "Marketing tools"},
			locale:   "en-GB",
			expected: "Marketing tools",
		},
		{
			name:     "Unknown locale falls back to default",
			text:     Text{"zh": "营销工具", "en": "Marketing tools"},
			locale:   "de",
			expected: "营销工具",
		},
		{
			name:     "Garbage locale falls back to default",
			text:     Text{"zh": "营销工具"},
			locale:   "???",
			expected: "营销工具",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.text, tt.locale); got != tt.expected {
				t.Errorf("Resolve(%v, %q) = %q, want %q", tt.text, tt.locale, got, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"zh", "zh"},
		{"en", "en"},
		{"en-GB", "en"},
		{"en_US", "en"},
		{"ja-JP", "ja"},
		{"fr-CA", "fr"},
		{"zh-Hans-CN", "zh"},
		{"de", "zh"},
		{"", "zh"},
		{"not a locale", "zh"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("en-GB") {
		t.Error("expected en-GB to be supported via base language")
	}
	if Supported("de") {
		t.Error("expected de to be unsupported")
	}
	if Supported("") {
		t.Error("expected empty locale to be unsupported")
	}
}

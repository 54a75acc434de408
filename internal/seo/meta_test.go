package seo

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/models"
)

func appFixture() *models.App {
	return &models.App{
		Slug:             "shipfast",
		Name:             i18n.NewText("ShipFast"),
		ShortDescription: i18n.NewText("Next.js SaaS 模板", "en", "Next.js SaaS boilerplate"),
		TotalRevenue:     decimal.RequireFromString("979833"),
		MRR:              decimal.NullDecimal{Decimal: decimal.RequireFromString("138000"), Valid: true},
		MetaKeywords:     []string{"ShipFast", "developer-tools", "saas"},
		Category: &models.Category{
			Slug: "developer-tools",
			Name: i18n.NewText("开发者工具与教育", "en", "Developer Tools & Education"),
		},
		DeveloperAnalysis: &models.DeveloperAnalysis{RecommendationLevel: 5},
	}
}

func TestBuildAppMeta(t *testing.T) {
	meta := BuildAppMeta(appFixture(), "en", "https://trustmrr.com")

	if meta.Title != "ShipFast - Developer Tools & Education | TrustMRR 案例分析" {
		t.Errorf("title = %q", meta.Title)
	}
	if !strings.Contains(meta.Description, "$979,833") {
		t.Errorf("description must carry formatted revenue: %q", meta.Description)
	}
	if !strings.Contains(meta.Description, "MRR: $138,000") {
		t.Errorf("description must carry mrr: %q", meta.Description)
	}
	if !strings.Contains(meta.Description, "推荐度: 5/5星") {
		t.Errorf("description must carry recommendation: %q", meta.Description)
	}
	if meta.Canonical != "https://trustmrr.com/en/apps/shipfast" {
		t.Errorf("canonical = %q", meta.Canonical)
	}
	if len(meta.Alternates) != 4 || meta.Alternates["ja"] != "https://trustmrr.com/ja/apps/shipfast" {
		t.Errorf("alternates = %v", meta.Alternates)
	}
}

func TestBuildAppMetaLocaleFallback(t *testing.T) {
	meta := BuildAppMeta(appFixture(), "fr", "https://trustmrr.com")

	// No French translation: base text shows, canonical still keeps /fr/.
	if !strings.Contains(meta.Description, "Next.js SaaS 模板") {
		t.Errorf("description should fall back to base locale: %q", meta.Description)
	}
	if meta.Canonical != "https://trustmrr.com/fr/apps/shipfast" {
		t.Errorf("canonical = %q", meta.Canonical)
	}
}

func TestBuildAppMetaDescriptionCapped(t *testing.T) {
	app := appFixture()
	app.ShortDescription = i18n.NewText(strings.Repeat("很长的描述", 100))
	meta := BuildAppMeta(app, "zh", "https://trustmrr.com")
	if n := len([]rune(meta.Description)); n > 160 {
		t.Errorf("description is %d runes, max 160", n)
	}
}

func TestBuildAppMetaKeywordsDeduped(t *testing.T) {
	meta := BuildAppMeta(appFixture(), "zh", "https://trustmrr.com")
	seen := map[string]bool{}
	for _, k := range meta.Keywords {
		key := strings.ToLower(k)
		if seen[key] {
			t.Fatalf("duplicate keyword %q in %v", k, meta.Keywords)
		}
		seen[key] = true
	}
	// "saas" from meta keywords collides with the builtin "SaaS".
	if !seen["saas"] || !seen["shipfast"] {
		t.Errorf("keywords = %v", meta.Keywords)
	}
}

func TestPlainTextStripsMarkup(t *testing.T) {
	got := plainText("<p>Hello <b>world</b></p>\n  extra")
	if got != "Hello world extra" {
		t.Errorf("plainText = %q", got)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"500", "$500"},
		{"1234", "$1,234"},
		{"979833", "$979,833"},
		{"1234567.89", "$1,234,567"},
	}
	for _, tt := range tests {
		if got := formatCurrency(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("formatCurrency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

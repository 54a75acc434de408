// Package seo builds page metadata for the read API. Titles and descriptions
// resolve through the locale fallback chain so every supported language gets
// indexable pages even before translations exist.
package seo

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/models"
)

// maxDescriptionRunes caps meta descriptions at the length search engines
// actually display.
const maxDescriptionRunes = 160

// Meta is the per-page metadata block attached to detail responses.
type Meta struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Keywords    []string          `json:"keywords"`
	Canonical   string            `json:"canonical"`
	Alternates  map[string]string `json:"alternates"`
}

// BuildAppMeta assembles the metadata for one app detail page.
func BuildAppMeta(app *models.App, locale, baseURL string) Meta {
	name := i18n.Resolve(app.Name, locale)
	shortDescription := plainText(i18n.Resolve(app.ShortDescription, locale))

	categoryName := ""
	if app.Category != nil {
		categoryName = i18n.Resolve(app.Category.Name, locale)
	}

	title := name + " | TrustMRR 案例分析"
	if categoryName != "" {
		title = fmt.Sprintf("%s - %s | TrustMRR 案例分析", name, categoryName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s. 总收入: %s", name, shortDescription, formatCurrency(app.TotalRevenue))
	if app.MRR.Valid {
		fmt.Fprintf(&b, ", MRR: %s", formatCurrency(app.MRR.Decimal))
	}
	if app.DeveloperAnalysis != nil {
		fmt.Fprintf(&b, ". 推荐度: %d/5星", app.DeveloperAnalysis.RecommendationLevel)
	}
	b.WriteString(" | TrustMRR 案例分析")

	keywords := []string{name, categoryName, "SaaS", "indie hacker", "独立开发者", "创业", "startup", "盈利应用"}
	keywords = append(keywords, app.MetaKeywords...)
	for _, tag := range app.Tags {
		keywords = append(keywords, i18n.Resolve(tag.Name, locale))
	}

	return Meta{
		Title:       title,
		Description: truncateRunes(b.String(), maxDescriptionRunes),
		Keywords:    dedupe(keywords),
		Canonical:   pageURL(baseURL, locale, "apps/"+app.Slug),
		Alternates:  alternates(baseURL, "apps/"+app.Slug),
	}
}

// BuildCategoryMeta assembles the metadata for one category page.
func BuildCategoryMeta(c *models.Category, locale, baseURL string) Meta {
	name := i18n.Resolve(c.Name, locale)
	description := plainText(i18n.Resolve(c.Description, locale))

	return Meta{
		Title:       name + " | TrustMRR",
		Description: truncateRunes(description, maxDescriptionRunes),
		Keywords:    dedupe([]string{name, c.Slug, "SaaS", "indie hacker", "独立开发者"}),
		Canonical:   pageURL(baseURL, locale, "categories/"+c.Slug),
		Alternates:  alternates(baseURL, "categories/"+c.Slug),
	}
}

func pageURL(baseURL, locale, path string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(baseURL, "/"), i18n.Normalize(locale), path)
}

func alternates(baseURL, path string) map[string]string {
	out := make(map[string]string, len(i18n.Locales))
	for _, l := range i18n.Locales {
		out[l] = pageURL(baseURL, l, path)
	}
	return out
}

// plainText strips any markup out of a localized field before it lands in a
// meta tag.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// formatCurrency renders a whole-dollar amount with thousands separators.
func formatCurrency(d decimal.Decimal) string {
	whole := d.Truncate(0).String()
	neg := strings.HasPrefix(whole, "-")
	digits := strings.TrimPrefix(whole, "-")

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := "$" + strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

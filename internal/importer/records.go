package importer

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/models"
)

var monthlyCostLineRe = regexp.MustCompile(`^[-*]?\s*(.+?)[：:]\s*(\$[\d,]+(?:\.\d+)?\s*/\s*月|\$[\d,]+(?:\.\d+)?/月)`)

// BuildApp maps a parsed section onto the catalog app record. Source text is
// Chinese, so the base locale carries it; English mirrors the base until a
// real translation lands.
func (p ParsedApp) BuildApp(categoryID uuid.UUID, categorySlug string) models.App {
	shortDescription := cleanTextKeepNewlines(p.CoreFunction)
	if strings.ContainsAny(shortDescription, "<>") {
		shortDescription = HTMLToText(shortDescription)
	}
	if shortDescription == "" {
		shortDescription = p.Name + " - 创新应用"
	}

	parts := make([]string, 0, 3)
	for _, s := range []string{p.CoreFunction, p.CoreValue, p.Recommendation} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	// Source documents occasionally embed raw HTML snippets; strip anything
	// unsafe before it is stored.
	fullDescription := sanitizeHTML(strings.Join(parts, "\n\n"))
	if fullDescription == "" {
		fullDescription = shortDescription
	}

	app := models.App{
		Slug:             Slugify(p.Name),
		Name:             i18n.NewText(p.Name, "en", p.Name),
		ShortDescription: i18n.NewText(shortDescription, "en", shortDescription),
		FullDescription:  i18n.NewText(fullDescription, "en", fullDescription),
		TotalRevenue:     p.TotalRevenue,
		Currency:         "USD",
		Ranking:          p.Ranking,
		TechDifficulty:   p.TechDifficulty,
		IsPublished:      true,
		MetaTitle:        p.Name + " - TrustMRR 案例分析",
		MetaDescription:  shortDescription,
		MetaKeywords:     []string{p.Name, categorySlug, "saas", "indie-hacker"},
		CategoryID:       categoryID,
	}
	if p.MRR != nil {
		app.MRR = decimal.NullDecimal{Decimal: *p.MRR, Valid: true}
	}
	if p.Ranking != nil && *p.Ranking <= 10 {
		app.IsFeatured = true
	}
	return app
}

func cleanTextKeepNewlines(s string) string {
	return strings.TrimSpace(sanitizeUTF8(s))
}

// BuildBusinessModel returns nil when the section carried neither a model
// description nor pricing tiers.
func (p ParsedApp) BuildBusinessModel() *models.BusinessModel {
	if p.BusinessModel == "" && len(p.PricingTiers) == 0 {
		return nil
	}

	pricingModel := "一次性购买"
	if strings.Contains(p.BusinessModel, "订阅") {
		pricingModel = "订阅制"
	}

	tiers := make([]models.PricingTier, 0, len(p.PricingTiers))
	for _, t := range p.PricingTiers {
		tiers = append(tiers, models.PricingTier{
			Tier:        t.Tier,
			Price:       t.Price,
			Currency:    "USD",
			Description: t.Description,
		})
	}

	targetCustomers := p.BusinessModel
	if targetCustomers == "" {
		targetCustomers = "独立开发者"
	}

	bm := &models.BusinessModel{
		PricingModel:    pricingModel,
		PricingTiers:    tiers,
		TargetCustomers: i18n.NewText(targetCustomers),
	}
	if p.ProfitMargin != nil {
		margin := float64(*p.ProfitMargin)
		bm.ProfitMargin = &margin
	}
	return bm
}

// BuildTechStack returns nil when the section has no stack information at all.
func (p ParsedApp) BuildTechStack() *models.TechStack {
	if p.TechStackRaw == "" && p.TechStackJSON == nil {
		return nil
	}

	ts := &models.TechStack{
		Frontend:       layerValue(p.TechStackJSON, "frontend"),
		Backend:        layerValue(p.TechStackJSON, "backend"),
		Database:       layerValue(p.TechStackJSON, "database"),
		Infrastructure: layerValue(p.TechStackJSON, "deployment", "infrastructure"),
		FullStack:      i18n.NewText(p.TechStackRaw),
	}
	if p.TechDifficultyNotes != "" {
		ts.DifficultyDetails = i18n.NewText(p.TechDifficultyNotes)
	}
	return ts
}

// layerValue pulls a single named layer out of the parsed stack object. The
// first key that holds a value wins.
func layerValue(stack map[string]string, keys ...string) models.ListOrMap {
	for _, k := range keys {
		if v, ok := stack[k]; ok && v != "" {
			return models.ListOrMap{List: []string{v}}
		}
	}
	return models.ListOrMap{}
}

// BuildDeveloperAnalysis returns nil when the section has no analyst verdict.
func (p ParsedApp) BuildDeveloperAnalysis() *models.DeveloperAnalysis {
	if p.Recommendation == "" {
		return nil
	}
	return &models.DeveloperAnalysis{
		RecommendationLevel:  p.RecommendationLevel,
		RecommendationReason: i18n.NewText(p.Recommendation),
		Pros:                 p.Pros,
		Cons:                 p.Cons,
		SuitableFor:          p.SuitableFor,
		DevelopmentWeeks:     p.DevelopmentWeeks,
	}
}

// BuildMvpPlan returns nil unless the section carried both a plan text and at
// least one structured phase.
func (p ParsedApp) BuildMvpPlan() *models.MvpPlan {
	if p.MvpPlan == "" || len(p.MvpPhases) == 0 {
		return nil
	}
	phases := make([]models.MvpPhase, 0, len(p.MvpPhases))
	for _, ph := range p.MvpPhases {
		phases = append(phases, models.MvpPhase{
			Name:    ph.Name,
			Weeks:   ph.Weeks,
			Content: ph.Content,
		})
	}
	return &models.MvpPlan{
		TotalWeeks: p.DevelopmentWeeks,
		Phases:     phases,
		QuickStart: i18n.NewText(p.MvpPlan),
	}
}

// BuildCostAnalysis returns nil when the section has no cost breakdown.
func (p ParsedApp) BuildCostAnalysis() *models.CostAnalysis {
	if p.CostAnalysis == "" {
		return nil
	}
	ca := &models.CostAnalysis{
		MonthlyCosts: parseMonthlyCosts(p.CostAnalysis),
		Breakdown:    i18n.NewText(p.CostAnalysis),
	}
	if p.DevelopmentCost != nil {
		ca.DevelopmentCost = decimal.NullDecimal{Decimal: *p.DevelopmentCost, Valid: true}
	}
	if p.ProfitMargin != nil {
		margin := float64(*p.ProfitMargin)
		ca.ProfitMargin = &margin
	}
	return ca
}

// parseMonthlyCosts extracts "<item>：$N/月" lines into a named cost map.
func parseMonthlyCosts(text string) models.ListOrMap {
	costs := map[string]string{}
	for _, line := range strings.Split(text, "\n") {
		if m := monthlyCostLineRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			key := cleanText(m[1])
			if key != "" {
				costs[key] = normalizeSpace(m[2])
			}
		}
	}
	if len(costs) == 0 {
		return models.ListOrMap{}
	}
	return models.ListOrMap{Map: costs}
}

// BuildMarketingStrategies maps the numbered channel entries.
func (p ParsedApp) BuildMarketingStrategies() []models.MarketingStrategy {
	out := make([]models.MarketingStrategy, 0, len(p.MarketingStrategies))
	for _, s := range p.MarketingStrategies {
		out = append(out, models.MarketingStrategy{
			Channel:     s.Channel,
			Description: i18n.NewText(s.Description),
			Priority:    s.Priority,
		})
	}
	return out
}

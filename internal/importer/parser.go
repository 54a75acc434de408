package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsedApp holds everything extracted from one numbered product section of a
// source document. TotalRevenue is the mandatory anchor: a section without a
// verified revenue figure is not a record.
type ParsedApp struct {
	Name                string
	Ranking             *int
	TotalRevenue        decimal.Decimal
	MRR                 *decimal.Decimal
	CoreFunction        string
	BusinessModel       string
	TechStackRaw        string
	TechStackJSON       map[string]string
	TechDifficulty      int
	TechDifficultyNotes string
	CoreValue           string
	Recommendation      string
	RecommendationLevel int
	Pros                []string
	Cons                []string
	SuitableFor         string
	DevelopmentWeeks    *int
	MvpPlan             string
	MvpPhases           []ParsedPhase
	Pricing             string
	PricingTiers        []ParsedTier
	Marketing           string
	MarketingStrategies []ParsedStrategy
	CostAnalysis        string
	DevelopmentCost     *decimal.Decimal
	ProfitMargin        *int
	FullContent         string
}

// ParsedPhase is one milestone of an MVP build plan.
type ParsedPhase struct {
	Name    string `json:"name"`
	Weeks   string `json:"weeks"`
	Content string `json:"content"`
}

// ParsedTier is one pricing tier line. Price stays a string because tiers may
// express a range ("290-990").
type ParsedTier struct {
	Tier        string `json:"tier"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// ParsedStrategy is one numbered marketing channel entry.
type ParsedStrategy struct {
	Channel     string `json:"channel"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

var (
	sectionStartRe = regexp.MustCompile(`(?m)^## \d+\. `)
	nameRe         = regexp.MustCompile(`(?m)^##\s+\d+\.\s+(.+?)(?:\s+🥇|🥈|🥉|\*\*排名|$)`)
	infoLineRe     = regexp.MustCompile(`\*\*排名：.*?\*\*`)
	rankRe         = regexp.MustCompile(`#(\d+)`)
	revenueRe      = regexp.MustCompile(`\$([0-9,]+)`)
	mrrRe          = regexp.MustCompile(`(?i)MRR[:\s]+\$([0-9,]+)`)

	coreFunctionRe   = regexp.MustCompile(`(?s)###\s+核心功能\n(.*?)(?:\n###|\z)`)
	businessModelRe  = regexp.MustCompile(`(?s)###\s+商业模式\n(.*?)(?:\n###|\z)`)
	techStackRe      = regexp.MustCompile(`(?s)###\s+技术栈[^\n]*\n(.*?)(?:\n###|\z)`)
	techDifficultyRe = regexp.MustCompile(`(?s)###\s+技术难度[：:]\s*(⭐+)\n(.*?)(?:\n###|\z)`)
	coreValueRe      = regexp.MustCompile(`(?s)###\s+核心价值\n(.*?)(?:\n###|\z)`)
	recommendationRe = regexp.MustCompile(`(?s)###\s+独立开发者建议\n(.*?)(?:\n###|\z)`)
	mvpRe            = regexp.MustCompile(`(?s)###\s+(?:MVP|最小化 MVP)[^\n]*\n(.*?)(?:\n###|\z)`)
	pricingRe        = regexp.MustCompile(`(?s)###\s+定价策略\n(.*?)(?:\n###|\z)`)
	marketingRe      = regexp.MustCompile(`(?s)###\s+(?:营销策略|内容营销策略)\n(.*?)(?:\n###|\z)`)
	costRe           = regexp.MustCompile(`(?s)###\s+成本分析\n(.*?)(?:\n###|\z)`)

	starRunRe     = regexp.MustCompile(`[⭐✅]{1,5}`)
	starRe        = regexp.MustCompile(`[⭐✅]`)
	prosRe        = regexp.MustCompile(`(?s)\*\*优点：?\*\*\n(.*?)(?:\n\*\*|\z)`)
	consRe        = regexp.MustCompile(`(?s)\*\*缺点：?\*\*\n(.*?)(?:\n\*\*|\z)`)
	suitableForRe = regexp.MustCompile(`(?s)\*\*适合谁[：:]\*\*\n(.*?)(?:\n\*\*|\z)`)
	devWeeksRe    = regexp.MustCompile(`(\d+)[-–]\s*(\d+)\s*周`)

	mvpPhaseRe     = regexp.MustCompile(`(?is)####\s+(Week|阶段)\s+(\d+-?\d*)[：:]\s*([^\n]+)\n` + "```" + `[a-z]*\n(.*?)` + "```")
	pricingLineRe  = regexp.MustCompile(`(.+?)[:：]\s*\$(\d+(?:,\d{3})*(?:-\d+(?:,\d{3})*)?)\s*[-–]\s*(.+)`)
	strategyLineRe = regexp.MustCompile(`^\d+\.\s*\*\*(.+?)\*\*[：:]\s*(.+)`)
	devCostRe      = regexp.MustCompile(`(?i)开发(?:成本)?[：:]?\s*\$?([\d,]+)`)
	profitRe       = regexp.MustCompile(`利润率[：:]\s*~?(\d+)%`)
)

// ParseDocument splits one case-study markdown document into numbered product
// sections and parses each. Sections missing the revenue anchor are dropped;
// any preamble before the first numbered heading is ignored.
func ParseDocument(content string) []ParsedApp {
	content = sanitizeUTF8(content)

	starts := sectionStartRe.FindAllStringIndex(content, -1)
	apps := make([]ParsedApp, 0, len(starts))
	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if app := parseAppSection(content[loc[0]:end]); app != nil {
			apps = append(apps, *app)
		}
	}
	return apps
}

// parseAppSection extracts one record from a `## N. Name` section. It returns
// nil when the section has no name heading or no total revenue figure.
func parseAppSection(section string) *ParsedApp {
	nameMatch := nameRe.FindStringSubmatch(section)
	if nameMatch == nil {
		return nil
	}

	app := &ParsedApp{
		Name:           strings.TrimSpace(nameMatch[1]),
		TechDifficulty: 3,
		FullContent:    section,
	}

	// Ranking and total revenue live on a single bold info line.
	if infoLine := infoLineRe.FindString(section); infoLine != "" {
		if m := rankRe.FindStringSubmatch(infoLine); m != nil {
			if r, ok := parseInt(m[1]); ok {
				app.Ranking = &r
			}
		}
		if m := revenueRe.FindStringSubmatch(infoLine); m != nil {
			if d, ok := parseAmount(m[1]); ok {
				app.TotalRevenue = d
			}
		}
	}
	if m := mrrRe.FindStringSubmatch(section); m != nil {
		app.MRR = parseAmountPtr(m[1])
	}

	if app.TotalRevenue.IsZero() {
		return nil
	}

	app.CoreFunction = matchSection(coreFunctionRe, section)
	app.BusinessModel = matchSection(businessModelRe, section)
	app.CoreValue = matchSection(coreValueRe, section)
	app.CostAnalysis = matchSection(costRe, section)
	app.Pricing = matchSection(pricingRe, section)
	app.Marketing = matchSection(marketingRe, section)
	app.MvpPlan = matchSection(mvpRe, section)

	if m := techStackRe.FindStringSubmatch(section); m != nil {
		app.TechStackRaw = strings.TrimSpace(m[1])
		app.TechStackJSON = parseTechStackJSON(m[1])
	}
	if m := techDifficultyRe.FindStringSubmatch(section); m != nil {
		// Some headings carry more than five stars; the scale stays 1-5.
		stars := len([]rune(m[1]))
		if stars > 5 {
			stars = 5
		}
		app.TechDifficulty = stars
		app.TechDifficultyNotes = strings.TrimSpace(m[2])
	}

	if m := recommendationRe.FindStringSubmatch(section); m != nil {
		app.Recommendation = strings.TrimSpace(m[1])
		app.RecommendationLevel = parseRecommendationLevel(m[1])
		app.Pros = extractBullets(prosRe, m[1])
		app.Cons = extractBullets(consRe, m[1])
		if sm := suitableForRe.FindStringSubmatch(m[1]); sm != nil {
			app.SuitableFor = strings.TrimSpace(sm[1])
		}
	} else {
		app.RecommendationLevel = 3
	}

	if app.MvpPlan != "" {
		if m := devWeeksRe.FindStringSubmatch(app.MvpPlan); m != nil {
			lo, okLo := parseInt(m[1])
			hi, okHi := parseInt(m[2])
			if okLo && okHi {
				weeks := (lo + hi + 1) / 2
				app.DevelopmentWeeks = &weeks
			}
		}
		app.MvpPhases = parseMvpPhases(app.MvpPlan)
	}

	app.PricingTiers = parsePricingTiers(app.Pricing)
	app.MarketingStrategies = parseMarketingStrategies(app.Marketing)

	if app.CostAnalysis != "" {
		if m := devCostRe.FindStringSubmatch(app.CostAnalysis); m != nil {
			app.DevelopmentCost = parseAmountPtr(m[1])
		}
		if m := profitRe.FindStringSubmatch(app.CostAnalysis); m != nil {
			if p, ok := parseInt(m[1]); ok {
				app.ProfitMargin = &p
			}
		}
	}

	return app
}

func matchSection(re *regexp.Regexp, section string) string {
	if m := re.FindStringSubmatch(section); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// parseRecommendationLevel counts the stars in the first rating run found in
// the analyst's verdict. No run at all means a neutral 3.
func parseRecommendationLevel(text string) int {
	run := starRunRe.FindString(text)
	if run == "" {
		return 3
	}
	return len(starRe.FindAllString(run, -1))
}

// extractBullets collects the `- ` list items under a bold heading matched by re.
func extractBullets(re *regexp.Regexp, text string) []string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var items []string
	for _, line := range strings.Split(m[1], "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			items = append(items, strings.TrimSpace(strings.TrimPrefix(line, "-")))
		}
	}
	return items
}

func parseMvpPhases(text string) []ParsedPhase {
	var phases []ParsedPhase
	for _, m := range mvpPhaseRe.FindAllStringSubmatch(text, -1) {
		phases = append(phases, ParsedPhase{
			Name:    strings.TrimSpace(m[3]),
			Weeks:   m[2],
			Content: strings.TrimSpace(m[4]),
		})
	}
	return phases
}

func parsePricingTiers(text string) []ParsedTier {
	var tiers []ParsedTier
	for _, line := range strings.Split(text, "\n") {
		if m := pricingLineRe.FindStringSubmatch(line); m != nil {
			tiers = append(tiers, ParsedTier{
				Tier:        strings.TrimSpace(m[1]),
				Price:       strings.ReplaceAll(m[2], ",", ""),
				Description: strings.TrimSpace(m[3]),
			})
		}
	}
	return tiers
}

func parseMarketingStrategies(text string) []ParsedStrategy {
	var strategies []ParsedStrategy
	for _, line := range strings.Split(text, "\n") {
		if m := strategyLineRe.FindStringSubmatch(line); m != nil {
			strategies = append(strategies, ParsedStrategy{
				Channel:     strings.TrimSpace(m[1]),
				Description: strings.TrimSpace(m[2]),
				Priority:    3,
			})
		}
	}
	return strategies
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

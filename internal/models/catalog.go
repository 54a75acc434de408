package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/i18n"
)

// Category groups apps. Seeded once by slug, rarely mutated.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        i18n.Text `json:"name"`
	Description i18n.Text `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	AppCount    int       `json:"app_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// App is one catalogued product. Revenue fields are exact decimals; a float
// representation would drift at cent level over aggregation.
type App struct {
	ID               uuid.UUID           `json:"id"`
	Slug             string              `json:"slug"`
	Name             i18n.Text           `json:"name"`
	ShortDescription i18n.Text           `json:"short_description"`
	FullDescription  i18n.Text           `json:"full_description"`
	URL              string              `json:"url"`
	Logo             string              `json:"logo"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	MRR              decimal.NullDecimal `json:"mrr"`
	MonthlyRevenue   decimal.NullDecimal `json:"monthly_revenue"`
	Currency         string              `json:"currency"`
	Ranking          *int                `json:"ranking"`
	RankingChange    int                 `json:"ranking_change"`
	TechDifficulty   int                 `json:"tech_difficulty"` // 1-5
	IsPublished      bool                `json:"is_published"`
	IsFeatured       bool                `json:"is_featured"`
	IsNewApp         bool                `json:"is_new_app"`
	MetaTitle        string              `json:"meta_title"`
	MetaDescription  string              `json:"meta_description"`
	MetaKeywords     []string            `json:"meta_keywords"`
	LaunchDate       *time.Time          `json:"launch_date"`
	CategoryID       uuid.UUID           `json:"category_id"`
	FounderID        *uuid.UUID          `json:"founder_id"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`

	// Eagerly attached relations. Category and DeveloperAnalysis ride along
	// on listings; the rest are populated on detail reads only.
	Category            *Category           `json:"category,omitempty"`
	DeveloperAnalysis   *DeveloperAnalysis  `json:"developer_analysis,omitempty"`
	BusinessModel       *BusinessModel      `json:"business_model,omitempty"`
	TechStack           *TechStack          `json:"tech_stack,omitempty"`
	MvpPlan             *MvpPlan            `json:"mvp_plan,omitempty"`
	CostAnalysis        *CostAnalysis       `json:"cost_analysis,omitempty"`
	Founder             *Founder            `json:"founder,omitempty"`
	MarketingStrategies []MarketingStrategy `json:"marketing_strategies,omitempty"`
	RevenueHistory      []RevenuePoint      `json:"revenue_history,omitempty"`
	Tags                []Tag               `json:"tags,omitempty"`
}

// PricingTier is one entry of a business model's tier list. Price stays a
// string because source documents write ranges like "49-99".
type PricingTier struct {
	Tier        string   `json:"tier"`
	Price       string   `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// BusinessModel is one-to-one with App.
type BusinessModel struct {
	AppID           uuid.UUID     `json:"app_id"`
	PricingModel    string        `json:"pricing_model"`
	PricingTiers    []PricingTier `json:"pricing_tiers"`
	TargetCustomers i18n.Text     `json:"target_customers"`
	MarketSize      string        `json:"market_size"`
	ProfitMargin    *float64      `json:"profit_margin"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TechStack is one-to-one with App. The layer descriptors tolerate both list
// and map shapes because source documents are inconsistent.
type TechStack struct {
	AppID             uuid.UUID `json:"app_id"`
	Frontend          ListOrMap `json:"frontend"`
	Backend           ListOrMap `json:"backend"`
	Database          ListOrMap `json:"database"`
	Infrastructure    ListOrMap `json:"infrastructure"`
	FullStack         i18n.Text `json:"full_stack"`
	DifficultyDetails i18n.Text `json:"difficulty_details"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DeveloperAnalysis is one-to-one with App: the curated recommendation.
type DeveloperAnalysis struct {
	AppID                uuid.UUID                  `json:"app_id"`
	RecommendationLevel  int                        `json:"recommendation_level"` // 1-5
	RecommendationReason i18n.Text                  `json:"recommendation_reason"`
	Pros                 []string                   `json:"pros"`
	Cons                 []string                   `json:"cons"`
	SuitableFor          string                     `json:"suitable_for"`
	DevelopmentWeeks     *int                       `json:"development_weeks"`
	RevenueExpectation   map[string]decimal.Decimal `json:"revenue_expectation,omitempty"`
	CreatedAt            time.Time                  `json:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at"`
}

// MvpPhase is one build phase of an MVP plan.
type MvpPhase struct {
	Name         string   `json:"name"`
	Weeks        string   `json:"weeks,omitempty"`
	Tasks        []string `json:"tasks,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
	Content      string   `json:"content,omitempty"`
}

// MvpPlan is one-to-one with App.
type MvpPlan struct {
	AppID        uuid.UUID  `json:"app_id"`
	TotalWeeks   *int       `json:"total_weeks"`
	Phases       []MvpPhase `json:"phases"`
	CoreFeatures []string   `json:"core_features"`
	QuickStart   i18n.Text  `json:"quick_start"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CostAnalysis is one-to-one with App.
type CostAnalysis struct {
	AppID           uuid.UUID           `json:"app_id"`
	DevelopmentCost decimal.NullDecimal `json:"development_cost"`
	MonthlyCosts    ListOrMap           `json:"monthly_costs"`
	YearlyEstimate  decimal.NullDecimal `json:"yearly_estimate"`
	ProfitMargin    *float64            `json:"profit_margin"`
	Breakdown       i18n.Text           `json:"breakdown"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// MarketingStrategy is many-per-App, read ordered by priority descending.
type MarketingStrategy struct {
	ID          uuid.UUID `json:"id"`
	AppID       uuid.UUID `json:"app_id"`
	Channel     string    `json:"channel"`
	Description i18n.Text `json:"description"`
	Priority    int       `json:"priority"` // 1-5
	CreatedAt   time.Time `json:"created_at"`
}

// Founder is optionally linked from App.
type Founder struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Username     string              `json:"username"`
	Bio          i18n.Text           `json:"bio"`
	TwitterURL   string              `json:"twitter_url"`
	GithubURL    string              `json:"github_url"`
	WebsiteURL   string              `json:"website_url"`
	TotalRevenue decimal.NullDecimal `json:"total_revenue"`
	AppCount     int                 `json:"app_count"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// RevenuePoint is one revenue-history snapshot.
type RevenuePoint struct {
	ID           uuid.UUID           `json:"id"`
	AppID        uuid.UUID           `json:"app_id"`
	RecordedOn   time.Time           `json:"recorded_on"`
	TotalRevenue decimal.Decimal     `json:"total_revenue"`
	MRR          decimal.NullDecimal `json:"mrr"`
}

// Tag is many-to-many with App.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name i18n.Text `json:"name"`
}

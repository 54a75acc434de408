package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/models"
)

// UpsertCategory inserts or fully refreshes a category keyed by slug.
// Re-running the seeder must not duplicate rows.
func UpsertCategory(ctx context.Context, q Querier, c models.Category) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx, `
		INSERT INTO categories (slug, name, description, icon, color, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			sort_order = EXCLUDED.sort_order,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id`,
		c.Slug, c.Name, c.Description, c.Icon, c.Color, c.SortOrder, c.IsActive,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert category %s failed: %w", c.Slug, err)
	}
	return id, nil
}

// AppRevenueBySlug returns the stored revenue for an existing app, or
// ErrNotFound. The pipeline uses it to decide whether a re-import changed
// revenue and deserves a history snapshot.
func AppRevenueBySlug(ctx context.Context, q Querier, slug string) (uuid.UUID, decimal.Decimal, error) {
	var id uuid.UUID
	var revenue decimal.Decimal
	err := q.QueryRow(ctx, "SELECT id, total_revenue FROM apps WHERE slug = $1", slug).Scan(&id, &revenue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, decimal.Decimal{}, ErrNotFound
		}
		return uuid.Nil, decimal.Decimal{}, fmt.Errorf("lookup app %s failed: %w", slug, err)
	}
	return id, revenue, nil
}

// UpsertApp inserts a new app or refreshes the volatile fields of an
// existing one, keyed by slug. On update only revenue figures, ranking and
// difficulty move; descriptive text set at first import stays put.
func UpsertApp(ctx context.Context, q Querier, app models.App) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx, `
		INSERT INTO apps (
			slug, name, short_description, full_description, url, logo,
			total_revenue, mrr, monthly_revenue, currency, ranking,
			ranking_change, tech_difficulty, is_published, is_featured,
			is_new_app, meta_title, meta_description, meta_keywords,
			launch_date, category_id, founder_id
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22
		)
		ON CONFLICT (slug) DO UPDATE SET
			total_revenue = EXCLUDED.total_revenue,
			mrr = COALESCE(EXCLUDED.mrr, apps.mrr),
			monthly_revenue = COALESCE(EXCLUDED.monthly_revenue, apps.monthly_revenue),
			ranking = COALESCE(EXCLUDED.ranking, apps.ranking),
			tech_difficulty = EXCLUDED.tech_difficulty,
			updated_at = NOW()
		RETURNING id`,
		app.Slug, app.Name, app.ShortDescription, app.FullDescription, app.URL, app.Logo,
		app.TotalRevenue, app.MRR, app.MonthlyRevenue, app.Currency, app.Ranking,
		app.RankingChange, app.TechDifficulty, app.IsPublished, app.IsFeatured,
		app.IsNewApp, app.MetaTitle, app.MetaDescription, app.MetaKeywords,
		app.LaunchDate, app.CategoryID, app.FounderID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert app %s failed: %w", app.Slug, err)
	}
	return id, nil
}

func UpsertBusinessModel(ctx context.Context, q Querier, bm models.BusinessModel) error {
	_, err := q.Exec(ctx, `
		INSERT INTO business_models (app_id, pricing_model, pricing_tiers, target_customers, market_size, profit_margin)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (app_id) DO UPDATE SET
			pricing_model = EXCLUDED.pricing_model,
			pricing_tiers = EXCLUDED.pricing_tiers,
			target_customers = EXCLUDED.target_customers,
			market_size = EXCLUDED.market_size,
			profit_margin = COALESCE(EXCLUDED.profit_margin, business_models.profit_margin),
			updated_at = NOW()`,
		bm.AppID, bm.PricingModel, bm.PricingTiers, bm.TargetCustomers, bm.MarketSize, bm.ProfitMargin,
	)
	if err != nil {
		return fmt.Errorf("upsert business model failed: %w", err)
	}
	return nil
}

func UpsertTechStack(ctx context.Context, q Querier, ts models.TechStack) error {
	_, err := q.Exec(ctx, `
		INSERT INTO tech_stacks (app_id, frontend, backend, database, infrastructure, full_stack, difficulty_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (app_id) DO UPDATE SET
			frontend = EXCLUDED.frontend,
			backend = EXCLUDED.backend,
			database = EXCLUDED.database,
			infrastructure = EXCLUDED.infrastructure,
			full_stack = EXCLUDED.full_stack,
			difficulty_details = EXCLUDED.difficulty_details,
			updated_at = NOW()`,
		ts.AppID, ts.Frontend, ts.Backend, ts.Database, ts.Infrastructure, ts.FullStack, ts.DifficultyDetails,
	)
	if err != nil {
		return fmt.Errorf("upsert tech stack failed: %w", err)
	}
	return nil
}

func UpsertDeveloperAnalysis(ctx context.Context, q Querier, da models.DeveloperAnalysis) error {
	revenueExpectation := da.RevenueExpectation
	if revenueExpectation == nil {
		revenueExpectation = map[string]decimal.Decimal{}
	}
	_, err := q.Exec(ctx, `
		INSERT INTO developer_analyses (app_id, recommendation_level, recommendation_reason, pros, cons, suitable_for, development_weeks, revenue_expectation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (app_id) DO UPDATE SET
			recommendation_level = EXCLUDED.recommendation_level,
			recommendation_reason = EXCLUDED.recommendation_reason,
			pros = EXCLUDED.pros,
			cons = EXCLUDED.cons,
			suitable_for = EXCLUDED.suitable_for,
			development_weeks = COALESCE(EXCLUDED.development_weeks, developer_analyses.development_weeks),
			revenue_expectation = EXCLUDED.revenue_expectation,
			updated_at = NOW()`,
		da.AppID, da.RecommendationLevel, da.RecommendationReason,
		emptyIfNil(da.Pros), emptyIfNil(da.Cons), da.SuitableFor,
		da.DevelopmentWeeks, revenueExpectation,
	)
	if err != nil {
		return fmt.Errorf("upsert developer analysis failed: %w", err)
	}
	return nil
}

func UpsertMvpPlan(ctx context.Context, q Querier, mp models.MvpPlan) error {
	phases := mp.Phases
	if phases == nil {
		phases = []models.MvpPhase{}
	}
	_, err := q.Exec(ctx, `
		INSERT INTO mvp_plans (app_id, total_weeks, phases, core_features, quick_start)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (app_id) DO UPDATE SET
			total_weeks = COALESCE(EXCLUDED.total_weeks, mvp_plans.total_weeks),
			phases = EXCLUDED.phases,
			core_features = EXCLUDED.core_features,
			quick_start = EXCLUDED.quick_start,
			updated_at = NOW()`,
		mp.AppID, mp.TotalWeeks, phases, emptyIfNil(mp.CoreFeatures), mp.QuickStart,
	)
	if err != nil {
		return fmt.Errorf("upsert mvp plan failed: %w", err)
	}
	return nil
}

func UpsertCostAnalysis(ctx context.Context, q Querier, ca models.CostAnalysis) error {
	_, err := q.Exec(ctx, `
		INSERT INTO cost_analyses (app_id, development_cost, monthly_costs, yearly_estimate, profit_margin, breakdown)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (app_id) DO UPDATE SET
			development_cost = COALESCE(EXCLUDED.development_cost, cost_analyses.development_cost),
			monthly_costs = EXCLUDED.monthly_costs,
			yearly_estimate = COALESCE(EXCLUDED.yearly_estimate, cost_analyses.yearly_estimate),
			profit_margin = COALESCE(EXCLUDED.profit_margin, cost_analyses.profit_margin),
			breakdown = EXCLUDED.breakdown,
			updated_at = NOW()`,
		ca.AppID, ca.DevelopmentCost, ca.MonthlyCosts, ca.YearlyEstimate, ca.ProfitMargin, ca.Breakdown,
	)
	if err != nil {
		return fmt.Errorf("upsert cost analysis failed: %w", err)
	}
	return nil
}

// ReplaceMarketingStrategies swaps the full strategy list for one app.
// Strategies have no natural per-entry key, so replace beats merge: stale
// rows must not survive a re-import.
func ReplaceMarketingStrategies(ctx context.Context, q Querier, appID uuid.UUID, strategies []models.MarketingStrategy) error {
	if _, err := q.Exec(ctx, "DELETE FROM marketing_strategies WHERE app_id = $1", appID); err != nil {
		return fmt.Errorf("clear marketing strategies failed: %w", err)
	}
	for _, ms := range strategies {
		if _, err := q.Exec(ctx, `
			INSERT INTO marketing_strategies (app_id, channel, description, priority)
			VALUES ($1, $2, $3, $4)`,
			appID, ms.Channel, ms.Description, ms.Priority,
		); err != nil {
			return fmt.Errorf("insert marketing strategy %q failed: %w", ms.Channel, err)
		}
	}
	return nil
}

// RecordRevenueSnapshot appends one revenue-history row, one per app per day.
func RecordRevenueSnapshot(ctx context.Context, q Querier, appID uuid.UUID, on time.Time, total decimal.Decimal, mrr decimal.NullDecimal) error {
	_, err := q.Exec(ctx, `
		INSERT INTO revenue_history (app_id, recorded_on, total_revenue, mrr)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING`,
		appID, on, total, mrr,
	)
	if err != nil {
		return fmt.Errorf("record revenue snapshot failed: %w", err)
	}
	return nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

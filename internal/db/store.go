package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/models"
)

// ErrNotFound marks a missing or unpublished record. API handlers map it to
// a 404; everything else becomes a generic 500.
var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// ListParams are the user-supplied filters of the listing endpoint.
type ListParams struct {
	Category   string // slug, "" or "all" means no filter
	Search     string
	Sort       string // ranking (default), revenue-desc, mrr-desc, recommendation-desc
	RevenueMin *decimal.Decimal
	RevenueMax *decimal.Decimal
	Limit      int
	Offset     int
}

type ListResult struct {
	Apps   []models.App `json:"apps"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

const appCols = `a.id, a.slug, a.name, a.short_description, a.full_description,
	a.url, a.logo, a.total_revenue, a.mrr, a.monthly_revenue, a.currency,
	a.ranking, a.ranking_change, a.tech_difficulty, a.is_published,
	a.is_featured, a.is_new_app, a.meta_title, a.meta_description,
	a.meta_keywords, a.launch_date, a.category_id, a.founder_id,
	a.created_at, a.updated_at`

const categoryCols = `c.id, c.slug, c.name, c.description, c.icon, c.color,
	c.sort_order, c.is_active, c.created_at, c.updated_at`

const analysisCols = `da.recommendation_level, da.recommendation_reason,
	da.pros, da.cons, da.suitable_for, da.development_weeks`

// buildListQuery assembles the WHERE and ORDER BY pieces for ListApps. Kept
// pure so the predicate and tie-break rules are unit-testable without a
// database. Every sort ends on id ASC for deterministic pagination.
func buildListQuery(params ListParams) (where string, orderBy string, args []any) {
	where = "WHERE a.is_published = true"
	argIdx := 1

	if params.Category != "" && params.Category != "all" {
		where += fmt.Sprintf(" AND c.slug = $%d", argIdx)
		args = append(args, params.Category)
		argIdx++
	}

	if params.Search != "" {
		// Match the localized values only. Casting the JSONB column to text
		// would expose locale keys and punctuation to the match, making a
		// search of "en" hit every row.
		where += fmt.Sprintf(
			" AND (EXISTS (SELECT 1 FROM jsonb_each_text(a.name) nv WHERE nv.value ILIKE '%%' || $%d || '%%')"+
				" OR EXISTS (SELECT 1 FROM jsonb_each_text(a.short_description) sv WHERE sv.value ILIKE '%%' || $%d || '%%'))",
			argIdx, argIdx)
		args = append(args, escapeLike(params.Search))
		argIdx++
	}

	// Bounds are inclusive at both ends, each optional on its own.
	if params.RevenueMin != nil {
		where += fmt.Sprintf(" AND a.total_revenue >= $%d", argIdx)
		args = append(args, *params.RevenueMin)
		argIdx++
	}
	if params.RevenueMax != nil {
		where += fmt.Sprintf(" AND a.total_revenue <= $%d", argIdx)
		args = append(args, *params.RevenueMax)
		argIdx++
	}

	switch params.Sort {
	case "revenue-desc":
		orderBy = "ORDER BY a.total_revenue DESC, a.id ASC"
	case "mrr-desc":
		orderBy = "ORDER BY a.mrr DESC NULLS LAST, a.id ASC"
	case "recommendation-desc":
		// Level lives on the joined analysis row; ties fall back to ranking.
		orderBy = "ORDER BY da.recommendation_level DESC NULLS LAST, a.ranking ASC NULLS LAST, a.id ASC"
	default: // "ranking"
		orderBy = "ORDER BY a.ranking ASC NULLS LAST, a.id ASC"
	}

	return where, orderBy, args
}

// escapeLike neutralizes LIKE metacharacters in user input so a search term
// is always a literal substring, never a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ListApps returns the matching count and one page of published apps, each
// with its Category and DeveloperAnalysis attached in the same round trip.
func (s *Store) ListApps(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	where, orderBy, args := buildListQuery(params)

	const from = `FROM apps a
		JOIN categories c ON c.id = a.category_id
		LEFT JOIN developer_analyses da ON da.app_id = a.id`

	var total int
	countSQL := "SELECT COUNT(*) " + from + " " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	argIdx := len(args) + 1
	selectSQL := fmt.Sprintf("SELECT %s, %s, %s %s %s %s LIMIT $%d OFFSET $%d",
		appCols, categoryCols, analysisCols, from, where, orderBy, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var apps []models.App
	for rows.Next() {
		app, err := scanAppWithRelations(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if apps == nil {
		apps = []models.App{}
	}

	return &ListResult{Apps: apps, Total: total, Limit: params.Limit, Offset: params.Offset}, nil
}

func scanApp(scan func(dest ...any) error, dests ...any) (models.App, error) {
	var a models.App
	base := []any{
		&a.ID, &a.Slug, &a.Name, &a.ShortDescription, &a.FullDescription,
		&a.URL, &a.Logo, &a.TotalRevenue, &a.MRR, &a.MonthlyRevenue, &a.Currency,
		&a.Ranking, &a.RankingChange, &a.TechDifficulty, &a.IsPublished,
		&a.IsFeatured, &a.IsNewApp, &a.MetaTitle, &a.MetaDescription,
		&a.MetaKeywords, &a.LaunchDate, &a.CategoryID, &a.FounderID,
		&a.CreatedAt, &a.UpdatedAt,
	}
	return a, scan(append(base, dests...)...)
}

// scanAppWithRelations reads one listing row: app columns, category columns,
// then the nullable developer-analysis columns from the left join.
func scanAppWithRelations(scan func(dest ...any) error) (models.App, error) {
	var c models.Category
	var daLevel, daWeeks *int
	var daReason *i18n.Text
	var daPros, daCons []string
	var daSuitable *string

	a, err := scanApp(scan,
		&c.ID, &c.Slug, &c.Name, &c.Description, &c.Icon, &c.Color,
		&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		&daLevel, &daReason, &daPros, &daCons, &daSuitable, &daWeeks,
	)
	if err != nil {
		return a, err
	}

	a.Category = &c
	if daLevel != nil {
		da := models.DeveloperAnalysis{
			AppID:               a.ID,
			RecommendationLevel: *daLevel,
			Pros:                daPros,
			Cons:                daCons,
			DevelopmentWeeks:    daWeeks,
		}
		if daReason != nil {
			da.RecommendationReason = *daReason
		}
		if daSuitable != nil {
			da.SuitableFor = *daSuitable
		}
		a.DeveloperAnalysis = &da
	}

	return a, nil
}

// GetAppBySlug loads one published app with every relation attached:
// category, founder, all one-to-one detail records, marketing strategies by
// priority descending, the latest 12 revenue snapshots, and tags.
func (s *Store) GetAppBySlug(ctx context.Context, slug string) (*models.App, error) {
	sql := fmt.Sprintf(`SELECT %s, %s, %s
		FROM apps a
		JOIN categories c ON c.id = a.category_id
		LEFT JOIN developer_analyses da ON da.app_id = a.id
		WHERE a.slug = $1 AND a.is_published = true`,
		appCols, categoryCols, analysisCols)

	app, err := scanAppWithRelations(s.pool.QueryRow(ctx, sql, slug).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get app failed: %w", err)
	}

	if app.DeveloperAnalysis != nil {
		if err := s.pool.QueryRow(ctx,
			"SELECT revenue_expectation FROM developer_analyses WHERE app_id = $1", app.ID,
		).Scan(&app.DeveloperAnalysis.RevenueExpectation); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get revenue expectation failed: %w", err)
		}
	}

	if err := s.attachDetails(ctx, &app); err != nil {
		return nil, err
	}

	return &app, nil
}

func (s *Store) attachDetails(ctx context.Context, app *models.App) error {
	var bm models.BusinessModel
	err := s.pool.QueryRow(ctx, `SELECT app_id, pricing_model, pricing_tiers,
		target_customers, market_size, profit_margin, created_at, updated_at
		FROM business_models WHERE app_id = $1`, app.ID,
	).Scan(&bm.AppID, &bm.PricingModel, &bm.PricingTiers, &bm.TargetCustomers,
		&bm.MarketSize, &bm.ProfitMargin, &bm.CreatedAt, &bm.UpdatedAt)
	if err == nil {
		app.BusinessModel = &bm
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get business model failed: %w", err)
	}

	var ts models.TechStack
	err = s.pool.QueryRow(ctx, `SELECT app_id, frontend, backend, database,
		infrastructure, full_stack, difficulty_details, created_at, updated_at
		FROM tech_stacks WHERE app_id = $1`, app.ID,
	).Scan(&ts.AppID, &ts.Frontend, &ts.Backend, &ts.Database,
		&ts.Infrastructure, &ts.FullStack, &ts.DifficultyDetails, &ts.CreatedAt, &ts.UpdatedAt)
	if err == nil {
		app.TechStack = &ts
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get tech stack failed: %w", err)
	}

	var mp models.MvpPlan
	err = s.pool.QueryRow(ctx, `SELECT app_id, total_weeks, phases,
		core_features, quick_start, created_at, updated_at
		FROM mvp_plans WHERE app_id = $1`, app.ID,
	).Scan(&mp.AppID, &mp.TotalWeeks, &mp.Phases, &mp.CoreFeatures,
		&mp.QuickStart, &mp.CreatedAt, &mp.UpdatedAt)
	if err == nil {
		app.MvpPlan = &mp
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get mvp plan failed: %w", err)
	}

	var ca models.CostAnalysis
	err = s.pool.QueryRow(ctx, `SELECT app_id, development_cost, monthly_costs,
		yearly_estimate, profit_margin, breakdown, created_at, updated_at
		FROM cost_analyses WHERE app_id = $1`, app.ID,
	).Scan(&ca.AppID, &ca.DevelopmentCost, &ca.MonthlyCosts, &ca.YearlyEstimate,
		&ca.ProfitMargin, &ca.Breakdown, &ca.CreatedAt, &ca.UpdatedAt)
	if err == nil {
		app.CostAnalysis = &ca
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get cost analysis failed: %w", err)
	}

	if app.FounderID != nil {
		var f models.Founder
		err = s.pool.QueryRow(ctx, `SELECT id, name, username, bio, twitter_url,
			github_url, website_url, total_revenue, app_count, created_at, updated_at
			FROM founders WHERE id = $1`, *app.FounderID,
		).Scan(&f.ID, &f.Name, &f.Username, &f.Bio, &f.TwitterURL,
			&f.GithubURL, &f.WebsiteURL, &f.TotalRevenue, &f.AppCount, &f.CreatedAt, &f.UpdatedAt)
		if err == nil {
			app.Founder = &f
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get founder failed: %w", err)
		}
	}

	rows, err := s.pool.Query(ctx, `SELECT id, app_id, channel, description,
		priority, created_at
		FROM marketing_strategies WHERE app_id = $1
		ORDER BY priority DESC, channel ASC`, app.ID)
	if err != nil {
		return fmt.Errorf("get marketing strategies failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ms models.MarketingStrategy
		if err := rows.Scan(&ms.ID, &ms.AppID, &ms.Channel, &ms.Description,
			&ms.Priority, &ms.CreatedAt); err != nil {
			return fmt.Errorf("scan marketing strategy failed: %w", err)
		}
		app.MarketingStrategies = append(app.MarketingStrategies, ms)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("marketing rows failed: %w", err)
	}

	history, err := s.RevenueHistory(ctx, app.ID, 12)
	if err != nil {
		return err
	}
	app.RevenueHistory = history

	tagRows, err := s.pool.Query(ctx, `SELECT t.id, t.name FROM tags t
		JOIN app_tags at ON at.tag_id = t.id WHERE at.app_id = $1`, app.ID)
	if err != nil {
		return fmt.Errorf("get tags failed: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var t models.Tag
		if err := tagRows.Scan(&t.ID, &t.Name); err != nil {
			return fmt.Errorf("scan tag failed: %w", err)
		}
		app.Tags = append(app.Tags, t)
	}
	return tagRows.Err()
}

// RevenueHistory returns the newest snapshots first, capped at limit.
func (s *Store) RevenueHistory(ctx context.Context, appID uuid.UUID, limit int) ([]models.RevenuePoint, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, app_id, recorded_on, total_revenue, mrr
		FROM revenue_history WHERE app_id = $1
		ORDER BY recorded_on DESC LIMIT $2`, appID, limit)
	if err != nil {
		return nil, fmt.Errorf("get revenue history failed: %w", err)
	}
	defer rows.Close()

	var points []models.RevenuePoint
	for rows.Next() {
		var p models.RevenuePoint
		if err := rows.Scan(&p.ID, &p.AppID, &p.RecordedOn, &p.TotalRevenue, &p.MRR); err != nil {
			return nil, fmt.Errorf("scan revenue point failed: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ListCategories returns active categories in display order with their
// published-app counts.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT c.id, c.slug, c.name, c.description,
		c.icon, c.color, c.sort_order, c.is_active, c.created_at, c.updated_at,
		COUNT(a.id) FILTER (WHERE a.is_published)
		FROM categories c
		LEFT JOIN apps a ON a.category_id = c.id
		WHERE c.is_active = true
		GROUP BY c.id
		ORDER BY c.sort_order ASC, c.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories failed: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Icon,
			&c.Color, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
			&c.AppCount); err != nil {
			return nil, fmt.Errorf("scan category failed: %w", err)
		}
		cats = append(cats, c)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, rows.Err()
}

// GetCategoryBySlug returns one active category and its published apps in
// ranking order.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, []models.App, error) {
	var c models.Category
	err := s.pool.QueryRow(ctx, `SELECT id, slug, name, description, icon,
		color, sort_order, is_active, created_at, updated_at
		FROM categories WHERE slug = $1 AND is_active = true`, slug,
	).Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.Icon, &c.Color,
		&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get category failed: %w", err)
	}

	result, err := s.ListApps(ctx, ListParams{Category: slug, Limit: 500})
	if err != nil {
		return nil, nil, err
	}
	c.AppCount = result.Total

	return &c, result.Apps, nil
}

// CategoryIDBySlug resolves a category reference for the import pipeline.
func (s *Store) CategoryIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, "SELECT id FROM categories WHERE slug = $1", slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("resolve category failed: %w", err)
	}
	return id, nil
}

// SiteRef is one sitemap entry source.
type SiteRef struct {
	Slug      string
	UpdatedAt time.Time
}

func (s *Store) PublishedAppRefs(ctx context.Context) ([]SiteRef, error) {
	return s.refs(ctx, "SELECT slug, updated_at FROM apps WHERE is_published = true ORDER BY slug")
}

func (s *Store) ActiveCategoryRefs(ctx context.Context) ([]SiteRef, error) {
	return s.refs(ctx, "SELECT slug, updated_at FROM categories WHERE is_active = true ORDER BY slug")
}

func (s *Store) refs(ctx context.Context, sql string) ([]SiteRef, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("refs query failed: %w", err)
	}
	defer rows.Close()

	var refs []SiteRef
	for rows.Next() {
		var r SiteRef
		if err := rows.Scan(&r.Slug, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ref failed: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// GetStats returns catalog counts for the operator tooling.
func (s *Store) GetStats(ctx context.Context) (map[string]any, error) {
	stats := make(map[string]any)

	counts := []struct {
		key string
		sql string
	}{
		{"apps", "SELECT COUNT(*) FROM apps"},
		{"published_apps", "SELECT COUNT(*) FROM apps WHERE is_published = true"},
		{"featured_apps", "SELECT COUNT(*) FROM apps WHERE is_featured = true"},
		{"categories", "SELECT COUNT(*) FROM categories WHERE is_active = true"},
		{"marketing_strategies", "SELECT COUNT(*) FROM marketing_strategies"},
		{"revenue_snapshots", "SELECT COUNT(*) FROM revenue_history"},
	}
	for _, c := range counts {
		var n int
		if err := s.pool.QueryRow(ctx, c.sql).Scan(&n); err != nil {
			return nil, fmt.Errorf("stats %s failed: %w", c.key, err)
		}
		stats[c.key] = n
	}

	var totalRevenue decimal.NullDecimal
	if err := s.pool.QueryRow(ctx,
		"SELECT SUM(total_revenue) FROM apps WHERE is_published = true",
	).Scan(&totalRevenue); err != nil {
		return nil, fmt.Errorf("stats revenue failed: %w", err)
	}
	if totalRevenue.Valid {
		stats["catalog_revenue"] = totalRevenue.Decimal.String()
	}

	perCategory := map[string]int{}
	rows, err := s.pool.Query(ctx, `SELECT c.slug, COUNT(a.id)
		FROM categories c
		LEFT JOIN apps a ON a.category_id = c.id AND a.is_published
		GROUP BY c.slug`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var slug string
			var n int
			if scanErr := rows.Scan(&slug, &n); scanErr == nil {
				perCategory[slug] = n
			}
		}
	}
	stats["apps_per_category"] = perCategory

	return stats, nil
}

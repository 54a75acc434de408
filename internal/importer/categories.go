package importer

import (
	"context"
	"log"

	"github.com/trustmrr/catalog/internal/db"
	"github.com/trustmrr/catalog/internal/i18n"
	"github.com/trustmrr/catalog/internal/models"
)

// seedCategories is the fixed catalog taxonomy. Slugs are the stable keys the
// import registry and the API both refer to.
var seedCategories = []models.Category{
	{
		Slug: "marketing-growth",
		Name: i18n.NewText("营销与增长工具",
			"en", "Marketing & Growth Tools",
			"ja", "マーケティング＆グロースツール",
			"fr", "Outils de Marketing et Croissance"),
		Description: i18n.NewText("包含营销分析、转化优化、创作者平台等工具",
			"en", "Marketing analytics, conversion optimization, creator platforms"),
		Icon: "📈", Color: "#3B82F6", SortOrder: 1, IsActive: true,
	},
	{
		Slug: "developer-tools",
		Name: i18n.NewText("开发者工具与教育",
			"en", "Developer Tools & Education",
			"ja", "開発者ツール＆教育",
			"fr", "Outils pour Développeurs et Éducation"),
		Description: i18n.NewText("代码模板、在线课程、开发工具",
			"en", "Code templates, online courses, development tools"),
		Icon: "👨‍💻", Color: "#8B5CF6", SortOrder: 2, IsActive: true,
	},
	{
		Slug: "ai-content",
		Name: i18n.NewText("AI与内容生成",
			"en", "AI & Content Generation",
			"ja", "AI＆コンテンツ生成",
			"fr", "IA et Génération de Contenu"),
		Description: i18n.NewText("SEO内容、AI工具、视频生成",
			"en", "SEO content, AI tools, video generation"),
		Icon: "🤖", Color: "#EC4899", SortOrder: 3, IsActive: true,
	},
	{
		Slug: "ecommerce-payments",
		Name: i18n.NewText("电商与支付",
			"en", "E-commerce & Payments",
			"ja", "Eコマース＆決済",
			"fr", "E-commerce et Paiements"),
		Description: i18n.NewText("礼品卡、订单系统、电商平台",
			"en", "Gift cards, order systems, e-commerce platforms"),
		Icon: "🛒", Color: "#10B981", SortOrder: 4, IsActive: true,
	},
	{
		Slug: "niche-markets",
		Name: i18n.NewText("垂直细分市场",
			"en", "Niche Vertical Markets",
			"ja", "ニッチ垂直市場",
			"fr", "Marchés Verticaux de Niche"),
		Description: i18n.NewText("教堂软件、特殊教育、行业专属工具",
			"en", "Church software, special education, industry-specific tools"),
		Icon: "🎯", Color: "#F59E0B", SortOrder: 5, IsActive: true,
	},
	{
		Slug: "business-services",
		Name: i18n.NewText("商业服务平台",
			"en", "Business Services",
			"ja", "ビジネスサービス",
			"fr", "Services aux Entreprises"),
		Description: i18n.NewText("公司注册、业务买卖市场",
			"en", "Company registration, business marketplaces"),
		Icon: "💼", Color: "#6366F1", SortOrder: 6, IsActive: true,
	},
	{
		Slug: "community-membership",
		Name: i18n.NewText("社区与会员平台",
			"en", "Community & Membership",
			"ja", "コミュニティ＆メンバーシップ",
			"fr", "Communauté et Adhésion"),
		Description: i18n.NewText("付费社区、会员订阅",
			"en", "Paid communities, membership subscriptions"),
		Icon: "👥", Color: "#EF4444", SortOrder: 7, IsActive: true,
	},
	{
		Slug: "fintech-trading",
		Name: i18n.NewText("金融科技与交易",
			"en", "Fintech & Trading",
			"ja", "フィンテック＆トレーディング",
			"fr", "Fintech et Trading"),
		Description: i18n.NewText("金融工具、交易平台（高监管风险）",
			"en", "Financial tools, trading platforms (high regulatory risk)"),
		Icon: "💰", Color: "#14B8A6", SortOrder: 8, IsActive: true,
	},
	{
		Slug: "infrastructure-technical",
		Name: i18n.NewText("基础设施与技术服务",
			"en", "Infrastructure & Technical Services",
			"ja", "インフラ＆技術サービス",
			"fr", "Infrastructure et Services Techniques"),
		Description: i18n.NewText("代理服务、排名追踪、分析工具",
			"en", "Proxy services, rank tracking, analytics"),
		Icon: "🔧", Color: "#06B6D4", SortOrder: 9, IsActive: true,
	},
	{
		Slug: "miscellaneous",
		Name: i18n.NewText("其他应用",
			"en", "Miscellaneous",
			"ja", "その他のアプリ",
			"fr", "Applications Diverses"),
		Description: i18n.NewText("COSS模式、安静建设、混合模式",
			"en", "COSS model, building in quiet, hybrid models"),
		Icon: "📦", Color: "#64748B", SortOrder: 10, IsActive: true,
	},
}

// SeedCategories upserts the full taxonomy keyed by slug. Safe to re-run.
func SeedCategories(ctx context.Context, q db.Querier) (int, error) {
	count := 0
	for _, c := range seedCategories {
		if _, err := db.UpsertCategory(ctx, q, c); err != nil {
			return count, err
		}
		count++
		log.Printf("seed: category %s (%s)", c.Name.Base(), c.Slug)
	}
	return count, nil
}

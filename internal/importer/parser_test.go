package importer

import (
	"strings"
	"testing"
)

const sampleSection = "## 1. ShipFast 🥇\n" +
	"**排名：#4 | 总收入：$979,833 | MRR: $138,000**\n" +
	"\n" +
	"### 核心功能\n" +
	"Next.js SaaS 模板，帮助开发者快速发布产品\n" +
	"\n" +
	"### 商业模式\n" +
	"一次性购买，订阅更新\n" +
	"\n" +
	"### 技术栈（可直接复用）\n" +
	"```javascript\n" +
	"const stack = {\n" +
	"  frontend: 'Next.js',\n" +
	"  backend: 'Node.js',\n" +
	"  database: 'MongoDB',\n" +
	"  deployment: 'Vercel',\n" +
	"};\n" +
	"```\n" +
	"\n" +
	"### 技术难度：⭐⭐\n" +
	"适合初学者，主要是模板整合\n" +
	"\n" +
	"### 核心价值\n" +
	"节省开发者 20+ 小时的重复配置时间\n" +
	"\n" +
	"### 独立开发者建议\n" +
	"推荐度：⭐⭐⭐⭐⭐\n" +
	"\n" +
	"**优点：**\n" +
	"- 市场需求明确\n" +
	"- 复购率高\n" +
	"\n" +
	"**缺点：**\n" +
	"- 竞争激烈\n" +
	"\n" +
	"**适合谁：**\n" +
	"有 Next.js 经验的前端开发者\n" +
	"\n" +
	"### MVP 开发计划\n" +
	"预计 4-6 周完成\n" +
	"\n" +
	"#### Week 1-2：核心模板\n" +
	"```text\n" +
	"搭建认证、支付、邮件模块\n" +
	"```\n" +
	"\n" +
	"#### Week 3-4：文档与演示\n" +
	"```text\n" +
	"编写文档站点和示例项目\n" +
	"```\n" +
	"\n" +
	"### 定价策略\n" +
	"标准版：$199 - 完整模板与更新\n" +
	"高级版：$249 - 模板加 Discord 社区\n" +
	"\n" +
	"### 营销策略\n" +
	"1. **Twitter**：公开构建过程，分享收入数据\n" +
	"2. **Product Hunt**：发布日冲榜\n" +
	"\n" +
	"### 成本分析\n" +
	"开发成本：$2,000\n" +
	"利润率：~95%\n"

func TestParseAppSection(t *testing.T) {
	app := parseAppSection(sampleSection)
	if app == nil {
		t.Fatal("expected parsed app, got nil")
	}

	if app.Name != "ShipFast" {
		t.Errorf("name = %q, want ShipFast", app.Name)
	}
	if app.Ranking == nil || *app.Ranking != 4 {
		t.Errorf("ranking = %v, want 4", app.Ranking)
	}
	if app.TotalRevenue.String() != "979833" {
		t.Errorf("total revenue = %s, want 979833", app.TotalRevenue)
	}
	if app.MRR == nil || app.MRR.String() != "138000" {
		t.Errorf("mrr = %v, want 138000", app.MRR)
	}

	if !strings.Contains(app.CoreFunction, "SaaS 模板") {
		t.Errorf("core function not captured: %q", app.CoreFunction)
	}
	if !strings.Contains(app.BusinessModel, "一次性购买") {
		t.Errorf("business model not captured: %q", app.BusinessModel)
	}

	if app.TechStackJSON["frontend"] != "Next.js" || app.TechStackJSON["deployment"] != "Vercel" {
		t.Errorf("tech stack json not parsed: %v", app.TechStackJSON)
	}
	if app.TechDifficulty != 2 {
		t.Errorf("tech difficulty = %d, want 2", app.TechDifficulty)
	}
	if !strings.Contains(app.TechDifficultyNotes, "初学者") {
		t.Errorf("difficulty notes not captured: %q", app.TechDifficultyNotes)
	}

	if app.RecommendationLevel != 5 {
		t.Errorf("recommendation level = %d, want 5", app.RecommendationLevel)
	}
	if len(app.Pros) != 2 || app.Pros[0] != "市场需求明确" {
		t.Errorf("pros = %v", app.Pros)
	}
	if len(app.Cons) != 1 || app.Cons[0] != "竞争激烈" {
		t.Errorf("cons = %v", app.Cons)
	}
	if !strings.Contains(app.SuitableFor, "Next.js 经验") {
		t.Errorf("suitable for = %q", app.SuitableFor)
	}

	// 4-6 周 rounds up to 5.
	if app.DevelopmentWeeks == nil || *app.DevelopmentWeeks != 5 {
		t.Errorf("development weeks = %v, want 5", app.DevelopmentWeeks)
	}
	if len(app.MvpPhases) != 2 {
		t.Fatalf("mvp phases = %d, want 2", len(app.MvpPhases))
	}
	if app.MvpPhases[0].Name != "核心模板" || app.MvpPhases[0].Weeks != "1-2" {
		t.Errorf("phase 1 = %+v", app.MvpPhases[0])
	}
	if !strings.Contains(app.MvpPhases[1].Content, "文档站点") {
		t.Errorf("phase 2 content = %q", app.MvpPhases[1].Content)
	}

	if len(app.PricingTiers) != 2 {
		t.Fatalf("pricing tiers = %d, want 2", len(app.PricingTiers))
	}
	if app.PricingTiers[0].Tier != "标准版" || app.PricingTiers[0].Price != "199" {
		t.Errorf("tier 1 = %+v", app.PricingTiers[0])
	}

	if len(app.MarketingStrategies) != 2 {
		t.Fatalf("marketing strategies = %d, want 2", len(app.MarketingStrategies))
	}
	if app.MarketingStrategies[0].Channel != "Twitter" {
		t.Errorf("strategy 1 = %+v", app.MarketingStrategies[0])
	}
	if app.MarketingStrategies[1].Priority != 3 {
		t.Errorf("default priority = %d, want 3", app.MarketingStrategies[1].Priority)
	}

	if app.DevelopmentCost == nil || app.DevelopmentCost.String() != "2000" {
		t.Errorf("development cost = %v, want 2000", app.DevelopmentCost)
	}
	if app.ProfitMargin == nil || *app.ProfitMargin != 95 {
		t.Errorf("profit margin = %v, want 95", app.ProfitMargin)
	}
}

func TestParseAppSectionRequiresRevenue(t *testing.T) {
	section := "## 2. Mystery App\n**排名：#7**\n\n### 核心功能\n没有收入数据的应用\n"
	if app := parseAppSection(section); app != nil {
		t.Fatalf("sections without a revenue figure must be dropped, got %+v", app)
	}
}

func TestParseAppSectionDefaults(t *testing.T) {
	section := "## 3. Minimal\n**排名：#9 | 总收入：$12,000**\n"
	app := parseAppSection(section)
	if app == nil {
		t.Fatal("expected parsed app")
	}
	if app.TechDifficulty != 3 {
		t.Errorf("tech difficulty default = %d, want 3", app.TechDifficulty)
	}
	if app.RecommendationLevel != 3 {
		t.Errorf("recommendation level default = %d, want 3", app.RecommendationLevel)
	}
	if app.MRR != nil || app.DevelopmentWeeks != nil {
		t.Error("absent optional fields must stay nil")
	}
}

func TestParseAppSectionCapsTechDifficulty(t *testing.T) {
	section := "## 4. StarHeavy\n**排名：#2 | 总收入：$500,000**\n\n" +
		"### 技术难度：⭐⭐⭐⭐⭐⭐\n" +
		"作者给了六颗星，量表上限仍是五\n"
	app := parseAppSection(section)
	if app == nil {
		t.Fatal("expected parsed app")
	}
	if app.TechDifficulty != 5 {
		t.Errorf("tech difficulty = %d, want 5", app.TechDifficulty)
	}
	if !strings.Contains(app.TechDifficultyNotes, "六颗星") {
		t.Errorf("difficulty notes not captured: %q", app.TechDifficultyNotes)
	}
}

func TestParseDocument(t *testing.T) {
	doc := "# 分类介绍\n一些前言文字，不属于任何应用。\n\n" +
		sampleSection + "\n" +
		"## 2. NoRevenue\n**排名：#5**\n没有收入，应被跳过。\n\n" +
		"## 3. TinyTool\n**排名：#12 | 总收入：$45,000**\n\n### 核心功能\n小工具\n"

	apps := ParseDocument(doc)
	if len(apps) != 2 {
		t.Fatalf("parsed %d apps, want 2", len(apps))
	}
	if apps[0].Name != "ShipFast" || apps[1].Name != "TinyTool" {
		t.Errorf("unexpected names: %q, %q", apps[0].Name, apps[1].Name)
	}
}

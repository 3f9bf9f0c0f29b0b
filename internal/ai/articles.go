package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// Article is one blog entry the assistant may recommend.
type Article struct {
	Category string
	Title    string
	URL      string
	Keywords []string
}

// articleCatalog lists every recommendable blog article. The assistant
// only ever outputs titles; URLs are resolved here before the reply
// reaches the client.
var articleCatalog = []Article{
	{Category: "loan", Title: "住宅ローンの基本と選び方完全ガイド", URL: "https://muchinochi55.com/【2025年版】住宅ローンの基本と選び方完全ガイド/", Keywords: []string{"住宅ローン", "選び方", "基本", "金利"}},
	{Category: "loan", Title: "固定金利と変動金利どちらがいいのか", URL: "https://muchinochi55.com/【住宅ローンの『きほん』の『き』】固定金利と/", Keywords: []string{"固定金利", "変動金利", "金利タイプ"}},
	{Category: "loan", Title: "月々の返済額はいくらが理想？無理のない住宅ローン", URL: "https://muchinochi55.com/【完全解説】月々の返済額はいくらが理想？無理/", Keywords: []string{"返済額", "月々", "無理のない"}},
	{Category: "loan", Title: "住宅ローン審査に通りやすくなるコツ5選", URL: "https://muchinochi55.com/住宅ローン審査に通りやすくなるコツ5選｜30代フ/", Keywords: []string{"審査", "通りやすい", "コツ"}},
	{Category: "loan", Title: "頭金ゼロでも家は買える？", URL: "https://muchinochi55.com/【賢く家を買う方法】頭金ゼロでも家は買える？/", Keywords: []string{"頭金", "ゼロ", "初期費用"}},
	{Category: "loan", Title: "ペアローンと連帯債務の違い", URL: "https://muchinochi55.com/ペアローンと連帯債務の違いとは？夫婦で選ぶべ/", Keywords: []string{"ペアローン", "連帯債務", "夫婦", "共働き"}},
	{Category: "loan", Title: "フリーランスでも住宅ローンは組める！", URL: "https://muchinochi55.com/フリーランスでも住宅ローンは組める！審査通過/", Keywords: []string{"フリーランス", "自営業", "審査"}},
	{Category: "loan", Title: "住宅ローン控除の落とし穴", URL: "https://muchinochi55.com/住宅ローン控除の落とし穴｜資金計画で見落とし/", Keywords: []string{"住宅ローン控除", "減税", "税金"}},
	{Category: "loan", Title: "金利上昇リスクに備える住宅ローン対策", URL: "https://muchinochi55.com/金利上昇リスクに備える住宅ローン対策｜失敗し/", Keywords: []string{"金利上昇", "リスク", "対策"}},
	{Category: "loan", Title: "団信とは？住宅ローンの生命保険", URL: "https://muchinochi55.com/団信とは？住宅ローンの生命保険のメリット・注/", Keywords: []string{"団信", "生命保険", "保障"}},
	{Category: "loan", Title: "転職中の住宅ローン返済", URL: "https://muchinochi55.com/【転職検討中の方必見！】住宅ローン返済中に転/", Keywords: []string{"転職", "ローン返済"}},
	{Category: "loan", Title: "住宅ローン破綻を防ぐ方法", URL: "https://muchinochi55.com/住宅ローン破綻なんて怖くない！不動産のプロが/", Keywords: []string{"破綻", "返済不能", "防ぐ"}},
	{Category: "lifeplan", Title: "ライフプランを立てずに家を買うとどうなる？", URL: "https://muchinochi55.com/ライフプランを立てずに家を買うとどうなる？失/", Keywords: []string{"ライフプラン", "失敗", "計画"}},
	{Category: "lifeplan", Title: "共働き世帯のライフプラン作成が未来を決める", URL: "https://muchinochi55.com/【どれくらい考えていますか？】共働き世帯こそ/", Keywords: []string{"共働き", "ライフプラン", "家計"}},
	{Category: "lifeplan", Title: "教育費と住宅ローンの賢い両立方法", URL: "https://muchinochi55.com/子供の進学を考えた家選び｜将来の教育費と住宅/", Keywords: []string{"教育費", "子供", "進学", "両立"}},
	{Category: "lifeplan", Title: "家を買っても旅行・外食を楽しむ暮らし", URL: "https://muchinochi55.com/家を買っても「旅行・外食」を楽しむ暮らしにす/", Keywords: []string{"旅行", "外食", "生活の質", "楽しむ"}},
	{Category: "lifeplan", Title: "老後の年金だけで大丈夫？", URL: "https://muchinochi55.com/【将来を見据えるのが重要！】老後の年金だけで/", Keywords: []string{"老後", "年金", "将来"}},
	{Category: "lifeplan", Title: "家計診断で無理のない住宅購入", URL: "https://muchinochi55.com/【将来をしっかり考える】家計診断で「無理のな/", Keywords: []string{"家計診断", "無理のない", "購入額"}},
	{Category: "lifeplan", Title: "賃貸vs購入どっちが得？30代ファミリー", URL: "https://muchinochi55.com/賃貸vs購入どっちが得？30代ファミリーの選び方完/", Keywords: []string{"賃貸", "購入", "比較", "30代"}},
	{Category: "lifeplan", Title: "転職・独立を見据えた家選び", URL: "https://muchinochi55.com/将来の転職・独立を見据えた家選びとは｜ライフ/", Keywords: []string{"転職", "独立", "将来"}},
	{Category: "hunting", Title: "家を買う前に絶対やるべき準備", URL: "https://muchinochi55.com/【知らないと大損も？】家を買う前に絶対やるべ/", Keywords: []string{"準備", "買う前", "始め方"}},
	{Category: "hunting", Title: "不動産購入の流れ7ステップ", URL: "https://muchinochi55.com/fudosan-purchase-flow-7steps/", Keywords: []string{"購入の流れ", "ステップ", "手順"}},
	{Category: "hunting", Title: "家を買うタイミングはいつがベスト？", URL: "https://muchinochi55.com/家を買うタイミングはいつがベスト？後悔しない/", Keywords: []string{"タイミング", "いつ", "時期"}},
	{Category: "hunting", Title: "マイホーム購入でよくある不安と解消法", URL: "https://muchinochi55.com/【あなたはどうですか？】よくあるマイホーム購/", Keywords: []string{"不安", "解消", "よくある質問"}},
	{Category: "hunting", Title: "内見で確認すべき10のポイント", URL: "https://muchinochi55.com/【保存版】家を買う前の内見で必ず確認すべき10の/", Keywords: []string{"内見", "チェック", "確認"}},
	{Category: "hunting", Title: "マイホームが決まらない理由と解決策", URL: "https://muchinochi55.com/myhome-kimaranai-riyuu-kaiketsu/", Keywords: []string{"決まらない", "迷い", "解決"}},
	{Category: "hunting", Title: "家探しで失敗しない3つのステップ", URL: "https://muchinochi55.com/家探し初心者必見！失敗しない3つのステップと成/", Keywords: []string{"初心者", "失敗しない", "ステップ"}},
	{Category: "hunting", Title: "条件だけで家を選ぶと後悔する理由", URL: "https://muchinochi55.com/条件だけで家を選ぶと後悔する理由｜理想の暮ら/", Keywords: []string{"条件", "後悔", "理想"}},
	{Category: "hunting", Title: "新築vsリノベーション", URL: "https://muchinochi55.com/新築vsリノベーション｜後悔しない選び方と判断基/", Keywords: []string{"新築", "リノベーション", "中古", "比較"}},
	{Category: "hunting", Title: "マンションと戸建てどっちが正解？", URL: "https://muchinochi55.com/マンションと戸建てどっちが正解？後悔しない選/", Keywords: []string{"マンション", "戸建て", "どっち"}},
	{Category: "hunting", Title: "勢いで家を買うは正解？", URL: "https://muchinochi55.com/【ちょっと待って！！】勢いで家を買うは正解？/", Keywords: []string{"勢い", "即決", "慎重"}},
	{Category: "hunting", Title: "中古物件の購入前に知るべきこと", URL: "https://muchinochi55.com/【超・重要】中古物件って実際どう？購入前に知/", Keywords: []string{"中古", "注意点", "購入前"}},
	{Category: "hunting", Title: "住宅展示場の賢い使い方", URL: "https://muchinochi55.com/住宅展示場って行く意味ある？後悔しないための5/", Keywords: []string{"住宅展示場", "見学", "ハウスメーカー"}},
	{Category: "housemaker", Title: "注文住宅の予算オーバーを防ぐ方法", URL: "https://muchinochi55.com/chumon-jutaku-yosan-over/", Keywords: []string{"注文住宅", "予算オーバー", "コスト"}},
	{Category: "housemaker", Title: "ハウスメーカー選びは営業担当で決まる", URL: "https://muchinochi55.com/注文住宅は営業担当で決まる｜後悔しないため/", Keywords: []string{"ハウスメーカー", "営業担当", "選び方"}},
	{Category: "housemaker", Title: "土地と建築会社どちらを先に決める？", URL: "https://muchinochi55.com/custom-home-land-or-builder-first/", Keywords: []string{"土地", "建築会社", "先に", "順番"}},
	{Category: "housemaker", Title: "住友林業vs積水ハウス比較", URL: "https://muchinochi55.com/sumitomoringyou-sekisuihouse-comparison/", Keywords: []string{"住友林業", "積水ハウス", "比較"}},
	{Category: "housemaker", Title: "鉄骨vs木造の比較", URL: "https://muchinochi55.com/tetsukotsu-mokuzo-hikaku/", Keywords: []string{"鉄骨", "木造", "構造", "比較"}},
	{Category: "area-osaka", Title: "大阪で子育てしやすい街ランキング", URL: "https://muchinochi55.com/大阪で子育てしやすい街ランキング【2025年版】～/", Keywords: []string{"大阪", "子育て", "ランキング"}},
	{Category: "area-osaka", Title: "北摂エリアの住みやすさランキング", URL: "https://muchinochi55.com/hokusetsu-livability-ranking/", Keywords: []string{"北摂", "住みやすさ", "吹田", "豊中"}},
	{Category: "area-osaka", Title: "大阪転勤族の住む場所の選び方", URL: "https://muchinochi55.com/osaka-tenkin-sumubashoerabikata/", Keywords: []string{"転勤", "大阪", "住む場所"}},
	{Category: "area-osaka", Title: "大阪で新築戸建てを買うなら", URL: "https://muchinochi55.com/大阪で新築戸建てを買うなら？プロが選ぶ失敗し/", Keywords: []string{"大阪", "新築", "戸建て"}},
	{Category: "area-tokyo", Title: "東京23区で子育てにやさしい街ランキング", URL: "https://muchinochi55.com/東京23区で子育てにやさしい街ランキング2026年最/", Keywords: []string{"東京", "23区", "子育て"}},
	{Category: "area-tokyo", Title: "世田谷・杉並・練馬で迷ったら", URL: "https://muchinochi55.com/「どこで子育てする？」世田谷・杉並・練馬で迷/", Keywords: []string{"世田谷", "杉並", "練馬", "比較"}},
	{Category: "area-tokyo", Title: "23区か郊外かの選択", URL: "https://muchinochi55.com/「23区か？郊外か？」その選択が人生を左右する理/", Keywords: []string{"23区", "郊外", "選択"}},
	{Category: "mansion", Title: "マンション購入時の管理費チェック", URL: "https://muchinochi55.com/【買う前に確認して！】マンション購入時の管理/", Keywords: []string{"マンション", "管理費", "管理組合"}},
	{Category: "mansion", Title: "マンション大規模修繕の注意点", URL: "https://muchinochi55.com/【どれくらい知っていますか？】マンション大規/", Keywords: []string{"大規模修繕", "マンション", "修繕積立金"}},
}

// Articles returns the full catalog.
func Articles() []Article {
	return articleCatalog
}

// ArticleAt returns the article at a catalog index.
func ArticleAt(idx int) (Article, bool) {
	if idx < 0 || idx >= len(articleCatalog) {
		return Article{}, false
	}
	return articleCatalog[idx], true
}

// FallbackArticles is what a welcome mail recommends when the AI pick
// fails or is disabled.
func FallbackArticles() []Article {
	return []Article{
		{Title: "家探し初心者必見！失敗しない3つのステップ", URL: "https://muchinochi55.com/家探し初心者必見！失敗しない3つのステップと成/"},
		{Title: "住宅ローンの基本と選び方完全ガイド", URL: "https://muchinochi55.com/【2025年版】住宅ローンの基本と選び方完全ガイド/"},
		{Title: "月々の返済額はいくらが理想？", URL: "https://muchinochi55.com/【完全解説】月々の返済額はいくらが理想？無理/"},
	}
}

// articleListIndexed renders "N: title【category】" lines for the
// JSON index-pick prompt.
func articleListIndexed() string {
	var sb strings.Builder
	for i, a := range articleCatalog {
		fmt.Fprintf(&sb, "%d: %s【%s】\n", i, a.Title, a.Category)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// articleListCompact renders "title【category】" joined with 、 for the
// chat system prompt. Titles only so the model never invents URLs.
func articleListCompact() string {
	parts := make([]string, 0, len(articleCatalog))
	for _, a := range articleCatalog {
		parts = append(parts, a.Title+"【"+a.Category+"】")
	}
	return strings.Join(parts, "、")
}

var articleTagRe = regexp.MustCompile(`\{\{ARTICLE\|(.+?)\}\}`)

// ResolveArticleTags rewrites {{ARTICLE|title}} markers into
// {{ARTICLE|title|url}} by looking the title up in the catalog. Exact
// and substring matches win; otherwise keywords decide. Unresolvable
// markers are removed so broken links never reach the client.
func ResolveArticleTags(reply string) string {
	return articleTagRe.ReplaceAllStringFunc(reply, func(tag string) string {
		title := articleTagRe.FindStringSubmatch(tag)[1]
		if a, ok := matchArticle(title); ok {
			return fmt.Sprintf("{{ARTICLE|%s|%s}}", a.Title, a.URL)
		}
		return ""
	})
}

func matchArticle(title string) (Article, bool) {
	for _, a := range articleCatalog {
		if a.Title == title || strings.Contains(title, a.Title) || strings.Contains(a.Title, title) {
			return a, true
		}
	}
	for _, a := range articleCatalog {
		for _, k := range a.Keywords {
			if strings.Contains(title, k) {
				return a, true
			}
		}
	}
	return Article{}, false
}

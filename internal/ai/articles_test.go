package ai

import (
	"strings"
	"testing"

	"leadnavi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveArticleTagsExactTitle(t *testing.T) {
	a := articleCatalog[0]
	in := "おすすめです。{{ARTICLE|" + a.Title + "}}"
	out := ResolveArticleTags(in)
	assert.Contains(t, out, "{{ARTICLE|"+a.Title+"|"+a.URL+"}}")
}

func TestResolveArticleTagsByKeyword(t *testing.T) {
	// No catalog title matches, but the keyword lookup should.
	out := ResolveArticleTags("{{ARTICLE|北摂での家探しについて}}")
	assert.Contains(t, out, "hokusetsu")
	assert.True(t, strings.HasPrefix(out, "{{ARTICLE|"))
}

func TestResolveArticleTagsRemovesUnmatched(t *testing.T) {
	out := ResolveArticleTags("前 {{ARTICLE|zzzzz存在しない記事zzzzz}} 後")
	assert.Equal(t, "前  後", out)
}

func TestArticleAtBounds(t *testing.T) {
	_, ok := ArticleAt(-1)
	assert.False(t, ok)
	_, ok = ArticleAt(len(articleCatalog))
	assert.False(t, ok)

	a, ok := ArticleAt(0)
	require.True(t, ok)
	assert.NotEmpty(t, a.Title)
	assert.NotEmpty(t, a.URL)
}

func TestFallbackArticles(t *testing.T) {
	fallback := FallbackArticles()
	require.Len(t, fallback, 3)
	for _, a := range fallback {
		assert.NotEmpty(t, a.Title)
		assert.Contains(t, a.URL, "muchinochi55.com")
	}
}

func TestCustomerSystemPromptMentionsBookingTag(t *testing.T) {
	c := &models.Customer{Name: "山田太郎", Area: "吹田市"}
	prompt := customerSystemPrompt(c, "https://timerex.net/s/example")
	assert.Contains(t, prompt, "{{BOOKING|https://timerex.net/s/example}}")
	assert.Contains(t, prompt, "山田太郎")
}

func TestMissingInfoSectionPicksFirstUnfilledPriorityField(t *testing.T) {
	c := &models.Customer{Area: "吹田市"}
	section := missingInfoSection(c)
	// Area is filled, budget is the next priority field.
	assert.Contains(t, section, chatFieldLabels["budget"])

	full := &models.Customer{
		Area: "a", Budget: "b", Family: "c", PropertyType: "d",
		Purpose: "e", Timeline: "f", Occupation: "g", Income: "h",
	}
	assert.Empty(t, missingInfoSection(full))
}

func TestBuildCustomerContextIncludesProfileAndTodos(t *testing.T) {
	c := &models.Customer{
		Name:   "山田太郎",
		Area:   "吹田市",
		Budget: "5000万円",
		Todos:  []models.Todo{{Text: "物件資料を送る", Priority: models.PriorityHigh, Done: false}},
	}
	ctx := BuildCustomerContext(c)
	assert.Contains(t, ctx, "山田太郎")
	assert.Contains(t, ctx, "吹田市")
	assert.Contains(t, ctx, "物件資料を送る")
	// Unfilled fields render as the blank sentinel.
	assert.Contains(t, ctx, "未入力")
}

func TestExtractFromChatPromptListsAllExtractableFields(t *testing.T) {
	prompt := extractFromChatPrompt("ユーザー: こんにちは")
	for _, key := range models.ExtractableFields {
		assert.Contains(t, prompt, key)
	}
}

// Package ai wraps the Gemini API behind the advisory operations the
// rest of the service needs: the customer assistant, the agent consult
// chat, todo suggestion, interaction analysis and profile extraction.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadnavi/internal/config"
	"leadnavi/internal/models"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

var (
	// ErrNotConfigured means no API key was provided.
	ErrNotConfigured = errors.New("ai: not configured")
	// ErrTimeout means generation exceeded the per-call deadline.
	ErrTimeout = errors.New("ai: generation timed out")
	// ErrRateLimited means the upstream quota was exhausted.
	ErrRateLimited = errors.New("ai: rate limited")
)

// UserFacingError maps a generation failure to the Japanese message
// shown in the chat UI.
func UserFacingError(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "APIキーが設定されていません"
	case errors.Is(err, ErrTimeout):
		return "回答の生成に時間がかかっています。もう一度お試しください。"
	case errors.Is(err, ErrRateLimited):
		return "しばらくお待ちください。もう一度お試しいただけますか？"
	default:
		return "一時的なエラーが発生しました。再度お試しください。"
	}
}

// TodoSuggestion is one proposed action item.
type TodoSuggestion struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
	Reason   string `json:"reason,omitempty"`
}

// InteractionAnalysis is the structured read on a logged touchpoint.
type InteractionAnalysis struct {
	Insight        string           `json:"insight"`
	SuggestedTodos []TodoSuggestion `json:"suggestedTodos"`
}

// Client talks to the Gemini API.
type Client struct {
	genai      *genai.Client
	model      string
	timeout    time.Duration
	bookingURL string
	logger     *zerolog.Logger
}

// NewClient builds a Gemini client. Returns ErrNotConfigured when the
// API key is missing so the caller can run with the assistant disabled.
func NewClient(ctx context.Context, cfg config.AIConfig, links config.LinksConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	return &Client{
		genai:      client,
		model:      cfg.Model,
		timeout:    timeout,
		bookingURL: links.BookingURL,
		logger:     logger,
	}, nil
}

func (c *Client) generate(ctx context.Context, contents []*genai.Content, genCfg *genai.GenerateContentConfig) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.genai.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		return "", mapError(err)
	}
	return result.Text(), nil
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Status)
		}
	}
	return err
}

// conversationContents converts a transcript into Gemini turns.
func conversationContents(msgs []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// GenerateReply produces the customer assistant's next turn. The raw
// output is scrubbed of foreign scripts and its article markers are
// resolved to catalog URLs.
func (c *Client) GenerateReply(ctx context.Context, customer *models.Customer, msgs []models.ChatMessage) (string, error) {
	reply, err := c.generate(ctx, conversationContents(msgs), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(customerSystemPrompt(customer, c.bookingURL), genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return ResolveArticleTags(SanitizeReply(reply)), nil
}

// AgentConsult answers the agent's question about a customer.
func (c *Client) AgentConsult(ctx context.Context, customer *models.Customer, msgs []models.ChatMessage) (string, error) {
	return c.generate(ctx, conversationContents(msgs), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(agentConsultPrompt(customer), genai.RoleUser),
	})
}

// CustomerPreview simulates the customer-facing assistant for the
// console, without the marker grammar.
func (c *Client) CustomerPreview(ctx context.Context, customer *models.Customer, msgs []models.ChatMessage) (string, error) {
	return c.generate(ctx, conversationContents(msgs), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(customerPreviewPrompt(customer), genai.RoleUser),
	})
}

// SuggestTodos proposes up to five normalized action items.
func (c *Client) SuggestTodos(ctx context.Context, customer *models.Customer) ([]TodoSuggestion, error) {
	text, err := c.generate(ctx,
		[]*genai.Content{genai.NewContentFromText(suggestTodosPrompt(customer), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.7),
		})
	if err != nil {
		return nil, err
	}

	var suggestions []TodoSuggestion
	if err := decodeJSONArray(text, &suggestions); err != nil {
		c.logger.Error().Str("raw", truncate(text, 500)).Msg("Failed to parse todo suggestions")
		return nil, err
	}

	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	for i := range suggestions {
		suggestions[i].Text = truncate(suggestions[i].Text, 100)
		suggestions[i].Reason = truncate(suggestions[i].Reason, 150)
		switch suggestions[i].Priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			suggestions[i].Priority = models.PriorityMedium
		}
	}
	return suggestions, nil
}

// AnalyzeInteraction turns one logged touchpoint into an insight plus
// follow-up candidates.
func (c *Client) AnalyzeInteraction(ctx context.Context, customer *models.Customer, content string) (*InteractionAnalysis, error) {
	text, err := c.generate(ctx,
		[]*genai.Content{genai.NewContentFromText(analyzeInteractionPrompt(customer, content), genai.RoleUser)},
		nil)
	if err != nil {
		return nil, err
	}

	var analysis InteractionAnalysis
	if err := decodeJSONObject(text, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// ExtractFromChat pulls profile facts the customer stated in the
// assistant transcript. Only allow-listed keys with non-null values
// come back.
func (c *Client) ExtractFromChat(ctx context.Context, customer *models.Customer) (map[string]string, error) {
	if len(customer.ChatHistory) == 0 {
		return map[string]string{}, nil
	}

	var sb strings.Builder
	for _, m := range customer.ChatHistory {
		role := "AI"
		if m.Role == "user" {
			role = "ユーザー"
		}
		fmt.Fprintf(&sb, "%s: %s\n", role, m.Content)
	}

	text, err := c.generate(ctx,
		[]*genai.Content{genai.NewContentFromText(extractFromChatPrompt(sb.String()), genai.RoleUser)},
		nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := decodeJSONObject(text, &raw); err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(models.ExtractableFields))
	for _, f := range models.ExtractableFields {
		allowed[f] = true
	}

	extracted := make(map[string]string)
	for key, val := range raw {
		if !allowed[key] || val == nil {
			continue
		}
		s := fmt.Sprintf("%v", val)
		if s == "" || s == "null" {
			continue
		}
		extracted[key] = s
	}
	return extracted, nil
}

// RecommendArticles picks three catalog articles for a fresh
// registration. Best effort: any failure yields the fallback set.
func (c *Client) RecommendArticles(ctx context.Context, customer *models.Customer) []Article {
	text, err := c.generate(ctx,
		[]*genai.Content{genai.NewContentFromText(recommendArticlesPrompt(customer), genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.3),
		})
	if err != nil {
		c.logger.Error().Err(err).Msg("Article recommendation failed, using fallback")
		return FallbackArticles()
	}

	var parsed struct {
		Indices []int `json:"indices"`
	}
	if err := decodeJSONObject(text, &parsed); err != nil {
		c.logger.Error().Err(err).Msg("Article recommendation returned invalid JSON, using fallback")
		return FallbackArticles()
	}

	picks := make([]Article, 0, 3)
	for _, idx := range parsed.Indices {
		if a, ok := ArticleAt(idx); ok {
			picks = append(picks, a)
		}
		if len(picks) == 3 {
			break
		}
	}
	if len(picks) == 0 {
		return FallbackArticles()
	}
	return picks
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return nil
}

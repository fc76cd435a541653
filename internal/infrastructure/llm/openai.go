package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"infocurator/internal/config"
	"infocurator/internal/domain"
	"infocurator/internal/ports"
)

const excerptLimit = 300

// Client implements the summarizer ports on top of the official openai-go
// SDK (chat completions).
type Client struct {
	model        string
	systemPrompt string
	opts         []option.RequestOption
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient builds a summarizer from configuration.
func NewClient(cfg config.SummarizerConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY or summarizer.apiKey")
	}
	if cfg.Model == "" {
		return nil, errors.New("summarizer model is required")
	}
	return &Client{
		model:        cfg.Model,
		systemPrompt: safePrompt(cfg.SystemPrompt),
		opts:         []option.RequestOption{option.WithAPIKey(cfg.APIKey)},
	}, nil
}

// SummarizeBatch asks for one 2-3 sentence summary per item and expects a
// strict JSON array of exactly len(items) strings. Any shape mismatch is
// returned as an error so the caller's retry policy applies; there is no
// lenient re-parsing.
func (c *Client) SummarizeBatch(ctx context.Context, items []domain.ScoredItem) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	content, err := c.complete(ctx, buildBatchPrompt(items), 0.3)
	if err != nil {
		return nil, err
	}

	return decodeSummaries(content, len(items))
}

// GenerateWeeklySummary condenses the week's top items into a trend digest.
func (c *Client) GenerateWeeklySummary(ctx context.Context, items []domain.SummarizedItem) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("These are this week's top curated items. Identify 3-5 key trends ")
	b.WriteString("and describe each in 2-3 sentences.\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "[%d] %s (score: %d, source: %s)\n",
			i+1, item.Title, item.Scores.Total, item.Source)
	}

	content, err := c.complete(ctx, b.String(), 0.5)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) complete(ctx context.Context, userPrompt string, temperature float64) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildBatchPrompt(items []domain.ScoredItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize each of the following %d items in 2-3 sentences. ", len(items))
	fmt.Fprintf(&b, "Respond with a JSON array of exactly %d strings and nothing else. ", len(items))
	b.WriteString(`Format: ["summary 1", "summary 2", ...]`)
	b.WriteString("\n\n")

	for i, item := range items {
		fmt.Fprintf(&b, "[%d] Title: %s\n", i+1, item.Title)
		if item.BodyExcerpt != "" {
			excerpt := item.BodyExcerpt
			if len(excerpt) > excerptLimit {
				excerpt = excerpt[:excerptLimit]
			}
			fmt.Fprintf(&b, "Body: %s\n", excerpt)
		}
		fmt.Fprintf(&b, "Source: %s | Score: %d\n\n", item.Source, item.Scores.Total)
	}

	return b.String()
}

// decodeSummaries performs the strict schema check: a JSON array of exactly
// n strings, nothing else.
func decodeSummaries(content string, n int) ([]string, error) {
	var summaries []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &summaries); err != nil {
		return nil, fmt.Errorf("response is not a JSON string array: %w", err)
	}
	if len(summaries) != n {
		return nil, fmt.Errorf("expected %d summaries, got %d", n, len(summaries))
	}
	return summaries, nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a technology news curator. You summarize content items concisely, conveying the core facts and why they matter."
	}
	return prompt
}

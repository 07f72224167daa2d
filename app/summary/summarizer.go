package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	openai "github.com/sashabaranov/go-openai"

	"github.com/secdigest/secdigest/app/database"
)

// ErrDisabled is returned when summarization is requested without an API key
// configured.
var ErrDisabled = errors.New("summarization is disabled")

// articleMaxLen caps the text sent to the model. Full articles can run to
// tens of thousands of runes and the summary quality plateaus well below
// that.
const articleMaxLen = 4000

const systemPrompt = "You are a security analyst. Summarize the following " +
	"security article in 2-3 sentences, focusing on the threat, affected " +
	"systems, and recommended actions. Be factual and concise."

// Summarizer produces short AI summaries of digest items, backed by a
// per-link cache so each article is summarized at most once per digest
// lifetime.
type Summarizer struct {
	client      *openai.Client
	httpClient  *http.Client
	summaryRepo database.SummaryRepository
	model       string
	userAgent   string
}

func New(apiKey, model string, httpClient *http.Client, summaryRepo database.SummaryRepository, userAgent string) *Summarizer {
	s := &Summarizer{
		httpClient:  httpClient,
		summaryRepo: summaryRepo,
		model:       model,
		userAgent:   userAgent,
	}

	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}

	return s
}

// Enabled reports whether an API key was configured.
func (s *Summarizer) Enabled() bool {
	return s.client != nil
}

// Run returns a summary for the given item, from cache when available. The
// article body is fetched and extracted when possible; the item's own content
// is the fallback.
func (s *Summarizer) Run(ctx context.Context, item database.Item) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}

	cached, err := s.summaryRepo.GetSummary(item.Link)
	if err != nil {
		slog.Warn("Summary cache lookup failed", "link", item.Link, "error", err)
	} else if cached != nil {
		return cached.Summary, nil
	}

	text := item.Content
	if article, err := s.fetchArticle(ctx, item.Link); err != nil {
		slog.Warn("Article extraction failed, using feed content", "link", item.Link, "error", err)
	} else if len(article) > len(text) {
		text = article
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no content available for '%s'", item.Link)
	}

	summary, err := s.summarize(ctx, item.Title, text)
	if err != nil {
		return "", err
	}

	if err := s.summaryRepo.UpsertSummary(item.Link, s.model, summary); err != nil {
		slog.Warn("Failed to cache summary", "link", item.Link, "error", err)
	}

	return summary, nil
}

func (s *Summarizer) fetchArticle(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("failed to parse article URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract article: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if runes := []rune(text); len(runes) > articleMaxLen {
		text = string(runes[:articleMaxLen])
	}

	return text, nil
}

func (s *Summarizer) summarize(ctx context.Context, title, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Title: %s\n\n%s", title, text)},
		},
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}

	return summary, nil
}

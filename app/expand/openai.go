package expand

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/biopulse/bioradar/app/news"
)

var _ news.Expander = (*OpenAIExpander)(nil)

const systemPrompt = "You expand monitoring keywords for a biosimilar-industry news search. " +
	"Given one keyword, reply with closely related search phrases a pharma analyst would also query, " +
	"one phrase per line, no numbering, no commentary."

// OpenAIExpander generates semantically related search phrases for a keyword
// through the OpenAI chat API. Every call carries its own timeout so a slow
// expansion can only delay planning, never hang it.
type OpenAIExpander struct {
	client     *openai.Client
	model      string
	maxPhrases int
	timeout    time.Duration
}

func NewOpenAIExpander(apiKey, baseURL, model string, maxPhrases int, timeout time.Duration) *OpenAIExpander {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	if model == "" {
		model = openai.GPT4oMini
	}
	if maxPhrases <= 0 {
		maxPhrases = 3
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &OpenAIExpander{
		client:     openai.NewClientWithConfig(config),
		model:      model,
		maxPhrases: maxPhrases,
		timeout:    timeout,
	}
}

func (e *OpenAIExpander) Expand(ctx context.Context, keyword string) ([]string, error) {
	requestCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(requestCtx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		MaxTokens:   200,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: keyword},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("keyword expansion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("keyword expansion returned no choices")
	}

	return parsePhrases(resp.Choices[0].Message.Content, e.maxPhrases), nil
}

// parsePhrases extracts up to max clean phrases from a line-oriented model
// reply, tolerating stray bullets and numbering.
func parsePhrases(content string, max int) []string {
	phrases := make([]string, 0, max)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789.) ")
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
		if len(phrases) >= max {
			break
		}
	}
	return phrases
}

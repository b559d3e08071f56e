package synonyms

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
)

const (
	defaultOpenAIModel = openai.GPT4oMini
	defaultOpenAIWords = 10
)

const openAISystemPrompt = `You are a thesaurus. Reply with a JSON array of up to %d single words or short phrases that mean the same as, or are closely related to, the user's term when used as the name of a property of a thing (for example "height" -> ["elevation", "altitude", "tallness"]). Reply with the JSON array only.`

// openAIProvider asks a chat model for related words. Any OpenAI-compatible
// endpoint works through BaseURL.
type openAIProvider struct {
	client *openai.Client
	model  string
	max    int
}

func newOpenAIProvider(apiKey, baseURL, model string, max int, doer httpx.Doer) Provider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if doer != nil {
		config.HTTPClient = doer
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if max <= 0 {
		max = defaultOpenAIWords
	}
	return &openAIProvider{client: openai.NewClientWithConfig(config), model: model, max: max}
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Related(ctx context.Context, term string) ([]string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(openAISystemPrompt, p.max)},
			{Role: openai.ChatMessageRoleUser, Content: term},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}
	return parseWordList(resp.Choices[0].Message.Content, p.max)
}

// parseWordList reads a JSON array of strings out of model output, repairing
// unbalanced brackets, single quotes and code fences along the way.
func parseWordList(content string, max int) ([]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrMalformed, err)
	}
	var words []string
	if err := json.Unmarshal([]byte(repaired), &words); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrMalformed, err)
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}

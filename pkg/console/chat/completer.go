package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/surgegrid/surge/pkg/api/types/models"
)

// OpenAICompleter talks to the model instance's OpenAI-compatible
// endpoint (models.Detail.OllamaURL + "/v1").
//
// token may be empty; self-hosted instances usually accept any key.
func OpenAICompleter(token string) Completer {
	return func(ctx context.Context, model models.Detail, transcript []Message) (string, error) {
		if token == "" {
			// the SDK requires some key; the instance ignores it.
			token = "surge"
		}
		client := openai.NewClient(
			option.WithAPIKey(token),
			option.WithBaseURL(strings.TrimSuffix(model.OllamaURL, "/")+"/v1"),
		)

		messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(transcript))
		for _, m := range transcript {
			switch m.Role {
			case RoleAssistant:
				messages = append(messages, openai.AssistantMessage(m.Content))
			default:
				messages = append(messages, openai.UserMessage(m.Content))
			}
		}

		completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    shared.ChatModel(model.Name),
			Messages: messages,
		})
		if err != nil {
			return "", fmt.Errorf("completion against %s: %w", model.ModelId, err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("completion against %s: empty response", model.ModelId)
		}

		return completion.Choices[0].Message.Content, nil
	}
}

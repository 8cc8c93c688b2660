package processing

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
)

// wordCountForLength maps the requested video length to a script word
// count: 15s=50, 1m=200, 5min=1000. Unknown lengths fall back to 50.
func wordCountForLength(videoLength string) int {
	mapping := map[string]int{"15s": 50, "1m": 200, "5min": 1000}
	if n, ok := mapping[videoLength]; ok {
		return n
	}
	return 50
}

// GenerateScript produces a narration script for a video described by
// description, sized to videoLength ("15s", "1m" or "5min").
func GenerateScript(ctx context.Context, description, videoLength string) (string, error) {
	client, err := newClient()
	if err != nil {
		return "", err
	}

	wordCount := wordCountForLength(videoLength)
	prompt := fmt.Sprintf(
		"Generate a natural-sounding script for a YouTube video that is around %d words, the description is: %s",
		wordCount, description)

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:     openai.ChatModelGPT4o,
		MaxTokens: openai.Int(2048),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	script := strings.TrimSpace(chatCompletion.Choices[0].Message.Content)
	if script == "" {
		return "", fmt.Errorf("OpenAI returned empty script")
	}
	return script, nil
}

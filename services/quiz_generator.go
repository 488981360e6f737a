package services

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"questbridge-api/config"
)

const quizQuestionCount = 3

// QuestionGenerator returns the raw model output for a quiz about topic.
type QuestionGenerator interface {
	GenerateQuiz(ctx context.Context, topic string) (string, error)
}

// OpenAIQuizGenerator works against any OpenAI-compatible chat completion
// endpoint (Groq by default).
type OpenAIQuizGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIQuizGenerator(cfg *config.Config) *OpenAIQuizGenerator {
	client := openai.NewClient(
		option.WithAPIKey(cfg.Quiz.APIKey),
		option.WithBaseURL(cfg.Quiz.BaseURL),
	)
	return &OpenAIQuizGenerator{client: client, model: cfg.Quiz.Model}
}

func quizPrompt(topic string) string {
	return fmt.Sprintf(`You are a creative and unhinged AI event coordinator.
Create a %d-question multiple-choice quiz about the event titled %q.
The questions should be crazy, funny, and unconventional but relevant to the event name.
Return ONLY a valid JSON array of objects.
Provide exactly 4 options per question.
Follow this exact schema for each object in the array:
{
    "id": number,
    "question": "string",
    "options": ["string", "string", "string", "string"],
    "answer": number
}
"answer" is the index (0-3) of the correct option.
Do not write anything else, only the JSON.`, quizQuestionCount, topic)
}

func (g *OpenAIQuizGenerator) GenerateQuiz(ctx context.Context, topic string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(quizPrompt(topic)),
		},
		Temperature: openai.Float(0.9),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// GeneratedTask is one task suggestion extracted from free-form text. It is
// a suggestion only; nothing is persisted until the client creates the task.
type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// TaskGenerator extracts task suggestions from free-form text.
type TaskGenerator interface {
	GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error)
}

// AIService implements TaskGenerator against the OpenAI API.
type AIService struct {
	client *openai.Client
}

// NewAIService creates a new AIService.
func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateTasksFromText analyzes text and extracts task suggestions using
// OpenAI GPT.
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return the extracted tasks as a JSON array in the following shape:
[
  {
    "title": "short task title",
    "description": "detailed task description",
    "dueDate": "deadline in ISO8601 format, e.g. 2025-10-28T23:59:59Z, or null if no deadline is stated"
  }
]

Rules:
- If the text contains no tasks, return an empty array []
- Convert relative deadlines ("tomorrow", "next week") into concrete timestamps
- dueDate must be an ISO8601 string or null
- Return only the JSON, with no surrounding explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

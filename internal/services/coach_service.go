package services

import (
	"context"
	"fmt"

	"github.com/AyushSid28/Coach-Loop/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// CoachService produces the assistant side of a coaching conversation. The
// LLM is a stateless completion oracle; all context is replayed per turn.
type CoachService struct {
	client chatCompleter
	model  string
}

func NewCoachService(apiKey, model string) *CoachService {
	return &CoachService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (s *CoachService) Reply(
	ctx context.Context,
	coachType string,
	history []models.Message,
	userInput string,
) (string, error) {
	persona := "AI coach"
	if agent, ok := AgentByType(coachType); ok {
		persona = agent.Name
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf(
			"You are an AI %s. Provide helpful, supportive, and actionable coaching advice. Keep responses concise but meaningful.",
			persona,
		),
	})
	for _, message := range history {
		role := openai.ChatMessageRoleAssistant
		if message.Sender == models.SenderUser {
			role = openai.ChatMessageRoleUser
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: message.Text,
		})
	}
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userInput,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    chatMessages,
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("coach completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("coach completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/domain"
	"github.com/vanek-ai/backend/internal/metrics"
)

// AssistantService is the API-key-gated chat provider adapter. Unlike
// the free completion flow it surfaces provider failures to the caller
// instead of substituting a canned reply.
type AssistantService struct {
	client *openai.Client
}

func NewAssistantService(apiKey, baseURL string) *AssistantService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: config.ChatTimeout}
	return &AssistantService{client: openai.NewClientWithConfig(cfg)}
}

// Reply sends the assembled conversation in one call and returns the
// assistant's reply, or an upstream error with the provider's text.
func (s *AssistantService) Reply(ctx context.Context, att domain.AttachmentContext, history []domain.ChatTurn, message string) (string, error) {
	system := config.PersonaPrompt
	if extra := SystemInstruction(att); extra != "" {
		system += "\n\n" + extra
	}

	turns := BuildMessages(system, history, domain.ChatTurn{Role: domain.RoleUser, Content: message})

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns[:len(turns)-1] {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    providerRole(t.Role),
			Content: t.Content,
		})
	}
	messages = append(messages, userMessage(att, message))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       config.ChatModel,
		Messages:    messages,
		MaxTokens:   config.ChatMaxTokens,
		Temperature: config.ChatTemperature,
	})
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("openai").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		metrics.ProviderFailures.WithLabelValues("openai").Inc()
		return "", fmt.Errorf("%w: empty completion", domain.ErrUpstream)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if utf8.RuneCountInString(reply) < config.MinReplyRunes {
		reply = config.FallbackAck
	}
	return reply, nil
}

// userMessage builds the final user turn. Image attachments travel as
// a vision part next to the text; everything else is plain text (the
// audio and file context already lives in the system block or the
// message body).
func userMessage(att domain.AttachmentContext, message string) openai.ChatCompletionMessage {
	if att.Kind == domain.AttachmentImage {
		text := message
		if strings.TrimSpace(text) == "" {
			text = config.DefaultImageCaption
		}
		return openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: text},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: att.ImageRef},
				},
			},
		}
	}
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message}
}

func providerRole(role string) string {
	switch role {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

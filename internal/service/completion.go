package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/domain"
	"github.com/vanek-ai/backend/internal/metrics"
)

// CompletionService calls a raw text-completion endpoint (HuggingFace
// inference style: a flattened prompt in, generated text out).
type CompletionService struct {
	endpoint   string
	httpClient *http.Client
}

func NewCompletionService(endpoint string) *CompletionService {
	return &CompletionService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: config.ChatTimeout},
	}
}

type completionRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters completionParameters `json:"parameters"`
}

type completionParameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type completionChoice struct {
	GeneratedText string `json:"generated_text"`
}

// Generate issues exactly one completion call and always returns a
// user-facing reply: every provider failure collapses into one of the
// canned fallbacks so the chat flow never sees an error.
func (s *CompletionService) Generate(ctx context.Context, history []domain.ChatTurn, message string) string {
	prompt := FlattenPrompt(history, message)

	payload, err := json.Marshal(completionRequest{
		Inputs: prompt,
		Parameters: completionParameters{
			MaxLength:   config.CompletionMaxLength,
			Temperature: config.CompletionTemperature,
			TopP:        config.CompletionTopP,
		},
	})
	if err != nil {
		return fallbackError(message)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fallbackError(message)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Error("completion request failed", "error", err)
		metrics.ProviderFailures.WithLabelValues("textgen").Inc()
		return fallbackError(message)
	}
	defer resp.Body.Close()

	// 503 means the model is still loading upstream.
	if resp.StatusCode == http.StatusServiceUnavailable {
		metrics.ProviderFailures.WithLabelValues("textgen").Inc()
		return config.FallbackBusy
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("completion provider error", "status", resp.StatusCode)
		metrics.ProviderFailures.WithLabelValues("textgen").Inc()
		return fallbackOffline(message)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("textgen").Inc()
		return fallbackError(message)
	}

	var choices []completionChoice
	if err := json.Unmarshal(body, &choices); err != nil || len(choices) == 0 {
		return fallbackEcho(message)
	}

	// The provider echoes the whole prompt; keep only what follows the
	// final assistant cue.
	reply := choices[0].GeneratedText
	if i := strings.LastIndex(reply, config.LabelAssistant+":"); i >= 0 {
		reply = reply[i+len(config.LabelAssistant)+1:]
	}
	reply = strings.TrimSpace(reply)

	if utf8.RuneCountInString(reply) < config.MinReplyRunes {
		return config.FallbackAck
	}
	return reply
}

func fallbackOffline(message string) string {
	return fmt.Sprintf("Понял ваш вопрос про \"%s\". Я Ванёк, ваш помощник! Сейчас работаю в режиме без внешних API. Чем ещё могу помочь?", message)
}

func fallbackError(message string) string {
	return fmt.Sprintf("Привет! Я Ванёк. Вы написали: \"%s\". Готов помочь с простыми задачами!", message)
}

func fallbackEcho(message string) string {
	return fmt.Sprintf("Отвечаю на \"%s...\": Я понял ваш вопрос. Сейчас работаю без ключей API, но готов помочь с простыми задачами!", truncateRunes(message, 50))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

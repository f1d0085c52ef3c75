package config

import "time"

const (
	// Outbound provider timeouts. Single-shot bounds, no retry.
	ChatTimeout  = 30 * time.Second
	ImageTimeout = 60 * time.Second

	// History window sizes. The raw-prompt provider gets a shorter
	// window than the structured chat provider.
	WindowFlat       = 5
	WindowStructured = 10

	// Generation parameters for the gated chat provider
	ChatModel       = "gpt-4o-mini"
	ChatMaxTokens   = 1000
	ChatTemperature = 0.7

	// Generation parameters for the free completion provider
	CompletionMaxLength   = 200
	CompletionTemperature = 0.8
	CompletionTopP        = 0.9

	// Replies shorter than this are replaced with the canned ack
	MinReplyRunes = 3

	// Generic attachments are inlined into the prompt up to this size
	MaxInlineFileBytes = 4000

	// Image generation output
	ImageWidth  = 1024
	ImageHeight = 1024

	// Per-client request rate
	RateLimitPerSecond = 5
	RateLimitBurst     = 10

	// HTTP server
	ReadTimeout     = 15 * time.Second
	WriteTimeout    = 90 * time.Second
	ShutdownTimeout = 10 * time.Second
)

// The assistant speaks Russian. The persona and every canned reply
// come straight from the product copy.
const (
	LabelUser      = "Пользователь"
	LabelAssistant = "Ассистент"

	// AttachmentMarker is the fixed fragment the front end prepends to
	// the message text when the user attached a file.
	AttachmentMarker = "[Пользователь прикрепил"

	PersonaPrompt = "Ты — Ванёк, персональный ИИ-помощник. Твой стиль общения: краткий, уверенный, как у старого друга. Отвечай по делу, без лишней воды. Ты помогаешь с кодом, текстами, анализом файлов и любыми повседневными задачами."

	// FallbackBusy answers a provider that is loading or unavailable.
	FallbackBusy = "Привет! Я Ванёк. Сейчас немного загружен, но готов помочь! Чем могу быть полезен?"

	// FallbackAck replaces empty or near-empty provider replies.
	FallbackAck = "Понял! Чем ещё могу помочь?"

	// DefaultImageCaption is used when an image arrives without text.
	DefaultImageCaption = "Проанализируй это изображение"
)

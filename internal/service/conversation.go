package service

import (
	"fmt"
	"strings"

	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/domain"
)

// ClassifyAttachment decides the attachment state once at the request
// boundary. The front end prepends a fixed marker to the message text
// when the user attached a file; without the marker the request is
// treated as plain text regardless of stray fields.
func ClassifyAttachment(message, imageRef string, audio *domain.AudioSummary, fileName, fileType string) domain.AttachmentContext {
	if !strings.Contains(message, config.AttachmentMarker) {
		return domain.AttachmentContext{Kind: domain.AttachmentNone}
	}

	switch {
	case imageRef != "":
		return domain.AttachmentContext{Kind: domain.AttachmentImage, ImageRef: imageRef}
	case audio != nil:
		return domain.AttachmentContext{Kind: domain.AttachmentAudio, Audio: audio}
	case fileName != "" || fileType != "":
		return domain.AttachmentContext{
			Kind:     domain.AttachmentOtherFile,
			FileName: fileName,
			FileType: fileType,
		}
	default:
		return domain.AttachmentContext{Kind: domain.AttachmentNone}
	}
}

// SystemInstruction returns the instruction block matching the
// attachment state. Each block describes only what the assistant can
// actually do with the attachment: it sees images directly, it knows
// nothing about audio beyond its technical parameters, and it cannot
// open unsupported files.
func SystemInstruction(att domain.AttachmentContext) string {
	switch att.Kind {
	case domain.AttachmentImage:
		return "К сообщению приложено изображение, и оно тебе видно. Анализируй его содержимое напрямую и отвечай по существу."
	case domain.AttachmentAudio:
		return audioInstruction(att.Audio)
	case domain.AttachmentOtherFile:
		name := att.FileName
		if name == "" {
			name = "без имени"
		}
		return fmt.Sprintf("Пользователь приложил файл «%s» (тип: %s). Заглянуть внутрь этого файла ты не можешь — честно скажи об этом и предложи, чем можешь помочь иначе.", name, att.FileType)
	default:
		return ""
	}
}

func audioInstruction(sum *domain.AudioSummary) string {
	base := "К сообщению приложен аудиофайл. Тебе доступны только его технические параметры, не содержание записи. Не утверждай, что слышал запись, и не оценивай музыку или речь по содержанию."
	if sum == nil {
		return base
	}
	if sum.Error != "" {
		return base + fmt.Sprintf(" Анализ файла не удался: %s.", sum.Error)
	}
	if sum.SampleRate == 0 {
		return base + fmt.Sprintf(" Формат: %s, размер: %.2f КБ.", sum.Format, sum.SizeKB)
	}
	return base + fmt.Sprintf(
		" Параметры: длительность %.2f с, частота %d Гц, каналы: %s, разрядность %d бит, пиковый уровень %.2f, средний уровень %.2f.",
		sum.Duration, sum.SampleRate, sum.Channels, sum.BitDepth, sum.PeakLevel, sum.AvgLevel,
	)
}

// FlattenPrompt folds the trailing window of prior turns and the new
// user message into a single raw completion prompt, ending with the
// assistant cue. Turn order is preserved exactly as received.
func FlattenPrompt(history []domain.ChatTurn, message string) string {
	var b strings.Builder
	for _, t := range domain.Window(history, config.WindowFlat) {
		label := config.LabelAssistant
		if t.Role == domain.RoleUser {
			label = config.LabelUser
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s: %s\n%s:", config.LabelUser, message, config.LabelAssistant)
	return b.String()
}

// BuildMessages assembles the ordered message list for providers that
// accept structured turns: system block first, then the trailing
// window of prior turns, then the new user turn.
func BuildMessages(system string, history []domain.ChatTurn, user domain.ChatTurn) []domain.ChatTurn {
	window := domain.Window(history, config.WindowStructured)
	messages := make([]domain.ChatTurn, 0, len(window)+2)
	if system != "" {
		messages = append(messages, domain.ChatTurn{Role: domain.RoleSystem, Content: system})
	}
	messages = append(messages, window...)
	return append(messages, user)
}

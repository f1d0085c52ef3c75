package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/domain"
	"github.com/vanek-ai/backend/internal/service"
)

func postJSON(t *testing.T, handlerFunc http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	w := httptest.NewRecorder()
	handlerFunc(w, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b)))
	return w
}

func TestAIChatFallbackAlways200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := New(Deps{Cfg: &config.Config{}, Completion: service.NewCompletionService(srv.URL)})
	w := postJSON(t, h.AIChat, "/api/ai-chat", map[string]string{"message": "привет"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on provider failure, got %d", w.Code)
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["response"] == "" {
		t.Error("Fallback reply must not be empty")
	}
}

func TestAIChatEmptyMessageNoOutboundCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	h := New(Deps{Cfg: &config.Config{}, Completion: service.NewCompletionService(srv.URL)})

	for _, msg := range []string{"", "   ", "\n\t"} {
		w := postJSON(t, h.AIChat, "/api/ai-chat", map[string]string{"message": msg})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Message %q: expected 400, got %d", msg, w.Code)
		}
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("Expected no provider calls, got %d", n)
	}
}

func TestAIChatMethodNotAllowed(t *testing.T) {
	h := New(Deps{Cfg: &config.Config{}})

	w := httptest.NewRecorder()
	h.AIChat(w, httptest.NewRequest(http.MethodGet, "/api/ai-chat", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["error"] != "Method not allowed" {
		t.Errorf("Unexpected error body: %v", resp)
	}
}

func TestAIChatPreflight(t *testing.T) {
	h := New(Deps{Cfg: &config.Config{}})

	w := httptest.NewRecorder()
	h.AIChat(w, httptest.NewRequest(http.MethodOptions, "/api/ai-chat", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Errorf("Unexpected allowed methods: %q", got)
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	h := New(Deps{Cfg: &config.Config{}})

	w := postJSON(t, h.Chat, "/api/chat", map[string]string{"message": "привет"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not configured") {
		t.Errorf("Expected configuration error, got %s", w.Body.String())
	}
}

func TestChatRequiresMessageOrFile(t *testing.T) {
	h := New(Deps{Cfg: &config.Config{OpenAIKey: "k"}})

	w := postJSON(t, h.Chat, "/api/chat", map[string]string{"message": "  "})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestResolveAttachmentImageUpload(t *testing.T) {
	message, att := resolveAttachment(chatRequest{
		Message:  "что на фото?",
		File:     "aGVsbG8=",
		FileType: "image/png",
		FileName: "cat.png",
	})

	if att.Kind != domain.AttachmentImage {
		t.Fatalf("Expected image attachment, got %v", att.Kind)
	}
	if att.ImageRef != "data:image/png;base64,aGVsbG8=" {
		t.Errorf("Unexpected image ref: %q", att.ImageRef)
	}
	if message != "что на фото?" {
		t.Errorf("Message should be untouched, got %q", message)
	}
}

func TestResolveAttachmentAudioUpload(t *testing.T) {
	_, att := resolveAttachment(chatRequest{
		Message:  "что это?",
		File:     base64.StdEncoding.EncodeToString([]byte("not a wav")),
		FileType: "audio/mpeg",
		FileName: "song.mp3",
	})

	if att.Kind != domain.AttachmentAudio {
		t.Fatalf("Expected audio attachment, got %v", att.Kind)
	}
	if att.Audio == nil || att.Audio.Format != "audio/mpeg" {
		t.Errorf("Expected analyzed summary, got %+v", att.Audio)
	}
}

func TestResolveAttachmentTextFileInlined(t *testing.T) {
	content := "построчное содержимое файла"
	message, att := resolveAttachment(chatRequest{
		Message:  "глянь файл",
		File:     base64.StdEncoding.EncodeToString([]byte(content)),
		FileType: "text/plain",
		FileName: "notes.txt",
	})

	if att.Kind != domain.AttachmentNone {
		t.Errorf("Inlined file should leave attachment state empty, got %v", att.Kind)
	}
	if !strings.Contains(message, "Содержимое файла:") || !strings.Contains(message, content) {
		t.Errorf("File content should be inlined, got %q", message)
	}
}

func TestResolveAttachmentInlineCapped(t *testing.T) {
	big := strings.Repeat("x", config.MaxInlineFileBytes*2)
	message, _ := resolveAttachment(chatRequest{
		Message:  "глянь",
		File:     base64.StdEncoding.EncodeToString([]byte(big)),
		FileType: "text/plain",
	})

	if len(message) > config.MaxInlineFileBytes+100 {
		t.Errorf("Inlined content should be capped, message is %d bytes", len(message))
	}
}

func TestResolveAttachmentMarkerClassification(t *testing.T) {
	msg := config.AttachmentMarker + " аудио: voice.ogg, проанализировано] оцени запись"
	sum := &domain.AudioSummary{SampleRate: 48000}

	_, att := resolveAttachment(chatRequest{Message: msg, AudioAnalysis: sum})

	if att.Kind != domain.AttachmentAudio || att.Audio != sum {
		t.Errorf("Expected marker-classified audio state, got %+v", att)
	}
}

func TestAIImageReturnsURL(t *testing.T) {
	h := New(Deps{Cfg: &config.Config{}, Imagen: service.NewImageService("https://img.example/prompt")})

	w := postJSON(t, h.AIImage, "/api/ai-image", map[string]string{"prompt": "red fox"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if !strings.HasPrefix(resp["imageUrl"], "https://img.example/prompt/") {
		t.Errorf("Unexpected image URL: %q", resp["imageUrl"])
	}
}

func TestAIImagePromptRequired(t *testing.T) {
	h := New(Deps{Cfg: &config.Config{}, Imagen: service.NewImageService("https://img.example/prompt")})

	w := postJSON(t, h.AIImage, "/api/ai-image", map[string]string{"prompt": " "})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

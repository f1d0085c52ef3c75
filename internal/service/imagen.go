package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vanek-ai/backend/internal/config"
	"github.com/vanek-ai/backend/internal/domain"
	"github.com/vanek-ai/backend/internal/metrics"
)

const (
	realismSuffix = "RAW photo, 8k uhd, dslr, soft lighting, high quality, film grain, Fujifilm XT3, photorealistic, masterpiece, best quality"

	negativeTerms = "(deformed iris, deformed pupils, semi-realistic, cgi, 3d, render, sketch, cartoon, drawing, anime:1.4), text, cropped, out of frame, worst quality, low quality, jpeg artifacts, ugly, duplicate, morbid, mutilated, extra fingers, mutated hands, poorly drawn hands, poorly drawn face, mutation, deformed, blurry, dehydrated, bad anatomy, bad proportions, extra limbs, cloned face, disfigured, gross proportions, malformed limbs, missing arms, missing legs, extra arms, extra legs, fused fingers, too many fingers, long neck"
)

// ImageService builds generation URLs for a pollinations-style image
// endpoint and optionally fetches the result as a data URL.
type ImageService struct {
	endpoint   string
	httpClient *http.Client
}

func NewImageService(endpoint string) *ImageService {
	return &ImageService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: config.ImageTimeout},
	}
}

// EnhancePrompt appends the fixed photorealism suffix and negative
// terms to the user's prompt.
func EnhancePrompt(prompt string) string {
	return fmt.Sprintf("%s, %s --negative %s", prompt, realismSuffix, negativeTerms)
}

// GenerateURL returns a direct generation URL without contacting the
// provider; the image is rendered when the client fetches it.
func (s *ImageService) GenerateURL(prompt string) string {
	return fmt.Sprintf("%s/%s?width=%d&height=%d&nologo=true&enhance=true",
		s.endpoint, url.PathEscape(EnhancePrompt(prompt)), config.ImageWidth, config.ImageHeight)
}

// GenerateBase64 fetches the rendered image once, within the image
// timeout, and returns it as a PNG data URL.
func (s *ImageService) GenerateBase64(ctx context.Context, prompt string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.GenerateURL(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrUpstream, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("imagegen").Inc()
		return "", fmt.Errorf("%w: fetch image: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderFailures.WithLabelValues("imagegen").Inc()
		return "", fmt.Errorf("%w: image provider status %d", domain.ErrUpstream, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderFailures.WithLabelValues("imagegen").Inc()
		return "", fmt.Errorf("%w: read image: %v", domain.ErrUpstream, err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

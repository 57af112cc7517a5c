package stylize

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"graf-doodle-server/modules/common/gemini"
	"graf-doodle-server/modules/encoder"
)

const enhanceInstruction = "Enhance the quality of this image by increasing its sharpness, clarity, and detail. Your output must be ONLY the enhanced image file. Do not change the content or composition. Do not add any text to your response."

// KeySource yields the credential that is active when an HD call is issued.
type KeySource interface {
	APIKey() string
}

// StaticKey is a KeySource that always returns the same key.
type StaticKey string

func (k StaticKey) APIKey() string { return string(k) }

// Config - 모델 식별자와 기본 키
type Config struct {
	DefaultAPIKey string
	Model         string
	HDModel       string
	HDImageSize   string
}

// Service talks to the remote image model. It never retries.
type Service struct {
	factory gemini.Factory
	cfg     Config
	hdKeys  KeySource
	logger  zerolog.Logger
}

func NewService(factory gemini.Factory, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		factory: factory,
		cfg:     cfg,
		hdKeys:  StaticKey(cfg.DefaultAPIKey),
		logger:  logger,
	}
}

// WithKeys returns a copy of the service whose HD calls use keys.
func (s *Service) WithKeys(keys KeySource) *Service {
	cp := *s
	if keys != nil {
		cp.hdKeys = keys
	}
	return &cp
}

// Enhance - 선명도/디테일 향상 (구도 변경 없음)
func (s *Service) Enhance(ctx context.Context, imageBase64, mimeType string) (encoder.Encoded, error) {
	resp, err := s.generate(ctx, OpEnhance, s.cfg.DefaultAPIKey, s.cfg.Model, imageBase64, mimeType, enhanceInstruction, nil)
	if err != nil {
		return encoder.Encoded{}, err
	}
	blob, err := extractImage(OpEnhance, resp)
	if err != nil {
		s.logger.Warn().Err(err).Msg("⚠️ [Stylize] enhancement returned no image")
		return encoder.Encoded{}, err
	}
	return encoder.Encoded{
		Base64:   base64.StdEncoding.EncodeToString(blob.Data),
		MIMEType: blob.MIMEType,
	}, nil
}

// Stylize - 프롬프트로 이미지 스타일 변환, data URI 반환
// hd=true uses the HD model, the HD image size and the key active at call time.
func (s *Service) Stylize(ctx context.Context, imageBase64, mimeType, prompt string, hd bool) (string, error) {
	op, model, apiKey := OpStylize, s.cfg.Model, s.cfg.DefaultAPIKey
	var config *genai.GenerateContentConfig
	if hd {
		op, model, apiKey = OpStylizeHD, s.cfg.HDModel, s.hdKeys.APIKey()
		config = &genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				ImageSize: s.cfg.HDImageSize,
			},
		}
	}

	resp, err := s.generate(ctx, op, apiKey, model, imageBase64, mimeType, prompt, config)
	if err != nil {
		return "", err
	}
	blob, err := extractImage(op, resp)
	if err != nil {
		s.logger.Warn().Err(err).Str("op", string(op)).Msg("⚠️ [Stylize] stylization returned no image")
		return "", err
	}
	return fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, base64.StdEncoding.EncodeToString(blob.Data)), nil
}

func (s *Service) generate(
	ctx context.Context,
	op Operation,
	apiKey string,
	model string,
	imageBase64 string,
	mimeType string,
	text string,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	imageData, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("decode %s input image: %w", op, err)
	}

	gen, err := s.factory.ForKey(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.subject(), err)
	}

	// 이미지 파트 먼저, 텍스트 지시문 다음
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			genai.NewPartFromText(text),
		},
	}

	s.logger.Info().
		Str("op", string(op)).
		Str("model", model).
		Int("image_bytes", len(imageData)).
		Int("prompt_chars", len(text)).
		Msg("🎨 [Stylize] calling Gemini")

	resp, err := gen.GenerateContent(ctx, model, []*genai.Content{content}, config)
	if err != nil {
		s.logger.Error().Err(err).Str("op", string(op)).Str("model", model).Msg("❌ [Stylize] Gemini API error")
		return nil, err
	}
	return resp, nil
}

// extractImage - 응답 분류 후 첫 번째 inline 이미지 반환
func extractImage(op Operation, resp *genai.GenerateContentResponse) (*genai.Blob, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &BlockedError{Op: op, Reason: string(resp.PromptFeedback.BlockReason)}
		}
		return nil, &EmptyResponseError{Op: op}
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonOther:
		return nil, &GenerationFailedError{Op: op, Reason: string(candidate.FinishReason)}
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData, nil
			}
		}
	}

	return nil, &NoImageReturnedError{Op: op, Text: responseText(candidate)}
}

func responseText(candidate *genai.Candidate) string {
	if candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

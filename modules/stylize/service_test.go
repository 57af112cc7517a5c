package stylize

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"graf-doodle-server/modules/common/gemini"
)

type call struct {
	apiKey   string
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeGenerator struct {
	key   string
	calls *[]call
	resp  *genai.GenerateContentResponse
	err   error
}

func (g fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	*g.calls = append(*g.calls, call{apiKey: g.key, model: model, contents: contents, config: config})
	return g.resp, g.err
}

type fakeFactory struct {
	calls []call
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeFactory) ForKey(ctx context.Context, apiKey string) (gemini.Generator, error) {
	return fakeGenerator{key: apiKey, calls: &f.calls, resp: f.resp, err: f.err}, nil
}

var inputB64 = base64.StdEncoding.EncodeToString([]byte("input-image"))

func newTestService(f *fakeFactory) *Service {
	return NewService(f, Config{
		DefaultAPIKey: "default-key",
		Model:         "gemini-2.5-flash-image",
		HDModel:       "gemini-3-pro-image-preview",
		HDImageSize:   "2K",
	}, zerolog.Nop())
}

func imageResponse(mime string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: mime, Data: data}},
				{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("second")}},
			}},
		}},
	}
}

func TestStylizeStandard(t *testing.T) {
	f := &fakeFactory{resp: imageResponse("image/png", []byte("out"))}
	s := newTestService(f)

	got, err := s.Stylize(context.Background(), inputB64, "image/jpeg", "make it graffiti", false)
	if err != nil {
		t.Fatalf("Stylize() error = %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("out"))
	if got != want {
		t.Errorf("Stylize() = %q, want %q", got, want)
	}

	if len(f.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(f.calls))
	}
	c := f.calls[0]
	if c.model != "gemini-2.5-flash-image" || c.apiKey != "default-key" {
		t.Errorf("model/key = %q/%q", c.model, c.apiKey)
	}
	if c.config != nil {
		t.Errorf("standard call sent config %+v", c.config)
	}
	parts := c.contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if parts[0].InlineData == nil || string(parts[0].InlineData.Data) != "input-image" || parts[0].InlineData.MIMEType != "image/jpeg" {
		t.Errorf("first part = %+v, want inline input image", parts[0])
	}
	if parts[1].Text != "make it graffiti" {
		t.Errorf("second part text = %q", parts[1].Text)
	}
}

func TestStylizeHDUsesHDModelSizeAndActiveKey(t *testing.T) {
	f := &fakeFactory{resp: imageResponse("image/png", []byte("hd"))}
	s := newTestService(f).WithKeys(StaticKey("user-key"))

	if _, err := s.Stylize(context.Background(), inputB64, "image/png", "p", true); err != nil {
		t.Fatalf("Stylize(hd) error = %v", err)
	}
	c := f.calls[0]
	if c.model != "gemini-3-pro-image-preview" {
		t.Errorf("model = %q", c.model)
	}
	if c.apiKey != "user-key" {
		t.Errorf("apiKey = %q, want user-key", c.apiKey)
	}
	if c.config == nil || c.config.ImageConfig == nil || c.config.ImageConfig.ImageSize != "2K" {
		t.Errorf("config = %+v, want ImageSize 2K", c.config)
	}
}

func TestStylizeHDWithoutSelectedKeyUsesDefault(t *testing.T) {
	f := &fakeFactory{resp: imageResponse("image/png", []byte("hd"))}
	if _, err := newTestService(f).Stylize(context.Background(), inputB64, "image/png", "p", true); err != nil {
		t.Fatalf("Stylize(hd) error = %v", err)
	}
	if f.calls[0].apiKey != "default-key" {
		t.Errorf("apiKey = %q, want default-key", f.calls[0].apiKey)
	}
}

func TestEnhance(t *testing.T) {
	f := &fakeFactory{resp: imageResponse("image/webp", []byte("sharp"))}
	got, err := newTestService(f).Enhance(context.Background(), inputB64, "image/png")
	if err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	if got.MIMEType != "image/webp" || got.Base64 != base64.StdEncoding.EncodeToString([]byte("sharp")) {
		t.Errorf("Enhance() = %+v", got)
	}
	c := f.calls[0]
	if c.model != "gemini-2.5-flash-image" || c.apiKey != "default-key" {
		t.Errorf("model/key = %q/%q", c.model, c.apiKey)
	}
	if c.contents[0].Parts[1].Text != enhanceInstruction {
		t.Errorf("instruction = %q", c.contents[0].Parts[1].Text)
	}
}

func TestResponseClassification(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		check   func(t *testing.T, err error)
		wantMsg string
	}{
		{
			name: "blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			check: func(t *testing.T, err error) {
				var e *BlockedError
				if !errors.As(err, &e) || e.Reason != "SAFETY" {
					t.Errorf("error = %v, want BlockedError(SAFETY)", err)
				}
			},
			wantMsg: "Image stylization was blocked for safety reasons: SAFETY",
		},
		{
			name: "empty",
			resp: &genai.GenerateContentResponse{},
			check: func(t *testing.T, err error) {
				var e *EmptyResponseError
				if !errors.As(err, &e) {
					t.Errorf("error = %v, want EmptyResponseError", err)
				}
			},
			wantMsg: "Image stylization failed: The model did not return a valid response.",
		},
		{
			name: "safety finish with image still fails",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
				Content:      &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("x")}}}},
			}}},
			check: func(t *testing.T, err error) {
				var e *GenerationFailedError
				if !errors.As(err, &e) || e.Reason != "SAFETY" {
					t.Errorf("error = %v, want GenerationFailedError(SAFETY)", err)
				}
			},
			wantMsg: "Image stylization failed. Reason: SAFETY.",
		},
		{
			name: "recitation",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonRecitation}}},
			check: func(t *testing.T, err error) {
				var e *GenerationFailedError
				if !errors.As(err, &e) || e.Reason != "RECITATION" {
					t.Errorf("error = %v, want GenerationFailedError(RECITATION)", err)
				}
			},
			wantMsg: "Image stylization failed. Reason: RECITATION.",
		},
		{
			name: "text only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonStop,
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "  I cannot edit photos of people. "}}},
			}}},
			check: func(t *testing.T, err error) {
				var e *NoImageReturnedError
				if !errors.As(err, &e) || e.Text != "I cannot edit photos of people." {
					t.Errorf("error = %v, want NoImageReturnedError with text", err)
				}
			},
			wantMsg: `No image was generated. The model might have returned a text-only response. Model response: "I cannot edit photos of people."`,
		},
		{
			name: "no content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
			check: func(t *testing.T, err error) {
				var e *NoImageReturnedError
				if !errors.As(err, &e) {
					t.Errorf("error = %v, want NoImageReturnedError", err)
				}
			},
			wantMsg: "No image was generated. The model might have returned a text-only response.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFactory{resp: tt.resp}
			_, err := newTestService(f).Stylize(context.Background(), inputB64, "image/png", "p", false)
			if err == nil {
				t.Fatal("Stylize() error = nil")
			}
			tt.check(t, err)
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestEnhanceMessages(t *testing.T) {
	f := &fakeFactory{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: "nope"}}},
	}}}}
	_, err := newTestService(f).Enhance(context.Background(), inputB64, "image/png")
	want := `Failed to enhance image. The model did not return an image. Model response: "nope"`
	if err == nil || err.Error() != want {
		t.Fatalf("Enhance() error = %v, want %q", err, want)
	}

	f.resp = &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonOther}}}
	_, err = newTestService(f).Enhance(context.Background(), inputB64, "image/png")
	if err == nil || err.Error() != "Image enhancement failed. Reason: OTHER." {
		t.Fatalf("Enhance() error = %v", err)
	}
}

func TestProviderErrorPassesThrough(t *testing.T) {
	boom := errors.New("Requested entity was not found.")
	f := &fakeFactory{err: boom}
	_, err := newTestService(f).Stylize(context.Background(), inputB64, "image/png", "p", true)
	if !errors.Is(err, boom) {
		t.Fatalf("Stylize() error = %v, want %v", err, boom)
	}
	if !gemini.IsEntityNotFound(err) {
		t.Error("IsEntityNotFound(err) = false")
	}
}

func TestInvalidInputPayload(t *testing.T) {
	f := &fakeFactory{}
	_, err := newTestService(f).Stylize(context.Background(), "%%%not-base64", "image/png", "p", false)
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("Stylize() error = %v, want decode error", err)
	}
	if len(f.calls) != 0 {
		t.Error("remote call issued for an undecodable payload")
	}
}

package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Generator is the part of *genai.Models the services call.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Factory hands out a Generator bound to an API key.
type Factory interface {
	ForKey(ctx context.Context, apiKey string) (Generator, error)
}

// Options - genai 클라이언트 생성 설정
type Options struct {
	Backend  string // "gemini" or "vertex"
	Project  string
	Location string
	Logger   zerolog.Logger
}

// ClientFactory creates one genai client per API key and reuses it.
type ClientFactory struct {
	opts    Options
	mu      sync.Mutex
	clients map[string]*genai.Client
}

func NewClientFactory(opts Options) *ClientFactory {
	return &ClientFactory{
		opts:    opts,
		clients: make(map[string]*genai.Client),
	}
}

// ForKey - API 키별 클라이언트 조회 (없으면 생성)
func (f *ClientFactory) ForKey(ctx context.Context, apiKey string) (Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	cacheKey := apiKey
	if f.opts.Backend == "vertex" {
		// Vertex는 ADC를 사용하므로 키와 무관하게 하나의 클라이언트
		cacheKey = "vertex"
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[cacheKey]; ok {
		return c.Models, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if f.opts.Backend == "vertex" {
		cfg = &genai.ClientConfig{
			Project:  f.opts.Project,
			Location: f.opts.Location,
			Backend:  genai.BackendVertexAI,
		}
	} else if apiKey == "" {
		return nil, fmt.Errorf("no API key available")
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	f.clients[cacheKey] = client

	f.opts.Logger.Info().
		Str("backend", f.opts.Backend).
		Int("cached_clients", len(f.clients)).
		Msg("✅ [Gemini] client initialized")
	return client.Models, nil
}

// IsEntityNotFound - 선택된 키가 모델에 접근할 수 없을 때 Gemini가 돌려주는 에러인지 확인
func IsEntityNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Requested entity was not found")
}

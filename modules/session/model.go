package session

import (
	"time"

	"graf-doodle-server/modules/encoder"
	"graf-doodle-server/modules/prompt"
)

// Phase is the observable session state.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseConfiguring Phase = "configuring"
	PhaseResult      Phase = "result"
)

// state is closed over idle, configuring and result.
// A result without an image cannot be constructed.
type state interface {
	phase() Phase
}

type idle struct{}

type configuring struct {
	image encoder.Encoded
}

type result struct {
	image  encoder.Encoded
	result string
}

func (idle) phase() Phase        { return PhaseIdle }
func (configuring) phase() Phase { return PhaseConfiguring }
func (result) phase() Phase      { return PhaseResult }

// Settings - 사용자가 편집하는 값 (프롬프트, 스타일, 수정자, 화질 향상 토글)
type Settings struct {
	StyleID        string           `json:"selectedStyle"`
	Prompt         string           `json:"prompt"`
	Modifiers      prompt.Modifiers `json:"modifiers"`
	EnhanceQuality bool             `json:"enhanceQuality"`
}

// SettingsPatch is a partial edit. Nil fields are left unchanged.
type SettingsPatch struct {
	Prompt         *string `json:"prompt,omitempty"`
	Intensity      *int    `json:"intensity,omitempty"`
	Engagement     *int    `json:"engagement,omitempty"`
	DripLevel      *int    `json:"dripLevel,omitempty"`
	PaletteID      *string `json:"colorPalette,omitempty"`
	GraffitiText   *string `json:"graffitiText,omitempty"`
	BackgroundText *string `json:"backgroundPrompt,omitempty"`
	EnhanceQuality *bool   `json:"enhanceQuality,omitempty"`
}

// Snapshot - 세션 상태 JSON 응답
type Snapshot struct {
	ID             string    `json:"sessionId"`
	Phase          Phase     `json:"phase"`
	Image          string    `json:"image,omitempty"`
	Result         string    `json:"result,omitempty"`
	Settings       Settings  `json:"settings"`
	ComposedPrompt string    `json:"composedPrompt"`
	IsLoading      bool      `json:"isLoading"`
	IsHDLoading    bool      `json:"isHDLoading"`
	LoadingMessage string    `json:"loadingMessage"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivity   time.Time `json:"lastActivity"`
}

// Download is a file the client should save.
type Download struct {
	Filename string `json:"filename"`
	DataURI  string `json:"dataUri"`
}

const (
	ResultFilename   = "stylized-image.png"
	HDResultFilename = "stylized-image-HD.png"
)

// Event - WebSocket 구독자에게 보내는 진행 상황
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Phase     Phase  `json:"phase,omitempty"`
	Message   string `json:"message,omitempty"`
}

const (
	EventPhaseChanged = "phase_changed"
	EventLoading      = "loading"
	EventError        = "error"
	EventHDReady      = "hd_ready"
)

package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"graf-doodle-server/modules/catalog"
	"graf-doodle-server/modules/common/gemini"
	"graf-doodle-server/modules/encoder"
	"graf-doodle-server/modules/gallery"
	"graf-doodle-server/modules/prompt"
	"graf-doodle-server/modules/stylize"
)

const (
	loadingPreparing = "Preparing to stylize..."
	loadingEnhancing = "Enhancing image quality (Step 1/2)..."
	loadingApplying  = "Applying graffiti style (Step 2/2)..."
	loadingStylizing = "Stylizing your image..."
)

// Stylizer is the remote image model as the session uses it.
type Stylizer interface {
	Enhance(ctx context.Context, imageBase64, mimeType string) (encoder.Encoded, error)
	Stylize(ctx context.Context, imageBase64, mimeType, prompt string, hd bool) (string, error)
}

// StylizerFor returns a Stylizer whose HD calls use keys.
type StylizerFor func(keys stylize.KeySource) Stylizer

// Notifier receives progress events. Publish must not block.
type Notifier interface {
	Publish(ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

// Deps - 세션이 공유하는 의존성
type Deps struct {
	Stylizers     StylizerFor
	Gallery       *gallery.History
	Encoder       *encoder.Encoder
	DefaultAPIKey string
	Notifier      Notifier
	Logger        zerolog.Logger
}

// Session is one client's stylizer workflow.
type Session struct {
	id    string
	deps  Deps
	creds *Credentials

	mu             sync.Mutex
	state          state
	settings       Settings
	busy           bool
	hdBusy         bool
	loadingMessage string
	lastError      string
	// epoch changes on upload and restart; completions from an older epoch are dropped.
	epoch        uint64
	// hdEpoch identifies the HD call that owns hdBusy.
	hdEpoch      uint64
	createdAt    time.Time
	lastActivity time.Time
}

func newSession(id string, deps Deps, now time.Time) *Session {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Encoder == nil {
		deps.Encoder = encoder.New(0)
	}
	deps.Logger = deps.Logger.With().Str("session", id).Logger()

	return &Session{
		id:             id,
		deps:           deps,
		creds:          NewCredentials(deps.DefaultAPIKey),
		state:          idle{},
		settings:       defaultSettings(),
		loadingMessage: loadingStylizing,
		createdAt:      now,
		lastActivity:   now,
	}
}

func defaultSettings() Settings {
	preset := catalog.DefaultPreset()
	return Settings{
		StyleID:   preset.ID,
		Prompt:    preset.Prompt,
		Modifiers: prompt.FromDefaults(preset.Defaults),
	}
}

func (s *Session) ID() string { return s.id }

// Credentials returns the session's HD key selection.
func (s *Session) Credentials() *Credentials { return s.creds }

// Upload - 이미지 교체, 결과 폐기 후 Configuring
func (s *Session) Upload(img encoder.Encoded) error {
	if img.Base64 == "" {
		return s.failUpload(&encoder.DecodeError{})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.epoch++
	s.state = configuring{image: img}
	s.busy = false
	s.loadingMessage = loadingStylizing
	s.lastError = ""
	s.publish(Event{Type: EventPhaseChanged})

	s.deps.Logger.Info().Str("mime", img.MIMEType).Int("base64_chars", len(img.Base64)).Msg("📷 [Session] image uploaded")
	return nil
}

// UploadFile reads and encodes r before uploading it.
func (s *Session) UploadFile(r io.Reader, declaredType string) error {
	img, err := s.deps.Encoder.Encode(r, declaredType)
	if err != nil {
		return s.failUpload(err)
	}
	return s.Upload(img)
}

// UploadDataURI uploads an already encoded data URI.
func (s *Session) UploadDataURI(uri string) error {
	img, err := encoder.ParseDataURI(uri)
	if err != nil {
		return s.failUpload(err)
	}
	return s.Upload(img)
}

func (s *Session) failUpload(cause error) error {
	err := &UploadError{Err: cause}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.lastError = err.Error()
	s.publish(Event{Type: EventError, Message: err.Error()})
	s.deps.Logger.Warn().Err(cause).Msg("⚠️ [Session] upload failed")
	return err
}

// SelectStyle - 프리셋 선택, 수정자와 프롬프트를 프리셋 기본값으로 초기화
// Graffiti and background text are kept.
func (s *Session) SelectStyle(id string) error {
	preset, ok := catalog.FindPreset(id)
	if !ok {
		return styleError(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.settings.StyleID = preset.ID
	s.settings.Prompt = preset.Prompt
	s.settings.Modifiers.Intensity = preset.Defaults.Intensity
	s.settings.Modifiers.Engagement = preset.Defaults.Engagement
	s.settings.Modifiers.DripLevel = preset.Defaults.DripLevel
	s.settings.Modifiers.PaletteID = preset.Defaults.PaletteID
	return nil
}

// UpdateSettings applies patch when the resulting modifiers validate.
func (s *Session) UpdateSettings(patch SettingsPatch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if patch.Prompt != nil {
		next.Prompt = *patch.Prompt
	}
	if patch.Intensity != nil {
		next.Modifiers.Intensity = *patch.Intensity
	}
	if patch.Engagement != nil {
		next.Modifiers.Engagement = *patch.Engagement
	}
	if patch.DripLevel != nil {
		next.Modifiers.DripLevel = *patch.DripLevel
	}
	if patch.PaletteID != nil {
		next.Modifiers.PaletteID = *patch.PaletteID
	}
	if patch.GraffitiText != nil {
		next.Modifiers.GraffitiText = *patch.GraffitiText
	}
	if patch.BackgroundText != nil {
		next.Modifiers.BackgroundText = *patch.BackgroundText
	}
	if patch.EnhanceQuality != nil {
		next.EnhanceQuality = *patch.EnhanceQuality
	}

	if err := next.Modifiers.Validate(); err != nil {
		return s.settings, err
	}

	s.touch()
	s.settings = next
	return next, nil
}

// ComposedPrompt is the prompt a generate call would send now.
func (s *Session) ComposedPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return prompt.Compose(s.settings.Prompt, s.settings.Modifiers)
}

// Generate - 표준 스타일 변환 (선택 시 화질 향상 먼저)
// On success the session shows the result and the gallery gets it first.
func (s *Session) Generate(ctx context.Context) (string, error) {
	s.mu.Lock()
	img, ok := s.image()
	if !ok {
		s.mu.Unlock()
		return "", ErrNoImage
	}
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.touch()
	s.busy = true
	s.lastError = ""
	epoch := s.epoch
	enhance := s.settings.EnhanceQuality
	finalPrompt := prompt.Compose(s.settings.Prompt, s.settings.Modifiers)
	s.setLoading(loadingPreparing)
	s.mu.Unlock()

	s.deps.Logger.Info().Bool("enhance", enhance).Msg("🎨 [Session] generate started")

	stylizer := s.deps.Stylizers(s.creds)
	source := img
	if enhance {
		s.progress(epoch, loadingEnhancing)
		enhanced, err := stylizer.Enhance(ctx, img.Base64, img.MIMEType)
		if err != nil {
			return "", s.finishGenerate(ctx, epoch, img, "", err)
		}
		source = enhanced
		s.progress(epoch, loadingApplying)
	} else {
		s.progress(epoch, loadingStylizing)
	}

	out, err := stylizer.Stylize(ctx, source.Base64, source.MIMEType, finalPrompt, false)
	if err := s.finishGenerate(ctx, epoch, img, out, err); err != nil {
		return "", err
	}
	return out, nil
}

func (s *Session) finishGenerate(ctx context.Context, epoch uint64, img encoder.Encoded, out string, genErr error) error {
	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		s.deps.Logger.Info().Err(genErr).Msg("🗑️ [Session] discarding result of a reset session")
		return ErrStale
	}

	s.touch()
	s.busy = false
	s.loadingMessage = loadingStylizing
	if genErr != nil {
		s.lastError = genErr.Error()
		s.publish(Event{Type: EventError, Message: s.lastError})
		s.mu.Unlock()
		s.deps.Logger.Error().Err(genErr).Msg("❌ [Session] generate failed")
		return genErr
	}

	s.state = result{image: img, result: out}
	s.publish(Event{Type: EventPhaseChanged})
	s.mu.Unlock()

	if s.deps.Gallery != nil {
		s.deps.Gallery.Add(context.WithoutCancel(ctx), out)
	}
	s.deps.Logger.Info().Msg("✅ [Session] generate completed")
	return nil
}

// Redo - 결과 폐기, 같은 이미지와 설정으로 Configuring
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.state.(result)
	if !ok {
		return ErrNoResult
	}
	s.touch()
	s.state = configuring{image: r.image}
	s.lastError = ""
	s.publish(Event{Type: EventPhaseChanged})
	return nil
}

// Restart - 모든 상태를 pop-art 기본값으로 초기화 후 Idle
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
	s.epoch++
	s.state = idle{}
	s.settings = defaultSettings()
	s.busy = false
	s.hdBusy = false
	s.hdEpoch++
	s.loadingMessage = loadingStylizing
	s.lastError = ""
	s.publish(Event{Type: EventPhaseChanged})
}

// GenerateHD - HD 모델로 변환 후 다운로드 반환 (phase 변경 없음)
func (s *Session) GenerateHD(ctx context.Context, creds CredentialProvider) (Download, error) {
	s.mu.Lock()
	img, ok := s.image()
	if !ok {
		s.mu.Unlock()
		return Download{}, ErrNoImage
	}
	if s.hdBusy {
		s.mu.Unlock()
		return Download{}, ErrBusy
	}
	s.touch()
	s.hdBusy = true
	s.hdEpoch++
	s.lastError = ""
	epoch, hdEpoch := s.epoch, s.hdEpoch
	finalPrompt := prompt.Compose(s.settings.Prompt, s.settings.Modifiers)
	s.mu.Unlock()

	if creds == nil {
		creds = s.creds
	}

	out, err := s.stylizeHD(ctx, creds, img, finalPrompt)
	if err != nil && gemini.IsEntityNotFound(err) {
		err = &CredentialError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current := epoch == s.epoch
	if hdEpoch == s.hdEpoch {
		s.hdBusy = false
	}
	if current {
		s.touch()
	}
	if err != nil {
		if current {
			s.lastError = err.Error()
			s.publish(Event{Type: EventError, Message: s.lastError})
		}
		s.deps.Logger.Error().Err(err).Msg("❌ [Session] HD generate failed")
		return Download{}, err
	}

	s.publish(Event{Type: EventHDReady, Message: HDResultFilename})
	s.deps.Logger.Info().Msg("✅ [Session] HD generate completed")
	return Download{Filename: HDResultFilename, DataURI: out}, nil
}

func (s *Session) stylizeHD(ctx context.Context, creds CredentialProvider, img encoder.Encoded, finalPrompt string) (string, error) {
	has, err := creds.HasSelectedKey(ctx)
	if err != nil {
		return "", err
	}
	if !has {
		if err := creds.OpenSelectKey(ctx); err != nil {
			return "", err
		}
	}
	return s.deps.Stylizers(creds).Stylize(ctx, img.Base64, img.MIMEType, finalPrompt, true)
}

// Download - 현재 결과 이미지
func (s *Session) Download() (Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.state.(result)
	if !ok {
		return Download{}, ErrNoResult
	}
	return Download{Filename: ResultFilename, DataURI: r.result}, nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.phase()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		Phase:          s.state.phase(),
		Settings:       s.settings,
		ComposedPrompt: prompt.Compose(s.settings.Prompt, s.settings.Modifiers),
		IsLoading:      s.busy,
		IsHDLoading:    s.hdBusy,
		LoadingMessage: s.loadingMessage,
		Error:          s.lastError,
		CreatedAt:      s.createdAt,
		LastActivity:   s.lastActivity,
	}
	switch st := s.state.(type) {
	case configuring:
		snap.Image = st.image.DataURI()
	case result:
		snap.Image = st.image.DataURI()
		snap.Result = st.result
	}
	return snap
}

// busyAny reports whether a remote call is in flight.
func (s *Session) busyAny() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy || s.hdBusy
}

func (s *Session) activity() (createdAt, lastActivity time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createdAt, s.lastActivity
}

// image must be called with mu held.
func (s *Session) image() (encoder.Encoded, bool) {
	switch st := s.state.(type) {
	case configuring:
		return st.image, true
	case result:
		return st.image, true
	}
	return encoder.Encoded{}, false
}

func (s *Session) progress(epoch uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch == s.epoch {
		s.setLoading(msg)
	}
}

func (s *Session) setLoading(msg string) {
	s.loadingMessage = msg
	s.publish(Event{Type: EventLoading, Message: msg})
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

func (s *Session) publish(ev Event) {
	ev.SessionID = s.id
	if ev.Phase == "" {
		ev.Phase = s.state.phase()
	}
	s.deps.Notifier.Publish(ev)
}

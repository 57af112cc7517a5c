package session

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"graf-doodle-server/modules/encoder"
	"graf-doodle-server/modules/gallery"
	"graf-doodle-server/modules/stylize"
)

type stylizeCall struct {
	image  string
	mime   string
	prompt string
	hd     bool
	apiKey string
}

// fakeStylizer records calls. When gate is set, Stylize blocks until it is closed.
type fakeStylizer struct {
	mu           sync.Mutex
	enhanceCalls []stylizeCall
	stylizeCalls []stylizeCall

	enhanceResult encoder.Encoded
	enhanceErr    error
	result        string
	stylizeErr    error
	hdResult      string
	hdErr         error

	gate    chan struct{}
	started chan struct{}
}

func newFakeStylizer() *fakeStylizer {
	return &fakeStylizer{
		enhanceResult: encoder.Encoded{Base64: b64("sharper"), MIMEType: "image/png"},
		result:        "data:image/png;base64," + b64("stylized"),
		hdResult:      "data:image/png;base64," + b64("stylized-hd"),
	}
}

func (f *fakeStylizer) For(keys stylize.KeySource) Stylizer {
	return &boundStylizer{fake: f, keys: keys}
}

type boundStylizer struct {
	fake *fakeStylizer
	keys stylize.KeySource
}

func (b *boundStylizer) Enhance(ctx context.Context, imageBase64, mimeType string) (encoder.Encoded, error) {
	f := b.fake
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enhanceCalls = append(f.enhanceCalls, stylizeCall{image: imageBase64, mime: mimeType})
	return f.enhanceResult, f.enhanceErr
}

func (b *boundStylizer) Stylize(ctx context.Context, imageBase64, mimeType, prompt string, hd bool) (string, error) {
	f := b.fake
	call := stylizeCall{image: imageBase64, mime: mimeType, prompt: prompt, hd: hd}
	if hd {
		call.apiKey = b.keys.APIKey()
	}

	f.mu.Lock()
	f.stylizeCalls = append(f.stylizeCalls, call)
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if gate != nil && !hd {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if hd {
		return f.hdResult, f.hdErr
	}
	return f.result, f.stylizeErr
}

func (f *fakeStylizer) calls() []stylizeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stylizeCall(nil), f.stylizeCalls...)
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) messages(eventType string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		if ev.Type == eventType {
			out = append(out, ev.Message)
		}
	}
	return out
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

var photo = encoder.Encoded{Base64: b64("photo"), MIMEType: "image/jpeg"}

type fixture struct {
	session  *Session
	stylizer *fakeStylizer
	gallery  *gallery.History
	events   *recorder
}

func newFixture() *fixture {
	f := newFakeStylizer()
	g := gallery.Open(context.Background(), gallery.NewMemoryStore(), 20, zerolog.Nop())
	rec := &recorder{}
	s := newSession("test-session", Deps{
		Stylizers:     f.For,
		Gallery:       g,
		Encoder:       encoder.New(1 << 20),
		DefaultAPIKey: "default-key",
		Notifier:      rec,
		Logger:        zerolog.Nop(),
	}, time.Now())
	return &fixture{session: s, stylizer: f, gallery: g, events: rec}
}

// fakeCredentials is a CredentialProvider with scripted answers.
type fakeCredentials struct {
	has       bool
	hasErr    error
	openErr   error
	opened    int
	key       string
	keyOnOpen string
}

func (c *fakeCredentials) HasSelectedKey(ctx context.Context) (bool, error) {
	return c.has, c.hasErr
}

func (c *fakeCredentials) OpenSelectKey(ctx context.Context) error {
	c.opened++
	if c.openErr != nil {
		return c.openErr
	}
	if c.keyOnOpen != "" {
		c.key = c.keyOnOpen
		c.has = true
	}
	return nil
}

func (c *fakeCredentials) APIKey() string {
	return c.key
}

package prompt

import (
	"errors"
	"fmt"
	"strings"

	"graf-doodle-server/modules/catalog"
)

// Modifiers - 슬라이더/텍스트 입력으로 조정되는 프롬프트 수정자
type Modifiers struct {
	Intensity      int    `json:"intensity"`
	Engagement     int    `json:"engagement"`
	DripLevel      int    `json:"dripLevel"`
	PaletteID      string `json:"colorPalette"`
	GraffitiText   string `json:"graffitiText"`
	BackgroundText string `json:"backgroundPrompt"`
}

const (
	MinLevel = 1
	MaxLevel = 3
)

const (
	intensitySubtle  = " Make the graffiti effects subtle and minimal, like a few well-placed accents rather than a full takeover."
	intensityExtreme = " Make the graffiti effects extreme, dense, and chaotic, covering a large portion of the image with overlapping layers of art and color."

	engagementSeparate    = " The graffiti and doodles should exist purely in the background and not interact with the person. They should seem completely separate from the subject."
	engagementInteracting = " The graffiti and doodle creatures should look like they are actively engaging and interacting with the person. For example, a doodle character could be sitting on their shoulder, peeking from behind them, or paint drips could be originating from their hands or clothes."

	dripNone = " Avoid using any dripping paint effects for a cleaner look."
	dripLots = " Generously apply dripping paint effects throughout the image, on the graffiti, the background, and even on the person's clothes to give it a wet, fresh paint look."

	graffitiTextClause   = " Incorporate the following text into the artwork in a cool graffiti style: \"%s\"."
	backgroundTextClause = " Also, please change the background of the image entirely to: \"%s\". The person and the graffiti should remain, but placed in this new environment."
)

// FromDefaults builds modifiers from a preset's defaults with empty text fields.
func FromDefaults(d catalog.Defaults) Modifiers {
	return Modifiers{
		Intensity:  d.Intensity,
		Engagement: d.Engagement,
		DripLevel:  d.DripLevel,
		PaletteID:  d.PaletteID,
	}
}

// Compose - 기본 템플릿 + 수정자 규칙으로 최종 프롬프트 생성
// Clause order is fixed: intensity, engagement, drip, palette, text, background.
func Compose(base string, m Modifiers) string {
	var b strings.Builder
	b.WriteString(base)

	switch m.Intensity {
	case 1:
		b.WriteString(intensitySubtle)
	case 3:
		b.WriteString(intensityExtreme)
	}

	switch m.Engagement {
	case 1:
		b.WriteString(engagementSeparate)
	case 3:
		b.WriteString(engagementInteracting)
	}

	switch m.DripLevel {
	case 1:
		b.WriteString(dripNone)
	case 3:
		b.WriteString(dripLots)
	}

	// 팔레트가 없으면 아무것도 추가하지 않음
	if palette, ok := catalog.FindPalette(m.PaletteID); ok {
		b.WriteString(" ")
		b.WriteString(palette.Prompt)
	}

	if text := strings.TrimSpace(m.GraffitiText); text != "" {
		fmt.Fprintf(&b, graffitiTextClause, text)
	}

	if background := strings.TrimSpace(m.BackgroundText); background != "" {
		fmt.Fprintf(&b, backgroundTextClause, background)
	}

	return b.String()
}

// ValidationError reports a modifier outside its allowed domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks slider ranges and that the palette exists in the catalog.
func (m Modifiers) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value int
	}{
		{"intensity", m.Intensity},
		{"engagement", m.Engagement},
		{"dripLevel", m.DripLevel},
	} {
		if f.value < MinLevel || f.value > MaxLevel {
			errs = append(errs, &ValidationError{Field: f.name, Reason: fmt.Sprintf("%d is outside %d..%d", f.value, MinLevel, MaxLevel)})
		}
	}
	if _, ok := catalog.FindPalette(m.PaletteID); !ok {
		errs = append(errs, &ValidationError{Field: "colorPalette", Reason: fmt.Sprintf("unknown palette %q", m.PaletteID)})
	}
	return errors.Join(errs...)
}

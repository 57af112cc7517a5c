package catalog

// Defaults - 프리셋 선택 시 적용되는 모디파이어 기본값
type Defaults struct {
	Intensity  int    `json:"intensity"`
	Engagement int    `json:"engagement"`
	DripLevel  int    `json:"dripLevel"`
	PaletteID  string `json:"colorPalette"`
}

// StylePreset is a named bundle of a base prompt template and default modifiers.
type StylePreset struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Prompt      string   `json:"prompt"`
	Defaults    Defaults `json:"defaultParams"`
}

// Palette describes a color scheme and the sentence that asks the model for it.
type Palette struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
	Prompt string   `json:"prompt"`
}

// Preset ids
const (
	PopArt      = "pop-art"
	Stencil     = "stencil"
	Wildstyle   = "wildstyle"
	Tagging     = "tagging"
	DoodleWear  = "doodle-wear"
	StickerBomb = "sticker-bomb"
	CosmicFlow  = "cosmic-flow"
	GlitchArt   = "glitch-art"
	MeltingEyes = "melting-eyes"
)

// Palette ids
const (
	Vibrant      = "vibrant"
	Neon         = "neon"
	Monochrome   = "monochrome"
	Warm         = "warm"
	Cool         = "cool"
	Pastel       = "pastel"
	Earthy       = "earthy"
	Sunset       = "sunset"
	RetroWave    = "retro-wave"
	ForestSpirit = "forest-spirit"
	OceanicDeep  = "oceanic-deep"
	Cosmic       = "cosmic"
	Cyberpunk    = "cyberpunk"
)

// DefaultPresetID is selected on start and after a restart.
const DefaultPresetID = PopArt

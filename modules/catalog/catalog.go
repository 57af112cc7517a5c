package catalog

var presets = []StylePreset{
	{
		ID:          PopArt,
		Name:        "Pop Art",
		Description: "Bold, edgy, and cartoon-inspired. The classic stylizer.",
		Prompt:      "Please edit this photo by adding vibrant, cartoonish, graffiti-style illustrations over and around the person. The style should be bold, edgy, and pop-art inspired. Incorporate elements like dripping paint effects, abstract shapes, bold black outlines, and playful doodles. The art should seamlessly blend with the photo without completely obscuring the person. Do not change the person in the photo, only add art.",
		Defaults:    Defaults{Intensity: 2, Engagement: 2, DripLevel: 2, PaletteID: Vibrant},
	},
	{
		ID:          Stencil,
		Name:        "Stencil Art",
		Description: "Clean, high-contrast, layered look like spray-painted stencils.",
		Prompt:      "Please edit this photo in the style of clean, high-contrast stencil art. Use solid shapes and layered colors, as if created with spray paint and stencils. The art should feel graphic and impactful. The art should be added on top of and around the person without changing them.",
		Defaults:    Defaults{Intensity: 2, Engagement: 1, DripLevel: 1, PaletteID: Monochrome},
	},
	{
		ID:          Wildstyle,
		Name:        "Wildstyle",
		Description: "Complex, interlocking letters and abstract shapes. Energetic and chaotic.",
		Prompt:      "Please edit this photo by adding energetic 'Wildstyle' graffiti. The art should feature complex, interlocking, and abstract letterforms that are dense and dynamic, with arrows and spikes. The overall feeling should be chaotic and vibrant. The art should be added on top of and around the person without changing them.",
		Defaults:    Defaults{Intensity: 3, Engagement: 3, DripLevel: 3, PaletteID: Neon},
	},
	{
		ID:          Tagging,
		Name:        "Tagging",
		Description: "Focuses on stylized signatures and calligraphic text.",
		Prompt:      "Please edit this photo by adding graffiti 'tags'. The style should focus on fluid, stylized, calligraphic signatures and quick linework. The artwork should be more about the flow of text than complex illustrations. The art should be added on top of and around the person without changing them.",
		Defaults:    Defaults{Intensity: 1, Engagement: 1, DripLevel: 2, PaletteID: Vibrant},
	},
	{
		ID:          DoodleWear,
		Name:        "Doodle-wear",
		Description: "Draws art directly onto clothes, like a custom fabric print.",
		Prompt:      "Please edit this photo by drawing cartoonish illustrations exclusively on the clothing worn by the person. These illustrations should look like a seamless part of the fabric's design or print. Use bold, clean black outlines. IMPORTANT: Do NOT add any illustrations, doodles, text, or effects to the background, the person's skin, or any objects other than their clothes. The original photo, person, and background should remain unchanged, with the only modification being the new art on the clothing.",
		Defaults:    Defaults{Intensity: 2, Engagement: 1, DripLevel: 1, PaletteID: Vibrant},
	},
	{
		ID:          StickerBomb,
		Name:        "Sticker Bomb",
		Description: "Overlapping, chaotic layers of colorful stickers and decals.",
		Prompt:      "Please edit this photo by covering it in a 'sticker bomb' style. Add numerous, overlapping, colorful, and diverse graffiti-style stickers, decals, and logos on and around the person. The stickers should have bold outlines and a slightly worn, layered look. Do not change the person, only add the sticker art.",
		Defaults:    Defaults{Intensity: 3, Engagement: 3, DripLevel: 1, PaletteID: Vibrant},
	},
	{
		ID:          CosmicFlow,
		Name:        "Cosmic Flow",
		Description: "Ethereal swirls of nebulae, stars, and galactic patterns.",
		Prompt:      "Please edit this photo by infusing it with a 'cosmic flow' style. Weave ethereal, swirling nebulae, distant stars, and glowing galactic patterns around the person. The art should feel magical and celestial, using soft glows and transparent layers. Do not change the person, just embed them within this cosmic art.",
		Defaults:    Defaults{Intensity: 2, Engagement: 2, DripLevel: 1, PaletteID: Cosmic},
	},
	{
		ID:          GlitchArt,
		Name:        "Glitch Art",
		Description: "Digital distortion, pixelation, and futuristic datamosh effects.",
		Prompt:      "Please edit this photo by applying a 'glitch art' aesthetic. Introduce digital distortions like pixelation, RGB color shifts, scan lines, and datamoshing effects. The art should look like a futuristic, corrupted digital file, deconstructing parts of the image in a visually interesting way. Do not completely obscure the person.",
		Defaults:    Defaults{Intensity: 2, Engagement: 1, DripLevel: 1, PaletteID: Cyberpunk},
	},
	{
		ID:          MeltingEyes,
		Name:        "Melting Eyes",
		Description: "A psychedelic effect with rainbow colors dripping from the eyes.",
		Prompt:      "Please edit this photo to create a psychedelic 'melting eyes' effect. The person's eyes should appear to be melting and dripping down their face in vibrant, flowing rainbow colors. The effect should be artistic and trippy, but the rest of the person's face and the background should remain mostly unchanged and recognizable. The drips should be colorful and look like liquid paint.",
		Defaults:    Defaults{Intensity: 2, Engagement: 2, DripLevel: 3, PaletteID: Neon},
	},
}

var palettes = []Palette{
	{ID: Vibrant, Name: "Vibrant", Colors: []string{"#FF007F", "#00FFFF", "#39FF14"}, Prompt: "Use a bright, saturated color palette like hot pink, electric blue, and lime green."},
	{ID: Neon, Name: "Neon", Colors: []string{"#BF00FF", "#00E5FF", "#FDFD96"}, Prompt: "Use a glowing neon color palette with electric purple, cyan, and bright yellow."},
	{ID: Monochrome, Name: "Monochrome", Colors: []string{"#FFFFFF", "#808080", "#000000"}, Prompt: "Use a monochrome color palette, focusing on black, white, and shades of gray for a high-contrast look."},
	{ID: Warm, Name: "Warm Tones", Colors: []string{"#FF4500", "#FFD700", "#DC143C"}, Prompt: "Use a warm color palette with fiery reds, oranges, and yellows."},
	{ID: Cool, Name: "Cool Tones", Colors: []string{"#0000FF", "#008080", "#8A2BE2"}, Prompt: "Use a cool color palette with deep blues, teals, and purples."},
	{ID: Pastel, Name: "Pastel", Colors: []string{"#FFB6C1", "#C1FFC1", "#AEC6CF"}, Prompt: "Use a soft pastel color palette with gentle shades like baby pink, mint green, and light blue."},
	{ID: Earthy, Name: "Earthy", Colors: []string{"#8B4513", "#556B2F", "#F4A460"}, Prompt: "Use an earthy color palette with natural tones like terracotta brown, olive green, and sandy beige."},
	{ID: Sunset, Name: "Sunset", Colors: []string{"#FF4E50", "#FC913A", "#F9D423"}, Prompt: "Use a sunset-inspired color palette with a gradient of warm colors like vibrant red, deep orange, and golden yellow."},
	{ID: RetroWave, Name: "Retro Wave", Colors: []string{"#F92C86", "#05D9E8", "#2A1A5D"}, Prompt: "Use a retro 80s synthwave color palette, with bright magenta, cyan, and dark indigo."},
	{ID: ForestSpirit, Name: "Forest Spirit", Colors: []string{"#0A4F01", "#5A3A22", "#AEF3E7"}, Prompt: "Use an enchanted forest color palette, with deep greens, earthy browns, and a hint of magical glowing teal."},
	{ID: OceanicDeep, Name: "Oceanic Deep", Colors: []string{"#003B46", "#07575B", "#66A5AD"}, Prompt: "Use an oceanic color palette with shades of deep sea blue, teal, and hints of lighter cyan."},
	{ID: Cosmic, Name: "Cosmic", Colors: []string{"#4C0070", "#8E00B6", "#E400F9"}, Prompt: "Use a cosmic color palette with deep purples, glowing magenta, and electric violets."},
	{ID: Cyberpunk, Name: "Cyberpunk", Colors: []string{"#00F2FF", "#F900F9", "#3A0088"}, Prompt: "Use a cyberpunk color palette with glowing cyan, neon magenta, and deep electric purple."},
}

// Presets returns the style catalog in display order.
func Presets() []StylePreset {
	out := make([]StylePreset, len(presets))
	copy(out, presets)
	return out
}

// Palettes returns the palette catalog in display order.
func Palettes() []Palette {
	out := make([]Palette, len(palettes))
	for i, p := range palettes {
		p.Colors = append([]string(nil), p.Colors...)
		out[i] = p
	}
	return out
}

// FindPreset - id로 프리셋 조회
func FindPreset(id string) (StylePreset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return StylePreset{}, false
}

// FindPalette - id로 팔레트 조회
func FindPalette(id string) (Palette, bool) {
	for _, p := range palettes {
		if p.ID == id {
			p.Colors = append([]string(nil), p.Colors...)
			return p, true
		}
	}
	return Palette{}, false
}

// DefaultPreset returns the pop-art preset.
func DefaultPreset() StylePreset {
	p, _ := FindPreset(DefaultPresetID)
	return p
}

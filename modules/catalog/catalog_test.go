package catalog

import "testing"

func TestPresetDefaultsReferenceKnownPalettes(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Presets() {
		if seen[p.ID] {
			t.Errorf("duplicate preset id %q", p.ID)
		}
		seen[p.ID] = true
		if _, ok := FindPalette(p.Defaults.PaletteID); !ok {
			t.Errorf("preset %q references unknown palette %q", p.ID, p.Defaults.PaletteID)
		}
		for name, v := range map[string]int{
			"intensity":  p.Defaults.Intensity,
			"engagement": p.Defaults.Engagement,
			"dripLevel":  p.Defaults.DripLevel,
		} {
			if v < 1 || v > 3 {
				t.Errorf("preset %q %s = %d, want 1..3", p.ID, name, v)
			}
		}
	}
	if len(seen) != 9 {
		t.Errorf("preset count = %d, want 9", len(seen))
	}
}

func TestStencilDefaults(t *testing.T) {
	p, ok := FindPreset(Stencil)
	if !ok {
		t.Fatal("stencil preset missing")
	}
	want := Defaults{Intensity: 2, Engagement: 1, DripLevel: 1, PaletteID: Monochrome}
	if p.Defaults != want {
		t.Fatalf("stencil defaults = %+v, want %+v", p.Defaults, want)
	}
}

func TestDefaultPresetIsPopArt(t *testing.T) {
	p := DefaultPreset()
	if p.ID != PopArt || p.Defaults.PaletteID != Vibrant {
		t.Fatalf("DefaultPreset() = %q/%q", p.ID, p.Defaults.PaletteID)
	}
}

func TestLookupsMiss(t *testing.T) {
	if _, ok := FindPreset("banksy"); ok {
		t.Error("FindPreset(banksy) ok = true")
	}
	if _, ok := FindPalette("sepia"); ok {
		t.Error("FindPalette(sepia) ok = true")
	}
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	ps := Palettes()
	ps[0].Colors[0] = "#000000"
	ps[0].Prompt = "changed"

	again, _ := FindPalette(ps[0].ID)
	if again.Colors[0] == "#000000" || again.Prompt == "changed" {
		t.Fatal("mutating Palettes() result changed the catalog")
	}

	styles := Presets()
	styles[0].Prompt = "changed"
	if DefaultPreset().Prompt == "changed" {
		t.Fatal("mutating Presets() result changed the catalog")
	}
}

package catalog

import (
	"encoding/json"
	"net/http"
)

// HandleStyles - GET /api/styles
func HandleStyles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"styles":       Presets(),
		"defaultStyle": DefaultPresetID,
	})
}

// HandlePalettes - GET /api/palettes
func HandlePalettes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"palettes": Palettes(),
	})
}

package gallery

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	history *History
}

func NewHandler(history *History) *Handler {
	return &Handler{history: history}
}

// HandleList - GET /api/gallery
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	items := h.history.Items()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items": items,
		"count": len(items),
		"cap":   h.history.Cap(),
	})
}

// HandleClear - DELETE /api/gallery
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.history.Clear(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to clear gallery"})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items": []string{},
		"count": 0,
	})
}

package gallery

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultCap is the number of results kept when no cap is configured.
const DefaultCap = 20

// History is the most-recent-first list of generated results.
// Every mutation writes the whole list back to the store.
type History struct {
	mu     sync.Mutex
	items  []string
	cap    int
	store  Store
	logger zerolog.Logger
}

// Open - 저장소에서 갤러리를 한 번 읽어옴
// A missing slot yields an empty history. A slot that does not decode is
// cleared and the history starts empty. Lists longer than capacity are trimmed.
func Open(ctx context.Context, store Store, capacity int, logger zerolog.Logger) *History {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	h := &History{
		cap:    capacity,
		store:  store,
		logger: logger,
	}

	data, err := store.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("❌ [Gallery] failed to load gallery, starting empty")
		return h
	}
	if len(data) == 0 {
		return h
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn().Err(err).Msg("⚠️ [Gallery] stored gallery is corrupt, clearing slot")
		if err := store.Clear(ctx); err != nil {
			logger.Error().Err(err).Msg("❌ [Gallery] failed to clear corrupt slot")
		}
		return h
	}

	// null and "" decode to empty entries
	kept := items[:0]
	for _, item := range items {
		if item != "" {
			kept = append(kept, item)
		}
	}
	items = kept

	if len(items) > capacity {
		items = items[:capacity]
	}
	h.items = items
	logger.Info().Int("items", len(items)).Msg("📚 [Gallery] loaded")
	return h
}

// Add - 맨 앞에 추가, 용량 초과분은 버림
// A failed write is logged; the in-memory list keeps the new entry.
func (h *History) Add(ctx context.Context, dataURI string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := make([]string, 0, h.cap)
	items = append(items, dataURI)
	items = append(items, h.items...)
	if len(items) > h.cap {
		items = items[:h.cap]
	}
	h.items = items

	if err := h.persist(ctx); err != nil {
		h.logger.Error().Err(err).Msg("❌ [Gallery] failed to persist gallery")
	}
}

// Clear - 전체 삭제 (메모리는 항상 비워짐)
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = nil
	if err := h.store.Clear(ctx); err != nil {
		h.logger.Error().Err(err).Msg("❌ [Gallery] failed to clear slot")
		return err
	}
	h.logger.Info().Msg("🗑️ [Gallery] cleared")
	return nil
}

// Items returns a copy, most recent first.
func (h *History) Items() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string{}, h.items...)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

func (h *History) Cap() int {
	return h.cap
}

func (h *History) persist(ctx context.Context) error {
	data, err := json.Marshal(h.items)
	if err != nil {
		return err
	}
	return h.store.Save(ctx, data)
}

package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/supabase-community/supabase-go"

	"graf-doodle-server/modules/common/config"
)

// SlotRow - 키 하나에 직렬화된 값 하나를 저장하는 행
type SlotRow struct {
	SlotKey   string `json:"slot_key"`
	Payload   string `json:"payload"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type Client struct {
	supabase *supabase.Client
	table    string
	logger   zerolog.Logger
}

// NewClient - Supabase 클라이언트 생성
func NewClient(cfg *config.Config, logger zerolog.Logger) (*Client, error) {
	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{
		supabase: supabaseClient,
		table:    cfg.SupabaseGalleryTable,
		logger:   logger,
	}, nil
}

// FetchSlot - 슬롯 조회. 행이 없으면 found=false
func (c *Client) FetchSlot(key string) (payload string, found bool, err error) {
	var rows []SlotRow

	data, _, err := c.supabase.From(c.table).
		Select("*", "exact", false).
		Eq("slot_key", key).
		Execute()
	if err != nil {
		return "", false, fmt.Errorf("failed to query %s: %w", c.table, err)
	}

	if err := json.Unmarshal(data, &rows); err != nil {
		return "", false, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Payload, true, nil
}

// UpsertSlot - 슬롯 값 저장 (slot_key 충돌 시 덮어쓰기)
func (c *Client) UpsertSlot(key, payload string) error {
	row := map[string]interface{}{
		"slot_key":   key,
		"payload":    payload,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	_, _, err := c.supabase.From(c.table).
		Insert(row, true, "slot_key", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert slot %s: %w", key, err)
	}

	c.logger.Debug().Str("slot", key).Int("bytes", len(payload)).Msg("💾 [Database] slot saved")
	return nil
}

// DeleteSlot - 슬롯 삭제
func (c *Client) DeleteSlot(key string) error {
	_, _, err := c.supabase.From(c.table).
		Delete("minimal", "").
		Eq("slot_key", key).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

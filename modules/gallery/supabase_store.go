package gallery

import "context"

// slotClient is the subset of *database.Client the store needs.
type slotClient interface {
	FetchSlot(key string) (string, bool, error)
	UpsertSlot(key, payload string) error
	DeleteSlot(key string) error
}

// SupabaseStore - 갤러리 슬롯을 Supabase 테이블의 행 하나로 저장
type SupabaseStore struct {
	client slotClient
	key    string
}

func NewSupabaseStore(client slotClient, key string) *SupabaseStore {
	return &SupabaseStore{client: client, key: key}
}

func (s *SupabaseStore) Load(ctx context.Context) ([]byte, error) {
	payload, found, err := s.client.FetchSlot(s.key)
	if err != nil || !found {
		return nil, err
	}
	return []byte(payload), nil
}

func (s *SupabaseStore) Save(ctx context.Context, data []byte) error {
	return s.client.UpsertSlot(s.key, string(data))
}

func (s *SupabaseStore) Clear(ctx context.Context) error {
	return s.client.DeleteSlot(s.key)
}

package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// 서버 메트릭
type Metrics struct {
	TotalSessions   int       `json:"totalSessions"`
	ActiveSessions  int       `json:"activeSessions"`
	CleanedSessions int       `json:"cleanedSessions"`
	StartTime       time.Time `json:"startTime"`
}

// Manager owns every live session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
	hub      *Hub

	idleTimeout time.Duration
	maxAge      time.Duration

	metricsMu sync.Mutex
	metrics   Metrics

	logger zerolog.Logger
	now    func() time.Time
}

// NewManager - 세션 매니저 생성. deps.Notifier는 매니저의 Hub로 설정됨
func NewManager(deps Deps, idleTimeout, maxAge time.Duration) *Manager {
	hub := NewHub(deps.Logger)
	deps.Notifier = hub
	return &Manager{
		sessions:    make(map[string]*Session),
		deps:        deps,
		hub:         hub,
		idleTimeout: idleTimeout,
		maxAge:      maxAge,
		metrics:     Metrics{StartTime: time.Now()},
		logger:      deps.Logger,
		now:         time.Now,
	}
}

func (m *Manager) Hub() *Hub { return m.hub }

// Create - 새 세션 생성
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := newSession(id, m.deps, m.now())

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.metricsMu.Lock()
	m.metrics.TotalSessions++
	m.metrics.ActiveSessions++
	total, active := m.metrics.TotalSessions, m.metrics.ActiveSessions
	m.metricsMu.Unlock()

	m.logger.Info().Str("session", id).Int("total", total).Int("active", active).Msg("✅ [Session] created")
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove - 세션 삭제 및 구독자 연결 종료
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	m.hub.CloseSession(id)
	m.metricsMu.Lock()
	m.metrics.ActiveSessions--
	m.metricsMu.Unlock()

	m.logger.Info().Str("session", id).Msg("🗑️ [Session] removed")
	return nil
}

// Cleanup - 만료(maxAge) 또는 비활성(idleTimeout) 세션 정리
// Inactive sessions with a live subscriber or a call in flight are kept.
func (m *Manager) Cleanup() int {
	now := m.now()

	m.mu.Lock()
	var removed []string
	for id, s := range m.sessions {
		createdAt, lastActivity := s.activity()
		isExpired := now.Sub(createdAt) > m.maxAge
		isInactive := now.Sub(lastActivity) > m.idleTimeout && m.hub.Subscribers(id) == 0 && !s.busyAny()
		if !isExpired && !isInactive {
			continue
		}

		delete(m.sessions, id)
		removed = append(removed, id)

		reason := "expired"
		if !isExpired {
			reason = "inactive"
		}
		m.logger.Info().
			Str("session", id).
			Str("reason", reason).
			Dur("age", now.Sub(createdAt)).
			Dur("inactive", now.Sub(lastActivity)).
			Msg("⏰ [Session] cleaned up")
	}
	m.mu.Unlock()

	for _, id := range removed {
		m.hub.CloseSession(id)
	}

	if len(removed) > 0 {
		m.metricsMu.Lock()
		m.metrics.ActiveSessions -= len(removed)
		m.metrics.CleanedSessions += len(removed)
		active := m.metrics.ActiveSessions
		m.metricsMu.Unlock()
		m.logger.Info().Int("cleaned", len(removed)).Int("active", active).Msg("🧼 [Session] cleanup finished")
	}
	return len(removed)
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (m *Manager) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Cleanup()
			}
		}
	}()

	m.logger.Info().Dur("interval", interval).Msg("🔄 [Session] started cleanup routine")
}

// SessionInfo - 메트릭 응답의 세션별 항목
type SessionInfo struct {
	ID           string    `json:"sessionId"`
	Phase        Phase     `json:"phase"`
	Subscribers  int       `json:"subscribers"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	Age          string    `json:"age"`
	Inactive     string    `json:"inactive"`
}

// MetricsReport is the /metrics payload.
type MetricsReport struct {
	Server struct {
		Metrics
		Uptime string `json:"uptime"`
	} `json:"server"`
	Sessions []SessionInfo `json:"sessions"`
}

func (m *Manager) Metrics() MetricsReport {
	now := m.now()

	var report MetricsReport
	m.metricsMu.Lock()
	report.Server.Metrics = m.metrics
	m.metricsMu.Unlock()
	report.Server.Uptime = now.Sub(report.Server.StartTime).String()

	m.mu.RLock()
	report.Sessions = make([]SessionInfo, 0, len(m.sessions))
	for id, s := range m.sessions {
		createdAt, lastActivity := s.activity()
		report.Sessions = append(report.Sessions, SessionInfo{
			ID:           id,
			Phase:        s.Phase(),
			Subscribers:  m.hub.Subscribers(id),
			CreatedAt:    createdAt,
			LastActivity: lastActivity,
			Age:          now.Sub(createdAt).String(),
			Inactive:     now.Sub(lastActivity).String(),
		})
	}
	m.mu.RUnlock()
	return report
}

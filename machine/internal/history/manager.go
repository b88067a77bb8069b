package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Krimson/reelspin/machine/internal/engine"
)

// Manager ведёт историю вращений текущей сессии (Application Layer)
type Manager struct {
	cache      CacheStore
	repository Repository
	ttlSeconds int
	logger     *zap.SugaredLogger

	mu      sync.Mutex
	current *Session
	pending *SpinRecord
	now     func() time.Time
}

// NewManager создает новый менеджер истории
func NewManager(cache CacheStore, repository Repository, ttlSeconds int, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		cache:      cache,
		repository: repository,
		ttlSeconds: ttlSeconds,
		logger:     logger,
		now:        time.Now,
	}
}

// StartSession открывает новую сессию, в которую пишутся все вращения
func (m *Manager) StartSession(ctx context.Context, metadata Metadata) (*Session, error) {
	session := &Session{
		ID:        uuid.New().String(),
		Status:    SessionStatusActive,
		StartedAt: m.now(),
		Metadata:  metadata,
	}

	if err := m.cache.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session to cache: %w", err)
	}

	m.mu.Lock()
	m.current = session
	m.pending = nil
	m.mu.Unlock()

	m.logger.Infof("[SESSION] Started session: %s", session.ID)
	return copySession(session), nil
}

// CurrentSession активная сессия или nil
func (m *Manager) CurrentSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySession(m.current)
}

// StopSession останавливает текущую сессию и ставит TTL на её данные в кэше
func (m *Manager) StopSession(ctx context.Context) error {
	m.mu.Lock()
	session := m.current
	m.current = nil
	m.pending = nil
	if session == nil {
		m.mu.Unlock()
		return nil
	}

	now := m.now()
	session.Status = SessionStatusStopped
	session.StoppedAt = &now
	session.TotalDurationMs = now.Sub(session.StartedAt).Milliseconds()
	stopped := copySession(session)
	m.mu.Unlock()

	if err := m.cache.SetSession(ctx, stopped); err != nil {
		return fmt.Errorf("failed to update session in cache: %w", err)
	}
	if err := m.cache.SetSessionTTL(ctx, stopped.ID, m.ttlSeconds); err != nil {
		m.logger.Warnf("[WARN] Failed to set session TTL: %v", err)
	}

	m.logger.Infof("[SESSION] Stopped session: %s, spins: %d, duration: %dms",
		stopped.ID, stopped.TotalSpins, stopped.TotalDurationMs)
	return nil
}

// HandleEvent записывает события движка в текущую сессию
func (m *Manager) HandleEvent(ctx context.Context, event engine.Event) {
	switch event.Type {
	case engine.EventSpinStarted:
		m.spinStarted(event)
	case engine.EventSpinFinished:
		if err := m.spinFinished(ctx, event); err != nil {
			m.logger.Warnf("[WARN] Failed to record spin %03d: %v", event.Number, err)
		}
	}
}

func (m *Manager) spinStarted(event engine.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	m.pending = &SpinRecord{
		ID:        uuid.New().String(),
		SessionID: m.current.ID,
		Number:    event.Number,
		Digits:    event.Digits,
		StartedAt: event.At,
	}
}

func (m *Manager) spinFinished(ctx context.Context, event engine.Event) error {
	m.mu.Lock()
	record := m.pending
	m.pending = nil
	if m.current == nil || record == nil || record.Number != event.Number {
		m.mu.Unlock()
		return nil
	}

	record.FinishedAt = event.At
	record.DurationMs = event.At.Sub(record.StartedAt).Milliseconds()
	m.current.TotalSpins++
	session := copySession(m.current)
	m.mu.Unlock()

	if err := m.cache.AppendSpin(ctx, *record); err != nil {
		return fmt.Errorf("failed to append spin: %w", err)
	}
	if err := m.cache.SetSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	m.logger.Debugf("[SESSION] Recorded spin %03d in session %s (%dms)", record.Number, session.ID, record.DurationMs)
	return nil
}

// GetSession получает сессию по ID
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	// Сначала проверяем текущую
	m.mu.Lock()
	if m.current != nil && m.current.ID == sessionID {
		session := copySession(m.current)
		m.mu.Unlock()
		return session, nil
	}
	m.mu.Unlock()

	session, err := m.cache.GetSession(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		m.logger.Warnf("[WARN] Cache lookup failed for session %s: %v", sessionID, err)
	}

	return m.repository.GetSession(ctx, sessionID)
}

// GetSpins вращения сессии из кэша, для вытесненных из кэша сессий из базы
func (m *Manager) GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error) {
	if _, err := m.cache.GetSession(ctx, sessionID); err == nil {
		return m.cache.GetSpins(ctx, sessionID, limit, offset)
	}
	return m.repository.GetSpins(ctx, sessionID, limit, offset)
}

// SaveSession сохраняет сессию со всеми вращениями в базу
func (m *Manager) SaveSession(ctx context.Context, sessionID string, notes string) (*Session, error) {
	sessionData, err := m.cache.GetSessionData(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session data from cache: %w", err)
	}

	// Для активной сессии берём актуальные счётчики из памяти
	m.mu.Lock()
	if m.current != nil && m.current.ID == sessionID {
		sessionData.Session = copySession(m.current)
	}
	m.mu.Unlock()

	if notes != "" {
		sessionData.Session.Metadata.Notes = notes
	}

	now := m.now()
	sessionData.Session.SavedAt = &now
	if sessionData.Session.Status != SessionStatusActive {
		sessionData.Session.Status = SessionStatusSaved
	}

	if err := m.repository.SaveSessionData(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to save session to database: %w", err)
	}

	m.mu.Lock()
	if m.current != nil && m.current.ID == sessionID {
		m.current.SavedAt = &now
		m.current.Metadata = sessionData.Session.Metadata
	}
	m.mu.Unlock()

	if err := m.cache.SetSession(ctx, sessionData.Session); err != nil {
		m.logger.Warnf("[WARN] Failed to update session status in cache: %v", err)
	}

	m.logger.Infof("[SESSION] Saved session to database: %s (%d spins)", sessionID, len(sessionData.Spins))
	return sessionData.Session, nil
}

// ListSessions возвращает список сохранённых сессий
func (m *Manager) ListSessions(ctx context.Context, limit, offset int) ([]*Session, error) {
	return m.repository.ListSessions(ctx, limit, offset)
}

// DeleteSession удаляет сохранённую сессию; текущую удалить нельзя
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	isCurrent := m.current != nil && m.current.ID == sessionID
	m.mu.Unlock()
	if isCurrent {
		return fmt.Errorf("%w: %s", ErrSessionActive, sessionID)
	}

	if err := m.cache.DeleteSession(ctx, sessionID); err != nil {
		m.logger.Warnf("[WARN] Failed to delete session from cache: %v", err)
	}

	if err := m.repository.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session from database: %w", err)
	}

	m.logger.Infof("[SESSION] Deleted session: %s", sessionID)
	return nil
}

func copySession(session *Session) *Session {
	if session == nil {
		return nil
	}
	c := *session
	return &c
}

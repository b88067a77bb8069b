package history

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore реализация CacheStore в памяти процесса, без TTL
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	spins    map[string][]SpinRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		spins:    make(map[string][]SpinRecord),
	}
}

func (m *MemoryStore) SetSession(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return &session, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	delete(m.spins, sessionID)
	return nil
}

// SetSessionTTL в памяти данные живут до перезапуска
func (m *MemoryStore) SetSessionTTL(ctx context.Context, sessionID string, ttlSeconds int) error {
	return nil
}

func (m *MemoryStore) AppendSpin(ctx context.Context, record SpinRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spins[record.SessionID] = append(m.spins[record.SessionID], record)
	return nil
}

func (m *MemoryStore) GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.spins[sessionID], limit, offset), nil
}

func (m *MemoryStore) GetSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	session, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	spins := make([]SpinRecord, len(m.spins[sessionID]))
	copy(spins, m.spins[sessionID])

	return &SessionData{Session: session, Spins: spins}, nil
}

// MemoryRepository реализация Repository в памяти процесса
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*SessionData
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*SessionData),
	}
}

func (m *MemoryRepository) SaveSessionData(ctx context.Context, data *SessionData) error {
	session := *data.Session
	spins := make([]SpinRecord, len(data.Spins))
	copy(spins, data.Spins)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = &SessionData{Session: &session, Spins: spins}
	return nil
}

func (m *MemoryRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	session := *data.Session
	return &session, nil
}

func (m *MemoryRepository) ListSessions(ctx context.Context, limit, offset int) ([]*Session, error) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, data := range m.sessions {
		session := *data.Session
		sessions = append(sessions, &session)
	}
	m.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return paginate(sessions, limit, offset), nil
}

func (m *MemoryRepository) GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return paginate(data.Spins, limit, offset), nil
}

func (m *MemoryRepository) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	result := make([]T, end-offset)
	copy(result, items[offset:end])
	return result
}

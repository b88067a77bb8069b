package history

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/Krimson/reelspin/internal/spin"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrSessionNotFound сессия не найдена ни в кэше, ни в базе
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionActive операция недоступна для текущей сессии
	ErrSessionActive = errors.New("session is active")
)

// SessionStatus представляет статус сессии
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "ACTIVE"
	SessionStatusStopped SessionStatus = "STOPPED"
	SessionStatusSaved   SessionStatus = "SAVED"
)

// Session один запуск автомата: все вращения от старта до остановки сервиса
type Session struct {
	ID              string        `json:"id"`
	Status          SessionStatus `json:"status"`
	StartedAt       time.Time     `json:"started_at"`
	StoppedAt       *time.Time    `json:"stopped_at,omitempty"`
	SavedAt         *time.Time    `json:"saved_at,omitempty"`
	TotalDurationMs int64         `json:"total_duration_ms"`
	TotalSpins      int64         `json:"total_spins"`
	Metadata        Metadata      `json:"metadata,omitempty"`
}

// Metadata содержит дополнительную информацию о сессии
type Metadata struct {
	Host       string                 `json:"host,omitempty"`
	Curve      string                 `json:"curve,omitempty"`
	Notes      string                 `json:"notes,omitempty"`
	CustomData map[string]interface{} `json:"custom_data,omitempty"`
}

// SpinRecord завершённое вращение
type SpinRecord struct {
	ID         string              `json:"id"`
	SessionID  string              `json:"session_id"`
	Number     int                 `json:"number"`
	Digits     [spin.ReelCount]int `json:"digits"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	DurationMs int64               `json:"duration_ms"`
}

// SessionData сессия вместе со всеми вращениями
type SessionData struct {
	Session *Session     `json:"session"`
	Spins   []SpinRecord `json:"spins"`
}

// SaveSessionRequest запрос на сохранение сессии
type SaveSessionRequest struct {
	Notes string `json:"notes,omitempty"`
}

// SessionResponse ответ с информацией о сессии
type SessionResponse struct {
	Session     *Session     `json:"session"`
	RecentSpins []SpinRecord `json:"recent_spins,omitempty"`
}

// CacheStore оперативное хранилище активных сессий (Domain Layer)
type CacheStore interface {
	SetSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SetSessionTTL(ctx context.Context, sessionID string, ttlSeconds int) error

	AppendSpin(ctx context.Context, record SpinRecord) error
	GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error)
	GetSessionData(ctx context.Context, sessionID string) (*SessionData, error)
}

// Repository долговременное хранилище сохранённых сессий (Domain Layer)
type Repository interface {
	SaveSessionData(ctx context.Context, data *SessionData) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ListSessions(ctx context.Context, limit, offset int) ([]*Session, error)
	GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Close() error
}

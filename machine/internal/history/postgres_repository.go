package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Schema таблицы архива сессий
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id                UUID PRIMARY KEY,
	status            TEXT        NOT NULL,
	started_at        TIMESTAMPTZ NOT NULL,
	stopped_at        TIMESTAMPTZ,
	saved_at          TIMESTAMPTZ,
	total_duration_ms BIGINT      NOT NULL DEFAULT 0,
	total_spins       BIGINT      NOT NULL DEFAULT 0,
	metadata          JSONB       NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS spins (
	id          UUID PRIMARY KEY,
	session_id  UUID        NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	number      INTEGER     NOT NULL,
	digits      INTEGER[]   NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	duration_ms BIGINT      NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_spins_session_started ON spins (session_id, started_at);
`

// PostgresRepository реализует Repository для PostgreSQL (Infrastructure Layer)
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository создает новый экземпляр PostgresRepository
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// NewPostgresRepositoryFromDSN создает репозиторий из строки подключения
func NewPostgresRepositoryFromDSN(ctx context.Context, dsn string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Настройки пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresRepository{db: db}, nil
}

// EnsureSchema создаёт таблицы, если их нет
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close закрывает соединение с БД
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// SaveSessionData сохраняет сессию и заменяет её вращения в одной транзакции
func (r *PostgresRepository) SaveSessionData(ctx context.Context, data *SessionData) error {
	metadataJSON, err := json.Marshal(data.Session.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	session := data.Session
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, status, started_at, stopped_at, saved_at, total_duration_ms, total_spins, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			stopped_at = EXCLUDED.stopped_at,
			saved_at = EXCLUDED.saved_at,
			total_duration_ms = EXCLUDED.total_duration_ms,
			total_spins = EXCLUDED.total_spins,
			metadata = EXCLUDED.metadata
	`,
		session.ID,
		session.Status,
		session.StartedAt,
		session.StoppedAt,
		session.SavedAt,
		session.TotalDurationMs,
		session.TotalSpins,
		metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM spins WHERE session_id = $1`, session.ID); err != nil {
		return fmt.Errorf("failed to clear spins: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO spins (id, session_id, number, digits, started_at, finished_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare spin insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range data.Spins {
		digits := []int64{int64(record.Digits[0]), int64(record.Digits[1]), int64(record.Digits[2])}
		if _, err := stmt.ExecContext(ctx,
			record.ID,
			session.ID,
			record.Number,
			pq.Array(digits),
			record.StartedAt,
			record.FinishedAt,
			record.DurationMs,
		); err != nil {
			return fmt.Errorf("failed to insert spin %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, status, started_at, stopped_at, saved_at, total_duration_ms, total_spins, metadata
		FROM sessions
		WHERE id = $1
	`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (r *PostgresRepository) ListSessions(ctx context.Context, limit, offset int) ([]*Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, status, started_at, stopped_at, saved_at, total_duration_ms, total_spins, metadata
		FROM sessions
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *PostgresRepository) GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, number, digits, started_at, finished_at, duration_ms
		FROM spins
		WHERE session_id = $1
		ORDER BY started_at
		LIMIT $2 OFFSET $3
	`, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get spins: %w", err)
	}
	defer rows.Close()

	spins := make([]SpinRecord, 0)
	for rows.Next() {
		var record SpinRecord
		var digits []int64
		if err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.Number,
			pq.Array(&digits),
			&record.StartedAt,
			&record.FinishedAt,
			&record.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan spin: %w", err)
		}
		for i := 0; i < len(digits) && i < len(record.Digits); i++ {
			record.Digits[i] = int(digits[i])
		}
		spins = append(spins, record)
	}

	return spins, rows.Err()
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var session Session
	var stoppedAt, savedAt sql.NullTime
	var metadataJSON []byte

	if err := row.Scan(
		&session.ID,
		&session.Status,
		&session.StartedAt,
		&stoppedAt,
		&savedAt,
		&session.TotalDurationMs,
		&session.TotalSpins,
		&metadataJSON,
	); err != nil {
		return nil, err
	}

	if stoppedAt.Valid {
		session.StoppedAt = &stoppedAt.Time
	}
	if savedAt.Valid {
		session.SavedAt = &savedAt.Time
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &session.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &session, nil
}

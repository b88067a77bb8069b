package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore реализует CacheStore для Redis (Infrastructure Layer)
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает новый экземпляр RedisStore
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// NewRedisStoreFromAddr подключается к Redis и проверяет соединение
func NewRedisStoreFromAddr(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", addr, err)
	}

	return NewRedisStore(client), nil
}

// Close закрывает соединение с Redis
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// ===== Ключи Redis =====

func sessionKey(sessionID string) string {
	return fmt.Sprintf("reelspin:session:%s:metadata", sessionID)
}

func spinsKey(sessionID string) string {
	return fmt.Sprintf("reelspin:session:%s:spins", sessionID)
}

// ===== Управление сессиями =====

func (r *RedisStore) SetSession(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return r.client.Set(ctx, sessionKey(session.ID), data, redis.KeepTTL).Err()
}

func (r *RedisStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *RedisStore) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID), spinsKey(sessionID)).Err()
}

func (r *RedisStore) SetSessionTTL(ctx context.Context, sessionID string, ttlSeconds int) error {
	duration := time.Duration(ttlSeconds) * time.Second

	pipe := r.client.Pipeline()
	pipe.Expire(ctx, sessionKey(sessionID), duration)
	pipe.Expire(ctx, spinsKey(sessionID), duration)

	_, err := pipe.Exec(ctx)
	return err
}

// ===== Вращения =====

func (r *RedisStore) AppendSpin(ctx context.Context, record SpinRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal spin: %w", err)
	}

	return r.client.RPush(ctx, spinsKey(record.SessionID), data).Err()
}

func (r *RedisStore) GetSpins(ctx context.Context, sessionID string, limit, offset int) ([]SpinRecord, error) {
	if limit <= 0 {
		return []SpinRecord{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	start := int64(offset)
	stop := int64(offset + limit - 1)

	items, err := r.client.LRange(ctx, spinsKey(sessionID), start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get spins: %w", err)
	}

	return decodeSpins(items)
}

func (r *RedisStore) GetSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items, err := r.client.LRange(ctx, spinsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get spins: %w", err)
	}

	spins, err := decodeSpins(items)
	if err != nil {
		return nil, err
	}

	return &SessionData{Session: session, Spins: spins}, nil
}

func decodeSpins(items []string) ([]SpinRecord, error) {
	spins := make([]SpinRecord, 0, len(items))
	for _, item := range items {
		var record SpinRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal spin: %w", err)
		}
		spins = append(spins, record)
	}
	return spins, nil
}

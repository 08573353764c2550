package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("verification session not found")

const (
	sessionKeyPrefix = "otp:sess:"
	phoneKeyPrefix   = "otp:phone:"
)

// SessionStore хранит живые сессии подтверждения в Redis. Помимо самой
// сессии держится указатель номер -> последний verification id, поэтому
// повторная отправка кода замещает предыдущую попытку: подтверждение по
// устаревшему id вернёт ErrSessionNotFound.
type SessionStore struct {
	redis redis.UniversalClient
	ttl   time.Duration
}

func NewSessionStore(redis redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: redis, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, session Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal verification session: %w", err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.VerificationID, payload, s.ttl)
	pipe.Set(ctx, phoneKeyPrefix+session.PhoneNumber, session.VerificationID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save verification session: %w", err)
	}

	return nil
}

func (s *SessionStore) Get(ctx context.Context, verificationID string) (*Session, error) {
	payload, err := s.redis.Get(ctx, sessionKeyPrefix+verificationID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get verification session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal verification session: %w", err)
	}

	latest, err := s.redis.Get(ctx, phoneKeyPrefix+session.PhoneNumber).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get latest verification id: %w", err)
	}
	if latest != verificationID {
		// сессию заместила более свежая отправка
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, session Session) error {
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+session.VerificationID)
	pipe.Del(ctx, phoneKeyPrefix+session.PhoneNumber)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete verification session: %w", err)
	}

	return nil
}

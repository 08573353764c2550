package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/pkg/hash"
	"github.com/gigs-work/backend/pkg/logger"
	"github.com/gigs-work/backend/pkg/otp"
)

const codeKeyPrefix = "otp:code:"

var (
	ErrCodeNotFound    = errors.New("verification code expired or not found")
	ErrCodeMismatch    = errors.New("wrong verification code")
	ErrTooManyAttempts = errors.New("too many verification attempts")
)

// Local - локальная замена hosted-платформы для dev/stage контуров.
// Коды генерирует сам, вместо SMS пишет их в лог, запись с солёным
// хэшем кода держит в Redis с TTL и лимитом попыток. Номера из
// allowlist подтверждаются без кода - так в деве проверяется ветка
// auto_verified.
type Local struct {
	redis       redis.UniversalClient
	generator   otp.Generator
	hasher      hash.Hasher
	codeLength  int
	ttl         time.Duration
	maxAttempts int
	testNumbers map[string]bool
}

type codeRecord struct {
	PhoneNumber string `json:"phone_number"`
	CodeHash    string `json:"code_hash"`
	Attempts    int    `json:"attempts"`
}

func NewLocal(
	redis redis.UniversalClient,
	generator otp.Generator,
	hasher hash.Hasher,
	cfg config.IdentityConfig,
	authCfg config.AuthConfig,
) *Local {
	testNumbers := make(map[string]bool, len(cfg.TestNumbers))
	for _, number := range cfg.TestNumbers {
		testNumbers[number] = true
	}

	return &Local{
		redis:       redis,
		generator:   generator,
		hasher:      hasher,
		codeLength:  authCfg.VerificationCodeLength,
		ttl:         authCfg.VerificationTTL,
		maxAttempts: authCfg.VerificationAttempts,
		testNumbers: testNumbers,
	}
}

func (l *Local) SendCode(ctx context.Context, phoneNumber string, _ string) (*Dispatch, error) {
	if l.testNumbers[phoneNumber] {
		return &Dispatch{AutoVerified: l.credential(phoneNumber)}, nil
	}

	verificationID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate verification id: %w", err)
	}

	code := l.generator.RandomCode(l.codeLength)

	codeHash, err := l.hasher.Hash(code)
	if err != nil {
		return nil, fmt.Errorf("hash verification code: %w", err)
	}

	payload, err := json.Marshal(codeRecord{
		PhoneNumber: phoneNumber,
		CodeHash:    codeHash,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal code record: %w", err)
	}

	if err := l.redis.Set(ctx, codeKeyPrefix+verificationID, payload, l.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store code record: %w", err)
	}

	logger.Info("local identity provider dispatched code",
		zap.String("phone_number", phoneNumber),
		zap.String("verification_id", verificationID),
		zap.String("code", code),
	)

	return &Dispatch{VerificationID: verificationID}, nil
}

func (l *Local) ConfirmCode(ctx context.Context, verificationID string, code string) (*Credential, error) {
	key := codeKeyPrefix + verificationID

	payload, err := l.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("get code record: %w", err)
	}

	var record codeRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal code record: %w", err)
	}

	if record.Attempts >= l.maxAttempts {
		return nil, ErrTooManyAttempts
	}

	codeHash, err := l.hasher.Hash(code)
	if err != nil {
		return nil, fmt.Errorf("hash verification code: %w", err)
	}

	if codeHash != record.CodeHash {
		record.Attempts++

		updated, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("marshal code record: %w", err)
		}
		if err := l.redis.Set(ctx, key, updated, redis.KeepTTL).Err(); err != nil {
			return nil, fmt.Errorf("update code record: %w", err)
		}

		return nil, ErrCodeMismatch
	}

	if err := l.redis.Del(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("delete code record: %w", err)
	}

	return l.credential(record.PhoneNumber), nil
}

func (l *Local) credential(phoneNumber string) *Credential {
	token, err := gonanoid.New()
	if err != nil {
		token = ""
	}

	return &Credential{
		UID:         "local:" + phoneNumber,
		PhoneNumber: phoneNumber,
		IDToken:     token,
	}
}

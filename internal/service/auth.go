package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/identity"
	"github.com/gigs-work/backend/internal/repository"
	"github.com/gigs-work/backend/internal/supabase"
	"github.com/gigs-work/backend/internal/verification"
	"github.com/gigs-work/backend/pkg/auth"

	"github.com/google/uuid"
)

type authService struct {
	userRepository           repository.Users
	refreshSessionRepository repository.RefreshSession
	phoneVerifications       repository.PhoneVerifications
	flow                     *verification.Flow
	sessions                 *verification.SessionStore
	tokenManager             auth.TokenManager
	backend                  *supabase.Client
	providerName             string
}

func newAuthService(
	userRepository repository.Users,
	refreshSessionRepository repository.RefreshSession,
	phoneVerifications repository.PhoneVerifications,
	flow *verification.Flow,
	sessions *verification.SessionStore,
	tokenManager auth.TokenManager,
	backend *supabase.Client,
	providerName string,
) *authService {
	return &authService{
		userRepository:           userRepository,
		refreshSessionRepository: refreshSessionRepository,
		phoneVerifications:       phoneVerifications,
		flow:                     flow,
		sessions:                 sessions,
		tokenManager:             tokenManager,
		backend:                  backend,
		providerName:             providerName,
	}
}

type Tokens struct {
	AccessToken  string
	AccessTTL    time.Duration
	RefreshToken uuid.UUID
	RefreshTTL   time.Duration
}

// SendOTPResult - исход запроса кода. Либо код ушёл и заполнен
// VerificationID, либо номер подтверждён без кода и заполнены Tokens.
type SendOTPResult struct {
	VerificationID string
	PhoneNumber    string
	Tokens         *Tokens
}

// SendOTP запускает поток отправки кода и доводит его до исхода.
// code_dispatched: сессия в Redis плюс журнальная строка в MySQL.
// auto_verified: вход завершается сразу, подтверждение не нужно.
// error: типизированная ошибка с сообщением провайдера, ретраев нет -
// повторная отправка остаётся за пользователем.
func (s *authService) SendOTP(ctx context.Context, rawPhone string, challengeToken string, userAgent string, userIP string) (*SendOTPResult, error) {
	outcome := consume(s.flow.Start(ctx, rawPhone, challengeToken))

	switch outcome.Kind {
	case verification.StateCodeDispatched:
		phoneNumber := verification.NormalizePhone(rawPhone)

		session := verification.Session{
			VerificationID: outcome.VerificationID,
			PhoneNumber:    phoneNumber,
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, fmt.Errorf("save verification session failed: %w", err)
		}

		if err := s.recordVerification(ctx, phoneNumber, outcome.VerificationID, false); err != nil {
			return nil, err
		}

		return &SendOTPResult{
			VerificationID: outcome.VerificationID,
			PhoneNumber:    phoneNumber,
		}, nil

	case verification.StateAutoVerified:
		if err := s.recordVerification(ctx, outcome.Credential.PhoneNumber, "", true); err != nil {
			return nil, err
		}

		tokens, err := s.signIn(ctx, outcome.Credential, userAgent, userIP)
		if err != nil {
			return nil, err
		}

		return &SendOTPResult{
			PhoneNumber: outcome.Credential.PhoneNumber,
			Tokens:      tokens,
		}, nil

	case verification.StateError:
		return nil, &ProviderError{Message: outcome.Message}

	default:
		return nil, fmt.Errorf("unexpected verification state: %s", outcome.Kind)
	}
}

// ConfirmOTP обменивает введённый пользователем код на токены.
// Неизвестный или замещённый verificationID отсекается до обращения
// к провайдеру.
func (s *authService) ConfirmOTP(ctx context.Context, verificationID string, code string, userAgent string, userIP string) (*Tokens, error) {
	session, err := s.sessions.Get(ctx, verificationID)
	if err != nil {
		if errors.Is(err, verification.ErrSessionNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, fmt.Errorf("get verification session failed: %w", err)
	}

	outcome := consume(s.flow.Confirm(ctx, *session, code))

	switch outcome.Kind {
	case verification.StateVerified:
		now := time.Now()
		if record, err := s.phoneVerifications.GetByVerificationID(ctx, verificationID); err == nil {
			record.Confirmed = true
			record.ConfirmedAt = &now
			if err := s.phoneVerifications.UpdateConfirmed(ctx, record); err != nil {
				return nil, fmt.Errorf("mark verification confirmed failed: %w", err)
			}
		}

		if err := s.sessions.Delete(ctx, *session); err != nil {
			return nil, fmt.Errorf("delete verification session failed: %w", err)
		}

		return s.signIn(ctx, outcome.Credential, userAgent, userIP)

	case verification.StateError:
		if err := s.phoneVerifications.IncrementAttempts(ctx, verificationID); err != nil {
			return nil, fmt.Errorf("increment verification attempts failed: %w", err)
		}
		return nil, &ProviderError{Message: outcome.Message}

	default:
		return nil, fmt.Errorf("unexpected verification state: %s", outcome.Kind)
	}
}

func (s *authService) Refresh(ctx context.Context, refreshToken string, userAgent string, userIP string) (*Tokens, error) {
	token, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrRefreshSessionNotFound
	}

	session, err := s.refreshSessionRepository.GetByToken(ctx, *token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRefreshSessionNotFound
		}
		return nil, fmt.Errorf("get refresh session failed: %w", err)
	}

	if session.IsExpired(time.Now()) {
		return nil, ErrRefreshSessionExpired
	}

	// ротация: старый refresh гасится, выдаётся новая пара
	if err := s.refreshSessionRepository.DeleteByToken(ctx, *token); err != nil {
		return nil, fmt.Errorf("delete refresh session failed: %w", err)
	}

	return s.createSession(ctx, &session.UserID, &userAgent, &userIP)
}

func (s *authService) SignOut(ctx context.Context, refreshToken string) error {
	token, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrRefreshSessionNotFound
	}

	if err := s.refreshSessionRepository.DeleteByToken(ctx, *token); err != nil {
		if errors.Is(err, domain.ErrNoRowsAffected) {
			return ErrRefreshSessionNotFound
		}
		return fmt.Errorf("delete refresh session failed: %w", err)
	}

	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepository.GetOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id failed: %w", err)
	}

	return user, nil
}

// signIn находит или заводит пользователя по номеру из credential и
// создаёт первичную сессию. Токен провайдера кэшируется в фасаде для
// последующих вызовов hosted-бэкенда.
func (s *authService) signIn(ctx context.Context, cred *identity.Credential, userAgent string, userIP string) (*Tokens, error) {
	existing, err := s.userRepository.GetByPhoneNumber(ctx, cred.PhoneNumber)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by phone number failed: %w", err)
	}

	var userID uuid.UUID

	if existing == nil {
		userID, err = uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("generate user id failed: %w", err)
		}

		newUser := &domain.User{
			ID:          userID,
			PhoneNumber: cred.PhoneNumber,
		}

		if err := s.userRepository.Create(ctx, newUser); err != nil {
			return nil, fmt.Errorf("create user failed: %w", err)
		}
	} else {
		userID = existing.ID
	}

	if cred.IDToken != "" {
		s.backend.SetSession(cred.IDToken)
	}

	tokens, err := s.createSession(ctx, &userID, &userAgent, &userIP)
	if err != nil {
		return nil, fmt.Errorf("create session failed: %w", err)
	}

	return tokens, nil
}

func (s *authService) createSession(ctx context.Context, userID *uuid.UUID, userAgent *string, userIP *string) (*Tokens, error) {
	var (
		res Tokens
		err error
	)

	res.AccessToken, res.AccessTTL, err = s.tokenManager.NewJWT(*userID)
	if err != nil {
		return &res, fmt.Errorf("generate access token failed: %w", err)
	}

	res.RefreshToken, res.RefreshTTL, err = s.tokenManager.NewRefreshToken()
	if err != nil {
		return &res, fmt.Errorf("generate refresh token failed: %w", err)
	}

	refreshSessionID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate refresh session id failed: %w", err)
	}
	refreshSession := &domain.RefreshSession{
		ID:           refreshSessionID,
		UserID:       *userID,
		RefreshToken: res.RefreshToken,
		UserAgent:    *userAgent,
		IP:           *userIP,
		ExpiresIn:    time.Now().Add(res.RefreshTTL),
	}

	if err := s.refreshSessionRepository.Create(ctx, refreshSession); err != nil {
		return nil, fmt.Errorf("create refresh session failed: %w", err)
	}

	return &res, nil
}

func (s *authService) recordVerification(ctx context.Context, phoneNumber string, verificationID string, auto bool) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate verification record id failed: %w", err)
	}

	record := &domain.PhoneVerification{
		ID:             id,
		PhoneNumber:    phoneNumber,
		VerificationID: verificationID,
		Provider:       s.providerName,
		Auto:           auto,
		Confirmed:      auto,
	}
	if auto {
		now := time.Now()
		record.ConfirmedAt = &now
	}

	if err := s.phoneVerifications.Create(ctx, record); err != nil {
		return fmt.Errorf("create verification record failed: %w", err)
	}

	return nil
}

// consume дочитывает поток состояний до терминального.
func consume(states <-chan verification.State) verification.State {
	var last verification.State
	for state := range states {
		last = state
		if state.Terminal() {
			break
		}
	}
	return last
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/domain"
	"github.com/gigs-work/backend/internal/identity"
	"github.com/gigs-work/backend/internal/supabase"
	"github.com/gigs-work/backend/internal/verification"
	"github.com/gigs-work/backend/pkg/auth"
)

type stubProvider struct {
	mu sync.Mutex

	dispatch    *identity.Dispatch
	sendErr     error
	credential  *identity.Credential
	confirmErr  error
	sendCalls   int
	confirmCall int
}

func (p *stubProvider) SendCode(_ context.Context, _ string, _ string) (*identity.Dispatch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sendCalls++
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	return p.dispatch, nil
}

func (p *stubProvider) ConfirmCode(_ context.Context, _ string, _ string) (*identity.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmCall++
	if p.confirmErr != nil {
		return nil, p.confirmErr
	}
	return p.credential, nil
}

func (p *stubProvider) confirmCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.confirmCall
}

type stubUserRepo struct {
	byPhone map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byPhone: map[string]*domain.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.byPhone[user.PhoneNumber] = user
	return nil
}

func (r *stubUserRepo) GetByPhoneNumber(_ context.Context, phoneNumber string) (*domain.User, error) {
	user, ok := r.byPhone[phoneNumber]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (r *stubUserRepo) GetOneByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range r.byPhone {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, _ uuid.UUID, _ string, _ string, _ *uuid.UUID) error {
	return nil
}

type stubRefreshRepo struct {
	byToken map[uuid.UUID]*domain.RefreshSession
}

func newStubRefreshRepo() *stubRefreshRepo {
	return &stubRefreshRepo{byToken: map[uuid.UUID]*domain.RefreshSession{}}
}

func (r *stubRefreshRepo) Create(_ context.Context, session *domain.RefreshSession) error {
	r.byToken[session.RefreshToken] = session
	return nil
}

func (r *stubRefreshRepo) GetByToken(_ context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error) {
	session, ok := r.byToken[refreshToken]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (r *stubRefreshRepo) DeleteByToken(_ context.Context, refreshToken uuid.UUID) error {
	if _, ok := r.byToken[refreshToken]; !ok {
		return domain.ErrNoRowsAffected
	}
	delete(r.byToken, refreshToken)
	return nil
}

type stubPhoneVerifications struct {
	records map[string]*domain.PhoneVerification
}

func newStubPhoneVerifications() *stubPhoneVerifications {
	return &stubPhoneVerifications{records: map[string]*domain.PhoneVerification{}}
}

func (r *stubPhoneVerifications) Create(_ context.Context, verification *domain.PhoneVerification) error {
	r.records[verification.VerificationID] = verification
	return nil
}

func (r *stubPhoneVerifications) GetByVerificationID(_ context.Context, verificationID string) (*domain.PhoneVerification, error) {
	record, ok := r.records[verificationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (r *stubPhoneVerifications) UpdateConfirmed(_ context.Context, verification *domain.PhoneVerification) error {
	r.records[verification.VerificationID] = verification
	return nil
}

func (r *stubPhoneVerifications) IncrementAttempts(_ context.Context, verificationID string) error {
	if record, ok := r.records[verificationID]; ok {
		record.Attempts++
	}
	return nil
}

type authFixture struct {
	service  *authService
	provider *stubProvider
	users    *stubUserRepo
	refresh  *stubRefreshRepo
	audit    *stubPhoneVerifications
	redis    *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokenManager, err := auth.NewManager(config.JWTConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	})
	require.NoError(t, err)

	provider := &stubProvider{}
	users := newStubUserRepo()
	refresh := newStubRefreshRepo()
	audit := newStubPhoneVerifications()

	backend := supabase.New(config.SupabaseConfig{URL: "https://example.supabase.co", APIKey: "k", Timeout: time.Second})

	service := newAuthService(
		users,
		refresh,
		audit,
		verification.NewFlow(provider),
		verification.NewSessionStore(client, 5*time.Minute),
		tokenManager,
		backend,
		"test",
	)

	return &authFixture{
		service:  service,
		provider: provider,
		users:    users,
		refresh:  refresh,
		audit:    audit,
		redis:    mr,
	}
}

func TestSendOTPCodeDispatched(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.dispatch = &identity.Dispatch{VerificationID: "abc123"}

	result, err := f.service.SendOTP(context.Background(), "79991234567", "challenge", "ua", "ip")
	require.NoError(t, err)

	require.Equal(t, "abc123", result.VerificationID)
	require.Equal(t, "+79991234567", result.PhoneNumber)
	require.Nil(t, result.Tokens)

	require.True(t, f.redis.Exists("otp:sess:abc123"))
	require.True(t, f.redis.Exists("otp:phone:+79991234567"))

	record := f.audit.records["abc123"]
	require.NotNil(t, record)
	require.False(t, record.Auto)
	require.False(t, record.Confirmed)
}

func TestSendOTPAutoVerified(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.dispatch = &identity.Dispatch{
		AutoVerified: &identity.Credential{UID: "uid-1", PhoneNumber: "+79990000000", IDToken: "tok"},
	}

	result, err := f.service.SendOTP(context.Background(), "+79990000000", "", "ua", "ip")
	require.NoError(t, err)

	require.Empty(t, result.VerificationID)
	require.NotNil(t, result.Tokens)
	require.NotEmpty(t, result.Tokens.AccessToken)

	user, err := f.users.GetByPhoneNumber(context.Background(), "+79990000000")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)

	record := f.audit.records[""]
	require.NotNil(t, record)
	require.True(t, record.Auto)
	require.True(t, record.Confirmed)
	require.NotNil(t, record.ConfirmedAt)
}

func TestSendOTPProviderError(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.sendErr = errors.New("TOO_MANY_ATTEMPTS_TRY_LATER")

	_, err := f.service.SendOTP(context.Background(), "+79991234567", "", "ua", "ip")

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, "TOO_MANY_ATTEMPTS_TRY_LATER", providerErr.Message)
}

func TestConfirmOTPUnknownVerificationID(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.ConfirmOTP(context.Background(), "never-sent", "123456", "ua", "ip")
	require.ErrorIs(t, err, ErrVerificationNotFound)

	// до провайдера дело не доходит
	require.Zero(t, f.provider.confirmCalls())
}

func TestConfirmOTPSuccess(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.dispatch = &identity.Dispatch{VerificationID: "abc123"}
	f.provider.credential = &identity.Credential{UID: "uid-1", PhoneNumber: "+79991234567", IDToken: "tok"}

	_, err := f.service.SendOTP(context.Background(), "+79991234567", "", "ua", "ip")
	require.NoError(t, err)

	tokens, err := f.service.ConfirmOTP(context.Background(), "abc123", "123456", "ua", "ip")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEqual(t, uuid.Nil, tokens.RefreshToken)

	// сессия погашена, журнальная запись подтверждена
	require.False(t, f.redis.Exists("otp:sess:abc123"))
	require.True(t, f.audit.records["abc123"].Confirmed)

	// refresh-сессия создана и пригодна для ротации
	rotated, err := f.service.Refresh(context.Background(), tokens.RefreshToken.String(), "ua", "ip")
	require.NoError(t, err)
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
}

func TestConfirmOTPResendSupersedes(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.dispatch = &identity.Dispatch{VerificationID: "first"}

	_, err := f.service.SendOTP(context.Background(), "+79991234567", "", "ua", "ip")
	require.NoError(t, err)

	f.provider.dispatch = &identity.Dispatch{VerificationID: "second"}
	_, err = f.service.SendOTP(context.Background(), "+79991234567", "", "ua", "ip")
	require.NoError(t, err)

	_, err = f.service.ConfirmOTP(context.Background(), "first", "123456", "ua", "ip")
	require.ErrorIs(t, err, ErrVerificationNotFound)
	require.Zero(t, f.provider.confirmCalls())
}

func TestConfirmOTPWrongCode(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.dispatch = &identity.Dispatch{VerificationID: "abc123"}
	f.provider.confirmErr = errors.New("INVALID_CODE")

	_, err := f.service.SendOTP(context.Background(), "+79991234567", "", "ua", "ip")
	require.NoError(t, err)

	_, err = f.service.ConfirmOTP(context.Background(), "abc123", "000000", "ua", "ip")

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	require.Equal(t, "INVALID_CODE", providerErr.Message)
	require.Equal(t, 1, f.audit.records["abc123"].Attempts)
}

func TestRefreshRotation(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.dispatch = &identity.Dispatch{
		AutoVerified: &identity.Credential{UID: "uid-1", PhoneNumber: "+79990000000"},
	}

	result, err := f.service.SendOTP(context.Background(), "+79990000000", "", "ua", "ip")
	require.NoError(t, err)

	old := result.Tokens.RefreshToken
	rotated, err := f.service.Refresh(context.Background(), old.String(), "ua", "ip")
	require.NoError(t, err)
	require.NotEqual(t, old, rotated.RefreshToken)

	// старый токен погашен
	_, err = f.service.Refresh(context.Background(), old.String(), "ua", "ip")
	require.ErrorIs(t, err, ErrRefreshSessionNotFound)
}

func TestRefreshExpiredSession(t *testing.T) {
	f := newAuthFixture(t)

	token := uuid.New()
	userID := uuid.New()
	f.refresh.byToken[token] = &domain.RefreshSession{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: token,
		ExpiresIn:    time.Now().Add(-time.Hour),
	}

	_, err := f.service.Refresh(context.Background(), token.String(), "ua", "ip")
	require.ErrorIs(t, err, ErrRefreshSessionExpired)
}

func TestSignOutUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.SignOut(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, ErrRefreshSessionNotFound)

	err = f.service.SignOut(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrRefreshSessionNotFound)
}

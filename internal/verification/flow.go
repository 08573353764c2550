package verification

import (
	"context"
	"strings"

	"github.com/gigs-work/backend/internal/identity"
)

// EmptyVerificationIDMessage возвращается при попытке подтвердить код
// без предварительной отправки.
const EmptyVerificationIDMessage = "Verification ID is empty. Please resend OTP."

// Provider - внешний провайдер подтверждения номеров.
type Provider interface {
	SendCode(ctx context.Context, phoneNumber string, challengeToken string) (*identity.Dispatch, error)
	ConfirmCode(ctx context.Context, verificationID string, code string) (*identity.Credential, error)
}

// Session - одна попытка подтверждения номера. Живёт в Redis на время
// попытки, повторная отправка для того же номера её замещает.
type Session struct {
	VerificationID string `json:"verification_id"`
	PhoneNumber    string `json:"phone_number"`
}

type Flow struct {
	provider Provider
}

func NewFlow(provider Provider) *Flow {
	return &Flow{provider: provider}
}

// NormalizePhone приводит номер к E.164: добавляет ведущий плюс, если
// его нет. Уже нормализованные номера не меняются.
func NormalizePhone(raw string) string {
	if strings.HasPrefix(raw, "+") {
		return raw
	}
	return "+" + raw
}

// Start запрашивает у провайдера отправку кода и возвращает поток
// состояний: initial, затем ровно одно из code_dispatched /
// auto_verified / error. Канал остаётся открытым до отмены ctx,
// отмена снимает горутину-продюсера вместе с вызовом провайдера.
// Повторная отправка - это новый Start, внутренних ретраев нет.
func (f *Flow) Start(ctx context.Context, rawPhone string, challengeToken string) <-chan State {
	states := make(chan State, 1)

	go func() {
		defer close(states)

		if !emit(ctx, states, initialState()) {
			return
		}

		dispatch, err := f.provider.SendCode(ctx, NormalizePhone(rawPhone), challengeToken)
		if err != nil {
			emit(ctx, states, errorState(err.Error()))
			return
		}

		if dispatch.AutoVerified != nil {
			emit(ctx, states, autoVerifiedState(dispatch.AutoVerified))
			return
		}

		emit(ctx, states, codeDispatchedState(dispatch.VerificationID))
	}()

	return states
}

// Confirm обменивает пару (verificationID, code) на credential.
// Поток: initial, затем ровно одно терминальное verified / error.
// С пустым VerificationID провайдер не вызывается вовсе.
func (f *Flow) Confirm(ctx context.Context, session Session, code string) <-chan State {
	states := make(chan State, 1)

	go func() {
		defer close(states)

		if !emit(ctx, states, initialState()) {
			return
		}

		if session.VerificationID == "" {
			emit(ctx, states, errorState(EmptyVerificationIDMessage))
			return
		}

		cred, err := f.provider.ConfirmCode(ctx, session.VerificationID, code)
		if err != nil {
			emit(ctx, states, errorState(err.Error()))
			return
		}

		emit(ctx, states, verifiedState(cred))
	}()

	return states
}

func emit(ctx context.Context, states chan<- State, s State) bool {
	select {
	case states <- s:
		return true
	case <-ctx.Done():
		return false
	}
}

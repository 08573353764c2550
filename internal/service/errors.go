package service

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrVerificationNotFound   = errors.New("verification session not found")
	ErrRefreshSessionNotFound = errors.New("refresh session not found")
	ErrRefreshSessionExpired  = errors.New("refresh session expired")

	ErrCityNotFound = errors.New("city not found")
)

// ProviderError - отказ внешнего провайдера подтверждения номеров.
// Несёт человекочитаемое сообщение для выдачи клиенту; автоматических
// ретраев по ней нет.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

package supabase

import "fmt"

// APIError - ошибка, которую вернула hosted-платформа. Вызывающему
// коду не нужно разбирать вендорный ответ самостоятельно.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: %d %s - %s", e.Status, e.Code, e.Message)
}

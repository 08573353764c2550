package identity

// Credential - результат успешного подтверждения номера у провайдера.
type Credential struct {
	UID         string `json:"uid"`
	PhoneNumber string `json:"phone_number"`
	IDToken     string `json:"id_token"`
}

// Dispatch - ответ провайдера на запрос отправки кода. Заполнено ровно
// одно из двух полей: либо код ушёл по SMS и выдан VerificationID, либо
// номер подтверждён без кода и выдан Credential.
type Dispatch struct {
	VerificationID string
	AutoVerified   *Credential
}

package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	UserNotFoundCode    = 1002
	UserNotFoundMessage = "user not found"

	RefreshSessionNotFoundCode    = 1003
	RefreshSessionNotFoundMessage = "refresh session not found"
	RefreshSessionExpiredCode     = 1004
	RefreshSessionExpiredMessage  = "refresh session expired"

	VerificationNotFoundCode    = 2001
	VerificationNotFoundMessage = "verification session not found, resend the code"
	ProviderRejectedCode        = 2002

	JobNotFoundCode     = 3001
	JobNotFoundMessage  = "job not found"
	CityNotFoundCode    = 3002
	CityNotFoundMessage = "city not found"
	NotJobOwnerCode     = 3003
	NotJobOwnerMessage  = "job belongs to another user"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error_message"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
}

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode:    UnknownErrorCode,
		ErrorMessage: UnknownErrorMessage,
	}

	switch code {
	case UserNotFoundCode:
		errorStruct.ErrorCode = UserNotFoundCode
		errorStruct.ErrorMessage = UserNotFoundMessage
	case RefreshSessionNotFoundCode:
		errorStruct.ErrorCode = RefreshSessionNotFoundCode
		errorStruct.ErrorMessage = RefreshSessionNotFoundMessage
	case RefreshSessionExpiredCode:
		errorStruct.ErrorCode = RefreshSessionExpiredCode
		errorStruct.ErrorMessage = RefreshSessionExpiredMessage
	case VerificationNotFoundCode:
		errorStruct.ErrorCode = VerificationNotFoundCode
		errorStruct.ErrorMessage = VerificationNotFoundMessage
	case JobNotFoundCode:
		errorStruct.ErrorCode = JobNotFoundCode
		errorStruct.ErrorMessage = JobNotFoundMessage
	case CityNotFoundCode:
		errorStruct.ErrorCode = CityNotFoundCode
		errorStruct.ErrorMessage = CityNotFoundMessage
	case NotJobOwnerCode:
		errorStruct.ErrorCode = NotJobOwnerCode
		errorStruct.ErrorMessage = NotJobOwnerMessage
	}

	return errorStruct
}

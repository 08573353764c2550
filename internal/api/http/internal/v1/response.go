package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func errorResponse(c *gin.Context, code ErrorCode) {
	c.AbortWithStatusJSON(http.StatusBadRequest, getErrorStruct(code))
}

func errorResponseWithStatus(c *gin.Context, status int, code ErrorCode) {
	c.AbortWithStatusJSON(status, getErrorStruct(code))
}

// providerErrorResponse отдаёт клиенту сообщение внешнего провайдера
// как есть, под фиксированным кодом.
func providerErrorResponse(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, &ErrorStruct{
		ErrorCode:    ProviderRejectedCode,
		ErrorMessage: ErrorMessage(message),
	})
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]ValidationError, len(verr))
		for i, ferr := range verr {
			out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
		response := ValidationErrorStruct{
			ErrorCode:    6000,
			ErrorMessage: "Validation error",
		}
		response.Errors = out
		c.JSON(http.StatusBadRequest, response)

		return
	}

	c.JSON(http.StatusBadRequest, ValidationErrorStruct{
		ErrorCode:    6000,
		ErrorMessage: "Validation error",
	})
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "Это поле обязательное к заполнению"
	case "email":
		return "Неверный формат почты"
	case "number":
		return "Поле должно иметь числовой формат"
	case "min":
		return fmt.Sprintf("Минимальное количество символов в поле - %v", value)
	case "max":
		return fmt.Sprintf("Максимальное количество символов в поле - %v", value)
	case "phonenumber":
		return "Номер должен состоять из цифр, допускается ведущий +"
	case "uuid":
		return "Поле должно быть UUID"
	}
	return tag
}

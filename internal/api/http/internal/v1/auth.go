package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gigs-work/backend/internal/service"
	"github.com/gigs-work/backend/pkg/logger"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/otp/send", h.sendOTP)
		auth.POST("/otp/confirm", h.confirmOTP)
		auth.POST("/refresh", h.refresh)
		auth.POST("/signout", h.signOut)
		auth.GET("/me", h.userIdentityMiddleware, h.me)
	}
}

type sendOTPRequest struct {
	PhoneNumber    string `json:"phone_number" binding:"required,phonenumber"`
	ChallengeToken string `json:"challenge_token"`
}

type tokensResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken uuid.UUID `json:"refresh_token"`
}

type sendOTPResponse struct {
	Status         string          `json:"status"` // code_dispatched или auto_verified
	VerificationID string          `json:"verification_id,omitempty"`
	PhoneNumber    string          `json:"phone_number"`
	Tokens         *tokensResponse `json:"tokens,omitempty"`
}

// @Summary Send OTP
// @Tags Auth
// @Description Запросить отправку кода подтверждения на номер. Для номеров, подтверждаемых платформой без кода, сразу возвращаются токены.
// @ModuleID sendOTP
// @Accept  json
// @Produce  json
// @Param input body sendOTPRequest true "phone number"
// @Success 200 {object} sendOTPResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/otp/send [post]
func (h *Handler) sendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	result, err := h.services.Auth.SendOTP(c.Request.Context(), req.PhoneNumber, req.ChallengeToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		var providerErr *service.ProviderError
		if errors.As(err, &providerErr) {
			providerErrorResponse(c, providerErr.Message)
			return
		}
		logger.Error("send otp failed", zap.Error(err))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	response := sendOTPResponse{
		Status:         "code_dispatched",
		VerificationID: result.VerificationID,
		PhoneNumber:    result.PhoneNumber,
	}
	if result.Tokens != nil {
		response.Status = "auto_verified"
		response.Tokens = &tokensResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		}
	}

	c.JSON(http.StatusOK, response)
}

type confirmOTPRequest struct {
	VerificationID string `json:"verification_id" binding:"required"`
	Code           string `json:"code" binding:"required,min=4,max=8"`
}

// @Summary Confirm OTP
// @Tags Auth
// @Description Обменять введённый код на пару токенов
// @ModuleID confirmOTP
// @Accept  json
// @Produce  json
// @Param input body confirmOTPRequest true "verification id and code"
// @Success 200 {object} tokensResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/otp/confirm [post]
func (h *Handler) confirmOTP(c *gin.Context) {
	var req confirmOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Auth.ConfirmOTP(c.Request.Context(), req.VerificationID, req.Code, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		var providerErr *service.ProviderError
		switch {
		case errors.Is(err, service.ErrVerificationNotFound):
			errorResponse(c, VerificationNotFoundCode)
		case errors.As(err, &providerErr):
			providerErrorResponse(c, providerErr.Message)
		default:
			logger.Error("confirm otp failed", zap.Error(err))
			errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		}
		return
	}

	c.JSON(http.StatusOK, tokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,uuid"`
}

// @Summary Refresh Tokens
// @Tags Auth
// @Description Обменять refresh-токен на новую пару токенов
// @ModuleID refresh
// @Accept  json
// @Produce  json
// @Param input body refreshRequest true "refresh token"
// @Success 200 {object} tokensResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Auth.Refresh(c.Request.Context(), req.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshSessionNotFound):
			errorResponse(c, RefreshSessionNotFoundCode)
		case errors.Is(err, service.ErrRefreshSessionExpired):
			errorResponse(c, RefreshSessionExpiredCode)
		default:
			logger.Error("refresh failed", zap.Error(err))
			errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		}
		return
	}

	c.JSON(http.StatusOK, tokensResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type signOutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,uuid"`
}

// @Summary Sign Out
// @Tags Auth
// @Description Завершить сессию: refresh-токен гасится
// @ModuleID signOut
// @Accept  json
// @Produce  json
// @Param input body signOutRequest true "refresh token"
// @Success 204
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/signout [post]
func (h *Handler) signOut(c *gin.Context) {
	var req signOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Auth.SignOut(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrRefreshSessionNotFound) {
			errorResponse(c, RefreshSessionNotFoundCode)
			return
		}
		logger.Error("sign out failed", zap.Error(err))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	c.Status(http.StatusNoContent)
}

type meResponse struct {
	ID          string  `json:"id"`
	PhoneNumber string  `json:"phone_number"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	CityID      *string `json:"city_id,omitempty"`
}

// @Summary Current User
// @Tags Auth
// @Description Данные подписанного пользователя
// @ModuleID me
// @Accept  json
// @Produce  json
// @Security UserAuth
// @Success 200 {object} meResponse
// @Failure 401
// @Failure 404 {object} ErrorStruct
// @Router /auth/me [get]
func (h *Handler) me(c *gin.Context) {
	userID, err := h.getUserUUID(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.services.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			errorResponseWithStatus(c, http.StatusNotFound, UserNotFoundCode)
			return
		}
		logger.Error("get current user failed", zap.Error(err))
		errorResponseWithStatus(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	response := meResponse{
		ID:          user.ID.String(),
		PhoneNumber: user.PhoneNumber,
	}
	if user.DisplayName.Valid {
		response.DisplayName = &user.DisplayName.String
	}
	if user.Email.Valid {
		response.Email = &user.Email.String
	}
	if user.CityID != nil {
		cityID := user.CityID.String()
		response.CityID = &cityID
	}

	c.JSON(http.StatusOK, response)
}

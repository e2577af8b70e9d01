package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/interfaces/http/response"
	"github.com/charry07/lavaca-app/internal/usecases"
)

// AuthHandler handles phone verification endpoints
type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
}

func NewAuthHandler(authUsecase *usecases.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// SendCode handles POST /auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var input entities.SendCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("phone is required"))
		return
	}

	result, err := h.authUsecase.SendCode(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// VerifyCode handles POST /auth/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var input entities.VerifyCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("phone and code are required"))
		return
	}

	result, err := h.authUsecase.VerifyCode(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

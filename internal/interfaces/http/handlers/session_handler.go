package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/yeqown/go-qrcode"

	"github.com/charry07/lavaca-app/internal/domain/entities"
	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/interfaces/http/response"
	"github.com/charry07/lavaca-app/internal/usecases"
)

// SessionHandler handles payment session ("mesa") endpoints
type SessionHandler struct {
	sessionUsecase *usecases.SessionUsecase
}

func NewSessionHandler(sessionUsecase *usecases.SessionUsecase) *SessionHandler {
	return &SessionHandler{sessionUsecase: sessionUsecase}
}

// Create handles POST /sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var input entities.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("adminId and a positive totalAmount are required"))
		return
	}

	session, err := h.sessionUsecase.Create(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, session)
}

// Get handles GET /sessions/:joinCode
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessionUsecase.Get(c.Request.Context(), c.Param("joinCode"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// QR handles GET /sessions/:joinCode/qr, returning a PNG encoding the
// join code.
func (h *SessionHandler) QR(c *gin.Context) {
	session, err := h.sessionUsecase.Get(c.Request.Context(), c.Param("joinCode"))
	if err != nil {
		response.Error(c, err)
		return
	}

	qr, err := qrcode.New(session.JoinCode,
		qrcode.WithQRWidth(7),
		qrcode.WithBuiltinImageEncoder(qrcode.PNG_FORMAT),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := qr.SaveTo(&buf); err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Join handles POST /sessions/:joinCode/join
func (h *SessionHandler) Join(c *gin.Context) {
	var input entities.JoinSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("userId and displayName are required"))
		return
	}

	session, err := h.sessionUsecase.Join(c.Request.Context(), c.Param("joinCode"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// Split handles POST /sessions/:joinCode/split
func (h *SessionHandler) Split(c *gin.Context) {
	// The body is optional: only percentage mode needs one.
	var input entities.SplitSessionInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, domainerrors.BadRequest("invalid request body"))
			return
		}
	}

	session, err := h.sessionUsecase.Split(c.Request.Context(), c.Param("joinCode"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// Pay handles POST /sessions/:joinCode/pay
func (h *SessionHandler) Pay(c *gin.Context) {
	var input entities.ConfirmPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest("userId is required"))
		return
	}

	session, err := h.sessionUsecase.ConfirmPayment(c.Request.Context(), c.Param("joinCode"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// ListByUser handles GET /sessions/user/:userId
func (h *SessionHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	sessions, err := h.sessionUsecase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

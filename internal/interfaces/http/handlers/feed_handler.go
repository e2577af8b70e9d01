package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "github.com/charry07/lavaca-app/internal/domain/errors"
	"github.com/charry07/lavaca-app/internal/interfaces/http/response"
	"github.com/charry07/lavaca-app/internal/usecases"
)

// FeedHandler handles activity feed endpoints
type FeedHandler struct {
	feedUsecase *usecases.FeedUsecase
}

func NewFeedHandler(feedUsecase *usecases.FeedUsecase) *FeedHandler {
	return &FeedHandler{feedUsecase: feedUsecase}
}

// List handles GET /feed
func (h *FeedHandler) List(c *gin.Context) {
	events, err := h.feedUsecase.Query(c.Request.Context(), limitParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// ListByUser handles GET /feed/user/:userId
func (h *FeedHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid user id"))
		return
	}

	events, err := h.feedUsecase.QueryByUser(c.Request.Context(), userID, limitParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// limitParam reads ?limit=N; the usecase clamps whatever comes in.
func limitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

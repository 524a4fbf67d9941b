package handlers

import (
	"codequest/internal/logger"
	"codequest/internal/middlewares"
	"codequest/internal/repositories"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChallengeHandler struct {
	challengeRepo repositories.ChallengeRepository
}

// NewChallengeHandler creates a new challenge handler
func NewChallengeHandler(challengeRepo repositories.ChallengeRepository) *ChallengeHandler {
	return &ChallengeHandler{
		challengeRepo: challengeRepo,
	}
}

// GetChallenges returns a list of all challenges with minimal information
func (h *ChallengeHandler) GetChallenges(c *gin.Context) {
	challenges, err := h.challengeRepo.ListChallenges(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to list challenges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve challenges"})
		return
	}

	if userID, ok := middlewares.UserID(c); ok {
		solved, err := h.challengeRepo.GetSolvedChallengeIDs(c.Request.Context(), userID)
		if err != nil {
			logger.Log.Warn("Failed to get solved challenges",
				zap.Int("user_id", userID),
				zap.Error(err))
		} else {
			for i := range challenges {
				challenges[i].IsSolved = solved[challenges[i].ID]
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"challenges": challenges,
	})
}

// GetChallengeByID returns detailed information about a specific challenge
func (h *ChallengeHandler) GetChallengeByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	detail, err := h.challengeRepo.GetChallengeDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
			return
		}
		logger.Log.Error("Failed to get challenge",
			zap.Int("challenge_id", id),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve challenge details"})
		return
	}

	if userID, ok := middlewares.UserID(c); ok {
		solved, err := h.challengeRepo.GetSolvedChallengeIDs(c.Request.Context(), userID)
		if err == nil {
			detail.IsSolved = solved[detail.ID]
		}
	}

	c.JSON(http.StatusOK, detail)
}

// RegisterRoutes registers the challenge handler routes
func (h *ChallengeHandler) RegisterRoutes(router *gin.Engine, optionalAuth gin.HandlerFunc) {
	challengeGroup := router.Group("/challenges", optionalAuth)
	{
		challengeGroup.GET("", h.GetChallenges)
		challengeGroup.GET("/:id", h.GetChallengeByID)
	}
}

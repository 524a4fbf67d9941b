package handlers

import (
	"codequest/internal/logger"
	"codequest/internal/middlewares"
	"codequest/internal/models"
	"codequest/internal/repositories"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultLeaderboardSize = 50

type LeaderboardHandler struct {
	rankingRepo repositories.RankingRepository
}

func NewLeaderboardHandler(rankingRepo repositories.RankingRepository) *LeaderboardHandler {
	return &LeaderboardHandler{rankingRepo: rankingRepo}
}

// GetLeaderboard returns the global ranking in rank order.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := defaultLeaderboardSize
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := h.rankingRepo.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		logger.Log.Error("Failed to get leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

// GetActivity returns the caller's day-keyed activity histogram with the
// current and longest streak, for profile heatmaps.
func (h *LeaderboardHandler) GetActivity(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	history, err := h.rankingRepo.GetActivityHistory(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error("Failed to get activity history",
			zap.Int("user_id", userID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	summary := models.ActivitySummary{History: history}

	ranking, err := h.rankingRepo.GetRanking(c.Request.Context(), userID)
	if err != nil {
		logger.Log.Error("Failed to get ranking",
			zap.Int("user_id", userID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}
	if ranking != nil {
		summary.Streak = ranking.Streak
		summary.LongestStreak = ranking.LongestStreak
	}

	c.JSON(http.StatusOK, summary)
}

func (h *LeaderboardHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.GET("/leaderboard", h.GetLeaderboard)
	router.GET("/activity", auth, h.GetActivity)
}

package handlers

import (
	"codequest/internal/judge"
	"codequest/internal/languages"
	"codequest/internal/logger"
	"codequest/internal/middlewares"
	"codequest/internal/models"
	"codequest/internal/ranking"
	"codequest/internal/repositories"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubmissionHandler struct {
	challengeRepo  repositories.ChallengeRepository
	submissionRepo repositories.SubmissionRepository
	evaluator      *judge.Evaluator
	engine         *ranking.Engine
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(challengeRepo repositories.ChallengeRepository, submissionRepo repositories.SubmissionRepository,
	evaluator *judge.Evaluator, engine *ranking.Engine) *SubmissionHandler {
	return &SubmissionHandler{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		evaluator:      evaluator,
		engine:         engine,
	}
}

// CreateSubmission grades a submission against every test case of the
// challenge and persists the result. Evaluation is synchronous: the caller
// gets the full per-case breakdown in the response.
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	challengeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	var req models.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.ValidateRequest(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	challenge, err := h.challengeRepo.GetChallenge(c.Request.Context(), challengeID)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
			return
		}
		logger.Log.Error("Failed to get challenge",
			zap.Int("challenge_id", challengeID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve challenge"})
		return
	}

	verdict, results, err := h.evaluator.Evaluate(c.Request.Context(), req.SourceCode, languages.Tag(req.Language), challenge)
	if err != nil {
		if errors.Is(err, languages.ErrUnsupportedLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported language: " + req.Language})
			return
		}
		logger.Log.Error("Failed to evaluate submission",
			zap.Int("user_id", userID),
			zap.Int("challenge_id", challengeID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate submission"})
		return
	}

	submission := models.Submission{
		UserID:      userID,
		ChallengeID: challengeID,
		Language:    req.Language,
		SourceCode:  req.SourceCode,
		Status:      verdict,
		TestResults: results,
	}

	if err := h.submissionRepo.CreateSubmission(c.Request.Context(), &submission); err != nil {
		logger.Log.Error("Failed to persist submission",
			zap.Int("user_id", userID),
			zap.Int("challenge_id", challengeID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store submission"})
		return
	}

	// Streak and score move only on a fully solved verdict.
	if verdict == models.StatusSolved {
		if _, err := h.engine.Award(c.Request.Context(), userID, challenge, time.Now()); err != nil {
			logger.Log.Error("Failed to record solve",
				zap.Int("user_id", userID),
				zap.Int("challenge_id", challengeID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record score"})
			return
		}
	}

	c.JSON(http.StatusOK, models.SubmissionResponse{
		SubmissionID:   submission.ID,
		Status:         verdict,
		TestResults:    results,
		AllTestsPassed: verdict == models.StatusSolved,
	})
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	submission, err := h.submissionRepo.GetSubmissionByID(c.Request.Context(), id, userID)
	if err != nil {
		logger.Log.Error("Failed to get submission",
			zap.Int("submission_id", id),
			zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	c.JSON(http.StatusOK, submission)
}

func (h *SubmissionHandler) GetUserSubmissions(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
		return
	}

	challengeID, err := strconv.Atoi(c.Query("challenge_id"))
	if err != nil || challengeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge ID"})
		return
	}

	submissions, err := h.submissionRepo.GetSubmissionsByUserAndChallenge(c.Request.Context(), userID, challengeID)
	if err != nil {
		logger.Log.Error("Failed to get user submissions",
			zap.Int("user_id", userID),
			zap.Int("challenge_id", challengeID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve submission history"})
		return
	}

	for i := range submissions {
		submissions[i].FormattedTime = submissions[i].SubmittedAt.Format("Jan 2, 2006 at 3:04 PM")
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"count":       len(submissions),
	})
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	router.POST("/challenges/:id/submissions", auth, h.CreateSubmission)

	submissionGroup := router.Group("/submissions", auth)
	{
		submissionGroup.GET("/:id", h.GetSubmission)
		submissionGroup.GET("", h.GetUserSubmissions)
	}
}

package handlers

import (
	"errors"
	"io"
	"net/http"

	"ecitizen/models"
	"ecitizen/services/dialogue"
	"ecitizen/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceHandler exposes the dialogue engine to the voice/text frontend.
type VoiceHandler struct {
	DialogueSvc dialogue.DialogueService
	DefaultLang models.Language
	Logger      *zap.Logger
}

func NewVoiceHandler(svc dialogue.DialogueService, defaultLang models.Language, logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{DialogueSvc: svc, DefaultLang: defaultLang, Logger: logger}
}

// CreateSession handles POST /api/session.
func (h *VoiceHandler) CreateSession(c *gin.Context) {
	var req models.SessionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}

	resp, err := h.DialogueSvc.CreateSession(c.Request.Context(), models.ParseLanguage(req.Language, h.DefaultLang))
	if err != nil {
		h.Logger.Error("CreateSession: failed to create session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create session", "please try again")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// HandleUtterance handles POST /api/voice/text.
func (h *VoiceHandler) HandleUtterance(c *gin.Context) {
	var req models.UtteranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "message": err.Error()})
		return
	}
	if !utils.ValidSessionID(req.SessionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	text := utils.SanitizeUtterance(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty utterance"})
		return
	}

	var lang models.Language
	if req.Language != "" {
		lang = models.ParseLanguage(req.Language, h.DefaultLang)
	}

	result, err := h.DialogueSvc.HandleUtterance(c.Request.Context(), req.SessionID, text, lang)
	if errors.Is(err, dialogue.ErrSessionBusy) {
		c.JSON(http.StatusConflict, gin.H{"error": "session is busy with another turn, please retry"})
		return
	}
	if err != nil {
		h.Logger.Error("HandleUtterance: dialogue turn failed",
			zap.String("sessionId", req.SessionID),
			zap.Error(err),
		)
		utils.JSONError(c, http.StatusInternalServerError, "failed to process utterance", "please try again")
		return
	}

	c.JSON(http.StatusOK, models.UtteranceResponse{
		SessionID:          req.SessionID,
		DialogueTurnResult: *result,
	})
}

// GetStatus handles GET /api/session/:sessionID/status.
func (h *VoiceHandler) GetStatus(c *gin.Context) {
	sessionID := c.Param("sessionID")
	status, err := h.DialogueSvc.GetStatus(c.Request.Context(), sessionID)
	if err != nil {
		h.Logger.Error("GetStatus: failed to load session", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load session", "please try again")
		return
	}
	c.JSON(http.StatusOK, status)
}

// CancelSession handles DELETE /api/session/:sessionID.
func (h *VoiceHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if err := h.DialogueSvc.Cancel(c.Request.Context(), sessionID); err != nil {
		h.Logger.Error("CancelSession: failed to cancel session", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel session", "please try again")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "status": "cancelled"})
}

// EndSession handles POST /api/session/:sessionID/end.
func (h *VoiceHandler) EndSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	err := h.DialogueSvc.EndSession(c.Request.Context(), sessionID)
	switch {
	case errors.Is(err, dialogue.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	case errors.Is(err, dialogue.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "session is busy with another turn, please retry"})
		return
	case err != nil:
		h.Logger.Error("EndSession: failed to delete session", zap.String("sessionId", sessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to end session", "please try again")
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID, "status": "ended"})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/smartchef/internal/domain/chef"
	apperrors "github.com/yanqian/smartchef/pkg/errors"
)

// Handler wires the HTTP transport to the chef service.
type Handler struct {
	chefSvc chef.Service
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chefSvc chef.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chefSvc: chefSvc,
		logger:  logger.With("component", "http.handler"),
	}
}

type startSessionRequest struct {
	Language string `json:"language"`
}

type askRequest struct {
	Question string `json:"question"`
}

type speakRequest struct {
	Rate int `json:"rate"`
}

// StartSession opens a new conversation.
func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
			return
		}
	}

	sess, err := h.chefSvc.StartSession(c.Request.Context(), req.Language)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// GetSession returns the session snapshot.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	sess, err := h.chefSvc.Session(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, sess)
}

// EndSession discards the session and any speech it started.
func (h *Handler) EndSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.chefSvc.EndSession(c.Request.Context(), id); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Weather renders the weather panel for a city.
func (h *Handler) Weather(c *gin.Context) {
	report, err := h.chefSvc.Weather(c.Request.Context(), c.Query("city"), c.Query("language"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// GenerateAdvice runs the full advice pipeline for a form submission.
func (h *Handler) GenerateAdvice(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req chef.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}

	resp, err := h.chefSvc.GenerateAdvice(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ask answers a follow-up question.
func (h *Handler) Ask(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
		return
	}

	resp, err := h.chefSvc.Ask(c.Request.Context(), id, req.Question)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns the displayed turns, newest first.
func (h *Handler) History(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	turns, err := h.chefSvc.History(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": turns})
}

// Speak starts reading the current advice aloud.
func (h *Handler) Speak(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req speakRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, errMessage(err), err))
			return
		}
	}

	playback, err := h.chefSvc.Speak(c.Request.Context(), id, req.Rate)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, playback)
}

// StopSpeech stops one playback of the session.
func (h *Handler) StopSpeech(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	playbackID, err := uuid.Parse(c.Param("playbackId"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid playback id", err))
		return
	}
	if err := h.chefSvc.StopSpeech(c.Request.Context(), id, playbackID); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Locales returns the label table for a language.
func (h *Handler) Locales(c *gin.Context) {
	labels, ok := chef.Labels(c.Param("lang"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeNotFound, "unknown language", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": c.Param("lang"), "labels": labels})
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "invalid session id", err))
		return uuid.Nil, false
	}
	return id, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

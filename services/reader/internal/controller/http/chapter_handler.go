package http

import (
	"errors"
	"net/http"

	"readverse/pkg/identity"
	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	"readverse/services/reader/internal/entity"
	"readverse/services/reader/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	readerUseCase usecase.ReaderUseCase
	visitors      *identity.VisitorKeyer
	logger        *logger.Logger
}

func NewChapterHandler(readerUseCase usecase.ReaderUseCase, visitors *identity.VisitorKeyer, logger *logger.Logger) *ChapterHandler {
	return &ChapterHandler{
		readerUseCase: readerUseCase,
		visitors:      visitors,
		logger:        logger,
	}
}

// ReadChapter godoc
// @Summary      Read chapter
// @Description  Serve a chapter if the caller's daily quota allows it. Guests are identified by network address.
// @Tags         chapters
// @Produce      json
// @Security     BearerAuth
// @Param        story_id path string true "Story ID"
// @Param        chapter_id path string true "Chapter ID"
// @Success      200  {object}  entity.AccessDecision
// @Failure      404  {object}  map[string]string
// @Failure      429  {object}  map[string]interface{}
// @Router       /stories/{story_id}/chapters/{chapter_id} [get]
func (h *ChapterHandler) ReadChapter(c *gin.Context) {
	caller := middleware.GetEntitlement(c)

	decision, err := h.readerUseCase.ReadChapter(c.Request.Context(), caller, h.visitorKey(c), c.Param("story_id"), c.Param("chapter_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Quota godoc
// @Summary      Reading quota
// @Description  Chapters counted today against the caller's daily limit
// @Tags         chapters
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Quota
// @Router       /reading/quota [get]
func (h *ChapterHandler) Quota(c *gin.Context) {
	quota, err := h.readerUseCase.Quota(c.Request.Context(), middleware.GetEntitlement(c), h.visitorKey(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":      quota.Role,
		"used":      quota.Used,
		"limit":     quota.Limit,
		"remaining": quota.Remaining(),
		"unlimited": quota.Unlimited,
	})
}

// visitorKey derives the anonymous quota key for anyone resolved as a guest,
// including tokens whose account was deactivated.
func (h *ChapterHandler) visitorKey(c *gin.Context) string {
	if !middleware.GetEntitlement(c).IsGuest() {
		return ""
	}
	return h.visitors.Key(c.ClientIP())
}

func (h *ChapterHandler) writeError(c *gin.Context, err error) {
	var limitErr *entity.LimitReachedError
	switch {
	case errors.As(err, &limitErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": limitErr.Code(), "allowed_chapters": limitErr.Allowed})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.logger.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

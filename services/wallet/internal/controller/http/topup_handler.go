package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxReceiptSize = 5 << 20

type TopupHandler struct {
	topupUseCase usecase.TopupUseCase
	logger       *logger.Logger
}

func NewTopupHandler(topupUseCase usecase.TopupUseCase, logger *logger.Logger) *TopupHandler {
	return &TopupHandler{
		topupUseCase: topupUseCase,
		logger:       logger,
	}
}

type SubmitTopupRequest struct {
	Coins  int     `json:"coins" form:"coins" binding:"required,min=1"`
	Amount float64 `json:"amount" form:"amount" binding:"min=0"`
	Method string  `json:"method" form:"method" binding:"max=50"`
	Note   string  `json:"note" form:"note" binding:"max=500"`
}

type ResolveTopupRequest struct {
	Coins     int    `json:"coins" binding:"omitempty,min=1"`
	AdminNote string `json:"admin_note" binding:"max=500"`
}

// Submit godoc
// @Summary      Submit top-up request
// @Description  Ask an admin to credit coins after a manual bank transfer. Accepts JSON, or multipart with an optional receipt image.
// @Tags         topups
// @Accept       json,mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitTopupRequest true "Requested coins"
// @Success      201  {object}  entity.TopupRequest
// @Failure      400  {object}  map[string]string
// @Router       /wallet/topups [post]
func (h *TopupHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SubmitTopupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.SubmitTopupInput{
		Coins:  req.Coins,
		Amount: req.Amount,
		Method: req.Method,
		Note:   req.Note,
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if file, err := c.FormFile("receipt"); err == nil {
			ext := strings.ToLower(filepath.Ext(file.Filename))
			if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".pdf" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt format. Only jpg, jpeg, png, pdf are allowed"})
				return
			}
			if file.Size > maxReceiptSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Receipt must be 5MB or smaller"})
				return
			}

			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
				return
			}
			defer src.Close()

			contentType := file.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			input.Receipt = &usecase.Receipt{Body: src, Filename: file.Filename, ContentType: contentType}
		}
	}

	topup, err := h.topupUseCase.Submit(c.Request.Context(), userID, input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, topup)
}

// List godoc
// @Summary      List top-up requests
// @Description  Admins may filter by user and status; everyone else sees only their own requests
// @Tags         topups
// @Produce      json
// @Security     BearerAuth
// @Param        user_id query string false "User ID (admin only)"
// @Param        status query string false "pending, approved or rejected"
// @Param        limit query int false "Limit"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/topups [get]
func (h *TopupHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := entity.TopupFilter{
		UserID: c.Query("user_id"),
		Status: entity.TopupStatus(c.Query("status")),
	}

	topups, err := h.topupUseCase.List(c.Request.Context(), middleware.GetEntitlement(c), filter, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topups": topups, "count": len(topups)})
}

// Approve godoc
// @Summary      Approve top-up request
// @Description  Credits the requested coins, or the override in the body, exactly once
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Top-up request ID"
// @Param        request body ResolveTopupRequest false "Optional coin override and note"
// @Success      200  {object}  entity.TopupRequest
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Router       /admin/topups/{id}/approve [post]
func (h *TopupHandler) Approve(c *gin.Context) {
	req, ok := bindOptionalJSON[ResolveTopupRequest](c)
	if !ok {
		return
	}

	topup, err := h.topupUseCase.Approve(c.Request.Context(), middleware.GetEntitlement(c), c.Param("id"), req.Coins, req.AdminNote)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, topup)
}

// Reject godoc
// @Summary      Reject top-up request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Top-up request ID"
// @Param        request body ResolveTopupRequest false "Optional note"
// @Success      200  {object}  entity.TopupRequest
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Router       /admin/topups/{id}/reject [post]
func (h *TopupHandler) Reject(c *gin.Context) {
	req, ok := bindOptionalJSON[ResolveTopupRequest](c)
	if !ok {
		return
	}

	topup, err := h.topupUseCase.Reject(c.Request.Context(), middleware.GetEntitlement(c), c.Param("id"), req.AdminNote)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, topup)
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON[T any](c *gin.Context) (T, bool) {
	var req T
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

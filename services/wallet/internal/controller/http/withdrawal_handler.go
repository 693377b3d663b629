package http

import (
	"net/http"

	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	"readverse/services/wallet/internal/entity"
	"readverse/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	withdrawalUseCase usecase.WithdrawalUseCase
	logger            *logger.Logger
}

func NewWithdrawalHandler(withdrawalUseCase usecase.WithdrawalUseCase, logger *logger.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalUseCase: withdrawalUseCase,
		logger:            logger,
	}
}

type WithdrawalRequest struct {
	Coins   int    `json:"coins" binding:"required,min=1"`
	Method  string `json:"method" binding:"required,max=50"`
	Details string `json:"details" binding:"max=1000"`
}

type ResolveWithdrawalRequest struct {
	Status    string `json:"status" binding:"required,oneof=approved declined processed"`
	AdminNote string `json:"admin_note" binding:"max=500"`
}

// Request godoc
// @Summary      Request withdrawal
// @Description  Authors and admins only. The coins are reserved immediately.
// @Tags         withdrawals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WithdrawalRequest true "Withdrawal"
// @Success      201  {object}  entity.WithdrawalResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /withdrawals [post]
func (h *WithdrawalHandler) Request(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.withdrawalUseCase.RequestWithdrawal(c.Request.Context(), middleware.GetEntitlement(c), req.Coins, req.Method, req.Details)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// List godoc
// @Summary      List withdrawals
// @Tags         withdrawals
// @Produce      json
// @Security     BearerAuth
// @Param        user_id query string false "User ID (admin only)"
// @Param        status query string false "Status"
// @Param        limit query int false "Limit"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /withdrawals [get]
func (h *WithdrawalHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := entity.WithdrawalFilter{
		UserID: c.Query("user_id"),
		Status: entity.WithdrawalStatus(c.Query("status")),
	}

	withdrawals, err := h.withdrawalUseCase.List(c.Request.Context(), middleware.GetEntitlement(c), filter, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals, "count": len(withdrawals)})
}

// Resolve godoc
// @Summary      Resolve withdrawal
// @Description  Declining refunds the reserved coins
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Withdrawal ID"
// @Param        request body ResolveWithdrawalRequest true "New status"
// @Success      200  {object}  entity.Withdrawal
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]interface{}
// @Router       /admin/withdrawals/{id}/resolve [post]
func (h *WithdrawalHandler) Resolve(c *gin.Context) {
	var req ResolveWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	withdrawal, err := h.withdrawalUseCase.Resolve(c.Request.Context(), middleware.GetEntitlement(c), c.Param("id"), entity.WithdrawalStatus(req.Status), req.AdminNote)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

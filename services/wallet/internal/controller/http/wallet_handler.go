package http

import (
	"net/http"

	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	"readverse/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

type AdminCreditRequest struct {
	Coins int    `json:"coins" binding:"required,min=1"`
	Note  string `json:"note" binding:"max=500"`
}

// GetWallet godoc
// @Summary      Get wallet
// @Description  Get the coin balance of the authenticated user, creating an empty wallet on first use
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.Wallet
// @Failure      401  {object}  map[string]string
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID := c.GetString("user_id")

	wallet, err := h.walletUseCase.GetWallet(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

// GetTransactions godoc
// @Summary      Get transactions
// @Description  Get the payment audit history of the authenticated user, newest first
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, offset := parsePagination(c)

	transactions, err := h.walletUseCase.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// AdminCredit godoc
// @Summary      Credit a wallet
// @Description  Admin-only direct credit of coins to a user's wallet
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Param        request body AdminCreditRequest true "Coins to credit"
// @Success      200  {object}  entity.Wallet
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/wallets/{user_id}/credit [post]
func (h *WalletHandler) AdminCredit(c *gin.Context) {
	var req AdminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wallet, err := h.walletUseCase.AdminCredit(c.Request.Context(), middleware.GetEntitlement(c), c.Param("user_id"), req.Coins, req.Note)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, wallet)
}

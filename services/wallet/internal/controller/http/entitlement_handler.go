package http

import (
	"net/http"
	"time"

	"readverse/pkg/entitlement"
	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	"readverse/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type EntitlementHandler struct {
	purchaseUseCase usecase.PurchaseUseCase
	logger          *logger.Logger
}

func NewEntitlementHandler(purchaseUseCase usecase.PurchaseUseCase, logger *logger.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		purchaseUseCase: purchaseUseCase,
		logger:          logger,
	}
}

type PurchaseVIPRequest struct {
	Months    int `json:"months" binding:"min=0"`
	Days      int `json:"days" binding:"min=0"`
	CostCoins int `json:"cost_coins" binding:"min=0"`
}

type PurchaseAuthorRequest struct {
	CostCoins int    `json:"cost_coins" binding:"min=0"`
	PenName   string `json:"pen_name" binding:"max=100"`
}

type SetRoleRequest struct {
	Role     string     `json:"role" binding:"required,oneof=user vip author admin"`
	VIPUntil *time.Time `json:"vip_until"`
}

// PurchaseVIP godoc
// @Summary      Buy VIP
// @Description  Debits the configured price and extends VIP by the given months or days. The coins are returned if the grant fails.
// @Tags         entitlements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseVIPRequest true "VIP term"
// @Success      200  {object}  entity.PurchaseResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /entitlements/vip [post]
func (h *EntitlementHandler) PurchaseVIP(c *gin.Context) {
	var req PurchaseVIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.purchaseUseCase.PurchaseVIP(c.Request.Context(), c.GetString("user_id"), usecase.VIPPurchaseInput{
		Months:    req.Months,
		Days:      req.Days,
		CostCoins: req.CostCoins,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PurchaseAuthor godoc
// @Summary      Buy author status
// @Description  Debits the configured price, promotes the caller to author and creates an author profile
// @Tags         entitlements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PurchaseAuthorRequest true "Author purchase"
// @Success      200  {object}  entity.PurchaseResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /entitlements/author [post]
func (h *EntitlementHandler) PurchaseAuthor(c *gin.Context) {
	var req PurchaseAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.purchaseUseCase.PurchaseAuthor(c.Request.Context(), c.GetString("user_id"), req.CostCoins, req.PenName)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me godoc
// @Summary      Current entitlement
// @Description  Role and VIP expiry as stored right now, regardless of the role inside the token
// @Tags         entitlements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entitlement.Entitlement
// @Router       /entitlements/me [get]
func (h *EntitlementHandler) Me(c *gin.Context) {
	ent, err := h.purchaseUseCase.GetEntitlement(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ent)
}

// SetRole godoc
// @Summary      Assign role
// @Description  Admin-only direct role assignment. vip requires a future vip_until.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id path string true "User ID"
// @Param        request body SetRoleRequest true "Role"
// @Success      200  {object}  entitlement.Entitlement
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{user_id}/role [put]
func (h *EntitlementHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ent, err := h.purchaseUseCase.SetRole(c.Request.Context(), middleware.GetEntitlement(c), c.Param("user_id"), entitlement.Role(req.Role), req.VIPUntil)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ent)
}

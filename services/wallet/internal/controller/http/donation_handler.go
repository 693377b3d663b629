package http

import (
	"net/http"

	"readverse/pkg/logger"
	"readverse/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationUseCase usecase.DonationUseCase
	logger          *logger.Logger
}

func NewDonationHandler(donationUseCase usecase.DonationUseCase, logger *logger.Logger) *DonationHandler {
	return &DonationHandler{
		donationUseCase: donationUseCase,
		logger:          logger,
	}
}

type DonateRequest struct {
	Coins   int    `json:"coins" binding:"required,min=1"`
	Message string `json:"message" binding:"max=500"`
}

// Donate godoc
// @Summary      Donate to story author
// @Description  Moves coins from the reader to the author of the story in one transaction
// @Tags         donations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        story_id path string true "Story ID"
// @Param        request body DonateRequest true "Donation"
// @Success      201  {object}  entity.DonationResult
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /stories/{story_id}/donations [post]
func (h *DonationHandler) Donate(c *gin.Context) {
	userID := c.GetString("user_id")
	storyID := c.Param("story_id")

	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.donationUseCase.Donate(c.Request.Context(), userID, storyID, req.Coins, req.Message)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/services"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// IngestionHandler handles inbound payout notifications
type IngestionHandler struct {
	ingestion *services.IngestionService
}

// NewIngestionHandler creates a new ingestion handler
func NewIngestionHandler(ingestion *services.IngestionService) *IngestionHandler {
	return &IngestionHandler{ingestion: ingestion}
}

// IngestPayout handles POST /payouts/ingest. Delivery is at-least-once, so
// the response is always the partial-success summary, replays included.
func (h *IngestionHandler) IngestPayout(c *gin.Context) {
	var notification models.PayoutNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	result, err := h.ingestion.IngestPayout(&notification)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, result)
}

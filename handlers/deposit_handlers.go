package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/services"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// DepositHandler handles deposit-related HTTP requests
type DepositHandler struct {
	deposits *services.DepositService
	reports  *services.ReportService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(deposits *services.DepositService, reports *services.ReportService) *DepositHandler {
	return &DepositHandler{deposits: deposits, reports: reports}
}

// CreateManualDeposit handles POST /deposits/manual
func (h *DepositHandler) CreateManualDeposit(c *gin.Context) {
	var req models.CreateManualDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	deposit, err := h.deposits.CreateManualDeposit(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deposit)
}

// UpdateManualDeposit handles PATCH /deposits/:id
func (h *DepositHandler) UpdateManualDeposit(c *gin.Context) {
	var req models.UpdateManualDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	deposit, err := h.deposits.UpdateManualDeposit(c.Param("id"), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, deposit)
}

// MarkCompleted handles POST /deposits/:id/complete
func (h *DepositHandler) MarkCompleted(c *gin.Context) {
	deposit, err := h.deposits.MarkCompleted(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, deposit)
}

// MarkFailed handles POST /deposits/:id/fail
func (h *DepositHandler) MarkFailed(c *gin.Context) {
	var req models.MarkFailedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	deposit, err := h.deposits.MarkFailed(c.Param("id"), req.Reason)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, deposit)
}

// GetDepositDetail handles GET /deposits/:id
func (h *DepositHandler) GetDepositDetail(c *gin.Context) {
	detail, err := h.reports.GetDepositDetail(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, detail)
}

// ListDeposits handles GET /deposits
func (h *DepositHandler) ListDeposits(c *gin.Context) {
	filter := models.DepositFilter{
		Type:   models.DepositType(c.Query("type")),
		Status: models.DepositStatus(c.Query("status")),
	}

	summaries, err := h.reports.ListDepositSummaries(filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, summaries)
}

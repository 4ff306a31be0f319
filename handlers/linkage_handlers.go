package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/services"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// LinkageHandler handles deposit-payment linkage HTTP requests
type LinkageHandler struct {
	linkage *services.LinkageService
}

// NewLinkageHandler creates a new linkage handler
func NewLinkageHandler(linkage *services.LinkageService) *LinkageHandler {
	return &LinkageHandler{linkage: linkage}
}

// LinkPayment handles POST /links/create
func (h *LinkageHandler) LinkPayment(c *gin.Context) {
	var req models.LinkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	link, err := h.linkage.LinkPayment(req.PaymentID, req.DepositID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UnlinkPayment handles POST /links/remove
func (h *LinkageHandler) UnlinkPayment(c *gin.Context) {
	var req models.UnlinkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	if err := h.linkage.UnlinkPayment(req.PaymentID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Payment unlinked"})
}

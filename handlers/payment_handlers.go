package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/services"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	ledger  *services.LedgerService
	reports *services.ReportService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(ledger *services.LedgerService, reports *services.ReportService) *PaymentHandler {
	return &PaymentHandler{ledger: ledger, reports: reports}
}

// RecordPayment handles POST /payments/record
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	payment, err := h.ledger.RecordPayment(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// RecordFeeDetails handles POST /payments/fees
func (h *PaymentHandler) RecordFeeDetails(c *gin.Context) {
	var req models.RecordFeeDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.NewValidationError("invalid request body"))
		return
	}

	payment, err := h.ledger.RecordProcessorFeeDetails(req.PaymentID, req.FeeAmount, req.NetAmount)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payment)
}

// GetPayment handles GET /payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	payment, err := h.ledger.GetPayment(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payment)
}

// ListUnsettledPayments handles GET /payments/unsettled
func (h *PaymentHandler) ListUnsettledPayments(c *gin.Context) {
	payments, err := h.ledger.ListUnsettledPayments(paymentFilterFromQuery(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if payments == nil {
		payments = []models.Payment{}
	}
	utils.HandleSuccess(c, payments)
}

// GetPaymentHistory handles GET /payments
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	entries, err := h.reports.GetPaymentHistory(paymentFilterFromQuery(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, entries)
}

// paymentFilterFromQuery reads the optional type/method/since query params
func paymentFilterFromQuery(c *gin.Context) models.PaymentFilter {
	filter := models.PaymentFilter{
		Type:   models.PaymentType(c.Query("type")),
		Method: models.PaymentMethod(c.Query("method")),
	}
	if since := c.Query("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = &t
		}
	}
	return filter
}

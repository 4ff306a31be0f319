package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// LedgerService owns payment records: creation, fee/net backfill and reads.
// Payments are append-only; financial facts are never silently overwritten.
type LedgerService struct {
	payments PaymentStore
}

// NewLedgerService creates a new ledger service
func NewLedgerService(payments PaymentStore) *LedgerService {
	return &LedgerService{payments: payments}
}

// RecordPayment creates a new payment in an unsettled state
func (s *LedgerService) RecordPayment(req *models.RecordPaymentRequest) (*models.Payment, error) {
	paymentType := models.PaymentType(strings.TrimSpace(req.Type))
	if !paymentType.Valid() {
		return nil, utils.NewValidationError("unknown payment type")
	}

	method := models.PaymentMethod(strings.TrimSpace(req.Method))
	if !method.Valid() {
		return nil, utils.NewValidationError("unknown payment method")
	}

	if err := utils.ValidatePositiveAmount(req.GrossAmount, "gross_amount"); err != nil {
		return nil, err
	}

	externalRef := strings.TrimSpace(req.ExternalRef)
	if method == models.PaymentMethodCard && externalRef == "" {
		return nil, utils.NewValidationError("external_ref is required for card payments")
	}

	payment := &models.Payment{
		ID:          uuid.NewString(),
		Type:        paymentType,
		GrossAmount: req.GrossAmount,
		Method:      method,
		PayerName:   strings.TrimSpace(req.PayerName),
		PayerEmail:  strings.TrimSpace(req.PayerEmail),
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   time.Now().UTC(),
	}
	if externalRef != "" {
		payment.ExternalRef = &externalRef
	}

	// Processor checkouts may already know fee and net; manual methods leave
	// both nil until reconciliation backfills them.
	if req.FeeAmount != nil || req.NetAmount != nil {
		if method.Manual() {
			return nil, utils.NewValidationError("fee details cannot be set on manual payment methods at creation")
		}
		if req.FeeAmount == nil || req.NetAmount == nil {
			return nil, utils.NewValidationError("fee_amount and net_amount must be provided together")
		}
		if err := validateFeeDetails(req.GrossAmount, *req.FeeAmount, *req.NetAmount); err != nil {
			return nil, err
		}
		payment.FeeAmount = req.FeeAmount
		payment.NetAmount = req.NetAmount
	}

	if err := s.payments.CreatePayment(payment); err != nil {
		return nil, err
	}

	return payment, nil
}

// RecordProcessorFeeDetails sets fee and net amounts once they are known.
// Replaying identical values is a no-op; divergent values are rejected so
// financial facts are never silently overwritten.
func (s *LedgerService) RecordProcessorFeeDetails(paymentID string, fee, net int64) (*models.Payment, error) {
	payment, err := s.payments.GetPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}

	if payment.FeeAmount != nil || payment.NetAmount != nil {
		if payment.FeeAmount != nil && payment.NetAmount != nil &&
			*payment.FeeAmount == fee && *payment.NetAmount == net {
			return payment, nil
		}
		return nil, utils.NewInvalidStateError("fee details are already set to different values")
	}

	if err := validateFeeDetails(payment.GrossAmount, fee, net); err != nil {
		return nil, err
	}

	if err := s.payments.SetFeeDetails(paymentID, fee, net); err != nil {
		return nil, err
	}

	payment.FeeAmount = &fee
	payment.NetAmount = &net
	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *LedgerService) GetPayment(paymentID string) (*models.Payment, error) {
	return s.payments.GetPaymentByID(paymentID)
}

// GetPaymentByExternalRef retrieves a payment by its processor reference;
// returns (nil, nil) when none exists
func (s *LedgerService) GetPaymentByExternalRef(externalRef string) (*models.Payment, error) {
	if strings.TrimSpace(externalRef) == "" {
		return nil, nil
	}
	return s.payments.GetPaymentByExternalRef(externalRef)
}

// ListUnsettledPayments retrieves payments with no active deposit linkage
func (s *LedgerService) ListUnsettledPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	return s.payments.ListUnsettledPayments(filter)
}

// ListPayments retrieves payments matching the filter
func (s *LedgerService) ListPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	return s.payments.ListPayments(filter)
}

// validateFeeDetails enforces the net-amount identity: net = gross - fee, net >= 0
func validateFeeDetails(gross, fee, net int64) error {
	if err := utils.ValidateNonNegativeAmount(fee, "fee_amount"); err != nil {
		return err
	}
	if err := utils.ValidateNonNegativeAmount(net, "net_amount"); err != nil {
		return err
	}
	if net != gross-fee {
		return utils.NewValidationError("net_amount must equal gross_amount minus fee_amount")
	}
	return nil
}

package services

import (
	"time"

	"github.com/openledgerhq/payrecon-backend/models"
)

// Store interfaces implemented by the Postgres repositories. Services depend
// on these so the business rules can be tested against in-memory stores that
// enforce the same uniqueness constraints as the schema.

// PaymentStore persists payment rows
type PaymentStore interface {
	CreatePayment(payment *models.Payment) error
	GetPaymentByID(paymentID string) (*models.Payment, error)
	// GetPaymentByExternalRef returns (nil, nil) when no payment carries the reference
	GetPaymentByExternalRef(externalRef string) (*models.Payment, error)
	SetFeeDetails(paymentID string, fee, net int64) error
	ListPayments(filter models.PaymentFilter) ([]models.Payment, error)
	ListUnsettledPayments(filter models.PaymentFilter) ([]models.Payment, error)
}

// DepositStore persists deposit rows. UpsertProcessorDeposit must converge
// concurrent calls for one payout id onto a single row.
type DepositStore interface {
	CreateDeposit(deposit *models.Deposit) error
	UpsertProcessorDeposit(newID, payoutID string, amount int64, occurredAt time.Time) (*models.Deposit, error)
	GetDepositByID(depositID string) (*models.Deposit, error)
	UpdateStatus(depositID string, status models.DepositStatus, depositedAt *time.Time, failureReason string) error
	SetDiscrepancy(depositID string, delta *int64) error
	UpdateManualDeposit(depositID string, amount *int64, notes *string) (*models.Deposit, error)
	ListDeposits(filter models.DepositFilter) ([]models.Deposit, error)
}

// LinkageStore persists deposit-payment links; CreateLink must reject a
// second active link for the same payment with a ConflictError.
type LinkageStore interface {
	CreateLink(depositID, paymentID string) (*models.DepositPayment, error)
	DeleteLinkByPaymentID(paymentID string) (bool, error)
	// GetLinkByPaymentID returns (nil, nil) when the payment has no active link
	GetLinkByPaymentID(paymentID string) (*models.DepositPayment, error)
	GetLinksByDepositID(depositID string) ([]models.DepositPayment, error)
}

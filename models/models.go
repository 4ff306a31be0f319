// models/models.go
package models

import "time"

// PaymentType identifies what a payment was collected for.
type PaymentType string

const (
	PaymentTypeTeamFee      PaymentType = "team_fee"
	PaymentTypeCandidateFee PaymentType = "candidate_fee"
	PaymentTypeRefund       PaymentType = "refund"
)

// Valid reports whether t is a known payment type
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeTeamFee, PaymentTypeCandidateFee, PaymentTypeRefund:
		return true
	}
	return false
}

// PaymentMethod identifies how the money came in. Card payments carry an
// external processor reference; cash and check are entered manually by staff.
type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCheck PaymentMethod = "check"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodCheck:
		return true
	}
	return false
}

// Manual reports whether m is a staff-entered method (fee/net unknown until reconciled)
func (m PaymentMethod) Manual() bool {
	return m == PaymentMethodCash || m == PaymentMethodCheck
}

// DepositType distinguishes processor payout batches from manual bank deposits.
type DepositType string

const (
	DepositTypeProcessorPayout DepositType = "processor_payout"
	DepositTypeManual          DepositType = "manual"
)

// DepositStatus tracks a deposit through its lifecycle.
// pending -> completed when the reconciliation gate passes or staff confirm,
// completed -> failed on reversal. failed is terminal.
type DepositStatus string

const (
	DepositStatusPending   DepositStatus = "pending"
	DepositStatusCompleted DepositStatus = "completed"
	DepositStatusFailed    DepositStatus = "failed"
)

// Payment represents a single money-in event from a payer.
// All amounts are integer minor units (cents). Fee and net stay nil for
// manual methods until reconciliation backfills them.
type Payment struct {
	ID          string        `json:"id" db:"id"`
	Type        PaymentType   `json:"type" db:"type"`
	GrossAmount int64         `json:"gross_amount" db:"gross_amount"`
	FeeAmount   *int64        `json:"fee_amount" db:"fee_amount"`
	NetAmount   *int64        `json:"net_amount" db:"net_amount"`
	Method      PaymentMethod `json:"payment_method" db:"payment_method"`
	ExternalRef *string       `json:"external_ref" db:"external_ref"`
	PayerName   string        `json:"payer_name" db:"payer_name"`
	PayerEmail  string        `json:"payer_email" db:"payer_email"`
	Notes       string        `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// Deposit represents a settlement batch that reached the bank account.
// PayoutID is set (and globally unique) for processor payouts; it is the
// idempotency key for ingestion. Discrepancy holds the signed difference
// between the notified total and the linked net sum while they disagree.
type Deposit struct {
	ID            string        `json:"id" db:"id"`
	Type          DepositType   `json:"deposit_type" db:"deposit_type"`
	Status        DepositStatus `json:"status" db:"status"`
	Amount        int64         `json:"amount" db:"amount"`
	PayoutID      *string       `json:"payout_id" db:"payout_id"`
	RecordedBy    string        `json:"recorded_by,omitempty" db:"recorded_by"`
	OccurredAt    time.Time     `json:"occurred_at" db:"occurred_at"`
	DepositedAt   *time.Time    `json:"deposited_at" db:"deposited_at"`
	Discrepancy   *int64        `json:"discrepancy" db:"discrepancy"`
	FailureReason string        `json:"failure_reason,omitempty" db:"failure_reason"`
	Notes         string        `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// DepositPayment associates exactly one payment with exactly one deposit.
// A payment appears in at most one active linkage at a time.
type DepositPayment struct {
	ID        int64     `json:"id" db:"id"`
	DepositID string    `json:"deposit_id" db:"deposit_id"`
	PaymentID string    `json:"payment_id" db:"payment_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RecordPaymentRequest request model
type RecordPaymentRequest struct {
	Type        string `json:"type" binding:"required"`
	GrossAmount int64  `json:"gross_amount" binding:"required"`
	Method      string `json:"payment_method" binding:"required"`
	ExternalRef string `json:"external_ref"`
	FeeAmount   *int64 `json:"fee_amount"`
	NetAmount   *int64 `json:"net_amount"`
	PayerName   string `json:"payer_name"`
	PayerEmail  string `json:"payer_email"`
	Notes       string `json:"notes"`
}

// RecordFeeDetailsRequest request model
type RecordFeeDetailsRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	FeeAmount int64  `json:"fee_amount"`
	NetAmount int64  `json:"net_amount"`
}

// CreateManualDepositRequest request model
type CreateManualDepositRequest struct {
	Amount     int64     `json:"amount" binding:"required"`
	RecordedBy string    `json:"recorded_by" binding:"required"`
	OccurredAt time.Time `json:"occurred_at"`
	Notes      string    `json:"notes"`
}

// UpdateManualDepositRequest request model; nil fields are left unchanged
type UpdateManualDepositRequest struct {
	Amount *int64  `json:"amount,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// MarkFailedRequest request model
type MarkFailedRequest struct {
	Reason string `json:"reason"`
}

// LinkPaymentRequest request model
type LinkPaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	DepositID string `json:"deposit_id" binding:"required"`
}

// UnlinkPaymentRequest request model
type UnlinkPaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

// PaymentFilter narrows payment listings; zero values match everything
type PaymentFilter struct {
	Type   PaymentType
	Method PaymentMethod
	Since  *time.Time
}

// DepositFilter narrows deposit listings; zero values match everything
type DepositFilter struct {
	Type   DepositType
	Status DepositStatus
}

// LinkedPayment is a payment together with its linkage timestamp
type LinkedPayment struct {
	Payment
	LinkedAt time.Time `json:"linked_at"`
}

// DepositDetail is the read-side DTO for one deposit and its payments
type DepositDetail struct {
	Deposit      Deposit         `json:"deposit"`
	Payments     []LinkedPayment `json:"payments"`
	PaymentCount int             `json:"payment_count"`
	LinkedTotal  int64           `json:"linked_total"`
}

// PaymentHistoryEntry is a payment annotated with its settlement state
type PaymentHistoryEntry struct {
	Payment
	Settled   bool    `json:"settled"`
	DepositID *string `json:"deposit_id,omitempty"`
}

// DepositSummary is a deposit annotated with linked payment aggregates
type DepositSummary struct {
	Deposit
	PaymentCount int   `json:"payment_count"`
	LinkedTotal  int64 `json:"linked_total"`
}

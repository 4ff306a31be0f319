package models

import (
	"time"
)

// PayoutTransaction is one member transaction inside a payout notification.
// Fee and net come from the processor's balance transaction and are used to
// backfill payments recorded before settlement details were known.
type PayoutTransaction struct {
	Ref       string `json:"ref" binding:"required"`
	FeeAmount int64  `json:"fee_amount"`
	NetAmount int64  `json:"net_amount"`
}

// PayoutNotification is the inbound payout event from the processor
// integration. Delivery is at-least-once and unordered; TransactionRefs may
// reference payments that do not exist locally yet. Transactions is optional
// and carries per-reference fee/net when the integration resolved them.
type PayoutNotification struct {
	PayoutID        string              `json:"payout_id" binding:"required"`
	TotalAmount     int64               `json:"total_amount" binding:"required"`
	OccurredAt      time.Time           `json:"occurred_at"`
	TransactionRefs []string            `json:"transaction_refs"`
	Transactions    []PayoutTransaction `json:"transactions,omitempty"`
}

// IngestResult summarizes one ingestion run. Partial success is the common
// case, so callers get counts instead of a boolean.
type IngestResult struct {
	DepositID     string   `json:"deposit_id"`
	Matched       int      `json:"matched"`
	AlreadyLinked int      `json:"already_linked"`
	Unmatched     []string `json:"unmatched"`
	Conflicts     []string `json:"conflicts"`
	LinkedTotal   int64    `json:"linked_total"`
	Discrepancy   int64    `json:"discrepancy"`
	Completed     bool     `json:"completed"`
}

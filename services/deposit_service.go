package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// DepositService owns deposit records: manual entry, the idempotent
// processor upsert, and status transitions.
type DepositService struct {
	deposits DepositStore
}

// NewDepositService creates a new deposit service
func NewDepositService(deposits DepositStore) *DepositService {
	return &DepositService{deposits: deposits}
}

// CreateManualDeposit records a staff-entered bank deposit, starting pending
func (s *DepositService) CreateManualDeposit(req *models.CreateManualDepositRequest) (*models.Deposit, error) {
	if err := utils.ValidatePositiveAmount(req.Amount, "amount"); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequired(req.RecordedBy, "recorded_by"); err != nil {
		return nil, err
	}

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	deposit := &models.Deposit{
		ID:         uuid.NewString(),
		Type:       models.DepositTypeManual,
		Status:     models.DepositStatusPending,
		Amount:     req.Amount,
		RecordedBy: strings.TrimSpace(req.RecordedBy),
		OccurredAt: occurredAt,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.deposits.CreateDeposit(deposit); err != nil {
		return nil, err
	}

	return deposit, nil
}

// UpsertProcessorDeposit creates or refreshes the deposit for a payout id.
// This is the single idempotency boundary of the reconciliation pipeline:
// however many times a notification is replayed, one row results.
func (s *DepositService) UpsertProcessorDeposit(payoutID string, amount int64, occurredAt time.Time) (*models.Deposit, error) {
	if err := utils.ValidateRequired(payoutID, "payout_id"); err != nil {
		return nil, err
	}
	if err := utils.ValidatePositiveAmount(amount, "amount"); err != nil {
		return nil, err
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return s.deposits.UpsertProcessorDeposit(uuid.NewString(), strings.TrimSpace(payoutID), amount, occurredAt)
}

// GetDeposit retrieves a deposit by ID
func (s *DepositService) GetDeposit(depositID string) (*models.Deposit, error) {
	return s.deposits.GetDepositByID(depositID)
}

// ListDeposits retrieves deposits matching the filter
func (s *DepositService) ListDeposits(filter models.DepositFilter) ([]models.Deposit, error) {
	return s.deposits.ListDeposits(filter)
}

// MarkCompleted transitions a deposit to completed. Completing an already
// completed deposit is a no-op so replayed ingestion stays idempotent;
// completing a failed deposit is an invalid transition.
func (s *DepositService) MarkCompleted(depositID string) (*models.Deposit, error) {
	deposit, err := s.deposits.GetDepositByID(depositID)
	if err != nil {
		return nil, err
	}

	switch deposit.Status {
	case models.DepositStatusCompleted:
		return deposit, nil
	case models.DepositStatusFailed:
		return nil, utils.NewInvalidStateError("a failed deposit cannot be completed")
	}

	now := time.Now().UTC()
	if err := s.deposits.UpdateStatus(depositID, models.DepositStatusCompleted, &now, ""); err != nil {
		return nil, err
	}

	deposit.Status = models.DepositStatusCompleted
	deposit.DepositedAt = &now
	deposit.FailureReason = ""
	return deposit, nil
}

// MarkFailed transitions a deposit to failed (reversal). Failing an already
// failed deposit is a no-op because reversal events are delivered
// at-least-once.
func (s *DepositService) MarkFailed(depositID, reason string) (*models.Deposit, error) {
	deposit, err := s.deposits.GetDepositByID(depositID)
	if err != nil {
		return nil, err
	}

	if deposit.Status == models.DepositStatusFailed {
		return deposit, nil
	}

	reason = strings.TrimSpace(reason)
	if err := s.deposits.UpdateStatus(depositID, models.DepositStatusFailed, nil, reason); err != nil {
		return nil, err
	}

	deposit.Status = models.DepositStatusFailed
	deposit.FailureReason = reason
	return deposit, nil
}

// UpdateManualDeposit corrects the amount and/or notes of a manual deposit.
// Processor deposits are amended only through ingestion; their payout id and
// amount are not editable here.
func (s *DepositService) UpdateManualDeposit(depositID string, req *models.UpdateManualDepositRequest) (*models.Deposit, error) {
	deposit, err := s.deposits.GetDepositByID(depositID)
	if err != nil {
		return nil, err
	}
	if deposit.Type != models.DepositTypeManual {
		return nil, utils.NewInvalidStateError("only manual deposits can be edited directly")
	}
	if req.Amount != nil {
		if err := utils.ValidatePositiveAmount(*req.Amount, "amount"); err != nil {
			return nil, err
		}
	}

	return s.deposits.UpdateManualDeposit(depositID, req.Amount, req.Notes)
}

// SetDiscrepancy records (delta != nil) or clears (nil) the reconciliation
// delta on a deposit
func (s *DepositService) SetDiscrepancy(depositID string, delta *int64) error {
	return s.deposits.SetDiscrepancy(depositID, delta)
}

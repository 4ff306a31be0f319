package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// DepositRepository handles deposit data operations
type DepositRepository struct {
	db *sql.DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *sql.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

const depositColumns = `id, deposit_type, status, amount, payout_id, recorded_by,
		occurred_at, deposited_at, discrepancy, failure_reason, notes, created_at`

func scanDeposit(row interface {
	Scan(dest ...interface{}) error
}) (*models.Deposit, error) {
	var d models.Deposit
	err := row.Scan(&d.ID, &d.Type, &d.Status, &d.Amount, &d.PayoutID, &d.RecordedBy,
		&d.OccurredAt, &d.DepositedAt, &d.Discrepancy, &d.FailureReason, &d.Notes, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDeposit inserts a new deposit record
func (r *DepositRepository) CreateDeposit(deposit *models.Deposit) error {
	query := `
		INSERT INTO deposits (id, deposit_type, status, amount, payout_id, recorded_by,
			occurred_at, deposited_at, discrepancy, failure_reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(query, deposit.ID, deposit.Type, deposit.Status, deposit.Amount,
		deposit.PayoutID, deposit.RecordedBy, deposit.OccurredAt, deposit.DepositedAt,
		deposit.Discrepancy, deposit.FailureReason, deposit.Notes, deposit.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewConflictError("a deposit with this payout id already exists")
		}
		return err
	}

	return nil
}

// UpsertProcessorDeposit creates the deposit for a payout id, or refreshes
// amount and occurred_at when it already exists. The unique index on
// payout_id makes this the idempotency gate: replayed and concurrent
// notifications for one payout converge on a single row with stable identity.
func (r *DepositRepository) UpsertProcessorDeposit(newID, payoutID string, amount int64, occurredAt time.Time) (*models.Deposit, error) {
	query := `
		INSERT INTO deposits (id, deposit_type, status, amount, payout_id, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (payout_id) WHERE payout_id IS NOT NULL
		DO UPDATE SET amount = EXCLUDED.amount, occurred_at = EXCLUDED.occurred_at
		RETURNING ` + depositColumns + `
	`
	deposit, err := scanDeposit(r.db.QueryRow(query, newID, models.DepositTypeProcessorPayout,
		models.DepositStatusPending, amount, payoutID, occurredAt))
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// GetDepositByID retrieves a deposit by its ID
func (r *DepositRepository) GetDepositByID(depositID string) (*models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE id = $1`
	deposit, err := scanDeposit(r.db.QueryRow(query, depositID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("deposit")
		}
		return nil, err
	}
	return deposit, nil
}

// UpdateStatus transitions a deposit's status. Legality of the transition is
// the service's concern; this only persists it.
func (r *DepositRepository) UpdateStatus(depositID string, status models.DepositStatus, depositedAt *time.Time, failureReason string) error {
	query := `
		UPDATE deposits
		SET status = $2,
		    deposited_at = COALESCE($3, deposited_at),
		    failure_reason = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(query, depositID, status, depositedAt, failureReason)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.NewNotFoundError("deposit")
	}
	return nil
}

// SetDiscrepancy records (or clears, with nil) the reconciliation delta
func (r *DepositRepository) SetDiscrepancy(depositID string, delta *int64) error {
	query := `UPDATE deposits SET discrepancy = $2 WHERE id = $1`
	result, err := r.db.Exec(query, depositID, delta)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.NewNotFoundError("deposit")
	}
	return nil
}

// UpdateManualDeposit corrects amount and/or notes on a manual deposit.
// Nil fields are left unchanged; the payout id is never touched.
func (r *DepositRepository) UpdateManualDeposit(depositID string, amount *int64, notes *string) (*models.Deposit, error) {
	query := `
		UPDATE deposits
		SET amount = COALESCE($2, amount),
		    notes = COALESCE($3, notes)
		WHERE id = $1 AND deposit_type = $4
		RETURNING ` + depositColumns + `
	`
	deposit, err := scanDeposit(r.db.QueryRow(query, depositID, amount, notes, models.DepositTypeManual))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("manual deposit")
		}
		return nil, err
	}
	return deposit, nil
}

// ListDeposits retrieves deposits matching the filter, newest first
func (r *DepositRepository) ListDeposits(filter models.DepositFilter) ([]models.Deposit, error) {
	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE ($1 = '' OR deposit_type = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY occurred_at DESC, created_at DESC
	`
	rows, err := r.db.Query(query, string(filter.Type), string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		deposit, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, *deposit)
	}
	return deposits, rows.Err()
}

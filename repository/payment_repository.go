package repository

import (
	"database/sql"
	"errors"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// PaymentRepository handles payment data operations
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, type, gross_amount, fee_amount, net_amount, payment_method,
		external_ref, payer_name, payer_email, notes, created_at`

func scanPayment(row interface {
	Scan(dest ...interface{}) error
}) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.Type, &p.GrossAmount, &p.FeeAmount, &p.NetAmount,
		&p.Method, &p.ExternalRef, &p.PayerName, &p.PayerEmail, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment inserts a new payment record. The partial unique index on
// external_ref rejects duplicate processor references.
func (r *PaymentRepository) CreatePayment(payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, type, gross_amount, fee_amount, net_amount, payment_method,
			external_ref, payer_name, payer_email, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(query, payment.ID, payment.Type, payment.GrossAmount,
		payment.FeeAmount, payment.NetAmount, payment.Method, payment.ExternalRef,
		payment.PayerName, payment.PayerEmail, payment.Notes, payment.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewConflictError("a payment with this external reference already exists")
		}
		return err
	}

	return nil
}

// GetPaymentByID retrieves a payment by its ID
func (r *PaymentRepository) GetPaymentByID(paymentID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	payment, err := scanPayment(r.db.QueryRow(query, paymentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("payment")
		}
		return nil, err
	}
	return payment, nil
}

// GetPaymentByExternalRef retrieves a payment by its processor reference.
// Returns (nil, nil) when no payment carries the reference; the ingestion
// matcher treats that as an unmatched reference, not an error.
func (r *PaymentRepository) GetPaymentByExternalRef(externalRef string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_ref = $1`
	payment, err := scanPayment(r.db.QueryRow(query, externalRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// SetFeeDetails records processor fee and net amounts for a payment
func (r *PaymentRepository) SetFeeDetails(paymentID string, fee, net int64) error {
	query := `UPDATE payments SET fee_amount = $2, net_amount = $3 WHERE id = $1`
	result, err := r.db.Exec(query, paymentID, fee, net)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.NewNotFoundError("payment")
	}
	return nil
}

// ListPayments retrieves payments matching the filter, newest first
func (r *PaymentRepository) ListPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE ($1 = '' OR type = $1)
		  AND ($2 = '' OR payment_method = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, string(filter.Type), string(filter.Method), filter.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

// ListUnsettledPayments retrieves payments with no active deposit linkage
func (r *PaymentRepository) ListUnsettledPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	query := `
		SELECT p.id, p.type, p.gross_amount, p.fee_amount, p.net_amount, p.payment_method,
			p.external_ref, p.payer_name, p.payer_email, p.notes, p.created_at
		FROM payments p
		LEFT JOIN deposit_payments dp ON dp.payment_id = p.id
		WHERE dp.payment_id IS NULL
		  AND ($1 = '' OR p.type = $1)
		  AND ($2 = '' OR p.payment_method = $2)
		  AND ($3::timestamptz IS NULL OR p.created_at >= $3)
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(query, string(filter.Type), string(filter.Method), filter.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]models.Payment, error) {
	var payments []models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

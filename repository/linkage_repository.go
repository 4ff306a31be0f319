package repository

import (
	"database/sql"
	"errors"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// LinkageRepository handles deposit-payment linkage rows. It is the only
// component that writes them; the unique constraint on payment_id enforces
// at-most-one-deposit-per-payment under concurrent linking.
type LinkageRepository struct {
	db *sql.DB
}

// NewLinkageRepository creates a new linkage repository
func NewLinkageRepository(db *sql.DB) *LinkageRepository {
	return &LinkageRepository{db: db}
}

// CreateLink inserts a linkage row. Returns a ConflictError when the payment
// already has an active link; the caller decides whether that is benign
// (same deposit) or a reconciliation conflict.
func (r *LinkageRepository) CreateLink(depositID, paymentID string) (*models.DepositPayment, error) {
	query := `
		INSERT INTO deposit_payments (deposit_id, payment_id)
		VALUES ($1, $2)
		RETURNING id, deposit_id, payment_id, created_at
	`
	var link models.DepositPayment
	err := r.db.QueryRow(query, depositID, paymentID).Scan(
		&link.ID, &link.DepositID, &link.PaymentID, &link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, utils.NewConflictError("payment is already linked to a deposit")
		}
		return nil, err
	}
	return &link, nil
}

// DeleteLinkByPaymentID removes a payment's active link. Returns whether a
// link existed; deleting a nonexistent link is not an error.
func (r *LinkageRepository) DeleteLinkByPaymentID(paymentID string) (bool, error) {
	query := `DELETE FROM deposit_payments WHERE payment_id = $1`
	result, err := r.db.Exec(query, paymentID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetLinkByPaymentID retrieves a payment's active link, or (nil, nil) if none
func (r *LinkageRepository) GetLinkByPaymentID(paymentID string) (*models.DepositPayment, error) {
	query := `
		SELECT id, deposit_id, payment_id, created_at
		FROM deposit_payments
		WHERE payment_id = $1
	`
	var link models.DepositPayment
	err := r.db.QueryRow(query, paymentID).Scan(
		&link.ID, &link.DepositID, &link.PaymentID, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetLinksByDepositID retrieves all links for a deposit, oldest first
func (r *LinkageRepository) GetLinksByDepositID(depositID string) ([]models.DepositPayment, error) {
	query := `
		SELECT id, deposit_id, payment_id, created_at
		FROM deposit_payments
		WHERE deposit_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, depositID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.DepositPayment
	for rows.Next() {
		var link models.DepositPayment
		if err := rows.Scan(&link.ID, &link.DepositID, &link.PaymentID, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

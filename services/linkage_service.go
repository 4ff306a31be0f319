package services

import (
	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// LinkageService is the only component that associates payments with
// deposits. The at-most-one-deposit-per-payment invariant lives in the
// store's unique constraint; this service classifies the outcomes.
type LinkageService struct {
	payments PaymentStore
	deposits DepositStore
	links    LinkageStore
}

// NewLinkageService creates a new linkage service
func NewLinkageService(payments PaymentStore, deposits DepositStore, links LinkageStore) *LinkageService {
	return &LinkageService{
		payments: payments,
		deposits: deposits,
		links:    links,
	}
}

// LinkPayment associates a payment with a deposit. Linking a payment that is
// already linked to the same deposit is a no-op success; linking one that is
// linked to a different deposit fails with a ConflictError and requires an
// explicit unlink first.
func (s *LinkageService) LinkPayment(paymentID, depositID string) (*models.DepositPayment, error) {
	if _, err := s.payments.GetPaymentByID(paymentID); err != nil {
		return nil, err
	}
	if _, err := s.deposits.GetDepositByID(depositID); err != nil {
		return nil, err
	}

	existing, err := s.links.GetLinkByPaymentID(paymentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.DepositID == depositID {
			return existing, nil
		}
		return nil, utils.NewConflictError("payment is already linked to a different deposit")
	}

	link, err := s.links.CreateLink(depositID, paymentID)
	if err != nil {
		// A concurrent linker may have won the race after our read; re-read
		// and classify instead of surfacing the raw constraint violation.
		if utils.IsConflict(err) {
			raced, readErr := s.links.GetLinkByPaymentID(paymentID)
			if readErr != nil {
				return nil, readErr
			}
			if raced != nil && raced.DepositID == depositID {
				return raced, nil
			}
		}
		return nil, err
	}

	return link, nil
}

// UnlinkPayment removes a payment's active link. Unlinking a payment with no
// link succeeds as a no-op; corrective flows may be retried.
func (s *LinkageService) UnlinkPayment(paymentID string) error {
	_, err := s.links.DeleteLinkByPaymentID(paymentID)
	return err
}

// GetLinkForPayment retrieves a payment's active link, or (nil, nil) if none
func (s *LinkageService) GetLinkForPayment(paymentID string) (*models.DepositPayment, error) {
	return s.links.GetLinkByPaymentID(paymentID)
}

// GetPaymentsForDeposit retrieves the linkage rows for a deposit
func (s *LinkageService) GetPaymentsForDeposit(depositID string) ([]models.DepositPayment, error) {
	return s.links.GetLinksByDepositID(depositID)
}

// GetDepositForPayment retrieves the deposit that settled a payment, or
// (nil, nil) when the payment is unsettled
func (s *LinkageService) GetDepositForPayment(paymentID string) (*models.Deposit, error) {
	link, err := s.links.GetLinkByPaymentID(paymentID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}
	return s.deposits.GetDepositByID(link.DepositID)
}

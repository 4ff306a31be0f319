package services

import (
	"github.com/openledgerhq/payrecon-backend/models"
)

// ReportService is the read-only facade consumed by the presentation layer.
// It composes payments, deposits and linkages into DTOs; all mutation
// happens in the other services.
type ReportService struct {
	ledger   *LedgerService
	deposits *DepositService
	linkage  *LinkageService
}

// NewReportService creates a new report service
func NewReportService(ledger *LedgerService, deposits *DepositService, linkage *LinkageService) *ReportService {
	return &ReportService{
		ledger:   ledger,
		deposits: deposits,
		linkage:  linkage,
	}
}

// GetDepositDetail returns a deposit together with its linked payments
func (s *ReportService) GetDepositDetail(depositID string) (*models.DepositDetail, error) {
	deposit, err := s.deposits.GetDeposit(depositID)
	if err != nil {
		return nil, err
	}

	links, err := s.linkage.GetPaymentsForDeposit(depositID)
	if err != nil {
		return nil, err
	}

	detail := &models.DepositDetail{
		Deposit:  *deposit,
		Payments: []models.LinkedPayment{},
	}

	for _, link := range links {
		payment, err := s.ledger.GetPayment(link.PaymentID)
		if err != nil {
			return nil, err
		}
		detail.Payments = append(detail.Payments, models.LinkedPayment{
			Payment:  *payment,
			LinkedAt: link.CreatedAt,
		})
		if payment.NetAmount != nil {
			detail.LinkedTotal += *payment.NetAmount
		} else {
			detail.LinkedTotal += payment.GrossAmount
		}
	}
	detail.PaymentCount = len(detail.Payments)

	return detail, nil
}

// GetPaymentHistory returns payments annotated with their settlement state
func (s *ReportService) GetPaymentHistory(filter models.PaymentFilter) ([]models.PaymentHistoryEntry, error) {
	payments, err := s.ledger.ListPayments(filter)
	if err != nil {
		return nil, err
	}

	entries := make([]models.PaymentHistoryEntry, 0, len(payments))
	for _, payment := range payments {
		entry := models.PaymentHistoryEntry{Payment: payment}

		link, err := s.linkage.GetLinkForPayment(payment.ID)
		if err != nil {
			return nil, err
		}
		if link != nil {
			entry.Settled = true
			depositID := link.DepositID
			entry.DepositID = &depositID
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// ListDepositSummaries returns deposits annotated with linked payment aggregates
func (s *ReportService) ListDepositSummaries(filter models.DepositFilter) ([]models.DepositSummary, error) {
	deposits, err := s.deposits.ListDeposits(filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.DepositSummary, 0, len(deposits))
	for _, deposit := range deposits {
		summary := models.DepositSummary{Deposit: deposit}

		links, err := s.linkage.GetPaymentsForDeposit(deposit.ID)
		if err != nil {
			return nil, err
		}
		summary.PaymentCount = len(links)

		for _, link := range links {
			payment, err := s.ledger.GetPayment(link.PaymentID)
			if err != nil {
				return nil, err
			}
			if payment.NetAmount != nil {
				summary.LinkedTotal += *payment.NetAmount
			} else {
				summary.LinkedTotal += payment.GrossAmount
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

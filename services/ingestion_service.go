package services

import (
	"log"
	"strings"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// IngestionService consumes payout notifications and drives them through the
// deposit upsert, fee backfill, payment matching and linking, and the
// reconciliation gate. It holds no state of its own: every run re-derives
// the linked set from the store, so replays and partial-failure retries
// converge on the same result.
type IngestionService struct {
	ledger   *LedgerService
	deposits *DepositService
	linkage  *LinkageService
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(ledger *LedgerService, deposits *DepositService, linkage *LinkageService) *IngestionService {
	return &IngestionService{
		ledger:   ledger,
		deposits: deposits,
		linkage:  linkage,
	}
}

// IngestPayout processes one payout notification end to end and returns the
// partial-success summary. Unmatched references and link conflicts are
// reported, never fatal; a single bad reference must not abort the payout.
func (s *IngestionService) IngestPayout(notification *models.PayoutNotification) (*models.IngestResult, error) {
	if err := utils.ValidateRequired(notification.PayoutID, "payout_id"); err != nil {
		return nil, err
	}
	if err := utils.ValidatePositiveAmount(notification.TotalAmount, "total_amount"); err != nil {
		return nil, err
	}

	// Idempotency gate: create-or-fetch the deposit for this payout id. All
	// later steps operate on a stable deposit identity no matter how many
	// times the notification is replayed.
	deposit, err := s.deposits.UpsertProcessorDeposit(
		notification.PayoutID, notification.TotalAmount, notification.OccurredAt)
	if err != nil {
		return nil, err
	}

	result := &models.IngestResult{
		DepositID: deposit.ID,
		Unmatched: []string{},
		Conflicts: []string{},
	}

	s.backfillFeeDetails(notification)

	for _, ref := range collectRefs(notification) {
		payment, err := s.ledger.GetPaymentByExternalRef(ref)
		if err != nil {
			return nil, err
		}
		if payment == nil {
			// The organization may have processor transactions with no local
			// mirror, or the payment may simply not be recorded yet.
			log.Printf("payout %s: no local payment for reference %s", notification.PayoutID, ref)
			result.Unmatched = append(result.Unmatched, ref)
			continue
		}

		existing, err := s.linkage.GetLinkForPayment(payment.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.DepositID == deposit.ID {
				result.AlreadyLinked++
				continue
			}
			log.Printf("payout %s: payment %s already linked to deposit %s", notification.PayoutID, payment.ID, existing.DepositID)
			result.Conflicts = append(result.Conflicts, ref)
			continue
		}

		if _, err := s.linkage.LinkPayment(payment.ID, deposit.ID); err != nil {
			if utils.IsConflict(err) {
				log.Printf("payout %s: lost linking race for payment %s", notification.PayoutID, payment.ID)
				result.Conflicts = append(result.Conflicts, ref)
				continue
			}
			return nil, err
		}
		result.Matched++
	}

	linkedTotal, err := s.sumLinkedNet(deposit.ID)
	if err != nil {
		return nil, err
	}
	result.LinkedTotal = linkedTotal

	// Reconciliation gate: the deposit completes only when the linked net
	// sum equals the notified total exactly. Any difference stays visible on
	// the deposit until resolved.
	delta := notification.TotalAmount - linkedTotal
	if delta == 0 {
		if err := s.deposits.SetDiscrepancy(deposit.ID, nil); err != nil {
			return nil, err
		}
		if deposit.Status != models.DepositStatusFailed {
			completed, err := s.deposits.MarkCompleted(deposit.ID)
			if err != nil {
				return nil, err
			}
			result.Completed = completed.Status == models.DepositStatusCompleted
		}
	} else {
		result.Discrepancy = delta
		if err := s.deposits.SetDiscrepancy(deposit.ID, &delta); err != nil {
			return nil, err
		}
	}

	log.Printf("payout %s ingested: deposit=%s matched=%d already_linked=%d unmatched=%d conflicts=%d discrepancy=%d completed=%v",
		notification.PayoutID, deposit.ID, result.Matched, result.AlreadyLinked,
		len(result.Unmatched), len(result.Conflicts), result.Discrepancy, result.Completed)

	return result, nil
}

// backfillFeeDetails records fee/net for payments named in the notification's
// transaction details. Failures here are reported in logs only: an unknown
// reference becomes unmatched later, and divergent facts are left for manual
// review rather than overwritten.
func (s *IngestionService) backfillFeeDetails(notification *models.PayoutNotification) {
	for _, tx := range notification.Transactions {
		payment, err := s.ledger.GetPaymentByExternalRef(tx.Ref)
		if err != nil {
			log.Printf("payout %s: failed to resolve reference %s for fee backfill: %v", notification.PayoutID, tx.Ref, err)
			continue
		}
		if payment == nil {
			continue
		}

		if _, err := s.ledger.RecordProcessorFeeDetails(payment.ID, tx.FeeAmount, tx.NetAmount); err != nil {
			log.Printf("payout %s: fee backfill for payment %s rejected: %v", notification.PayoutID, payment.ID, err)
		}
	}
}

// sumLinkedNet re-derives the linked payment total for a deposit from the
// store. Net amounts are used when known, gross otherwise (manual methods
// may not have fee data yet).
func (s *IngestionService) sumLinkedNet(depositID string) (int64, error) {
	links, err := s.linkage.GetPaymentsForDeposit(depositID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, link := range links {
		payment, err := s.ledger.GetPayment(link.PaymentID)
		if err != nil {
			return 0, err
		}
		if payment.NetAmount != nil {
			total += *payment.NetAmount
		} else {
			total += payment.GrossAmount
		}
	}
	return total, nil
}

// collectRefs merges the plain reference list with the references named in
// the transaction details, deduplicated in arrival order
func collectRefs(notification *models.PayoutNotification) []string {
	seen := make(map[string]bool)
	var refs []string

	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || seen[ref] {
			return
		}
		seen[ref] = true
		refs = append(refs, ref)
	}

	for _, ref := range notification.TransactionRefs {
		add(ref)
	}
	for _, tx := range notification.Transactions {
		add(tx.Ref)
	}
	return refs
}

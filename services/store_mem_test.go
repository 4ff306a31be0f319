package services

import (
	"sort"
	"sync"
	"time"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

// memStore is an in-memory implementation of the store interfaces for tests.
// It enforces the same uniqueness rules the SQL schema carries: unique
// payment external_ref, unique deposit payout_id, and at most one active
// link per payment.
type memStore struct {
	mu         sync.Mutex
	payments   map[string]models.Payment
	deposits   map[string]models.Deposit
	links      map[string]models.DepositPayment // keyed by payment id
	nextLinkID int64
}

func newMemStore() *memStore {
	return &memStore{
		payments: make(map[string]models.Payment),
		deposits: make(map[string]models.Deposit),
		links:    make(map[string]models.DepositPayment),
	}
}

// newTestServices wires all services against one shared in-memory store
func newTestServices() (*LedgerService, *DepositService, *LinkageService, *IngestionService, *ReportService) {
	store := newMemStore()
	ledger := NewLedgerService(store)
	deposits := NewDepositService(store)
	linkage := NewLinkageService(store, store, store)
	ingestion := NewIngestionService(ledger, deposits, linkage)
	reports := NewReportService(ledger, deposits, linkage)
	return ledger, deposits, linkage, ingestion, reports
}

// --- PaymentStore ---

func (m *memStore) CreatePayment(payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if payment.ExternalRef != nil {
		for _, existing := range m.payments {
			if existing.ExternalRef != nil && *existing.ExternalRef == *payment.ExternalRef {
				return utils.NewConflictError("a payment with this external reference already exists")
			}
		}
	}

	m.payments[payment.ID] = *payment
	return nil
}

func (m *memStore) GetPaymentByID(paymentID string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment, ok := m.payments[paymentID]
	if !ok {
		return nil, utils.NewNotFoundError("payment")
	}
	return &payment, nil
}

func (m *memStore) GetPaymentByExternalRef(externalRef string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, payment := range m.payments {
		if payment.ExternalRef != nil && *payment.ExternalRef == externalRef {
			p := payment
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) SetFeeDetails(paymentID string, fee, net int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	payment, ok := m.payments[paymentID]
	if !ok {
		return utils.NewNotFoundError("payment")
	}
	payment.FeeAmount = &fee
	payment.NetAmount = &net
	m.payments[paymentID] = payment
	return nil
}

func (m *memStore) ListPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var payments []models.Payment
	for _, payment := range m.payments {
		if matchesPaymentFilter(payment, filter) {
			payments = append(payments, payment)
		}
	}
	sortPaymentsNewestFirst(payments)
	return payments, nil
}

func (m *memStore) ListUnsettledPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var payments []models.Payment
	for id, payment := range m.payments {
		if _, linked := m.links[id]; linked {
			continue
		}
		if matchesPaymentFilter(payment, filter) {
			payments = append(payments, payment)
		}
	}
	sortPaymentsNewestFirst(payments)
	return payments, nil
}

func matchesPaymentFilter(payment models.Payment, filter models.PaymentFilter) bool {
	if filter.Type != "" && payment.Type != filter.Type {
		return false
	}
	if filter.Method != "" && payment.Method != filter.Method {
		return false
	}
	if filter.Since != nil && payment.CreatedAt.Before(*filter.Since) {
		return false
	}
	return true
}

func sortPaymentsNewestFirst(payments []models.Payment) {
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
}

// --- DepositStore ---

func (m *memStore) CreateDeposit(deposit *models.Deposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if deposit.PayoutID != nil {
		for _, existing := range m.deposits {
			if existing.PayoutID != nil && *existing.PayoutID == *deposit.PayoutID {
				return utils.NewConflictError("a deposit with this payout id already exists")
			}
		}
	}

	m.deposits[deposit.ID] = *deposit
	return nil
}

func (m *memStore) UpsertProcessorDeposit(newID, payoutID string, amount int64, occurredAt time.Time) (*models.Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.deposits {
		if existing.PayoutID != nil && *existing.PayoutID == payoutID {
			existing.Amount = amount
			existing.OccurredAt = occurredAt
			m.deposits[id] = existing
			d := existing
			return &d, nil
		}
	}

	deposit := models.Deposit{
		ID:         newID,
		Type:       models.DepositTypeProcessorPayout,
		Status:     models.DepositStatusPending,
		Amount:     amount,
		PayoutID:   &payoutID,
		OccurredAt: occurredAt,
		CreatedAt:  time.Now().UTC(),
	}
	m.deposits[newID] = deposit
	return &deposit, nil
}

func (m *memStore) GetDepositByID(depositID string) (*models.Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deposit, ok := m.deposits[depositID]
	if !ok {
		return nil, utils.NewNotFoundError("deposit")
	}
	return &deposit, nil
}

func (m *memStore) UpdateStatus(depositID string, status models.DepositStatus, depositedAt *time.Time, failureReason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	deposit, ok := m.deposits[depositID]
	if !ok {
		return utils.NewNotFoundError("deposit")
	}
	deposit.Status = status
	if depositedAt != nil {
		deposit.DepositedAt = depositedAt
	}
	deposit.FailureReason = failureReason
	m.deposits[depositID] = deposit
	return nil
}

func (m *memStore) SetDiscrepancy(depositID string, delta *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	deposit, ok := m.deposits[depositID]
	if !ok {
		return utils.NewNotFoundError("deposit")
	}
	deposit.Discrepancy = delta
	m.deposits[depositID] = deposit
	return nil
}

func (m *memStore) UpdateManualDeposit(depositID string, amount *int64, notes *string) (*models.Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deposit, ok := m.deposits[depositID]
	if !ok || deposit.Type != models.DepositTypeManual {
		return nil, utils.NewNotFoundError("manual deposit")
	}
	if amount != nil {
		deposit.Amount = *amount
	}
	if notes != nil {
		deposit.Notes = *notes
	}
	m.deposits[depositID] = deposit
	return &deposit, nil
}

func (m *memStore) ListDeposits(filter models.DepositFilter) ([]models.Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deposits []models.Deposit
	for _, deposit := range m.deposits {
		if filter.Type != "" && deposit.Type != filter.Type {
			continue
		}
		if filter.Status != "" && deposit.Status != filter.Status {
			continue
		}
		deposits = append(deposits, deposit)
	}
	sort.Slice(deposits, func(i, j int) bool {
		return deposits[i].OccurredAt.After(deposits[j].OccurredAt)
	})
	return deposits, nil
}

// --- LinkageStore ---

func (m *memStore) CreateLink(depositID, paymentID string) (*models.DepositPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[paymentID]; exists {
		return nil, utils.NewConflictError("payment is already linked to a deposit")
	}

	m.nextLinkID++
	link := models.DepositPayment{
		ID:        m.nextLinkID,
		DepositID: depositID,
		PaymentID: paymentID,
		CreatedAt: time.Now().UTC(),
	}
	m.links[paymentID] = link
	return &link, nil
}

func (m *memStore) DeleteLinkByPaymentID(paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[paymentID]; !exists {
		return false, nil
	}
	delete(m.links, paymentID)
	return true, nil
}

func (m *memStore) GetLinkByPaymentID(paymentID string) (*models.DepositPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[paymentID]
	if !ok {
		return nil, nil
	}
	return &link, nil
}

func (m *memStore) GetLinksByDepositID(depositID string) ([]models.DepositPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var links []models.DepositPayment
	for _, link := range m.links {
		if link.DepositID == depositID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

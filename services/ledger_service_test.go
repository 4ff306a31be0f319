package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openledgerhq/payrecon-backend/models"
	"github.com/openledgerhq/payrecon-backend/utils"
)

func int64Ptr(v int64) *int64 { return &v }

func TestLedgerService_RecordPayment_CardWithFeeDetails(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	payment, err := ledger.RecordPayment(&models.RecordPaymentRequest{
		Type:        "team_fee",
		GrossAmount: 10000,
		Method:      "card",
		ExternalRef: "ch_abc123",
		FeeAmount:   int64Ptr(320),
		NetAmount:   int64Ptr(9680),
		PayerName:   "Dana Muir",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, models.PaymentTypeTeamFee, payment.Type)
	assert.Equal(t, models.PaymentMethodCard, payment.Method)
	assert.Equal(t, int64(10000), payment.GrossAmount)
	assert.Equal(t, int64(320), *payment.FeeAmount)
	assert.Equal(t, int64(9680), *payment.NetAmount)
	assert.Equal(t, "ch_abc123", *payment.ExternalRef)
}

func TestLedgerService_RecordPayment_ManualMethodLeavesFeesUnset(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	payment, err := ledger.RecordPayment(&models.RecordPaymentRequest{
		Type:        "candidate_fee",
		GrossAmount: 5000,
		Method:      "check",
		PayerName:   "Sam Ortiz",
	})

	assert.NoError(t, err)
	assert.Nil(t, payment.FeeAmount)
	assert.Nil(t, payment.NetAmount)
	assert.Nil(t, payment.ExternalRef)
}

func TestLedgerService_RecordPayment_Validation(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	tests := []struct {
		name string
		req  models.RecordPaymentRequest
	}{
		{"unknown type", models.RecordPaymentRequest{Type: "donation", GrossAmount: 100, Method: "cash"}},
		{"unknown method", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: 100, Method: "wire"}},
		{"zero amount", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: 0, Method: "cash"}},
		{"negative amount", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: -500, Method: "cash"}},
		{"card without external ref", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: 100, Method: "card"}},
		{"fee without net", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: 100, Method: "card", ExternalRef: "ch_1", FeeAmount: int64Ptr(3)}},
		{"fee details on manual method", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: 100, Method: "cash", FeeAmount: int64Ptr(3), NetAmount: int64Ptr(97)}},
		{"net breaks identity", models.RecordPaymentRequest{Type: "team_fee", GrossAmount: 100, Method: "card", ExternalRef: "ch_1", FeeAmount: int64Ptr(3), NetAmount: int64Ptr(98)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := ledger.RecordPayment(&tt.req)
			assert.Nil(t, payment)
			assert.True(t, utils.IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestLedgerService_RecordPayment_DuplicateExternalRef(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	_, err := ledger.RecordPayment(&models.RecordPaymentRequest{
		Type: "team_fee", GrossAmount: 100, Method: "card", ExternalRef: "ch_dup",
	})
	assert.NoError(t, err)

	_, err = ledger.RecordPayment(&models.RecordPaymentRequest{
		Type: "team_fee", GrossAmount: 200, Method: "card", ExternalRef: "ch_dup",
	})
	assert.True(t, utils.IsConflict(err))
}

func TestLedgerService_RecordProcessorFeeDetails(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	payment, err := ledger.RecordPayment(&models.RecordPaymentRequest{
		Type: "team_fee", GrossAmount: 10000, Method: "card", ExternalRef: "ch_fees",
	})
	assert.NoError(t, err)

	updated, err := ledger.RecordProcessorFeeDetails(payment.ID, 300, 9700)
	assert.NoError(t, err)
	assert.Equal(t, int64(300), *updated.FeeAmount)
	assert.Equal(t, int64(9700), *updated.NetAmount)

	// Replaying the same values is a no-op
	replayed, err := ledger.RecordProcessorFeeDetails(payment.ID, 300, 9700)
	assert.NoError(t, err)
	assert.Equal(t, int64(9700), *replayed.NetAmount)

	// Divergent values must never overwrite recorded facts
	_, err = ledger.RecordProcessorFeeDetails(payment.ID, 400, 9600)
	assert.True(t, utils.IsInvalidState(err))
}

func TestLedgerService_RecordProcessorFeeDetails_Validation(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	payment, err := ledger.RecordPayment(&models.RecordPaymentRequest{
		Type: "team_fee", GrossAmount: 10000, Method: "card", ExternalRef: "ch_v",
	})
	assert.NoError(t, err)

	_, err = ledger.RecordProcessorFeeDetails(payment.ID, -1, 10001)
	assert.True(t, utils.IsValidation(err))

	_, err = ledger.RecordProcessorFeeDetails(payment.ID, 300, 9600)
	assert.True(t, utils.IsValidation(err), "net must equal gross minus fee")

	_, err = ledger.RecordProcessorFeeDetails("missing-id", 300, 9700)
	assert.True(t, utils.IsNotFound(err))
}

func TestLedgerService_GetPaymentByExternalRef(t *testing.T) {
	ledger, _, _, _, _ := newTestServices()

	recorded, err := ledger.RecordPayment(&models.RecordPaymentRequest{
		Type: "refund", GrossAmount: 2500, Method: "card", ExternalRef: "ch_lookup",
	})
	assert.NoError(t, err)

	found, err := ledger.GetPaymentByExternalRef("ch_lookup")
	assert.NoError(t, err)
	assert.Equal(t, recorded.ID, found.ID)

	missing, err := ledger.GetPaymentByExternalRef("ch_nothing")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	blank, err := ledger.GetPaymentByExternalRef("   ")
	assert.NoError(t, err)
	assert.Nil(t, blank)
}

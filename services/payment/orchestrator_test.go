package payment

import (
	"context"
	"testing"

	"pawhaven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOrchestrator(t *testing.T, gw *fakeGateway) (*Orchestrator, *fakeContractorRepo, *fakeClientRepo) {
	t.Helper()
	contractors := newFakeContractorRepo()
	clients := newFakeClientRepo()
	orc := NewOrchestrator(gw, testFees, "test", contractors, clients, zap.NewNop())
	return orc, contractors, clients
}

func seedParties(gw *fakeGateway, contractors *fakeContractorRepo, clients *fakeClientRepo) {
	gw.addAccount("acct_1", true)
	gw.addCustomer("cus_1")
	contractors.add(&models.Contractor{
		ID:    "ct_1",
		Email: "walker@example.com",
		PayoutAccount: models.PayoutAccountRef{
			AccountID:      "acct_1",
			Mode:           "test",
			ChargesEnabled: true,
		},
	})
	clients.add(&models.Client{
		ID:    "cl_1",
		Email: "owner@example.com",
		Name:  "Dana",
		PaymentCustomer: models.PaymentCustomerRef{
			CustomerID: "cus_1",
			Mode:       "test",
		},
	})
}

func TestCreateIntent(t *testing.T) {
	gw := newFakeGateway()
	orc, contractors, clients := newTestOrchestrator(t, gw)
	seedParties(gw, contractors, clients)

	res, err := orc.CreateIntent(context.Background(), models.CreateIntentRequest{
		Amount:            100,
		Currency:          "usd",
		ClientID:          "cl_1",
		ContractorID:      "ct_1",
		BaseServiceAmount: 100,
		BookingID:         "bk_1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.IntentID)
	assert.NotEmpty(t, res.ClientSecret)
	assert.False(t, res.Replaced)

	intent := gw.intents[res.IntentID]
	require.NotNil(t, intent)
	assert.Equal(t, IntentStatusRequiresPaymentMethod, intent.Status)
	assert.Equal(t, 100.0, intent.Amount)
	// Contractor keeps the full base amount.
	assert.Equal(t, 100.0, intent.TransferAmount)
	assert.Equal(t, "acct_1", intent.DestinationAccountID)
	assert.Equal(t, "cus_1", intent.CustomerID)
	assert.Equal(t, "5.00", intent.Metadata["platformFee"])
	assert.Equal(t, "bk_1", intent.Metadata["bookingId"])
}

func TestCreateIntentContractorNotFound(t *testing.T) {
	gw := newFakeGateway()
	orc, _, clients := newTestOrchestrator(t, gw)
	clients.add(&models.Client{ID: "cl_1", Email: "owner@example.com"})

	_, err := orc.CreateIntent(context.Background(), models.CreateIntentRequest{
		Amount:       50,
		ClientID:     "cl_1",
		ContractorID: "nobody",
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "contractor", notFound.Kind)
}

func TestCreateIntentNoPayoutAccount(t *testing.T) {
	gw := newFakeGateway()
	orc, contractors, clients := newTestOrchestrator(t, gw)
	contractors.add(&models.Contractor{ID: "ct_1", Email: "walker@example.com"})
	clients.add(&models.Client{ID: "cl_1", Email: "owner@example.com"})

	_, err := orc.CreateIntent(context.Background(), models.CreateIntentRequest{
		Amount:       50,
		ClientID:     "cl_1",
		ContractorID: "ct_1",
	})
	var noPayout *NoPayoutAccountError
	require.ErrorAs(t, err, &noPayout)
}

func TestCreateIntentComputationErrorIssuesNoExternalCall(t *testing.T) {
	gw := newFakeGateway()
	orc, contractors, clients := newTestOrchestrator(t, gw)
	seedParties(gw, contractors, clients)

	// Legacy path: total too small to cover fees.
	_, err := orc.CreateIntent(context.Background(), models.CreateIntentRequest{
		Amount:       0.25,
		ClientID:     "cl_1",
		ContractorID: "ct_1",
	})
	var compErr *ComputationError
	require.ErrorAs(t, err, &compErr)
	assert.Zero(t, gw.callCount(), "fee rejection must short-circuit before the processor")
}

func TestUpdateIntentInPlaceWhileUnauthorized(t *testing.T) {
	gw := newFakeGateway()
	orc, _, _ := newTestOrchestrator(t, gw)

	for _, status := range []string{IntentStatusRequiresPaymentMethod, IntentStatusRequiresConfirmation, IntentStatusRequiresAction} {
		gw.addIntent("pi_"+status, status, 100)

		res, err := orc.UpdateIntent(context.Background(), models.UpdateIntentRequest{
			IntentID:          "pi_" + status,
			NewAmount:         150,
			BaseServiceAmount: 150,
		})
		require.NoError(t, err, "status %s", status)
		assert.Equal(t, "pi_"+status, res.IntentID, "same intent id must persist")
		assert.False(t, res.Replaced)
		assert.Equal(t, 150.0, gw.intents["pi_"+status].Amount)
	}
}

func TestUpdateIntentReplacesWhenAuthorized(t *testing.T) {
	gw := newFakeGateway()
	orc, _, _ := newTestOrchestrator(t, gw)
	gw.addIntent("pi_old", IntentStatusRequiresCapture, 100)

	res, err := orc.UpdateIntent(context.Background(), models.UpdateIntentRequest{
		IntentID:          "pi_old",
		NewAmount:         150,
		BaseServiceAmount: 150,
	})
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assert.NotEqual(t, "pi_old", res.IntentID)

	// The predecessor must end up canceled before the successor exists.
	assert.Equal(t, IntentStatusCanceled, gw.intents["pi_old"].Status)
	replacement := gw.intents[res.IntentID]
	require.NotNil(t, replacement)
	assert.Equal(t, 150.0, replacement.Amount)
	// Destination and customer carry over from the predecessor.
	assert.Equal(t, "acct_seed", replacement.DestinationAccountID)
	assert.Equal(t, "cus_seed", replacement.CustomerID)
}

func TestUpdateIntentRejectsFinalStates(t *testing.T) {
	gw := newFakeGateway()
	orc, _, _ := newTestOrchestrator(t, gw)
	gw.addIntent("pi_done", IntentStatusSucceeded, 100)
	gw.addIntent("pi_gone", IntentStatusCanceled, 100)

	for _, id := range []string{"pi_done", "pi_gone"} {
		_, err := orc.UpdateIntent(context.Background(), models.UpdateIntentRequest{IntentID: id, NewAmount: 150})
		var notReady *NotReadyError
		require.ErrorAs(t, err, &notReady)
	}
}

func TestCancelIntentIdempotent(t *testing.T) {
	gw := newFakeGateway()
	orc, _, _ := newTestOrchestrator(t, gw)
	gw.addIntent("pi_1", IntentStatusRequiresCapture, 100)

	res, err := orc.CancelIntent(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, IntentStatusCanceled, res.Status)

	// Cancelling again is tolerated and surfaced as success.
	res, err = orc.CancelIntent(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, IntentStatusCanceled, res.Status)
}

func TestUpdateIntentEditWhileRequiresConfirmation(t *testing.T) {
	// Booking edited from $100 to $150 while still requires_confirmation:
	// same id, amount becomes 150, not replaced.
	gw := newFakeGateway()
	orc, _, _ := newTestOrchestrator(t, gw)
	gw.addIntent("pi_edit", IntentStatusRequiresConfirmation, 100)

	res, err := orc.UpdateIntent(context.Background(), models.UpdateIntentRequest{
		IntentID:          "pi_edit",
		NewAmount:         150,
		BaseServiceAmount: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_edit", res.IntentID)
	assert.False(t, res.Replaced)
	assert.Equal(t, 150.0, gw.intents["pi_edit"].Amount)
	assert.Equal(t, 150.0, gw.intents["pi_edit"].TransferAmount)
}

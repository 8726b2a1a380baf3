package payment

import (
	"context"
	"fmt"

	clientRepo "pawhaven/database/repository/client"
	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/models"

	"go.uber.org/zap"
)

// Orchestrator keeps exactly one active payment authorization synchronized
// with a booking's current price and contractor destination. It is the only
// component that mutates intents.
type Orchestrator struct {
	gateway     Gateway
	fees        FeeConfig
	contractors contractorRepo.ContractorRepository
	clients     clientRepo.ClientRepository
	provisioner *Provisioner
	logger      *zap.Logger
}

// NewOrchestrator builds an Orchestrator. env is the processor environment
// ("test" or "live") this process runs against; it is injected rather than
// read ad hoc so both environments can be simulated in tests.
func NewOrchestrator(gateway Gateway, fees FeeConfig, env string, contractors contractorRepo.ContractorRepository, clients clientRepo.ClientRepository, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gateway:     gateway,
		fees:        fees,
		contractors: contractors,
		clients:     clients,
		provisioner: NewProvisioner(gateway, env, contractors, clients, logger),
		logger:      logger,
	}
}

// Provisioner exposes the account/customer provisioner for onboarding flows.
func (o *Orchestrator) Provisioner() *Provisioner {
	return o.provisioner
}

// CreateIntent opens a manually-captured authorization sized off the fee
// estimate, with transfer_data routed to the contractor's payout account.
// The caller persists the returned intent id on the booking.
func (o *Orchestrator) CreateIntent(ctx context.Context, req models.CreateIntentRequest) (*models.IntentResult, error) {
	if req.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if req.ClientID == "" {
		return nil, &ValidationError{Field: "clientId", Message: "is required"}
	}
	if req.ContractorID == "" {
		return nil, &ValidationError{Field: "contractorId", Message: "is required"}
	}
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	// Fee math runs before any external call so a non-positive transfer
	// never reaches the processor.
	quote, err := o.fees.Quote(req.Amount, req.BaseServiceAmount)
	if err != nil {
		return nil, err
	}

	contractor, err := o.contractors.GetByID(req.ContractorID)
	if err != nil || contractor == nil {
		return nil, &NotFoundError{Kind: "contractor", ID: req.ContractorID}
	}
	if contractor.PayoutAccount.AccountID == "" {
		return nil, &NoPayoutAccountError{ContractorID: req.ContractorID}
	}
	acct, err := o.provisioner.EnsurePayoutAccount(ctx, contractor)
	if err != nil {
		return nil, err
	}
	if !acct.ChargesEnabled {
		return nil, &NoPayoutAccountError{ContractorID: req.ContractorID}
	}

	client, err := o.clients.GetByID(req.ClientID)
	if err != nil || client == nil {
		return nil, &NotFoundError{Kind: "client", ID: req.ClientID}
	}
	customer, err := o.provisioner.EnsureCustomer(ctx, client)
	if err != nil {
		return nil, err
	}

	intent, err := o.gateway.CreateIntent(ctx, CreateIntentParams{
		Amount:               req.Amount,
		Currency:             currency,
		CustomerID:           customer.ID,
		DestinationAccountID: acct.ID,
		TransferAmount:       quote.TransferAmount,
		Metadata:             intentMetadata(req.BookingID, req.ContractorID, quote),
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("payment intent created",
		zap.String("intentId", intent.ID),
		zap.Float64("amount", req.Amount),
		zap.Float64("transfer", quote.TransferAmount),
		zap.String("contractorId", req.ContractorID))

	return &models.IntentResult{IntentID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

// UpdateIntent synchronizes an existing authorization with a new amount.
// While the intent has not been authorized yet the amount is changed in
// place. Once funds are held (requires_capture) the old intent is cancelled
// and a fresh one is created, reported via Replaced so the client app can
// re-collect a payment method.
func (o *Orchestrator) UpdateIntent(ctx context.Context, req models.UpdateIntentRequest) (*models.IntentResult, error) {
	if req.IntentID == "" {
		return nil, &ValidationError{Field: "intentId", Message: "is required"}
	}
	if req.NewAmount <= 0 {
		return nil, &ValidationError{Field: "newAmount", Message: "must be positive"}
	}

	quote, err := o.fees.Quote(req.NewAmount, req.BaseServiceAmount)
	if err != nil {
		return nil, err
	}

	intent, err := o.gateway.GetIntent(ctx, req.IntentID)
	if err != nil {
		return nil, err
	}

	switch intent.Status {
	case IntentStatusRequiresPaymentMethod, IntentStatusRequiresConfirmation, IntentStatusRequiresAction:
		// Not yet authorized: mutate in place, no duplicate authorization.
		meta := mergeMetadata(intent.Metadata, quote)
		updated, err := o.gateway.UpdateIntentAmount(ctx, intent.ID, req.NewAmount, quote.TransferAmount, meta)
		if err != nil {
			return nil, err
		}
		return &models.IntentResult{IntentID: updated.ID, ClientSecret: updated.ClientSecret, Replaced: false}, nil

	case IntentStatusSucceeded:
		return nil, &NotReadyError{IntentStatus: intent.Status, Reason: "intent already captured, cannot change amount"}

	case IntentStatusCanceled:
		return nil, &NotReadyError{IntentStatus: intent.Status, Reason: "intent already canceled, cannot change amount"}
	}

	// Funds are already authorized: cancel the predecessor, then open a new
	// authorization sized to the new amount. Cancelling first keeps at most
	// one active intent per booking.
	if _, err := o.gateway.CancelIntent(ctx, intent.ID); err != nil {
		return nil, fmt.Errorf("cancel predecessor intent: %w", err)
	}

	meta := mergeMetadata(intent.Metadata, quote)
	replacement, err := o.gateway.CreateIntent(ctx, CreateIntentParams{
		Amount:               req.NewAmount,
		Currency:             intent.Currency,
		CustomerID:           intent.CustomerID,
		DestinationAccountID: intent.DestinationAccountID,
		TransferAmount:       quote.TransferAmount,
		Metadata:             meta,
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("payment intent replaced",
		zap.String("oldIntentId", intent.ID),
		zap.String("newIntentId", replacement.ID),
		zap.Float64("newAmount", req.NewAmount))

	return &models.IntentResult{IntentID: replacement.ID, ClientSecret: replacement.ClientSecret, Replaced: true}, nil
}

// CancelIntent cancels an authorization by id. Cancelling an intent that is
// already canceled is reported as success.
func (o *Orchestrator) CancelIntent(ctx context.Context, intentID string) (*models.CancelResult, error) {
	if intentID == "" {
		return nil, &ValidationError{Field: "intentId", Message: "is required"}
	}

	intent, err := o.gateway.GetIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.Status == IntentStatusCanceled {
		return &models.CancelResult{Status: intent.Status}, nil
	}

	cancelled, err := o.gateway.CancelIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	return &models.CancelResult{Status: cancelled.Status}, nil
}

func intentMetadata(bookingID, contractorID string, quote FeeQuote) map[string]string {
	meta := map[string]string{
		"platformFee":       fmt.Sprintf("%.2f", quote.PlatformFee),
		"processorEstimate": fmt.Sprintf("%.2f", quote.ProcessorEstimate),
		"transferAmount":    fmt.Sprintf("%.2f", quote.TransferAmount),
	}
	if bookingID != "" {
		meta["bookingId"] = bookingID
	}
	if contractorID != "" {
		meta["contractorId"] = contractorID
	}
	return meta
}

func mergeMetadata(existing map[string]string, quote FeeQuote) map[string]string {
	meta := make(map[string]string, len(existing)+3)
	for k, v := range existing {
		meta[k] = v
	}
	meta["platformFee"] = fmt.Sprintf("%.2f", quote.PlatformFee)
	meta["processorEstimate"] = fmt.Sprintf("%.2f", quote.ProcessorEstimate)
	meta["transferAmount"] = fmt.Sprintf("%.2f", quote.TransferAmount)
	return meta
}

package payment

import (
	"context"
	"time"

	clientRepo "pawhaven/database/repository/client"
	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Provisioner keeps contractor payout accounts and client payment customers
// valid for the current processor environment. Before reusing a stored
// identifier it retrieves the external object; a mode mismatch (the id was
// created under the other of test/live) discards the stale id and provisions
// a fresh one, persisting the new id with an explicit environment tag.
type Provisioner struct {
	gateway     Gateway
	env         string // "test" or "live"
	contractors contractorRepo.ContractorRepository
	clients     clientRepo.ClientRepository
	logger      *zap.Logger
}

// NewProvisioner builds a Provisioner for the given environment.
func NewProvisioner(gateway Gateway, env string, contractors contractorRepo.ContractorRepository, clients clientRepo.ClientRepository, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		gateway:     gateway,
		env:         env,
		contractors: contractors,
		clients:     clients,
		logger:      logger,
	}
}

// EnsurePayoutAccount returns a payout-account id valid in the current
// environment, creating and persisting a new one when the stored id is absent
// or was created under the other mode. The stale id is never reused.
func (p *Provisioner) EnsurePayoutAccount(ctx context.Context, contractor *models.Contractor) (*Account, error) {
	ref := contractor.PayoutAccount

	if ref.AccountID != "" && ref.Mode == p.env {
		acct, err := p.gateway.GetAccount(ctx, ref.AccountID)
		if err == nil {
			return acct, nil
		}
		if !IsModeMismatch(err) {
			return nil, err
		}
		p.logger.Warn("payout account mode mismatch, recreating",
			zap.String("contractorId", contractor.ID),
			zap.String("staleAccountId", ref.AccountID),
			zap.String("env", p.env))
	}

	acct, err := p.gateway.CreateAccount(ctx, contractor.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	update := bson.M{
		"payoutAccount.accountId":      acct.ID,
		"payoutAccount.mode":           p.env,
		"payoutAccount.chargesEnabled": acct.ChargesEnabled,
		"payoutAccount.createdAt":      now,
	}
	if err := p.contractors.UpdateSetDocument(contractor.ID, update); err != nil {
		return nil, &ExternalServiceError{Op: "persist payout account", Err: err}
	}

	contractor.PayoutAccount = models.PayoutAccountRef{
		AccountID:      acct.ID,
		Mode:           p.env,
		ChargesEnabled: acct.ChargesEnabled,
		CreatedAt:      now,
	}
	return acct, nil
}

// EnsureCustomer returns a payment-customer id valid in the current
// environment, with the same discard-on-mismatch rule as payout accounts.
func (p *Provisioner) EnsureCustomer(ctx context.Context, client *models.Client) (*Customer, error) {
	ref := client.PaymentCustomer

	if ref.CustomerID != "" && ref.Mode == p.env {
		cus, err := p.gateway.GetCustomer(ctx, ref.CustomerID)
		if err == nil {
			return cus, nil
		}
		if !IsModeMismatch(err) {
			return nil, err
		}
		p.logger.Warn("payment customer mode mismatch, recreating",
			zap.String("clientId", client.ID),
			zap.String("staleCustomerId", ref.CustomerID),
			zap.String("env", p.env))
	}

	cus, err := p.gateway.CreateCustomer(ctx, client.Email, client.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	update := bson.M{
		"paymentCustomer.customerId": cus.ID,
		"paymentCustomer.mode":       p.env,
		"paymentCustomer.createdAt":  now,
	}
	if err := p.clients.UpdateSetDocument(client.ID, update); err != nil {
		return nil, &ExternalServiceError{Op: "persist payment customer", Err: err}
	}

	client.PaymentCustomer = models.PaymentCustomerRef{
		CustomerID: cus.ID,
		Mode:       p.env,
		CreatedAt:  now,
	}
	return cus, nil
}

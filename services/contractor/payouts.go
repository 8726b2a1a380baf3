package contractor

import (
	"context"
	"fmt"
	"time"

	"pawhaven/models"
	"pawhaven/services/payment"
	"pawhaven/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// StartPayoutOnboarding creates the contractor's payout account if needed and
// returns a hosted onboarding link. A stored account created under the other
// processor environment is abandoned and replaced, never reused.
func (s *DefaultContractorService) StartPayoutOnboarding(ctx context.Context, contractorID, refreshURL, returnURL string) (*models.PayoutOnboarding, error) {
	rec, err := s.Repo.GetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", contractorID, err)
	}

	acct, err := s.resolveAccount(ctx, rec)
	if err != nil {
		return nil, err
	}

	out := &models.PayoutOnboarding{AccountID: acct.ID, ChargesEnabled: acct.ChargesEnabled}
	if !acct.ChargesEnabled {
		link, err := s.Gateway.CreateAccountLink(ctx, acct.ID, refreshURL, returnURL)
		if err != nil {
			return nil, err
		}
		out.OnboardingURL = link
	}
	return out, nil
}

// PayoutStatus refreshes the account's charges-enabled flag from the processor
// and persists any change.
func (s *DefaultContractorService) PayoutStatus(ctx context.Context, contractorID string) (*models.PayoutOnboarding, error) {
	rec, err := s.Repo.GetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", contractorID, err)
	}
	if rec.PayoutAccount.AccountID == "" {
		return &models.PayoutOnboarding{}, nil
	}

	acct, err := s.Gateway.GetAccount(ctx, rec.PayoutAccount.AccountID)
	if err != nil {
		if payment.IsModeMismatch(err) {
			return &models.PayoutOnboarding{}, nil
		}
		return nil, err
	}

	if acct.ChargesEnabled != rec.PayoutAccount.ChargesEnabled {
		set := bson.M{"payoutAccount.chargesEnabled": acct.ChargesEnabled, "updatedAt": time.Now()}
		if err := s.Repo.UpdateSetDocument(contractorID, set); err != nil {
			utils.GetLogger().Warn("failed to persist payout status", zap.String("contractorId", contractorID), zap.Error(err))
		}
	}
	return &models.PayoutOnboarding{AccountID: acct.ID, ChargesEnabled: acct.ChargesEnabled}, nil
}

// resolveAccount returns a usable payout account for the current environment,
// creating a fresh one when none exists or the stored one belongs to the other
// environment.
func (s *DefaultContractorService) resolveAccount(ctx context.Context, rec *models.Contractor) (*payment.Account, error) {
	if rec.PayoutAccount.AccountID != "" && rec.PayoutAccount.Mode == s.Env {
		acct, err := s.Gateway.GetAccount(ctx, rec.PayoutAccount.AccountID)
		if err == nil {
			return acct, nil
		}
		if !payment.IsModeMismatch(err) {
			return nil, err
		}
		utils.GetLogger().Warn("stored payout account belongs to the other environment, recreating",
			zap.String("contractorId", rec.ID), zap.String("accountId", rec.PayoutAccount.AccountID))
	}

	acct, err := s.Gateway.CreateAccount(ctx, rec.Email)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"payoutAccount.accountId":      acct.ID,
		"payoutAccount.mode":           s.Env,
		"payoutAccount.chargesEnabled": acct.ChargesEnabled,
		"payoutAccount.createdAt":      time.Now(),
		"updatedAt":                    time.Now(),
	}
	if err := s.Repo.UpdateSetDocument(rec.ID, set); err != nil {
		return nil, fmt.Errorf("failed to persist payout account: %w", err)
	}
	return acct, nil
}

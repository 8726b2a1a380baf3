package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// stripeGateway implements Gateway against the Stripe API.
type stripeGateway struct {
	api *client.API
}

// NewStripeGateway builds a Gateway backed by Stripe using the given secret key.
func NewStripeGateway(secretKey string) Gateway {
	return &stripeGateway{api: client.New(secretKey, nil)}
}

func (g *stripeGateway) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	piParams := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(toMinorUnits(params.Amount)),
		Currency:      stripe.String(params.Currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(params.DestinationAccountID),
			Amount:      stripe.Int64(toMinorUnits(params.TransferAmount)),
		},
	}
	if params.CustomerID != "" {
		piParams.Customer = stripe.String(params.CustomerID)
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, wrapStripeErr("create payment intent", err)
	}
	return intentFromStripe(pi), nil
}

func (g *stripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := g.api.PaymentIntents.Get(id, nil)
	if err != nil {
		return nil, wrapStripeErr("retrieve payment intent", err)
	}
	return intentFromStripe(pi), nil
}

func (g *stripeGateway) UpdateIntentAmount(ctx context.Context, id string, amount, transferAmount float64, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount: stripe.Int64(toMinorUnits(amount)),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Amount: stripe.Int64(toMinorUnits(transferAmount)),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.Update(id, params)
	if err != nil {
		return nil, wrapStripeErr("update payment intent", err)
	}
	return intentFromStripe(pi), nil
}

func (g *stripeGateway) CancelIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := g.api.PaymentIntents.Cancel(id, nil)
	if err != nil {
		return nil, wrapStripeErr("cancel payment intent", err)
	}
	return intentFromStripe(pi), nil
}

func (g *stripeGateway) CaptureIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := g.api.PaymentIntents.Capture(id, nil)
	if err != nil {
		return nil, wrapStripeErr("capture payment intent", err)
	}
	return intentFromStripe(pi), nil
}

func (g *stripeGateway) GetCharge(ctx context.Context, id string) (*Charge, error) {
	ch, err := g.api.Charges.Get(id, nil)
	if err != nil {
		return nil, wrapStripeErr("retrieve charge", err)
	}
	out := &Charge{ID: ch.ID}
	if ch.BalanceTransaction != nil {
		out.BalanceTransactionID = ch.BalanceTransaction.ID
	}
	return out, nil
}

func (g *stripeGateway) GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error) {
	bt, err := g.api.BalanceTransactions.Get(id, nil)
	if err != nil {
		return nil, wrapStripeErr("retrieve balance transaction", err)
	}
	return &BalanceTransaction{ID: bt.ID, Fee: fromMinorUnits(bt.Fee)}, nil
}

func (g *stripeGateway) CreateAccount(ctx context.Context, email string) (*Account, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return nil, wrapStripeErr("create payout account", err)
	}
	return &Account{ID: acct.ID, ChargesEnabled: acct.ChargesEnabled}, nil
}

func (g *stripeGateway) GetAccount(ctx context.Context, id string) (*Account, error) {
	acct, err := g.api.Accounts.GetByID(id, nil)
	if err != nil {
		return nil, wrapStripeErr("retrieve payout account", err)
	}
	return &Account{ID: acct.ID, ChargesEnabled: acct.ChargesEnabled}, nil
}

func (g *stripeGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", wrapStripeErr("create account link", err)
	}
	return link.URL, nil
}

func (g *stripeGateway) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	cus, err := g.api.Customers.New(params)
	if err != nil {
		return nil, wrapStripeErr("create customer", err)
	}
	return &Customer{ID: cus.ID, Livemode: cus.Livemode}, nil
}

func (g *stripeGateway) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	cus, err := g.api.Customers.Get(id, nil)
	if err != nil {
		return nil, wrapStripeErr("retrieve customer", err)
	}
	return &Customer{ID: cus.ID, Livemode: cus.Livemode}, nil
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	out := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       fromMinorUnits(pi.Amount),
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Livemode:     pi.Livemode,
		Metadata:     pi.Metadata,
	}
	if pi.Customer != nil {
		out.CustomerID = pi.Customer.ID
	}
	if pi.TransferData != nil {
		if pi.TransferData.Destination != nil {
			out.DestinationAccountID = pi.TransferData.Destination.ID
		}
		out.TransferAmount = fromMinorUnits(pi.TransferData.Amount)
	}
	if pi.LatestCharge != nil {
		out.LatestChargeID = pi.LatestCharge.ID
	}
	return out
}

// wrapStripeErr normalizes Stripe errors: a cross-environment identifier shows
// up as resource_missing with a "similar object exists in ... mode" message,
// which the provisioner recovers from by recreating the object.
func wrapStripeErr(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripe.ErrorCodeResourceMissing &&
			strings.Contains(stripeErr.Msg, "similar object exists in") {
			return fmt.Errorf("%s: %w", op, ErrModeMismatch)
		}
	}
	return &ExternalServiceError{Op: op, Err: err}
}

package payment

import (
	"context"
	"errors"
	"math"
)

// Intent statuses mirroring the processor's authorization states.
const (
	IntentStatusRequiresPaymentMethod = "requires_payment_method"
	IntentStatusRequiresConfirmation  = "requires_confirmation"
	IntentStatusRequiresAction        = "requires_action"
	IntentStatusProcessing            = "processing"
	IntentStatusRequiresCapture       = "requires_capture"
	IntentStatusSucceeded             = "succeeded"
	IntentStatusCanceled              = "canceled"
)

// Intent is the gateway-side view of a payment authorization.
type Intent struct {
	ID                   string
	ClientSecret         string
	Amount               float64 // major units
	Currency             string
	Status               string
	CustomerID           string
	DestinationAccountID string
	TransferAmount       float64
	LatestChargeID       string
	Livemode             bool
	Metadata             map[string]string
}

// Charge is a settled (or capturable) charge belonging to an intent.
type Charge struct {
	ID                   string
	BalanceTransactionID string
}

// BalanceTransaction carries the actual processor fee after settlement.
type BalanceTransaction struct {
	ID  string
	Fee float64 // major units
}

// Account is a contractor's payout destination account.
type Account struct {
	ID             string
	ChargesEnabled bool
	Livemode       bool
}

// Customer is a client's payment-customer record.
type Customer struct {
	ID       string
	Livemode bool
}

// CreateIntentParams describes a new manually-captured authorization routed to
// a contractor's payout account.
type CreateIntentParams struct {
	Amount               float64
	Currency             string
	CustomerID           string
	DestinationAccountID string
	TransferAmount       float64
	Metadata             map[string]string
}

// Gateway is the payment-processor capability used by the orchestrator and
// reconciler. Implementations: stripeGateway (production) and test fakes.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	UpdateIntentAmount(ctx context.Context, id string, amount, transferAmount float64, metadata map[string]string) (*Intent, error)
	CancelIntent(ctx context.Context, id string) (*Intent, error)
	CaptureIntent(ctx context.Context, id string) (*Intent, error)

	GetCharge(ctx context.Context, id string) (*Charge, error)
	GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error)

	CreateAccount(ctx context.Context, email string) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)

	CreateCustomer(ctx context.Context, email, name string) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
}

// ErrModeMismatch signals that a stored identifier was created under the other
// processor environment (test vs live). Recoverable by re-provisioning.
var ErrModeMismatch = errors.New("identifier belongs to the other processor environment")

// IsModeMismatch reports whether err carries a test/live environment mismatch.
func IsModeMismatch(err error) bool {
	return errors.Is(err, ErrModeMismatch)
}

// toMinorUnits converts a major-unit amount to integer cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// fromMinorUnits converts integer cents back to major units.
func fromMinorUnits(cents int64) float64 {
	return float64(cents) / 100
}

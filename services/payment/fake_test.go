package payment

import (
	"context"
	"fmt"
	"sync"

	bookingRepo "pawhaven/database/repository/booking"
	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
)

// fakeGateway is an in-memory Gateway recording every processor call.
type fakeGateway struct {
	mu         sync.Mutex
	intents    map[string]*Intent
	accounts   map[string]*Account
	customers  map[string]*Customer
	charges    map[string]*Charge
	balanceTxs map[string]*BalanceTransaction
	calls      []string
	seq        int

	// ids that were created under the other environment; retrieval fails
	// with a mode mismatch.
	wrongModeAccounts  map[string]bool
	wrongModeCustomers map[string]bool

	// actual fee assigned to the balance transaction on capture. When
	// settleWithoutFee is set, capture produces no charge record so the
	// reconciler must fall back to the estimate.
	captureFee       float64
	settleWithoutFee bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		intents:            make(map[string]*Intent),
		accounts:           make(map[string]*Account),
		customers:          make(map[string]*Customer),
		charges:            make(map[string]*Charge),
		balanceTxs:         make(map[string]*BalanceTransaction),
		wrongModeAccounts:  make(map[string]bool),
		wrongModeCustomers: make(map[string]bool),
	}
}

func (g *fakeGateway) record(call string) {
	g.calls = append(g.calls, call)
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) nextID(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s_%d", prefix, g.seq)
}

func (g *fakeGateway) addAccount(id string, chargesEnabled bool) {
	g.accounts[id] = &Account{ID: id, ChargesEnabled: chargesEnabled}
}

func (g *fakeGateway) addCustomer(id string) {
	g.customers[id] = &Customer{ID: id}
}

// addIntent seeds an intent in a given status.
func (g *fakeGateway) addIntent(id, status string, amount float64) *Intent {
	intent := &Intent{
		ID:                   id,
		ClientSecret:         id + "_secret",
		Amount:               amount,
		Currency:             "usd",
		Status:               status,
		CustomerID:           "cus_seed",
		DestinationAccountID: "acct_seed",
		Metadata:             map[string]string{},
	}
	g.intents[id] = intent
	return intent
}

func (g *fakeGateway) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("CreateIntent")

	id := g.nextID("pi")
	intent := &Intent{
		ID:                   id,
		ClientSecret:         id + "_secret",
		Amount:               params.Amount,
		Currency:             params.Currency,
		Status:               IntentStatusRequiresPaymentMethod,
		CustomerID:           params.CustomerID,
		DestinationAccountID: params.DestinationAccountID,
		TransferAmount:       params.TransferAmount,
		Metadata:             params.Metadata,
	}
	g.intents[id] = intent
	return cloneIntent(intent), nil
}

func (g *fakeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetIntent")

	intent, ok := g.intents[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "retrieve payment intent", Err: fmt.Errorf("no such intent %s", id)}
	}
	return cloneIntent(intent), nil
}

func (g *fakeGateway) UpdateIntentAmount(ctx context.Context, id string, amount, transferAmount float64, metadata map[string]string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("UpdateIntentAmount")

	intent, ok := g.intents[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "update payment intent", Err: fmt.Errorf("no such intent %s", id)}
	}
	intent.Amount = amount
	intent.TransferAmount = transferAmount
	intent.Metadata = metadata
	return cloneIntent(intent), nil
}

func (g *fakeGateway) CancelIntent(ctx context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("CancelIntent")

	intent, ok := g.intents[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "cancel payment intent", Err: fmt.Errorf("no such intent %s", id)}
	}
	if intent.Status == IntentStatusSucceeded {
		return nil, &ExternalServiceError{Op: "cancel payment intent", Err: fmt.Errorf("intent %s already captured", id)}
	}
	intent.Status = IntentStatusCanceled
	return cloneIntent(intent), nil
}

func (g *fakeGateway) CaptureIntent(ctx context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("CaptureIntent")

	intent, ok := g.intents[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "capture payment intent", Err: fmt.Errorf("no such intent %s", id)}
	}
	if intent.Status != IntentStatusRequiresCapture {
		return nil, &ExternalServiceError{Op: "capture payment intent", Err: fmt.Errorf("intent %s is %s, not capturable", id, intent.Status)}
	}
	intent.Status = IntentStatusSucceeded

	if !g.settleWithoutFee {
		chargeID := g.nextID("ch")
		btID := g.nextID("txn")
		g.charges[chargeID] = &Charge{ID: chargeID, BalanceTransactionID: btID}
		g.balanceTxs[btID] = &BalanceTransaction{ID: btID, Fee: g.captureFee}
		intent.LatestChargeID = chargeID
	}
	return cloneIntent(intent), nil
}

func (g *fakeGateway) GetCharge(ctx context.Context, id string) (*Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetCharge")

	charge, ok := g.charges[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "retrieve charge", Err: fmt.Errorf("no such charge %s", id)}
	}
	out := *charge
	return &out, nil
}

func (g *fakeGateway) GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetBalanceTransaction")

	bt, ok := g.balanceTxs[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "retrieve balance transaction", Err: fmt.Errorf("no such balance transaction %s", id)}
	}
	out := *bt
	return &out, nil
}

func (g *fakeGateway) CreateAccount(ctx context.Context, email string) (*Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("CreateAccount")

	id := g.nextID("acct")
	acct := &Account{ID: id, ChargesEnabled: true}
	g.accounts[id] = acct
	out := *acct
	return &out, nil
}

func (g *fakeGateway) GetAccount(ctx context.Context, id string) (*Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetAccount")

	if g.wrongModeAccounts[id] {
		return nil, fmt.Errorf("retrieve payout account: %w", ErrModeMismatch)
	}
	acct, ok := g.accounts[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "retrieve payout account", Err: fmt.Errorf("no such account %s", id)}
	}
	out := *acct
	return &out, nil
}

func (g *fakeGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("CreateAccountLink")
	return "https://onboarding.example/" + accountID, nil
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, name string) (*Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("CreateCustomer")

	id := g.nextID("cus")
	cus := &Customer{ID: id}
	g.customers[id] = cus
	out := *cus
	return &out, nil
}

func (g *fakeGateway) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.record("GetCustomer")

	if g.wrongModeCustomers[id] {
		return nil, fmt.Errorf("retrieve customer: %w", ErrModeMismatch)
	}
	cus, ok := g.customers[id]
	if !ok {
		return nil, &ExternalServiceError{Op: "retrieve customer", Err: fmt.Errorf("no such customer %s", id)}
	}
	out := *cus
	return &out, nil
}

func cloneIntent(in *Intent) *Intent {
	out := *in
	out.Metadata = make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		out.Metadata[k] = v
	}
	return &out
}

// --- in-memory repositories ---

type fakeContractorRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.Contractor
	saves []bson.M
}

func newFakeContractorRepo() *fakeContractorRepo {
	return &fakeContractorRepo{byID: make(map[string]*models.Contractor)}
}

func (r *fakeContractorRepo) add(c *models.Contractor) {
	r.byID[c.ID] = c
}

func (r *fakeContractorRepo) GetByID(id string) (*models.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("contractor with id %s not found", id)
	}
	out := *c
	return &out, nil
}

func (r *fakeContractorRepo) GetByEmail(email string) (*models.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Email == email {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeContractorRepo) Create(c *models.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *fakeContractorRepo) Update(c *models.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *fakeContractorRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("contractor with id %s not found", id)
	}
	r.saves = append(r.saves, updateDoc)
	if v, ok := updateDoc["payoutAccount.accountId"].(string); ok {
		c.PayoutAccount.AccountID = v
	}
	if v, ok := updateDoc["payoutAccount.mode"].(string); ok {
		c.PayoutAccount.Mode = v
	}
	if v, ok := updateDoc["payoutAccount.chargesEnabled"].(bool); ok {
		c.PayoutAccount.ChargesEnabled = v
	}
	return nil
}

func (r *fakeContractorRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeContractorRepo) List() ([]models.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Contractor
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

type fakeClientRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{byID: make(map[string]*models.Client)}
}

func (r *fakeClientRepo) add(c *models.Client) {
	r.byID[c.ID] = c
}

func (r *fakeClientRepo) GetByID(id string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("client with id %s not found", id)
	}
	out := *c
	return &out, nil
}

func (r *fakeClientRepo) GetByEmail(email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Email == email {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) Create(c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *fakeClientRepo) Update(c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[c.ID] = c
	return nil
}

func (r *fakeClientRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("client with id %s not found", id)
	}
	if v, ok := updateDoc["paymentCustomer.customerId"].(string); ok {
		c.PaymentCustomer.CustomerID = v
	}
	if v, ok := updateDoc["paymentCustomer.mode"].(string); ok {
		c.PaymentCustomer.Mode = v
	}
	return nil
}

func (r *fakeClientRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *fakeClientRepo) List() ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Client
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Booking

	// afterGet, when set, runs once after the next GetByID. Used to
	// interleave a concurrent edit between a read and its conditional write.
	afterGet func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) add(b *models.Booking) {
	if b.Version == 0 {
		b.Version = 1
	}
	r.byID[b.ID] = b
}

func (r *fakeBookingRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Version == 0 {
		b.Version = 1
	}
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	b, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return nil, bookingRepo.ErrNotFound
	}
	out := *b
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &out, nil
}

func (r *fakeBookingRepo) ListByClient(clientID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.byID {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByContractor(contractorID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.byID {
		if b.ContractorID == contractorID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByStatus(status string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.byID {
		if b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateConditional(id string, expectedVersion int64, set bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.Version != expectedVersion {
		return bookingRepo.ErrConflict
	}
	applyBookingSet(b, set)
	b.Version++
	return nil
}

func (r *fakeBookingRepo) SwapPaymentIntent(id, expectedIntentID, newIntentID string, set bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.PaymentIntentID != expectedIntentID {
		return bookingRepo.ErrConflict
	}
	applyBookingSet(b, set)
	b.PaymentIntentID = newIntentID
	b.Version++
	return nil
}

func (r *fakeBookingRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func applyBookingSet(b *models.Booking, set bson.M) {
	for k, v := range set {
		switch k {
		case "paymentStatus":
			b.PaymentStatus = v.(string)
		case "status":
			b.Status = v.(string)
		case "platformFee":
			b.PlatformFee = v.(float64)
		case "stripeFee":
			b.StripeFee = v.(float64)
		case "netPayout":
			b.NetPayout = v.(float64)
		case "paymentIntentId":
			b.PaymentIntentID = v.(string)
		case "paymentAmount":
			b.PaymentAmount = v.(float64)
		case "baseServiceAmount":
			b.BaseServiceAmount = v.(float64)
		case "clientCompleted":
			b.ClientCompleted = v.(bool)
		case "contractorCompleted":
			b.ContractorCompleted = v.(bool)
		}
	}
}

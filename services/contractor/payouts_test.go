package contractor

import (
	"context"
	"fmt"
	"testing"

	"pawhaven/models"
	"pawhaven/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type stubGateway struct {
	payment.Gateway

	accounts      map[string]*payment.Account
	wrongMode     map[string]bool
	created       int
	enabledOnNew  bool
	lastLinkedURL string
}

func (g *stubGateway) CreateAccount(ctx context.Context, email string) (*payment.Account, error) {
	g.created++
	acct := &payment.Account{ID: fmt.Sprintf("acct_%d", g.created), ChargesEnabled: g.enabledOnNew}
	g.accounts[acct.ID] = acct
	return acct, nil
}

func (g *stubGateway) GetAccount(ctx context.Context, id string) (*payment.Account, error) {
	if g.wrongMode[id] {
		return nil, payment.ErrModeMismatch
	}
	acct, ok := g.accounts[id]
	if !ok {
		return nil, fmt.Errorf("no such account")
	}
	return acct, nil
}

func (g *stubGateway) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	g.lastLinkedURL = "https://onboarding.example/" + accountID
	return g.lastLinkedURL, nil
}

type stubRepo struct {
	contractors map[string]*models.Contractor
	sets        []bson.M
}

func (r *stubRepo) GetByID(id string) (*models.Contractor, error) {
	ct, ok := r.contractors[id]
	if !ok {
		return nil, fmt.Errorf("contractor not found")
	}
	cp := *ct
	return &cp, nil
}

func (r *stubRepo) GetByEmail(email string) (*models.Contractor, error) { return nil, nil }
func (r *stubRepo) Create(ct *models.Contractor) error                 { return nil }
func (r *stubRepo) Update(ct *models.Contractor) error                 { return nil }
func (r *stubRepo) Delete(id string) error                             { return nil }
func (r *stubRepo) List() ([]models.Contractor, error)                 { return nil, nil }

func (r *stubRepo) UpdateSetDocument(id string, set bson.M) error {
	r.sets = append(r.sets, set)
	ct, ok := r.contractors[id]
	if !ok {
		return fmt.Errorf("contractor not found")
	}
	if v, ok := set["payoutAccount.accountId"]; ok {
		ct.PayoutAccount.AccountID = v.(string)
	}
	if v, ok := set["payoutAccount.mode"]; ok {
		ct.PayoutAccount.Mode = v.(string)
	}
	if v, ok := set["payoutAccount.chargesEnabled"]; ok {
		ct.PayoutAccount.ChargesEnabled = v.(bool)
	}
	return nil
}

func newPayoutFixture() (*DefaultContractorService, *stubGateway, *stubRepo) {
	gw := &stubGateway{accounts: map[string]*payment.Account{}, wrongMode: map[string]bool{}}
	repo := &stubRepo{contractors: map[string]*models.Contractor{
		"ct1": {ID: "ct1", Email: "dana@example.com"},
	}}
	svc := &DefaultContractorService{Repo: repo, Gateway: gw, Env: "test"}
	return svc, gw, repo
}

func TestOnboardingCreatesAccountAndLink(t *testing.T) {
	svc, gw, repo := newPayoutFixture()

	out, err := svc.StartPayoutOnboarding(context.Background(), "ct1", "https://app/refresh", "https://app/return")
	require.NoError(t, err)
	assert.Equal(t, "acct_1", out.AccountID)
	assert.False(t, out.ChargesEnabled)
	assert.Equal(t, gw.lastLinkedURL, out.OnboardingURL)

	stored := repo.contractors["ct1"].PayoutAccount
	assert.Equal(t, "acct_1", stored.AccountID)
	assert.Equal(t, "test", stored.Mode)
}

func TestOnboardingReusesAccountInSameMode(t *testing.T) {
	svc, gw, repo := newPayoutFixture()
	gw.accounts["acct_old"] = &payment.Account{ID: "acct_old", ChargesEnabled: true}
	repo.contractors["ct1"].PayoutAccount = models.PayoutAccountRef{AccountID: "acct_old", Mode: "test", ChargesEnabled: true}

	out, err := svc.StartPayoutOnboarding(context.Background(), "ct1", "r", "r")
	require.NoError(t, err)
	assert.Equal(t, "acct_old", out.AccountID)
	assert.True(t, out.ChargesEnabled)
	assert.Empty(t, out.OnboardingURL)
	assert.Zero(t, gw.created)
}

func TestOnboardingRecreatesOnModeMismatch(t *testing.T) {
	svc, gw, repo := newPayoutFixture()
	gw.wrongMode["acct_live"] = true
	repo.contractors["ct1"].PayoutAccount = models.PayoutAccountRef{AccountID: "acct_live", Mode: "test"}

	out, err := svc.StartPayoutOnboarding(context.Background(), "ct1", "r", "r")
	require.NoError(t, err)
	assert.Equal(t, "acct_1", out.AccountID)
	assert.NotEqual(t, "acct_live", repo.contractors["ct1"].PayoutAccount.AccountID)
}

func TestOnboardingIgnoresStoredForeignModeTag(t *testing.T) {
	svc, gw, repo := newPayoutFixture()
	gw.accounts["acct_live"] = &payment.Account{ID: "acct_live", ChargesEnabled: true}
	repo.contractors["ct1"].PayoutAccount = models.PayoutAccountRef{AccountID: "acct_live", Mode: "live"}

	out, err := svc.StartPayoutOnboarding(context.Background(), "ct1", "r", "r")
	require.NoError(t, err)
	assert.Equal(t, "acct_1", out.AccountID)
	assert.Equal(t, "test", repo.contractors["ct1"].PayoutAccount.Mode)
}

func TestPayoutStatusPersistsEnablement(t *testing.T) {
	svc, gw, repo := newPayoutFixture()
	gw.accounts["acct_1"] = &payment.Account{ID: "acct_1", ChargesEnabled: true}
	repo.contractors["ct1"].PayoutAccount = models.PayoutAccountRef{AccountID: "acct_1", Mode: "test", ChargesEnabled: false}

	out, err := svc.PayoutStatus(context.Background(), "ct1")
	require.NoError(t, err)
	assert.True(t, out.ChargesEnabled)
	assert.True(t, repo.contractors["ct1"].PayoutAccount.ChargesEnabled)
}

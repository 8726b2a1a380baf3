package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	bookingRepo "pawhaven/database/repository/booking"
	"pawhaven/models"
	"pawhaven/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var testFees = payment.FeeConfig{
	PlatformRate:     0.05,
	ProcessorPercent: 0.029,
	ProcessorFixed:   0.30,
}

// --- fakes ---

type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking

	// afterGet, when set, runs once after the next GetByID. Used to
	// interleave a concurrent write between a read and its conditional
	// update.
	afterGet func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[string]*models.Booking{}}
}

func (r *fakeRepo) Create(b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(id string) (*models.Booking, error) {
	r.mu.Lock()
	b, ok := r.bookings[id]
	if !ok {
		r.mu.Unlock()
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return &cp, nil
}

func (r *fakeRepo) ListByClient(clientID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByContractor(contractorID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ContractorID == contractorID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByStatus(status string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == status {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateConditional(id string, expectedVersion int64, set bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.Version != expectedVersion {
		return bookingRepo.ErrConflict
	}
	applySet(b, set)
	b.Version++
	return nil
}

func (r *fakeRepo) SwapPaymentIntent(id, expectedIntentID, newIntentID string, set bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.PaymentIntentID != expectedIntentID {
		return bookingRepo.ErrConflict
	}
	applySet(b, set)
	b.PaymentIntentID = newIntentID
	b.Version++
	return nil
}

func (r *fakeRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func applySet(b *models.Booking, set bson.M) {
	for k, v := range set {
		switch k {
		case "status":
			b.Status = v.(string)
		case "paymentStatus":
			b.PaymentStatus = v.(string)
		case "startDate":
			b.StartDate = v.(time.Time)
		case "endDate":
			b.EndDate = v.(time.Time)
		case "paymentAmount":
			b.PaymentAmount = v.(float64)
		case "baseServiceAmount":
			b.BaseServiceAmount = v.(float64)
		case "notes":
			b.Notes = v.(string)
		case "clientCompleted":
			b.ClientCompleted = v.(bool)
		case "contractorCompleted":
			b.ContractorCompleted = v.(bool)
		case "platformFee":
			b.PlatformFee = v.(float64)
		case "stripeFee":
			b.StripeFee = v.(float64)
		case "netPayout":
			b.NetPayout = v.(float64)
		}
	}
	b.UpdatedAt = time.Now()
}

type fakeContractors struct {
	contractors map[string]*models.Contractor
	sets        []bson.M
}

func (r *fakeContractors) GetByID(id string) (*models.Contractor, error) {
	ct, ok := r.contractors[id]
	if !ok {
		return nil, fmt.Errorf("contractor not found")
	}
	cp := *ct
	return &cp, nil
}

func (r *fakeContractors) GetByEmail(email string) (*models.Contractor, error) { return nil, nil }
func (r *fakeContractors) Create(ct *models.Contractor) error                 { return nil }
func (r *fakeContractors) Update(ct *models.Contractor) error                 { return nil }
func (r *fakeContractors) Delete(id string) error                             { return nil }
func (r *fakeContractors) List() ([]models.Contractor, error)                 { return nil, nil }

func (r *fakeContractors) UpdateSetDocument(id string, set bson.M) error {
	r.sets = append(r.sets, set)
	if ct, ok := r.contractors[id]; ok {
		if v, ok := set["completedBookings"]; ok {
			ct.CompletedBookings = v.(int)
		}
	}
	return nil
}

// fakePayments records calls and returns canned intent results.
type fakePayments struct {
	created   []models.CreateIntentRequest
	updated   []models.UpdateIntentRequest
	cancelled []string
	captured  []string

	replaceOnUpdate bool
	captureErr      error
	captureResult   *models.CaptureResult
	nextIntent      int

	// afterCapture, when set, runs on a successful capture so tests can
	// persist the paid state the way the real payment service does.
	afterCapture func(bookingID string)
}

func (p *fakePayments) CreatePaymentIntent(ctx context.Context, req models.CreateIntentRequest) (*models.IntentResult, error) {
	p.created = append(p.created, req)
	p.nextIntent++
	return &models.IntentResult{IntentID: fmt.Sprintf("pi_%d", p.nextIntent), ClientSecret: "secret"}, nil
}

func (p *fakePayments) UpdatePaymentIntent(ctx context.Context, req models.UpdateIntentRequest) (*models.IntentResult, error) {
	p.updated = append(p.updated, req)
	if p.replaceOnUpdate {
		p.nextIntent++
		return &models.IntentResult{IntentID: fmt.Sprintf("pi_%d", p.nextIntent), ClientSecret: "secret2", Replaced: true}, nil
	}
	return &models.IntentResult{IntentID: req.IntentID, ClientSecret: "secret", Replaced: false}, nil
}

func (p *fakePayments) CancelPaymentIntent(ctx context.Context, intentID string) (*models.CancelResult, error) {
	p.cancelled = append(p.cancelled, intentID)
	return &models.CancelResult{Status: "canceled"}, nil
}

func (p *fakePayments) CaptureBookingPayment(ctx context.Context, bookingID string) (*models.CaptureResult, error) {
	p.captured = append(p.captured, bookingID)
	if p.captureErr != nil {
		return nil, p.captureErr
	}
	if p.afterCapture != nil {
		p.afterCapture(bookingID)
	}
	if p.captureResult != nil {
		return p.captureResult, nil
	}
	return &models.CaptureResult{TotalAmount: 100, PlatformFee: 5, StripeFee: 3.20, NetPayout: 91.80}, nil
}

type fakeReminders struct {
	scheduled []string
}

func (f *fakeReminders) ScheduleVisitReminder(b *models.Booking) error {
	f.scheduled = append(f.scheduled, b.ID)
	return nil
}

// --- fixtures ---

func sitterCatalogue() *models.Contractor {
	return &models.Contractor{
		ID:   "ct1",
		Name: "Dana",
		Services: []models.ServiceOffering{
			{ServiceType: "boarding", Rate: 40, Unit: "night"},
			{ServiceType: "walking", Rate: 15, Unit: "visit"},
		},
	}
}

func newTestService() (*DefaultBookingService, *fakeRepo, *fakePayments, *fakeContractors, *fakeReminders) {
	repo := newFakeRepo()
	payments := &fakePayments{}
	contractors := &fakeContractors{contractors: map[string]*models.Contractor{"ct1": sitterCatalogue()}}
	reminders := &fakeReminders{}
	svc := &DefaultBookingService{
		Repo:        repo,
		Contractors: contractors,
		Payments:    payments,
		Fees:        testFees,
		Reminders:   reminders,
	}
	return svc, repo, payments, contractors, reminders
}

func boardingRequest() models.BookingRequest {
	start := time.Now().Add(48 * time.Hour)
	return models.BookingRequest{
		ClientID:     "cl1",
		ContractorID: "ct1",
		ServiceType:  "boarding",
		PetIDs:       []string{"pet1"},
		StartDate:    start,
		EndDate:      start.Add(72 * time.Hour),
	}
}

// --- tests ---

func TestRequestBookingPricesPerNight(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	// 3 nights at $40 = $120 base; client pays base plus both fees.
	base := 120.0
	total := base + 6.00 + 3.78
	require.Len(t, payments.created, 1)
	assert.InDelta(t, total, payments.created[0].Amount, 0.001)
	assert.InDelta(t, base, payments.created[0].BaseServiceAmount, 0.001)

	b, err := repo.GetByID(resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, models.PaymentStatusPending, b.PaymentStatus)
	assert.Equal(t, "pi_1", b.PaymentIntentID)
	assert.Equal(t, "secret", resp.ClientSecret)
}

func TestRequestBookingRejectsUnknownService(t *testing.T) {
	svc, _, payments, _, _ := newTestService()

	req := boardingRequest()
	req.ServiceType = "grooming"
	_, err := svc.RequestBooking(context.Background(), req)
	require.Error(t, err)
	assert.Empty(t, payments.created)
}

func TestRequestBookingRequiresUnitsForPerVisit(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	req := boardingRequest()
	req.ServiceType = "walking"
	_, err := svc.RequestBooking(context.Background(), req)
	require.Error(t, err)

	req.Units = 5
	resp, err := svc.RequestBooking(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, resp.Booking.BaseServiceAmount, 0.001)
}

func TestApproveBookingSchedulesReminder(t *testing.T) {
	svc, _, _, _, reminders := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	b, err := svc.ApproveBooking(context.Background(), resp.Booking.ID, "ct1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, b.Status)
	assert.Equal(t, []string{b.ID}, reminders.scheduled)
}

func TestApproveBookingWrongContractor(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	_, err = svc.ApproveBooking(context.Background(), resp.Booking.ID, "ct2")
	require.Error(t, err)
	var be *BookingError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "forbidden", be.Code)
}

func TestEditBookingAmendsInPlace(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	edit := models.BookingEditRequest{
		EndDate: resp.Booking.StartDate.Add(120 * time.Hour), // 5 nights now
	}
	edited, err := svc.EditBooking(context.Background(), resp.Booking.ID, "cl1", edit)
	require.NoError(t, err)
	assert.False(t, edited.Replaced)
	assert.Equal(t, resp.Booking.PaymentIntentID, edited.Booking.PaymentIntentID)

	require.Len(t, payments.updated, 1)
	assert.InDelta(t, 200.0, payments.updated[0].BaseServiceAmount, 0.001)

	b, err := repo.GetByID(resp.Booking.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, b.BaseServiceAmount, 0.001)
}

func TestEditBookingReplacedIntentIsSwapped(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()
	payments.replaceOnUpdate = true

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)
	oldIntent := resp.Booking.PaymentIntentID

	edit := models.BookingEditRequest{EndDate: resp.Booking.StartDate.Add(120 * time.Hour)}
	edited, err := svc.EditBooking(context.Background(), resp.Booking.ID, "cl1", edit)
	require.NoError(t, err)
	assert.True(t, edited.Replaced)
	assert.NotEqual(t, oldIntent, edited.Booking.PaymentIntentID)

	b, err := repo.GetByID(resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Booking.PaymentIntentID, b.PaymentIntentID)
}

func TestEditBookingLosingSwapRaceCancelsReplacement(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()
	payments.replaceOnUpdate = true

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)
	id := resp.Booking.ID

	// A concurrent edit installs its own intent right after this edit's read.
	repo.afterGet = func() {
		repo.mu.Lock()
		repo.bookings[id].PaymentIntentID = "pi_rival"
		repo.mu.Unlock()
	}

	edit := models.BookingEditRequest{EndDate: resp.Booking.StartDate.Add(120 * time.Hour)}
	_, err = svc.EditBooking(context.Background(), id, "cl1", edit)
	var be *BookingError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "stateError", be.Code)

	// The replacement created for the losing edit must not be left holding
	// the client's funds.
	assert.Equal(t, []string{"pi_2"}, payments.cancelled)

	stored, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "pi_rival", stored.PaymentIntentID, "the winning edit's intent stays installed")
}

func TestEditBookingRejectsAfterCapture(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	b, _ := repo.GetByID(resp.Booking.ID)
	require.NoError(t, repo.UpdateConditional(b.ID, b.Version, bson.M{"paymentStatus": models.PaymentStatusPaid}))

	_, err = svc.EditBooking(context.Background(), resp.Booking.ID, "cl1", models.BookingEditRequest{Units: 2})
	require.Error(t, err)
	assert.Empty(t, payments.updated)
}

func TestMarkCompletedSingleConfirmationDoesNotCapture(t *testing.T) {
	svc, _, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)
	_, err = svc.ApproveBooking(context.Background(), resp.Booking.ID, "ct1")
	require.NoError(t, err)

	b, err := svc.MarkCompleted(context.Background(), resp.Booking.ID, "cl1", "client")
	require.NoError(t, err)
	assert.True(t, b.ClientCompleted)
	assert.False(t, b.ContractorCompleted)
	assert.Empty(t, payments.captured)
}

func TestMarkCompletedSecondConfirmationCaptures(t *testing.T) {
	svc, _, payments, contractors, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)
	_, err = svc.ApproveBooking(context.Background(), resp.Booking.ID, "ct1")
	require.NoError(t, err)

	_, err = svc.MarkCompleted(context.Background(), resp.Booking.ID, "cl1", "client")
	require.NoError(t, err)
	_, err = svc.MarkCompleted(context.Background(), resp.Booking.ID, "ct1", "contractor")
	require.NoError(t, err)

	assert.Equal(t, []string{resp.Booking.ID}, payments.captured)
	assert.Equal(t, 1, contractors.contractors["ct1"].CompletedBookings)
}

func TestMarkCompletedIdempotentPerParty(t *testing.T) {
	svc, _, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)
	_, err = svc.ApproveBooking(context.Background(), resp.Booking.ID, "ct1")
	require.NoError(t, err)

	_, err = svc.MarkCompleted(context.Background(), resp.Booking.ID, "cl1", "client")
	require.NoError(t, err)
	_, err = svc.MarkCompleted(context.Background(), resp.Booking.ID, "cl1", "client")
	require.NoError(t, err)
	assert.Empty(t, payments.captured)
}

func TestMarkCompletedRetriesCaptureAfterFailure(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)
	id := resp.Booking.ID
	_, err = svc.ApproveBooking(context.Background(), id, "ct1")
	require.NoError(t, err)
	_, err = svc.MarkCompleted(context.Background(), id, "cl1", "client")
	require.NoError(t, err)

	// The processor is down when the second confirmation lands.
	payments.captureErr = fmt.Errorf("processor unavailable")
	_, err = svc.MarkCompleted(context.Background(), id, "ct1", "contractor")
	require.Error(t, err)

	stored, err := repo.GetByID(id)
	require.NoError(t, err)
	assert.True(t, stored.ClientCompleted)
	assert.True(t, stored.ContractorCompleted)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)

	// The outage clears; a repeat confirmation from either party must
	// re-attempt the capture rather than short-circuit on the set flag.
	payments.captureErr = nil
	payments.afterCapture = func(bookingID string) {
		b, _ := repo.GetByID(bookingID)
		_ = repo.UpdateConditional(bookingID, b.Version, bson.M{
			"paymentStatus": models.PaymentStatusPaid,
			"status":        models.BookingStatusCompleted,
		})
	}
	final, err := svc.MarkCompleted(context.Background(), id, "cl1", "client")
	require.NoError(t, err)
	assert.Equal(t, []string{id, id}, payments.captured)
	assert.Equal(t, models.PaymentStatusPaid, final.PaymentStatus)
}

func TestCancelBookingReleasesHold(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	b, err := svc.CancelBooking(context.Background(), resp.Booking.ID, "cl1", "client")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b.Status)
	assert.Equal(t, []string{resp.Booking.PaymentIntentID}, payments.cancelled)

	stored, err := repo.GetByID(resp.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCancelled, stored.PaymentStatus)
}

func TestCancelBookingRejectsAfterCapture(t *testing.T) {
	svc, repo, payments, _, _ := newTestService()

	resp, err := svc.RequestBooking(context.Background(), boardingRequest())
	require.NoError(t, err)

	b, _ := repo.GetByID(resp.Booking.ID)
	require.NoError(t, repo.UpdateConditional(b.ID, b.Version, bson.M{
		"paymentStatus": models.PaymentStatusPaid,
		"status":        models.BookingStatusCompleted,
	}))

	_, err = svc.CancelBooking(context.Background(), resp.Booking.ID, "cl1", "client")
	require.Error(t, err)
	assert.Empty(t, payments.cancelled)
}

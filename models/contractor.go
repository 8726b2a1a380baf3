package models

import "time"

// PayoutAccountRef holds a contractor's external payout-account identifier plus
// the processor environment it was created under, mirroring PaymentCustomerRef.
type PayoutAccountRef struct {
	AccountID      string    `bson:"accountId,omitempty" json:"accountId,omitempty"`
	Mode           string    `bson:"mode,omitempty" json:"mode,omitempty"` // "test" or "live"
	ChargesEnabled bool      `bson:"chargesEnabled" json:"chargesEnabled"`
	CreatedAt      time.Time `bson:"createdAt,omitzero" json:"createdAt,omitzero"`
}

// ServiceOffering is one entry in a contractor's catalogue.
type ServiceOffering struct {
	ServiceType string  `bson:"serviceType" json:"serviceType"` // "walking", "boarding", ...
	Rate        float64 `bson:"rate" json:"rate"`               // per unit (visit/night/hour)
	Unit        string  `bson:"unit" json:"unit"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
}

// ContractorUpdateRequest carries the mutable profile fields.
type ContractorUpdateRequest struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// PayoutOnboarding is returned when a contractor starts or resumes payout
// onboarding. OnboardingURL is empty once charges are enabled.
type PayoutOnboarding struct {
	AccountID      string `json:"accountId"`
	ChargesEnabled bool   `json:"chargesEnabled"`
	OnboardingURL  string `json:"onboardingUrl,omitempty"`
}

// Contractor represents a pet-care service provider.
type Contractor struct {
	ID           string `bson:"id" json:"id,omitempty"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PhoneNumber  string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Password     string `bson:"-" json:"password,omitempty"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	TokenHash    string `bson:"tokenHash,omitempty" json:"-"`

	FirebaseUID string `bson:"firebaseUid,omitempty" json:"-"`
	FCMToken    string `bson:"fcmToken,omitempty" json:"-"`

	Bio          string            `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfileImage string            `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Services     []ServiceOffering `bson:"services,omitempty" json:"services,omitempty"`
	Rating       float64           `bson:"rating,omitempty" json:"rating,omitempty"`

	PayoutAccount PayoutAccountRef `bson:"payoutAccount,omitzero" json:"payoutAccount,omitzero"`

	CompletedBookings int       `bson:"completedBookings" json:"completedBookings,omitempty"`
	Banned            bool      `bson:"banned" json:"banned,omitempty"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

package models

import "time"

// BookingStatus values for the engagement lifecycle.
const (
	BookingStatusPending   = "pending"
	BookingStatusApproved  = "approved"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// PaymentStatus values for the booking's charge lifecycle.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusFailed    = "failed"
	PaymentStatusCancelled = "cancelled"
)

// Booking represents one engagement between a client (pet owner) and a
// contractor (care provider). Monetary fields are in major currency units.
type Booking struct {
	ID           string `bson:"id" json:"id"`
	ClientID     string `bson:"clientId" json:"clientId"`
	ContractorID string `bson:"contractorId" json:"contractorId"`

	ServiceType string    `bson:"serviceType" json:"serviceType"` // e.g. "walking", "boarding", "grooming"
	PetIDs      []string  `bson:"petIds" json:"petIds"`
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`

	// Commercial terms. PaymentAmount is the gross charge to the client.
	// BaseServiceAmount, when set, is the portion the contractor keeps; fees
	// are layered on top. When zero the legacy total-includes-fees rule applies.
	PaymentAmount     float64 `bson:"paymentAmount" json:"paymentAmount"`
	BaseServiceAmount float64 `bson:"baseServiceAmount,omitempty" json:"baseServiceAmount,omitempty"`
	Currency          string  `bson:"currency" json:"currency"`
	PlatformFee       float64 `bson:"platformFee" json:"platformFee"`
	StripeFee         float64 `bson:"stripeFee" json:"stripeFee"`
	NetPayout         float64 `bson:"netPayout" json:"netPayout"`

	// Payment linkage.
	PaymentIntentID string `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	PaymentStatus   string `bson:"paymentStatus" json:"paymentStatus"`
	Status          string `bson:"status" json:"status"`

	// Completion tracking. Funds may be captured only when both are true.
	ClientCompleted     bool `bson:"clientCompleted" json:"clientCompleted"`
	ContractorCompleted bool `bson:"contractorCompleted" json:"contractorCompleted"`

	// Version guards concurrent read-modify-write; every conditional update
	// bumps it, a filter mismatch means someone else got there first.
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingRequest is the payload a client submits to open an engagement.
// Units is the number of billable units (visits, nights, hours); when zero
// and the offering bills per night it is derived from the date range.
type BookingRequest struct {
	ClientID     string    `json:"clientId"`
	ContractorID string    `json:"contractorId" binding:"required"`
	ServiceType  string    `json:"serviceType" binding:"required"`
	PetIDs       []string  `json:"petIds" binding:"required"`
	StartDate    time.Time `json:"startDate" binding:"required"`
	EndDate      time.Time `json:"endDate" binding:"required"`
	Units        int       `json:"units"`
	Notes        string    `json:"notes"`
}

// BookingEditRequest changes the dates or amount of units of a pending or
// approved booking before funds are captured.
type BookingEditRequest struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Units     int       `json:"units"`
	Notes     string    `json:"notes"`
}

// BookingResponse pairs the persisted booking with the client-side payment
// handle the app needs to collect (or re-collect) the payment method.
type BookingResponse struct {
	Booking      *Booking `json:"booking"`
	ClientSecret string   `json:"clientSecret,omitempty"`
	Replaced     bool     `json:"replaced,omitempty"`
}

// CaptureResult is the financial summary returned after a successful capture.
type CaptureResult struct {
	TotalAmount float64 `json:"totalAmount"`
	PlatformFee float64 `json:"platformFee"`
	StripeFee   float64 `json:"stripeFee"`
	NetPayout   float64 `json:"netPayout"`
}

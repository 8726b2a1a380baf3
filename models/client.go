package models

import "time"

// Pet is a sub-document on the client profile.
type Pet struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Species   string `bson:"species" json:"species"` // "dog", "cat", ...
	Breed     string `bson:"breed,omitempty" json:"breed,omitempty"`
	AgeYears  int    `bson:"ageYears,omitempty" json:"ageYears,omitempty"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
	PhotoID   string `bson:"photoId,omitempty" json:"photoId,omitempty"` // storage public ID
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// PaymentCustomerRef holds a client's external payment-customer identifier
// together with the processor environment it was created under. An identifier
// created in one mode must never be reused in the other.
type PaymentCustomerRef struct {
	CustomerID string    `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Mode       string    `bson:"mode,omitempty" json:"mode,omitempty"` // "test" or "live"
	CreatedAt  time.Time `bson:"createdAt,omitzero" json:"createdAt,omitzero"`
}

// ClientUpdateRequest carries the mutable profile fields.
type ClientUpdateRequest struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Client represents a pet owner.
type Client struct {
	ID           string `bson:"id" json:"id,omitempty"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PhoneNumber  string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Password     string `bson:"-" json:"password,omitempty"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	TokenHash    string `bson:"tokenHash,omitempty" json:"-"`

	FirebaseUID string `bson:"firebaseUid,omitempty" json:"-"`
	FCMToken    string `bson:"fcmToken,omitempty" json:"-"`

	Pets []Pet `bson:"pets,omitempty" json:"pets,omitempty"`

	PaymentCustomer PaymentCustomerRef `bson:"paymentCustomer,omitzero" json:"paymentCustomer,omitzero"`

	Banned    bool      `bson:"banned" json:"banned,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

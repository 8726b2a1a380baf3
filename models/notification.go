package models

import "time"

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Data      map[string]any `json:"data"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Roles used by legal documents and admin filtering.
const (
	RoleClient     = "client"
	RoleContractor = "contractor"
	RoleBoth       = "both"
)

// LegalSection is a versioned legal document served by the admin back office.
type LegalSection struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Version  string `json:"version"`
	Updated  string `json:"updated"`
}

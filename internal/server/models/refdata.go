package models

import "time"

// Row statuses shared by all reference-data entities.
// "A" = active, "I" = inactive, "trash" = soft-deleted by the client app.
const (
	StatusActive   = "A"
	StatusInactive = "I"
	StatusTrash    = "trash"
)

// ValidStatus reports whether s is one of the accepted status values.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusTrash
}

// Region is the top level of the reference hierarchy.
type Region struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Commune belongs to exactly one Region.
type Commune struct {
	ID          int64     `json:"id"`
	RegionID    int64     `json:"id_reg"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Customer references both a Region and a Commune.
type Customer struct {
	ID        int64     `json:"id"`
	DNI       string    `json:"dni"`
	RegionID  int64     `json:"id_reg"`
	CommuneID int64     `json:"id_com"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LastName  string    `json:"last_name"`
	Address   *string   `json:"address"`
	DateReg   time.Time `json:"date_reg"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

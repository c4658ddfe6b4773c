package models

import (
	"time"
)

// PlanID identifies a row in the plan catalog. The seven catalog rows are an
// explicit enumeration; yearly variants are independent IDs, never synthesized
// by string concatenation.
type PlanID string

const (
	PlanFree          PlanID = "free"
	PlanStarter       PlanID = "starter"
	PlanPro           PlanID = "pro"
	PlanUltra         PlanID = "ultra"
	PlanStarterYearly PlanID = "starter_yearly"
	PlanProYearly     PlanID = "pro_yearly"
	PlanUltraYearly   PlanID = "ultra_yearly"
)

// Valid reports whether p is one of the catalog plan IDs.
func (p PlanID) Valid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro, PlanUltra,
		PlanStarterYearly, PlanProYearly, PlanUltraYearly:
		return true
	}
	return false
}

// AdminUserID is the fixed ID of the privileged bypass identity. That identity
// is resolved from configured credentials at login and is never written to the
// users table.
const AdminUserID = "admin-id"

// User represents an account in the metadata store.
type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Credits   Credits   `json:"credits" db:"-"`
	Plan      PlanID    `json:"plan" db:"plan"`
	Avatar    string    `json:"avatar" db:"avatar"`
	IsAdmin   bool      `json:"is_admin,omitempty" db:"is_admin"`
	Version   int64     `json:"-" db:"version"` // optimistic concurrency check
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy safe to hand to callers.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

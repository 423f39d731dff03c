package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// CustomerProfile carries the rental-relevant customer data. A user without
// a profile cannot book.
type CustomerProfile struct {
	LicenseNumber string    `json:"license_number" validate:"required"`
	LicenseExpiry time.Time `json:"license_expiry" validate:"required"`
	Phone         string    `json:"phone" validate:"omitempty,e164"`
}

type User struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email" validate:"required,email"`
	FullName  string           `json:"full_name" validate:"required"`
	Role      Role             `json:"role" validate:"required,oneof=CUSTOMER STAFF ADMIN"`
	Profile   *CustomerProfile `json:"profile,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// CanDriveUntil reports whether the user's driving license stays valid
// through the given date.
func (u *User) CanDriveUntil(date time.Time) bool {
	return u.Profile != nil && !u.Profile.LicenseExpiry.Before(date)
}

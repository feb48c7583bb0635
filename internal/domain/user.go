package domain

import "time"

// Role represents a user's role in the marketplace
type Role string

const (
	RoleRenter   Role = "renter"
	RoleMerchant Role = "merchant"
	RoleAdmin    Role = "admin"
)

// LicenseStatus represents the KYC state of a renter's driving license
type LicenseStatus string

const (
	LicenseNotSubmitted LicenseStatus = "not_submitted"
	LicensePending      LicenseStatus = "pending"
	LicenseApproved     LicenseStatus = "approved"
	LicenseRejected     LicenseStatus = "rejected"
)

// User represents a marketplace account. Read-only input for the booking
// core; account mutation lives in the auth flow.
type User struct {
	ID            int64
	Phone         string // E.164 format
	PhoneVerified bool
	Role          Role
	FirstName     *string
	LastName      *string
	Email         *string
	BusinessName  *string // merchants only
	LicenseStatus LicenseStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRenter returns true if the user holds the renter role
func (u *User) IsRenter() bool {
	return u.Role == RoleRenter
}

// IsMerchant returns true if the user holds the merchant role
func (u *User) IsMerchant() bool {
	return u.Role == RoleMerchant
}

// CanBook returns true if the user is a renter with an approved license
func (u *User) CanBook() bool {
	return u.IsRenter() && u.LicenseStatus == LicenseApproved
}

// Package models defines the persistent domain entities, configured to work
// with GORM as the ORM. Uniqueness constraints live on the models so the
// storage engine enforces them atomically.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an individual (driver) account. OAuth-originated users carry a
// synthesized phone of the form "{provider}_{providerUserId}".
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:100" json:"name"`
	Phone    string    `gorm:"size:64;uniqueIndex" json:"phone"`
	Email    *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Password string    `gorm:"size:255" json:"-"`
	Verified bool      `json:"verified"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Company is a business account holding vehicle-number listings. Sibling
// companies of a multi-company account share phone, email and password, so
// only the business number is unique.
type Company struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessNumber string     `gorm:"size:32;uniqueIndex" json:"businessNumber"`
	CompanyName    string     `gorm:"size:100" json:"companyName"`
	Representative string     `gorm:"size:100" json:"representative"`
	Phone          string     `gorm:"size:32;index" json:"phone"`
	ContactPhone   string     `gorm:"size:32" json:"contactPhone"`
	Email          string     `gorm:"size:255" json:"email"`
	Password       string     `gorm:"size:255" json:"-"`
	Verified       bool       `json:"verified"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Vehicle is a vehicle-number listing owned by exactly one company. The
// contact phone is stored on the listing but only exposed through the
// contact-gate after payment.
type Vehicle struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID `gorm:"type:uuid;index" json:"companyId"`
	VehicleNumber string    `gorm:"size:32" json:"vehicleNumber"`
	VehicleType   string    `gorm:"size:64;index" json:"vehicleType"`
	Region        string    `gorm:"size:64;index" json:"region"`
	Tonnage       string    `gorm:"size:32" json:"tonnage"`
	YearModel     int       `json:"yearModel"`
	MonthlyFee    int       `json:"monthlyFee"`
	InsuranceRate float64   `json:"insuranceRate"`
	Description   string    `gorm:"size:3000" json:"description"`
	Phone         string    `gorm:"size:32" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Payment is a contact-unlock record. Its existence for a (user, vehicle)
// pair is the paid flag; there is no state machine and no refund path.
type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"type:uuid;index:idx_payments_vehicle_user" json:"vehicleId"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_payments_vehicle_user" json:"userId"`
	Amount    int       `json:"amount"`

	CreatedAt time.Time `json:"createdAt"`
}

// PasswordResetToken is an opaque single-use reset token. It is consumed at
// validation time, not at completion.
type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"size:64;uniqueIndex"`
	UserType  string    `gorm:"size:16"`
	AccountID uuid.UUID `gorm:"type:uuid"`
	ExpiresAt time.Time
	Used      bool

	CreatedAt time.Time
}

// UserUpdate holds the mutable User fields for partial updates.
// Pointer types distinguish "not provided" from zero values.
type UserUpdate struct {
	Name     *string
	Phone    *string
	Email    *string
	Password *string
}

// CompanyUpdate holds the mutable Company fields for partial updates.
type CompanyUpdate struct {
	CompanyName    *string
	Representative *string
	Phone          *string
	Email          *string
	ContactPhone   *string
	Password       *string
}

// VehicleUpdate holds the mutable Vehicle fields for partial updates.
type VehicleUpdate struct {
	VehicleNumber *string  `json:"vehicleNumber"`
	VehicleType   *string  `json:"vehicleType"`
	Region        *string  `json:"region"`
	Tonnage       *string  `json:"tonnage"`
	YearModel     *int     `json:"yearModel"`
	MonthlyFee    *int     `json:"monthlyFee"`
	InsuranceRate *float64 `json:"insuranceRate"`
	Description   *string  `json:"description"`
	Phone         *string  `json:"phone"`
}

// All lists every persistent model for migration.
func All() []any {
	return []any{
		&User{},
		&Company{},
		&Vehicle{},
		&Payment{},
		&PasswordResetToken{},
	}
}

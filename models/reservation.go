package models

import "time"

// Status reservasi (terminal kecuali active)
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
	ReservationNoShow    = "noshow"
)

type Reservation struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ConfirmationCode string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"confirmation_code"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	GuestCount       int       `gorm:"not null" json:"guest_count"`
	ReservedFor      time.Time `gorm:"index;not null" json:"reserved_for"`
	Status           string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

package models

import "time"

// Status entri waiting list
const (
	WaitingListWaiting   = "waiting"
	WaitingListNotified  = "notified"
	WaitingListArrived   = "arrived"
	WaitingListCancelled = "cancelled"
	WaitingListNoShow    = "noshow"
)

type WaitingListEntry struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	ConfirmationCode string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"confirmation_code"`
	UserID           uint       `gorm:"index;not null" json:"user_id"`
	User             User       `gorm:"foreignKey:UserID" json:"-"`
	GuestCount       int        `gorm:"not null" json:"guest_count"`
	JoinedAt         time.Time  `gorm:"index;not null" json:"joined_at"`
	Status           string     `gorm:"type:varchar(20);not null;default:'waiting'" json:"status"`
	NotifiedAt       *time.Time `json:"notified_at,omitempty"`
	// NotifyDeadline disimpan agar sweep bisa memulihkan timer yang hilang
	// setelah restart proses.
	NotifyDeadline *time.Time `gorm:"index" json:"notify_deadline,omitempty"`
	OfferedTableID *uint      `gorm:"index" json:"offered_table_id,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

// IsTerminal -> status yang tidak boleh berubah lagi
func (e *WaitingListEntry) IsTerminal() bool {
	switch e.Status {
	case WaitingListArrived, WaitingListCancelled, WaitingListNoShow:
		return true
	}
	return false
}

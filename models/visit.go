package models

import "time"

// Status kunjungan
const (
	VisitActive      = "active"
	VisitBillPending = "bill_pending"
	VisitFinished    = "finished"
)

type Visit struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ConfirmationCode string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"confirmation_code"`
	TableID          uint      `gorm:"index;not null" json:"table_id"`
	Table            Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	BillID           *uint     `gorm:"index" json:"bill_id,omitempty"`
	Bill             *Bill     `gorm:"foreignKey:BillID" json:"-"`
	StartedAt        time.Time `gorm:"not null" json:"started_at"`
	Status           string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

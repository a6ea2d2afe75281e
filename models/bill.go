package models

import "time"

const (
	BillOpen   = "open"
	BillClosed = "closed"
)

// Bill dibuka bersamaan dengan Visit; perhitungan tagihan dilakukan
// oleh sistem billing terpisah.
type Bill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Total     float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Status    string    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

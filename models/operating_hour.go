package models

import "time"

// OperatingHour menyimpan jam buka per hari dalam menit sejak tengah malam.
// Hari tanpa baris dianggap tutup. ClosesAt < OpensAt berarti buka sampai
// lewat tengah malam.
type OperatingHour struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Weekday   time.Weekday `gorm:"uniqueIndex;not null" json:"weekday"`
	OpensAt   int          `gorm:"not null" json:"opens_at"`
	ClosesAt  int          `gorm:"not null" json:"closes_at"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

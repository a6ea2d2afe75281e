package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-seating/models"
	"gorm.io/gorm"
)

// Snapshot adalah potret inventaris meja + jam buka yang immutable.
// Pembaca memegang referensi snapshot selama satu request dan tidak
// pernah melihat snapshot setengah jadi.
type Snapshot struct {
	Tables        []models.Table
	TotalCapacity int
	Hours         map[time.Weekday]models.OperatingHour
	LoadedAt      time.Time
}

// IsOpenAt -> cek jam buka, termasuk jadwal yang lewat tengah malam
// (baris hari sebelumnya dengan closes_at < opens_at).
func (s *Snapshot) IsOpenAt(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()

	if hour, ok := s.Hours[t.Weekday()]; ok {
		if hour.ClosesAt > hour.OpensAt {
			if minutes >= hour.OpensAt && minutes < hour.ClosesAt {
				return true
			}
		} else if hour.ClosesAt < hour.OpensAt {
			// Buka sampai lewat tengah malam: porsi malam ini
			if minutes >= hour.OpensAt {
				return true
			}
		}
	}

	// Porsi dini hari dari jadwal overnight hari sebelumnya
	prev := (t.Weekday() + 6) % 7
	if hour, ok := s.Hours[prev]; ok {
		if hour.ClosesAt < hour.OpensAt && minutes < hour.ClosesAt {
			return true
		}
	}

	return false
}

// FreeTables -> meja available di snapshot
func (s *Snapshot) FreeTables() []models.Table {
	free := make([]models.Table, 0, len(s.Tables))
	for _, t := range s.Tables {
		if t.Status == models.TableAvailable {
			free = append(free, t)
		}
	}
	return free
}

// RestaurantCache menyimpan snapshot inventaris di memori supaya
// keputusan admission tidak mengulang query berat per request.
// Komponen yang mengubah meja/jam buka WAJIB memanggil Reload sebelum
// membalas ke caller-nya.
type RestaurantCache struct {
	db   *gorm.DB
	mu   sync.RWMutex
	snap *Snapshot
}

func NewRestaurantCache(db *gorm.DB) *RestaurantCache {
	return &RestaurantCache{db: db}
}

// Load membangun snapshot baru dari store. Kalau gagal, snapshot lama
// tetap utuh.
func (rc *RestaurantCache) Load() error {
	var tables []models.Table
	if err := rc.db.
		Where("status <> ?", models.TableArchived).
		Order("capacity ASC, id ASC").
		Find(&tables).Error; err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}

	var hours []models.OperatingHour
	if err := rc.db.Find(&hours).Error; err != nil {
		return fmt.Errorf("failed to load operating hours: %w", err)
	}

	snap := &Snapshot{
		Tables:   tables,
		Hours:    make(map[time.Weekday]models.OperatingHour, len(hours)),
		LoadedAt: time.Now(),
	}
	for _, t := range tables {
		snap.TotalCapacity += t.Capacity
	}
	for _, h := range hours {
		snap.Hours[h.Weekday] = h
	}

	rc.mu.Lock()
	rc.snap = snap
	rc.mu.Unlock()
	return nil
}

// Reload -> sama dengan Load; nama terpisah supaya call site mutasi
// terbaca eksplisit.
func (rc *RestaurantCache) Reload() error {
	return rc.Load()
}

// Snapshot mengembalikan referensi snapshot terkini. Nil sebelum Load
// pertama berhasil.
func (rc *RestaurantCache) Snapshot() *Snapshot {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.snap
}

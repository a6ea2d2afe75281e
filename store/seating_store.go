package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-seating/models"
	"gorm.io/gorm"
)

// ErrTableUnavailable dikembalikan ketika meja sudah keburu diambil
// request lain di antara evaluasi dan commit.
var ErrTableUnavailable = errors.New("table is no longer available")

// SeatingStore adalah façade persistence untuk core seating. Semua
// komponen lain membaca/menulis lewat sini, tidak langsung ke *gorm.DB.
type SeatingStore struct {
	db *gorm.DB
}

func NewSeatingStore(db *gorm.DB) *SeatingStore {
	return &SeatingStore{db: db}
}

// DB mengekspos handle mentah untuk bootstrap (migrasi) dan test.
func (s *SeatingStore) DB() *gorm.DB {
	return s.db
}

// ListFreeTablesWithCapacityAtLeast -> meja available berkapasitas >= n,
// urut naik berdasarkan kapasitas (best-fit: meja terkecil dulu).
func (s *SeatingStore) ListFreeTablesWithCapacityAtLeast(n int) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.
		Where("status = ? AND capacity >= ?", models.TableAvailable, n).
		Order("capacity ASC, id ASC").
		Find(&tables).Error
	return tables, err
}

// TotalCapacity -> jumlah kursi seluruh meja yang tidak diarsip
func (s *SeatingStore) TotalCapacity() (int, error) {
	var total int64
	err := s.db.Model(&models.Table{}).
		Where("status <> ?", models.TableArchived).
		Select("COALESCE(SUM(capacity), 0)").
		Scan(&total).Error
	return int(total), err
}

// OccupiedCapacity -> jumlah kursi meja yang sedang terpakai
func (s *SeatingStore) OccupiedCapacity() (int, error) {
	var occupied int64
	err := s.db.Model(&models.Table{}).
		Where("status = ?", models.TableOccupied).
		Select("COALESCE(SUM(capacity), 0)").
		Scan(&occupied).Error
	return int(occupied), err
}

func (s *SeatingStore) GetTable(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, tableID).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// SetTableAvailability -> available=false berarti occupied
func (s *SeatingStore) SetTableAvailability(tableID uint, available bool) error {
	status := models.TableOccupied
	if available {
		status = models.TableAvailable
	}
	res := s.db.Model(&models.Table{}).
		Where("id = ? AND status <> ?", tableID, models.TableArchived).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("table %d not found or archived", tableID)
	}
	return nil
}

// SumGuestsArrivingInWindow menghitung tamu yang harus dilindungi dalam
// window [start, end): reservasi active yang jatuh di window plus entri
// waiting list berstatus notified (mereka sedang dalam perjalanan).
func (s *SeatingStore) SumGuestsArrivingInWindow(start, end time.Time) (int, error) {
	var reserved int64
	err := s.db.Model(&models.Reservation{}).
		Where("status = ? AND reserved_for >= ? AND reserved_for < ?",
			models.ReservationActive, start, end).
		Select("COALESCE(SUM(guest_count), 0)").
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}

	var notified int64
	err = s.db.Model(&models.WaitingListEntry{}).
		Where("status = ?", models.WaitingListNotified).
		Select("COALESCE(SUM(guest_count), 0)").
		Scan(&notified).Error
	if err != nil {
		return 0, err
	}

	return int(reserved + notified), nil
}

// InsertVisitAndOpenBill membuat bill + visit dan menandai meja occupied
// dalam satu transaksi. Gagal di tengah berarti rollback total.
func (s *SeatingStore) InsertVisitAndOpenBill(code string, userID, tableID uint, now time.Time) (*models.Visit, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	bill := models.Bill{Status: models.BillOpen}
	if err := tx.Create(&bill).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to open bill: %w", err)
	}

	visit := models.Visit{
		ConfirmationCode: code,
		TableID:          tableID,
		UserID:           userID,
		BillID:           &bill.ID,
		StartedAt:        now,
		Status:           models.VisitActive,
	}
	if err := tx.Create(&visit).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	res := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", tableID, models.TableAvailable).
		Update("status", models.TableOccupied)
	if res.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to occupy table: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrTableUnavailable
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit visit: %w", err)
	}
	return &visit, nil
}

func (s *SeatingStore) InsertWaitingListEntry(entry *models.WaitingListEntry) error {
	return s.db.Create(entry).Error
}

func (s *SeatingStore) GetEntry(code string) (*models.WaitingListEntry, error) {
	var entry models.WaitingListEntry
	if err := s.db.Where("confirmation_code = ?", code).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *SeatingStore) GetEntryStatus(code string) (string, error) {
	entry, err := s.GetEntry(code)
	if err != nil {
		return "", err
	}
	return entry.Status, nil
}

func (s *SeatingStore) SetEntryStatus(code, status string) error {
	res := s.db.Model(&models.WaitingListEntry{}).
		Where("confirmation_code = ?", code).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdvanceEntryStatus mengubah status hanya jika status saat ini masih
// `from`. Return false tanpa error kalau entri sudah berpindah status;
// ini guard idempotensi untuk timer no-show.
func (s *SeatingStore) AdvanceEntryStatus(code, from, to string) (bool, error) {
	res := s.db.Model(&models.WaitingListEntry{}).
		Where("confirmation_code = ? AND status = ?", code, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkEntryNotified -> WAITING menjadi NOTIFIED dengan deadline persisten
func (s *SeatingStore) MarkEntryNotified(code string, tableID uint, now, deadline time.Time) (bool, error) {
	res := s.db.Model(&models.WaitingListEntry{}).
		Where("confirmation_code = ? AND status = ?", code, models.WaitingListWaiting).
		Updates(map[string]interface{}{
			"status":           models.WaitingListNotified,
			"notified_at":      now,
			"notify_deadline":  deadline,
			"offered_table_id": tableID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountActiveWaiters -> entri waiting + notified; dipakai aturan fairness
func (s *SeatingStore) CountActiveWaiters() (int64, error) {
	var count int64
	err := s.db.Model(&models.WaitingListEntry{}).
		Where("status IN ?", []string{models.WaitingListWaiting, models.WaitingListNotified}).
		Count(&count).Error
	return count, err
}

// HasOpenEngagement -> duplicate guard: user masih punya entri waiting
// list non-terminal atau reservasi active
func (s *SeatingStore) HasOpenEngagement(userID uint) (bool, error) {
	var entries int64
	err := s.db.Model(&models.WaitingListEntry{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.WaitingListWaiting, models.WaitingListNotified}).
		Count(&entries).Error
	if err != nil {
		return false, err
	}
	if entries > 0 {
		return true, nil
	}

	var reservations int64
	err = s.db.Model(&models.Reservation{}).
		Where("user_id = ? AND status = ?", userID, models.ReservationActive).
		Count(&reservations).Error
	if err != nil {
		return false, err
	}
	return reservations > 0, nil
}

// OldestWaitingForCapacity -> entri WAITING paling lama yang muat di
// meja berkapasitas `capacity`; nil kalau tidak ada.
func (s *SeatingStore) OldestWaitingForCapacity(capacity int) (*models.WaitingListEntry, error) {
	var entry models.WaitingListEntry
	err := s.db.
		Where("status = ? AND guest_count <= ?", models.WaitingListWaiting, capacity).
		Order("joined_at ASC, id ASC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWaiting -> seluruh antrean aktif urut kedatangan
func (s *SeatingStore) ListWaiting() ([]models.WaitingListEntry, error) {
	var entries []models.WaitingListEntry
	err := s.db.
		Where("status IN ?", []string{models.WaitingListWaiting, models.WaitingListNotified}).
		Order("joined_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// ExpiredNotifications -> entri NOTIFIED yang deadline-nya sudah lewat;
// dipakai sweep untuk memulihkan timer yang hilang saat restart.
func (s *SeatingStore) ExpiredNotifications(now time.Time) ([]models.WaitingListEntry, error) {
	var entries []models.WaitingListEntry
	err := s.db.
		Where("status = ? AND notify_deadline IS NOT NULL AND notify_deadline <= ?",
			models.WaitingListNotified, now).
		Find(&entries).Error
	return entries, err
}

// GetVisit -> visit berdasarkan confirmation code
func (s *SeatingStore) GetVisit(code string) (*models.Visit, error) {
	var visit models.Visit
	if err := s.db.Where("confirmation_code = ?", code).First(&visit).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

// FinishVisitAndFreeTable menutup visit + bill dan membebaskan meja
// dalam satu transaksi.
func (s *SeatingStore) FinishVisitAndFreeTable(code string) (*models.Visit, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var visit models.Visit
	if err := tx.Where("confirmation_code = ?", code).First(&visit).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if visit.Status == models.VisitFinished {
		tx.Rollback()
		return nil, fmt.Errorf("visit %s already finished", code)
	}

	visit.Status = models.VisitFinished
	if err := tx.Save(&visit).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to finish visit: %w", err)
	}

	if visit.BillID != nil {
		if err := tx.Model(&models.Bill{}).
			Where("id = ?", *visit.BillID).
			Update("status", models.BillClosed).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to close bill: %w", err)
		}
	}

	if err := tx.Model(&models.Table{}).
		Where("id = ? AND status = ?", visit.TableID, models.TableOccupied).
		Update("status", models.TableAvailable).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to free table: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit visit finish: %w", err)
	}
	return &visit, nil
}

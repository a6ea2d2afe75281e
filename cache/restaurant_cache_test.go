package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-seating/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCacheTest(t *testing.T) (*gorm.DB, *RestaurantCache) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.OperatingHour{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewRestaurantCache(db)
}

func TestLoadBuildsSnapshot(t *testing.T) {
	db, rc := setupCacheTest(t)

	db.Create(&models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableAvailable})
	db.Create(&models.Table{TableNumber: "T2", Capacity: 6, Status: models.TableOccupied})
	db.Create(&models.Table{TableNumber: "T3", Capacity: 8, Status: models.TableArchived})
	db.Create(&models.OperatingHour{Weekday: time.Monday, OpensAt: 600, ClosesAt: 1320})

	assert.Nil(t, rc.Snapshot())
	assert.NoError(t, rc.Load())

	snap := rc.Snapshot()
	if assert.NotNil(t, snap) {
		// Meja archived tidak masuk snapshot maupun total kapasitas
		assert.Len(t, snap.Tables, 2)
		assert.Equal(t, 10, snap.TotalCapacity)
		assert.Len(t, snap.FreeTables(), 1)
		assert.Contains(t, snap.Hours, time.Monday)
		assert.False(t, snap.LoadedAt.IsZero())
	}
}

func TestReloadFailureKeepsOldSnapshot(t *testing.T) {
	db, rc := setupCacheTest(t)

	db.Create(&models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableAvailable})
	assert.NoError(t, rc.Load())
	old := rc.Snapshot()

	// Paksa reload gagal
	if err := db.Migrator().DropTable(&models.Table{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	assert.Error(t, rc.Reload())
	assert.Same(t, old, rc.Snapshot())
}

func TestReloadSwapsSnapshotAtomically(t *testing.T) {
	db, rc := setupCacheTest(t)

	db.Create(&models.Table{TableNumber: "T1", Capacity: 4, Status: models.TableAvailable})
	assert.NoError(t, rc.Load())
	old := rc.Snapshot()

	db.Create(&models.Table{TableNumber: "T2", Capacity: 6, Status: models.TableAvailable})
	assert.NoError(t, rc.Reload())

	snap := rc.Snapshot()
	assert.NotSame(t, old, snap)
	assert.Equal(t, 10, snap.TotalCapacity)
	// Snapshot lama tidak berubah di tangan pembaca lama
	assert.Equal(t, 4, old.TotalCapacity)
}

func TestIsOpenAtRegularHours(t *testing.T) {
	snap := &Snapshot{Hours: map[time.Weekday]models.OperatingHour{
		time.Friday: {Weekday: time.Friday, OpensAt: 600, ClosesAt: 1320}, // 10:00-22:00
	}}

	// 2026-08-28 adalah Jumat
	assert.True(t, snap.IsOpenAt(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)))
	assert.True(t, snap.IsOpenAt(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)))
	assert.False(t, snap.IsOpenAt(time.Date(2026, 8, 28, 22, 0, 0, 0, time.UTC)))
	assert.False(t, snap.IsOpenAt(time.Date(2026, 8, 28, 9, 59, 0, 0, time.UTC)))
}

func TestIsOpenAtOvernightSchedule(t *testing.T) {
	snap := &Snapshot{Hours: map[time.Weekday]models.OperatingHour{
		time.Friday: {Weekday: time.Friday, OpensAt: 1080, ClosesAt: 120}, // 18:00-02:00
	}}

	// Porsi malam Jumat
	assert.True(t, snap.IsOpenAt(time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)))
	// Porsi dini hari Sabtu masih bagian jadwal Jumat
	assert.True(t, snap.IsOpenAt(time.Date(2026, 8, 29, 1, 30, 0, 0, time.UTC)))
	assert.False(t, snap.IsOpenAt(time.Date(2026, 8, 29, 2, 0, 0, 0, time.UTC)))
	// Jumat sore sebelum buka
	assert.False(t, snap.IsOpenAt(time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC)))
}

func TestIsOpenAtClosedDayWithoutRow(t *testing.T) {
	snap := &Snapshot{Hours: map[time.Weekday]models.OperatingHour{
		time.Friday: {Weekday: time.Friday, OpensAt: 600, ClosesAt: 1320},
	}}

	// 2026-08-27 adalah Kamis, tidak punya baris jam buka
	assert.False(t, snap.IsOpenAt(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)))
}

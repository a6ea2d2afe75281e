package seating

import (
	"time"

	"github.com/yeremiapane/restaurant-seating/events"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
)

const (
	// NoShowGrace adalah batas waktu check-in setelah party dipanggil.
	NoShowGrace = 15 * time.Minute
	// SweepInterval menentukan seberapa sering deadline persisten
	// diperiksa ulang; timer in-memory hilang saat restart, sweep
	// yang memulihkannya.
	SweepInterval = time.Minute
)

// NoShowScheduler mengeksekusi transisi NOTIFIED -> NOSHOW. Timer
// berjalan di goroutine terpisah dari request handling; callback hanya
// bertindak kalau statusnya masih NOTIFIED (guard idempotensi).
type NoShowScheduler struct {
	store     *store.SeatingStore
	admission *AdmissionService
	StopChan  chan struct{}
}

func NewNoShowScheduler(st *store.SeatingStore, adm *AdmissionService) *NoShowScheduler {
	return &NoShowScheduler{
		store:     st,
		admission: adm,
		StopChan:  make(chan struct{}),
	}
}

// Arm memasang timer sekali jalan untuk satu notifikasi. Fire-and-forget:
// tidak ada pembatalan, callback yang memutuskan lewat status entri.
func (ns *NoShowScheduler) Arm(code string, tableID uint) {
	time.AfterFunc(NoShowGrace, func() {
		ns.Expire(code, tableID, time.Now())
	})
}

// Expire -> kalau entri masih NOTIFIED, jadikan NOSHOW dan tawarkan
// mejanya ke party berikutnya. No-op kalau status sudah berubah, jadi
// timer ganda atau timer + sweep tidak double-process.
func (ns *NoShowScheduler) Expire(code string, tableID uint, now time.Time) {
	ok, err := ns.store.AdvanceEntryStatus(code, models.WaitingListNotified, models.WaitingListNoShow)
	if err != nil {
		utils.ErrorLogger.Printf("No-show check for %s failed: %v", code, err)
		return
	}
	if !ok {
		// Sudah ARRIVED/CANCELLED, atau sweep keburu memproses
		return
	}

	utils.InfoLogger.Printf("Entry %s marked no-show, re-offering table %d", code, tableID)
	events.BroadcastWaitlistNoShow(code, tableID)

	if err := ns.admission.OfferTable(tableID, now); err != nil {
		utils.ErrorLogger.Printf("Failed to re-offer table %d after no-show: %v", tableID, err)
	}
}

// Start menjalankan sweep periodik atas notify_deadline yang tersimpan
// sehingga restart proses paling lama menunda no-show satu interval.
func (ns *NoShowScheduler) Start() {
	go func() {
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ns.Sweep(time.Now())
			case <-ns.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("No-show sweep started")
}

func (ns *NoShowScheduler) Stop() {
	close(ns.StopChan)
}

// Sweep memproses semua entri NOTIFIED yang deadline-nya sudah lewat.
func (ns *NoShowScheduler) Sweep(now time.Time) {
	entries, err := ns.store.ExpiredNotifications(now)
	if err != nil {
		utils.ErrorLogger.Printf("No-show sweep failed: %v", err)
		return
	}

	for _, entry := range entries {
		if entry.OfferedTableID == nil {
			continue
		}
		ns.Expire(entry.ConfirmationCode, *entry.OfferedTableID, now)
	}
}

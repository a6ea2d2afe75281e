package seating

import (
	"fmt"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/events"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
)

// JoinResult adalah hasil sebuah join-request. TableID nil berarti
// party masuk antrean tanpa meja.
type JoinResult struct {
	ConfirmationCode string `json:"confirmation_code"`
	TableID          *uint  `json:"table_id,omitempty"`
}

// AdmissionService memutuskan apakah party mendapat meja sekarang,
// nanti, atau tidak sama sekali. Urutan "evaluate -> commit -> reload"
// diserialkan lewat satu mutex; kontensinya hanya beberapa request
// front-desk sehingga lock global lebih murah daripada lock per meja.
type AdmissionService struct {
	store *store.SeatingStore
	cache *cache.RestaurantCache
	eval  *Evaluator
	sched *NoShowScheduler

	mu sync.Mutex
}

func NewAdmissionService(st *store.SeatingStore, rc *cache.RestaurantCache, ev *Evaluator) *AdmissionService {
	return &AdmissionService{store: st, cache: rc, eval: ev}
}

// UseScheduler memasang scheduler no-show; dipisah dari constructor
// karena scheduler juga butuh referensi balik ke service ini.
func (s *AdmissionService) UseScheduler(sched *NoShowScheduler) {
	s.sched = sched
}

// Join menjalankan state machine admission untuk walk-in / join antrean:
// authenticate -> jam buka -> duplicate guard -> fairness -> best-fit.
func (s *AdmissionService) Join(userID uint, partySize int, now time.Time) (*JoinResult, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if partySize < 1 {
		return nil, ErrInvalidPartySize
	}

	snap := s.cache.Snapshot()
	if snap == nil || !snap.IsOpenAt(now) {
		return nil, ErrRestaurantClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	open, err := s.store.HasOpenEngagement(userID)
	if err != nil {
		return nil, fmt.Errorf("duplicate guard failed: %w", err)
	}
	if open {
		return nil, ErrAlreadyInList
	}

	code := utils.NewConfirmationCode()

	// Fairness: selama ada party yang sudah menunggu, pendatang baru
	// tidak boleh menyalip walau kapasitas cukup.
	waiters, err := s.store.CountActiveWaiters()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect waiting list: %w", err)
	}

	if waiters == 0 {
		result, err := s.trySeatNow(code, userID, partySize, now)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	return s.enqueue(code, userID, partySize, now)
}

// trySeatNow iterasi kandidat best-fit; nil result berarti tidak ada
// meja yang lolos feasibility.
func (s *AdmissionService) trySeatNow(code string, userID uint, partySize int, now time.Time) (*JoinResult, error) {
	outlook, err := s.eval.Outlook(now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute capacity outlook: %w", err)
	}

	candidates, err := s.eval.CandidateTables(partySize)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate tables: %w", err)
	}

	for _, table := range candidates {
		if !outlook.CanSeatNow(table) {
			continue
		}

		visit, err := s.store.InsertVisitAndOpenBill(code, userID, table.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to commit seating: %w", err)
		}

		if err := s.cache.Reload(); err != nil {
			// Store dan cache sekarang divergen; jauh lebih serius
			// daripada store failure biasa.
			utils.ErrorLogger.Printf(
				"CRITICAL: table %d committed but cache reload failed: %v", table.ID, err)
			return nil, fmt.Errorf("cache reload failed after seating commit: %w", err)
		}

		utils.InfoLogger.Printf("Party of %d seated at table %d (code=%s)",
			partySize, table.ID, code)
		events.BroadcastVisitStarted(*visit)

		tableID := table.ID
		return &JoinResult{ConfirmationCode: code, TableID: &tableID}, nil
	}

	return nil, nil
}

func (s *AdmissionService) enqueue(code string, userID uint, partySize int, now time.Time) (*JoinResult, error) {
	entry := models.WaitingListEntry{
		ConfirmationCode: code,
		UserID:           userID,
		GuestCount:       partySize,
		JoinedAt:         now,
		Status:           models.WaitingListWaiting,
	}
	if err := s.store.InsertWaitingListEntry(&entry); err != nil {
		return nil, fmt.Errorf("failed to enqueue party: %w", err)
	}

	utils.InfoLogger.Printf("Party of %d enqueued as waiting (code=%s)", partySize, code)
	events.BroadcastWaitlistJoined(entry)

	return &JoinResult{ConfirmationCode: code}, nil
}

// OfferTable menawarkan meja yang baru bebas ke party WAITING paling
// lama yang muat. Dipanggil saat visit selesai, saat no-show membebaskan
// meja, dan saat entri notified dibatalkan.
func (s *AdmissionService) OfferTable(tableID uint, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offerTableLocked(tableID, now)
}

func (s *AdmissionService) offerTableLocked(tableID uint, now time.Time) error {
	table, err := s.store.GetTable(tableID)
	if err != nil {
		return fmt.Errorf("failed to load table %d: %w", tableID, err)
	}
	if table.Status != models.TableAvailable {
		return nil
	}

	entry, err := s.store.OldestWaitingForCapacity(table.Capacity)
	if err != nil {
		return fmt.Errorf("failed to find waiting party for table %d: %w", tableID, err)
	}
	if entry == nil {
		return nil
	}

	deadline := now.Add(NoShowGrace)
	ok, err := s.store.MarkEntryNotified(entry.ConfirmationCode, tableID, now, deadline)
	if err != nil {
		return fmt.Errorf("failed to notify entry %s: %w", entry.ConfirmationCode, err)
	}
	if !ok {
		return nil
	}

	utils.InfoLogger.Printf("Entry %s notified for table %d (deadline=%s)",
		entry.ConfirmationCode, tableID, deadline.Format(time.RFC3339))
	events.BroadcastWaitlistNotified(*entry, tableID)

	if s.sched != nil {
		s.sched.Arm(entry.ConfirmationCode, tableID)
	}
	return nil
}

// CheckIn -> party NOTIFIED datang; dudukkan di meja yang ditawarkan.
// Confirmation code entri dipakai juga oleh visit (correlation key).
func (s *AdmissionService) CheckIn(code string, now time.Time) (*models.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.GetEntry(code)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry %s: %w", code, err)
	}
	if entry.IsTerminal() {
		return nil, ErrEntryTerminal
	}
	if entry.Status != models.WaitingListNotified || entry.OfferedTableID == nil {
		return nil, ErrNoTableOffered
	}

	visit, err := s.store.InsertVisitAndOpenBill(code, entry.UserID, *entry.OfferedTableID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to seat notified party: %w", err)
	}

	if _, err := s.store.AdvanceEntryStatus(code, models.WaitingListNotified, models.WaitingListArrived); err != nil {
		return nil, fmt.Errorf("failed to mark entry arrived: %w", err)
	}

	if err := s.cache.Reload(); err != nil {
		utils.ErrorLogger.Printf(
			"CRITICAL: check-in for %s committed but cache reload failed: %v", code, err)
		return nil, fmt.Errorf("cache reload failed after check-in: %w", err)
	}

	utils.InfoLogger.Printf("Entry %s checked in at table %d", code, visit.TableID)
	events.BroadcastVisitStarted(*visit)
	return visit, nil
}

// Cancel -> party keluar antrean sukarela. Meja yang sempat ditawarkan
// langsung dilempar ke party berikutnya.
func (s *AdmissionService) Cancel(code string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.GetEntry(code)
	if err != nil {
		return fmt.Errorf("failed to load entry %s: %w", code, err)
	}
	if entry.IsTerminal() {
		return ErrEntryTerminal
	}

	if _, err := s.store.AdvanceEntryStatus(code, entry.Status, models.WaitingListCancelled); err != nil {
		return fmt.Errorf("failed to cancel entry %s: %w", code, err)
	}

	utils.InfoLogger.Printf("Entry %s cancelled", code)
	events.BroadcastWaitlistCancelled(code)

	if entry.Status == models.WaitingListNotified && entry.OfferedTableID != nil {
		return s.offerTableLocked(*entry.OfferedTableID, now)
	}
	return nil
}

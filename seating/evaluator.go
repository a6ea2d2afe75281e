package seating

import (
	"time"

	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/store"
)

// DefaultLookahead adalah window ke depan tempat reservasi yang akan
// datang dilindungi dari walk-in.
const DefaultLookahead = 2 * time.Hour

// CapacityOutlook adalah angka kapasitas yang dihitung sekali per
// keputusan admission lalu dipakai untuk semua kandidat meja.
type CapacityOutlook struct {
	Total        int
	Occupied     int
	FutureGuests int
}

// CanSeatNow -> sisa kapasitas setelah hipotetis memberikan meja ini
// masih cukup untuk semua tamu yang due di window lookahead. Meja
// diberikan utuh, jadi ukuran party tidak ikut rumus.
func (o CapacityOutlook) CanSeatNow(table models.Table) bool {
	return o.Total-o.Occupied-table.Capacity >= o.FutureGuests
}

// Evaluator menghitung kelayakan seating terhadap reservasi mendatang.
type Evaluator struct {
	store     *store.SeatingStore
	lookahead time.Duration
}

func NewEvaluator(st *store.SeatingStore) *Evaluator {
	return &Evaluator{store: st, lookahead: DefaultLookahead}
}

// Lookahead mengembalikan window proteksi yang dipakai evaluator.
func (e *Evaluator) Lookahead() time.Duration {
	return e.lookahead
}

// CandidateTables -> meja available berkapasitas >= partySize, urut
// kapasitas naik (best-fit), supaya meja besar tersisa untuk party besar.
func (e *Evaluator) CandidateTables(partySize int) ([]models.Table, error) {
	return e.store.ListFreeTablesWithCapacityAtLeast(partySize)
}

// Outlook menghitung total/occupied/future sekali untuk satu keputusan.
func (e *Evaluator) Outlook(now time.Time) (CapacityOutlook, error) {
	var o CapacityOutlook
	var err error

	if o.Total, err = e.store.TotalCapacity(); err != nil {
		return o, err
	}
	if o.Occupied, err = e.store.OccupiedCapacity(); err != nil {
		return o, err
	}
	if o.FutureGuests, err = e.store.SumGuestsArrivingInWindow(now, now.Add(e.lookahead)); err != nil {
		return o, err
	}
	return o, nil
}

// CanSeatNow -> versi sekali pakai untuk satu meja; loop admission
// memakai Outlook + CapacityOutlook.CanSeatNow agar hitungannya sekali.
func (e *Evaluator) CanSeatNow(table models.Table, now time.Time) (bool, error) {
	outlook, err := e.Outlook(now)
	if err != nil {
		return false, err
	}
	return outlook.CanSeatNow(table), nil
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
	"gorm.io/gorm"
)

// SeatingController adalah pintu masuk HTTP untuk core admission:
// join antrean / walk-in, check-in setelah dipanggil, dan cancel.
type SeatingController struct {
	Admission *seating.AdmissionService
	Store     *store.SeatingStore
}

func NewSeatingController(adm *seating.AdmissionService, st *store.SeatingStore) *SeatingController {
	return &SeatingController{Admission: adm, Store: st}
}

// JoinWaitingList -> walk-in atau join antrean. Sukses selalu membawa
// confirmation code; table_id ikut kalau langsung dapat meja.
func (sc *SeatingController) JoinWaitingList(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		utils.RespondTag(c, http.StatusUnauthorized,
			seating.StatusNotAuthenticated, "request carries no authenticated user")
		return
	}

	var req struct {
		PartySize int `json:"party_size" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := sc.Admission.Join(userID, req.PartySize, time.Now())
	if err != nil {
		respondSeatingError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, seating.StatusUpdateSuccess, result)
}

// CheckIn -> party NOTIFIED menekan check-in di kiosk/app
func (sc *SeatingController) CheckIn(c *gin.Context) {
	code := c.Param("code")

	visit, err := sc.Admission.CheckIn(code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, seating.ErrNoTableOffered),
			errors.Is(err, seating.ErrEntryTerminal):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondTag(c, http.StatusInternalServerError,
				seating.StatusInternalError, err.Error())
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, seating.StatusUpdateSuccess, visit)
}

// CancelEntry -> keluar antrean sukarela
func (sc *SeatingController) CancelEntry(c *gin.Context) {
	code := c.Param("code")

	if err := sc.Admission.Cancel(code, time.Now()); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, seating.ErrEntryTerminal):
			utils.RespondError(c, http.StatusConflict, err)
		default:
			utils.RespondTag(c, http.StatusInternalServerError,
				seating.StatusInternalError, err.Error())
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, seating.StatusUpdateSuccess, gin.H{
		"confirmation_code": code,
	})
}

// GetWaitingList -> antrean aktif urut kedatangan, untuk staff
func (sc *SeatingController) GetWaitingList(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "staff" && roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	entries, err := sc.Store.ListWaiting()
	if err != nil {
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, err.Error())
		return
	}

	type queuedEntry struct {
		Position         int        `json:"position"`
		ConfirmationCode string     `json:"confirmation_code"`
		GuestCount       int        `json:"guest_count"`
		Status           string     `json:"status"`
		JoinedAt         time.Time  `json:"joined_at"`
		NotifiedAt       *time.Time `json:"notified_at,omitempty"`
		OfferedTableID   *uint      `json:"offered_table_id,omitempty"`
	}
	out := make([]queuedEntry, 0, len(entries))
	for i, e := range entries {
		out = append(out, queuedEntry{
			Position:         i + 1,
			ConfirmationCode: e.ConfirmationCode,
			GuestCount:       e.GuestCount,
			Status:           e.Status,
			JoinedAt:         e.JoinedAt,
			NotifiedAt:       e.NotifiedAt,
			OfferedTableID:   e.OfferedTableID,
		})
	}

	utils.RespondJSON(c, http.StatusOK, "Waiting list", out)
}

// currentUserID -> user id hasil AuthMiddleware; 0 kalau tidak ada
func currentUserID(c *gin.Context) uint {
	v, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	id, ok := v.(uint)
	if !ok {
		return 0
	}
	return id
}

// respondSeatingError memetakan error core ke status tag + HTTP code.
// Rejection business-rule memakai 4xx, persistence failure 500.
func respondSeatingError(c *gin.Context, err error) {
	tag := seating.StatusFor(err)
	switch tag {
	case seating.StatusNotAuthenticated:
		utils.RespondTag(c, http.StatusUnauthorized, tag, err.Error())
	case seating.StatusRestaurantClosed, seating.StatusAlreadyInList:
		utils.RespondTag(c, http.StatusConflict, tag, err.Error())
	default:
		if errors.Is(err, seating.ErrInvalidPartySize) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondTag(c, http.StatusInternalServerError, tag, err.Error())
	}
}

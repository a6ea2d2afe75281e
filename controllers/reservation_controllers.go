package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-seating/cache"
	"github.com/yeremiapane/restaurant-seating/models"
	"github.com/yeremiapane/restaurant-seating/seating"
	"github.com/yeremiapane/restaurant-seating/store"
	"github.com/yeremiapane/restaurant-seating/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB    *gorm.DB
	Store *store.SeatingStore
	Cache *cache.RestaurantCache
}

func NewReservationController(db *gorm.DB, st *store.SeatingStore, rc *cache.RestaurantCache) *ReservationController {
	return &ReservationController{DB: db, Store: st, Cache: rc}
}

// CreateReservation -> booking slot di masa depan. Guest count-nya ikut
// dihitung SumGuestsArrivingInWindow begitu slotnya masuk lookahead.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		utils.RespondTag(c, http.StatusUnauthorized,
			seating.StatusNotAuthenticated, "request carries no authenticated user")
		return
	}

	var req struct {
		GuestCount  int       `json:"guest_count" binding:"required,min=1"`
		ReservedFor time.Time `json:"reserved_for" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !req.ReservedFor.After(time.Now()) {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("reserved_for must be in the future"))
		return
	}

	snap := rc.Cache.Snapshot()
	if snap == nil || !snap.IsOpenAt(req.ReservedFor) {
		utils.RespondTag(c, http.StatusConflict,
			seating.StatusRestaurantClosed, "restaurant is closed at the requested time")
		return
	}
	if req.GuestCount > snap.TotalCapacity {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("party of %d exceeds restaurant capacity", req.GuestCount))
		return
	}

	open, err := rc.Store.HasOpenEngagement(userID)
	if err != nil {
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, err.Error())
		return
	}
	if open {
		utils.RespondTag(c, http.StatusConflict,
			seating.StatusAlreadyInList, seating.ErrAlreadyInList.Error())
		return
	}

	reservation := models.Reservation{
		ConfirmationCode: utils.NewConfirmationCode(),
		UserID:           userID,
		GuestCount:       req.GuestCount,
		ReservedFor:      req.ReservedFor,
		Status:           models.ReservationActive,
	}
	if err := rc.DB.Create(&reservation).Error; err != nil {
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, err.Error())
		return
	}

	utils.InfoLogger.Printf("Reservation %s created for %d guests at %s",
		reservation.ConfirmationCode, reservation.GuestCount,
		reservation.ReservedFor.Format(time.RFC3339))
	utils.RespondJSON(c, http.StatusCreated, seating.StatusUpdateSuccess, reservation)
}

// CancelReservation -> pemilik membatalkan; status terminal ditolak
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	userID := currentUserID(c)
	code := c.Param("code")

	var reservation models.Reservation
	if err := rc.DB.Where("confirmation_code = ?", code).First(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if reservation.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}
	if reservation.Status != models.ReservationActive {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("reservation is already %s", reservation.Status))
		return
	}

	reservation.Status = models.ReservationCancelled
	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondTag(c, http.StatusInternalServerError,
			seating.StatusInternalError, err.Error())
		return
	}

	utils.InfoLogger.Printf("Reservation %s cancelled", code)
	utils.RespondJSON(c, http.StatusOK, seating.StatusUpdateSuccess, reservation)
}

// GetAllReservations -> untuk staff, default hanya yang active
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "staff" && roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	status := c.Query("status")
	if status == "" {
		status = models.ReservationActive
	}

	var reservations []models.Reservation
	if err := rc.DB.
		Where("status = ?", status).
		Order("reserved_for ASC").
		Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservations with status: "+status, reservations)
}
